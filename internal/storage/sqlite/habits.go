package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

const habitColumns = `id, name, color, weekdays, reminder_enabled, reminder_text, reminder_time, date_added, notification_ids`

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var color, weekdays, reminderTime, dateAdded, notificationIDs string
	var reminderEnabled int

	if err := row.Scan(&h.ID, &h.Name, &color, &weekdays, &reminderEnabled, &h.ReminderText, &reminderTime, &dateAdded, &notificationIDs); err != nil {
		return models.Habit{}, err
	}

	h.Color = models.ColorTag(color)
	h.ReminderEnabled = reminderEnabled != 0

	if err := json.Unmarshal([]byte(weekdays), &h.Weekdays); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse weekdays: %w", err)
	}
	if err := json.Unmarshal([]byte(notificationIDs), &h.NotificationIDs); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse notification_ids: %w", err)
	}

	var err error
	h.ReminderTime, err = models.ParseTimeOfDay(reminderTime)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse reminder_time: %w", err)
	}
	h.DateAdded, err = time.Parse(timestampFormat, dateAdded)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse date_added: %w", err)
	}
	h.DateAdded = h.DateAdded.Local()

	return h, nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = ?`, id)
	h, err := scanHabit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Habit{}, fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	return h, err
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	rows, err := s.db.Query(`SELECT ` + habitColumns + ` FROM habits ORDER BY date_added DESC, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var habits []models.Habit
	for rows.Next() {
		h, err := scanHabit(rows)
		if err != nil {
			return nil, err
		}
		habits = append(habits, h)
	}
	return habits, rows.Err()
}

func (s *Store) Begin() (storage.Tx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return &habitTx{tx: tx}, nil
}

type habitTx struct {
	tx *sql.Tx
}

func (t *habitTx) PutHabit(h models.Habit) error {
	if err := h.Validate(); err != nil {
		return err
	}

	weekdays, err := json.Marshal(h.Weekdays)
	if err != nil {
		return err
	}
	ids := h.NotificationIDs
	if ids == nil {
		ids = []string{}
	}
	notificationIDs, err := json.Marshal(ids)
	if err != nil {
		return err
	}

	reminderEnabled := 0
	if h.ReminderEnabled {
		reminderEnabled = 1
	}

	_, err = t.tx.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			color = excluded.color,
			weekdays = excluded.weekdays,
			reminder_enabled = excluded.reminder_enabled,
			reminder_text = excluded.reminder_text,
			reminder_time = excluded.reminder_time,
			notification_ids = excluded.notification_ids`,
		h.ID, h.Name, string(h.Color), string(weekdays), reminderEnabled, h.ReminderText,
		h.ReminderTime.String(), h.DateAdded.UTC().Format(timestampFormat), string(notificationIDs))
	return err
}

func (t *habitTx) DeleteHabit(id string) error {
	res, err := t.tx.Exec(`DELETE FROM habits WHERE id = ?`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("habit %s: %w", id, storage.ErrNotFound)
	}
	return nil
}

func (t *habitTx) Commit() error {
	return t.tx.Commit()
}

func (t *habitTx) Rollback() error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return err
	}
	return nil
}
