package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	pq "github.com/lib/pq"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

const habitColumns = `id, name, color, weekdays, reminder_enabled, reminder_text, reminder_time, date_added, notification_ids`

type scanner interface {
	Scan(dest ...any) error
}

func scanHabit(row scanner) (models.Habit, error) {
	var h models.Habit
	var color, reminderTime string
	var weekdays, notificationIDs pq.StringArray

	err := row.Scan(&h.ID, &h.Name, &color, &weekdays, &h.ReminderEnabled, &h.ReminderText, &reminderTime, &h.DateAdded, &notificationIDs)
	if err != nil {
		return models.Habit{}, err
	}

	h.Color = models.ColorTag(color)
	h.Weekdays = []string(weekdays)
	h.NotificationIDs = []string(notificationIDs)
	h.ReminderTime, err = models.ParseTimeOfDay(reminderTime)
	if err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse reminder_time: %w", err)
	}
	return h, nil
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	row := s.db.QueryRow(`SELECT `+habitColumns+` FROM habits WHERE id = $1`, id)
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
	ids := h.NotificationIDs
	if ids == nil {
		ids = []string{}
	}

	_, err := t.tx.Exec(`
		INSERT INTO habits (`+habitColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			color = EXCLUDED.color,
			weekdays = EXCLUDED.weekdays,
			reminder_enabled = EXCLUDED.reminder_enabled,
			reminder_text = EXCLUDED.reminder_text,
			reminder_time = EXCLUDED.reminder_time,
			notification_ids = EXCLUDED.notification_ids`,
		h.ID, h.Name, string(h.Color), pq.Array(h.Weekdays), h.ReminderEnabled, h.ReminderText,
		h.ReminderTime.String(), h.DateAdded, pq.Array(ids))
	return err
}

func (t *habitTx) DeleteHabit(id string) error {
	res, err := t.tx.Exec(`DELETE FROM habits WHERE id = $1`, id)
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
