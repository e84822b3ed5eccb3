package sqlite

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

func (s *Store) AddTrigger(t models.Trigger) error {
	repeats := 0
	if t.Repeats {
		repeats = 1
	}
	_, err := s.db.Exec(`
		INSERT INTO triggers (id, weekday, hour, minute, title, body, repeats, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, int(t.Weekday), t.Hour, t.Minute, t.Title, t.Body, repeats, t.CreatedAt.UTC().Format(timestampFormat))
	if err != nil {
		return fmt.Errorf("failed to add trigger %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) RemoveTriggers(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	_, err := s.db.Exec(`DELETE FROM triggers WHERE id IN (`+placeholders+`)`, args...)
	return err
}

func (s *Store) GetAllTriggers() ([]models.Trigger, error) {
	rows, err := s.db.Query(`
		SELECT id, weekday, hour, minute, title, body, repeats, created_at, last_fired_at
		FROM triggers ORDER BY weekday, hour, minute, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var triggers []models.Trigger
	for rows.Next() {
		var t models.Trigger
		var weekday, repeats int
		var createdAt string
		var lastFiredAt sql.NullString
		if err := rows.Scan(&t.ID, &weekday, &t.Hour, &t.Minute, &t.Title, &t.Body, &repeats, &createdAt, &lastFiredAt); err != nil {
			return nil, err
		}
		t.Weekday = time.Weekday(weekday)
		t.Repeats = repeats != 0
		t.CreatedAt, err = time.Parse(timestampFormat, createdAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse created_at: %w", err)
		}
		if lastFiredAt.Valid {
			fired, err := time.Parse(timestampFormat, lastFiredAt.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse last_fired_at: %w", err)
			}
			t.LastFiredAt = &fired
		}
		triggers = append(triggers, t)
	}
	return triggers, rows.Err()
}

func (s *Store) MarkTriggerFired(id string, at time.Time) error {
	res, err := s.db.Exec(`UPDATE triggers SET last_fired_at = ? WHERE id = ?`, at.UTC().Format(timestampFormat), id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("trigger %s: %w", id, storage.ErrNotFound)
	}
	return nil
}
