package postgres

import (
	"database/sql"
	"fmt"
	"time"

	pq "github.com/lib/pq"

	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

func (s *Store) AddTrigger(t models.Trigger) error {
	_, err := s.db.Exec(`
		INSERT INTO triggers (id, weekday, hour, minute, title, body, repeats, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		t.ID, int(t.Weekday), t.Hour, t.Minute, t.Title, t.Body, t.Repeats, t.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to add trigger %s: %w", t.ID, err)
	}
	return nil
}

func (s *Store) RemoveTriggers(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.db.Exec(`DELETE FROM triggers WHERE id = ANY($1)`, pq.Array(ids))
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
		var weekday int
		var lastFiredAt sql.NullTime
		if err := rows.Scan(&t.ID, &weekday, &t.Hour, &t.Minute, &t.Title, &t.Body, &t.Repeats, &t.CreatedAt, &lastFiredAt); err != nil {
			return nil, err
		}
		t.Weekday = time.Weekday(weekday)
		if lastFiredAt.Valid {
			fired := lastFiredAt.Time
			t.LastFiredAt = &fired
		}
		triggers = append(triggers, t)
	}
	return triggers, rows.Err()
}

func (s *Store) MarkTriggerFired(id string, at time.Time) error {
	res, err := s.db.Exec(`UPDATE triggers SET last_fired_at = $1 WHERE id = $2`, at, id)
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
