package diskv

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

// op is one staged write; a nil value erases the key.
type op struct {
	key   string
	value []byte
}

type habitTx struct {
	s    *Store
	ops  []op
	done bool
}

func (s *Store) Begin() (storage.Tx, error) {
	if s.d == nil {
		return nil, fmt.Errorf("store not loaded")
	}
	return &habitTx{s: s}, nil
}

func (t *habitTx) PutHabit(h models.Habit) error {
	if t.done {
		return errors.New("transaction already finished")
	}
	if err := h.Validate(); err != nil {
		return err
	}

	// DateAdded is immutable once stored.
	if prior, err := t.s.GetHabit(h.ID); err == nil {
		h.DateAdded = prior.DateAdded
	}

	data, err := json.Marshal(h)
	if err != nil {
		return err
	}
	t.ops = append(t.ops, op{key: habitKey(h.ID), value: data})
	return nil
}

func (t *habitTx) DeleteHabit(id string) error {
	if t.done {
		return errors.New("transaction already finished")
	}
	if _, err := t.s.GetHabit(id); err != nil {
		return err
	}
	t.ops = append(t.ops, op{key: habitKey(id)})
	return nil
}

// Commit applies the staged writes. Each record write is a temp file plus
// rename; if a later write fails, earlier ones are restored.
func (t *habitTx) Commit() error {
	if t.done {
		return errors.New("transaction already finished")
	}
	t.done = true

	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	var undo []op
	for _, o := range t.ops {
		prior := op{key: o.key}
		if t.s.d.Has(o.key) {
			data, err := t.s.d.Read(o.key)
			if err != nil {
				t.restore(undo)
				return fmt.Errorf("failed to read %s: %w", o.key, err)
			}
			prior.value = data
		}

		if err := t.apply(o); err != nil {
			t.restore(undo)
			return fmt.Errorf("failed to write %s: %w", o.key, err)
		}
		undo = append(undo, prior)
	}
	return nil
}

func (t *habitTx) apply(o op) error {
	if o.value == nil {
		if !t.s.d.Has(o.key) {
			return nil
		}
		return t.s.d.Erase(o.key)
	}
	return t.s.d.Write(o.key, o.value)
}

func (t *habitTx) restore(undo []op) {
	for i := len(undo) - 1; i >= 0; i-- {
		if err := t.apply(undo[i]); err != nil {
			logger.Error("Failed to restore record after aborted commit", "key", undo[i].key, "error", err)
		}
	}
}

func (t *habitTx) Rollback() error {
	t.done = true
	t.ops = nil
	return nil
}
