package reminder

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/julianstephens/habitual/internal/models"
)

// fakeCenter records calls and fails on demand.
type fakeCenter struct {
	mu       sync.Mutex
	granted  bool
	authErr  error
	failOn   int // 1-based Add call that fails; 0 never fails
	addCalls int
	pending  map[string]models.Trigger
	removed  [][]string
}

func newFakeCenter() *fakeCenter {
	return &fakeCenter{granted: true, pending: map[string]models.Trigger{}}
}

var errAdd = errors.New("add failed")

func (c *fakeCenter) RequestAuthorization(context.Context) (bool, error) {
	return c.granted, c.authErr
}

func (c *fakeCenter) Add(_ context.Context, t models.Trigger) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.addCalls++
	if c.failOn > 0 && c.addCalls == c.failOn {
		return errAdd
	}
	c.pending[t.ID] = t
	return nil
}

func (c *fakeCenter) Remove(_ context.Context, ids []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.removed = append(c.removed, slices.Clone(ids))
	for _, id := range ids {
		delete(c.pending, id)
	}
	return nil
}

func (c *fakeCenter) Pending(context.Context) ([]models.Trigger, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []models.Trigger
	for _, t := range c.pending {
		out = append(out, t)
	}
	return out, nil
}
