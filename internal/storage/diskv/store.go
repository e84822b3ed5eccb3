// Package diskv stores habits, triggers and settings as one JSON file per
// record using github.com/peterbourgon/diskv.
package diskv

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/julianstephens/habitual/internal/constants"
	"github.com/julianstephens/habitual/internal/logger"
	"github.com/julianstephens/habitual/internal/models"
	"github.com/julianstephens/habitual/internal/storage"
)

var (
	_ storage.Provider = (*Store)(nil)
	_ storage.Watcher  = (*Store)(nil)
)

const (
	habitsBucket   = "habits"
	triggersBucket = "triggers"
	settingsKey    = "settings:current"
	keySep         = ":"
)

type Store struct {
	dir string
	d   *diskv.Diskv
	mu  sync.RWMutex
}

func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) dataPath() string { return filepath.Join(s.dir, "data") }

func (s *Store) open() {
	s.d = diskv.New(diskv.Options{
		BasePath:          s.dataPath(),
		TempDir:           filepath.Join(s.dir, "tmp"),
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
		FilePerm:          0600,
		PathPerm:          0700,
	})
}

func (s *Store) Init() error {
	for _, dir := range []string{
		filepath.Join(s.dataPath(), habitsBucket),
		filepath.Join(s.dataPath(), triggersBucket),
		filepath.Join(s.dir, "tmp"),
	} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	s.open()

	settings, err := s.GetSettings()
	if err != nil {
		settings = models.DefaultSettings()
	}
	models.ApplyDefaultSettings(&settings)
	if err := s.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save default settings: %w", err)
	}
	return nil
}

func (s *Store) Load() error {
	if s.d != nil {
		return nil
	}
	if _, err := os.Stat(s.dataPath()); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName)
	}
	s.open()
	return nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) GetConfigPath() string {
	return s.dir
}

func (s *Store) GetSettings() (models.Settings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := s.d.Read(settingsKey)
	if err != nil {
		return models.Settings{}, fmt.Errorf("settings not found: %w", err)
	}
	var m map[string]string
	if err := json.Unmarshal(data, &m); err != nil {
		return models.Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	return models.MapToSettings(m)
}

func (s *Store) SaveSettings(settings models.Settings) error {
	data, err := json.Marshal(models.SettingsToMap(settings))
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.Write(settingsKey, data)
}

func (s *Store) GetHabit(id string) (models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readHabit(habitKey(id))
}

func (s *Store) readHabit(key string) (models.Habit, error) {
	data, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.Habit{}, fmt.Errorf("habit %s: %w", idFromKey(key), storage.ErrNotFound)
		}
		return models.Habit{}, err
	}
	var h models.Habit
	if err := json.Unmarshal(data, &h); err != nil {
		return models.Habit{}, fmt.Errorf("failed to parse habit %s: %w", idFromKey(key), err)
	}
	return h, nil
}

func (s *Store) GetAllHabits() ([]models.Habit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var habits []models.Habit
	for key := range s.d.KeysPrefix(habitsBucket+keySep, nil) {
		h, err := s.readHabit(key)
		if err != nil {
			logger.Warn("Skipping unreadable habit record", "key", key, "error", err)
			continue
		}
		habits = append(habits, h)
	}
	sort.SliceStable(habits, func(i, j int) bool {
		if habits[i].DateAdded.Equal(habits[j].DateAdded) {
			return habits[i].ID < habits[j].ID
		}
		return habits[i].DateAdded.After(habits[j].DateAdded)
	})
	return habits, nil
}

func (s *Store) AddTrigger(t models.Trigger) error {
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.d.Write(triggerKey(t.ID), data)
}

func (s *Store) RemoveTriggers(ids []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		key := triggerKey(id)
		if !s.d.Has(key) {
			continue
		}
		if err := s.d.Erase(key); err != nil {
			return fmt.Errorf("failed to remove trigger %s: %w", id, err)
		}
	}
	return nil
}

func (s *Store) GetAllTriggers() ([]models.Trigger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var triggers []models.Trigger
	for key := range s.d.KeysPrefix(triggersBucket+keySep, nil) {
		t, err := s.readTrigger(key)
		if err != nil {
			return nil, err
		}
		triggers = append(triggers, t)
	}
	sort.Slice(triggers, func(i, j int) bool {
		a, b := triggers[i], triggers[j]
		if a.Weekday != b.Weekday {
			return a.Weekday < b.Weekday
		}
		if a.At() != b.At() {
			return a.At().String() < b.At().String()
		}
		return a.ID < b.ID
	})
	return triggers, nil
}

func (s *Store) readTrigger(key string) (models.Trigger, error) {
	data, err := s.d.Read(key)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return models.Trigger{}, fmt.Errorf("trigger %s: %w", idFromKey(key), storage.ErrNotFound)
		}
		return models.Trigger{}, err
	}
	var t models.Trigger
	if err := json.Unmarshal(data, &t); err != nil {
		return models.Trigger{}, fmt.Errorf("failed to parse trigger %s: %w", idFromKey(key), err)
	}
	return t, nil
}

func (s *Store) MarkTriggerFired(id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := triggerKey(id)
	t, err := s.readTrigger(key)
	if err != nil {
		return err
	}
	t.LastFiredAt = &at
	data, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return s.d.Write(key, data)
}

func habitKey(id string) string   { return habitsBucket + keySep + id }
func triggerKey(id string) string { return triggersBucket + keySep + id }

func idFromKey(key string) string {
	_, id, _ := strings.Cut(key, keySep)
	return id
}

// keyToPathTransform maps "bucket:id" to <base>/bucket/id.
func keyToPathTransform(key string) *diskv.PathKey {
	bucket, id, ok := strings.Cut(key, keySep)
	if !ok {
		return &diskv.PathKey{FileName: key}
	}
	return &diskv.PathKey{
		Path:     []string{bucket},
		FileName: id,
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	if len(pathKey.Path) == 0 {
		return pathKey.FileName
	}
	return strings.Join(pathKey.Path, keySep) + keySep + pathKey.FileName
}
