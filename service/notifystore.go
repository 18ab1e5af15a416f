package service

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/AZREAL-08/contractiq-backend/config"
	"github.com/AZREAL-08/contractiq-backend/model"
)

// NotificationStore is the durable mapping from contract ID to its reminder
// schedule. The document is loaded and saved whole; all read-modify-write
// sequences go through Update, which holds the store lock for the whole
// sequence (whole-document overwrite is last-writer-wins, so an unserialized
// racing writer would silently drop entries).
type NotificationStore interface {
	Load() (map[string]*model.NotificationSchedule, error)
	Save(schedules map[string]*model.NotificationSchedule) error
	// Update loads the ledger, applies fn, and rewrites the document if fn
	// reports a change, all under one critical section.
	Update(fn func(schedules map[string]*model.NotificationSchedule) (bool, error)) error
}

// FileNotificationStore persists the schedule map as a single JSON file.
type FileNotificationStore struct {
	path string
	mu   sync.Mutex
}

func NewFileNotificationStore(cfg *config.StoreConfig) *FileNotificationStore {
	return &FileNotificationStore{path: cfg.Path}
}

// Load reads the ledger document. A missing file is an empty store, not an
// error; anything else (unreadable file, corrupt JSON) is terminal for the
// invocation.
func (s *FileNotificationStore) Load() (map[string]*model.NotificationSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save rewrites the whole ledger document.
func (s *FileNotificationStore) Save(schedules map[string]*model.NotificationSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(schedules)
}

// Update runs one load-modify-save sequence atomically with respect to every
// other store operation. When fn returns false the document is not rewritten.
func (s *FileNotificationStore) Update(fn func(schedules map[string]*model.NotificationSchedule) (bool, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedules, err := s.load()
	if err != nil {
		return err
	}
	changed, err := fn(schedules)
	if err != nil {
		return err
	}
	if !changed {
		return nil
	}
	return s.save(schedules)
}

// load must be called with the lock held
func (s *FileNotificationStore) load() (map[string]*model.NotificationSchedule, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]*model.NotificationSchedule), nil
		}
		return nil, fmt.Errorf("failed to read notification store: %w", err)
	}

	schedules := make(map[string]*model.NotificationSchedule)
	if err := json.Unmarshal(data, &schedules); err != nil {
		return nil, fmt.Errorf("failed to parse notification store: %w", err)
	}

	// Null schedules or entries unmarshal to nil pointers; a process that
	// only ever writes real documents treats them as corruption.
	for id, schedule := range schedules {
		if schedule == nil {
			return nil, fmt.Errorf("failed to parse notification store: null schedule for contract %q", id)
		}
		for _, entry := range schedule.Notifications {
			if entry == nil {
				return nil, fmt.Errorf("failed to parse notification store: null entry for contract %q", id)
			}
		}
	}
	return schedules, nil
}

// save must be called with the lock held
func (s *FileNotificationStore) save(schedules map[string]*model.NotificationSchedule) error {
	data, err := json.MarshalIndent(schedules, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal notification store: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write notification store: %w", err)
	}
	return nil
}
