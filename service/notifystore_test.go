package service

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"testing"

	"github.com/AZREAL-08/contractiq-backend/config"
	"github.com/AZREAL-08/contractiq-backend/model"
)

func newTestFileStore(t *testing.T) *FileNotificationStore {
	t.Helper()
	return NewFileNotificationStore(&config.StoreConfig{
		Path: filepath.Join(t.TempDir(), "notifications.json"),
	})
}

func sampleSchedules() map[string]*model.NotificationSchedule {
	return map[string]*model.NotificationSchedule{
		"contract_20250301120000": {
			RecipientEmail:  "legal@alpha.test",
			ContractName:    "Alpha Corp - Beta Ltd",
			TerminationDate: "2025-03-10",
			Notifications: []*model.NotificationEntry{
				{DaysBefore: 1, NotificationDate: "2025-03-09", Sent: false},
				{DaysBefore: 3, NotificationDate: "2025-03-07", Sent: true},
				{DaysBefore: 5, NotificationDate: "2025-03-05", Sent: false},
			},
		},
		"contract_20250115090000": {
			RecipientEmail:  "ops@gamma.test",
			ContractName:    "Gamma Inc - Delta LLC",
			TerminationDate: "2025-06-01",
			Notifications:   []*model.NotificationEntry{},
		},
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := newTestFileStore(t)
	want := sampleSchedules()

	if err := store.Save(want); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Round trip mismatch:\ngot  %+v\nwant %+v", got, want)
	}

	// Save and load again: still identical
	if err := store.Save(got); err != nil {
		t.Fatalf("Second save failed: %v", err)
	}
	again, err := store.Load()
	if err != nil {
		t.Fatalf("Second load failed: %v", err)
	}
	if !reflect.DeepEqual(again, want) {
		t.Errorf("Second round trip mismatch: %+v", again)
	}
}

func TestFileStoreRoundTripEmpty(t *testing.T) {
	store := newTestFileStore(t)

	if err := store.Save(map[string]*model.NotificationSchedule{}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty store, got %d schedules", len(got))
	}
}

func TestFileStoreLoadMissingFile(t *testing.T) {
	store := newTestFileStore(t)

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Expected empty store for missing file, got error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Expected empty store, got %d schedules", len(got))
	}
}

func TestFileStoreLoadCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notifications.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to write corrupt file: %v", err)
	}

	store := NewFileNotificationStore(&config.StoreConfig{Path: path})
	_, err := store.Load()
	if err == nil {
		t.Fatal("Expected error for corrupt store file")
	}
}

func TestFileStoreLoadNullSchedule(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"null schedule", `{"contract-a": null}`},
		{"null entry", `{
			"contract-a": {
				"recipient_email": "legal@alpha.test",
				"contract_name": "Alpha Corp - Beta Ltd",
				"termination_date": "2025-03-10",
				"notifications": [null]
			}
		}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "notifications.json")
			if err := os.WriteFile(path, []byte(tt.doc), 0o644); err != nil {
				t.Fatalf("Failed to write store file: %v", err)
			}

			store := NewFileNotificationStore(&config.StoreConfig{Path: path})
			_, err := store.Load()
			if err == nil {
				t.Fatal("Expected error for null value in store document")
			}
			if !strings.Contains(err.Error(), "contract-a") {
				t.Errorf("Expected offending contract ID in error, got: %v", err)
			}
		})
	}
}

func TestFileStoreUpdate(t *testing.T) {
	store := newTestFileStore(t)

	err := store.Update(func(schedules map[string]*model.NotificationSchedule) (bool, error) {
		schedules["contract-a"] = sampleSchedules()["contract_20250301120000"]
		return true, nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got["contract-a"] == nil {
		t.Fatal("Expected update to be persisted")
	}
}

func TestFileStoreUpdateUnchangedDoesNotWrite(t *testing.T) {
	store := newTestFileStore(t)

	err := store.Update(func(schedules map[string]*model.NotificationSchedule) (bool, error) {
		return false, nil
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if _, err := os.Stat(store.path); !os.IsNotExist(err) {
		t.Error("Unchanged update should not create the store file")
	}
}

func TestFileStoreUpdateErrorDoesNotWrite(t *testing.T) {
	store := newTestFileStore(t)
	wantErr := errors.New("boom")

	err := store.Update(func(schedules map[string]*model.NotificationSchedule) (bool, error) {
		schedules["contract-a"] = sampleSchedules()["contract_20250301120000"]
		return true, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("Expected callback error to propagate, got %v", err)
	}
	if _, err := os.Stat(store.path); !os.IsNotExist(err) {
		t.Error("Failed update should not create the store file")
	}
}

// Concurrent updates against one store must all land: each read-modify-write
// holds the lock for its whole sequence, so no writer can clobber another's
// insert with a stale copy of the document.
func TestFileStoreConcurrentUpdates(t *testing.T) {
	store := newTestFileStore(t)
	const writers = 50

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			err := store.Update(func(schedules map[string]*model.NotificationSchedule) (bool, error) {
				schedules[fmt.Sprintf("contract-%d", i)] = &model.NotificationSchedule{
					RecipientEmail:  "legal@alpha.test",
					ContractName:    "Alpha Corp - Beta Ltd",
					TerminationDate: "2025-03-10",
					Notifications:   []*model.NotificationEntry{},
				}
				return true, nil
			})
			if err != nil {
				t.Errorf("Update %d failed: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != writers {
		t.Errorf("Expected %d schedules after concurrent updates, got %d", writers, len(got))
	}
}

func TestFileStoreDocumentFormat(t *testing.T) {
	store := newTestFileStore(t)
	if err := store.Save(sampleSchedules()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(store.path)
	if err != nil {
		t.Fatalf("Failed to read store file: %v", err)
	}

	content := string(data)
	for _, field := range []string{
		`"recipient_email"`, `"contract_name"`, `"termination_date"`,
		`"notifications"`, `"days_before"`, `"notification_date"`, `"sent"`,
	} {
		if !strings.Contains(content, field) {
			t.Errorf("Expected field %s in persisted document", field)
		}
	}
}
