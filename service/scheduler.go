package service

import (
	"context"
	"fmt"
	"time"

	"github.com/AZREAL-08/contractiq-backend/config"
	"github.com/AZREAL-08/contractiq-backend/model"
	"github.com/AZREAL-08/contractiq-backend/pkg/dates"
	"github.com/AZREAL-08/contractiq-backend/pkg/logger"
)

// SchedulingError reports a contract whose termination date cannot be
// computed from its licensing terms. Non-fatal: batch callers log it and
// continue with the next contract.
type SchedulingError struct {
	Reason string
	Err    error
}

func (e *SchedulingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot schedule notifications: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot schedule notifications: %s", e.Reason)
}

func (e *SchedulingError) Unwrap() error { return e.Err }

// Scheduler derives a reminder schedule from a validated contract record and
// persists it in the notification store.
type Scheduler struct {
	store NotificationStore
	days  []int
	now   func() time.Time
}

func NewScheduler(store NotificationStore, cfg *config.NotificationsConfig) *Scheduler {
	return &Scheduler{
		store: store,
		days:  cfg.Days,
		now:   time.Now,
	}
}

// Schedule builds one entry per configured offset and writes the schedule
// under contractID, overwriting any previous schedule for that contract. When
// contractID is empty one is generated from the current timestamp. Entries
// are created for every offset even when their date is already in the past;
// the dispatcher's exact-date match simply never fires those.
//
// Returns the contract ID the schedule was stored under.
func (s *Scheduler) Schedule(ctx context.Context, record *model.ContractRecord, recipientEmail, contractID string) (string, *model.NotificationSchedule, error) {
	effectiveStr := record.EffectiveDate()
	if effectiveStr == "" {
		return "", nil, &SchedulingError{Reason: "no effective date in contract data"}
	}

	effective, err := dates.ParseDate(effectiveStr)
	if err != nil {
		return "", nil, &SchedulingError{Reason: fmt.Sprintf("could not parse effective date %q", effectiveStr), Err: err}
	}

	termination, err := dates.ComputeTermination(effective, record.TermDuration())
	if err != nil {
		return "", nil, &SchedulingError{Reason: fmt.Sprintf("could not compute termination date from %q", record.TermDuration()), Err: err}
	}

	if contractID == "" {
		contractID = "contract_" + s.now().Format("20060102150405")
	}

	entries := make([]*model.NotificationEntry, 0, len(s.days))
	for _, daysBefore := range s.days {
		entries = append(entries, &model.NotificationEntry{
			DaysBefore:       daysBefore,
			NotificationDate: termination.AddDate(0, 0, -daysBefore).Format(dates.ISO),
			Sent:             false,
		})
	}

	schedule := &model.NotificationSchedule{
		RecipientEmail:  recipientEmail,
		ContractName:    record.ContractName(),
		TerminationDate: termination.Format(dates.ISO),
		Notifications:   entries,
	}

	err = s.store.Update(func(schedules map[string]*model.NotificationSchedule) (bool, error) {
		schedules[contractID] = schedule
		return true, nil
	})
	if err != nil {
		return "", nil, err
	}

	ctx = context.WithValue(ctx, logger.ContractIDKey, contractID)
	logger.Info(ctx, "scheduled notifications",
		"termination_date", schedule.TerminationDate,
		"entries", len(entries),
	)
	return contractID, schedule, nil
}
