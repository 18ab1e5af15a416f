package service

import (
	"context"
	"fmt"
	"html/template"
	"sort"
	"strings"
	"time"

	"github.com/AZREAL-08/contractiq-backend/model"
	"github.com/AZREAL-08/contractiq-backend/pkg/dates"
	"github.com/AZREAL-08/contractiq-backend/pkg/logger"
)

// Sender is the mail-transport collaborator. Delivery is all-or-nothing per
// message.
type Sender interface {
	Send(recipient, subject, htmlBody string) error
}

// DeliveryError reports a mail-transport failure for one entry. The entry is
// left unsent; it remains a candidate only for later sweeps on the same date.
type DeliveryError struct {
	Recipient string
	Err       error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("failed to deliver notification to %s: %v", e.Recipient, e.Err)
}

func (e *DeliveryError) Unwrap() error { return e.Err }

// SweepResult summarizes one dispatcher sweep.
type SweepResult struct {
	Due    int `json:"due"`    // entries matching today's date and not yet sent
	Sent   int `json:"sent"`   // entries delivered and marked sent
	Failed int `json:"failed"` // delivery failures, entries left unsent
}

var reminderBody = template.Must(template.New("reminder").Parse(`
<html>
<body>
    <h2>Contract Termination Reminder</h2>
    <p>This is a reminder that the following contract is set to terminate in <strong>{{.DaysRemaining}}</strong>:</p>

    <div style="margin: 20px; padding: 15px; border: 1px solid #ccc; border-radius: 5px;">
        <p><strong>Contract:</strong> {{.ContractName}}</p>
        <p><strong>Termination Date:</strong> {{.TerminationDate}}</p>
    </div>

    <p>Please take any necessary actions before the contract expires.</p>

    <p>This is an automated notification from ContractIQ.</p>
</body>
</html>
`))

type reminderData struct {
	DaysRemaining   string
	ContractName    string
	TerminationDate string
}

// Dispatcher periodically sweeps the notification store and delivers due
// reminders. Exactly one sweep may be in flight at a time.
type Dispatcher struct {
	store  NotificationStore
	sender Sender
}

func NewDispatcher(store NotificationStore, sender Sender) *Dispatcher {
	return &Dispatcher{store: store, sender: sender}
}

// RunSweep delivers every entry whose notification date equals today and
// whose sent flag is still false. The match is exact: entries whose date has
// passed without a sweep are never fired. Sent flips to true only on
// successful delivery, and the store is persisted once at the end of the
// sweep if anything changed, so a repeated sweep on the same date sends
// nothing twice.
func (d *Dispatcher) RunSweep(ctx context.Context, today time.Time) (SweepResult, error) {
	var result SweepResult
	todayStr := today.Format(dates.ISO)

	// The whole sweep runs inside one store update so a concurrent Schedule
	// cannot interleave with the read-modify-write and lose entries.
	err := d.store.Update(func(schedules map[string]*model.NotificationSchedule) (bool, error) {
		modified := false

		// Stable iteration order keeps logs and partial-failure behavior
		// reproducible across sweeps.
		contractIDs := make([]string, 0, len(schedules))
		for id := range schedules {
			contractIDs = append(contractIDs, id)
		}
		sort.Strings(contractIDs)

		for _, contractID := range contractIDs {
			schedule := schedules[contractID]
			cctx := context.WithValue(ctx, logger.ContractIDKey, contractID)
			for _, entry := range schedule.Notifications {
				if entry.NotificationDate != todayStr || entry.Sent {
					continue
				}
				result.Due++

				subject := fmt.Sprintf("Contract Termination Notice: %s - %d day%s remaining",
					schedule.ContractName, entry.DaysBefore, plural(entry.DaysBefore))
				body, err := renderReminder(schedule.ContractName, schedule.TerminationDate, entry.DaysBefore)
				if err != nil {
					result.Failed++
					logger.Error(cctx, "failed to render reminder",
						"days_before", entry.DaysBefore,
						"error", err,
					)
					continue
				}

				if err := d.sender.Send(schedule.RecipientEmail, subject, body); err != nil {
					result.Failed++
					deliveryErr := &DeliveryError{Recipient: schedule.RecipientEmail, Err: err}
					logger.Error(cctx, "notification delivery failed",
						"days_before", entry.DaysBefore,
						"error", deliveryErr,
					)
					continue
				}

				entry.Sent = true
				modified = true
				result.Sent++
				logger.Info(cctx, "sent notification",
					"days_before", entry.DaysBefore,
				)
			}
		}
		return modified, nil
	})
	return result, err
}

func renderReminder(contractName, terminationDate string, daysBefore int) (string, error) {
	var buf strings.Builder
	err := reminderBody.Execute(&buf, reminderData{
		DaysRemaining:   fmt.Sprintf("%d day%s", daysBefore, plural(daysBefore)),
		ContractName:    contractName,
		TerminationDate: terminationDate,
	})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
