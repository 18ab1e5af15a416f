package model

// NotificationEntry is one scheduled reminder at a fixed offset before a
// contract's termination date. Sent is monotonic: it starts false and flips
// to true exactly once on successful delivery, never back.
type NotificationEntry struct {
	DaysBefore       int    `json:"days_before"`
	NotificationDate string `json:"notification_date"` // YYYY-MM-DD
	Sent             bool   `json:"sent"`
}

// NotificationSchedule is one contract's reminder plan. The contract ID is
// the key under which the schedule is stored, not a field of the document.
type NotificationSchedule struct {
	RecipientEmail  string               `json:"recipient_email"`
	ContractName    string               `json:"contract_name"`
	TerminationDate string               `json:"termination_date"` // YYYY-MM-DD
	Notifications   []*NotificationEntry `json:"notifications"`
}
