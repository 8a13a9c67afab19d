package handlers

import "github.com/hireloop-dev/hireloop/internal/notify"

// Notifier is the dispatch surface handlers use directly for one-off alerts
// that do not belong to the pipeline or event state machines (company
// registration, profile reminders). Satisfied by *notify.Pool.
type Notifier interface {
	Enqueue(recipient notify.Recipient, n notify.Notification, channels ...notify.Channel)
}
