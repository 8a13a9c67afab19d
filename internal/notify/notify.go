// Package notify implements the notification catalog and the multi-channel
// dispatcher. Each notification variant is one case of a closed set and knows
// how to render itself for the database, broadcast and mail channels; the
// dispatcher delivers the rendered payloads with independent per-channel
// failure semantics.
package notify

import (
	"errors"
	"fmt"
	"time"
)

// Channel is a delivery mechanism.
type Channel string

const (
	ChannelDatabase  Channel = "database"
	ChannelBroadcast Channel = "broadcast"
	ChannelMail      Channel = "mail"
)

// ErrDanglingReference is returned by renderers when the notification's
// subject references an entity that no longer exists (for example an
// application whose job was hard-deleted). It fails that channel's delivery
// only; it never aborts the dispatch.
var ErrDanglingReference = errors.New("notification references a missing entity")

func danglingf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDanglingReference, fmt.Sprintf(format, args...))
}

// Recipient is the notifiable user a notification targets.
type Recipient struct {
	ID    uint
	Name  string
	Email string
}

// DatabasePayload is the rendered content persisted by the database channel.
type DatabasePayload struct {
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	ActionURL string                 `json:"action_url,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// MailAction is a call-to-action link inside a mail body.
type MailAction struct {
	Label string
	URL   string
}

// MailMessage is the rendered content handed to the mail channel.
type MailMessage struct {
	Subject  string
	Greeting string
	Lines    []string
	Action   *MailAction
	Calendar *CalendarInvite
}

// BroadcastPayload is the rendered content published to the recipient's
// private topic.
type BroadcastPayload struct {
	Event string
	Data  map[string]interface{}
}

// BroadcastMessage is the wire envelope for the broadcast channel. ID refers
// to the database-channel row when one was written in the same dispatch and
// is absent for fire-and-forget cases.
type BroadcastMessage struct {
	ID        *uint                  `json:"id"`
	Type      string                 `json:"type"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt string                 `json:"created_at"`
	ReadAt    *time.Time             `json:"read_at"`
}

// Notification is one case of the variant catalog. Renderers are pure: they
// never touch storage or transports. A renderer may return (nil, nil) to
// declare the channel unsupported for that variant, which the dispatcher
// records as a skipped outcome.
type Notification interface {
	// Type returns the stable variant tag stored with delivered records.
	Type() string
	// Channels returns the default channel set for the variant. Callers may
	// override it per dispatch.
	Channels() []Channel
	Database() (*DatabasePayload, error)
	Mail() (*MailMessage, error)
	Broadcast() (*BroadcastPayload, error)
}
