package notify

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Store persists database-channel deliveries. Writing the same domain event
// twice yields two unread rows; the domain does not deduplicate.
type Store interface {
	SaveNotification(ctx context.Context, recipientID uint, typeTag string, payload *DatabasePayload) (uint, error)
}

// Broadcaster publishes to a recipient's private topic. Publishing to a
// recipient with no live connections is not an error.
type Broadcaster interface {
	Publish(ctx context.Context, recipientID uint, message BroadcastMessage) error
}

// Mailer sends one transactional mail.
type Mailer interface {
	Send(ctx context.Context, to string, message *MailMessage) error
}

// Config tunes per-channel delivery policy.
type Config struct {
	MailMaxAttempts  int
	MailBackoff      time.Duration
	MailTimeout      time.Duration
	BroadcastTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.MailMaxAttempts <= 0 {
		c.MailMaxAttempts = 3
	}
	if c.MailBackoff <= 0 {
		c.MailBackoff = 2 * time.Second
	}
	if c.MailTimeout <= 0 {
		c.MailTimeout = 15 * time.Second
	}
	if c.BroadcastTimeout <= 0 {
		c.BroadcastTimeout = 5 * time.Second
	}
	return c
}

// Dispatcher delivers rendered notification payloads channel by channel.
type Dispatcher struct {
	store       Store
	broadcaster Broadcaster
	mailer      Mailer
	cfg         Config
	log         *logrus.Logger
}

func NewDispatcher(store Store, broadcaster Broadcaster, mailer Mailer, cfg Config, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		store:       store,
		broadcaster: broadcaster,
		mailer:      mailer,
		cfg:         cfg.withDefaults(),
		log:         log,
	}
}

// Dispatch delivers the notification to the recipient over the requested
// channels, defaulting to the variant's own channel set. Channels are
// attempted independently: a failure on one never blocks another, and the
// caller gets the per-channel outcome in the report. Database writes run
// first so the broadcast envelope can reference the stored row.
func (d *Dispatcher) Dispatch(ctx context.Context, recipient Recipient, n Notification, channels ...Channel) Report {
	if len(channels) == 0 {
		channels = n.Channels()
	}

	report := Report{
		RecipientID:  recipient.ID,
		Type:         n.Type(),
		DispatchedAt: time.Now().UTC(),
	}

	var databaseRowID *uint

	for _, ch := range orderChannels(channels) {
		var delivery Delivery

		switch ch {
		case ChannelDatabase:
			delivery, databaseRowID = d.deliverDatabase(ctx, recipient, n)
		case ChannelBroadcast:
			delivery = d.deliverBroadcast(ctx, recipient, n, databaseRowID)
		case ChannelMail:
			delivery = d.deliverMail(ctx, recipient, n)
		default:
			delivery = Delivery{Channel: ch, Status: StatusSkipped, Error: "unknown channel"}
		}

		if delivery.Status == StatusFailed {
			d.log.WithFields(logrus.Fields{
				"type":      n.Type(),
				"recipient": recipient.ID,
				"channel":   ch,
				"attempts":  delivery.Attempts,
			}).Warnf("notification delivery failed: %s", delivery.Error)
		}

		report.Deliveries = append(report.Deliveries, delivery)
	}

	return report
}

// orderChannels puts the database channel first; relative order of the rest
// is preserved. Duplicate channels collapse to one delivery.
func orderChannels(channels []Channel) []Channel {
	seen := make(map[Channel]bool, len(channels))
	ordered := make([]Channel, 0, len(channels))

	for _, ch := range channels {
		if ch == ChannelDatabase && !seen[ch] {
			ordered = append(ordered, ch)
			seen[ch] = true
		}
	}
	for _, ch := range channels {
		if !seen[ch] {
			ordered = append(ordered, ch)
			seen[ch] = true
		}
	}

	return ordered
}

func (d *Dispatcher) deliverDatabase(ctx context.Context, recipient Recipient, n Notification) (Delivery, *uint) {
	delivery := Delivery{Channel: ChannelDatabase, Status: StatusPending}

	payload, err := n.Database()
	if err != nil {
		delivery.Status = StatusFailed
		delivery.Error = err.Error()
		return delivery, nil
	}
	if payload == nil {
		delivery.Status = StatusSkipped
		return delivery, nil
	}

	delivery.Attempts = 1
	id, err := d.store.SaveNotification(ctx, recipient.ID, n.Type(), payload)
	if err != nil {
		delivery.Status = StatusFailed
		delivery.Error = err.Error()
		return delivery, nil
	}

	delivery.Status = StatusDelivered
	return delivery, &id
}

// deliverBroadcast is fire-and-forget: one attempt, no retry. A disconnected
// client reconciles from the database channel on reconnect.
func (d *Dispatcher) deliverBroadcast(ctx context.Context, recipient Recipient, n Notification, rowID *uint) Delivery {
	delivery := Delivery{Channel: ChannelBroadcast, Status: StatusPending}

	payload, err := n.Broadcast()
	if err != nil {
		delivery.Status = StatusFailed
		delivery.Error = err.Error()
		return delivery
	}
	if payload == nil {
		delivery.Status = StatusSkipped
		return delivery
	}

	message := BroadcastMessage{
		ID:        rowID,
		Type:      n.Type(),
		Data:      payload.Data,
		CreatedAt: time.Now().UTC().Format(time.RFC3339),
		ReadAt:    nil,
	}

	publishCtx, cancel := context.WithTimeout(ctx, d.cfg.BroadcastTimeout)
	defer cancel()

	delivery.Attempts = 1
	if err := d.broadcaster.Publish(publishCtx, recipient.ID, message); err != nil {
		delivery.Status = StatusFailed
		delivery.Error = err.Error()
		return delivery
	}

	delivery.Status = StatusDelivered
	return delivery
}

// deliverMail retries transient transport failures with exponential backoff
// up to the configured attempt bound. Exhaustion is terminal for the channel
// and is never re-raised to the triggering request.
func (d *Dispatcher) deliverMail(ctx context.Context, recipient Recipient, n Notification) Delivery {
	delivery := Delivery{Channel: ChannelMail, Status: StatusPending}

	message, err := n.Mail()
	if err != nil {
		delivery.Status = StatusFailed
		delivery.Error = err.Error()
		return delivery
	}
	if message == nil {
		delivery.Status = StatusSkipped
		return delivery
	}
	if recipient.Email == "" {
		delivery.Status = StatusFailed
		delivery.Error = "recipient has no email address"
		return delivery
	}

	backoff := d.cfg.MailBackoff

	for attempt := 1; attempt <= d.cfg.MailMaxAttempts; attempt++ {
		delivery.Attempts = attempt

		sendCtx, cancel := context.WithTimeout(ctx, d.cfg.MailTimeout)
		err = d.mailer.Send(sendCtx, recipient.Email, message)
		cancel()

		if err == nil {
			delivery.Status = StatusDelivered
			delivery.Error = ""
			return delivery
		}

		delivery.Status = StatusRetrying
		delivery.Error = err.Error()

		if attempt == d.cfg.MailMaxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			delivery.Status = StatusFailed
			delivery.Error = ctx.Err().Error()
			return delivery
		case <-time.After(backoff):
		}
		backoff *= 2
	}

	delivery.Status = StatusFailed
	return delivery
}
