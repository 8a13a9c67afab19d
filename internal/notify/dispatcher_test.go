package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/notify"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type fakeStore struct {
	saved  []savedRecord
	nextID uint
	err    error
}

type savedRecord struct {
	recipientID uint
	typeTag     string
	payload     *notify.DatabasePayload
}

func (f *fakeStore) SaveNotification(ctx context.Context, recipientID uint, typeTag string, payload *notify.DatabasePayload) (uint, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.nextID++
	f.saved = append(f.saved, savedRecord{recipientID: recipientID, typeTag: typeTag, payload: payload})
	return f.nextID, nil
}

type fakeBroadcaster struct {
	published []notify.BroadcastMessage
	err       error
}

func (f *fakeBroadcaster) Publish(ctx context.Context, recipientID uint, message notify.BroadcastMessage) error {
	if f.err != nil {
		return f.err
	}
	f.published = append(f.published, message)
	return nil
}

type fakeMailer struct {
	sent     []string
	failures int // fail the first N sends
	attempts int
}

func (f *fakeMailer) Send(ctx context.Context, to string, message *notify.MailMessage) error {
	f.attempts++
	if f.attempts <= f.failures {
		return errors.New("smtp: connection refused")
	}
	f.sent = append(f.sent, to)
	return nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func testConfig() notify.Config {
	return notify.Config{
		MailMaxAttempts:  3,
		MailBackoff:      time.Millisecond,
		MailTimeout:      time.Second,
		BroadcastTimeout: time.Second,
	}
}

func recipient() notify.Recipient {
	return notify.Recipient{ID: 7, Name: "Priya Candidate", Email: "priya@example.com"}
}

func receivedVariant() notify.Notification {
	return notify.ApplicationReceived{
		Application: models.Application{Model: gorm.Model{ID: 9}},
		Job:         models.Job{Model: gorm.Model{ID: 42}, Title: "Backend Engineer"},
	}
}

func TestDispatchDeliversAllChannels(t *testing.T) {
	store := &fakeStore{}
	mail := &fakeMailer{}
	d := notify.NewDispatcher(store, &fakeBroadcaster{}, mail, testConfig(), quietLogger())

	report := d.Dispatch(context.Background(), recipient(), receivedVariant())

	if !report.Delivered(notify.ChannelDatabase) {
		t.Fatalf("database channel not delivered: %+v", report)
	}
	if !report.Delivered(notify.ChannelMail) {
		t.Fatalf("mail channel not delivered: %+v", report)
	}
	if len(store.saved) != 1 || store.saved[0].typeTag != "application.received" {
		t.Fatalf("saved = %+v", store.saved)
	}
	if len(mail.sent) != 1 || mail.sent[0] != "priya@example.com" {
		t.Fatalf("mail sent to %v", mail.sent)
	}
}

func TestDispatchMailFailureLeavesDatabaseDelivered(t *testing.T) {
	store := &fakeStore{}
	mail := &fakeMailer{failures: 100}
	d := notify.NewDispatcher(store, &fakeBroadcaster{}, mail, testConfig(), quietLogger())

	report := d.Dispatch(context.Background(), recipient(), receivedVariant())

	if !report.Delivered(notify.ChannelDatabase) {
		t.Fatalf("database channel should be delivered despite mail failure")
	}

	delivery, ok := report.Outcome(notify.ChannelMail)
	if !ok {
		t.Fatalf("no mail outcome in report")
	}
	if delivery.Status != notify.StatusFailed {
		t.Fatalf("mail status = %q, want failed", delivery.Status)
	}
	if delivery.Attempts != 3 {
		t.Fatalf("mail attempts = %d, want 3", delivery.Attempts)
	}
	if len(store.saved) != 1 {
		t.Fatalf("saved %d database rows, want 1", len(store.saved))
	}
}

func TestDispatchMailRecoversOnRetry(t *testing.T) {
	mail := &fakeMailer{failures: 2}
	d := notify.NewDispatcher(&fakeStore{}, &fakeBroadcaster{}, mail, testConfig(), quietLogger())

	report := d.Dispatch(context.Background(), recipient(), receivedVariant(), notify.ChannelMail)

	delivery, _ := report.Outcome(notify.ChannelMail)
	if delivery.Status != notify.StatusDelivered {
		t.Fatalf("mail status = %q, want delivered", delivery.Status)
	}
	if delivery.Attempts != 3 {
		t.Fatalf("attempts = %d, want 3", delivery.Attempts)
	}
}

func TestDispatchSkipsUnsupportedChannel(t *testing.T) {
	d := notify.NewDispatcher(&fakeStore{}, &fakeBroadcaster{}, &fakeMailer{}, testConfig(), quietLogger())

	// ApplicationSubmitted has no mail renderer.
	n := notify.ApplicationSubmitted{
		Application: models.Application{Model: gorm.Model{ID: 9}},
		Job:         models.Job{Model: gorm.Model{ID: 42}, Title: "Backend Engineer"},
		Candidate:   models.User{Name: "Priya"},
	}

	report := d.Dispatch(context.Background(), recipient(), n, notify.ChannelDatabase, notify.ChannelMail)

	delivery, ok := report.Outcome(notify.ChannelMail)
	if !ok {
		t.Fatalf("no mail outcome in report")
	}
	if delivery.Status != notify.StatusSkipped {
		t.Fatalf("mail status = %q, want skipped", delivery.Status)
	}
	if !report.Delivered(notify.ChannelDatabase) {
		t.Fatalf("database channel not delivered")
	}
}

func TestDispatchDanglingReferenceFailsChannelOnly(t *testing.T) {
	store := &fakeStore{}
	d := notify.NewDispatcher(store, &fakeBroadcaster{}, &fakeMailer{}, testConfig(), quietLogger())

	// Zero-ID job: the variant's renderers fail with ErrDanglingReference.
	n := notify.ApplicationReceived{
		Application: models.Application{Model: gorm.Model{ID: 9}},
	}

	report := d.Dispatch(context.Background(), recipient(), n)

	for _, delivery := range report.Deliveries {
		if delivery.Status != notify.StatusFailed {
			t.Fatalf("channel %s status = %q, want failed", delivery.Channel, delivery.Status)
		}
	}
	if len(store.saved) != 0 {
		t.Fatalf("saved %d rows for dangling reference, want 0", len(store.saved))
	}
}

func TestDispatchBroadcastCarriesDatabaseRowID(t *testing.T) {
	store := &fakeStore{nextID: 100}
	broadcaster := &fakeBroadcaster{}
	d := notify.NewDispatcher(store, broadcaster, &fakeMailer{}, testConfig(), quietLogger())

	n := notify.ApplicationSubmitted{
		Application: models.Application{Model: gorm.Model{ID: 9}},
		Job:         models.Job{Model: gorm.Model{ID: 42}, Title: "Backend Engineer"},
		Candidate:   models.User{Name: "Priya"},
	}

	// Broadcast listed before database; the dispatcher must still write the
	// database row first.
	report := d.Dispatch(context.Background(), recipient(), n, notify.ChannelBroadcast, notify.ChannelDatabase)

	if !report.Delivered(notify.ChannelBroadcast) || !report.Delivered(notify.ChannelDatabase) {
		t.Fatalf("report = %+v", report)
	}
	if len(broadcaster.published) != 1 {
		t.Fatalf("published %d messages, want 1", len(broadcaster.published))
	}

	message := broadcaster.published[0]
	if message.ID == nil || *message.ID != 101 {
		t.Fatalf("broadcast message id = %v, want 101", message.ID)
	}
	if message.Type != "application.submitted" {
		t.Fatalf("broadcast message type = %q", message.Type)
	}
	if message.ReadAt != nil {
		t.Fatalf("broadcast read_at = %v, want nil", message.ReadAt)
	}
}

func TestDispatchBroadcastFailureIsSingleAttempt(t *testing.T) {
	broadcaster := &fakeBroadcaster{err: errors.New("socket closed")}
	d := notify.NewDispatcher(&fakeStore{}, broadcaster, &fakeMailer{}, testConfig(), quietLogger())

	n := notify.ApplicationSubmitted{
		Application: models.Application{Model: gorm.Model{ID: 9}},
		Job:         models.Job{Model: gorm.Model{ID: 42}},
		Candidate:   models.User{Name: "Priya"},
	}

	report := d.Dispatch(context.Background(), recipient(), n, notify.ChannelBroadcast)

	delivery, _ := report.Outcome(notify.ChannelBroadcast)
	if delivery.Status != notify.StatusFailed {
		t.Fatalf("broadcast status = %q, want failed", delivery.Status)
	}
	if delivery.Attempts != 1 {
		t.Fatalf("broadcast attempts = %d, want 1", delivery.Attempts)
	}
}

func TestDispatchMailWithoutRecipientAddress(t *testing.T) {
	mail := &fakeMailer{}
	d := notify.NewDispatcher(&fakeStore{}, &fakeBroadcaster{}, mail, testConfig(), quietLogger())

	r := notify.Recipient{ID: 7, Name: "No Mail"}

	report := d.Dispatch(context.Background(), r, receivedVariant(), notify.ChannelMail)

	delivery, _ := report.Outcome(notify.ChannelMail)
	if delivery.Status != notify.StatusFailed {
		t.Fatalf("mail status = %q, want failed", delivery.Status)
	}
	if mail.attempts != 0 {
		t.Fatalf("mailer attempted %d sends, want 0", mail.attempts)
	}
}

func TestDispatchDefaultsToVariantChannels(t *testing.T) {
	store := &fakeStore{}
	broadcaster := &fakeBroadcaster{}
	mail := &fakeMailer{}
	d := notify.NewDispatcher(store, broadcaster, mail, testConfig(), quietLogger())

	// ApplicationReceived defaults to database + mail.
	report := d.Dispatch(context.Background(), recipient(), receivedVariant())

	if len(report.Deliveries) != 2 {
		t.Fatalf("deliveries = %d, want 2", len(report.Deliveries))
	}
	if _, ok := report.Outcome(notify.ChannelBroadcast); ok {
		t.Fatalf("broadcast should not be part of the default dispatch")
	}
}
