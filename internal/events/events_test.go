package events_test

import (
	"errors"
	"testing"
	"time"

	"github.com/hireloop-dev/hireloop/internal/events"
	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/notify"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type fakeRepo struct {
	created []*models.Event
}

func (f *fakeRepo) CreateEvent(event *models.Event) error {
	event.ID = uint(len(f.created) + 1)
	f.created = append(f.created, event)
	return nil
}

func (f *fakeRepo) SetEventStatus(event *models.Event, status string) error {
	event.Status = status
	return nil
}

type fakeNotifier struct {
	sent []notify.Notification
}

func (f *fakeNotifier) Enqueue(recipient notify.Recipient, n notify.Notification, channels ...notify.Channel) {
	f.sent = append(f.sent, n)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func application() models.Application {
	return models.Application{
		Model:       gorm.Model{ID: 9},
		CandidateID: 7,
		JobID:       42,
		Candidate: models.User{
			Model: gorm.Model{ID: 7},
			Name:  "Priya Candidate",
			Email: "priya@example.com",
		},
		Job: models.Job{
			Model: gorm.Model{ID: 42},
			Title: "Backend Engineer",
		},
	}
}

func manager() models.User {
	return models.User{
		Model: gorm.Model{ID: 3},
		Name:  "Mark Manager",
		Email: "mark@example.com",
	}
}

func TestScheduleEventNotifiesCandidate(t *testing.T) {
	repo := &fakeRepo{}
	notifier := &fakeNotifier{}
	svc := events.NewService(repo, notifier, quietLogger())

	start := time.Date(2026, 9, 10, 14, 0, 0, 0, time.UTC)

	event, err := svc.ScheduleEvent(application(), events.ScheduleParams{
		Type:     models.EventTypeInterview,
		StartsAt: start,
		EndsAt:   start.Add(time.Hour),
		Location: "Room 2B",
	}, manager())
	if err != nil {
		t.Fatalf("ScheduleEvent: %v", err)
	}

	if event.Status != models.EventStatusScheduled {
		t.Fatalf("status = %q, want scheduled", event.Status)
	}
	if event.CreatedByID != 3 {
		t.Fatalf("CreatedByID = %d, want 3", event.CreatedByID)
	}

	if len(notifier.sent) != 1 || notifier.sent[0].Type() != "event.scheduled" {
		t.Fatalf("notifications = %v", notifier.sent)
	}

	scheduled, ok := notifier.sent[0].(notify.EventScheduled)
	if !ok {
		t.Fatalf("notification is %T, want EventScheduled", notifier.sent[0])
	}
	if scheduled.Organizer != "mark@example.com" {
		t.Fatalf("organizer = %q", scheduled.Organizer)
	}
}

func TestScheduleEventRejectsInvertedRange(t *testing.T) {
	svc := events.NewService(&fakeRepo{}, &fakeNotifier{}, quietLogger())

	start := time.Now().Add(24 * time.Hour)

	_, err := svc.ScheduleEvent(application(), events.ScheduleParams{
		Type:     models.EventTypeInterview,
		StartsAt: start,
		EndsAt:   start.Add(-time.Minute),
	}, manager())
	if !errors.Is(err, events.ErrInvalidRange) {
		t.Fatalf("err = %v, want ErrInvalidRange", err)
	}
}

func TestScheduleEventAllowsZeroDuration(t *testing.T) {
	svc := events.NewService(&fakeRepo{}, &fakeNotifier{}, quietLogger())

	start := time.Now().Add(24 * time.Hour)

	_, err := svc.ScheduleEvent(application(), events.ScheduleParams{
		Type:     models.EventTypeTest,
		StartsAt: start,
		EndsAt:   start,
	}, manager())
	if err != nil {
		t.Fatalf("ScheduleEvent with equal start and end: %v", err)
	}
}

func TestScheduleEventRejectsUnknownType(t *testing.T) {
	svc := events.NewService(&fakeRepo{}, &fakeNotifier{}, quietLogger())

	start := time.Now().Add(24 * time.Hour)

	_, err := svc.ScheduleEvent(application(), events.ScheduleParams{
		Type:     "standup",
		StartsAt: start,
		EndsAt:   start.Add(time.Hour),
	}, manager())
	if !errors.Is(err, events.ErrInvalidType) {
		t.Fatalf("err = %v, want ErrInvalidType", err)
	}
}

func TestUpdateEventStatusCapturesLabels(t *testing.T) {
	repo := &fakeRepo{}
	notifier := &fakeNotifier{}
	svc := events.NewService(repo, notifier, quietLogger())

	event := &models.Event{
		Model:       gorm.Model{ID: 5},
		Status:      models.EventStatusScheduled,
		Application: application(),
		Job:         application().Job,
	}

	if err := svc.UpdateEventStatus(event, models.EventStatusConfirmed, manager()); err != nil {
		t.Fatalf("UpdateEventStatus: %v", err)
	}

	updated, ok := notifier.sent[0].(notify.EventStatusUpdated)
	if !ok {
		t.Fatalf("notification is %T, want EventStatusUpdated", notifier.sent[0])
	}
	if updated.OldStatus != "Scheduled" || updated.NewStatus != "Confirmed" {
		t.Fatalf("labels = %q -> %q, want Scheduled -> Confirmed", updated.OldStatus, updated.NewStatus)
	}
}

func TestUpdateEventStatusRejectsCancelledEvent(t *testing.T) {
	svc := events.NewService(&fakeRepo{}, &fakeNotifier{}, quietLogger())

	event := &models.Event{Status: models.EventStatusCancelled}

	err := svc.UpdateEventStatus(event, models.EventStatusConfirmed, manager())
	if !errors.Is(err, events.ErrTerminalState) {
		t.Fatalf("err = %v, want ErrTerminalState", err)
	}
}

func TestUpdateEventStatusRejectsUnknownStatus(t *testing.T) {
	repo := &fakeRepo{}
	notifier := &fakeNotifier{}
	svc := events.NewService(repo, notifier, quietLogger())

	event := &models.Event{
		Model:       gorm.Model{ID: 5},
		Status:      models.EventStatusScheduled,
		Application: application(),
		Job:         application().Job,
	}

	err := svc.UpdateEventStatus(event, "on-hold", manager())
	if !errors.Is(err, events.ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
	if event.Status != models.EventStatusScheduled {
		t.Fatalf("status = %q, want unchanged scheduled", event.Status)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("sent %d notifications, want 0", len(notifier.sent))
	}
}

func TestCancelEventEmitsDedicatedVariant(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := events.NewService(&fakeRepo{}, notifier, quietLogger())

	event := &models.Event{
		Model:       gorm.Model{ID: 5},
		Status:      models.EventStatusConfirmed,
		Application: application(),
		Job:         application().Job,
	}

	if err := svc.CancelEvent(event, manager(), "interviewer unavailable"); err != nil {
		t.Fatalf("CancelEvent: %v", err)
	}

	if event.Status != models.EventStatusCancelled {
		t.Fatalf("status = %q, want cancelled", event.Status)
	}

	cancelled, ok := notifier.sent[0].(notify.EventCancelled)
	if !ok {
		t.Fatalf("notification is %T, want EventCancelled", notifier.sent[0])
	}
	if cancelled.Reason != "interviewer unavailable" {
		t.Fatalf("reason = %q", cancelled.Reason)
	}
}

func TestCancelEventOnCancelledEvent(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := events.NewService(&fakeRepo{}, notifier, quietLogger())

	event := &models.Event{Status: models.EventStatusCancelled}

	if err := svc.CancelEvent(event, manager(), ""); !errors.Is(err, events.ErrTerminalState) {
		t.Fatalf("err = %v, want ErrTerminalState", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("sent %d notifications, want 0", len(notifier.sent))
	}
}

func TestStatusLabelPassesUnknownThrough(t *testing.T) {
	if got := events.StatusLabel(models.EventStatusRescheduled); got != "Rescheduled" {
		t.Fatalf("StatusLabel(rescheduled) = %q", got)
	}
	if got := events.StatusLabel("on-hold"); got != "on-hold" {
		t.Fatalf("StatusLabel(on-hold) = %q, want pass-through", got)
	}
}
