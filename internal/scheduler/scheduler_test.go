package scheduler_test

import (
	"testing"
	"time"

	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/notify"
	"github.com/hireloop-dev/hireloop/internal/scheduler"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type fakeRepo struct {
	upcoming []models.Event
	reminded []uint

	expiring []models.Job
	expired  []models.Job
	closed   []uint

	offers []models.Application
}

func (f *fakeRepo) UpcomingEvents(within time.Duration) ([]models.Event, error) {
	return f.upcoming, nil
}

func (f *fakeRepo) MarkReminded(eventID uint) error {
	f.reminded = append(f.reminded, eventID)
	return nil
}

func (f *fakeRepo) ExpiringJobs(withinDays int) ([]models.Job, error) {
	return f.expiring, nil
}

func (f *fakeRepo) ExpiredJobs() ([]models.Job, error) {
	return f.expired, nil
}

func (f *fakeRepo) CloseJob(jobID uint) error {
	f.closed = append(f.closed, jobID)
	return nil
}

func (f *fakeRepo) ExpiringOffers(withinDays int) ([]models.Application, error) {
	return f.offers, nil
}

type fakeManagers struct {
	all []models.User
}

func (f fakeManagers) ManagersForJob(jobID uint) (*models.User, []models.User, error) {
	return nil, f.all, nil
}

type enqueued struct {
	recipient notify.Recipient
	n         notify.Notification
}

type fakeNotifier struct {
	sent []enqueued
}

func (f *fakeNotifier) Enqueue(recipient notify.Recipient, n notify.Notification, channels ...notify.Channel) {
	f.sent = append(f.sent, enqueued{recipient: recipient, n: n})
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestRunEventRemindersMarksEachEventOnce(t *testing.T) {
	repo := &fakeRepo{
		upcoming: []models.Event{
			{
				Model:    gorm.Model{ID: 5},
				Type:     models.EventTypeInterview,
				StartsAt: time.Now().Add(30 * time.Minute),
				Application: models.Application{
					Candidate: models.User{Model: gorm.Model{ID: 7}, Name: "Priya", Email: "priya@example.com"},
				},
				Job: models.Job{Model: gorm.Model{ID: 42}, Title: "Backend Engineer"},
			},
		},
	}
	notifier := &fakeNotifier{}

	s := scheduler.New(repo, fakeManagers{}, notifier, quietLogger(), "* * * * *", "* * * * *")
	s.RunEventReminders()

	if len(notifier.sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(notifier.sent))
	}
	if notifier.sent[0].n.Type() != "event.reminder" {
		t.Fatalf("type = %q", notifier.sent[0].n.Type())
	}
	if notifier.sent[0].recipient.ID != 7 {
		t.Fatalf("recipient = %d, want candidate 7", notifier.sent[0].recipient.ID)
	}
	if len(repo.reminded) != 1 || repo.reminded[0] != 5 {
		t.Fatalf("reminded = %v, want [5]", repo.reminded)
	}
}

func TestRunJobExpiryClosesAndNotifies(t *testing.T) {
	soon := time.Now().Add(48 * time.Hour)
	past := time.Now().Add(-time.Hour)

	repo := &fakeRepo{
		expiring: []models.Job{
			{Model: gorm.Model{ID: 1}, Title: "Expiring Role", ExpiresAt: &soon},
		},
		expired: []models.Job{
			{Model: gorm.Model{ID: 2}, Title: "Stale Role", ExpiresAt: &past},
		},
	}
	notifier := &fakeNotifier{}
	managers := fakeManagers{all: []models.User{
		{Model: gorm.Model{ID: 3}, Name: "Mark", Email: "mark@example.com"},
	}}

	s := scheduler.New(repo, managers, notifier, quietLogger(), "* * * * *", "* * * * *")
	s.RunJobExpiry()

	if len(repo.closed) != 1 || repo.closed[0] != 2 {
		t.Fatalf("closed = %v, want [2]", repo.closed)
	}

	var types []string
	for _, e := range notifier.sent {
		types = append(types, e.n.Type())
	}
	want := []string{"job.expiring", "job.expired"}
	if len(types) != len(want) {
		t.Fatalf("notification types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("notification types = %v, want %v", types, want)
		}
	}

	expiring, ok := notifier.sent[0].n.(notify.JobPostingExpiring)
	if !ok {
		t.Fatalf("first notification is %T", notifier.sent[0].n)
	}
	if expiring.DaysRemaining < 1 || expiring.DaysRemaining > 2 {
		t.Fatalf("DaysRemaining = %d, want 1 or 2", expiring.DaysRemaining)
	}
}

func TestRunOfferExpiryRemindsCandidates(t *testing.T) {
	expires := time.Now().Add(24 * time.Hour)

	repo := &fakeRepo{
		offers: []models.Application{
			{
				Model:          gorm.Model{ID: 9},
				Status:         models.ApplicationStatusInProgress,
				OfferExpiresAt: &expires,
				Candidate:      models.User{Model: gorm.Model{ID: 7}, Name: "Priya", Email: "priya@example.com"},
				Job:            models.Job{Model: gorm.Model{ID: 42}, Title: "Backend Engineer"},
			},
		},
	}
	notifier := &fakeNotifier{}

	s := scheduler.New(repo, fakeManagers{}, notifier, quietLogger(), "* * * * *", "* * * * *")
	s.RunOfferExpiry()

	if len(notifier.sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(notifier.sent))
	}
	if notifier.sent[0].n.Type() != "offer.expiring" {
		t.Fatalf("type = %q", notifier.sent[0].n.Type())
	}
	if notifier.sent[0].recipient.ID != 7 {
		t.Fatalf("recipient = %d, want candidate 7", notifier.sent[0].recipient.ID)
	}
}
