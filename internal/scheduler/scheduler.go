// Package scheduler runs the time-driven sweeps: pre-event reminders and
// job-posting expiry. Both only read committed state and emit notifications;
// they never mutate the pipeline.
package scheduler

import (
	"time"

	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/notify"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

const (
	reminderWindow = time.Hour
	expiryWarnDays = 3
)

// Repository is the read/mark surface the sweeps need; the gorm
// implementation lives in internal/store.
type Repository interface {
	// UpcomingEvents returns scheduled or confirmed events starting within
	// the window that have not been reminded yet, with candidate and job
	// loaded.
	UpcomingEvents(within time.Duration) ([]models.Event, error)
	MarkReminded(eventID uint) error
	// ExpiringJobs returns active jobs whose expiry falls within the next
	// given number of days.
	ExpiringJobs(withinDays int) ([]models.Job, error)
	// ExpiredJobs returns active jobs whose expiry has passed.
	ExpiredJobs() ([]models.Job, error)
	CloseJob(jobID uint) error
	// ExpiringOffers returns open applications with a pending offer that
	// lapses within the next given number of days, candidate and job loaded.
	ExpiringOffers(withinDays int) ([]models.Application, error)
}

// ManagerDirectory resolves notification recipients for a job.
type ManagerDirectory interface {
	ManagersForJob(jobID uint) (primary *models.User, all []models.User, err error)
}

// Notifier hands notifications to the asynchronous dispatch pool.
type Notifier interface {
	Enqueue(recipient notify.Recipient, n notify.Notification, channels ...notify.Channel)
}

type Scheduler struct {
	cronEngine *cron.Cron
	repo       Repository
	managers   ManagerDirectory
	notifier   Notifier
	log        *logrus.Logger

	specReminders string
	specJobExpiry string
}

func New(repo Repository, managers ManagerDirectory, notifier Notifier, log *logrus.Logger, specReminders, specJobExpiry string) *Scheduler {
	return &Scheduler{
		cronEngine:    cron.New(cron.WithLocation(time.Local)),
		repo:          repo,
		managers:      managers,
		notifier:      notifier,
		log:           log,
		specReminders: specReminders,
		specJobExpiry: specJobExpiry,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cronEngine.AddFunc(s.specReminders, s.RunEventReminders); err != nil {
		return err
	}

	if _, err := s.cronEngine.AddFunc(s.specJobExpiry, func() {
		s.RunJobExpiry()
		s.RunOfferExpiry()
	}); err != nil {
		return err
	}

	s.cronEngine.Start()
	s.log.Info("Scheduler started")

	return nil
}

func (s *Scheduler) Stop() {
	ctx := s.cronEngine.Stop()
	<-ctx.Done()
	s.log.Info("Scheduler stopped")
}

// RunEventReminders notifies candidates about events starting within the
// reminder window. Each event is reminded at most once.
func (s *Scheduler) RunEventReminders() {
	events, err := s.repo.UpcomingEvents(reminderWindow)
	if err != nil {
		s.log.Errorf("Failed to load upcoming events: %v", err)
		return
	}

	for i := range events {
		event := events[i]
		candidate := event.Application.Candidate

		s.notifier.Enqueue(notify.Recipient{
			ID:    candidate.ID,
			Name:  candidate.Name,
			Email: candidate.Email,
		}, notify.InterviewReminder{
			Event: event,
			Job:   event.Job,
		})

		if err := s.repo.MarkReminded(event.ID); err != nil {
			s.log.Errorf("Failed to mark event %d as reminded: %v", event.ID, err)
		}
	}

	if len(events) > 0 {
		s.log.Infof("Sent %d event reminders", len(events))
	}
}

// RunJobExpiry warns managers about postings expiring soon and closes
// postings past their expiry.
func (s *Scheduler) RunJobExpiry() {
	expiring, err := s.repo.ExpiringJobs(expiryWarnDays)
	if err != nil {
		s.log.Errorf("Failed to load expiring jobs: %v", err)
	} else {
		for i := range expiring {
			job := expiring[i]
			days := daysUntil(*job.ExpiresAt)
			s.notifyManagers(job.ID, notify.JobPostingExpiring{Job: job, DaysRemaining: days})
		}
	}

	expired, err := s.repo.ExpiredJobs()
	if err != nil {
		s.log.Errorf("Failed to load expired jobs: %v", err)
		return
	}

	for i := range expired {
		job := expired[i]

		if err := s.repo.CloseJob(job.ID); err != nil {
			s.log.Errorf("Failed to close expired job %d: %v", job.ID, err)
			continue
		}

		s.notifyManagers(job.ID, notify.JobPostingExpired{Job: job})
	}
}

// RunOfferExpiry reminds candidates about offers lapsing soon.
func (s *Scheduler) RunOfferExpiry() {
	apps, err := s.repo.ExpiringOffers(expiryWarnDays)
	if err != nil {
		s.log.Errorf("Failed to load expiring offers: %v", err)
		return
	}

	for i := range apps {
		app := apps[i]
		candidate := app.Candidate

		s.notifier.Enqueue(notify.Recipient{
			ID:    candidate.ID,
			Name:  candidate.Name,
			Email: candidate.Email,
		}, notify.JobOfferExpiring{
			Application:   app,
			Job:           app.Job,
			DaysRemaining: daysUntil(*app.OfferExpiresAt),
		})
	}
}

func (s *Scheduler) notifyManagers(jobID uint, n notify.Notification) {
	primary, all, err := s.managers.ManagersForJob(jobID)
	if err != nil {
		s.log.Errorf("Failed to resolve managers for job %d: %v", jobID, err)
		return
	}

	recipients := all
	if primary != nil {
		recipients = []models.User{*primary}
	}

	for _, manager := range recipients {
		s.notifier.Enqueue(notify.Recipient{
			ID:    manager.ID,
			Name:  manager.Name,
			Email: manager.Email,
		}, n)
	}
}

func daysUntil(t time.Time) int {
	days := int(time.Until(t).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}
