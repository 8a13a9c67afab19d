// Package events models interview/meeting events tied to an application.
// Events have their own lifecycle, independent of the application pipeline:
// every status except cancelled is mutually reachable, cancelled is terminal.
package events

import (
	"errors"
	"fmt"
	"time"

	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/notify"
	"github.com/sirupsen/logrus"
)

var (
	// ErrInvalidRange is returned when an event would end before it starts.
	ErrInvalidRange = errors.New("event end must not be before its start")

	// ErrTerminalState is returned for any transition on a cancelled event.
	ErrTerminalState = errors.New("event is cancelled and accepts no further transitions")

	// ErrInvalidType is returned for an event type outside the closed set.
	ErrInvalidType = errors.New("unknown event type")

	// ErrInvalidStatus is returned for an event status outside the closed set.
	ErrInvalidStatus = errors.New("unknown event status")
)

// statusLabels maps raw event statuses to the human-readable form used in
// notifications. Unknown values pass through as-is: the table may lag behind
// newly introduced statuses and that must not break rendering.
var statusLabels = map[string]string{
	models.EventStatusScheduled:   "Scheduled",
	models.EventStatusConfirmed:   "Confirmed",
	models.EventStatusCompleted:   "Completed",
	models.EventStatusCancelled:   "Cancelled",
	models.EventStatusRescheduled: "Rescheduled",
}

// StatusLabel returns the display label for a status.
func StatusLabel(status string) string {
	if label, ok := statusLabels[status]; ok {
		return label
	}
	return status
}

// Repository is the persistence surface for events; the gorm implementation
// lives in internal/store.
type Repository interface {
	CreateEvent(event *models.Event) error
	SetEventStatus(event *models.Event, status string) error
}

// Notifier hands notifications to the asynchronous dispatch pool.
type Notifier interface {
	Enqueue(recipient notify.Recipient, n notify.Notification, channels ...notify.Channel)
}

type Service struct {
	repo     Repository
	notifier Notifier
	log      *logrus.Logger
}

func NewService(repo Repository, notifier Notifier, log *logrus.Logger) *Service {
	return &Service{repo: repo, notifier: notifier, log: log}
}

// ScheduleParams carries the manager's input for a new event. Location and
// MeetingLink are both accepted; which one is meaningful depends on the
// modality and is not enforced exclusively.
type ScheduleParams struct {
	Type        string
	StartsAt    time.Time
	EndsAt      time.Time
	Location    string
	MeetingLink string
	Notes       string
}

// ScheduleEvent creates the event in status scheduled and notifies the
// candidate. Interview mail carries a calendar invite.
func (s *Service) ScheduleEvent(app models.Application, params ScheduleParams, actor models.User) (*models.Event, error) {
	if !models.IsValidEventType(params.Type) {
		return nil, ErrInvalidType
	}
	if params.EndsAt.Before(params.StartsAt) {
		return nil, ErrInvalidRange
	}

	event := &models.Event{
		ApplicationID: app.ID,
		JobID:         app.JobID,
		Type:          params.Type,
		Status:        models.EventStatusScheduled,
		StartsAt:      params.StartsAt,
		EndsAt:        params.EndsAt,
		Location:      params.Location,
		MeetingLink:   params.MeetingLink,
		Notes:         params.Notes,
		CreatedByID:   actor.ID,
	}

	if err := s.repo.CreateEvent(event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.notifier.Enqueue(recipientFor(app.Candidate), notify.EventScheduled{
		Event:     *event,
		Job:       app.Job,
		Organizer: actor.Email,
	})

	return event, nil
}

// UpdateEventStatus applies a lifecycle transition. Cancelled is terminal;
// all other statuses are mutually reachable. The emitted notification
// carries display labels captured at call time.
func (s *Service) UpdateEventStatus(event *models.Event, newStatus string, actor models.User) error {
	if !models.IsValidEventStatus(newStatus) {
		return ErrInvalidStatus
	}
	if event.IsCancelled() {
		return ErrTerminalState
	}

	oldStatus := event.Status

	if err := s.repo.SetEventStatus(event, newStatus); err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}

	s.notifier.Enqueue(recipientFor(event.Application.Candidate), notify.EventStatusUpdated{
		Event:     *event,
		Job:       event.Job,
		OldStatus: StatusLabel(oldStatus),
		NewStatus: StatusLabel(newStatus),
		UpdatedBy: actor.Name,
	})

	return nil
}

// CancelEvent moves the event to cancelled and emits the dedicated
// cancellation variant instead of the generic status update: cancellation is
// a first-class domain event with its own recipients and message.
func (s *Service) CancelEvent(event *models.Event, actor models.User, reason string) error {
	if event.IsCancelled() {
		return ErrTerminalState
	}

	if err := s.repo.SetEventStatus(event, models.EventStatusCancelled); err != nil {
		return fmt.Errorf("failed to cancel event: %w", err)
	}

	s.notifier.Enqueue(recipientFor(event.Application.Candidate), notify.EventCancelled{
		Event:  *event,
		Job:    event.Job,
		Reason: reason,
	})

	return nil
}

func recipientFor(user models.User) notify.Recipient {
	return notify.Recipient{ID: user.ID, Name: user.Name, Email: user.Email}
}
