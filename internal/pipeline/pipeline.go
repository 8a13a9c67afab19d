// Package pipeline is the recruitment state machine: it validates and
// applies stage and status transitions on applications, records immutable
// history, and emits the notifications each transition owes.
package pipeline

import (
	"fmt"

	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/notify"
	"github.com/sirupsen/logrus"
)

// Repository is the persistence surface the state machine needs. The gorm
// implementation lives in internal/store.
type Repository interface {
	// StageForJob returns the stage only when it is assigned to the job,
	// (nil, nil) otherwise.
	StageForJob(jobID, stageID uint) (*models.HiringStage, error)
	// FirstStageForJob returns the job's first stage by order index, or
	// (nil, nil) when the job has no stages.
	FirstStageForJob(jobID uint) (*models.HiringStage, error)
	StageByID(stageID uint) (*models.HiringStage, error)
	CreateApplication(app *models.Application) error
	HasApplication(candidateID, jobID uint) (bool, error)
	SetStage(app *models.Application, stage *models.HiringStage) error
	SetStatus(app *models.Application, status string, withdrawalReason string) error
	AppendHistory(entry *models.StageHistory) error
}

// ManagerDirectory resolves the managers behind a job's company. primary is
// nil unless exactly one manager is marked primary.
type ManagerDirectory interface {
	ManagersForJob(jobID uint) (primary *models.User, all []models.User, err error)
}

// Notifier hands a notification to the asynchronous dispatch pool. The state
// machine never waits on delivery: the transition has already committed and
// is the source of truth regardless of notification outcome.
type Notifier interface {
	Enqueue(recipient notify.Recipient, n notify.Notification, channels ...notify.Channel)
}

type Service struct {
	repo     Repository
	managers ManagerDirectory
	notifier Notifier
	log      *logrus.Logger
}

func NewService(repo Repository, managers ManagerDirectory, notifier Notifier, log *logrus.Logger) *Service {
	return &Service{
		repo:     repo,
		managers: managers,
		notifier: notifier,
		log:      log,
	}
}

func recipientFor(user models.User) notify.Recipient {
	return notify.Recipient{ID: user.ID, Name: user.Name, Email: user.Email}
}

// SubmitApplication creates a new application in status "new" on the job's
// first stage and informs both sides.
func (s *Service) SubmitApplication(candidate models.User, job models.Job, coverLetter string) (*models.Application, error) {
	if !job.IsActive() {
		return nil, ErrJobNotOpen
	}

	exists, err := s.repo.HasApplication(candidate.ID, job.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}
	if exists {
		return nil, ErrDuplicateApplication
	}

	app := &models.Application{
		CandidateID: candidate.ID,
		JobID:       job.ID,
		Status:      models.ApplicationStatusNew,
		CoverLetter: coverLetter,
	}

	firstStage, err := s.repo.FirstStageForJob(job.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve first stage: %w", err)
	}
	if firstStage != nil {
		app.CurrentStageID = &firstStage.ID
		app.CurrentStage = firstStage
	}

	if err := s.repo.CreateApplication(app); err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.notifier.Enqueue(recipientFor(candidate), notify.ApplicationReceived{
		Application: *app,
		Job:         job,
	})

	s.notifyManagers(job.ID, notify.ApplicationSubmitted{
		Application: *app,
		Job:         job,
		Candidate:   candidate,
	})

	return app, nil
}

// AdvanceStage moves the application to targetStage and appends a history
// row snapshotting the stage names at call time. Stages are deliberately not
// ordered for traversal: managers may skip forward or move a candidate back,
// order_index is display-only.
func (s *Service) AdvanceStage(app *models.Application, targetStageID uint, actor models.User, notes string) (*models.StageHistory, error) {
	if app.IsTerminal() {
		return nil, ErrTerminalState
	}

	targetStage, err := s.repo.StageForJob(app.JobID, targetStageID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve target stage: %w", err)
	}
	if targetStage == nil {
		return nil, ErrInvalidStage
	}

	var fromStageID *uint
	var fromStageName string

	if app.CurrentStageID != nil {
		fromStageID = app.CurrentStageID
		if app.CurrentStage != nil {
			fromStageName = app.CurrentStage.Name
		} else if stage, err := s.repo.StageByID(*app.CurrentStageID); err == nil && stage != nil {
			fromStageName = stage.Name
		}
	}

	if err := s.repo.SetStage(app, targetStage); err != nil {
		return nil, fmt.Errorf("failed to update application stage: %w", err)
	}

	entry := &models.StageHistory{
		ApplicationID: app.ID,
		FromStageID:   fromStageID,
		ToStageID:     targetStage.ID,
		FromStage:     fromStageName,
		ToStage:       targetStage.Name,
		ActorID:       actor.ID,
		Notes:         notes,
	}

	if err := s.repo.AppendHistory(entry); err != nil {
		return nil, fmt.Errorf("failed to append stage history: %w", err)
	}

	s.notifier.Enqueue(recipientFor(app.Candidate), notify.ApplicationStageUpdated{
		Application: *app,
		Job:         app.Job,
		OldStage:    fromStageName,
		NewStage:    targetStage.Name,
		UpdatedBy:   actor.Name,
	})

	return entry, nil
}

// ChangeStatus applies a status transition. The status set is flat; the only
// enforced rule is that withdrawn is terminal.
func (s *Service) ChangeStatus(app *models.Application, newStatus string, actor models.User) error {
	if app.IsTerminal() {
		return ErrTerminalState
	}
	if !models.IsValidApplicationStatus(newStatus) {
		return ErrInvalidStatus
	}

	oldStatus := app.Status

	if err := s.repo.SetStatus(app, newStatus, ""); err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}

	candidate := recipientFor(app.Candidate)

	s.notifier.Enqueue(candidate, notify.ApplicationStatusUpdated{
		Application: *app,
		Job:         app.Job,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		UpdatedBy:   actor.Name,
	})

	switch newStatus {
	case models.ApplicationStatusAccepted:
		s.notifier.Enqueue(candidate, notify.ApplicationAccepted{
			Application: *app,
			Job:         app.Job,
		})
	case models.ApplicationStatusRejected:
		s.notifier.Enqueue(candidate, notify.ApplicationRejected{
			Application: *app,
			Job:         app.Job,
		})
	}

	return nil
}

// Withdraw is the candidate-initiated terminal transition. It stores the
// reason, creates no stage history (withdrawal is a status concept, not a
// stage concept) and alerts the job's managers: the primary manager when one
// is resolvable, otherwise every manager of the company.
func (s *Service) Withdraw(app *models.Application, candidate models.User, reason string) error {
	if app.IsTerminal() {
		return ErrTerminalState
	}

	if err := s.repo.SetStatus(app, models.ApplicationStatusWithdrawn, reason); err != nil {
		return fmt.Errorf("failed to withdraw application: %w", err)
	}

	s.notifyManagers(app.JobID, notify.CandidateWithdrawal{
		Application: *app,
		Job:         app.Job,
		Candidate:   candidate,
		Reason:      reason,
	})

	return nil
}

// notifyManagers fans out to the primary manager when one is resolvable,
// otherwise to all managers of the job's company. Resolution failures are
// logged and swallowed: the mutation already committed.
func (s *Service) notifyManagers(jobID uint, n notify.Notification) {
	primary, all, err := s.managers.ManagersForJob(jobID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"job_id": jobID,
			"type":   n.Type(),
		}).Warnf("failed to resolve managers for notification: %v", err)
		return
	}

	if primary != nil {
		s.notifier.Enqueue(recipientFor(*primary), n)
		return
	}

	for _, manager := range all {
		s.notifier.Enqueue(recipientFor(manager), n)
	}
}
