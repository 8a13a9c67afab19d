package pipeline_test

import (
	"errors"
	"testing"

	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/notify"
	"github.com/hireloop-dev/hireloop/internal/pipeline"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type fakeRepo struct {
	stages    map[uint]map[uint]*models.HiringStage // jobID -> stageID -> stage
	firstByID map[uint]uint                         // jobID -> first stage id
	existing  map[[2]uint]bool                      // candidateID, jobID
	history   []models.StageHistory
	created   []*models.Application

	failSetStage error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		stages:    make(map[uint]map[uint]*models.HiringStage),
		firstByID: make(map[uint]uint),
		existing:  make(map[[2]uint]bool),
	}
}

func (f *fakeRepo) addStage(jobID uint, stage *models.HiringStage) {
	if f.stages[jobID] == nil {
		f.stages[jobID] = make(map[uint]*models.HiringStage)
		f.firstByID[jobID] = stage.ID
	}
	f.stages[jobID][stage.ID] = stage
}

func (f *fakeRepo) StageForJob(jobID, stageID uint) (*models.HiringStage, error) {
	return f.stages[jobID][stageID], nil
}

func (f *fakeRepo) FirstStageForJob(jobID uint) (*models.HiringStage, error) {
	id, ok := f.firstByID[jobID]
	if !ok {
		return nil, nil
	}
	return f.stages[jobID][id], nil
}

func (f *fakeRepo) StageByID(stageID uint) (*models.HiringStage, error) {
	for _, byStage := range f.stages {
		if stage, ok := byStage[stageID]; ok {
			return stage, nil
		}
	}
	return nil, nil
}

func (f *fakeRepo) CreateApplication(app *models.Application) error {
	app.ID = uint(len(f.created) + 1)
	f.created = append(f.created, app)
	return nil
}

func (f *fakeRepo) HasApplication(candidateID, jobID uint) (bool, error) {
	return f.existing[[2]uint{candidateID, jobID}], nil
}

func (f *fakeRepo) SetStage(app *models.Application, stage *models.HiringStage) error {
	if f.failSetStage != nil {
		return f.failSetStage
	}
	id := stage.ID
	app.CurrentStageID = &id
	app.CurrentStage = stage
	return nil
}

func (f *fakeRepo) SetStatus(app *models.Application, status string, reason string) error {
	app.Status = status
	if reason != "" {
		app.WithdrawalReason = reason
	}
	return nil
}

func (f *fakeRepo) AppendHistory(entry *models.StageHistory) error {
	f.history = append(f.history, *entry)
	return nil
}

type fakeManagers struct {
	primary *models.User
	all     []models.User
	err     error
}

func (f fakeManagers) ManagersForJob(jobID uint) (*models.User, []models.User, error) {
	return f.primary, f.all, f.err
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

func (f *fakeNotifier) typesSent() []string {
	var types []string
	for _, e := range f.sent {
		types = append(types, e.n.Type())
	}
	return types
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func stage(id uint, name string) *models.HiringStage {
	return &models.HiringStage{
		Model: gorm.Model{ID: id},
		Name:  name,
		Slug:  models.Slugify(name),
	}
}

func candidate() models.User {
	return models.User{
		Model: gorm.Model{ID: 7},
		Name:  "Priya Candidate",
		Email: "priya@example.com",
		Role:  models.RoleCandidate,
	}
}

func manager() models.User {
	return models.User{
		Model: gorm.Model{ID: 3},
		Name:  "Mark Manager",
		Email: "mark@example.com",
		Role:  models.RoleManager,
	}
}

func activeJob() models.Job {
	return models.Job{
		Model:  gorm.Model{ID: 42},
		Title:  "Backend Engineer",
		Status: models.JobStatusActive,
	}
}

func TestSubmitApplicationAssignsFirstStage(t *testing.T) {
	repo := newFakeRepo()
	repo.addStage(42, stage(1, "Applied"))
	repo.addStage(42, stage(2, "Phone Screen"))

	notifier := &fakeNotifier{}
	svc := pipeline.NewService(repo, fakeManagers{all: []models.User{manager()}}, notifier, quietLogger())

	app, err := svc.SubmitApplication(candidate(), activeJob(), "hello")
	if err != nil {
		t.Fatalf("SubmitApplication: %v", err)
	}

	if app.Status != models.ApplicationStatusNew {
		t.Fatalf("status = %q, want %q", app.Status, models.ApplicationStatusNew)
	}
	if app.CurrentStageID == nil || *app.CurrentStageID != 1 {
		t.Fatalf("current stage = %v, want 1", app.CurrentStageID)
	}

	types := notifier.typesSent()
	if len(types) != 2 {
		t.Fatalf("sent %d notifications, want 2: %v", len(types), types)
	}
	if types[0] != "application.received" || types[1] != "application.submitted" {
		t.Fatalf("notification types = %v", types)
	}
}

func TestSubmitApplicationRejectsClosedJob(t *testing.T) {
	repo := newFakeRepo()
	svc := pipeline.NewService(repo, fakeManagers{}, &fakeNotifier{}, quietLogger())

	job := activeJob()
	job.Status = models.JobStatusClosed

	if _, err := svc.SubmitApplication(candidate(), job, ""); !errors.Is(err, pipeline.ErrJobNotOpen) {
		t.Fatalf("err = %v, want ErrJobNotOpen", err)
	}
}

func TestSubmitApplicationRejectsDuplicate(t *testing.T) {
	repo := newFakeRepo()
	repo.existing[[2]uint{7, 42}] = true

	svc := pipeline.NewService(repo, fakeManagers{}, &fakeNotifier{}, quietLogger())

	if _, err := svc.SubmitApplication(candidate(), activeJob(), ""); !errors.Is(err, pipeline.ErrDuplicateApplication) {
		t.Fatalf("err = %v, want ErrDuplicateApplication", err)
	}
}

func TestAdvanceStageSnapshotsNames(t *testing.T) {
	repo := newFakeRepo()
	applied := stage(1, "Applied")
	screen := stage(2, "Phone Screen")
	repo.addStage(42, applied)
	repo.addStage(42, screen)

	notifier := &fakeNotifier{}
	svc := pipeline.NewService(repo, fakeManagers{}, notifier, quietLogger())

	stageID := applied.ID
	app := &models.Application{
		Model:          gorm.Model{ID: 9},
		CandidateID:    7,
		JobID:          42,
		Status:         models.ApplicationStatusInProgress,
		CurrentStageID: &stageID,
		CurrentStage:   applied,
		Candidate:      candidate(),
		Job:            activeJob(),
	}

	entry, err := svc.AdvanceStage(app, screen.ID, manager(), "strong phone screen")
	if err != nil {
		t.Fatalf("AdvanceStage: %v", err)
	}

	if entry.FromStage != "Applied" || entry.ToStage != "Phone Screen" {
		t.Fatalf("history names = %q -> %q, want Applied -> Phone Screen", entry.FromStage, entry.ToStage)
	}
	if entry.FromStageID == nil || *entry.FromStageID != 1 {
		t.Fatalf("FromStageID = %v, want 1", entry.FromStageID)
	}
	if entry.ActorID != 3 {
		t.Fatalf("ActorID = %d, want 3", entry.ActorID)
	}
	if len(repo.history) != 1 {
		t.Fatalf("history rows = %d, want 1", len(repo.history))
	}

	types := notifier.typesSent()
	if len(types) != 1 || types[0] != "application.stage_updated" {
		t.Fatalf("notification types = %v", types)
	}
}

func TestAdvanceStageRejectsForeignStage(t *testing.T) {
	repo := newFakeRepo()
	repo.addStage(42, stage(1, "Applied"))
	// Stage 99 belongs to no job.

	svc := pipeline.NewService(repo, fakeManagers{}, &fakeNotifier{}, quietLogger())

	app := &models.Application{
		Model:  gorm.Model{ID: 9},
		JobID:  42,
		Status: models.ApplicationStatusNew,
	}

	if _, err := svc.AdvanceStage(app, 99, manager(), ""); !errors.Is(err, pipeline.ErrInvalidStage) {
		t.Fatalf("err = %v, want ErrInvalidStage", err)
	}
}

func TestAdvanceStageRejectsWithdrawnApplication(t *testing.T) {
	repo := newFakeRepo()
	repo.addStage(42, stage(1, "Applied"))

	svc := pipeline.NewService(repo, fakeManagers{}, &fakeNotifier{}, quietLogger())

	app := &models.Application{
		Model:  gorm.Model{ID: 9},
		JobID:  42,
		Status: models.ApplicationStatusWithdrawn,
	}

	if _, err := svc.AdvanceStage(app, 1, manager(), ""); !errors.Is(err, pipeline.ErrTerminalState) {
		t.Fatalf("err = %v, want ErrTerminalState", err)
	}
	if len(repo.history) != 0 {
		t.Fatalf("history rows = %d, want 0", len(repo.history))
	}
}

func TestChangeStatusEmitsAcceptedVariant(t *testing.T) {
	repo := newFakeRepo()
	notifier := &fakeNotifier{}
	svc := pipeline.NewService(repo, fakeManagers{}, notifier, quietLogger())

	app := &models.Application{
		Model:     gorm.Model{ID: 9},
		JobID:     42,
		Status:    models.ApplicationStatusInProgress,
		Candidate: candidate(),
		Job:       activeJob(),
	}

	if err := svc.ChangeStatus(app, models.ApplicationStatusAccepted, manager()); err != nil {
		t.Fatalf("ChangeStatus: %v", err)
	}

	types := notifier.typesSent()
	want := []string{"application.status_updated", "application.accepted"}
	if len(types) != len(want) {
		t.Fatalf("notification types = %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("notification types = %v, want %v", types, want)
		}
	}
}

func TestChangeStatusRejectsUnknownStatus(t *testing.T) {
	svc := pipeline.NewService(newFakeRepo(), fakeManagers{}, &fakeNotifier{}, quietLogger())

	app := &models.Application{Status: models.ApplicationStatusNew}

	if err := svc.ChangeStatus(app, "hired", manager()); !errors.Is(err, pipeline.ErrInvalidStatus) {
		t.Fatalf("err = %v, want ErrInvalidStatus", err)
	}
}

func TestChangeStatusRejectsWithdrawnApplication(t *testing.T) {
	svc := pipeline.NewService(newFakeRepo(), fakeManagers{}, &fakeNotifier{}, quietLogger())

	app := &models.Application{Status: models.ApplicationStatusWithdrawn}

	if err := svc.ChangeStatus(app, models.ApplicationStatusRejected, manager()); !errors.Is(err, pipeline.ErrTerminalState) {
		t.Fatalf("err = %v, want ErrTerminalState", err)
	}
}

func TestWithdrawNotifiesPrimaryManagerOnly(t *testing.T) {
	primary := manager()
	other := models.User{Model: gorm.Model{ID: 4}, Name: "Olga Other", Email: "olga@example.com"}

	notifier := &fakeNotifier{}
	svc := pipeline.NewService(newFakeRepo(), fakeManagers{
		primary: &primary,
		all:     []models.User{primary, other},
	}, notifier, quietLogger())

	app := &models.Application{
		Model:       gorm.Model{ID: 9},
		CandidateID: 7,
		JobID:       42,
		Status:      models.ApplicationStatusInProgress,
		Job:         activeJob(),
	}

	if err := svc.Withdraw(app, candidate(), "accepted another offer"); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}

	if app.Status != models.ApplicationStatusWithdrawn {
		t.Fatalf("status = %q, want withdrawn", app.Status)
	}
	if app.WithdrawalReason != "accepted another offer" {
		t.Fatalf("reason = %q", app.WithdrawalReason)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("sent %d notifications, want 1", len(notifier.sent))
	}
	if notifier.sent[0].recipient.ID != primary.ID {
		t.Fatalf("recipient = %d, want primary manager %d", notifier.sent[0].recipient.ID, primary.ID)
	}
	if notifier.sent[0].n.Type() != "application.withdrawn" {
		t.Fatalf("type = %q", notifier.sent[0].n.Type())
	}
}

func TestWithdrawFansOutWithoutPrimary(t *testing.T) {
	managers := []models.User{
		{Model: gorm.Model{ID: 3}, Name: "A", Email: "a@example.com"},
		{Model: gorm.Model{ID: 4}, Name: "B", Email: "b@example.com"},
	}

	notifier := &fakeNotifier{}
	svc := pipeline.NewService(newFakeRepo(), fakeManagers{all: managers}, notifier, quietLogger())

	app := &models.Application{
		Model:  gorm.Model{ID: 9},
		JobID:  42,
		Status: models.ApplicationStatusNew,
		Job:    activeJob(),
	}

	if err := svc.Withdraw(app, candidate(), ""); err != nil {
		t.Fatalf("Withdraw: %v", err)
	}

	if len(notifier.sent) != 2 {
		t.Fatalf("sent %d notifications, want 2", len(notifier.sent))
	}
}

func TestWithdrawIsTerminal(t *testing.T) {
	notifier := &fakeNotifier{}
	svc := pipeline.NewService(newFakeRepo(), fakeManagers{}, notifier, quietLogger())

	app := &models.Application{Status: models.ApplicationStatusWithdrawn}

	if err := svc.Withdraw(app, candidate(), "again"); !errors.Is(err, pipeline.ErrTerminalState) {
		t.Fatalf("err = %v, want ErrTerminalState", err)
	}
	if len(notifier.sent) != 0 {
		t.Fatalf("sent %d notifications, want 0", len(notifier.sent))
	}
}
