package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hireloop-dev/hireloop/db"
	"github.com/hireloop-dev/hireloop/internal/logger"
	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/notify"
	"github.com/hireloop-dev/hireloop/internal/pipeline"
	"github.com/hireloop-dev/hireloop/internal/store"
	"github.com/hireloop-dev/hireloop/internal/utils"
	"gorm.io/gorm"
)

// applicationQuotaStep is the milestone interval for manager volume alerts:
// every time a posting's application count crosses a multiple of this value,
// the managers get a JobApplicationQuota notification.
const applicationQuotaStep = 25

type ApplyRequest struct {
	CoverLetter string `json:"cover_letter"`
}

type AdvanceStageRequest struct {
	StageID uint   `json:"stage_id" binding:"required"`
	Notes   string `json:"notes"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type WithdrawRequest struct {
	Reason string `json:"reason"`
}

type AddNoteRequest struct {
	Body string `json:"body" binding:"required"`
}

type ApplicationHandler struct {
	Pipeline *pipeline.Service
	Notifier Notifier
}

func NewApplicationHandler(p *pipeline.Service, notifier Notifier) *ApplicationHandler {
	return &ApplicationHandler{Pipeline: p, Notifier: notifier}
}

// Apply submits the current user's application for the job in the route.
func (h *ApplicationHandler) Apply(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	jobID, err := utils.IDParam(ctx, "job_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req ApplyRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var job models.Job
	if err := db.DB.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		logger.Log.Errorf("Failed to fetch job %d: %v", jobID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	candidate := models.User{
		Model: gorm.Model{ID: currentUser.ID},
		Name:  currentUser.Name,
		Email: currentUser.Email,
		Role:  currentUser.Role,
	}

	app, err := h.Pipeline.SubmitApplication(candidate, job, req.CoverLetter)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrJobNotOpen):
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Job is not accepting applications"})
		case errors.Is(err, pipeline.ErrDuplicateApplication):
			ctx.JSON(http.StatusConflict, gin.H{"error": "You have already applied for this job"})
		default:
			logger.Log.Errorf("Failed to submit application for job %d: %v", jobID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	h.checkApplicationQuota(job)

	ctx.JSON(http.StatusCreated, gin.H{"application": app})
}

// checkApplicationQuota alerts the job's managers each time the application
// count crosses a milestone. Counting failures are logged and ignored.
func (h *ApplicationHandler) checkApplicationQuota(job models.Job) {
	var count int64

	err := db.DB.Model(&models.Application{}).
		Where("job_id = ?", job.ID).
		Count(&count).Error
	if err != nil {
		logger.Log.Errorf("Failed to count applications for job %d: %v", job.ID, err)
		return
	}

	if count == 0 || count%applicationQuotaStep != 0 {
		return
	}

	_, managers, err := store.Managers{}.ManagersForJob(job.ID)
	if err != nil {
		logger.Log.Errorf("Failed to resolve managers for job %d: %v", job.ID, err)
		return
	}

	for _, manager := range managers {
		h.Notifier.Enqueue(notify.Recipient{
			ID:    manager.ID,
			Name:  manager.Name,
			Email: manager.Email,
		}, notify.JobApplicationQuota{Job: job, Count: count})
	}
}

// ListMine returns the current candidate's applications, newest first.
func (h *ApplicationHandler) ListMine(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var apps []models.Application

	err = db.DB.Preload("Job").Preload("Job.Company").Preload("CurrentStage").
		Where("candidate_id = ?", userID).
		Order("created_at DESC").
		Find(&apps).Error
	if err != nil {
		logger.Log.Errorf("Failed to list applications for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"applications": apps})
}

// ListForJob returns a job's applications for the hiring team.
func (h *ApplicationHandler) ListForJob(ctx *gin.Context) {
	jobID, err := utils.IDParam(ctx, "job_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	query := db.DB.Preload("Candidate").Preload("CurrentStage").
		Where("job_id = ?", jobID)

	if status := ctx.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if stageID := ctx.Query("stage_id"); stageID != "" {
		query = query.Where("current_stage_id = ?", stageID)
	}
	if ctx.Query("favorites") == "true" {
		query = query.Where("is_favorite = ?", true)
	}

	var apps []models.Application
	if err := query.Order("created_at DESC").Find(&apps).Error; err != nil {
		logger.Log.Errorf("Failed to list applications for job %d: %v", jobID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"applications": apps})
}

// History returns the stage transition log for an application.
func (h *ApplicationHandler) History(ctx *gin.Context) {
	applicationID, err := utils.IDParam(ctx, "application_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var history []models.StageHistory

	err = db.DB.Preload("Actor").
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&history).Error
	if err != nil {
		logger.Log.Errorf("Failed to fetch history for application %d: %v", applicationID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"history": history})
}

// AdvanceStage moves an application to another stage of its job.
func (h *ApplicationHandler) AdvanceStage(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	app, ok := h.loadApplication(ctx)
	if !ok {
		return
	}

	var req AdvanceStageRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor := models.User{
		Model: gorm.Model{ID: currentUser.ID},
		Name:  currentUser.Name,
		Email: currentUser.Email,
	}

	entry, err := h.Pipeline.AdvanceStage(app, req.StageID, actor, req.Notes)
	if err != nil {
		switch {
		case errors.Is(err, pipeline.ErrTerminalState):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Application is withdrawn and cannot change stage"})
		case errors.Is(err, pipeline.ErrInvalidStage):
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Stage is not part of this job's pipeline"})
		default:
			logger.Log.Errorf("Failed to advance application %d: %v", app.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"application": app, "history": entry})
}

// ChangeStatus applies a status transition to an application.
func (h *ApplicationHandler) ChangeStatus(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	app, ok := h.loadApplication(ctx)
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor := models.User{
		Model: gorm.Model{ID: currentUser.ID},
		Name:  currentUser.Name,
		Email: currentUser.Email,
	}

	if err := h.Pipeline.ChangeStatus(app, req.Status, actor); err != nil {
		switch {
		case errors.Is(err, pipeline.ErrTerminalState):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Application is withdrawn and cannot change status"})
		case errors.Is(err, pipeline.ErrInvalidStatus):
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unknown application status"})
		default:
			logger.Log.Errorf("Failed to change status of application %d: %v", app.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"application": app})
}

// Withdraw is the candidate-initiated terminal transition. Only the owning
// candidate may withdraw.
func (h *ApplicationHandler) Withdraw(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	app, ok := h.loadApplication(ctx)
	if !ok {
		return
	}

	if app.CandidateID != currentUser.ID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You can only withdraw your own application"})
		return
	}

	var req WithdrawRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	candidate := models.User{
		Model: gorm.Model{ID: currentUser.ID},
		Name:  currentUser.Name,
		Email: currentUser.Email,
	}

	if err := h.Pipeline.Withdraw(app, candidate, req.Reason); err != nil {
		if errors.Is(err, pipeline.ErrTerminalState) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Application is already withdrawn"})
			return
		}
		logger.Log.Errorf("Failed to withdraw application %d: %v", app.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"application": app})
}

// ToggleFavorite flips the manager-side shortlist flag. No notification.
func (h *ApplicationHandler) ToggleFavorite(ctx *gin.Context) {
	app, ok := h.loadApplication(ctx)
	if !ok {
		return
	}

	if err := db.DB.Model(app).Update("is_favorite", !app.IsFavorite).Error; err != nil {
		logger.Log.Errorf("Failed to toggle favorite on application %d: %v", app.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	app.IsFavorite = !app.IsFavorite

	ctx.JSON(http.StatusOK, gin.H{"application": app})
}

// AddNote attaches an internal note to an application and tells the other
// managers on the job about it. The author is not notified.
func (h *ApplicationHandler) AddNote(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	app, ok := h.loadApplication(ctx)
	if !ok {
		return
	}

	var req AddNoteRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Note body is required"})
		return
	}

	note := models.ApplicationNote{
		ApplicationID: app.ID,
		AuthorID:      currentUser.ID,
		Body:          req.Body,
	}

	if err := db.DB.Create(&note).Error; err != nil {
		logger.Log.Errorf("Failed to save note on application %d: %v", app.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	_, managers, err := store.Managers{}.ManagersForJob(app.JobID)
	if err != nil {
		logger.Log.Errorf("Failed to resolve managers for job %d: %v", app.JobID, err)
	}
	for _, manager := range managers {
		if manager.ID == currentUser.ID {
			continue
		}
		h.Notifier.Enqueue(notify.Recipient{
			ID:    manager.ID,
			Name:  manager.Name,
			Email: manager.Email,
		}, notify.ApplicationNoteAdded{
			Application: *app,
			Job:         app.Job,
			Author:      currentUser.Name,
			Note:        req.Body,
		})
	}

	ctx.JSON(http.StatusCreated, gin.H{"note": note})
}

// ListNotes returns an application's notes, oldest first.
func (h *ApplicationHandler) ListNotes(ctx *gin.Context) {
	applicationID, err := utils.IDParam(ctx, "application_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var notes []models.ApplicationNote

	err = db.DB.Preload("Author").
		Where("application_id = ?", applicationID).
		Order("created_at ASC").
		Find(&notes).Error
	if err != nil {
		logger.Log.Errorf("Failed to list notes for application %d: %v", applicationID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"notes": notes})
}

// loadApplication fetches the application in the route with the associations
// the pipeline notifications render from. Writes the error response itself.
func (h *ApplicationHandler) loadApplication(ctx *gin.Context) (*models.Application, bool) {
	applicationID, err := utils.IDParam(ctx, "application_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	var app models.Application

	err = db.DB.Preload("Candidate").Preload("Job").Preload("CurrentStage").
		First(&app, applicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return nil, false
		}
		logger.Log.Errorf("Failed to fetch application %d: %v", applicationID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}

	return &app, true
}
