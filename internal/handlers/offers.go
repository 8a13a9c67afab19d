package handlers

import (
	"errors"
	"net/http"
	"time"

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

type SendOfferRequest struct {
	SalaryMin int64      `json:"salary_min" binding:"required"`
	SalaryMax int64      `json:"salary_max" binding:"required"`
	ExpiresAt *time.Time `json:"expires_at"`
}

type DeclineOfferRequest struct {
	Reason string `json:"reason"`
}

// OfferHandler is a thin shell over the pipeline: offers are recorded on the
// application row, acceptance and decline flip the application status through
// the state machine and fan the offer variants out.
type OfferHandler struct {
	Pipeline *pipeline.Service
	Notifier Notifier
}

func NewOfferHandler(p *pipeline.Service, notifier Notifier) *OfferHandler {
	return &OfferHandler{Pipeline: p, Notifier: notifier}
}

// Send records the offer terms, moves the application to in-progress when it
// is still new, and notifies the candidate.
func (h *OfferHandler) Send(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	app, ok := loadOfferApplication(ctx)
	if !ok {
		return
	}

	if app.IsTerminal() {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Application is withdrawn"})
		return
	}

	var req SendOfferRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"offer_salary_min": req.SalaryMin,
		"offer_salary_max": req.SalaryMax,
		"offer_sent_at":    now,
	}
	if req.ExpiresAt != nil {
		updates["offer_expires_at"] = *req.ExpiresAt
	}

	if err := db.DB.Model(app).Updates(updates).Error; err != nil {
		logger.Log.Errorf("Failed to record offer on application %d: %v", app.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	app.OfferSalaryMin = req.SalaryMin
	app.OfferSalaryMax = req.SalaryMax
	app.OfferSentAt = &now
	app.OfferExpiresAt = req.ExpiresAt

	if app.Status == models.ApplicationStatusNew {
		actor := models.User{
			Model: gorm.Model{ID: currentUser.ID},
			Name:  currentUser.Name,
			Email: currentUser.Email,
		}
		if err := h.Pipeline.ChangeStatus(app, models.ApplicationStatusInProgress, actor); err != nil {
			logger.Log.Errorf("Failed to move application %d to in-progress: %v", app.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
	}

	h.Notifier.Enqueue(notify.Recipient{
		ID:    app.Candidate.ID,
		Name:  app.Candidate.Name,
		Email: app.Candidate.Email,
	}, notify.JobOfferSent{
		Application: *app,
		Job:         app.Job,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
		ExpiresAt:   req.ExpiresAt,
	})

	ctx.JSON(http.StatusOK, gin.H{"application": app})
}

// Accept is the candidate taking the offer: application status flips to
// accepted and the managers hear about it.
func (h *OfferHandler) Accept(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	app, ok := loadOfferApplication(ctx)
	if !ok {
		return
	}

	if app.CandidateID != currentUser.ID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You can only respond to your own offer"})
		return
	}

	if app.OfferSentAt == nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No offer has been sent for this application"})
		return
	}

	candidate := models.User{
		Model: gorm.Model{ID: currentUser.ID},
		Name:  currentUser.Name,
		Email: currentUser.Email,
	}

	if err := h.Pipeline.ChangeStatus(app, models.ApplicationStatusAccepted, candidate); err != nil {
		if errors.Is(err, pipeline.ErrTerminalState) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Application is withdrawn"})
			return
		}
		logger.Log.Errorf("Failed to accept offer on application %d: %v", app.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.notifyManagers(app.JobID, notify.JobOfferAccepted{
		Application: *app,
		Job:         app.Job,
		Candidate:   candidate,
	})

	ctx.JSON(http.StatusOK, gin.H{"application": app})
}

// Decline turns the offer down. The application stays live so the team can
// respond with revised terms or a rejection.
func (h *OfferHandler) Decline(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	app, ok := loadOfferApplication(ctx)
	if !ok {
		return
	}

	if app.CandidateID != currentUser.ID {
		ctx.JSON(http.StatusForbidden, gin.H{"error": "You can only respond to your own offer"})
		return
	}

	if app.OfferSentAt == nil {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "No offer has been sent for this application"})
		return
	}

	if app.IsTerminal() {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Application is withdrawn"})
		return
	}

	var req DeclineOfferRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := db.DB.Model(app).Update("offer_expires_at", nil).Error; err != nil {
		logger.Log.Errorf("Failed to clear offer on application %d: %v", app.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	app.OfferExpiresAt = nil

	candidate := models.User{
		Model: gorm.Model{ID: currentUser.ID},
		Name:  currentUser.Name,
		Email: currentUser.Email,
	}

	h.notifyManagers(app.JobID, notify.JobOfferDeclined{
		Application: *app,
		Job:         app.Job,
		Candidate:   candidate,
		Reason:      req.Reason,
	})

	ctx.JSON(http.StatusOK, gin.H{"application": app})
}

func (h *OfferHandler) notifyManagers(jobID uint, n notify.Notification) {
	primary, all, err := store.Managers{}.ManagersForJob(jobID)
	if err != nil {
		logger.Log.Errorf("Failed to resolve managers for job %d: %v", jobID, err)
		return
	}

	if primary != nil {
		all = []models.User{*primary}
	}

	for _, manager := range all {
		h.Notifier.Enqueue(notify.Recipient{
			ID:    manager.ID,
			Name:  manager.Name,
			Email: manager.Email,
		}, n)
	}
}

func loadOfferApplication(ctx *gin.Context) (*models.Application, bool) {
	applicationID, err := utils.IDParam(ctx, "application_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	var app models.Application
	err = db.DB.Preload("Candidate").Preload("Job").First(&app, applicationID).Error
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
