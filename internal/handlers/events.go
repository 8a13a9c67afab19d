package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hireloop-dev/hireloop/db"
	"github.com/hireloop-dev/hireloop/internal/events"
	"github.com/hireloop-dev/hireloop/internal/logger"
	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/utils"
	"gorm.io/gorm"
)

type ScheduleEventRequest struct {
	Type        string    `json:"type" binding:"required"`
	StartsAt    time.Time `json:"starts_at" binding:"required"`
	EndsAt      time.Time `json:"ends_at" binding:"required"`
	Location    string    `json:"location"`
	MeetingLink string    `json:"meeting_link"`
	Notes       string    `json:"notes"`
}

type UpdateEventStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=scheduled confirmed completed rescheduled"`
}

type CancelEventRequest struct {
	Reason string `json:"reason"`
}

type EventHandler struct {
	Events *events.Service
}

func NewEventHandler(service *events.Service) *EventHandler {
	return &EventHandler{Events: service}
}

// Schedule creates an event against the application in the route.
func (h *EventHandler) Schedule(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	applicationID, err := utils.IDParam(ctx, "application_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req ScheduleEventRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var app models.Application
	err = db.DB.Preload("Candidate").Preload("Job").First(&app, applicationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Application not found"})
			return
		}
		logger.Log.Errorf("Failed to fetch application %d: %v", applicationID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	actor := models.User{
		Model: gorm.Model{ID: currentUser.ID},
		Name:  currentUser.Name,
		Email: currentUser.Email,
	}

	event, err := h.Events.ScheduleEvent(app, events.ScheduleParams{
		Type:        req.Type,
		StartsAt:    req.StartsAt,
		EndsAt:      req.EndsAt,
		Location:    req.Location,
		MeetingLink: req.MeetingLink,
		Notes:       req.Notes,
	}, actor)
	if err != nil {
		switch {
		case errors.Is(err, events.ErrInvalidType):
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unknown event type"})
		case errors.Is(err, events.ErrInvalidRange):
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Event end must not be before its start"})
		default:
			logger.Log.Errorf("Failed to schedule event for application %d: %v", applicationID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"event": event})
}

// UpdateStatus applies a lifecycle transition to an event.
func (h *EventHandler) UpdateStatus(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	event, ok := loadEvent(ctx)
	if !ok {
		return
	}

	var req UpdateEventStatusRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor := models.User{
		Model: gorm.Model{ID: currentUser.ID},
		Name:  currentUser.Name,
		Email: currentUser.Email,
	}

	if err := h.Events.UpdateEventStatus(event, req.Status, actor); err != nil {
		switch {
		case errors.Is(err, events.ErrTerminalState):
			ctx.JSON(http.StatusConflict, gin.H{"error": "Event is cancelled and cannot change status"})
		case errors.Is(err, events.ErrInvalidStatus):
			ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Unknown event status"})
		default:
			logger.Log.Errorf("Failed to update event %d: %v", event.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"event": event})
}

// Cancel moves an event to its terminal status.
func (h *EventHandler) Cancel(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	event, ok := loadEvent(ctx)
	if !ok {
		return
	}

	var req CancelEventRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	actor := models.User{
		Model: gorm.Model{ID: currentUser.ID},
		Name:  currentUser.Name,
		Email: currentUser.Email,
	}

	if err := h.Events.CancelEvent(event, actor, req.Reason); err != nil {
		if errors.Is(err, events.ErrTerminalState) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Event is already cancelled"})
			return
		}
		logger.Log.Errorf("Failed to cancel event %d: %v", event.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"event": event})
}

// ListForApplication returns an application's events, soonest first.
func (h *EventHandler) ListForApplication(ctx *gin.Context) {
	applicationID, err := utils.IDParam(ctx, "application_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var list []models.Event
	err = db.DB.Preload("CreatedBy").
		Where("application_id = ?", applicationID).
		Order("starts_at ASC").
		Find(&list).Error
	if err != nil {
		logger.Log.Errorf("Failed to list events for application %d: %v", applicationID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"events": list})
}

// loadEvent fetches the event in the route with the associations the
// notifications render from.
func loadEvent(ctx *gin.Context) (*models.Event, bool) {
	eventID, err := utils.IDParam(ctx, "event_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	var event models.Event
	err = db.DB.Preload("Application.Candidate").Preload("Job").First(&event, eventID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Event not found"})
			return nil, false
		}
		logger.Log.Errorf("Failed to fetch event %d: %v", eventID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}

	return &event, true
}
