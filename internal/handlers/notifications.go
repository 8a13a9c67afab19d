package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hireloop-dev/hireloop/internal/logger"
	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/utils"
)

// NotificationStore is the read-API surface over delivered notifications.
// The gorm implementation is store.Notifications.
type NotificationStore interface {
	ListForRecipient(recipientID uint, page, perPage int) ([]models.Notification, int64, error)
	MarkRead(recipientID, notificationID uint) error
	MarkAllRead(recipientID uint) error
	UnreadCount(recipientID uint) (int64, error)
	Delete(recipientID, notificationID uint) error
}

// NotificationHandler exposes the read API over the database-channel store.
type NotificationHandler struct {
	Store NotificationStore
}

func NewNotificationHandler(notifications NotificationStore) *NotificationHandler {
	return &NotificationHandler{Store: notifications}
}

func (h *NotificationHandler) List(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	page, perPage := utils.PageParams(ctx)

	records, total, err := h.Store.ListForRecipient(userID, page, perPage)
	if err != nil {
		logger.Log.Errorf("Failed to list notifications for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"notifications": records,
		"total":         total,
		"page":          page,
		"per_page":      perPage,
	})
}

func (h *NotificationHandler) UnreadCount(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	count, err := h.Store.UnreadCount(userID)
	if err != nil {
		logger.Log.Errorf("Failed to count unread notifications for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"unread": count})
}

func (h *NotificationHandler) MarkRead(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	notificationID, err := utils.IDParam(ctx, "notification_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.MarkRead(userID, notificationID); err != nil {
		logger.Log.Errorf("Failed to mark notification %d read: %v", notificationID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := h.Store.MarkAllRead(userID); err != nil {
		logger.Log.Errorf("Failed to mark all notifications read for user %d: %v", userID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

func (h *NotificationHandler) Delete(ctx *gin.Context) {
	userID, err := utils.GetCurrentUserID(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	notificationID, err := utils.IDParam(ctx, "notification_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Store.Delete(userID, notificationID); err != nil {
		logger.Log.Errorf("Failed to delete notification %d: %v", notificationID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Notification deleted"})
}
