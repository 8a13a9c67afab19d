package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hireloop-dev/hireloop/db"
	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/notify"
	"gorm.io/datatypes"
)

// Notifications implements notify.Store and the consumer-facing read API.
type Notifications struct{}

// SaveNotification persists a database-channel delivery. Each domain event
// is a new unread row; the store never deduplicates.
func (Notifications) SaveNotification(ctx context.Context, recipientID uint, typeTag string, payload *notify.DatabasePayload) (uint, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}

	record := models.Notification{
		RecipientID: recipientID,
		Type:        typeTag,
		Payload:     datatypes.JSON(raw),
	}

	if err := db.DB.WithContext(ctx).Create(&record).Error; err != nil {
		return 0, err
	}

	return record.ID, nil
}

// ListForRecipient returns the recipient's notifications newest first, with
// the total count for pagination.
func (Notifications) ListForRecipient(recipientID uint, page, perPage int) ([]models.Notification, int64, error) {
	var total int64

	query := db.DB.Model(&models.Notification{}).Where("recipient_id = ?", recipientID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []models.Notification

	err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&records).Error

	return records, total, err
}

// MarkRead stamps one notification. Already-read rows keep their original
// read_at; the call is a no-op for them.
func (Notifications) MarkRead(recipientID, notificationID uint) error {
	return db.DB.Model(&models.Notification{}).
		Where("id = ? AND recipient_id = ? AND read_at IS NULL", notificationID, recipientID).
		Update("read_at", time.Now()).Error
}

// MarkAllRead stamps every unread row for the recipient. Calling it with
// nothing unread is not an error.
func (Notifications) MarkAllRead(recipientID uint) error {
	return db.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Update("read_at", time.Now()).Error
}

func (Notifications) UnreadCount(recipientID uint) (int64, error) {
	var count int64

	err := db.DB.Model(&models.Notification{}).
		Where("recipient_id = ? AND read_at IS NULL", recipientID).
		Count(&count).Error

	return count, err
}

// Delete removes one notification for the recipient. Only explicit user
// action reaches this; the pipeline never deletes delivery records.
func (Notifications) Delete(recipientID, notificationID uint) error {
	return db.DB.
		Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		Delete(&models.Notification{}).Error
}
