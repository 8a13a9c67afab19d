package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Notification is the database-channel delivery record. ReadAt is null while
// unread; rows are mutated only by mark-as-read and deleted only by explicit
// user action, never by the pipeline.
type Notification struct {
	gorm.Model

	RecipientID uint           `gorm:"not null;index"`
	Type        string         `gorm:"not null;index"`
	Payload     datatypes.JSON `gorm:"type:jsonb"`
	ReadAt      *time.Time

	// Relationships
	Recipient User `gorm:"foreignKey:RecipientID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
