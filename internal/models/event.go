package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	EventTypeInterview = "interview"
	EventTypeTest      = "test"
	EventTypeMeeting   = "meeting"
	EventTypeOther     = "other"
)

const (
	EventStatusScheduled   = "scheduled"
	EventStatusConfirmed   = "confirmed"
	EventStatusCompleted   = "completed"
	EventStatusCancelled   = "cancelled"
	EventStatusRescheduled = "rescheduled"
)

// EventTypes is the closed set of valid event types.
var EventTypes = []string{
	EventTypeInterview,
	EventTypeTest,
	EventTypeMeeting,
	EventTypeOther,
}

func IsValidEventType(t string) bool {
	for _, valid := range EventTypes {
		if t == valid {
			return true
		}
	}
	return false
}

// EventStatuses is the closed set of valid event statuses.
var EventStatuses = []string{
	EventStatusScheduled,
	EventStatusConfirmed,
	EventStatusCompleted,
	EventStatusCancelled,
	EventStatusRescheduled,
}

func IsValidEventStatus(s string) bool {
	for _, valid := range EventStatuses {
		if s == valid {
			return true
		}
	}
	return false
}

type Event struct {
	gorm.Model

	ApplicationID uint      `gorm:"not null;index"`
	JobID         uint      `gorm:"not null;index"`
	Type          string    `gorm:"not null"`
	Status        string    `gorm:"not null;default:scheduled"`
	StartsAt      time.Time `gorm:"not null"`
	EndsAt        time.Time `gorm:"not null"`
	Location      string
	MeetingLink   string
	Notes         string
	CreatedByID   uint       `gorm:"not null"`
	RemindedAt    *time.Time // set once the pre-start reminder has gone out

	// Relationships
	Application Application `gorm:"foreignKey:ApplicationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Job         Job         `gorm:"foreignKey:JobID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CreatedBy   User        `gorm:"foreignKey:CreatedByID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// IsCancelled reports whether the event reached its terminal status.
func (e Event) IsCancelled() bool {
	return e.Status == EventStatusCancelled
}
