package store

import (
	"github.com/hireloop-dev/hireloop/db"
	"github.com/hireloop-dev/hireloop/internal/models"
)

// Events implements events.Repository.
type Events struct{}

func (Events) CreateEvent(event *models.Event) error {
	return db.DB.Create(event).Error
}

func (Events) SetEventStatus(event *models.Event, status string) error {
	if err := db.DB.Model(event).Update("status", status).Error; err != nil {
		return err
	}

	event.Status = status
	return nil
}
