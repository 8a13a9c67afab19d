package store

import (
	"time"

	"github.com/hireloop-dev/hireloop/db"
	"github.com/hireloop-dev/hireloop/internal/models"
)

// Sweeps implements scheduler.Repository.
type Sweeps struct{}

func (Sweeps) UpcomingEvents(within time.Duration) ([]models.Event, error) {
	var events []models.Event

	now := time.Now()

	err := db.DB.Preload("Application.Candidate").Preload("Job").
		Where("status IN ?", []string{models.EventStatusScheduled, models.EventStatusConfirmed}).
		Where("starts_at > ? AND starts_at <= ?", now, now.Add(within)).
		Where("reminded_at IS NULL").
		Find(&events).Error

	return events, err
}

func (Sweeps) MarkReminded(eventID uint) error {
	return db.DB.Model(&models.Event{}).
		Where("id = ?", eventID).
		Update("reminded_at", time.Now()).Error
}

func (Sweeps) ExpiringJobs(withinDays int) ([]models.Job, error) {
	var jobs []models.Job

	now := time.Now()
	cutoff := now.AddDate(0, 0, withinDays)

	err := db.DB.
		Where("status = ?", models.JobStatusActive).
		Where("expires_at IS NOT NULL AND expires_at > ? AND expires_at <= ?", now, cutoff).
		Find(&jobs).Error

	return jobs, err
}

func (Sweeps) ExpiredJobs() ([]models.Job, error) {
	var jobs []models.Job

	err := db.DB.
		Where("status = ?", models.JobStatusActive).
		Where("expires_at IS NOT NULL AND expires_at <= ?", time.Now()).
		Find(&jobs).Error

	return jobs, err
}

func (Sweeps) ExpiringOffers(withinDays int) ([]models.Application, error) {
	var apps []models.Application

	now := time.Now()
	cutoff := now.AddDate(0, 0, withinDays)

	err := db.DB.Preload("Candidate").Preload("Job").
		Where("status = ?", models.ApplicationStatusInProgress).
		Where("offer_expires_at IS NOT NULL AND offer_expires_at > ? AND offer_expires_at <= ?", now, cutoff).
		Find(&apps).Error

	return apps, err
}

func (Sweeps) CloseJob(jobID uint) error {
	return db.DB.Model(&models.Job{}).
		Where("id = ?", jobID).
		Update("status", models.JobStatusClosed).Error
}
