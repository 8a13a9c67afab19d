package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	JobStatusDraft  = "draft"
	JobStatusActive = "active"
	JobStatusClosed = "closed"
)

type Job struct {
	gorm.Model

	CompanyID   uint   `gorm:"not null;index"`
	Title       string `gorm:"not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Description string
	Location    string
	Type        string `gorm:"not null"` // "full_time", "part_time", "internship", "contract"
	SalaryMin   int64
	SalaryMax   int64
	Status      string `gorm:"not null;default:draft"`
	ExpiresAt   *time.Time

	// Relationships
	Company      Company       `gorm:"foreignKey:CompanyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Stages       []JobStage    `gorm:"foreignKey:JobID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Applications []Application `gorm:"foreignKey:JobID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// IsActive is derived from Status, which is the single source of truth for
// job activity.
func (j Job) IsActive() bool {
	return j.Status == JobStatusActive
}

// JobStage assigns a hiring stage to a job with a per-job display order.
type JobStage struct {
	gorm.Model

	JobID      uint `gorm:"not null;uniqueIndex:idx_job_stage"`
	StageID    uint `gorm:"not null;uniqueIndex:idx_job_stage"`
	OrderIndex int  `gorm:"not null"`

	// Relationships
	Job   Job         `gorm:"foreignKey:JobID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Stage HiringStage `gorm:"foreignKey:StageID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
}
