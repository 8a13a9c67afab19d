package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	ApplicationStatusNew        = "new"
	ApplicationStatusInProgress = "in-progress"
	ApplicationStatusAccepted   = "accepted"
	ApplicationStatusRejected   = "rejected"
	ApplicationStatusWithdrawn  = "withdrawn"
)

// ApplicationStatuses is the closed set of valid application statuses.
var ApplicationStatuses = []string{
	ApplicationStatusNew,
	ApplicationStatusInProgress,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
	ApplicationStatusWithdrawn,
}

// IsValidApplicationStatus reports whether s is a member of the closed
// status set.
func IsValidApplicationStatus(s string) bool {
	for _, valid := range ApplicationStatuses {
		if s == valid {
			return true
		}
	}
	return false
}

type Application struct {
	gorm.Model

	CandidateID      uint   `gorm:"not null;uniqueIndex:idx_candidate_job"`
	JobID            uint   `gorm:"not null;uniqueIndex:idx_candidate_job"`
	CurrentStageID   *uint  `gorm:"index"`
	Status           string `gorm:"not null;default:new"`
	IsFavorite       bool   `gorm:"default:false"`
	WithdrawalReason string
	CoverLetter      string

	// Offer terms, set once an offer goes out. OfferExpiresAt drives the
	// expiry reminder sweep.
	OfferSalaryMin int64
	OfferSalaryMax int64
	OfferSentAt    *time.Time
	OfferExpiresAt *time.Time

	// Relationships
	Candidate    User           `gorm:"foreignKey:CandidateID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Job          Job            `gorm:"foreignKey:JobID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	CurrentStage *HiringStage   `gorm:"foreignKey:CurrentStageID;constraint:OnUpdate:Cascade,OnDelete:RESTRICT"`
	History      []StageHistory `gorm:"foreignKey:ApplicationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Events       []Event        `gorm:"foreignKey:ApplicationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// IsTerminal reports whether the application can no longer change stage or
// status. Withdrawal is one-way.
func (a Application) IsTerminal() bool {
	return a.Status == ApplicationStatusWithdrawn
}
