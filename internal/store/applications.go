// Package store provides the gorm-backed persistence used by the pipeline,
// event and notification services.
package store

import (
	"errors"

	"github.com/hireloop-dev/hireloop/db"
	"github.com/hireloop-dev/hireloop/internal/models"
	"gorm.io/gorm"
)

// Applications implements pipeline.Repository.
type Applications struct{}

func (Applications) StageForJob(jobID, stageID uint) (*models.HiringStage, error) {
	var jobStage models.JobStage

	err := db.DB.Preload("Stage").
		Where("job_id = ? AND stage_id = ?", jobID, stageID).
		First(&jobStage).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &jobStage.Stage, nil
}

func (Applications) FirstStageForJob(jobID uint) (*models.HiringStage, error) {
	var jobStage models.JobStage

	err := db.DB.Preload("Stage").
		Where("job_id = ?", jobID).
		Order("order_index ASC").
		First(&jobStage).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &jobStage.Stage, nil
}

func (Applications) StageByID(stageID uint) (*models.HiringStage, error) {
	var stage models.HiringStage

	err := db.DB.First(&stage, stageID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &stage, nil
}

func (Applications) CreateApplication(app *models.Application) error {
	return db.DB.Create(app).Error
}

func (Applications) HasApplication(candidateID, jobID uint) (bool, error) {
	var count int64

	err := db.DB.Model(&models.Application{}).
		Where("candidate_id = ? AND job_id = ?", candidateID, jobID).
		Count(&count).Error

	return count > 0, err
}

func (Applications) SetStage(app *models.Application, stage *models.HiringStage) error {
	if err := db.DB.Model(app).Update("current_stage_id", stage.ID).Error; err != nil {
		return err
	}

	stageID := stage.ID
	app.CurrentStageID = &stageID
	app.CurrentStage = stage

	return nil
}

func (Applications) SetStatus(app *models.Application, status string, withdrawalReason string) error {
	updates := map[string]interface{}{"status": status}
	if withdrawalReason != "" {
		updates["withdrawal_reason"] = withdrawalReason
	}

	if err := db.DB.Model(app).Updates(updates).Error; err != nil {
		return err
	}

	app.Status = status
	if withdrawalReason != "" {
		app.WithdrawalReason = withdrawalReason
	}

	return nil
}

func (Applications) AppendHistory(entry *models.StageHistory) error {
	return db.DB.Create(entry).Error
}

// Managers implements pipeline.ManagerDirectory.
type Managers struct{}

// ManagersForJob resolves the managers of the job's company. primary is
// non-nil only when exactly one manager row is marked primary; with zero or
// conflicting primaries the caller falls back to the full list.
func (Managers) ManagersForJob(jobID uint) (*models.User, []models.User, error) {
	var job models.Job

	if err := db.DB.First(&job, jobID).Error; err != nil {
		return nil, nil, err
	}

	var links []models.CompanyManager

	err := db.DB.Preload("User").
		Where("company_id = ?", job.CompanyID).
		Find(&links).Error
	if err != nil {
		return nil, nil, err
	}

	var primary *models.User
	primaryCount := 0
	all := make([]models.User, 0, len(links))

	for i := range links {
		all = append(all, links[i].User)
		if links[i].IsPrimary {
			primaryCount++
			primary = &links[i].User
		}
	}

	if primaryCount != 1 {
		primary = nil
	}

	return primary, all, nil
}
