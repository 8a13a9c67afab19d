package store

import (
	"errors"

	"github.com/hireloop-dev/hireloop/db"
	"github.com/hireloop-dev/hireloop/internal/models"
)

// ErrStageInUse is returned when deleting a registry entry that jobs,
// applications or history rows still reference.
var ErrStageInUse = errors.New("hiring stage is referenced and cannot be deleted")

// Stages manages the hiring stage registry.
type Stages struct{}

func (Stages) List() ([]models.HiringStage, error) {
	var stages []models.HiringStage

	err := db.DB.Order("order_index ASC").Find(&stages).Error

	return stages, err
}

func (Stages) Create(stage *models.HiringStage) error {
	return db.DB.Create(stage).Error
}

func (Stages) Update(stage *models.HiringStage) error {
	return db.DB.Save(stage).Error
}

// Delete refuses while any job, application or history row references the
// stage: the registry entry's lifecycle is subordinate to usage.
func (Stages) Delete(stageID uint) error {
	var count int64

	if err := db.DB.Model(&models.JobStage{}).Where("stage_id = ?", stageID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrStageInUse
	}

	if err := db.DB.Model(&models.Application{}).Where("current_stage_id = ?", stageID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrStageInUse
	}

	if err := db.DB.Model(&models.StageHistory{}).
		Where("from_stage_id = ? OR to_stage_id = ?", stageID, stageID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrStageInUse
	}

	return db.DB.Delete(&models.HiringStage{}, stageID).Error
}

// AssignDefaultStages copies every is_default registry entry onto the job in
// registry order. Used when a job is created without an explicit stage list.
func (Stages) AssignDefaultStages(jobID uint) error {
	var defaults []models.HiringStage

	err := db.DB.Where("is_default = ?", true).Order("order_index ASC").Find(&defaults).Error
	if err != nil {
		return err
	}

	for i, stage := range defaults {
		jobStage := models.JobStage{
			JobID:      jobID,
			StageID:    stage.ID,
			OrderIndex: i,
		}
		if err := db.DB.Create(&jobStage).Error; err != nil {
			return err
		}
	}

	return nil
}

// AssignStages replaces a job's stage list with the given registry entries,
// preserving the given order.
func (Stages) AssignStages(jobID uint, stageIDs []uint) error {
	if err := db.DB.Where("job_id = ?", jobID).Delete(&models.JobStage{}).Error; err != nil {
		return err
	}

	for i, stageID := range stageIDs {
		jobStage := models.JobStage{
			JobID:      jobID,
			StageID:    stageID,
			OrderIndex: i,
		}
		if err := db.DB.Create(&jobStage).Error; err != nil {
			return err
		}
	}

	return nil
}
