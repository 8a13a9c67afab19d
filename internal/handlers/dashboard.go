package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hireloop-dev/hireloop/db"
	"github.com/hireloop-dev/hireloop/internal/logger"
	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/utils"
)

type statusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type stageCount struct {
	StageID uint   `json:"stage_id"`
	Name    string `json:"name"`
	Count   int64  `json:"count"`
}

// Dashboard returns the hiring funnel for one job: application counts per
// status and per current stage, plus upcoming events.
func Dashboard(ctx *gin.Context) {
	jobID, err := utils.IDParam(ctx, "job_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var byStatus []statusCount
	err = db.DB.Model(&models.Application{}).
		Select("status, COUNT(*) AS count").
		Where("job_id = ?", jobID).
		Group("status").
		Scan(&byStatus).Error
	if err != nil {
		logger.Log.Errorf("Failed to count applications by status for job %d: %v", jobID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var byStage []stageCount
	err = db.DB.Model(&models.Application{}).
		Select("hiring_stages.id AS stage_id, hiring_stages.name AS name, COUNT(*) AS count").
		Joins("JOIN hiring_stages ON hiring_stages.id = applications.current_stage_id").
		Where("applications.job_id = ?", jobID).
		Group("hiring_stages.id, hiring_stages.name").
		Scan(&byStage).Error
	if err != nil {
		logger.Log.Errorf("Failed to count applications by stage for job %d: %v", jobID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var upcoming int64
	err = db.DB.Model(&models.Event{}).
		Where("job_id = ?", jobID).
		Where("status IN ?", []string{models.EventStatusScheduled, models.EventStatusConfirmed}).
		Where("starts_at > NOW()").
		Count(&upcoming).Error
	if err != nil {
		logger.Log.Errorf("Failed to count upcoming events for job %d: %v", jobID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"by_status":       byStatus,
		"by_stage":        byStage,
		"upcoming_events": upcoming,
	})
}
