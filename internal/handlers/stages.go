package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hireloop-dev/hireloop/db"
	"github.com/hireloop-dev/hireloop/internal/logger"
	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/store"
	"github.com/hireloop-dev/hireloop/internal/utils"
	"gorm.io/gorm"
)

type CreateStageRequest struct {
	Name       string `json:"name" binding:"required"`
	Color      string `json:"color"`
	OrderIndex int    `json:"order_index"`
	IsDefault  bool   `json:"is_default"`
}

type UpdateStageRequest struct {
	Name       string `json:"name"`
	Color      string `json:"color"`
	OrderIndex *int   `json:"order_index"`
	IsDefault  *bool  `json:"is_default"`
}

// StageHandler manages the hiring stage registry.
type StageHandler struct {
	Stages store.Stages
}

func NewStageHandler(stages store.Stages) *StageHandler {
	return &StageHandler{Stages: stages}
}

func (h *StageHandler) List(ctx *gin.Context) {
	stages, err := h.Stages.List()
	if err != nil {
		logger.Log.Errorf("Failed to list hiring stages: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"stages": stages})
}

func (h *StageHandler) Create(ctx *gin.Context) {
	var req CreateStageRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	stage := models.HiringStage{
		Name:       req.Name,
		OrderIndex: req.OrderIndex,
		IsDefault:  req.IsDefault,
	}
	if req.Color != "" {
		stage.Color = req.Color
	}

	if err := h.Stages.Create(&stage); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "A stage with this name already exists"})
			return
		}
		logger.Log.Errorf("Failed to create hiring stage: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"stage": stage})
}

func (h *StageHandler) Update(ctx *gin.Context) {
	stageID, err := utils.IDParam(ctx, "stage_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var stage models.HiringStage
	if err := db.DB.First(&stage, stageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Stage not found"})
			return
		}
		logger.Log.Errorf("Failed to fetch stage %d: %v", stageID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req UpdateStageRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Name != "" {
		stage.Name = req.Name
		stage.Slug = models.Slugify(req.Name)
	}
	if req.Color != "" {
		stage.Color = req.Color
	}
	if req.OrderIndex != nil {
		stage.OrderIndex = *req.OrderIndex
	}
	if req.IsDefault != nil {
		stage.IsDefault = *req.IsDefault
	}

	if err := h.Stages.Update(&stage); err != nil {
		logger.Log.Errorf("Failed to update stage %d: %v", stageID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"stage": stage})
}

func (h *StageHandler) Delete(ctx *gin.Context) {
	stageID, err := utils.IDParam(ctx, "stage_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Stages.Delete(stageID); err != nil {
		if errors.Is(err, store.ErrStageInUse) {
			ctx.JSON(http.StatusConflict, gin.H{"error": "Stage is in use and cannot be deleted"})
			return
		}
		logger.Log.Errorf("Failed to delete stage %d: %v", stageID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Stage deleted"})
}
