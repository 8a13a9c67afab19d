package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hireloop-dev/hireloop/db"
	"github.com/hireloop-dev/hireloop/internal/logger"
	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/notify"
	"github.com/hireloop-dev/hireloop/internal/store"
	"github.com/hireloop-dev/hireloop/internal/utils"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type CreateJobRequest struct {
	CompanyID   uint       `json:"company_id" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	Type        string     `json:"type" binding:"required,oneof=full_time part_time internship contract"`
	SalaryMin   int64      `json:"salary_min"`
	SalaryMax   int64      `json:"salary_max"`
	ExpiresAt   *time.Time `json:"expires_at"`
	StageIDs    []uint     `json:"stage_ids"`
}

type UpdateJobRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Location    string     `json:"location"`
	SalaryMin   *int64     `json:"salary_min"`
	SalaryMax   *int64     `json:"salary_max"`
	ExpiresAt   *time.Time `json:"expires_at"`
}

type JobHandler struct {
	Stages   store.Stages
	Notifier Notifier
}

func NewJobHandler(stages store.Stages, notifier Notifier) *JobHandler {
	return &JobHandler{Stages: stages, Notifier: notifier}
}

// jobSlug derives a unique posting slug from the title, the company and the
// creation instant.
func jobSlug(title string, companyID uint) string {
	return models.Slugify(title) + "-" +
		strconv.FormatUint(uint64(companyID), 10) + "-" +
		time.Now().Format("20060102150405")
}

// Create registers a job in status draft. The stage list defaults to the
// registry's is_default entries unless an explicit list is supplied.
func (h *JobHandler) Create(ctx *gin.Context) {
	var req CreateJobRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var company models.Company
	if err := db.DB.First(&company, req.CompanyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
			return
		}
		logger.Log.Errorf("Failed to fetch company %d: %v", req.CompanyID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if !company.IsApproved {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Company is not approved to post jobs"})
		return
	}

	job := models.Job{
		CompanyID:   req.CompanyID,
		Title:       req.Title,
		Slug:        jobSlug(req.Title, req.CompanyID),
		Description: req.Description,
		Location:    req.Location,
		Type:        req.Type,
		SalaryMin:   req.SalaryMin,
		SalaryMax:   req.SalaryMax,
		Status:      models.JobStatusDraft,
		ExpiresAt:   req.ExpiresAt,
	}

	if err := db.DB.Create(&job).Error; err != nil {
		logger.Log.Errorf("Failed to create job: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var err error
	if len(req.StageIDs) > 0 {
		err = h.Stages.AssignStages(job.ID, req.StageIDs)
	} else {
		err = h.Stages.AssignDefaultStages(job.ID)
	}
	if err != nil {
		logger.Log.Errorf("Failed to assign stages to job %d: %v", job.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"job": job})
}

// Publish flips a draft job to active and confirms it to the acting manager.
func (h *JobHandler) Publish(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	job, ok := loadJob(ctx)
	if !ok {
		return
	}

	if job.Status == models.JobStatusActive {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Job is already published"})
		return
	}

	if err := db.DB.Model(job).Update("status", models.JobStatusActive).Error; err != nil {
		logger.Log.Errorf("Failed to publish job %d: %v", job.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	job.Status = models.JobStatusActive

	h.Notifier.Enqueue(notify.Recipient{
		ID:    currentUser.ID,
		Name:  currentUser.Name,
		Email: currentUser.Email,
	}, notify.JobPublished{Job: *job})

	ctx.JSON(http.StatusOK, gin.H{"job": job})
}

// List searches active jobs. The stage filter accepts a comma-separated list
// of stage slugs and matches jobs whose pipeline contains any of them.
func (h *JobHandler) List(ctx *gin.Context) {
	page, perPage := utils.PageParams(ctx)

	query := db.DB.Model(&models.Job{}).Preload("Company").
		Where("jobs.status = ?", models.JobStatusActive)

	if q := strings.TrimSpace(ctx.Query("q")); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("LOWER(jobs.title) LIKE ? OR LOWER(jobs.description) LIKE ?", pattern, pattern)
	}
	if location := ctx.Query("location"); location != "" {
		query = query.Where("jobs.location = ?", location)
	}
	if jobType := ctx.Query("type"); jobType != "" {
		query = query.Where("jobs.type = ?", jobType)
	}
	if stages := ctx.Query("stages"); stages != "" {
		slugs := strings.Split(stages, ",")
		query = query.Where(
			"jobs.id IN (SELECT job_stages.job_id FROM job_stages JOIN hiring_stages ON hiring_stages.id = job_stages.stage_id WHERE hiring_stages.slug = ANY(?))",
			pq.Array(slugs),
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		logger.Log.Errorf("Failed to count jobs: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var jobs []models.Job
	err := query.Order("jobs.created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&jobs).Error
	if err != nil {
		logger.Log.Errorf("Failed to list jobs: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"jobs":     jobs,
		"total":    total,
		"page":     page,
		"per_page": perPage,
	})
}

// Get returns a job with its company and ordered stage list.
func (h *JobHandler) Get(ctx *gin.Context) {
	jobID, err := utils.IDParam(ctx, "job_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var job models.Job
	err = db.DB.Preload("Company").
		Preload("Stages", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("job_stages.order_index ASC")
		}).
		Preload("Stages.Stage").
		First(&job, jobID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		logger.Log.Errorf("Failed to fetch job %d: %v", jobID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"job": job})
}

// Update edits mutable posting fields. Status changes go through Publish and
// Close instead.
func (h *JobHandler) Update(ctx *gin.Context) {
	job, ok := loadJob(ctx)
	if !ok {
		return
	}

	var req UpdateJobRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	updates := make(map[string]interface{})

	if req.Title != "" {
		updates["title"] = req.Title
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Location != "" {
		updates["location"] = req.Location
	}
	if req.SalaryMin != nil {
		updates["salary_min"] = *req.SalaryMin
	}
	if req.SalaryMax != nil {
		updates["salary_max"] = *req.SalaryMax
	}
	if req.ExpiresAt != nil {
		updates["expires_at"] = *req.ExpiresAt
	}

	if len(updates) == 0 {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "No valid fields to update"})
		return
	}

	if err := db.DB.Model(job).Updates(updates).Error; err != nil {
		logger.Log.Errorf("Failed to update job %d: %v", job.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if err := db.DB.First(job, job.ID).Error; err != nil {
		logger.Log.Errorf("Failed to refresh job %d: %v", job.ID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"job": job})
}

// Close takes a job off the board. Idempotent on already-closed jobs.
func (h *JobHandler) Close(ctx *gin.Context) {
	job, ok := loadJob(ctx)
	if !ok {
		return
	}

	if job.Status != models.JobStatusClosed {
		if err := db.DB.Model(job).Update("status", models.JobStatusClosed).Error; err != nil {
			logger.Log.Errorf("Failed to close job %d: %v", job.ID, err)
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			return
		}
		job.Status = models.JobStatusClosed
	}

	ctx.JSON(http.StatusOK, gin.H{"job": job})
}

func loadJob(ctx *gin.Context) (*models.Job, bool) {
	jobID, err := utils.IDParam(ctx, "job_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	var job models.Job
	if err := db.DB.First(&job, jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return nil, false
		}
		logger.Log.Errorf("Failed to fetch job %d: %v", jobID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return nil, false
	}

	return &job, true
}
