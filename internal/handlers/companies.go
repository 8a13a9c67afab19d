package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hireloop-dev/hireloop/db"
	"github.com/hireloop-dev/hireloop/internal/logger"
	"github.com/hireloop-dev/hireloop/internal/models"
	"github.com/hireloop-dev/hireloop/internal/notify"
	"github.com/hireloop-dev/hireloop/internal/utils"
	"gorm.io/gorm"
)

type RegisterCompanyRequest struct {
	Name        string `json:"name" binding:"required"`
	Website     string `json:"website"`
	Description string `json:"description"`
}

type ReviewCompanyRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

type CompanyHandler struct {
	Notifier Notifier
}

func NewCompanyHandler(notifier Notifier) *CompanyHandler {
	return &CompanyHandler{Notifier: notifier}
}

// Register creates an unapproved company with the current manager as its
// primary manager.
func (h *CompanyHandler) Register(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	var req RegisterCompanyRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	company := models.Company{
		Name:        req.Name,
		Website:     req.Website,
		Description: req.Description,
	}

	err = db.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&company).Error; err != nil {
			return err
		}
		return tx.Create(&models.CompanyManager{
			CompanyID: company.ID,
			UserID:    currentUser.ID,
			IsPrimary: true,
		}).Error
	})
	if err != nil {
		logger.Log.Errorf("Failed to register company: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.Notifier.Enqueue(notify.Recipient{
		ID:    currentUser.ID,
		Name:  currentUser.Name,
		Email: currentUser.Email,
	}, notify.CompanyRegistered{Company: company})

	ctx.JSON(http.StatusCreated, gin.H{"company": company})
}

// Get returns a company profile with its active postings.
func (h *CompanyHandler) Get(ctx *gin.Context) {
	companyID, err := utils.IDParam(ctx, "company_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var company models.Company
	err = db.DB.Preload("Jobs", "status = ?", models.JobStatusActive).
		First(&company, companyID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
			return
		}
		logger.Log.Errorf("Failed to fetch company %d: %v", companyID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"company": company})
}

// Approve is the admin gate: an approved company can publish postings. Every
// manager of the company is told.
func (h *CompanyHandler) Approve(ctx *gin.Context) {
	companyID, err := utils.IDParam(ctx, "company_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var company models.Company
	if err := db.DB.First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
			return
		}
		logger.Log.Errorf("Failed to fetch company %d: %v", companyID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	if company.IsApproved {
		ctx.JSON(http.StatusConflict, gin.H{"error": "Company is already approved"})
		return
	}

	if err := db.DB.Model(&company).Update("is_approved", true).Error; err != nil {
		logger.Log.Errorf("Failed to approve company %d: %v", companyID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	company.IsApproved = true

	h.notifyCompanyManagers(company.ID, notify.CompanyApproved{Company: company})

	ctx.JSON(http.StatusOK, gin.H{"company": company})
}

// Review stores a candidate's rating and tells the company's managers.
func (h *CompanyHandler) Review(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)
	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	companyID, err := utils.IDParam(ctx, "company_id")
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req ReviewCompanyRequest
	if err := ctx.BindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var company models.Company
	if err := db.DB.First(&company, companyID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "Company not found"})
			return
		}
		logger.Log.Errorf("Failed to fetch company %d: %v", companyID, err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var existing int64
	err = db.DB.Model(&models.CompanyReview{}).
		Where("company_id = ? AND author_id = ?", companyID, currentUser.ID).
		Count(&existing).Error
	if err != nil {
		logger.Log.Errorf("Failed to check existing review: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	if existing > 0 {
		ctx.JSON(http.StatusConflict, gin.H{"error": "You have already reviewed this company"})
		return
	}

	review := models.CompanyReview{
		CompanyID: companyID,
		AuthorID:  currentUser.ID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}

	if err := db.DB.Create(&review).Error; err != nil {
		logger.Log.Errorf("Failed to create review: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	h.notifyCompanyManagers(company.ID, notify.ReviewSubmitted{
		Company:  company,
		Reviewer: currentUser.Name,
		Rating:   req.Rating,
	})

	ctx.JSON(http.StatusCreated, gin.H{"review": review})
}

func (h *CompanyHandler) notifyCompanyManagers(companyID uint, n notify.Notification) {
	var links []models.CompanyManager

	err := db.DB.Preload("User").Where("company_id = ?", companyID).Find(&links).Error
	if err != nil {
		logger.Log.Errorf("Failed to resolve managers for company %d: %v", companyID, err)
		return
	}

	for i := range links {
		h.Notifier.Enqueue(notify.Recipient{
			ID:    links[i].User.ID,
			Name:  links[i].User.Name,
			Email: links[i].User.Email,
		}, n)
	}
}
