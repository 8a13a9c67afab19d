package models

import "gorm.io/gorm"

type Company struct {
	gorm.Model

	Name        string `gorm:"not null"`
	Website     string
	Description string
	IsApproved  bool `gorm:"default:false"`

	// Relationships
	Jobs     []Job            `gorm:"foreignKey:CompanyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Managers []CompanyManager `gorm:"foreignKey:CompanyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// CompanyManager links a manager account to a company. At most one row per
// company should carry IsPrimary=true; the primary manager is the preferred
// recipient for candidate-facing escalations such as withdrawals.
type CompanyManager struct {
	gorm.Model

	CompanyID uint `gorm:"not null;uniqueIndex:idx_company_manager"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_company_manager"`
	IsPrimary bool `gorm:"default:false"`

	// Relationships
	Company Company `gorm:"foreignKey:CompanyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	User    User    `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
