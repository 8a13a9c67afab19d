package models

import "gorm.io/gorm"

// CompanyReview is a candidate's rating of a company, one per candidate per
// company.
type CompanyReview struct {
	gorm.Model

	CompanyID uint `gorm:"not null;uniqueIndex:idx_company_reviewer"`
	AuthorID  uint `gorm:"not null;uniqueIndex:idx_company_reviewer"`
	Rating    int  `gorm:"not null"`
	Comment   string

	// Relationships
	Company Company `gorm:"foreignKey:CompanyID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Author  User    `gorm:"foreignKey:AuthorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
