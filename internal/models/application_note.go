package models

import "gorm.io/gorm"

// ApplicationNote is an internal remark a manager leaves on an application.
// Notes are only visible to the hiring team, never to the candidate.
type ApplicationNote struct {
	gorm.Model

	ApplicationID uint   `gorm:"not null;index"`
	AuthorID      uint   `gorm:"not null"`
	Body          string `gorm:"not null"`

	// Relationships
	Application Application `gorm:"foreignKey:ApplicationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Author      User        `gorm:"foreignKey:AuthorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
