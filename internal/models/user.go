package models

import "gorm.io/gorm"

const (
	RoleCandidate = "candidate"
	RoleManager   = "manager"
	RoleAdmin     = "admin"
)

type User struct {
	gorm.Model

	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Role         string `gorm:"not null;default:candidate"`
	Phone        string

	// Relationships
	Applications  []Application  `gorm:"foreignKey:CandidateID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Notifications []Notification `gorm:"foreignKey:RecipientID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
