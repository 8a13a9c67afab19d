package models

import "gorm.io/gorm"

// StageHistory is an append-only record of one stage transition. FromStage
// and ToStage hold the stage names as they read at transition time, so the
// history stays meaningful if a registry entry is later renamed.
type StageHistory struct {
	gorm.Model

	ApplicationID uint  `gorm:"not null;index"`
	FromStageID   *uint
	ToStageID     uint   `gorm:"not null"`
	FromStage     string
	ToStage       string `gorm:"not null"`
	ActorID       uint   `gorm:"not null"`
	Notes         string

	// Relationships
	Application Application `gorm:"foreignKey:ApplicationID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Actor       User        `gorm:"foreignKey:ActorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
