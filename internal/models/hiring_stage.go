package models

import (
	"regexp"
	"strings"

	"gorm.io/gorm"
)

// HiringStage is a catalog entry in the stage registry. OrderIndex is the
// global default ordering used when stages are copied onto a new job;
// traversal order during hiring is not constrained by it.
type HiringStage struct {
	gorm.Model

	Name       string `gorm:"not null"`
	Slug       string `gorm:"uniqueIndex;not null"`
	Color      string `gorm:"default:#6b7280"`
	OrderIndex int    `gorm:"not null;default:0"`
	IsDefault  bool   `gorm:"default:false"`
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives the unique slug from a stage name.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = slugPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

func (s *HiringStage) BeforeSave(tx *gorm.DB) error {
	if s.Slug == "" {
		s.Slug = Slugify(s.Name)
	}
	return nil
}
