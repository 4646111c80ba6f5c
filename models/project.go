package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Project publication statuses
const (
	ProjectStatusDraft     = "DRAFT"
	ProjectStatusPublished = "PUBLISHED"
	ProjectStatusArchived  = "ARCHIVED"
)

// ValidProjectStatus reports whether s is one of the three publication statuses.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusDraft, ProjectStatusPublished, ProjectStatusArchived:
		return true
	}
	return false
}

// Project represents a portfolio entry with media, links, and publication status
type Project struct {
	ID              uuid.UUID                   `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Title           string                      `json:"title" db:"title" gorm:"type:text;not null"`
	Slug            string                      `json:"slug" db:"slug" gorm:"type:text;not null;uniqueIndex"`
	Description     string                      `json:"description" db:"description" gorm:"type:text;not null"`
	LongDescription *string                     `json:"longDescription,omitempty" db:"long_description" gorm:"type:text"`
	Category        string                      `json:"category" db:"category" gorm:"type:text;not null;default:'Other'"`
	Technologies    datatypes.JSONSlice[string] `json:"technologies" db:"technologies" gorm:"type:jsonb"`
	Thumbnail       string                      `json:"thumbnail" db:"thumbnail" gorm:"type:text;not null"`
	Images          datatypes.JSONSlice[string] `json:"images" db:"images" gorm:"type:jsonb"`
	LiveURL         *string                     `json:"liveUrl,omitempty" db:"live_url" gorm:"type:text"`
	GithubURL       *string                     `json:"githubUrl,omitempty" db:"github_url" gorm:"type:text"`
	Featured        bool                        `json:"featured" db:"featured" gorm:"not null;default:false"`
	Order           int                         `json:"order" db:"sort_order" gorm:"column:sort_order;not null;default:0"`
	Status          string                      `json:"status" db:"status" gorm:"type:text;not null;default:'DRAFT'"`
	CreatedAt       time.Time                   `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time                   `json:"updatedAt" db:"updated_at"`
}

// AllImageURLs returns the thumbnail plus every gallery image, skipping empties.
func (p Project) AllImageURLs() []string {
	urls := make([]string, 0, len(p.Images)+1)
	if p.Thumbnail != "" {
		urls = append(urls, p.Thumbnail)
	}
	for _, img := range p.Images {
		if img != "" {
			urls = append(urls, img)
		}
	}
	return urls
}
