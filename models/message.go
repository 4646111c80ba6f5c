package models

import (
	"time"

	"github.com/google/uuid"
)

// Message moderation statuses
const (
	MessageStatusUnread   = "UNREAD"
	MessageStatusRead     = "READ"
	MessageStatusReplied  = "REPLIED"
	MessageStatusArchived = "ARCHIVED"
)

// ValidMessageStatus reports whether s is one of the four moderation statuses.
func ValidMessageStatus(s string) bool {
	switch s {
	case MessageStatusUnread, MessageStatusRead, MessageStatusReplied, MessageStatusArchived:
		return true
	}
	return false
}

// Message represents a contact-form submission with a moderation status and star flag
type Message struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null"`
	Email     string    `json:"email" db:"email" gorm:"type:text;not null;index"`
	Subject   string    `json:"subject" db:"subject" gorm:"type:text;not null"`
	Message   string    `json:"message" db:"message" gorm:"type:text;not null"`
	Status    string    `json:"status" db:"status" gorm:"type:text;not null;default:'UNREAD'"`
	Starred   bool      `json:"starred" db:"starred" gorm:"not null;default:false"`
	CreatedAt time.Time `json:"createdAt" db:"created_at" gorm:"index"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// MessageStats holds the aggregate counts returned alongside a message listing.
type MessageStats struct {
	Total    int64 `json:"total"`
	Unread   int64 `json:"unread"`
	Read     int64 `json:"read"`
	Replied  int64 `json:"replied"`
	Archived int64 `json:"archived"`
	Starred  int64 `json:"starred"`
}
