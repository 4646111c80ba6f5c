package database

import (
	"errors"
	"time"

	"github.com/aliraza-a/portfolio-backend/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MessageRepo struct {
	db *gorm.DB
}

func NewMessageRepo(db *gorm.DB) *MessageRepo {
	return &MessageRepo{db}
}

// MessageFilter narrows a message listing. An empty or "ALL" status means no
// status filter; StarredOnly keeps only starred messages.
type MessageFilter struct {
	Status      string
	StarredOnly bool
}

// FindAll returns messages matching the filter, newest first.
func (r *MessageRepo) FindAll(filter MessageFilter) ([]*models.Message, error) {
	query := r.db.Order("created_at DESC")
	if filter.Status != "" && filter.Status != "ALL" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.StarredOnly {
		query = query.Where("starred = ?", true)
	}

	var messages []*models.Message
	err := query.Find(&messages).Error
	return messages, err
}

// FindByID returns a message by its ID, or nil when no row matches.
func (r *MessageRepo) FindByID(id uuid.UUID) (*models.Message, error) {
	var message models.Message
	err := r.db.First(&message, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// FindRecentByEmail returns the most recent message from the given email
// created at or after since, or nil when there is none. Used for the
// contact-form cooldown.
func (r *MessageRepo) FindRecentByEmail(email string, since time.Time) (*models.Message, error) {
	var message models.Message
	err := r.db.Where("email = ? AND created_at >= ?", email, since).
		Order("created_at DESC").
		First(&message).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

// Add inserts a new message into the database
func (r *MessageRepo) Add(message *models.Message) error {
	return r.db.Create(message).Error
}

// UpdateFields applies a partial update to the message with the given id.
func (r *MessageRepo) UpdateFields(id uuid.UUID, fields map[string]any) error {
	return r.db.Model(&models.Message{}).Where("id = ?", id).Updates(fields).Error
}

// MarkRead advances an UNREAD message to READ. The status predicate makes the
// transition a no-op when another request got there first.
func (r *MessageRepo) MarkRead(id uuid.UUID) error {
	return r.db.Model(&models.Message{}).
		Where("id = ? AND status = ?", id, models.MessageStatusUnread).
		Update("status", models.MessageStatusRead).Error
}

// Delete removes a message from the database by id. Deleting a missing
// message is not an error.
func (r *MessageRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Message{}, "id = ?", id).Error
}

type statusCount struct {
	Status string
	Count  int64
}

// Stats returns the aggregate counts for the admin dashboard: total, starred,
// and a per-status breakdown (zero for statuses with no rows).
func (r *MessageRepo) Stats() (models.MessageStats, error) {
	var stats models.MessageStats

	if err := r.db.Model(&models.Message{}).Count(&stats.Total).Error; err != nil {
		return stats, err
	}
	if err := r.db.Model(&models.Message{}).Where("starred = ?", true).Count(&stats.Starred).Error; err != nil {
		return stats, err
	}

	var counts []statusCount
	err := r.db.Model(&models.Message{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return stats, err
	}

	applyStatusCounts(&stats, counts)
	return stats, nil
}

// applyStatusCounts folds grouped per-status counts into stats.
func applyStatusCounts(stats *models.MessageStats, counts []statusCount) {
	for _, c := range counts {
		switch c.Status {
		case models.MessageStatusUnread:
			stats.Unread = c.Count
		case models.MessageStatusRead:
			stats.Read = c.Count
		case models.MessageStatusReplied:
			stats.Replied = c.Count
		case models.MessageStatusArchived:
			stats.Archived = c.Count
		}
	}
}
