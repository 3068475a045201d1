package db

import (
	"context"

	"github.com/google/uuid"

	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

// NotificationRepository provides notification database operations
type NotificationRepository struct {
	*Repository
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(repo *Repository) *NotificationRepository {
	return &NotificationRepository{Repository: repo}
}

// Create creates a new notification
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	n.CreatedAt = touchTime(n.CreatedAt)
	return r.db.WithContext(ctx).Create(n).Error
}

// CreateBatch creates many notifications in one insert
func (r *NotificationRepository) CreateBatch(ctx context.Context, ns []*models.Notification) error {
	if len(ns) == 0 {
		return nil
	}
	for _, n := range ns {
		n.CreatedAt = touchTime(n.CreatedAt)
	}
	return r.db.WithContext(ctx).Create(&ns).Error
}

// ListByRecipient retrieves a recipient's notifications, newest first
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*models.Notification, error) {
	var ns []*models.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&ns).Error
	if err != nil {
		return nil, err
	}
	return ns, nil
}

// CountUnread counts a recipient's unread notifications
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&count).Error
	return count, err
}

// MarkRead marks the given notifications read, scoped to the recipient so a
// user can never flip another user's rows
func (r *NotificationRepository) MarkRead(ctx context.Context, recipientID uuid.UUID, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Model(&models.Notification{}).
		Where("recipient_id = ? AND id IN ?", recipientID, ids).
		UpdateColumn("is_read", true).Error
}
