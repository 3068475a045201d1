package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

// FriendRequestRepository provides friend request database operations
type FriendRequestRepository struct {
	*Repository
}

// NewFriendRequestRepository creates a new friend request repository
func NewFriendRequestRepository(repo *Repository) *FriendRequestRepository {
	return &FriendRequestRepository{Repository: repo}
}

// GetByID retrieves a friend request by ID
func (r *FriendRequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.FriendRequest, error) {
	var req models.FriendRequest
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&req).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// Create creates a new friend request
func (r *FriendRequestRepository) Create(ctx context.Context, req *models.FriendRequest) error {
	req.CreatedAt = touchTime(req.CreatedAt)
	req.UpdatedAt = req.CreatedAt
	return r.db.WithContext(ctx).Create(req).Error
}

// UpdateStatus marks a request with its terminal status
func (r *FriendRequestRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status int16) error {
	return r.db.WithContext(ctx).Model(&models.FriendRequest{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now().UTC()}).Error
}

// Accept marks the request accepted and inserts the mirrored friendship
// rows. Both writes commit together or not at all, so an accepted request
// always has its friendship pair.
func (r *FriendRequestRepository) Accept(ctx context.Context, id uuid.UUID, sender, receiver uuid.UUID) error {
	return r.Transaction(ctx, func(tx *Repository) error {
		if err := NewFriendRequestRepository(tx).UpdateStatus(ctx, id, models.RequestStatusAccepted); err != nil {
			return err
		}
		return NewFriendshipRepository(tx).CreatePair(ctx, sender, receiver)
	})
}

// PendingBetween retrieves the outstanding request between two users in either
// direction, if any
func (r *FriendRequestRepository) PendingBetween(ctx context.Context, a, b uuid.UUID) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", models.RequestStatusPending).
		Where("(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)", a, b, b, a).
		First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// ListPendingFor retrieves outstanding requests addressed to or sent by a user
func (r *FriendRequestRepository) ListPendingFor(ctx context.Context, userID uuid.UUID) ([]*models.FriendRequest, error) {
	var reqs []*models.FriendRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", models.RequestStatusPending).
		Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").
		Find(&reqs).Error
	if err != nil {
		return nil, err
	}
	return reqs, nil
}

// FriendshipRepository provides friendship database operations
type FriendshipRepository struct {
	*Repository
}

// NewFriendshipRepository creates a new friendship repository
func NewFriendshipRepository(repo *Repository) *FriendshipRepository {
	return &FriendshipRepository{Repository: repo}
}

// Exists reports whether an accepted friendship exists between two users
func (r *FriendshipRepository) Exists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("user_id = ? AND friend_id = ?", a, b).
		Count(&count).Error
	return count > 0, err
}

// FriendIDs retrieves the accepted friends of a user. Mirrored rows make this
// a one-sided query: the other side of every pair is always friend_id.
func (r *FriendshipRepository) FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Friendship{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("friend_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// CreatePair inserts the two mirrored accepted rows in one transaction
func (r *FriendshipRepository) CreatePair(ctx context.Context, a, b uuid.UUID) error {
	now := time.Now().UTC()
	rows := []models.Friendship{
		{UserID: a, FriendID: b, CreatedAt: now},
		{UserID: b, FriendID: a, CreatedAt: now},
	}
	return r.db.WithContext(ctx).Create(&rows).Error
}

// DeletePair removes both directions of an accepted friendship
func (r *FriendshipRepository) DeletePair(ctx context.Context, a, b uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("(user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)", a, b, b, a).
		Delete(&models.Friendship{}).Error
}

// FollowRepository provides follow edge database operations
type FollowRepository struct {
	*Repository
}

// NewFollowRepository creates a new follow repository
func NewFollowRepository(repo *Repository) *FollowRepository {
	return &FollowRepository{Repository: repo}
}

// Create inserts a follow edge; inserting an existing edge is a no-op
func (r *FollowRepository) Create(ctx context.Context, follow *models.Follow) error {
	follow.CreatedAt = touchTime(follow.CreatedAt)
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", follow.FollowerID, follow.FollowingID).
		FirstOrCreate(follow).Error
}

// Delete removes a follow edge
func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&models.Follow{}).Error
}

// Exists reports whether follower follows following
func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// FollowingIDs retrieves the users a follower follows
func (r *FollowRepository) FollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", followerID).
		Pluck("following_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// FollowerIDs retrieves the users following a user
func (r *FollowRepository) FollowerIDs(ctx context.Context, followingID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", followingID).
		Pluck("follower_id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// Counts retrieves follower and following counts for a user. The two counts
// are independent queries so the page total never depends on a stale cache.
func (r *FollowRepository) Counts(ctx context.Context, userID uuid.UUID) (followers int64, following int64, err error) {
	if err = r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("following_id = ?", userID).
		Count(&followers).Error; err != nil {
		return 0, 0, err
	}
	if err = r.db.WithContext(ctx).Model(&models.Follow{}).
		Where("follower_id = ?", userID).
		Count(&following).Error; err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
