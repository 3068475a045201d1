package db

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

// LikeRepository provides like database operations
type LikeRepository struct {
	*Repository
}

// NewLikeRepository creates a new like repository
func NewLikeRepository(repo *Repository) *LikeRepository {
	return &LikeRepository{Repository: repo}
}

// Exists reports whether the user has liked the photo
func (r *LikeRepository) Exists(ctx context.Context, photoID int64, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("photo_id = ? AND user_id = ?", photoID, userID).
		Count(&count).Error
	return count > 0, err
}

// Insert adds a like. The unique constraint plus DO NOTHING makes a
// double-submit race resolve to a single row; the return value reports
// whether this call inserted it.
func (r *LikeRepository) Insert(ctx context.Context, photoID int64, userID uuid.UUID) (bool, error) {
	like := models.Like{PhotoID: photoID, UserID: userID, CreatedAt: time.Now().UTC()}
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&like)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a like; the return value reports whether a row was removed
func (r *LikeRepository) Delete(ctx context.Context, photoID int64, userID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("photo_id = ? AND user_id = ?", photoID, userID).
		Delete(&models.Like{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// CountByPhoto counts likes on a photo
func (r *LikeRepository) CountByPhoto(ctx context.Context, photoID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Like{}).
		Where("photo_id = ?", photoID).
		Count(&count).Error
	return count, err
}

// RatingRepository provides rating database operations
type RatingRepository struct {
	*Repository
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(repo *Repository) *RatingRepository {
	return &RatingRepository{Repository: repo}
}

// Upsert writes a rating, overwriting any prior rating by the same user for
// the same photo via the (photo_id, user_id) conflict target
func (r *RatingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	now := time.Now().UTC()
	rating.CreatedAt = touchTime(rating.CreatedAt)
	rating.UpdatedAt = now
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "photo_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"composition_score", "storytelling_score", "technique_score",
				"average_score", "updated_at",
			}),
		}).
		Create(rating).Error
}

// GetByPhotoUser retrieves one user's rating of a photo
func (r *RatingRepository) GetByPhotoUser(ctx context.Context, photoID int64, userID uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	err := r.db.WithContext(ctx).
		Where("photo_id = ? AND user_id = ?", photoID, userID).
		First(&rating).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &rating, nil
}

// ListByPhoto retrieves all ratings of a photo, newest first
func (r *RatingRepository) ListByPhoto(ctx context.Context, photoID int64) ([]*models.Rating, error) {
	var ratings []*models.Rating
	err := r.db.WithContext(ctx).
		Where("photo_id = ?", photoID).
		Order("created_at DESC").
		Find(&ratings).Error
	if err != nil {
		return nil, err
	}
	return ratings, nil
}

// Delete removes one user's rating of a photo
func (r *RatingRepository) Delete(ctx context.Context, photoID int64, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("photo_id = ? AND user_id = ?", photoID, userID).
		Delete(&models.Rating{}).Error
}

// UserPhotoScore sums the overall rating averages across all of a user's
// photos, the score shown next to friends in listings
func (r *RatingRepository) UserPhotoScore(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	var score *float64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select("SUM(gallery_photo_ratings.average_score)").
		Joins("INNER JOIN gallery_photos ON gallery_photos.id = gallery_photo_ratings.photo_id").
		Where("gallery_photos.owner_id = ?", ownerID).
		Scan(&score).Error
	if err != nil {
		return 0, err
	}
	if score == nil {
		return 0, nil
	}
	return *score, nil
}

// CommentRepository provides comment database operations
type CommentRepository struct {
	*Repository
}

// NewCommentRepository creates a new comment repository
func NewCommentRepository(repo *Repository) *CommentRepository {
	return &CommentRepository{Repository: repo}
}

// GetByID retrieves a comment by ID
func (r *CommentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &comment, nil
}

// Create creates a new comment
func (r *CommentRepository) Create(ctx context.Context, comment *models.Comment) error {
	comment.CreatedAt = touchTime(comment.CreatedAt)
	return r.db.WithContext(ctx).Create(comment).Error
}

// Delete removes a comment. Children are left in place, still attached to
// the same photo.
func (r *CommentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Comment{}).Error
}

// ListByPhoto retrieves all comments of a photo, oldest first
func (r *CommentRepository) ListByPhoto(ctx context.Context, photoID int64) ([]*models.Comment, error) {
	var comments []*models.Comment
	err := r.db.WithContext(ctx).
		Where("photo_id = ?", photoID).
		Order("created_at ASC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

// CountByPhoto counts the live comment rows referencing a photo
func (r *CommentRepository) CountByPhoto(ctx context.Context, photoID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Where("photo_id = ?", photoID).
		Count(&count).Error
	return count, err
}

// CountByPhotoIDs counts comments for many photos in one grouped query
func (r *CommentRepository) CountByPhotoIDs(ctx context.Context, photoIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(photoIDs))
	if len(photoIDs) == 0 {
		return counts, nil
	}
	type row struct {
		PhotoID int64
		Total   int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.Comment{}).
		Select("photo_id, COUNT(*) AS total").
		Where("photo_id IN ?", photoIDs).
		Group("photo_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, rw := range rows {
		counts[rw.PhotoID] = rw.Total
	}
	return counts, nil
}
