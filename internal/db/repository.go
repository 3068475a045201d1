package db

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Transaction runs fn inside a database transaction, exposing a Repository
// bound to the transaction connection.
func (r *Repository) Transaction(ctx context.Context, fn func(tx *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewRepository(tx))
	})
}

// ProfileRepository provides profile-related database operations
type ProfileRepository struct {
	*Repository
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(repo *Repository) *ProfileRepository {
	return &ProfileRepository{Repository: repo}
}

// GetByUserID retrieves a profile by user ID
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	var profile models.Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &profile, nil
}

// GetByUserIDs retrieves multiple profiles keyed by user ID
func (r *ProfileRepository) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*models.Profile, error) {
	result := make(map[uuid.UUID]*models.Profile, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}
	var profiles []*models.Profile
	if err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error; err != nil {
		return nil, err
	}
	for _, p := range profiles {
		result[p.UserID] = p
	}
	return result, nil
}

// DisplayNameTaken reports whether the display name is already in use,
// case-insensitively, by a user other than userID
func (r *ProfileRepository) DisplayNameTaken(ctx context.Context, name string, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Profile{}).
		Where("LOWER(display_name) = ? AND user_id <> ?", strings.ToLower(name), userID).
		Count(&count).Error
	return count > 0, err
}

// Create creates a new profile
func (r *ProfileRepository) Create(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Create(profile).Error
}

// Update updates a profile
func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	return r.db.WithContext(ctx).Save(profile).Error
}

// PhotoRepository provides photo-related database operations
type PhotoRepository struct {
	*Repository
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(repo *Repository) *PhotoRepository {
	return &PhotoRepository{Repository: repo}
}

// GetByID retrieves a photo by ID
func (r *PhotoRepository) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	var photo models.Photo
	if err := r.db.WithContext(ctx).First(&photo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &photo, nil
}

// Create creates a new photo with its image rows in one transaction
func (r *PhotoRepository) Create(ctx context.Context, photo *models.Photo, images []models.PhotoImage) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(photo).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].PhotoID = photo.ID
		}
		if len(images) > 0 {
			if err := tx.Create(&images).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ImagesByPhotoID retrieves the stored image rows of a photo in position order
func (r *PhotoRepository) ImagesByPhotoID(ctx context.Context, photoID int64) ([]models.PhotoImage, error) {
	var images []models.PhotoImage
	if err := r.db.WithContext(ctx).
		Where("photo_id = ?", photoID).
		Order("position ASC").
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// Delete removes a photo and every row hanging off it. Blob deletion is the
// caller's job; this returns nothing but the error.
func (r *PhotoRepository) Delete(ctx context.Context, photoID int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("photo_id = ?", photoID).Delete(&models.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("photo_id = ?", photoID).Delete(&models.Rating{}).Error; err != nil {
			return err
		}
		if err := tx.Where("photo_id = ?", photoID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("photo_id = ?", photoID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Where("photo_id = ?", photoID).Delete(&models.PhotoImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Photo{}, photoID).Error
	})
}

// IncrementViews bumps the view counter server-side. Never read-modify-write
// from the application: concurrent viewers must each count.
func (r *PhotoRepository) IncrementViews(ctx context.Context, photoID int64) error {
	return r.db.WithContext(ctx).Model(&models.Photo{}).
		Where("id = ?", photoID).
		UpdateColumn("views_count", gorm.Expr("views_count + 1")).Error
}

// AdjustLikesCount moves the denormalized like counter by delta atomically
func (r *PhotoRepository) AdjustLikesCount(ctx context.Context, photoID int64, delta int) error {
	return r.db.WithContext(ctx).Model(&models.Photo{}).
		Where("id = ?", photoID).
		UpdateColumn("likes_count", gorm.Expr("likes_count + ?", delta)).Error
}

// FeedQuery describes the candidate set of a feed request: which owners to
// restrict to (nil means no restriction) and which viewer gates visibility.
type FeedQuery struct {
	Viewer    *uuid.UUID
	FriendIDs []uuid.UUID
	OwnerIn   []uuid.UUID
	OwnerOnly *uuid.UUID
}

func (r *PhotoRepository) feedScope(ctx context.Context, q FeedQuery) *gorm.DB {
	tx := r.db.WithContext(ctx).Model(&models.Photo{})

	// Visibility gate, enforced at query time: private rows only for their
	// owner, friends rows for owner and accepted friends, public for everyone.
	if q.Viewer == nil {
		tx = tx.Where("visibility = ?", models.VisibilityPublic)
	} else if len(q.FriendIDs) > 0 {
		tx = tx.Where(
			"visibility = ? OR owner_id = ? OR (visibility = ? AND owner_id IN ?)",
			models.VisibilityPublic, *q.Viewer, models.VisibilityFriends, q.FriendIDs,
		)
	} else {
		tx = tx.Where("visibility = ? OR owner_id = ?", models.VisibilityPublic, *q.Viewer)
	}

	if q.OwnerOnly != nil {
		tx = tx.Where("owner_id = ?", *q.OwnerOnly)
	} else if q.OwnerIn != nil {
		tx = tx.Where("owner_id IN ?", q.OwnerIn)
	}
	return tx
}

// ListForFeed retrieves all candidate photos for a feed request, newest first.
// Sorting beyond created_at is a post-processing concern of the assembler.
func (r *PhotoRepository) ListForFeed(ctx context.Context, q FeedQuery) ([]*models.Photo, error) {
	var photos []*models.Photo
	if err := r.feedScope(ctx, q).
		Order("created_at DESC, id DESC").
		Find(&photos).Error; err != nil {
		return nil, err
	}
	return photos, nil
}

// CountForFeed counts the candidate set independently of any page slice
func (r *PhotoRepository) CountForFeed(ctx context.Context, q FeedQuery) (int64, error) {
	var count int64
	if err := r.feedScope(ctx, q).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// touchTime returns the zero-safe write timestamp used by repos that fill
// CreatedAt/UpdatedAt themselves
func touchTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t
}
