package gallery

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MichaelLiu22/gallery-gathering/internal/cache"
	"github.com/MichaelLiu22/gallery-gathering/internal/models"
	"github.com/MichaelLiu22/gallery-gathering/internal/storage"
	"github.com/MichaelLiu22/gallery-gathering/pkg/logging"
)

// Notifier records engagement notifications for photo owners and friends.
// Implementations never block the triggering operation on delivery.
type Notifier interface {
	NotifyComment(ctx context.Context, owner, actor uuid.UUID, photoID int64)
	NotifyLike(ctx context.Context, owner, actor uuid.UUID, photoID int64)
	NotifyFriendPost(ctx context.Context, poster uuid.UUID, photoID int64)
}

// PhotoStore persists photo rows and their image records
type PhotoStore interface {
	GetByID(ctx context.Context, id int64) (*models.Photo, error)
	Create(ctx context.Context, photo *models.Photo, images []models.PhotoImage) error
	ImagesByPhotoID(ctx context.Context, photoID int64) ([]models.PhotoImage, error)
	Delete(ctx context.Context, photoID int64) error
	IncrementViews(ctx context.Context, photoID int64) error
	AdjustLikesCount(ctx context.Context, photoID int64, delta int) error
}

// ProfileReader resolves display fields for photo owners and comment authors
type ProfileReader interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*models.Profile, error)
}

// LikeStore persists like rows
type LikeStore interface {
	Exists(ctx context.Context, photoID int64, userID uuid.UUID) (bool, error)
	Insert(ctx context.Context, photoID int64, userID uuid.UUID) (bool, error)
	Delete(ctx context.Context, photoID int64, userID uuid.UUID) (bool, error)
	CountByPhoto(ctx context.Context, photoID int64) (int64, error)
}

// RatingStore persists one rating per user and photo
type RatingStore interface {
	Upsert(ctx context.Context, rating *models.Rating) error
	GetByPhotoUser(ctx context.Context, photoID int64, userID uuid.UUID) (*models.Rating, error)
	ListByPhoto(ctx context.Context, photoID int64) ([]*models.Rating, error)
	Delete(ctx context.Context, photoID int64, userID uuid.UUID) error
}

// CommentStore persists comment rows
type CommentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByPhoto(ctx context.Context, photoID int64) ([]*models.Comment, error)
	CountByPhoto(ctx context.Context, photoID int64) (int64, error)
}

// FriendshipChecker answers whether two users are friends
type FriendshipChecker interface {
	Exists(ctx context.Context, a, b uuid.UUID) (bool, error)
}

// FeedCache invalidates cached feed pages
type FeedCache interface {
	DeletePrefix(prefix string) error
}

// Service implements photo uploads, engagement and aggregation
type Service struct {
	photos      PhotoStore
	profiles    ProfileReader
	likes       LikeStore
	ratings     RatingStore
	comments    CommentStore
	friendships FriendshipChecker
	store       storage.ObjectStore
	notifier    Notifier
	cache       FeedCache
	logger      *zap.Logger
}

// NewService creates the gallery service. notifier and cache may be nil.
func NewService(
	photos PhotoStore,
	profiles ProfileReader,
	likes LikeStore,
	ratings RatingStore,
	comments CommentStore,
	friendships FriendshipChecker,
	store storage.ObjectStore,
	notifier Notifier,
	c FeedCache,
) *Service {
	return &Service{
		photos:      photos,
		profiles:    profiles,
		likes:       likes,
		ratings:     ratings,
		comments:    comments,
		friendships: friendships,
		store:       store,
		notifier:    notifier,
		cache:       c,
		logger:      logging.GetLogger().With(zap.String("component", "gallery")),
	}
}

func (s *Service) invalidateFeeds() {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix("feed:"); err != nil && err != cache.ErrCacheDisabled {
		s.logger.Warn("failed to invalidate feed cache", zap.Error(err))
	}
}

// canView reports whether viewer may see the photo under its visibility
// tier. Owners always see their own photos.
func (s *Service) canView(ctx context.Context, viewer *uuid.UUID, ownerID uuid.UUID, visibility string) (bool, error) {
	if viewer != nil && *viewer == ownerID {
		return true, nil
	}
	switch visibility {
	case models.VisibilityPublic:
		return true, nil
	case models.VisibilityPrivate:
		return false, nil
	case models.VisibilityFriends:
		if viewer == nil {
			return false, nil
		}
		return s.friendships.Exists(ctx, *viewer, ownerID)
	default:
		// Unknown tiers stay hidden
		return false, nil
	}
}
