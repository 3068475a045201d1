package social

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MichaelLiu22/gallery-gathering/internal/cache"
	"github.com/MichaelLiu22/gallery-gathering/internal/models"
	"github.com/MichaelLiu22/gallery-gathering/pkg/logging"
)

// Pusher delivers real-time events to connected users. Implementations must
// tolerate users with no open connection.
type Pusher interface {
	Push(userID uuid.UUID, event string, payload interface{})
	IsOnline(userID uuid.UUID) bool
}

// FriendRequestStore persists friend requests and their resolution. Accept
// must atomically mark the request and create the friendship pair.
type FriendRequestStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.FriendRequest, error)
	Create(ctx context.Context, req *models.FriendRequest) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status int16) error
	Accept(ctx context.Context, id uuid.UUID, sender, receiver uuid.UUID) error
	PendingBetween(ctx context.Context, a, b uuid.UUID) (*models.FriendRequest, error)
	ListPendingFor(ctx context.Context, userID uuid.UUID) ([]*models.FriendRequest, error)
}

// FriendshipStore reads and removes mirrored friendship rows
type FriendshipStore interface {
	Exists(ctx context.Context, a, b uuid.UUID) (bool, error)
	FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	DeletePair(ctx context.Context, a, b uuid.UUID) error
}

// FollowStore persists follow edges
type FollowStore interface {
	Create(ctx context.Context, follow *models.Follow) error
	Delete(ctx context.Context, followerID, followingID uuid.UUID) error
	Exists(ctx context.Context, followerID, followingID uuid.UUID) (bool, error)
	FollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
	FollowerIDs(ctx context.Context, followingID uuid.UUID) ([]uuid.UUID, error)
	Counts(ctx context.Context, userID uuid.UUID) (followers int64, following int64, err error)
}

// ProfileStore persists user profiles
type ProfileStore interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*models.Profile, error)
	DisplayNameTaken(ctx context.Context, name string, userID uuid.UUID) (bool, error)
	Create(ctx context.Context, profile *models.Profile) error
	Update(ctx context.Context, profile *models.Profile) error
}

// ScoreStore aggregates rating scores per user
type ScoreStore interface {
	UserPhotoScore(ctx context.Context, ownerID uuid.UUID) (float64, error)
}

// NotificationStore persists notification rows
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	CreateBatch(ctx context.Context, ns []*models.Notification) error
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*models.Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, recipientID uuid.UUID, ids []int64) error
}

// FeedCache invalidates cached feed pages
type FeedCache interface {
	DeletePrefix(prefix string) error
}

// Service implements friendships, follows and notifications
type Service struct {
	requests      FriendRequestStore
	friendships   FriendshipStore
	follows       FollowStore
	profiles      ProfileStore
	ratings       ScoreStore
	notifications NotificationStore
	cache         FeedCache
	pusher        Pusher
	logger        *zap.Logger
}

// NewService creates the social service. cache and pusher may be nil.
func NewService(
	requests FriendRequestStore,
	friendships FriendshipStore,
	follows FollowStore,
	profiles ProfileStore,
	ratings ScoreStore,
	notifications NotificationStore,
	c FeedCache,
	pusher Pusher,
) *Service {
	return &Service{
		requests:      requests,
		friendships:   friendships,
		follows:       follows,
		profiles:      profiles,
		ratings:       ratings,
		notifications: notifications,
		cache:         c,
		pusher:        pusher,
		logger:        logging.GetLogger().With(zap.String("component", "social")),
	}
}

// invalidateFeeds drops cached feed pages after a relationship change, since
// friend and following filters depend on the relationship graph.
func (s *Service) invalidateFeeds() {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePrefix("feed:"); err != nil && err != cache.ErrCacheDisabled {
		s.logger.Warn("failed to invalidate feed cache", zap.Error(err))
	}
}

func (s *Service) push(userID uuid.UUID, event string, payload interface{}) {
	if s.pusher == nil {
		return
	}
	s.pusher.Push(userID, event, payload)
}

func (s *Service) online(userID uuid.UUID) bool {
	if s.pusher == nil {
		return false
	}
	return s.pusher.IsOnline(userID)
}
