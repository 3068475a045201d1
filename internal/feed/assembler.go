package feed

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
	"github.com/MichaelLiu22/gallery-gathering/internal/cache"
	"github.com/MichaelLiu22/gallery-gathering/internal/db"
	"github.com/MichaelLiu22/gallery-gathering/internal/models"
	"github.com/MichaelLiu22/gallery-gathering/pkg/logging"
)

// DefaultPageSize is used when a request does not specify a page size
const DefaultPageSize = 20

// MaxPageSize caps the per-page candidate slice
const MaxPageSize = 100

// PhotoSummary is one feed entry: the photo row denormalized with the
// owner's display fields and a freshly counted comment total.
type PhotoSummary struct {
	ID               int64                   `json:"id"`
	OwnerID          uuid.UUID               `json:"owner_id"`
	OwnerDisplayName string                  `json:"owner_display_name"`
	OwnerAvatarURL   string                  `json:"owner_avatar_url,omitempty"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description,omitempty"`
	ImageURL         string                  `json:"image_url"`
	CameraEquipment  string                  `json:"camera_equipment,omitempty"`
	ExposureSettings models.ExposureSettings `json:"exposure_settings,omitempty"`
	Visibility       string                  `json:"visibility"`
	LikesCount       int64                   `json:"likes_count"`
	ViewsCount       int64                   `json:"views_count"`
	CommentsCount    int64                   `json:"comments_count"`
	CreatedAt        time.Time               `json:"created_at"`
}

// Page is one page of feed results with the total matching the full
// candidate set, not just the returned slice.
type Page struct {
	Photos   []PhotoSummary `json:"photos"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

// Request describes one feed read
type Request struct {
	Viewer   *uuid.UUID
	Sort     SortOrder
	Filter   Filter
	Page     int
	PageSize int
}

// PhotoSource lists and counts feed candidates under a visibility-gated query
type PhotoSource interface {
	ListForFeed(ctx context.Context, q db.FeedQuery) ([]*models.Photo, error)
	CountForFeed(ctx context.Context, q db.FeedQuery) (int64, error)
}

// ProfileSource resolves owner display fields
type ProfileSource interface {
	GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*models.Profile, error)
}

// CommentSource counts comments per photo at query time
type CommentSource interface {
	CountByPhotoIDs(ctx context.Context, photoIDs []int64) (map[int64]int64, error)
}

// FriendshipSource lists the viewer's accepted friends
type FriendshipSource interface {
	FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
}

// FollowSource lists the users the viewer follows
type FollowSource interface {
	FollowingIDs(ctx context.Context, followerID uuid.UUID) ([]uuid.UUID, error)
}

// PageCache stores assembled pages under a TTL
type PageCache interface {
	GetJSON(key string, out interface{}) error
	SetJSON(key string, value interface{}, ttl time.Duration) error
}

// Assembler builds ranked, filtered, visibility-gated photo pages
type Assembler struct {
	photos      PhotoSource
	profiles    ProfileSource
	comments    CommentSource
	friendships FriendshipSource
	follows     FollowSource
	scorer      Scorer
	cache       PageCache
	logger      *zap.Logger
}

// NewAssembler creates a feed assembler over the given repositories. cache
// may be nil, which disables result caching.
func NewAssembler(
	photos PhotoSource,
	profiles ProfileSource,
	comments CommentSource,
	friendships FriendshipSource,
	follows FollowSource,
	scorer Scorer,
	c PageCache,
) *Assembler {
	if scorer == nil {
		scorer = EngagementScorer{}
	}
	return &Assembler{
		photos:      photos,
		profiles:    profiles,
		comments:    comments,
		friendships: friendships,
		follows:     follows,
		scorer:      scorer,
		cache:       c,
		logger:      logging.GetLogger().With(zap.String("component", "feed")),
	}
}

// getCacheTTL returns cache expiry per sort order. Recency sorts stay fresh,
// engagement sorts tolerate a little staleness.
func getCacheTTL(sortOrder SortOrder) time.Duration {
	switch sortOrder {
	case SortLatest:
		return 30 * time.Second
	case SortHot:
		return 1 * time.Minute
	default:
		return 3 * time.Minute
	}
}

func cacheKey(req Request) string {
	viewer := "anon"
	if req.Viewer != nil {
		viewer = req.Viewer.String()
	}
	return "feed:" + cache.HashKey(
		viewer,
		string(req.Sort),
		string(req.Filter),
		strconv.Itoa(req.Page),
		strconv.Itoa(req.PageSize),
	)
}

// GetFeed assembles one page of the feed for req. Viewer-scoped filters
// require an authenticated viewer; a viewer with no friends or followed
// users gets an empty page under those filters rather than an error.
func (a *Assembler) GetFeed(ctx context.Context, req Request) (*Page, error) {
	if req.Sort == "" {
		req.Sort = SortLatest
	}
	if req.Filter == "" {
		req.Filter = FilterAll
	}
	if !ValidSort(req.Sort) {
		return nil, apperr.Validation(fmt.Sprintf("unknown sort order %q", req.Sort))
	}
	if !ValidFilter(req.Filter) {
		return nil, apperr.Validation(fmt.Sprintf("unknown filter %q", req.Filter))
	}
	if req.Page < 1 {
		req.Page = 1
	}
	if req.PageSize < 1 {
		req.PageSize = DefaultPageSize
	}
	if req.PageSize > MaxPageSize {
		req.PageSize = MaxPageSize
	}
	if req.Viewer == nil && (req.Filter == FilterFriends || req.Filter == FilterMine || req.Filter == FilterFollowing) {
		return nil, apperr.NotAuthenticated(fmt.Sprintf("filter %q requires a signed-in viewer", req.Filter))
	}

	key := cacheKey(req)
	if a.cache != nil {
		var cached Page
		if err := a.cache.GetJSON(key, &cached); err == nil {
			return &cached, nil
		}
	}

	page, err := a.assemble(ctx, req)
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if err := a.cache.SetJSON(key, page, getCacheTTL(req.Sort)); err != nil && err != cache.ErrCacheDisabled {
			a.logger.Warn("failed to cache feed page", zap.Error(err))
		}
	}
	return page, nil
}

func (a *Assembler) assemble(ctx context.Context, req Request) (*Page, error) {
	var friendIDs []uuid.UUID
	var err error
	if req.Viewer != nil {
		friendIDs, err = a.friendships.FriendIDs(ctx, *req.Viewer)
		if err != nil {
			return nil, apperr.Upstream("failed to load friend list", err)
		}
	}

	query := db.FeedQuery{Viewer: req.Viewer, FriendIDs: friendIDs}
	var priority map[uuid.UUID]bool

	switch req.Filter {
	case FilterMine:
		query.OwnerOnly = req.Viewer
	case FilterFriends:
		if len(friendIDs) == 0 {
			return emptyPage(req), nil
		}
		query.OwnerIn = friendIDs
	case FilterFollowing:
		followingIDs, err := a.follows.FollowingIDs(ctx, *req.Viewer)
		if err != nil {
			return nil, apperr.Upstream("failed to load following list", err)
		}
		if len(followingIDs) == 0 {
			return emptyPage(req), nil
		}
		query.OwnerIn = followingIDs
	case FilterAll:
		if req.Viewer != nil {
			followingIDs, err := a.follows.FollowingIDs(ctx, *req.Viewer)
			if err != nil {
				return nil, apperr.Upstream("failed to load following list", err)
			}
			priority = make(map[uuid.UUID]bool, len(friendIDs)+len(followingIDs))
			for _, id := range friendIDs {
				priority[id] = true
			}
			for _, id := range followingIDs {
				priority[id] = true
			}
		}
	}

	photos, err := a.photos.ListForFeed(ctx, query)
	if err != nil {
		return nil, apperr.Upstream("failed to load feed candidates", err)
	}
	total, err := a.photos.CountForFeed(ctx, query)
	if err != nil {
		return nil, apperr.Upstream("failed to count feed candidates", err)
	}
	if len(photos) == 0 {
		page := emptyPage(req)
		page.Total = total
		return page, nil
	}

	photoIDs := make([]int64, len(photos))
	for i, p := range photos {
		photoIDs[i] = p.ID
	}
	commentCounts, err := a.comments.CountByPhotoIDs(ctx, photoIDs)
	if err != nil {
		return nil, apperr.Upstream("failed to count comments", err)
	}

	cands := make([]candidate, len(photos))
	for i, p := range photos {
		cands[i] = candidate{photo: p, comments: commentCounts[p.ID]}
	}

	orderCandidates(cands, req.Sort, a.scorer, time.Now().UTC())
	if req.Filter == FilterAll && req.Viewer != nil {
		cands = prioritizeBuckets(cands, *req.Viewer, priority)
	}
	cands = pageSlice(cands, req.Page, req.PageSize)

	ownerIDs := make([]uuid.UUID, 0, len(cands))
	seen := make(map[uuid.UUID]bool, len(cands))
	for _, c := range cands {
		if !seen[c.photo.OwnerID] {
			seen[c.photo.OwnerID] = true
			ownerIDs = append(ownerIDs, c.photo.OwnerID)
		}
	}
	profiles, err := a.profiles.GetByUserIDs(ctx, ownerIDs)
	if err != nil {
		return nil, apperr.Upstream("failed to load owner profiles", err)
	}

	summaries := make([]PhotoSummary, len(cands))
	for i, c := range cands {
		summaries[i] = summarize(c, profiles[c.photo.OwnerID])
	}
	return &Page{
		Photos:   summaries,
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
	}, nil
}

func emptyPage(req Request) *Page {
	return &Page{Photos: []PhotoSummary{}, Page: req.Page, PageSize: req.PageSize}
}

func summarize(c candidate, profile *models.Profile) PhotoSummary {
	s := PhotoSummary{
		ID:               c.photo.ID,
		OwnerID:          c.photo.OwnerID,
		Title:            c.photo.Title,
		ImageURL:         c.photo.ImageURL,
		Visibility:       c.photo.Visibility,
		LikesCount:       c.photo.LikesCount,
		ViewsCount:       c.photo.ViewsCount,
		CommentsCount:    c.comments,
		CreatedAt:        c.photo.CreatedAt,
		ExposureSettings: models.DecodeExposure(c.photo.ExposureSettings),
	}
	if c.photo.Description.Valid {
		s.Description = c.photo.Description.String
	}
	if c.photo.CameraEquipment.Valid {
		s.CameraEquipment = c.photo.CameraEquipment.String
	}
	if profile != nil {
		s.OwnerDisplayName = profile.DisplayName
		if profile.AvatarURL.Valid {
			s.OwnerAvatarURL = profile.AvatarURL.String
		}
	}
	return s
}
