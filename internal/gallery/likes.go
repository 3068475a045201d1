package gallery

import (
	"context"

	"github.com/google/uuid"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
)

// LikeResult reports the state after a like toggle
type LikeResult struct {
	Liked      bool  `json:"liked"`
	LikesCount int64 `json:"likes_count"`
}

// ToggleLike likes the photo if the user has not liked it, and unlikes it
// otherwise. The insert relies on the (photo, user) key, so two racing likes
// settle as one row and one counter bump.
func (s *Service) ToggleLike(ctx context.Context, user uuid.UUID, photoID int64) (*LikeResult, error) {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return nil, apperr.Upstream("failed to load photo", err)
	}
	if photo == nil {
		return nil, apperr.NotFound("photo not found")
	}
	visible, err := s.canView(ctx, &user, photo.OwnerID, photo.Visibility)
	if err != nil {
		return nil, apperr.Upstream("failed to check visibility", err)
	}
	if !visible {
		return nil, apperr.NotFound("photo not found")
	}

	liked, err := s.likes.Exists(ctx, photoID, user)
	if err != nil {
		return nil, apperr.Upstream("failed to check like", err)
	}

	var nowLiked bool
	if liked {
		removed, err := s.likes.Delete(ctx, photoID, user)
		if err != nil {
			return nil, apperr.Upstream("failed to remove like", err)
		}
		if removed {
			if err := s.photos.AdjustLikesCount(ctx, photoID, -1); err != nil {
				return nil, apperr.Upstream("failed to update like count", err)
			}
		}
		nowLiked = false
	} else {
		inserted, err := s.likes.Insert(ctx, photoID, user)
		if err != nil {
			return nil, apperr.Upstream("failed to add like", err)
		}
		if inserted {
			if err := s.photos.AdjustLikesCount(ctx, photoID, 1); err != nil {
				return nil, apperr.Upstream("failed to update like count", err)
			}
			if s.notifier != nil {
				s.notifier.NotifyLike(ctx, photo.OwnerID, user, photoID)
			}
		}
		nowLiked = true
	}

	count, err := s.likes.CountByPhoto(ctx, photoID)
	if err != nil {
		return nil, apperr.Upstream("failed to count likes", err)
	}
	s.invalidateFeeds()
	return &LikeResult{Liked: nowLiked, LikesCount: count}, nil
}
