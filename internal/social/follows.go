package social

import (
	"context"

	"github.com/google/uuid"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

// FollowCounts holds a user's follower and following totals
type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// Follow makes follower follow following. Following yourself is a conflict;
// following someone twice is a no-op.
func (s *Service) Follow(ctx context.Context, follower, following uuid.UUID) error {
	if follower == following {
		return apperr.Conflict("cannot follow yourself")
	}
	profile, err := s.profiles.GetByUserID(ctx, following)
	if err != nil {
		return apperr.Upstream("failed to load profile", err)
	}
	if profile == nil {
		return apperr.NotFound("user not found")
	}
	if err := s.follows.Create(ctx, &models.Follow{FollowerID: follower, FollowingID: following}); err != nil {
		return apperr.Upstream("failed to create follow", err)
	}
	s.invalidateFeeds()
	return nil
}

// Unfollow removes the follow edge; unfollowing someone not followed is a
// no-op.
func (s *Service) Unfollow(ctx context.Context, follower, following uuid.UUID) error {
	if err := s.follows.Delete(ctx, follower, following); err != nil {
		return apperr.Upstream("failed to remove follow", err)
	}
	s.invalidateFeeds()
	return nil
}

// IsFollowing reports whether follower follows following
func (s *Service) IsFollowing(ctx context.Context, follower, following uuid.UUID) (bool, error) {
	ok, err := s.follows.Exists(ctx, follower, following)
	if err != nil {
		return false, apperr.Upstream("failed to check follow", err)
	}
	return ok, nil
}

// Following lists the users that userID follows, with profile fields
func (s *Service) Following(ctx context.Context, userID uuid.UUID) ([]FriendSummary, error) {
	ids, err := s.follows.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, apperr.Upstream("failed to load following list", err)
	}
	return s.summarizeUsers(ctx, ids)
}

// Followers lists the users following userID, with profile fields
func (s *Service) Followers(ctx context.Context, userID uuid.UUID) ([]FriendSummary, error) {
	ids, err := s.follows.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, apperr.Upstream("failed to load follower list", err)
	}
	return s.summarizeUsers(ctx, ids)
}

// Counts returns follower and following totals for userID
func (s *Service) Counts(ctx context.Context, userID uuid.UUID) (*FollowCounts, error) {
	followers, following, err := s.follows.Counts(ctx, userID)
	if err != nil {
		return nil, apperr.Upstream("failed to count follows", err)
	}
	return &FollowCounts{Followers: followers, Following: following}, nil
}

func (s *Service) summarizeUsers(ctx context.Context, ids []uuid.UUID) ([]FriendSummary, error) {
	if len(ids) == 0 {
		return []FriendSummary{}, nil
	}
	profiles, err := s.profiles.GetByUserIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Upstream("failed to load profiles", err)
	}
	out := make([]FriendSummary, 0, len(ids))
	for _, id := range ids {
		summary := FriendSummary{UserID: id}
		if p := profiles[id]; p != nil {
			summary.DisplayName = p.DisplayName
			if p.AvatarURL.Valid {
				summary.AvatarURL = p.AvatarURL.String
			}
		}
		out = append(out, summary)
	}
	return out, nil
}
