package social

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

// ProfileInput carries the editable profile fields. Nil pointers on update
// mean "leave unchanged".
type ProfileInput struct {
	DisplayName    *string `json:"display_name"`
	AvatarURL      *string `json:"avatar_url"`
	Bio            *string `json:"bio"`
	FavoriteCamera *string `json:"favorite_camera"`
}

// ProfileView is a profile rendered for a viewer, with relationship context
type ProfileView struct {
	UserID         uuid.UUID `json:"user_id"`
	DisplayName    string    `json:"display_name"`
	AvatarURL      string    `json:"avatar_url,omitempty"`
	Bio            string    `json:"bio,omitempty"`
	FavoriteCamera string    `json:"favorite_camera,omitempty"`
	Followers      int64     `json:"followers"`
	Following      int64     `json:"following"`
	PhotoScore     float64   `json:"photo_score"`
	FriendStatus   string    `json:"friend_status,omitempty"`
	IsFollowing    bool      `json:"is_following"`
}

// ValidateDisplayName checks length bounds and the allowed character set.
// Names are counted in runes, not bytes.
func ValidateDisplayName(name string) error {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < models.DisplayNameMinLen || n > models.DisplayNameMaxLen {
		return apperr.Validation(fmt.Sprintf("display name must be %d to %d characters",
			models.DisplayNameMinLen, models.DisplayNameMaxLen))
	}
	for _, r := range name {
		if r == '\n' || r == '\r' || r == '\t' {
			return apperr.Validation("display name cannot contain control characters")
		}
	}
	return nil
}

// CreateProfile creates the user's profile. The display name must be unique
// across users, compared case-insensitively.
func (s *Service) CreateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*models.Profile, error) {
	if input.DisplayName == nil {
		return nil, apperr.Validation("display name is required")
	}
	name := strings.TrimSpace(*input.DisplayName)
	if err := ValidateDisplayName(name); err != nil {
		return nil, err
	}

	existing, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Upstream("failed to load profile", err)
	}
	if existing != nil {
		return nil, apperr.Conflict("profile already exists")
	}

	taken, err := s.profiles.DisplayNameTaken(ctx, name, userID)
	if err != nil {
		return nil, apperr.Upstream("failed to check display name", err)
	}
	if taken {
		return nil, apperr.Conflict("display name is already taken")
	}

	profile := &models.Profile{UserID: userID, DisplayName: name}
	applyProfileInput(profile, input)
	if err := s.profiles.Create(ctx, profile); err != nil {
		return nil, apperr.Upstream("failed to create profile", err)
	}
	return profile, nil
}

// UpdateProfile applies the non-nil fields of input to the user's profile
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, input ProfileInput) (*models.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Upstream("failed to load profile", err)
	}
	if profile == nil {
		return nil, apperr.NotFound("profile not found")
	}

	if input.DisplayName != nil {
		name := strings.TrimSpace(*input.DisplayName)
		if err := ValidateDisplayName(name); err != nil {
			return nil, err
		}
		taken, err := s.profiles.DisplayNameTaken(ctx, name, userID)
		if err != nil {
			return nil, apperr.Upstream("failed to check display name", err)
		}
		if taken {
			return nil, apperr.Conflict("display name is already taken")
		}
		profile.DisplayName = name
	}
	applyProfileInput(profile, input)

	if err := s.profiles.Update(ctx, profile); err != nil {
		return nil, apperr.Upstream("failed to update profile", err)
	}
	return profile, nil
}

func applyProfileInput(profile *models.Profile, input ProfileInput) {
	if input.AvatarURL != nil {
		profile.AvatarURL = nullString(*input.AvatarURL)
	}
	if input.Bio != nil {
		profile.Bio = nullString(*input.Bio)
	}
	if input.FavoriteCamera != nil {
		profile.FavoriteCamera = nullString(*input.FavoriteCamera)
	}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// GetProfile renders the user's profile with follow counts, photo score and
// the viewer's relationship to them.
func (s *Service) GetProfile(ctx context.Context, viewer *uuid.UUID, userID uuid.UUID) (*ProfileView, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperr.Upstream("failed to load profile", err)
	}
	if profile == nil {
		return nil, apperr.NotFound("profile not found")
	}

	view := &ProfileView{UserID: userID, DisplayName: profile.DisplayName}
	if profile.AvatarURL.Valid {
		view.AvatarURL = profile.AvatarURL.String
	}
	if profile.Bio.Valid {
		view.Bio = profile.Bio.String
	}
	if profile.FavoriteCamera.Valid {
		view.FavoriteCamera = profile.FavoriteCamera.String
	}

	view.Followers, view.Following, err = s.follows.Counts(ctx, userID)
	if err != nil {
		return nil, apperr.Upstream("failed to count follows", err)
	}
	view.PhotoScore, err = s.ratings.UserPhotoScore(ctx, userID)
	if err != nil {
		return nil, apperr.Upstream("failed to compute photo score", err)
	}

	if viewer != nil {
		view.FriendStatus, err = s.FriendStatus(ctx, *viewer, userID)
		if err != nil {
			return nil, err
		}
		view.IsFollowing, err = s.IsFollowing(ctx, *viewer, userID)
		if err != nil {
			return nil, err
		}
	}
	return view, nil
}
