package gallery

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

// RateRequest carries the three sub-scores of one rating
type RateRequest struct {
	Composition  int16 `json:"composition"`
	Storytelling int16 `json:"storytelling"`
	Technique    int16 `json:"technique"`
}

// RatingStats aggregates all ratings of a photo. Averages are recomputed
// from the stored rows on every read.
type RatingStats struct {
	Count           int64   `json:"count"`
	AvgComposition  float64 `json:"avg_composition"`
	AvgStorytelling float64 `json:"avg_storytelling"`
	AvgTechnique    float64 `json:"avg_technique"`
	Overall         float64 `json:"overall"`
}

func validateScore(name string, score int16) error {
	if score < models.RatingScoreMin || score > models.RatingScoreMax {
		return apperr.Validation(fmt.Sprintf("%s score must be between %d and %d",
			name, models.RatingScoreMin, models.RatingScoreMax))
	}
	return nil
}

// ratingAverage computes the mean of the three sub-scores rounded to two
// decimals. Clients never supply the average themselves.
func ratingAverage(composition, storytelling, technique int16) float64 {
	return round2(float64(composition+storytelling+technique) / 3)
}

// Rate records or replaces the user's rating of the photo. Owners cannot
// rate their own photos.
func (s *Service) Rate(ctx context.Context, user uuid.UUID, photoID int64, req RateRequest) (*models.Rating, error) {
	if err := validateScore("composition", req.Composition); err != nil {
		return nil, err
	}
	if err := validateScore("storytelling", req.Storytelling); err != nil {
		return nil, err
	}
	if err := validateScore("technique", req.Technique); err != nil {
		return nil, err
	}

	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return nil, apperr.Upstream("failed to load photo", err)
	}
	if photo == nil {
		return nil, apperr.NotFound("photo not found")
	}
	if photo.OwnerID == user {
		return nil, apperr.Conflict("cannot rate your own photo")
	}
	visible, err := s.canView(ctx, &user, photo.OwnerID, photo.Visibility)
	if err != nil {
		return nil, apperr.Upstream("failed to check visibility", err)
	}
	if !visible {
		return nil, apperr.NotFound("photo not found")
	}

	rating := &models.Rating{
		PhotoID:           photoID,
		UserID:            user,
		CompositionScore:  req.Composition,
		StorytellingScore: req.Storytelling,
		TechniqueScore:    req.Technique,
		AverageScore:      ratingAverage(req.Composition, req.Storytelling, req.Technique),
	}
	if err := s.ratings.Upsert(ctx, rating); err != nil {
		return nil, apperr.Upstream("failed to save rating", err)
	}
	return rating, nil
}

// DeleteRating removes the user's own rating of the photo
func (s *Service) DeleteRating(ctx context.Context, user uuid.UUID, photoID int64) error {
	existing, err := s.ratings.GetByPhotoUser(ctx, photoID, user)
	if err != nil {
		return apperr.Upstream("failed to load rating", err)
	}
	if existing == nil {
		return apperr.NotFound("rating not found")
	}
	if err := s.ratings.Delete(ctx, photoID, user); err != nil {
		return apperr.Upstream("failed to delete rating", err)
	}
	return nil
}

// GetRating returns the user's own rating of the photo, or nil when the
// user has not rated it.
func (s *Service) GetRating(ctx context.Context, user uuid.UUID, photoID int64) (*models.Rating, error) {
	rating, err := s.ratings.GetByPhotoUser(ctx, photoID, user)
	if err != nil {
		return nil, apperr.Upstream("failed to load rating", err)
	}
	return rating, nil
}

// RatingStats aggregates the photo's ratings into per-category averages and
// an overall mean.
func (s *Service) RatingStats(ctx context.Context, viewer *uuid.UUID, photoID int64) (*RatingStats, error) {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return nil, apperr.Upstream("failed to load photo", err)
	}
	if photo == nil {
		return nil, apperr.NotFound("photo not found")
	}
	visible, err := s.canView(ctx, viewer, photo.OwnerID, photo.Visibility)
	if err != nil {
		return nil, apperr.Upstream("failed to check visibility", err)
	}
	if !visible {
		return nil, apperr.NotFound("photo not found")
	}

	ratings, err := s.ratings.ListByPhoto(ctx, photoID)
	if err != nil {
		return nil, apperr.Upstream("failed to load ratings", err)
	}
	return aggregateRatings(ratings), nil
}

// aggregateRatings reduces rating rows to per-category averages. An empty
// slice yields zeroed stats, not an error.
func aggregateRatings(ratings []*models.Rating) *RatingStats {
	stats := &RatingStats{Count: int64(len(ratings))}
	if len(ratings) == 0 {
		return stats
	}

	var composition, storytelling, technique int64
	for _, r := range ratings {
		composition += int64(r.CompositionScore)
		storytelling += int64(r.StorytellingScore)
		technique += int64(r.TechniqueScore)
	}
	n := float64(len(ratings))
	stats.AvgComposition = round2(float64(composition) / n)
	stats.AvgStorytelling = round2(float64(storytelling) / n)
	stats.AvgTechnique = round2(float64(technique) / n)
	stats.Overall = round2((stats.AvgComposition + stats.AvgStorytelling + stats.AvgTechnique) / 3)
	return stats
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
