package gallery

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
	"github.com/MichaelLiu22/gallery-gathering/internal/exifmeta"
	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

// Upload limits
const (
	MaxTitleLen       = 120
	MaxImagesPerPhoto = 10
	MaxImageBytes     = 20 << 20
)

// UploadImage is one image blob of an upload request
type UploadImage struct {
	Filename    string
	ContentType string
	Data        []byte
}

// UploadRequest describes one photo upload
type UploadRequest struct {
	Owner           uuid.UUID
	Title           string
	Description     string
	CameraEquipment string
	Visibility      string
	Images          []UploadImage
}

// PhotoDetail is a photo with its aggregates and viewer-specific flags
type PhotoDetail struct {
	ID               int64                   `json:"id"`
	OwnerID          uuid.UUID               `json:"owner_id"`
	OwnerDisplayName string                  `json:"owner_display_name"`
	Title            string                  `json:"title"`
	Description      string                  `json:"description,omitempty"`
	ImageURLs        []string                `json:"image_urls"`
	CameraEquipment  string                  `json:"camera_equipment,omitempty"`
	ExposureSettings models.ExposureSettings `json:"exposure_settings,omitempty"`
	Visibility       string                  `json:"visibility"`
	LikesCount       int64                   `json:"likes_count"`
	ViewsCount       int64                   `json:"views_count"`
	CommentsCount    int64                   `json:"comments_count"`
	LikedByViewer    bool                    `json:"liked_by_viewer"`
	CreatedAt        time.Time               `json:"created_at"`
}

func validateUpload(req *UploadRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return apperr.Validation("title is required")
	}
	if len(req.Title) > MaxTitleLen {
		return apperr.Validation(fmt.Sprintf("title exceeds %d characters", MaxTitleLen))
	}
	if len(req.Images) == 0 {
		return apperr.Validation("at least one image is required")
	}
	if len(req.Images) > MaxImagesPerPhoto {
		return apperr.Validation(fmt.Sprintf("at most %d images per photo", MaxImagesPerPhoto))
	}
	for i, img := range req.Images {
		if len(img.Data) == 0 {
			return apperr.Validation(fmt.Sprintf("image %d is empty", i))
		}
		if len(img.Data) > MaxImageBytes {
			return apperr.Validation(fmt.Sprintf("image %d exceeds the size limit", i))
		}
	}
	if req.Visibility == "" {
		req.Visibility = models.VisibilityPublic
	}
	if !models.ValidVisibility(req.Visibility) {
		return apperr.Validation(fmt.Sprintf("unknown visibility %q", req.Visibility))
	}
	return nil
}

// Upload stores the image blobs and creates the photo row. The upload is all
// or nothing: a failed blob or row write removes every blob stored so far.
// Exposure metadata is read from the first image's EXIF tags when present.
func (s *Service) Upload(ctx context.Context, req *UploadRequest) (*models.Photo, error) {
	if err := validateUpload(req); err != nil {
		return nil, err
	}

	exposure := exifmeta.Extract(bytes.NewReader(req.Images[0].Data))
	camera := req.CameraEquipment
	if camera == "" {
		camera = exifmeta.CameraModel(bytes.NewReader(req.Images[0].Data))
	}

	stored := make([]models.PhotoImage, 0, len(req.Images))
	cleanup := func() {
		for _, img := range stored {
			if err := s.store.Delete(ctx, img.StorageKey); err != nil {
				s.logger.Warn("failed to remove blob after failed upload",
					zap.String("key", img.StorageKey), zap.Error(err))
			}
		}
	}

	for i, img := range req.Images {
		key := blobKey(req.Owner, img.Filename, i)
		url, err := s.store.Put(ctx, key, img.ContentType, bytes.NewReader(img.Data))
		if err != nil {
			cleanup()
			return nil, apperr.Upstream("failed to store image", err)
		}
		stored = append(stored, models.PhotoImage{Position: i, URL: url, StorageKey: key})
	}

	photo := &models.Photo{
		OwnerID:          req.Owner,
		Title:            strings.TrimSpace(req.Title),
		ImageURL:         stored[0].URL,
		Visibility:       req.Visibility,
		ExposureSettings: models.EncodeExposure(exposure),
		CreatedAt:        time.Now().UTC(),
	}
	if req.Description != "" {
		photo.Description = sql.NullString{String: req.Description, Valid: true}
	}
	if camera != "" {
		photo.CameraEquipment = sql.NullString{String: camera, Valid: true}
	}

	if err := s.photos.Create(ctx, photo, stored); err != nil {
		cleanup()
		return nil, apperr.Upstream("failed to create photo", err)
	}

	s.invalidateFeeds()
	if s.notifier != nil {
		s.notifier.NotifyFriendPost(ctx, req.Owner, photo.ID)
	}
	s.logger.Info("photo uploaded",
		zap.Int64("photo_id", photo.ID),
		zap.String("owner", req.Owner.String()),
		zap.Int("images", len(stored)))
	return photo, nil
}

// PresignResult carries a pre-signed PUT URL and the storage key it writes to
type PresignResult struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// PresignUpload returns a short-lived URL the client can PUT an image blob
// to directly, keeping large transfers out of the API process.
func (s *Service) PresignUpload(ctx context.Context, owner uuid.UUID, filename, contentType string) (*PresignResult, error) {
	if strings.TrimSpace(filename) == "" {
		return nil, apperr.Validation("filename is required")
	}
	key := blobKey(owner, filename, 0)
	url, err := s.store.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, apperr.Upstream("failed to presign upload", err)
	}
	return &PresignResult{URL: url, Key: key}, nil
}

func blobKey(owner uuid.UUID, filename string, position int) string {
	ext := ".jpg"
	if i := strings.LastIndex(filename, "."); i >= 0 {
		ext = strings.ToLower(filename[i:])
	}
	return fmt.Sprintf("photos/%s/%s-%d%s", owner, uuid.New(), position, ext)
}

// Get returns the photo with its aggregates, enforcing visibility for the
// viewer. Private and friends-only photos outside the viewer's reach report
// not found rather than leaking their existence.
func (s *Service) Get(ctx context.Context, viewer *uuid.UUID, photoID int64) (*PhotoDetail, error) {
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

	detail := &PhotoDetail{
		ID:               photo.ID,
		OwnerID:          photo.OwnerID,
		Title:            photo.Title,
		Visibility:       photo.Visibility,
		LikesCount:       photo.LikesCount,
		ViewsCount:       photo.ViewsCount,
		CreatedAt:        photo.CreatedAt,
		ExposureSettings: models.DecodeExposure(photo.ExposureSettings),
	}
	if photo.Description.Valid {
		detail.Description = photo.Description.String
	}
	if photo.CameraEquipment.Valid {
		detail.CameraEquipment = photo.CameraEquipment.String
	}

	images, err := s.photos.ImagesByPhotoID(ctx, photoID)
	if err != nil {
		return nil, apperr.Upstream("failed to load photo images", err)
	}
	detail.ImageURLs = make([]string, len(images))
	for i, img := range images {
		detail.ImageURLs[i] = img.URL
	}
	if len(detail.ImageURLs) == 0 {
		detail.ImageURLs = []string{photo.ImageURL}
	}

	detail.CommentsCount, err = s.comments.CountByPhoto(ctx, photoID)
	if err != nil {
		return nil, apperr.Upstream("failed to count comments", err)
	}

	if owner, err := s.profiles.GetByUserID(ctx, photo.OwnerID); err == nil && owner != nil {
		detail.OwnerDisplayName = owner.DisplayName
	}
	if viewer != nil {
		liked, err := s.likes.Exists(ctx, photoID, *viewer)
		if err != nil {
			return nil, apperr.Upstream("failed to check like", err)
		}
		detail.LikedByViewer = liked
	}
	return detail, nil
}

// Delete removes the photo, its engagement rows and its stored blobs. Only
// the owner may delete. Blob removal failures are logged, not surfaced; the
// rows are already gone.
func (s *Service) Delete(ctx context.Context, actor uuid.UUID, photoID int64) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return apperr.Upstream("failed to load photo", err)
	}
	if photo == nil {
		return apperr.NotFound("photo not found")
	}
	if photo.OwnerID != actor {
		return apperr.NotAuthorized("only the owner can delete a photo")
	}

	images, err := s.photos.ImagesByPhotoID(ctx, photoID)
	if err != nil {
		return apperr.Upstream("failed to load photo images", err)
	}

	if err := s.photos.Delete(ctx, photoID); err != nil {
		return apperr.Upstream("failed to delete photo", err)
	}

	for _, img := range images {
		if err := s.store.Delete(ctx, img.StorageKey); err != nil {
			s.logger.Warn("failed to remove blob of deleted photo",
				zap.Int64("photo_id", photoID),
				zap.String("key", img.StorageKey), zap.Error(err))
		}
	}

	s.invalidateFeeds()
	s.logger.Info("photo deleted", zap.Int64("photo_id", photoID))
	return nil
}

// RecordView bumps the view counter. The increment runs in the database, so
// concurrent views never lose updates. Owners viewing their own photo are
// not counted.
func (s *Service) RecordView(ctx context.Context, viewer *uuid.UUID, photoID int64) error {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return apperr.Upstream("failed to load photo", err)
	}
	if photo == nil {
		return apperr.NotFound("photo not found")
	}
	if viewer != nil && *viewer == photo.OwnerID {
		return nil
	}
	visible, err := s.canView(ctx, viewer, photo.OwnerID, photo.Visibility)
	if err != nil {
		return apperr.Upstream("failed to check visibility", err)
	}
	if !visible {
		return apperr.NotFound("photo not found")
	}
	if err := s.photos.IncrementViews(ctx, photoID); err != nil {
		return apperr.Upstream("failed to record view", err)
	}
	return nil
}
