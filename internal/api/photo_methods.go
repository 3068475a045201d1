package api

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
	"github.com/MichaelLiu22/gallery-gathering/internal/gallery"
	"github.com/MichaelLiu22/gallery-gathering/pkg/logging"
)

// PhotoAPI provides photo and engagement API methods
type PhotoAPI struct {
	svc    *gallery.Service
	logger *zap.Logger
}

// NewPhotoAPI creates a new photo API
func NewPhotoAPI(svc *gallery.Service) *PhotoAPI {
	return &PhotoAPI{
		svc:    svc,
		logger: logging.GetLogger().With(zap.String("component", "api-photo")),
	}
}

type photoIDParams struct {
	PhotoID int64 `json:"photo_id"`
}

func parsePhotoID(params json.RawMessage) (int64, error) {
	var p photoIDParams
	if err := json.Unmarshal(params, &p); err != nil {
		return 0, apperr.Validation("invalid parameters")
	}
	if p.PhotoID <= 0 {
		return 0, apperr.Validation("photo_id is required")
	}
	return p.PhotoID, nil
}

// GetPhoto handles gallery.get_photo
func (a *PhotoAPI) GetPhoto(c *gin.Context, params json.RawMessage) (interface{}, error) {
	photoID, err := parsePhotoID(params)
	if err != nil {
		return nil, err
	}
	return a.svc.Get(c.Request.Context(), Viewer(c), photoID)
}

// DeletePhoto handles gallery.delete_photo
func (a *PhotoAPI) DeletePhoto(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	photoID, err := parsePhotoID(params)
	if err != nil {
		return nil, err
	}
	if err := a.svc.Delete(c.Request.Context(), viewer, photoID); err != nil {
		return nil, err
	}
	return gin.H{"deleted": true}, nil
}

// RecordView handles gallery.record_view
func (a *PhotoAPI) RecordView(c *gin.Context, params json.RawMessage) (interface{}, error) {
	photoID, err := parsePhotoID(params)
	if err != nil {
		return nil, err
	}
	if err := a.svc.RecordView(c.Request.Context(), Viewer(c), photoID); err != nil {
		return nil, err
	}
	return gin.H{"recorded": true}, nil
}

// ToggleLike handles gallery.toggle_like
func (a *PhotoAPI) ToggleLike(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	photoID, err := parsePhotoID(params)
	if err != nil {
		return nil, err
	}
	return a.svc.ToggleLike(c.Request.Context(), viewer, photoID)
}

type rateParams struct {
	PhotoID      int64 `json:"photo_id"`
	Composition  int16 `json:"composition"`
	Storytelling int16 `json:"storytelling"`
	Technique    int16 `json:"technique"`
}

// RatePhoto handles gallery.submit_rating
func (a *PhotoAPI) RatePhoto(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	var p rateParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, apperr.Validation("invalid parameters")
	}
	if p.PhotoID <= 0 {
		return nil, apperr.Validation("photo_id is required")
	}
	return a.svc.Rate(c.Request.Context(), viewer, p.PhotoID, gallery.RateRequest{
		Composition:  p.Composition,
		Storytelling: p.Storytelling,
		Technique:    p.Technique,
	})
}

// DeleteRating handles gallery.delete_rating
func (a *PhotoAPI) DeleteRating(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	photoID, err := parsePhotoID(params)
	if err != nil {
		return nil, err
	}
	if err := a.svc.DeleteRating(c.Request.Context(), viewer, photoID); err != nil {
		return nil, err
	}
	return gin.H{"deleted": true}, nil
}

// GetRating handles gallery.get_my_rating
func (a *PhotoAPI) GetRating(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	photoID, err := parsePhotoID(params)
	if err != nil {
		return nil, err
	}
	return a.svc.GetRating(c.Request.Context(), viewer, photoID)
}

// GetRatingStats handles gallery.get_ratings
func (a *PhotoAPI) GetRatingStats(c *gin.Context, params json.RawMessage) (interface{}, error) {
	photoID, err := parsePhotoID(params)
	if err != nil {
		return nil, err
	}
	return a.svc.RatingStats(c.Request.Context(), Viewer(c), photoID)
}

type addCommentParams struct {
	PhotoID  int64   `json:"photo_id"`
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id"`
}

// AddComment handles gallery.add_comment
func (a *PhotoAPI) AddComment(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	var p addCommentParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, apperr.Validation("invalid parameters")
	}
	if p.PhotoID <= 0 {
		return nil, apperr.Validation("photo_id is required")
	}
	var parentID *uuid.UUID
	if p.ParentID != nil && *p.ParentID != "" {
		id, err := uuid.Parse(*p.ParentID)
		if err != nil {
			return nil, apperr.Validation("invalid parent_id")
		}
		parentID = &id
	}
	return a.svc.AddComment(c.Request.Context(), viewer, p.PhotoID, p.Content, parentID)
}

type deleteCommentParams struct {
	CommentID string `json:"comment_id"`
}

// DeleteComment handles gallery.delete_comment
func (a *PhotoAPI) DeleteComment(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	var p deleteCommentParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, apperr.Validation("invalid parameters")
	}
	commentID, err := uuid.Parse(p.CommentID)
	if err != nil {
		return nil, apperr.Validation("invalid comment_id")
	}
	if err := a.svc.DeleteComment(c.Request.Context(), viewer, commentID); err != nil {
		return nil, err
	}
	return gin.H{"deleted": true}, nil
}

// ListComments handles gallery.get_comments
func (a *PhotoAPI) ListComments(c *gin.Context, params json.RawMessage) (interface{}, error) {
	photoID, err := parsePhotoID(params)
	if err != nil {
		return nil, err
	}
	return a.svc.ListComments(c.Request.Context(), Viewer(c), photoID)
}

// Upload handles multipart photo uploads on POST /upload. Image blobs do
// not fit JSON-RPC, so uploads keep a plain HTTP endpoint.
type presignUploadParams struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// PresignUpload handles gallery.presign_upload
func (a *PhotoAPI) PresignUpload(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	var p presignUploadParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, apperr.Validation("invalid parameters")
	}
	return a.svc.PresignUpload(c.Request.Context(), viewer, p.Filename, p.ContentType)
}

type uploadImageParams struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        string `json:"data"`
}

type uploadPhotoParams struct {
	Title           string              `json:"title"`
	Description     string              `json:"description"`
	CameraEquipment string              `json:"camera_equipment"`
	Visibility      string              `json:"visibility"`
	Images          []uploadImageParams `json:"images"`
}

// UploadPhoto handles gallery.upload_photo. Image payloads are
// base64-encoded; large uploads should use the multipart /upload
// endpoint instead.
func (a *PhotoAPI) UploadPhoto(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	var p uploadPhotoParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, apperr.Validation("invalid parameters")
	}

	req := &gallery.UploadRequest{
		Owner:           viewer,
		Title:           p.Title,
		Description:     p.Description,
		CameraEquipment: p.CameraEquipment,
		Visibility:      p.Visibility,
	}
	for _, img := range p.Images {
		data, err := base64.StdEncoding.DecodeString(img.Data)
		if err != nil {
			return nil, apperr.Validation("image data must be base64 encoded")
		}
		req.Images = append(req.Images, gallery.UploadImage{
			Filename:    img.Filename,
			ContentType: img.ContentType,
			Data:        data,
		})
	}

	return a.svc.Upload(c.Request.Context(), req)
}

func (a *PhotoAPI) Upload(c *gin.Context) {
	viewer := Viewer(c)
	if viewer == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	req := &gallery.UploadRequest{
		Owner:           *viewer,
		Title:           c.PostForm("title"),
		Description:     c.PostForm("description"),
		CameraEquipment: c.PostForm("camera_equipment"),
		Visibility:      c.PostForm("visibility"),
	}

	for _, fh := range form.File["images"] {
		file, err := fh.Open()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
			return
		}
		data, err := io.ReadAll(io.LimitReader(file, gallery.MaxImageBytes+1))
		file.Close()
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image"})
			return
		}
		req.Images = append(req.Images, gallery.UploadImage{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	photo, err := a.svc.Upload(c.Request.Context(), req)
	if err != nil {
		status := http.StatusInternalServerError
		switch apperr.KindOf(err) {
		case apperr.KindValidation:
			status = http.StatusBadRequest
		case apperr.KindUpstream:
			status = http.StatusBadGateway
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, photo)
}
