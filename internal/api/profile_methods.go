package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
	"github.com/MichaelLiu22/gallery-gathering/internal/social"
	"github.com/MichaelLiu22/gallery-gathering/pkg/logging"
)

// ProfileAPI provides profile API methods
type ProfileAPI struct {
	svc    *social.Service
	logger *zap.Logger
}

// NewProfileAPI creates a new profile API
func NewProfileAPI(svc *social.Service) *ProfileAPI {
	return &ProfileAPI{
		svc:    svc,
		logger: logging.GetLogger().With(zap.String("component", "api-profile")),
	}
}

// GetProfile handles gallery.get_profile
func (a *ProfileAPI) GetProfile(c *gin.Context, params json.RawMessage) (interface{}, error) {
	userID, err := parseUserID(params)
	if err != nil {
		return nil, err
	}
	return a.svc.GetProfile(c.Request.Context(), Viewer(c), userID)
}

// CreateProfile handles gallery.create_profile
func (a *ProfileAPI) CreateProfile(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	var input social.ProfileInput
	if err := json.Unmarshal(params, &input); err != nil {
		return nil, apperr.Validation("invalid parameters")
	}
	return a.svc.CreateProfile(c.Request.Context(), viewer, input)
}

// UpdateProfile handles gallery.update_profile
func (a *ProfileAPI) UpdateProfile(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	var input social.ProfileInput
	if err := json.Unmarshal(params, &input); err != nil {
		return nil, apperr.Validation("invalid parameters")
	}
	return a.svc.UpdateProfile(c.Request.Context(), viewer, input)
}
