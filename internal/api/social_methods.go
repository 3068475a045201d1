package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
	"github.com/MichaelLiu22/gallery-gathering/internal/social"
	"github.com/MichaelLiu22/gallery-gathering/pkg/logging"
)

// SocialAPI provides friendship and follow API methods
type SocialAPI struct {
	svc    *social.Service
	logger *zap.Logger
}

// NewSocialAPI creates a new social API
func NewSocialAPI(svc *social.Service) *SocialAPI {
	return &SocialAPI{
		svc:    svc,
		logger: logging.GetLogger().With(zap.String("component", "api-social")),
	}
}

type userIDParams struct {
	UserID string `json:"user_id"`
}

func parseUserID(params json.RawMessage) (uuid.UUID, error) {
	var p userIDParams
	if err := json.Unmarshal(params, &p); err != nil {
		return uuid.Nil, apperr.Validation("invalid parameters")
	}
	id, err := uuid.Parse(p.UserID)
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid user_id")
	}
	return id, nil
}

// SendFriendRequest handles gallery.send_friend_request
func (a *SocialAPI) SendFriendRequest(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	receiver, err := parseUserID(params)
	if err != nil {
		return nil, err
	}
	return a.svc.SendRequest(c.Request.Context(), viewer, receiver)
}

type respondRequestParams struct {
	RequestID string `json:"request_id"`
	Accept    bool   `json:"accept"`
}

// RespondFriendRequest handles gallery.respond_friend_request
func (a *SocialAPI) RespondFriendRequest(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	var p respondRequestParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, apperr.Validation("invalid parameters")
	}
	requestID, err := uuid.Parse(p.RequestID)
	if err != nil {
		return nil, apperr.Validation("invalid request_id")
	}
	if err := a.svc.RespondRequest(c.Request.Context(), requestID, viewer, p.Accept); err != nil {
		return nil, err
	}
	return gin.H{"responded": true}, nil
}

// RemoveFriend handles gallery.remove_friend
func (a *SocialAPI) RemoveFriend(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	friendID, err := parseUserID(params)
	if err != nil {
		return nil, err
	}
	if err := a.svc.RemoveFriend(c.Request.Context(), viewer, friendID); err != nil {
		return nil, err
	}
	return gin.H{"removed": true}, nil
}

// GetFriendStatus handles gallery.friend_status
func (a *SocialAPI) GetFriendStatus(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	other, err := parseUserID(params)
	if err != nil {
		return nil, err
	}
	status, err := a.svc.FriendStatus(c.Request.Context(), viewer, other)
	if err != nil {
		return nil, err
	}
	return gin.H{"status": status}, nil
}

// ListFriends handles gallery.list_friends
func (a *SocialAPI) ListFriends(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	return a.svc.ListFriends(c.Request.Context(), viewer)
}

// ListPendingRequests handles gallery.list_friend_requests
func (a *SocialAPI) ListPendingRequests(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	return a.svc.ListPendingRequests(c.Request.Context(), viewer)
}

// Follow handles gallery.follow
func (a *SocialAPI) Follow(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	target, err := parseUserID(params)
	if err != nil {
		return nil, err
	}
	if err := a.svc.Follow(c.Request.Context(), viewer, target); err != nil {
		return nil, err
	}
	return gin.H{"following": true}, nil
}

// Unfollow handles gallery.unfollow
func (a *SocialAPI) Unfollow(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	target, err := parseUserID(params)
	if err != nil {
		return nil, err
	}
	if err := a.svc.Unfollow(c.Request.Context(), viewer, target); err != nil {
		return nil, err
	}
	return gin.H{"following": false}, nil
}

// ListFollowing handles gallery.list_following
func (a *SocialAPI) ListFollowing(c *gin.Context, params json.RawMessage) (interface{}, error) {
	userID, err := parseUserID(params)
	if err != nil {
		return nil, err
	}
	return a.svc.Following(c.Request.Context(), userID)
}

// ListFollowers handles gallery.list_followers
func (a *SocialAPI) ListFollowers(c *gin.Context, params json.RawMessage) (interface{}, error) {
	userID, err := parseUserID(params)
	if err != nil {
		return nil, err
	}
	return a.svc.Followers(c.Request.Context(), userID)
}

// GetFollowCounts handles gallery.follow_counts
func (a *SocialAPI) GetFollowCounts(c *gin.Context, params json.RawMessage) (interface{}, error) {
	userID, err := parseUserID(params)
	if err != nil {
		return nil, err
	}
	return a.svc.Counts(c.Request.Context(), userID)
}
