package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
	"github.com/MichaelLiu22/gallery-gathering/internal/social"
	"github.com/MichaelLiu22/gallery-gathering/pkg/logging"
)

// NotifyAPI provides notification API methods
type NotifyAPI struct {
	svc    *social.Service
	logger *zap.Logger
}

// NewNotifyAPI creates a new notification API
func NewNotifyAPI(svc *social.Service) *NotifyAPI {
	return &NotifyAPI{
		svc:    svc,
		logger: logging.GetLogger().With(zap.String("component", "api-notify")),
	}
}

type listNotificationsParams struct {
	Limit int `json:"limit"`
}

// ListNotifications handles gallery.list_notifications
func (a *NotifyAPI) ListNotifications(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	var p listNotificationsParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, apperr.Validation("invalid parameters")
		}
	}
	return a.svc.ListNotifications(c.Request.Context(), viewer, p.Limit)
}

// UnreadCount handles gallery.unread_notifications
func (a *NotifyAPI) UnreadCount(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	count, err := a.svc.UnreadCount(c.Request.Context(), viewer)
	if err != nil {
		return nil, err
	}
	return gin.H{"unread": count}, nil
}

type markReadParams struct {
	IDs []int64 `json:"ids"`
}

// MarkRead handles gallery.mark_notifications_read
func (a *NotifyAPI) MarkRead(c *gin.Context, params json.RawMessage) (interface{}, error) {
	viewer, err := RequireViewer(c)
	if err != nil {
		return nil, err
	}
	var p markReadParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, apperr.Validation("invalid parameters")
	}
	if err := a.svc.MarkNotificationsRead(c.Request.Context(), viewer, p.IDs); err != nil {
		return nil, err
	}
	return gin.H{"marked": len(p.IDs)}, nil
}
