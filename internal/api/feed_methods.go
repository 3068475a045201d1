package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
	"github.com/MichaelLiu22/gallery-gathering/internal/feed"
	"github.com/MichaelLiu22/gallery-gathering/pkg/logging"
)

// FeedAPI provides feed-related API methods
type FeedAPI struct {
	assembler *feed.Assembler
	logger    *zap.Logger
}

// NewFeedAPI creates a new feed API
func NewFeedAPI(assembler *feed.Assembler) *FeedAPI {
	return &FeedAPI{
		assembler: assembler,
		logger:    logging.GetLogger().With(zap.String("component", "api-feed")),
	}
}

type getFeedParams struct {
	Sort     string `json:"sort"`
	Filter   string `json:"filter"`
	Page     int    `json:"page"`
	PageSize int    `json:"page_size"`
}

// GetFeed handles gallery.get_feed
func (f *FeedAPI) GetFeed(c *gin.Context, params json.RawMessage) (interface{}, error) {
	var p getFeedParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, apperr.Validation("invalid parameters")
		}
	}

	return f.assembler.GetFeed(c.Request.Context(), feed.Request{
		Viewer:   Viewer(c),
		Sort:     feed.SortOrder(p.Sort),
		Filter:   feed.Filter(p.Filter),
		Page:     p.Page,
		PageSize: p.PageSize,
	})
}
