package api

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/MichaelLiu22/gallery-gathering/internal/cache"
	"github.com/MichaelLiu22/gallery-gathering/internal/db"
	"github.com/MichaelLiu22/gallery-gathering/internal/feed"
	"github.com/MichaelLiu22/gallery-gathering/internal/gallery"
	"github.com/MichaelLiu22/gallery-gathering/internal/realtime"
	"github.com/MichaelLiu22/gallery-gathering/internal/social"
	"github.com/MichaelLiu22/gallery-gathering/internal/storage"
	"github.com/MichaelLiu22/gallery-gathering/pkg/config"
	"github.com/MichaelLiu22/gallery-gathering/pkg/logging"
)

// Router sets up API routes
type Router struct {
	handler  *JSONRPCHandler
	auth     *Authenticator
	hub      *realtime.Hub
	photoAPI *PhotoAPI
	logger   *zap.Logger
}

// NewRouter creates a new API router wiring the services over the shared
// database, cache, object store and connection hub.
func NewRouter(database *db.DB, redisCache *cache.Cache, store storage.ObjectStore, hub *realtime.Hub, cfg *config.Config) *Router {
	handler := NewJSONRPCHandler()
	router := &Router{
		handler: handler,
		auth:    NewAuthenticator(cfg.Auth.JWTSecret),
		hub:     hub,
		logger:  logging.GetLogger().With(zap.String("component", "api-router")),
	}

	router.registerMethods(database, redisCache, store, hub)

	return router
}

// SetupRoutes sets up all API routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	engine.Use(r.auth.Middleware())

	// Health check endpoints
	engine.GET("/health", r.healthHandler)
	engine.GET("/.well-known/healthcheck.json", r.healthHandler)

	// Multipart upload endpoint; image blobs do not travel over JSON-RPC
	engine.POST("/upload", r.photoAPI.Upload)

	// Real-time notification stream
	if r.hub != nil {
		engine.GET("/ws", r.hub.Handler(r.auth.ValidateToken))
	}

	// JSON-RPC endpoint
	engine.POST("/", r.handler.Handle)
}

// registerMethods registers all API methods
func (r *Router) registerMethods(database *db.DB, redisCache *cache.Cache, store storage.ObjectStore, hub *realtime.Hub) {
	repo := db.NewRepository(database.DB)

	profiles := db.NewProfileRepository(repo)
	photos := db.NewPhotoRepository(repo)
	requests := db.NewFriendRequestRepository(repo)
	friendships := db.NewFriendshipRepository(repo)
	follows := db.NewFollowRepository(repo)
	likes := db.NewLikeRepository(repo)
	ratings := db.NewRatingRepository(repo)
	comments := db.NewCommentRepository(repo)
	notifications := db.NewNotificationRepository(repo)

	var pusher social.Pusher
	if hub != nil {
		pusher = hub
	}
	socialSvc := social.NewService(requests, friendships, follows, profiles, ratings, notifications, redisCache, pusher)
	gallerySvc := gallery.NewService(photos, profiles, likes, ratings, comments, friendships, store, socialSvc, redisCache)
	assembler := feed.NewAssembler(photos, profiles, comments, friendships, follows, nil, redisCache)

	feedAPI := NewFeedAPI(assembler)
	photoAPI := NewPhotoAPI(gallerySvc)
	socialAPI := NewSocialAPI(socialSvc)
	profileAPI := NewProfileAPI(socialSvc)
	notifyAPI := NewNotifyAPI(socialSvc)
	r.photoAPI = photoAPI

	// Feed
	r.handler.RegisterMethod("gallery.get_feed", feedAPI.GetFeed)

	// Photos and engagement
	r.handler.RegisterMethod("gallery.get_photo", photoAPI.GetPhoto)
	r.handler.RegisterMethod("gallery.upload_photo", photoAPI.UploadPhoto)
	r.handler.RegisterMethod("gallery.presign_upload", photoAPI.PresignUpload)
	r.handler.RegisterMethod("gallery.delete_photo", photoAPI.DeletePhoto)
	r.handler.RegisterMethod("gallery.record_view", photoAPI.RecordView)
	r.handler.RegisterMethod("gallery.toggle_like", photoAPI.ToggleLike)
	r.handler.RegisterMethod("gallery.submit_rating", photoAPI.RatePhoto)
	r.handler.RegisterMethod("gallery.delete_rating", photoAPI.DeleteRating)
	r.handler.RegisterMethod("gallery.get_my_rating", photoAPI.GetRating)
	r.handler.RegisterMethod("gallery.get_ratings", photoAPI.GetRatingStats)
	r.handler.RegisterMethod("gallery.add_comment", photoAPI.AddComment)
	r.handler.RegisterMethod("gallery.delete_comment", photoAPI.DeleteComment)
	r.handler.RegisterMethod("gallery.get_comments", photoAPI.ListComments)

	// Friendships and follows
	r.handler.RegisterMethod("gallery.send_friend_request", socialAPI.SendFriendRequest)
	r.handler.RegisterMethod("gallery.respond_friend_request", socialAPI.RespondFriendRequest)
	r.handler.RegisterMethod("gallery.remove_friend", socialAPI.RemoveFriend)
	r.handler.RegisterMethod("gallery.friend_status", socialAPI.GetFriendStatus)
	r.handler.RegisterMethod("gallery.list_friends", socialAPI.ListFriends)
	r.handler.RegisterMethod("gallery.list_friend_requests", socialAPI.ListPendingRequests)
	r.handler.RegisterMethod("gallery.follow", socialAPI.Follow)
	r.handler.RegisterMethod("gallery.unfollow", socialAPI.Unfollow)
	r.handler.RegisterMethod("gallery.list_following", socialAPI.ListFollowing)
	r.handler.RegisterMethod("gallery.list_followers", socialAPI.ListFollowers)
	r.handler.RegisterMethod("gallery.follow_counts", socialAPI.GetFollowCounts)

	// Profiles
	r.handler.RegisterMethod("gallery.get_profile", profileAPI.GetProfile)
	r.handler.RegisterMethod("gallery.create_profile", profileAPI.CreateProfile)
	r.handler.RegisterMethod("gallery.update_profile", profileAPI.UpdateProfile)

	// Notifications
	r.handler.RegisterMethod("gallery.list_notifications", notifyAPI.ListNotifications)
	r.handler.RegisterMethod("gallery.unread_notifications", notifyAPI.UnreadCount)
	r.handler.RegisterMethod("gallery.mark_notifications_read", notifyAPI.MarkRead)
}

// healthHandler handles health check requests
func (r *Router) healthHandler(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":  "OK",
		"service": "gallery-gathering-api",
	})
}
