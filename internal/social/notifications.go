package social

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

// DefaultNotificationLimit caps one notification listing
const DefaultNotificationLimit = 50

// NotificationView is one notification rendered for a client
type NotificationView struct {
	ID        int64     `json:"id"`
	Type      string    `json:"type"`
	ActorID   string    `json:"actor_id,omitempty"`
	ActorName string    `json:"actor_name,omitempty"`
	RelatedID string    `json:"related_id,omitempty"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// notifyFriendRequest records a friend_request notification for the
// receiver. Notification failures are logged, never surfaced; the triggering
// operation already succeeded.
func (s *Service) notifyFriendRequest(ctx context.Context, req *models.FriendRequest) {
	n := &models.Notification{
		RecipientID: req.ReceiverID,
		Type:        models.NotifyTypeFriendRequest,
		ActorID:     uuid.NullUUID{UUID: req.SenderID, Valid: true},
		RequestID:   uuid.NullUUID{UUID: req.ID, Valid: true},
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.logger.Warn("failed to record friend request notification", zap.Error(err))
		return
	}
	s.push(req.ReceiverID, "notification", map[string]string{"type": models.NotifyTypeName(n.Type)})
}

// NotifyComment records a comment notification for the photo owner, unless
// the commenter owns the photo.
func (s *Service) NotifyComment(ctx context.Context, owner, actor uuid.UUID, photoID int64) {
	if owner == actor {
		return
	}
	s.notifyEngagement(ctx, owner, actor, photoID, models.NotifyTypeComment)
}

// NotifyLike records a like notification for the photo owner, unless the
// liker owns the photo.
func (s *Service) NotifyLike(ctx context.Context, owner, actor uuid.UUID, photoID int64) {
	if owner == actor {
		return
	}
	s.notifyEngagement(ctx, owner, actor, photoID, models.NotifyTypeLike)
}

func (s *Service) notifyEngagement(ctx context.Context, recipient, actor uuid.UUID, photoID int64, typ int16) {
	n := &models.Notification{
		RecipientID: recipient,
		Type:        typ,
		ActorID:     uuid.NullUUID{UUID: actor, Valid: true},
		PhotoID:     sql.NullInt64{Int64: photoID, Valid: true},
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		s.logger.Warn("failed to record notification",
			zap.String("type", models.NotifyTypeName(typ)), zap.Error(err))
		return
	}
	s.push(recipient, "notification", map[string]string{"type": models.NotifyTypeName(typ)})
}

// NotifyFriendPost fans a friend_post notification out to every friend of
// the poster after an upload.
func (s *Service) NotifyFriendPost(ctx context.Context, poster uuid.UUID, photoID int64) {
	friendIDs, err := s.friendships.FriendIDs(ctx, poster)
	if err != nil {
		s.logger.Warn("failed to load friends for post notification", zap.Error(err))
		return
	}
	if len(friendIDs) == 0 {
		return
	}

	batch := make([]*models.Notification, len(friendIDs))
	for i, id := range friendIDs {
		batch[i] = &models.Notification{
			RecipientID: id,
			Type:        models.NotifyTypeFriendPost,
			ActorID:     uuid.NullUUID{UUID: poster, Valid: true},
			PhotoID:     sql.NullInt64{Int64: photoID, Valid: true},
		}
	}
	if err := s.notifications.CreateBatch(ctx, batch); err != nil {
		s.logger.Warn("failed to record friend post notifications", zap.Error(err))
		return
	}
	for _, id := range friendIDs {
		s.push(id, "notification", map[string]string{"type": models.NotifyTypeName(models.NotifyTypeFriendPost)})
	}
}

// ListNotifications returns the user's latest notifications with actor names
// resolved.
func (s *Service) ListNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]NotificationView, error) {
	if limit < 1 || limit > DefaultNotificationLimit {
		limit = DefaultNotificationLimit
	}
	ns, err := s.notifications.ListByRecipient(ctx, userID, limit)
	if err != nil {
		return nil, apperr.Upstream("failed to load notifications", err)
	}
	if len(ns) == 0 {
		return []NotificationView{}, nil
	}

	actorIDs := make([]uuid.UUID, 0, len(ns))
	seen := make(map[uuid.UUID]bool, len(ns))
	for _, n := range ns {
		if n.ActorID.Valid && !seen[n.ActorID.UUID] {
			seen[n.ActorID.UUID] = true
			actorIDs = append(actorIDs, n.ActorID.UUID)
		}
	}
	profiles, err := s.profiles.GetByUserIDs(ctx, actorIDs)
	if err != nil {
		return nil, apperr.Upstream("failed to load actor profiles", err)
	}

	out := make([]NotificationView, len(ns))
	for i, n := range ns {
		view := NotificationView{
			ID:        n.ID,
			Type:      models.NotifyTypeName(n.Type),
			RelatedID: n.RelatedID(),
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}
		if n.ActorID.Valid {
			view.ActorID = n.ActorID.UUID.String()
			if p := profiles[n.ActorID.UUID]; p != nil {
				view.ActorName = p.DisplayName
			}
		}
		out[i] = view
	}
	return out, nil
}

// UnreadCount returns the number of unread notifications for userID
func (s *Service) UnreadCount(ctx context.Context, userID uuid.UUID) (int64, error) {
	count, err := s.notifications.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperr.Upstream("failed to count unread notifications", err)
	}
	return count, nil
}

// MarkNotificationsRead marks the given notifications read. Only the
// recipient's own rows are affected; foreign ids are silently skipped.
func (s *Service) MarkNotificationsRead(ctx context.Context, userID uuid.UUID, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.notifications.MarkRead(ctx, userID, ids); err != nil {
		return apperr.Upstream("failed to mark notifications read", err)
	}
	return nil
}
