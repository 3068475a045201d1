package social

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

// FriendSummary is one entry of a friend or follow listing. PhotoScore and
// Online are only populated for friend listings.
type FriendSummary struct {
	UserID      uuid.UUID `json:"user_id"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	PhotoScore  float64   `json:"photo_score,omitempty"`
	Online      bool      `json:"online"`
}

// PendingRequest is one incoming friend request awaiting a response
type PendingRequest struct {
	ID              uuid.UUID `json:"id"`
	SenderID        uuid.UUID `json:"sender_id"`
	SenderName      string    `json:"sender_name"`
	SenderAvatarURL string    `json:"sender_avatar_url,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// SendRequest creates a pending friend request from sender to receiver.
// Self-requests, requests between existing friends and duplicate pending
// requests in either direction are conflicts.
func (s *Service) SendRequest(ctx context.Context, sender, receiver uuid.UUID) (*models.FriendRequest, error) {
	if sender == receiver {
		return nil, apperr.Conflict("cannot send a friend request to yourself")
	}

	receiverProfile, err := s.profiles.GetByUserID(ctx, receiver)
	if err != nil {
		return nil, apperr.Upstream("failed to load receiver profile", err)
	}
	if receiverProfile == nil {
		return nil, apperr.NotFound("user not found")
	}

	alreadyFriends, err := s.friendships.Exists(ctx, sender, receiver)
	if err != nil {
		return nil, apperr.Upstream("failed to check friendship", err)
	}
	if alreadyFriends {
		return nil, apperr.Conflict("already friends")
	}

	pending, err := s.requests.PendingBetween(ctx, sender, receiver)
	if err != nil {
		return nil, apperr.Upstream("failed to check pending requests", err)
	}
	if pending != nil {
		if pending.SenderID == sender {
			return nil, apperr.Conflict("friend request already sent")
		}
		return nil, apperr.Conflict("this user already sent you a friend request")
	}

	req := &models.FriendRequest{
		SenderID:   sender,
		ReceiverID: receiver,
		Status:     models.RequestStatusPending,
	}
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, apperr.Upstream("failed to create friend request", err)
	}

	s.notifyFriendRequest(ctx, req)
	s.logger.Info("friend request sent",
		zap.String("sender", sender.String()),
		zap.String("receiver", receiver.String()))
	return req, nil
}

// RespondRequest accepts or rejects a pending request. Only the receiver may
// respond. Accepting creates the mirrored friendship rows; responding to an
// already resolved request reports its current state as a conflict.
func (s *Service) RespondRequest(ctx context.Context, requestID, responder uuid.UUID, accept bool) error {
	req, err := s.requests.GetByID(ctx, requestID)
	if err != nil {
		return apperr.Upstream("failed to load friend request", err)
	}
	if req == nil {
		return apperr.NotFound("friend request not found")
	}
	if req.ReceiverID != responder {
		return apperr.NotAuthorized("only the receiver can respond to a friend request")
	}
	if req.Status != models.RequestStatusPending {
		return apperr.Conflict("friend request already " + models.RequestStatusName(req.Status))
	}

	status := models.RequestStatusRejected
	if accept {
		status = models.RequestStatusAccepted
		// Status update and the mirrored friendship rows commit together
		if err := s.requests.Accept(ctx, requestID, req.SenderID, req.ReceiverID); err != nil {
			return apperr.Upstream("failed to accept friend request", err)
		}
		s.invalidateFeeds()
		s.push(req.SenderID, "friend_request_accepted", map[string]string{
			"request_id": requestID.String(),
			"user_id":    responder.String(),
		})
	} else {
		if err := s.requests.UpdateStatus(ctx, requestID, status); err != nil {
			return apperr.Upstream("failed to update friend request", err)
		}
	}

	s.logger.Info("friend request resolved",
		zap.String("request_id", requestID.String()),
		zap.String("status", models.RequestStatusName(status)))
	return nil
}

// RemoveFriend deletes both friendship rows between the two users
func (s *Service) RemoveFriend(ctx context.Context, userID, friendID uuid.UUID) error {
	exists, err := s.friendships.Exists(ctx, userID, friendID)
	if err != nil {
		return apperr.Upstream("failed to check friendship", err)
	}
	if !exists {
		return apperr.NotFound("friendship not found")
	}
	if err := s.friendships.DeletePair(ctx, userID, friendID); err != nil {
		return apperr.Upstream("failed to remove friendship", err)
	}
	s.invalidateFeeds()
	return nil
}

// FriendStatus reports the relationship between viewer and other as one of
// self, friend, pending, received or none.
func (s *Service) FriendStatus(ctx context.Context, viewer, other uuid.UUID) (string, error) {
	if viewer == other {
		return models.FriendStatusSelf, nil
	}
	friends, err := s.friendships.Exists(ctx, viewer, other)
	if err != nil {
		return "", apperr.Upstream("failed to check friendship", err)
	}
	if friends {
		return models.FriendStatusFriend, nil
	}
	pending, err := s.requests.PendingBetween(ctx, viewer, other)
	if err != nil {
		return "", apperr.Upstream("failed to check pending requests", err)
	}
	return derivePendingStatus(pending, viewer), nil
}

// derivePendingStatus maps a pending request, if any, to the viewer's side
// of it. pending is nil when no pending request exists in either direction.
func derivePendingStatus(pending *models.FriendRequest, viewer uuid.UUID) string {
	switch {
	case pending == nil:
		return models.FriendStatusNone
	case pending.SenderID == viewer:
		return models.FriendStatusPending
	default:
		return models.FriendStatusReceived
	}
}

// ListFriends returns the user's friends with their profile fields,
// accumulated photo score and current presence.
func (s *Service) ListFriends(ctx context.Context, userID uuid.UUID) ([]FriendSummary, error) {
	friendIDs, err := s.friendships.FriendIDs(ctx, userID)
	if err != nil {
		return nil, apperr.Upstream("failed to load friend list", err)
	}
	if len(friendIDs) == 0 {
		return []FriendSummary{}, nil
	}

	profiles, err := s.profiles.GetByUserIDs(ctx, friendIDs)
	if err != nil {
		return nil, apperr.Upstream("failed to load friend profiles", err)
	}

	out := make([]FriendSummary, 0, len(friendIDs))
	for _, id := range friendIDs {
		summary := FriendSummary{UserID: id}
		if p := profiles[id]; p != nil {
			summary.DisplayName = p.DisplayName
			if p.AvatarURL.Valid {
				summary.AvatarURL = p.AvatarURL.String
			}
		}
		score, err := s.ratings.UserPhotoScore(ctx, id)
		if err != nil {
			return nil, apperr.Upstream("failed to compute photo score", err)
		}
		summary.PhotoScore = score
		summary.Online = s.online(id)
		out = append(out, summary)
	}
	return out, nil
}

// ListPendingRequests returns the requests waiting on the user's response
func (s *Service) ListPendingRequests(ctx context.Context, userID uuid.UUID) ([]PendingRequest, error) {
	reqs, err := s.requests.ListPendingFor(ctx, userID)
	if err != nil {
		return nil, apperr.Upstream("failed to load pending requests", err)
	}
	if len(reqs) == 0 {
		return []PendingRequest{}, nil
	}

	senderIDs := make([]uuid.UUID, len(reqs))
	for i, r := range reqs {
		senderIDs[i] = r.SenderID
	}
	profiles, err := s.profiles.GetByUserIDs(ctx, senderIDs)
	if err != nil {
		return nil, apperr.Upstream("failed to load sender profiles", err)
	}

	out := make([]PendingRequest, len(reqs))
	for i, r := range reqs {
		out[i] = PendingRequest{ID: r.ID, SenderID: r.SenderID, CreatedAt: r.CreatedAt}
		if p := profiles[r.SenderID]; p != nil {
			out[i].SenderName = p.DisplayName
			if p.AvatarURL.Valid {
				out[i].SenderAvatarURL = p.AvatarURL.String
			}
		}
	}
	return out, nil
}
