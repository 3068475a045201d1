package models

import (
	"time"

	"github.com/google/uuid"
)

// FriendRequest represents an approval-gated request between two users.
// pending is the only non-terminal state; accepted and rejected are terminal
// for the request, though a new request may be created later from rejected.
type FriendRequest struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid();column:id"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null;index;column:sender_id"`
	ReceiverID uuid.UUID `gorm:"type:uuid;not null;index;column:receiver_id"`
	Status     int16     `gorm:"type:smallint;not null;default:1;column:status"`
	CreatedAt  time.Time `gorm:"not null;column:created_at"`
	UpdatedAt  time.Time `gorm:"not null;column:updated_at"`
}

// TableName specifies the table name for FriendRequest
func (FriendRequest) TableName() string {
	return "gallery_friend_requests"
}

// Friend request status constants
const (
	RequestStatusPending  int16 = 1
	RequestStatusAccepted int16 = 2
	RequestStatusRejected int16 = 3
)

// RequestStatusName maps a status constant to its wire name
func RequestStatusName(status int16) string {
	switch status {
	case RequestStatusPending:
		return "pending"
	case RequestStatusAccepted:
		return "accepted"
	case RequestStatusRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// Friendship represents one direction of an accepted friendship. Accepted
// friendships are stored as two mirrored rows so that "friends of X" is a
// single one-sided query and both sides expose the other consistently.
type Friendship struct {
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id"`
	FriendID  uuid.UUID `gorm:"type:uuid;primaryKey;column:friend_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Friendship
func (Friendship) TableName() string {
	return "gallery_friendships"
}

// Friend status derivation for a viewer-subject pair, in priority order
const (
	FriendStatusSelf     = "self"
	FriendStatusFriend   = "friend"
	FriendStatusPending  = "pending"
	FriendStatusReceived = "received"
	FriendStatusNone     = "none"
)
