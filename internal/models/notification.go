package models

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Notification represents a derived event surfaced to a user
type Notification struct {
	ID          int64         `gorm:"primaryKey;autoIncrement;column:id"`
	RecipientID uuid.UUID     `gorm:"type:uuid;not null;index;column:recipient_id"`
	Type        int16         `gorm:"type:smallint;not null;column:type_id"`
	ActorID     uuid.NullUUID `gorm:"type:uuid;column:actor_id"`
	PhotoID     sql.NullInt64 `gorm:"column:photo_id"`
	RequestID   uuid.NullUUID `gorm:"type:uuid;column:request_id"`
	IsRead      bool          `gorm:"not null;default:false;column:is_read"`
	CreatedAt   time.Time     `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "gallery_notifications"
}

// Notification type constants
const (
	NotifyTypeComment       int16 = 1
	NotifyTypeLike          int16 = 2
	NotifyTypeFriendRequest int16 = 3
	NotifyTypeFriendPost    int16 = 4
)

// NotifyTypeName maps a type constant to its wire name
func NotifyTypeName(typeID int16) string {
	switch typeID {
	case NotifyTypeComment:
		return "comment"
	case NotifyTypeLike:
		return "like"
	case NotifyTypeFriendRequest:
		return "friend_request"
	case NotifyTypeFriendPost:
		return "friend_post"
	default:
		return "unknown"
	}
}

// RelatedID renders the id a client should navigate to for this notification:
// the photo id for photo-scoped events, the request id for friend requests.
func (n *Notification) RelatedID() string {
	switch n.Type {
	case NotifyTypeFriendRequest:
		if n.RequestID.Valid {
			return n.RequestID.UUID.String()
		}
	default:
		if n.PhotoID.Valid {
			return strconv.FormatInt(n.PhotoID.Int64, 10)
		}
	}
	return ""
}
