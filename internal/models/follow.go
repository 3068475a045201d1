package models

import (
	"time"

	"github.com/google/uuid"
)

// Follow represents a one-directional follow edge, independent of friendship.
// Used only for feed prioritization, never for access control.
type Follow struct {
	FollowerID  uuid.UUID `gorm:"type:uuid;primaryKey;column:follower_id"`
	FollowingID uuid.UUID `gorm:"type:uuid;primaryKey;column:following_id"`
	CreatedAt   time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Follow
func (Follow) TableName() string {
	return "gallery_follows"
}
