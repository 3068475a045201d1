package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Profile represents a user profile. The user id is issued by the external
// identity provider; a profile row is created lazily after signup.
type Profile struct {
	UserID         uuid.UUID      `gorm:"type:uuid;primaryKey;column:user_id"`
	DisplayName    string         `gorm:"type:varchar(30);not null;uniqueIndex:gallery_profiles_ux1;column:display_name"`
	AvatarURL      sql.NullString `gorm:"type:varchar(1024);column:avatar_url"`
	Bio            sql.NullString `gorm:"type:varchar(160);column:bio"`
	FavoriteCamera sql.NullString `gorm:"type:varchar(100);column:favorite_camera"`
	CreatedAt      time.Time      `gorm:"not null;column:created_at"`
	UpdatedAt      time.Time      `gorm:"not null;column:updated_at"`
}

// TableName specifies the table name for Profile
func (Profile) TableName() string {
	return "gallery_profiles"
}

// Display name constraints enforced at write time
const (
	DisplayNameMinLen = 2
	DisplayNameMaxLen = 30
)
