package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Photo represents an uploaded photo
type Photo struct {
	ID               int64          `gorm:"primaryKey;autoIncrement;column:id"`
	OwnerID          uuid.UUID      `gorm:"type:uuid;not null;index;column:owner_id"`
	Title            string         `gorm:"type:varchar(120);not null;column:title"`
	Description      sql.NullString `gorm:"type:text;column:description"`
	ImageURL         string         `gorm:"type:varchar(1024);not null;column:image_url"`
	CameraEquipment  sql.NullString `gorm:"type:varchar(200);column:camera_equipment"`
	ExposureSettings sql.NullString `gorm:"type:jsonb;column:exposure_settings"`
	Visibility       string         `gorm:"type:varchar(10);not null;default:'public';column:visibility"`
	LikesCount       int64          `gorm:"not null;default:0;column:likes_count"`
	ViewsCount       int64          `gorm:"not null;default:0;column:views_count"`
	CreatedAt        time.Time      `gorm:"not null;column:created_at"`

	// Relationships
	Images []PhotoImage `gorm:"foreignKey:PhotoID;references:ID"`
}

// TableName specifies the table name for Photo
func (Photo) TableName() string {
	return "gallery_photos"
}

// Visibility tiers
const (
	VisibilityPublic  = "public"
	VisibilityFriends = "friends"
	VisibilityPrivate = "private"
)

// ValidVisibility reports whether v is a known visibility tier
func ValidVisibility(v string) bool {
	switch v {
	case VisibilityPublic, VisibilityFriends, VisibilityPrivate:
		return true
	}
	return false
}

// PhotoImage represents one stored image blob of a photo. Position 0 is the
// primary image; the storage key is kept for blob deletion when the photo
// is removed.
type PhotoImage struct {
	PhotoID    int64  `gorm:"primaryKey;column:photo_id"`
	Position   int    `gorm:"primaryKey;column:position"`
	URL        string `gorm:"type:varchar(1024);not null;column:url"`
	StorageKey string `gorm:"type:varchar(512);not null;column:storage_key"`
}

// TableName specifies the table name for PhotoImage
func (PhotoImage) TableName() string {
	return "gallery_photo_images"
}
