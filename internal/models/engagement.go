package models

import (
	"time"

	"github.com/google/uuid"
)

// Like represents a like edge; presence means liked. At most one row per
// (photo, user), enforced by the composite primary key.
type Like struct {
	PhotoID   int64     `gorm:"primaryKey;column:photo_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;column:user_id"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Like
func (Like) TableName() string {
	return "gallery_photo_likes"
}

// Rating represents one user's rating of a photo: three sub-scores in [0,10]
// and their mean, recomputed server-side at write time. One row per
// (photo, user); resubmission upserts.
type Rating struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid();column:id"`
	PhotoID           int64     `gorm:"not null;uniqueIndex:gallery_ratings_ux1;column:photo_id"`
	UserID            uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:gallery_ratings_ux1;column:user_id"`
	CompositionScore  int16     `gorm:"type:smallint;not null;column:composition_score"`
	StorytellingScore int16     `gorm:"type:smallint;not null;column:storytelling_score"`
	TechniqueScore    int16     `gorm:"type:smallint;not null;column:technique_score"`
	AverageScore      float64   `gorm:"type:decimal(4,2);not null;column:average_score"`
	CreatedAt         time.Time `gorm:"not null;column:created_at"`
	UpdatedAt         time.Time `gorm:"not null;column:updated_at"`
}

// TableName specifies the table name for Rating
func (Rating) TableName() string {
	return "gallery_photo_ratings"
}

// Rating score bounds
const (
	RatingScoreMin int16 = 0
	RatingScoreMax int16 = 10
)

// Comment represents a comment on a photo. Comments form a forest rooted at
// top-level comments (nil parent); deleting a comment never deletes its
// children, which remain under the same photo.
type Comment struct {
	ID        uuid.UUID     `gorm:"type:uuid;primaryKey;default:gen_random_uuid();column:id"`
	PhotoID   int64         `gorm:"not null;index;column:photo_id"`
	UserID    uuid.UUID     `gorm:"type:uuid;not null;column:user_id"`
	ParentID  uuid.NullUUID `gorm:"type:uuid;column:parent_id"`
	Content   string        `gorm:"type:text;not null;column:content"`
	CreatedAt time.Time     `gorm:"not null;column:created_at"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "gallery_photo_comments"
}
