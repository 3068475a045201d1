package gallery

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

// MaxCommentLen caps comment content length
const MaxCommentLen = 2000

// CommentView is one comment rendered with its author and replies
type CommentView struct {
	ID         uuid.UUID      `json:"id"`
	UserID     uuid.UUID      `json:"user_id"`
	AuthorName string         `json:"author_name"`
	Content    string         `json:"content"`
	CreatedAt  time.Time      `json:"created_at"`
	Replies    []*CommentView `json:"replies"`
}

// AddComment posts a comment on the photo. A reply's parent must be a
// comment on the same photo.
func (s *Service) AddComment(ctx context.Context, user uuid.UUID, photoID int64, content string, parentID *uuid.UUID) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperr.Validation("comment content is required")
	}
	if len(content) > MaxCommentLen {
		return nil, apperr.Validation(fmt.Sprintf("comment exceeds %d characters", MaxCommentLen))
	}

	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return nil, apperr.Upstream("failed to load photo", err)
	}
	if photo == nil {
		return nil, apperr.NotFound("photo not found")
	}
	visible, err := s.canView(ctx, &user, photo.OwnerID, photo.Visibility)
	if err != nil {
		return nil, apperr.Upstream("failed to check visibility", err)
	}
	if !visible {
		return nil, apperr.NotFound("photo not found")
	}

	comment := &models.Comment{
		PhotoID: photoID,
		UserID:  user,
		Content: content,
	}
	if parentID != nil {
		parent, err := s.comments.GetByID(ctx, *parentID)
		if err != nil {
			return nil, apperr.Upstream("failed to load parent comment", err)
		}
		if parent == nil || parent.PhotoID != photoID {
			return nil, apperr.Validation("parent comment must belong to the same photo")
		}
		comment.ParentID = uuid.NullUUID{UUID: *parentID, Valid: true}
	}

	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, apperr.Upstream("failed to create comment", err)
	}
	// Cached feed pages carry comment counts and the comments sort order
	s.invalidateFeeds()

	if s.notifier != nil {
		s.notifier.NotifyComment(ctx, photo.OwnerID, user, photoID)
	}
	return comment, nil
}

// DeleteComment removes the author's own comment. Replies stay, still
// attached to the photo; callers render them as orphaned top-level comments.
func (s *Service) DeleteComment(ctx context.Context, actor uuid.UUID, commentID uuid.UUID) error {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return apperr.Upstream("failed to load comment", err)
	}
	if comment == nil {
		return apperr.NotFound("comment not found")
	}
	if comment.UserID != actor {
		return apperr.NotAuthorized("only the author can delete a comment")
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return apperr.Upstream("failed to delete comment", err)
	}
	s.invalidateFeeds()
	return nil
}

// ListComments returns the photo's comments as a reply tree
func (s *Service) ListComments(ctx context.Context, viewer *uuid.UUID, photoID int64) ([]*CommentView, error) {
	photo, err := s.photos.GetByID(ctx, photoID)
	if err != nil {
		return nil, apperr.Upstream("failed to load photo", err)
	}
	if photo == nil {
		return nil, apperr.NotFound("photo not found")
	}
	visible, err := s.canView(ctx, viewer, photo.OwnerID, photo.Visibility)
	if err != nil {
		return nil, apperr.Upstream("failed to check visibility", err)
	}
	if !visible {
		return nil, apperr.NotFound("photo not found")
	}

	comments, err := s.comments.ListByPhoto(ctx, photoID)
	if err != nil {
		return nil, apperr.Upstream("failed to load comments", err)
	}
	if len(comments) == 0 {
		return []*CommentView{}, nil
	}

	authorIDs := make([]uuid.UUID, 0, len(comments))
	seen := make(map[uuid.UUID]bool, len(comments))
	for _, c := range comments {
		if !seen[c.UserID] {
			seen[c.UserID] = true
			authorIDs = append(authorIDs, c.UserID)
		}
	}
	profiles, err := s.profiles.GetByUserIDs(ctx, authorIDs)
	if err != nil {
		return nil, apperr.Upstream("failed to load comment authors", err)
	}

	names := make(map[uuid.UUID]string, len(profiles))
	for id, p := range profiles {
		names[id] = p.DisplayName
	}
	return buildCommentTree(comments, names), nil
}

// buildCommentTree assembles comment rows into a forest. A reply whose
// parent was deleted is promoted to a top-level comment so it stays
// readable. Rows arrive oldest first and siblings keep that order.
func buildCommentTree(comments []*models.Comment, names map[uuid.UUID]string) []*CommentView {
	views := make(map[uuid.UUID]*CommentView, len(comments))
	for _, c := range comments {
		views[c.ID] = &CommentView{
			ID:         c.ID,
			UserID:     c.UserID,
			AuthorName: names[c.UserID],
			Content:    c.Content,
			CreatedAt:  c.CreatedAt,
			Replies:    []*CommentView{},
		}
	}

	roots := make([]*CommentView, 0, len(comments))
	for _, c := range comments {
		view := views[c.ID]
		if c.ParentID.Valid {
			if parent, ok := views[c.ParentID.UUID]; ok {
				parent.Replies = append(parent.Replies, view)
				continue
			}
		}
		roots = append(roots, view)
	}
	return roots
}
