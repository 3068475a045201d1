package gallery

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

type fakePhotoStore struct {
	photos map[int64]*models.Photo
}

func (f *fakePhotoStore) GetByID(ctx context.Context, id int64) (*models.Photo, error) {
	return f.photos[id], nil
}

func (f *fakePhotoStore) Create(ctx context.Context, photo *models.Photo, images []models.PhotoImage) error {
	photo.ID = int64(len(f.photos) + 1)
	f.photos[photo.ID] = photo
	return nil
}

func (f *fakePhotoStore) ImagesByPhotoID(ctx context.Context, photoID int64) ([]models.PhotoImage, error) {
	return nil, nil
}

func (f *fakePhotoStore) Delete(ctx context.Context, photoID int64) error {
	delete(f.photos, photoID)
	return nil
}

func (f *fakePhotoStore) IncrementViews(ctx context.Context, photoID int64) error { return nil }

func (f *fakePhotoStore) AdjustLikesCount(ctx context.Context, photoID int64, delta int) error {
	return nil
}

type fakeCommentStore struct {
	byID map[uuid.UUID]*models.Comment
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{byID: make(map[uuid.UUID]*models.Comment)}
}

func (f *fakeCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*models.Comment, error) {
	return f.byID[id], nil
}

func (f *fakeCommentStore) Create(ctx context.Context, comment *models.Comment) error {
	if comment.ID == uuid.Nil {
		comment.ID = uuid.New()
	}
	f.byID[comment.ID] = comment
	return nil
}

func (f *fakeCommentStore) Delete(ctx context.Context, id uuid.UUID) error {
	delete(f.byID, id)
	return nil
}

func (f *fakeCommentStore) ListByPhoto(ctx context.Context, photoID int64) ([]*models.Comment, error) {
	return nil, nil
}

func (f *fakeCommentStore) CountByPhoto(ctx context.Context, photoID int64) (int64, error) {
	return int64(len(f.byID)), nil
}

type fakeFeedCache struct {
	prefixes []string
}

func (f *fakeFeedCache) DeletePrefix(prefix string) error {
	f.prefixes = append(f.prefixes, prefix)
	return nil
}

type fakeObjectStore struct {
	presigned []string
}

func (f *fakeObjectStore) Put(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	return "https://cdn.example.com/" + key, nil
}

func (f *fakeObjectStore) Delete(ctx context.Context, key string) error { return nil }

func (f *fakeObjectStore) PresignUpload(ctx context.Context, key, contentType string) (string, error) {
	f.presigned = append(f.presigned, key)
	return "https://bucket.example.com/" + key + "?signature=abc", nil
}

func newCommentTestService(photos *fakePhotoStore, comments *fakeCommentStore, feedCache *fakeFeedCache) *Service {
	s := &Service{
		photos:   photos,
		comments: comments,
		logger:   zap.NewNop(),
	}
	if feedCache != nil {
		s.cache = feedCache
	}
	return s
}

func publicPhoto(owner uuid.UUID) *models.Photo {
	return &models.Photo{
		ID:         1,
		OwnerID:    owner,
		Title:      "Dusk",
		Visibility: models.VisibilityPublic,
		CreatedAt:  time.Now().UTC(),
	}
}

func TestAddCommentInvalidatesFeedCache(t *testing.T) {
	owner := uuid.New()
	commenter := uuid.New()
	photos := &fakePhotoStore{photos: map[int64]*models.Photo{1: publicPhoto(owner)}}
	feedCache := &fakeFeedCache{}
	svc := newCommentTestService(photos, newFakeCommentStore(), feedCache)

	comment, err := svc.AddComment(context.Background(), commenter, 1, "lovely light", nil)
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if comment.ID == uuid.Nil {
		t.Fatal("comment must get an id")
	}

	if len(feedCache.prefixes) != 1 || feedCache.prefixes[0] != "feed:" {
		t.Fatalf("expected feed pages dropped after commenting, got %v", feedCache.prefixes)
	}
}

func TestAddCommentRejectedLeavesFeedCache(t *testing.T) {
	commenter := uuid.New()
	photos := &fakePhotoStore{photos: map[int64]*models.Photo{}}
	feedCache := &fakeFeedCache{}
	svc := newCommentTestService(photos, newFakeCommentStore(), feedCache)

	_, err := svc.AddComment(context.Background(), commenter, 99, "hello", nil)
	if apperr.KindOf(err) != apperr.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
	if len(feedCache.prefixes) != 0 {
		t.Fatalf("rejected comment must not touch the feed cache, got %v", feedCache.prefixes)
	}
}

func TestDeleteCommentInvalidatesFeedCache(t *testing.T) {
	owner := uuid.New()
	author := uuid.New()
	photos := &fakePhotoStore{photos: map[int64]*models.Photo{1: publicPhoto(owner)}}
	comments := newFakeCommentStore()
	feedCache := &fakeFeedCache{}
	svc := newCommentTestService(photos, comments, feedCache)

	comment := &models.Comment{PhotoID: 1, UserID: author, Content: "nice"}
	if err := comments.Create(context.Background(), comment); err != nil {
		t.Fatalf("seed comment: %v", err)
	}

	if err := svc.DeleteComment(context.Background(), author, comment.ID); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	if len(feedCache.prefixes) != 1 || feedCache.prefixes[0] != "feed:" {
		t.Fatalf("expected feed pages dropped after deleting a comment, got %v", feedCache.prefixes)
	}
}

func TestDeleteCommentWrongAuthorLeavesFeedCache(t *testing.T) {
	owner := uuid.New()
	author := uuid.New()
	stranger := uuid.New()
	photos := &fakePhotoStore{photos: map[int64]*models.Photo{1: publicPhoto(owner)}}
	comments := newFakeCommentStore()
	feedCache := &fakeFeedCache{}
	svc := newCommentTestService(photos, comments, feedCache)

	comment := &models.Comment{PhotoID: 1, UserID: author, Content: "nice"}
	if err := comments.Create(context.Background(), comment); err != nil {
		t.Fatalf("seed comment: %v", err)
	}

	err := svc.DeleteComment(context.Background(), stranger, comment.ID)
	if apperr.KindOf(err) != apperr.KindNotAuthorized {
		t.Fatalf("expected not authorized, got %v", err)
	}
	if len(feedCache.prefixes) != 0 {
		t.Fatalf("refused delete must not touch the feed cache, got %v", feedCache.prefixes)
	}
}

func TestPresignUpload(t *testing.T) {
	owner := uuid.New()
	store := &fakeObjectStore{}
	svc := &Service{store: store, logger: zap.NewNop()}

	result, err := svc.PresignUpload(context.Background(), owner, "sunset.png", "image/png")
	if err != nil {
		t.Fatalf("PresignUpload failed: %v", err)
	}
	wantPrefix := "photos/" + owner.String() + "/"
	if !strings.HasPrefix(result.Key, wantPrefix) {
		t.Fatalf("key %q must live under %q", result.Key, wantPrefix)
	}
	if !strings.HasSuffix(result.Key, ".png") {
		t.Fatalf("key %q must keep the file extension", result.Key)
	}
	if !strings.Contains(result.URL, result.Key) {
		t.Fatalf("url %q must reference key %q", result.URL, result.Key)
	}
	if len(store.presigned) != 1 {
		t.Fatalf("expected one presign call, got %d", len(store.presigned))
	}

	if _, err := svc.PresignUpload(context.Background(), owner, "  ", "image/png"); apperr.KindOf(err) != apperr.KindValidation {
		t.Fatalf("expected validation error for blank filename, got %v", err)
	}
}
