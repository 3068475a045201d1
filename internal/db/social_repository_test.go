package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

// testRepository connects to the database named by GALLERY_TEST_DATABASE_DSN
// and migrates the tables the test touches. Tests are skipped when the
// variable is unset so the suite runs without a database.
func testRepository(t *testing.T) *Repository {
	t.Helper()
	dsn := os.Getenv("GALLERY_TEST_DATABASE_DSN")
	if dsn == "" {
		t.Skip("GALLERY_TEST_DATABASE_DSN not set")
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	if err := gdb.AutoMigrate(&models.FriendRequest{}, &models.Friendship{}, &models.Rating{}); err != nil {
		t.Fatalf("failed to migrate test tables: %v", err)
	}
	return NewRepository(gdb)
}

func TestAcceptRequestCreatesMirroredRows(t *testing.T) {
	repo := testRepository(t)
	requests := NewFriendRequestRepository(repo)
	friendships := NewFriendshipRepository(repo)
	ctx := context.Background()

	sender := uuid.New()
	receiver := uuid.New()
	req := &models.FriendRequest{
		ID:         uuid.New(),
		SenderID:   sender,
		ReceiverID: receiver,
		Status:     models.RequestStatusPending,
	}
	if err := requests.Create(ctx, req); err != nil {
		t.Fatalf("create request: %v", err)
	}
	defer repo.db.Where("id = ?", req.ID).Delete(&models.FriendRequest{})
	defer friendships.DeletePair(ctx, sender, receiver)

	if err := requests.Accept(ctx, req.ID, sender, receiver); err != nil {
		t.Fatalf("accept request: %v", err)
	}

	got, err := requests.GetByID(ctx, req.ID)
	if err != nil {
		t.Fatalf("reload request: %v", err)
	}
	if got.Status != models.RequestStatusAccepted {
		t.Fatalf("request status = %d, want accepted", got.Status)
	}

	for _, pair := range [][2]uuid.UUID{{sender, receiver}, {receiver, sender}} {
		exists, err := friendships.Exists(ctx, pair[0], pair[1])
		if err != nil {
			t.Fatalf("check friendship: %v", err)
		}
		if !exists {
			t.Fatalf("friendship row %s -> %s missing after accept", pair[0], pair[1])
		}
	}

	ids, err := friendships.FriendIDs(ctx, sender)
	if err != nil {
		t.Fatalf("friend ids: %v", err)
	}
	found := false
	for _, id := range ids {
		if id == receiver {
			found = true
		}
	}
	if !found {
		t.Fatal("receiver missing from sender's friend list after accept")
	}
}

func TestRatingUpsertKeepsOneRowPerUser(t *testing.T) {
	repo := testRepository(t)
	ratings := NewRatingRepository(repo)
	ctx := context.Background()

	photoID := time.Now().UnixNano()
	userID := uuid.New()
	defer repo.db.Where("photo_id = ?", photoID).Delete(&models.Rating{})

	first := &models.Rating{
		ID:                uuid.New(),
		PhotoID:           photoID,
		UserID:            userID,
		CompositionScore:  8,
		StorytellingScore: 6,
		TechniqueScore:    4,
		AverageScore:      6,
	}
	if err := ratings.Upsert(ctx, first); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	second := &models.Rating{
		ID:                uuid.New(),
		PhotoID:           photoID,
		UserID:            userID,
		CompositionScore:  3,
		StorytellingScore: 5,
		TechniqueScore:    7,
		AverageScore:      5,
	}
	if err := ratings.Upsert(ctx, second); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	rows, err := ratings.ListByPhoto(ctx, photoID)
	if err != nil {
		t.Fatalf("list ratings: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected one rating row per user and photo, got %d", len(rows))
	}

	got, err := ratings.GetByPhotoUser(ctx, photoID, userID)
	if err != nil {
		t.Fatalf("reload rating: %v", err)
	}
	if got.AverageScore != 5 || got.CompositionScore != 3 {
		t.Fatalf("rating not overwritten: average=%v composition=%d", got.AverageScore, got.CompositionScore)
	}
}
