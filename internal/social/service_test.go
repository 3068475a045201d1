package social

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

type fakeRequestStore struct {
	byID     map[uuid.UUID]*models.FriendRequest
	accepted [][2]uuid.UUID
	statuses map[uuid.UUID]int16
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{
		byID:     make(map[uuid.UUID]*models.FriendRequest),
		statuses: make(map[uuid.UUID]int16),
	}
}

func (f *fakeRequestStore) GetByID(ctx context.Context, id uuid.UUID) (*models.FriendRequest, error) {
	return f.byID[id], nil
}

func (f *fakeRequestStore) Create(ctx context.Context, req *models.FriendRequest) error {
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	f.byID[req.ID] = req
	return nil
}

func (f *fakeRequestStore) UpdateStatus(ctx context.Context, id uuid.UUID, status int16) error {
	f.statuses[id] = status
	if req := f.byID[id]; req != nil {
		req.Status = status
	}
	return nil
}

func (f *fakeRequestStore) Accept(ctx context.Context, id uuid.UUID, sender, receiver uuid.UUID) error {
	f.accepted = append(f.accepted, [2]uuid.UUID{sender, receiver})
	if req := f.byID[id]; req != nil {
		req.Status = models.RequestStatusAccepted
	}
	return nil
}

func (f *fakeRequestStore) PendingBetween(ctx context.Context, a, b uuid.UUID) (*models.FriendRequest, error) {
	return nil, nil
}

func (f *fakeRequestStore) ListPendingFor(ctx context.Context, userID uuid.UUID) ([]*models.FriendRequest, error) {
	return nil, nil
}

type fakeFriendshipStore struct {
	friends map[uuid.UUID][]uuid.UUID
}

func (f *fakeFriendshipStore) Exists(ctx context.Context, a, b uuid.UUID) (bool, error) {
	for _, id := range f.friends[a] {
		if id == b {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFriendshipStore) FriendIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return f.friends[userID], nil
}

func (f *fakeFriendshipStore) DeletePair(ctx context.Context, a, b uuid.UUID) error {
	return nil
}

type fakeProfileStore struct {
	profiles map[uuid.UUID]*models.Profile
}

func (f *fakeProfileStore) GetByUserID(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	return f.profiles[userID], nil
}

func (f *fakeProfileStore) GetByUserIDs(ctx context.Context, userIDs []uuid.UUID) (map[uuid.UUID]*models.Profile, error) {
	out := make(map[uuid.UUID]*models.Profile)
	for _, id := range userIDs {
		if p := f.profiles[id]; p != nil {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProfileStore) DisplayNameTaken(ctx context.Context, name string, userID uuid.UUID) (bool, error) {
	return false, nil
}

func (f *fakeProfileStore) Create(ctx context.Context, profile *models.Profile) error { return nil }
func (f *fakeProfileStore) Update(ctx context.Context, profile *models.Profile) error { return nil }

type fakeScoreStore struct {
	scores map[uuid.UUID]float64
}

func (f *fakeScoreStore) UserPhotoScore(ctx context.Context, ownerID uuid.UUID) (float64, error) {
	return f.scores[ownerID], nil
}

type fakeFeedCache struct {
	prefixes []string
}

func (f *fakeFeedCache) DeletePrefix(prefix string) error {
	f.prefixes = append(f.prefixes, prefix)
	return nil
}

type pushedEvent struct {
	userID uuid.UUID
	event  string
}

type fakePusher struct {
	events []pushedEvent
	online map[uuid.UUID]bool
}

func (f *fakePusher) Push(userID uuid.UUID, event string, payload interface{}) {
	f.events = append(f.events, pushedEvent{userID: userID, event: event})
}

func (f *fakePusher) IsOnline(userID uuid.UUID) bool {
	return f.online[userID]
}

func newTestService(requests *fakeRequestStore, friendships *fakeFriendshipStore, feedCache *fakeFeedCache, pusher *fakePusher) *Service {
	s := &Service{
		requests:    requests,
		friendships: friendships,
		logger:      zap.NewNop(),
	}
	if feedCache != nil {
		s.cache = feedCache
	}
	if pusher != nil {
		s.pusher = pusher
	}
	return s
}

func TestRespondRequestAccept(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()
	requests := newFakeRequestStore()
	req := &models.FriendRequest{SenderID: sender, ReceiverID: receiver, Status: models.RequestStatusPending}
	require.NoError(t, requests.Create(context.Background(), req))

	feedCache := &fakeFeedCache{}
	pusher := &fakePusher{}
	svc := newTestService(requests, &fakeFriendshipStore{}, feedCache, pusher)

	err := svc.RespondRequest(context.Background(), req.ID, receiver, true)
	require.NoError(t, err)

	require.Len(t, requests.accepted, 1)
	assert.Equal(t, [2]uuid.UUID{sender, receiver}, requests.accepted[0])
	assert.Empty(t, requests.statuses, "accept must not run a separate status update")

	assert.Contains(t, feedCache.prefixes, "feed:")
	require.Len(t, pusher.events, 1)
	assert.Equal(t, sender, pusher.events[0].userID)
	assert.Equal(t, "friend_request_accepted", pusher.events[0].event)
}

func TestRespondRequestReject(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()
	requests := newFakeRequestStore()
	req := &models.FriendRequest{SenderID: sender, ReceiverID: receiver, Status: models.RequestStatusPending}
	require.NoError(t, requests.Create(context.Background(), req))

	feedCache := &fakeFeedCache{}
	svc := newTestService(requests, &fakeFriendshipStore{}, feedCache, nil)

	err := svc.RespondRequest(context.Background(), req.ID, receiver, false)
	require.NoError(t, err)

	assert.Empty(t, requests.accepted)
	assert.Equal(t, models.RequestStatusRejected, requests.statuses[req.ID])
	assert.Empty(t, feedCache.prefixes, "rejecting does not change the relationship graph")
}

func TestRespondRequestAlreadyResolved(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()
	requests := newFakeRequestStore()
	req := &models.FriendRequest{SenderID: sender, ReceiverID: receiver, Status: models.RequestStatusAccepted}
	require.NoError(t, requests.Create(context.Background(), req))

	svc := newTestService(requests, &fakeFriendshipStore{}, nil, nil)

	err := svc.RespondRequest(context.Background(), req.ID, receiver, true)
	require.Error(t, err)
	assert.Equal(t, apperr.KindConflict, apperr.KindOf(err))
	assert.Empty(t, requests.accepted)
	assert.Empty(t, requests.statuses)
}

func TestRespondRequestWrongResponder(t *testing.T) {
	sender := uuid.New()
	receiver := uuid.New()
	requests := newFakeRequestStore()
	req := &models.FriendRequest{SenderID: sender, ReceiverID: receiver, Status: models.RequestStatusPending}
	require.NoError(t, requests.Create(context.Background(), req))

	svc := newTestService(requests, &fakeFriendshipStore{}, nil, nil)

	err := svc.RespondRequest(context.Background(), req.ID, sender, true)
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotAuthorized, apperr.KindOf(err))
	assert.Empty(t, requests.accepted)
}

func TestListFriendsPresence(t *testing.T) {
	user := uuid.New()
	online := uuid.New()
	offline := uuid.New()

	friendships := &fakeFriendshipStore{friends: map[uuid.UUID][]uuid.UUID{
		user: {online, offline},
	}}
	profiles := &fakeProfileStore{profiles: map[uuid.UUID]*models.Profile{
		online:  {UserID: online, DisplayName: "Ansel"},
		offline: {UserID: offline, DisplayName: "Dorothea"},
	}}
	scores := &fakeScoreStore{scores: map[uuid.UUID]float64{online: 42.5}}
	pusher := &fakePusher{online: map[uuid.UUID]bool{online: true}}

	svc := newTestService(newFakeRequestStore(), friendships, nil, pusher)
	svc.profiles = profiles
	svc.ratings = scores

	friends, err := svc.ListFriends(context.Background(), user)
	require.NoError(t, err)
	require.Len(t, friends, 2)

	assert.Equal(t, "Ansel", friends[0].DisplayName)
	assert.True(t, friends[0].Online)
	assert.Equal(t, 42.5, friends[0].PhotoScore)

	assert.Equal(t, "Dorothea", friends[1].DisplayName)
	assert.False(t, friends[1].Online)
}
