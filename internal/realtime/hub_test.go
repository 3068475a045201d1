package realtime

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
)

func newTestClient(h *Hub, userID uuid.UUID) *client {
	return &client{
		id:     uuid.New(),
		userID: userID,
		send:   make(chan []byte, sendBufferSize),
		hub:    h,
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	h := NewHub()
	userID := uuid.New()

	if h.IsOnline(userID) {
		t.Fatal("user must start offline")
	}

	c := newTestClient(h, userID)
	if !h.register(c) {
		t.Fatal("register failed")
	}
	if !h.IsOnline(userID) {
		t.Fatal("user must be online after register")
	}

	h.unregister(c)
	if h.IsOnline(userID) {
		t.Fatal("user must be offline after unregister")
	}
	if _, ok := <-c.send; ok {
		t.Fatal("send channel must be closed after unregister")
	}
}

func TestHubConnectionLimit(t *testing.T) {
	h := NewHub()
	userID := uuid.New()

	for i := 0; i < maxConnsPerUser; i++ {
		if !h.register(newTestClient(h, userID)) {
			t.Fatalf("register %d failed below the limit", i)
		}
	}
	if h.register(newTestClient(h, userID)) {
		t.Fatal("register must fail past the connection limit")
	}
}

func TestHubPush(t *testing.T) {
	h := NewHub()
	userID := uuid.New()
	c := newTestClient(h, userID)
	h.register(c)

	h.Push(userID, "notification", map[string]string{"type": "like"})

	select {
	case data := <-c.send:
		var ev Event
		if err := json.Unmarshal(data, &ev); err != nil {
			t.Fatalf("pushed payload is not JSON: %v", err)
		}
		if ev.Type != "notification" {
			t.Errorf("event type = %q, want notification", ev.Type)
		}
	default:
		t.Fatal("no event delivered to the registered client")
	}

	// Pushing to a user with no connections must not panic
	h.Push(uuid.New(), "notification", nil)
}

func TestHubPushClosedConnection(t *testing.T) {
	h := NewHub()
	userID := uuid.New()
	c := newTestClient(h, userID)
	h.register(c)

	// A connection can close between the snapshot and the send; pushing to
	// it must be refused instead of panicking on the closed channel.
	c.close()
	h.Push(userID, "notification", map[string]string{"type": "like"})

	if c.trySend([]byte("late")) {
		t.Fatal("send on a closed connection must be refused")
	}
}
