package models

import (
	"database/sql"
	"testing"

	"github.com/google/uuid"
)

func TestExposureCodec(t *testing.T) {
	settings := ExposureSettings{"iso": "200", "aperture": "f/2.8"}

	column := EncodeExposure(settings)
	if !column.Valid {
		t.Fatal("non-empty settings must encode to a valid column")
	}

	decoded := DecodeExposure(column)
	if decoded["iso"] != "200" || decoded["aperture"] != "f/2.8" {
		t.Errorf("round trip lost data: %v", decoded)
	}

	if got := EncodeExposure(nil); got.Valid {
		t.Error("empty settings must encode as NULL")
	}
	if got := DecodeExposure(sql.NullString{}); got != nil {
		t.Error("NULL column must decode to nil")
	}
	if got := DecodeExposure(sql.NullString{String: "{broken", Valid: true}); got != nil {
		t.Error("invalid JSON must decode to nil, not fail")
	}
}

func TestNotificationRelatedID(t *testing.T) {
	requestID := uuid.New()

	n := Notification{
		Type:      NotifyTypeFriendRequest,
		RequestID: uuid.NullUUID{UUID: requestID, Valid: true},
	}
	if got := n.RelatedID(); got != requestID.String() {
		t.Errorf("RelatedID() = %q, want the request id", got)
	}

	n = Notification{
		Type:    NotifyTypeLike,
		PhotoID: sql.NullInt64{Int64: 42, Valid: true},
	}
	if got := n.RelatedID(); got != "42" {
		t.Errorf("RelatedID() = %q, want 42", got)
	}

	n = Notification{}
	if got := n.RelatedID(); got != "" {
		t.Errorf("RelatedID() with no references = %q, want empty", got)
	}
}

func TestValidVisibility(t *testing.T) {
	for _, v := range []string{VisibilityPublic, VisibilityFriends, VisibilityPrivate} {
		if !ValidVisibility(v) {
			t.Errorf("ValidVisibility(%q) = false, want true", v)
		}
	}
	if ValidVisibility("secret") {
		t.Error("ValidVisibility(secret) = true, want false")
	}
}
