package social

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/MichaelLiu22/gallery-gathering/internal/models"
)

func TestDerivePendingStatus(t *testing.T) {
	viewer := uuid.New()
	other := uuid.New()

	tests := []struct {
		name    string
		pending *models.FriendRequest
		want    string
	}{
		{
			name:    "no pending request",
			pending: nil,
			want:    models.FriendStatusNone,
		},
		{
			name:    "viewer sent the request",
			pending: &models.FriendRequest{SenderID: viewer, ReceiverID: other},
			want:    models.FriendStatusPending,
		},
		{
			name:    "viewer received the request",
			pending: &models.FriendRequest{SenderID: other, ReceiverID: viewer},
			want:    models.FriendStatusReceived,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, derivePendingStatus(tt.pending, viewer))
		})
	}
}

func TestValidateDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "valid", input: "ansel"},
		{name: "minimum length", input: "ab"},
		{name: "too short", input: "a", wantErr: true},
		{name: "too long", input: strings.Repeat("x", models.DisplayNameMaxLen+1), wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "multibyte runes counted once", input: "写真家"},
		{name: "control characters", input: "an\tsel", wantErr: true},
		{name: "trimmed before counting", input: "  ab  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDisplayName(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequestStatusName(t *testing.T) {
	assert.Equal(t, "pending", models.RequestStatusName(models.RequestStatusPending))
	assert.Equal(t, "accepted", models.RequestStatusName(models.RequestStatusAccepted))
	assert.Equal(t, "rejected", models.RequestStatusName(models.RequestStatusRejected))
	assert.Equal(t, "unknown", models.RequestStatusName(0))
}
