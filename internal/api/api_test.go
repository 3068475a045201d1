package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/MichaelLiu22/gallery-gathering/internal/apperr"
)

func TestErrorCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "validation", err: apperr.Validation("bad input"), want: ErrInvalidParams},
		{name: "not authenticated", err: apperr.NotAuthenticated("no token"), want: ErrNotAuthenticated},
		{name: "not authorized", err: apperr.NotAuthorized("not yours"), want: ErrNotAuthorized},
		{name: "not found", err: apperr.NotFound("gone"), want: ErrNotFound},
		{name: "conflict", err: apperr.Conflict("duplicate"), want: ErrConflict},
		{name: "upstream", err: apperr.Upstream("db down", errors.New("timeout")), want: ErrServerError},
		{name: "plain error", err: errors.New("boom"), want: ErrServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _ := errorCode(tt.err); code != tt.want {
				t.Errorf("errorCode(%v) = %d, want %d", tt.err, code, tt.want)
			}
		})
	}
}

func rpcCall(t *testing.T, handler *JSONRPCHandler, body string) JSONRPCResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.POST("/", handler.Handle)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	engine.ServeHTTP(w, req)

	var resp JSONRPCResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	return resp
}

func TestJSONRPCHandler(t *testing.T) {
	handler := NewJSONRPCHandler()
	handler.RegisterMethod("gallery.echo", func(c *gin.Context, params json.RawMessage) (interface{}, error) {
		return gin.H{"ok": true}, nil
	})
	handler.RegisterMethod("gallery.fail", func(c *gin.Context, params json.RawMessage) (interface{}, error) {
		return nil, apperr.NotFound("photo not found")
	})

	t.Run("success", func(t *testing.T) {
		resp := rpcCall(t, handler, `{"jsonrpc":"2.0","id":1,"method":"gallery.echo"}`)
		if resp.Error != nil {
			t.Fatalf("unexpected error: %+v", resp.Error)
		}
	})

	t.Run("method not found", func(t *testing.T) {
		resp := rpcCall(t, handler, `{"jsonrpc":"2.0","id":2,"method":"gallery.nope"}`)
		if resp.Error == nil || resp.Error.Code != ErrMethodNotFound {
			t.Fatalf("error = %+v, want code %d", resp.Error, ErrMethodNotFound)
		}
	})

	t.Run("wrong version", func(t *testing.T) {
		resp := rpcCall(t, handler, `{"jsonrpc":"1.0","id":3,"method":"gallery.echo"}`)
		if resp.Error == nil || resp.Error.Code != ErrInvalidRequest {
			t.Fatalf("error = %+v, want code %d", resp.Error, ErrInvalidRequest)
		}
	})

	t.Run("handler error mapped", func(t *testing.T) {
		resp := rpcCall(t, handler, `{"jsonrpc":"2.0","id":4,"method":"gallery.fail"}`)
		if resp.Error == nil || resp.Error.Code != ErrNotFound {
			t.Fatalf("error = %+v, want code %d", resp.Error, ErrNotFound)
		}
	})
}

func TestAuthenticatorRoundTrip(t *testing.T) {
	auth := NewAuthenticator("test-secret")
	userID := uuid.New()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := token.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	got, err := auth.ValidateToken(signed)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if got != userID {
		t.Errorf("ValidateToken() = %v, want %v", got, userID)
	}

	if _, err := NewAuthenticator("other-secret").ValidateToken(signed); err == nil {
		t.Error("token signed with a different secret must not validate")
	}

	if _, err := auth.ValidateToken("not.a.token"); err == nil {
		t.Error("malformed token must not validate")
	}
}

func TestViewerAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if Viewer(c) != nil {
		t.Error("anonymous context must have no viewer")
	}
	if _, err := RequireViewer(c); apperr.KindOf(err) != apperr.KindNotAuthenticated {
		t.Error("RequireViewer on anonymous context must fail with not-authenticated")
	}
}
