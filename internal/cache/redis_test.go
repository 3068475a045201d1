package cache

import (
	"testing"
)

func TestHashKey(t *testing.T) {
	tests := []struct {
		name  string
		parts []string
	}{
		{
			name:  "single part",
			parts: []string{"test"},
		},
		{
			name:  "multiple parts",
			parts: []string{"feed", "latest", "all", "1"},
		},
		{
			name:  "empty parts",
			parts: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hashed1 := HashKey(tt.parts...)
			hashed2 := HashKey(tt.parts...)

			// Hash should be consistent
			if hashed1 != hashed2 {
				t.Errorf("HashKey() should be consistent, got %s and %s", hashed1, hashed2)
			}

			// Hash should be 32 characters (MD5 hex)
			if len(hashed1) != 32 {
				t.Errorf("HashKey() should return 32 character hex string, got length %d", len(hashed1))
			}
		})
	}
}

func TestHashKeyDistinct(t *testing.T) {
	a := HashKey("feed", "latest", "all")
	b := HashKey("feed", "latest", "friends")
	if a == b {
		t.Error("HashKey() should differ for different part lists")
	}
}

func TestCache_NamespaceKey(t *testing.T) {
	c := &Cache{}

	tests := []struct {
		name     string
		key      string
		expected string
	}{
		{
			name:     "simple key",
			key:      "test",
			expected: "gallery:test",
		},
		{
			name:     "key with colon",
			key:      "feed:latest",
			expected: "gallery:feed:latest",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := c.namespaceKey(tt.key)
			if result != tt.expected {
				t.Errorf("namespaceKey(%q) = %v, want %v", tt.key, result, tt.expected)
			}
		})
	}
}

func TestDisabledCache(t *testing.T) {
	var c *Cache

	if _, err := c.Get("k"); err != ErrCacheDisabled {
		t.Errorf("Get on nil cache should return ErrCacheDisabled, got %v", err)
	}
	if err := c.Set("k", "v", 0); err != ErrCacheDisabled {
		t.Errorf("Set on nil cache should return ErrCacheDisabled, got %v", err)
	}
	if err := c.GetJSON("k", nil); err != ErrCacheDisabled {
		t.Errorf("GetJSON on nil cache should return ErrCacheDisabled, got %v", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close on nil cache should be a no-op, got %v", err)
	}
}
