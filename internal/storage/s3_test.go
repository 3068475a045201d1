package storage

import "testing"

func TestPublicURL(t *testing.T) {
	tests := []struct {
		name  string
		store *S3Store
		key   string
		want  string
	}{
		{
			name:  "aws url",
			store: &S3Store{bucket: "gallery-photos", region: "us-east-1"},
			key:   "photos/42/0.jpg",
			want:  "https://gallery-photos.s3.us-east-1.amazonaws.com/photos/42/0.jpg",
		},
		{
			name:  "custom endpoint",
			store: &S3Store{bucket: "gallery-photos", endpoint: "http://localhost:9000/"},
			key:   "photos/42/0.jpg",
			want:  "http://localhost:9000/gallery-photos/photos/42/0.jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.store.publicURL(tt.key); got != tt.want {
				t.Errorf("publicURL(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}
