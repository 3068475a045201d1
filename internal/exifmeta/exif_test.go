package exifmeta

import (
	"bytes"
	"strings"
	"testing"
)

func TestExtractNonImage(t *testing.T) {
	if got := Extract(strings.NewReader("not an image")); got != nil {
		t.Errorf("Extract on garbage input = %v, want nil", got)
	}
}

func TestExtractEmptyInput(t *testing.T) {
	if got := Extract(bytes.NewReader(nil)); got != nil {
		t.Errorf("Extract on empty input = %v, want nil", got)
	}
}

func TestCameraModelNonImage(t *testing.T) {
	if got := CameraModel(strings.NewReader("not an image")); got != "" {
		t.Errorf("CameraModel on garbage input = %q, want empty", got)
	}
}
