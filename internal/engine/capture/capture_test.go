package capture

import (
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFlipRGBA(t *testing.T) {
	// 1x2 image: bottom row red, top row blue
	pixels := []byte{
		255, 0, 0, 255,
		0, 0, 255, 255,
	}

	img, err := FlipRGBA(pixels, 1, 2)
	if err != nil {
		t.Fatalf("FlipRGBA failed: %v", err)
	}

	if r, _, b, _ := img.At(0, 0).RGBA(); b == 0 || r != 0 {
		t.Error("top row should be blue")
	}
	if r, _, b, _ := img.At(0, 1).RGBA(); r == 0 || b != 0 {
		t.Error("bottom row should be red")
	}
}

func TestFlipRGBASizeMismatch(t *testing.T) {
	tests := []struct {
		name          string
		n             int
		width, height int
	}{
		{"short", 4, 2, 1},
		{"long", 12, 1, 2},
		{"empty", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FlipRGBA(make([]byte, tt.n), tt.width, tt.height); err == nil {
				t.Error("expected size error")
			}
		})
	}
}

func TestSaveRGBA(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "shots")
	s := New(dir, "ride")
	s.now = func() time.Time { return time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC) }

	path, err := s.SaveRGBA(make([]byte, 2*2*4), 2, 2)
	if err != nil {
		t.Fatalf("SaveRGBA failed: %v", err)
	}

	if want := filepath.Join(dir, "ride_2024-05-01_12-30-00.000.png"); path != want {
		t.Errorf("path = %q, want %q", path, want)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open screenshot: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode screenshot: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 2 || b.Dy() != 2 {
		t.Errorf("bounds = %v, want 2x2", b)
	}
}

func TestFilenameWithoutDir(t *testing.T) {
	s := New("", "ride")
	name := s.Filename()
	if strings.ContainsRune(name, filepath.Separator) {
		t.Errorf("filename %q should be relative to the working directory", name)
	}
	if !strings.HasPrefix(name, "ride_") || !strings.HasSuffix(name, ".png") {
		t.Errorf("unexpected filename %q", name)
	}
}
