package engine

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// grayJPEG encodes a solid gray image for feeding the recognizer.
func grayJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, color.RGBA{128, 128, 128, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCheckModels(t *testing.T) {
	// Directory with every model file present (content does not matter,
	// CheckModels only stats).
	complete := t.TempDir()
	for _, m := range Models {
		if err := os.WriteFile(filepath.Join(complete, m.Name), []byte("stub"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	// Directory with one model missing.
	partial := t.TempDir()
	for _, m := range Models[:len(Models)-1] {
		if err := os.WriteFile(filepath.Join(partial, m.Name), []byte("stub"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name    string
		dir     string
		wantErr bool
	}{
		{
			name:    "All models present",
			dir:     complete,
			wantErr: false,
		},
		{
			name:    "One model missing",
			dir:     partial,
			wantErr: true,
		},
		{
			name:    "Empty directory",
			dir:     t.TempDir(),
			wantErr: true,
		},
		{
			name:    "Directory does not exist",
			dir:     filepath.Join(complete, "nope"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := CheckModels(tt.dir); (err != nil) != tt.wantErr {
				t.Errorf("CheckModels() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckModelsNamesMissingFiles(t *testing.T) {
	err := CheckModels(t.TempDir())
	if err == nil {
		t.Fatal("Expected an error for an empty models directory")
	}
	for _, m := range Models {
		if !strings.Contains(err.Error(), m.Name) {
			t.Errorf("Error should name missing model %s, got: %v", m.Name, err)
		}
	}
}

// TestDlibEngine runs against the real dlib models when they are available
// locally. It is skipped otherwise, since the model files are ~100MB and
// not part of the repository.
func TestDlibEngine(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping dlib integration test in short mode")
	}
	modelsDir := os.Getenv("FACETAG_MODELS_DIR")
	if modelsDir == "" {
		modelsDir = "models"
	}
	if err := CheckModels(modelsDir); err != nil {
		t.Skipf("dlib models not available: %v", err)
	}

	eng, err := New(modelsDir)
	if err != nil {
		t.Fatalf("New() failed with models present: %v", err)
	}
	defer eng.Close()

	// A solid gray JPEG has no faces; Recognize must return an empty
	// slice, not an error.
	faces, err := eng.Recognize(grayJPEG(t, 64, 64))
	if err != nil {
		t.Fatalf("Recognize failed: %v", err)
	}
	if len(faces) != 0 {
		t.Errorf("Expected no faces in a gray image, got %d", len(faces))
	}
}
