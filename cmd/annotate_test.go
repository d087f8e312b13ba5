package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func TestValidateAnnotateFlags(t *testing.T) {
	// Create a temp file for valid input
	tmpFile, err := os.CreateTemp("", "video.mp4")
	if err != nil {
		t.Fatal(err)
	}
	defer os.Remove(tmpFile.Name())
	tmpFile.Close()

	// Create a temp dir for invalid input
	tmpDir, err := os.MkdirTemp("", "testdir")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{
			name: "Valid options",
			opts: Options{
				VideoPath:   tmpFile.Name(),
				OutputPath:  "annotated.avi",
				OutputCodec: "MJPG",
				Tolerance:   0.6,
			},
			wantErr: false,
		},
		{
			name: "Input file does not exist",
			opts: Options{
				VideoPath: "nonexistent.mp4",
			},
			wantErr: true,
		},
		{
			name: "Input is directory",
			opts: Options{
				VideoPath: tmpDir,
			},
			wantErr: true,
		},
		{
			name: "Empty output path",
			opts: Options{
				VideoPath:   tmpFile.Name(),
				OutputCodec: "MJPG",
				Tolerance:   0.6,
			},
			wantErr: true,
		},
		{
			name: "Output equals input",
			opts: Options{
				VideoPath:   tmpFile.Name(),
				OutputPath:  tmpFile.Name(),
				OutputCodec: "MJPG",
				Tolerance:   0.6,
			},
			wantErr: true,
		},
		{
			name: "Unknown codec",
			opts: Options{
				VideoPath:   tmpFile.Name(),
				OutputPath:  "annotated.avi",
				OutputCodec: "DIVX",
				Tolerance:   0.6,
			},
			wantErr: true,
		},
		{
			name: "Invalid tolerance",
			opts: Options{
				VideoPath:   tmpFile.Name(),
				OutputPath:  "annotated.avi",
				OutputCodec: "MJPG",
				Tolerance:   1.5,
			},
			wantErr: true,
		},
		{
			name: "Zero tolerance",
			opts: Options{
				VideoPath:   tmpFile.Name(),
				OutputPath:  "annotated.avi",
				OutputCodec: "MJPG",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Redirect stderr to discard output during this specific sub-test
			oldStderr := os.Stderr
			r, w, _ := os.Pipe()
			os.Stderr = w

			if err := validateAnnotateFlags(&tt.opts); (err != nil) != tt.wantErr {
				t.Errorf("validateAnnotateFlags() error = %v, wantErr %v", err, tt.wantErr)
			}

			// Restore stderr and close the pipe
			w.Close()
			os.Stderr = oldStderr
			r.Close()
		})
	}
}

// TestRunAnnotateCreatesKnownFacesDir covers the first-run bootstrap: the
// known faces directory is created, the user is told to fill it, and the
// run ends with an error instead of proceeding.
func TestRunAnnotateCreatesKnownFacesDir(t *testing.T) {
	saved := *opts
	defer func() { *opts = saved }()

	dir := filepath.Join(t.TempDir(), "known_faces")
	opts.KnownFacesDir = dir

	oldStderr := os.Stderr
	r, w, _ := os.Pipe()
	os.Stderr = w

	err := runAnnotate(&cobra.Command{})

	w.Close()
	os.Stderr = oldStderr
	r.Close()

	if err == nil {
		t.Fatal("runAnnotate() error = nil, want an error prompting for reference images")
	}
	if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
		t.Errorf("known faces directory was not created: %v", statErr)
	}
}

func TestFmtTime(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{0, "00:00:00"},
		{65, "00:01:05"},
		{3661, "01:01:01"},
	}

	for _, tt := range tests {
		if got := fmtTime(tt.seconds); got != tt.want {
			t.Errorf("fmtTime(%v) = %v, want %v", tt.seconds, got, tt.want)
		}
	}
}
