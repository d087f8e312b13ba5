package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.KnownFacesDir != "known_faces" {
		t.Errorf("Expected known_faces dir default, got %s", cfg.KnownFacesDir)
	}
	if cfg.OutputPath != "output.avi" {
		t.Errorf("Expected output.avi default, got %s", cfg.OutputPath)
	}
	if cfg.OutputCodec != "MJPG" {
		t.Errorf("Expected MJPG default, got %s", cfg.OutputCodec)
	}
	if cfg.Tolerance != 0.6 {
		t.Errorf("Expected tolerance 0.6, got %f", cfg.Tolerance)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "facetag.yaml")
	yaml := `
known_faces_dir: cast
video_path: episode.mkv
tolerance: 0.5
log_level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.KnownFacesDir != "cast" {
		t.Errorf("Expected cast, got %s", cfg.KnownFacesDir)
	}
	if cfg.VideoPath != "episode.mkv" {
		t.Errorf("Expected episode.mkv, got %s", cfg.VideoPath)
	}
	if cfg.Tolerance != 0.5 {
		t.Errorf("Expected tolerance 0.5, got %f", cfg.Tolerance)
	}
	// Keys absent from the file keep their defaults
	if cfg.OutputCodec != "MJPG" {
		t.Errorf("Expected MJPG default to survive, got %s", cfg.OutputCodec)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Error("Expected an error for a missing file")
	}
	if cfg == nil || cfg.OutputPath != "output.avi" {
		t.Error("Expected defaults to be returned alongside the error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("FACETAG_OUTPUT_CODEC", "XVID")
	t.Setenv("FACETAG_TOLERANCE", "0.45")
	t.Setenv("FACETAG_VIDEO_PATH", "from_env.mp4")

	cfg := DefaultConfig()
	cfg.applyEnv()

	if cfg.OutputCodec != "XVID" {
		t.Errorf("Expected XVID from env, got %s", cfg.OutputCodec)
	}
	if cfg.Tolerance != 0.45 {
		t.Errorf("Expected tolerance 0.45 from env, got %f", cfg.Tolerance)
	}
	if cfg.VideoPath != "from_env.mp4" {
		t.Errorf("Expected from_env.mp4, got %s", cfg.VideoPath)
	}
}

func TestEnvInvalidFloatKeepsDefault(t *testing.T) {
	t.Setenv("FACETAG_TOLERANCE", "not-a-number")

	cfg := DefaultConfig()
	cfg.applyEnv()

	if cfg.Tolerance != 0.6 {
		t.Errorf("Invalid env float should keep default 0.6, got %f", cfg.Tolerance)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "Defaults are valid",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "Tolerance too high",
			mutate:  func(c *Config) { c.Tolerance = 1.5 },
			wantErr: true,
		},
		{
			name:    "Tolerance zero",
			mutate:  func(c *Config) { c.Tolerance = 0 },
			wantErr: true,
		},
		{
			name:    "Empty known faces dir",
			mutate:  func(c *Config) { c.KnownFacesDir = "" },
			wantErr: true,
		},
		{
			name:    "Bad log level",
			mutate:  func(c *Config) { c.LogLevel = "loud" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
