// Package config provides configuration management for facetag.
// Values resolve in order: defaults, then the YAML file, then FACETAG_*
// environment variables. Command-line flags override all of these and are
// applied by the commands themselves.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory when
// no --config flag is given.
const DefaultFile = "facetag.yaml"

// Config holds all facetag configuration.
type Config struct {
	KnownFacesDir string  `yaml:"known_faces_dir"`
	VideoPath     string  `yaml:"video_path"`
	OutputPath    string  `yaml:"output_path"`
	OutputCodec   string  `yaml:"output_codec"`
	ModelsDir     string  `yaml:"models_dir"`
	Tolerance     float64 `yaml:"tolerance"`
	LogLevel      string  `yaml:"log_level"`
	LogFile       string  `yaml:"log_file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		KnownFacesDir: "known_faces",
		VideoPath:     "input_video.mp4",
		OutputPath:    "output.avi",
		OutputCodec:   "MJPG",
		ModelsDir:     "models",
		Tolerance:     0.6,
		LogLevel:      "info",
		LogFile:       "",
	}
}

// Load loads configuration from the specified file on top of the defaults,
// then applies environment overrides.
func Load(path string) (*Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return config, err
	}
	if err := yaml.Unmarshal(data, config); err != nil {
		return config, fmt.Errorf("parsing %s: %w", path, err)
	}

	config.applyEnv()
	config.expandPaths()
	return config, nil
}

// LoadDefault loads facetag.yaml from the working directory when present,
// otherwise returns defaults plus environment overrides.
func LoadDefault() (*Config, error) {
	if _, err := os.Stat(DefaultFile); err == nil {
		return Load(DefaultFile)
	}

	config := DefaultConfig()
	config.applyEnv()
	config.expandPaths()
	return config, nil
}

// applyEnv overlays FACETAG_* environment variables.
func (c *Config) applyEnv() {
	c.KnownFacesDir = envStr("FACETAG_KNOWN_FACES_DIR", c.KnownFacesDir)
	c.VideoPath = envStr("FACETAG_VIDEO_PATH", c.VideoPath)
	c.OutputPath = envStr("FACETAG_OUTPUT_PATH", c.OutputPath)
	c.OutputCodec = envStr("FACETAG_OUTPUT_CODEC", c.OutputCodec)
	c.ModelsDir = envStr("FACETAG_MODELS_DIR", c.ModelsDir)
	c.Tolerance = envFloat("FACETAG_TOLERANCE", c.Tolerance)
	c.LogLevel = envStr("FACETAG_LOG_LEVEL", c.LogLevel)
	c.LogFile = envStr("FACETAG_LOG_FILE", c.LogFile)
}

func (c *Config) expandPaths() {
	c.KnownFacesDir = ExpandPath(c.KnownFacesDir)
	c.VideoPath = ExpandPath(c.VideoPath)
	c.OutputPath = ExpandPath(c.OutputPath)
	c.ModelsDir = ExpandPath(c.ModelsDir)
	c.LogFile = ExpandPath(c.LogFile)
}

// ExpandPath expands ~ and environment variables in a path.
func ExpandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(homeDir, path[2:])
		}
	}
	return os.ExpandEnv(path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.KnownFacesDir == "" {
		return fmt.Errorf("known_faces_dir must not be empty")
	}
	if c.OutputPath == "" {
		return fmt.Errorf("output_path must not be empty")
	}
	if c.Tolerance <= 0 || c.Tolerance > 1 {
		return fmt.Errorf("tolerance must be between 0 and 1, got %f", c.Tolerance)
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.LogLevel] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// envStr reads an environment variable, falling back to the default when
// unset or empty.
func envStr(key, defaultVal string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return defaultVal
}

// envFloat reads an environment variable and parses it as a float.
// Returns the default value if the env var is unset, empty, or invalid.
func envFloat(key string, defaultVal float64) float64 {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return defaultVal
}
