package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/facetag/facetag/internal/config"
	"github.com/facetag/facetag/internal/logging"
)

// Options holds shared configuration for the annotate, find, list, and
// probe commands.
type Options struct {
	KnownFacesDir string
	VideoPath     string
	OutputPath    string
	OutputCodec   string
	ModelsDir     string
	Tolerance     float64
	Strict        bool
}

var (
	opts = &Options{}
	// cfg is the resolved configuration shared by subcommands.
	cfg *config.Config
	// configPath is the --config flag.
	configPath string
	verbose    bool
)

// Version is the application version.
const Version = "0.0.1"

var rootCmd = &cobra.Command{
	Use:     "facetag",
	Short:   "Offline face recognition and annotation for video files",
	Version: Version, // This enables the --version flag
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A .env file in the working directory can supply the FACETAG_*
		// overrides without touching the shell environment.
		godotenv.Load()

		var err error
		if configPath != "" {
			if cfg, err = config.Load(configPath); err != nil {
				return fmt.Errorf("failed to load config %s: %w", configPath, err)
			}
		} else if cfg, err = config.LoadDefault(); err != nil {
			return err
		}

		if verbose {
			cfg.LogLevel = "debug"
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := logging.Init(cfg.LogLevel, cfg.LogFile); err != nil {
			return fmt.Errorf("failed to initialize logging: %w", err)
		}

		// Flags that were not provided fall back to the config values.
		if opts.KnownFacesDir == "" {
			opts.KnownFacesDir = cfg.KnownFacesDir
		}
		if opts.VideoPath == "" {
			opts.VideoPath = cfg.VideoPath
		}
		if opts.OutputPath == "" {
			opts.OutputPath = cfg.OutputPath
		}
		if opts.OutputCodec == "" {
			opts.OutputCodec = cfg.OutputCodec
		}
		if opts.ModelsDir == "" {
			opts.ModelsDir = cfg.ModelsDir
		}
		if opts.Tolerance == 0 {
			opts.Tolerance = cfg.Tolerance
		}
		return nil
	},
}

func Execute() {
	// Create a context that listens for Ctrl+C (SIGINT) or Kill (SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// This tells Cobra not to print the version in the help text, which is cleaner.
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a facetag.yaml config file")
	rootCmd.PersistentFlags().StringVarP(&opts.KnownFacesDir, "known-faces", "k", "", "directory of reference face images (default: known_faces_dir from config)")
	rootCmd.PersistentFlags().StringVar(&opts.ModelsDir, "models", "", "directory holding the recognition model files (default: models_dir from config)")
	rootCmd.PersistentFlags().Float64VarP(&opts.Tolerance, "tolerance", "t", 0, "face match tolerance, lower is stricter (default: tolerance from config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
