package cmd

import (
	"errors"
	"fmt"
	"image"
	"io"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/facetag/facetag/internal/annotate"
	"github.com/facetag/facetag/internal/engine"
	"github.com/facetag/facetag/internal/logging"
	"github.com/facetag/facetag/internal/refset"
	"github.com/facetag/facetag/internal/utils"
	"github.com/facetag/facetag/internal/video"
)

// progressInterval is the number of frames between periodic progress lines.
const progressInterval = 30

var annotateCmd = &cobra.Command{
	Use:   "annotate [video]",
	Short: "Annotate a video with the names of recognized faces",
	Long: `Annotate reads the input video frame by frame, finds the faces in each
frame, matches them against the reference images in the known faces
directory, and writes a copy of the video with a box and name label drawn
on every face. Faces that match no reference within tolerance are labeled
"Unknown".`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		if len(args) > 0 {
			opts.VideoPath = args[0]
		}
		return runAnnotate(cmd)
	},
}

func init() {
	annotateCmd.Flags().StringVarP(&opts.VideoPath, "input", "i", "", "path to the input video (default: video_path from config)")
	annotateCmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "path for the annotated output video (default: output_path from config)")
	annotateCmd.Flags().StringVar(&opts.OutputCodec, "codec", "", "output codec, one of AVC1, H264, MJPG, MP4V, XVID (default: output_codec from config)")
	annotateCmd.Flags().BoolVar(&opts.Strict, "strict", false, "abort on the first failed frame instead of passing it through unannotated")
	rootCmd.AddCommand(annotateCmd)
}

// runAnnotate orchestrates the full pass: load references, probe the input,
// then decode, annotate, and encode strictly one frame at a time.
func runAnnotate(cmd *cobra.Command) error {
	ctx := cmd.Context()
	log := logging.Component("annotate")

	// 1. Bootstrap the known faces directory on first run.
	created, err := refset.EnsureDir(opts.KnownFacesDir)
	if err != nil {
		utils.ShowError("Failed to create known faces directory", err, nil)
		return err
	}
	if created {
		fmt.Fprintf(os.Stderr, "📁 Created %q.\n", opts.KnownFacesDir)
		fmt.Fprintln(os.Stderr, "   Put images of known faces there (the filename becomes the label, e.g. Jane_Doe.png) and run again.")
		return fmt.Errorf("no reference images in %q yet", opts.KnownFacesDir)
	}

	if err := validateAnnotateFlags(opts); err != nil {
		return err
	}

	// 2. Start the recognition engine and load the reference set.
	eng, err := engine.New(opts.ModelsDir)
	if err != nil {
		utils.ShowError("Failed to start the recognition engine", err, nil)
		return err
	}
	defer eng.Close()

	refs, err := refset.Load(eng, opts.KnownFacesDir)
	if err != nil {
		utils.ShowError("Failed to load known faces", err, nil)
		return err
	}
	if refs.Empty() {
		fmt.Fprintf(os.Stderr, "❌ No known faces found in %q.\n", opts.KnownFacesDir)
		return errors.New("no known faces found")
	}

	// 3. Probe the input video for geometry, frame rate, and length.
	info, err := video.Probe(ctx, opts.VideoPath)
	if err != nil {
		utils.ShowError("Failed to read video metadata", err, nil)
		return err
	}

	videoID, err := utils.VideoID(opts.VideoPath)
	if err != nil {
		utils.ShowError("Failed to generate video ID", err, nil)
		return err
	}
	fmt.Fprintf(os.Stderr, "📼 Processing Video ID: %s\n", videoID[:12])
	fmt.Fprintf(os.Stderr, "🎞️  %s: %dx%d @ %.2f fps, %d frames\n",
		opts.VideoPath, info.Width, info.Height, info.FPS(), info.TotalFrames)

	ann, err := annotate.New(eng, refs, opts.Tolerance)
	if err != nil {
		utils.ShowError("Failed to initialize the annotator", err, nil)
		return err
	}

	// 4. Open the decode and encode pipes. An output that fails to open
	// must release the input first.
	dec, err := video.NewDecoder(ctx, opts.VideoPath, info.Width, info.Height)
	if err != nil {
		utils.ShowError("Failed to open input video", err, nil)
		return err
	}
	enc, err := video.NewEncoder(ctx, opts.OutputPath, info.Width, info.Height, info.FrameRate, opts.OutputCodec)
	if err != nil {
		dec.Close()
		utils.ShowError("Failed to open output video", err, nil)
		return err
	}

	total := info.TotalFrames
	if total <= 0 {
		// Fallback to an unknown total if ffprobe could not count
		total = -1
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetDescription("🏷️  Annotating"),
		progressbar.OptionSetWriter(os.Stderr), // Write bar to Stderr
		progressbar.OptionShowCount(),
	)

	// 5. The frame loop. Strictly sequential: each frame is read,
	// annotated, and written before the next one is read.
	frame := video.NewBGR24(image.Rect(0, 0, info.Width, info.Height))
	processed := 0
	labeled := 0
	recognized := 0
	failed := 0
	interrupted := false

	for {
		if ctx.Err() != nil {
			interrupted = true
			break
		}

		err := dec.ReadFrame(frame)
		if err == io.EOF {
			break
		}
		if err != nil {
			utils.ShowError("Video decoding failed", err, dec.Command())
			enc.Close()
			dec.Close()
			return err
		}

		res := ann.ProcessFrame(frame, processed)
		processed++

		if res.Failed() {
			failed++
			if opts.Strict {
				utils.ShowError(fmt.Sprintf("Frame %d failed", res.Index), res.Err, nil)
				// Finalize what was written so far before giving up.
				enc.Close()
				dec.Close()
				return res.Err
			}
			log.WithError(res.Err).Warnf("Frame %d failed, passing it through unannotated", res.Index)
		} else {
			labeled += len(res.Faces)
			for _, lf := range res.Faces {
				if lf.Known {
					recognized++
				}
			}
		}

		if err := enc.WriteFrame(frame); err != nil {
			utils.ShowError("Failed to write frame to output", err, enc.Command())
			enc.Close()
			dec.Close()
			return err
		}

		bar.Add(1)
		if processed%progressInterval == 0 && (info.TotalFrames <= 0 || processed < info.TotalFrames) {
			fmt.Fprintf(os.Stderr, "\n⏱️  Processed %d frames...\n", processed)
		}
	}

	// 6. Finalize. The encoder must be closed even on the interrupt path,
	// or the container is left without its trailer.
	encErr := enc.Close()
	decErr := dec.Close()

	if interrupted {
		fmt.Fprintf(os.Stderr, "\n🛑 Interrupted after %d frames; output may be incomplete.\n", processed)
		return ctx.Err()
	}
	if encErr != nil {
		utils.ShowError("Failed to finalize output video", encErr, enc.Command())
		return encErr
	}
	if decErr != nil {
		utils.ShowError("Video decoding failed", decErr, dec.Command())
		return decErr
	}

	bar.Finish()
	fmt.Fprintf(os.Stderr, "\n🏁 Done! Processed %d frames, labeled %d faces (%d recognized, %d unknown).\n",
		processed, labeled, recognized, labeled-recognized)
	if failed > 0 {
		fmt.Fprintf(os.Stderr, "⚠️  %d frames failed detection and were passed through unannotated.\n", failed)
	}
	fmt.Fprintf(os.Stderr, "💾 Output video saved as %s\n", opts.OutputPath)
	return nil
}

// validateAnnotateFlags ensures the resolved options are usable before any
// heavy process is started.
func validateAnnotateFlags(opts *Options) error {
	info, err := os.Stat(opts.VideoPath)
	if err != nil {
		if os.IsNotExist(err) {
			utils.ShowError("Input video does not exist", err, nil)
			return err
		}
		utils.ShowError("Unable to access input video", err, nil)
		return err
	}
	if info.IsDir() {
		err := fmt.Errorf("input path %q is a directory, expected a video file", opts.VideoPath)
		utils.ShowError("Invalid input video", err, nil)
		return err
	}
	if opts.OutputPath == "" {
		err := errors.New("output path must not be empty")
		utils.ShowError("Invalid output path", err, nil)
		return err
	}
	if opts.OutputPath == opts.VideoPath {
		err := errors.New("output path must differ from the input path")
		utils.ShowError("Invalid output path", err, nil)
		return err
	}
	if err := video.ValidateCodec(opts.OutputCodec); err != nil {
		utils.ShowError(fmt.Sprintf("Invalid codec (supported: %v)", video.Codecs()), err, nil)
		return err
	}
	if opts.Tolerance <= 0 || opts.Tolerance > 1 {
		err := fmt.Errorf("tolerance must be between 0.0 and 1.0, got %f", opts.Tolerance)
		utils.ShowError("Invalid tolerance", err, nil)
		return err
	}
	return nil
}
