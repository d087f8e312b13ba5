package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/facetag/facetag/internal/utils"
	"github.com/facetag/facetag/internal/video"
)

var probeCmd = &cobra.Command{
	Use:   "probe <video_path>",
	Short: "Show the metadata facetag reads from a video file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runProbe(cmd, args[0])
	},
}

func init() {
	rootCmd.AddCommand(probeCmd)
}

func runProbe(cmd *cobra.Command, path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		utils.ShowError("Input file does not exist", err, nil)
		return err
	}

	info, err := video.Probe(cmd.Context(), path)
	if err != nil {
		utils.ShowError("Failed to read video metadata", err, nil)
		return err
	}

	videoID, err := utils.VideoID(path)
	if err != nil {
		utils.ShowError("Failed to generate video ID", err, nil)
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintf(w, "Video ID\t%s\n", videoID[:12])
	fmt.Fprintf(w, "Path\t%s\n", path)
	fmt.Fprintf(w, "Dimensions\t%dx%d\n", info.Width, info.Height)
	fmt.Fprintf(w, "Frame rate\t%s (%.2f fps)\n", info.FrameRate, info.FPS())
	fmt.Fprintf(w, "Frames\t%d\n", info.TotalFrames)
	fmt.Fprintf(w, "Duration\t%s\n", fmtTime(info.Duration))
	fmt.Fprintf(w, "Codec\t%s\n", info.Codec)
	w.Flush()

	return nil
}

func fmtTime(seconds float64) string {
	duration := time.Duration(seconds * float64(time.Second))
	h := int(duration.Hours())
	m := int(duration.Minutes()) % 60
	s := int(duration.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
