package cmd

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/disintegration/imaging"
	"github.com/spf13/cobra"

	"github.com/facetag/facetag/internal/engine"
	"github.com/facetag/facetag/internal/match"
	"github.com/facetag/facetag/internal/refset"
	"github.com/facetag/facetag/internal/utils"
)

var findCmd = &cobra.Command{
	Use:   "find <image_path>",
	Short: "Identify the face in a photo against the known faces",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runFind(args[0])
	},
}

func init() {
	rootCmd.AddCommand(findCmd)
}

func runFind(imagePath string) error {
	if _, err := os.Stat(imagePath); os.IsNotExist(err) {
		utils.ShowError("Input file does not exist", err, nil)
		return err
	}

	fmt.Fprintln(os.Stderr, "🚀 Starting recognition engine...")
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
		fmt.Printf("❌ No known faces found in %q.\n", opts.KnownFacesDir)
		return nil
	}

	img, err := imaging.Open(imagePath, imaging.AutoOrientation(true))
	if err != nil {
		utils.ShowError("Failed to read image file", err, nil)
		return err
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(95)); err != nil {
		utils.ShowError("Failed to encode image for detection", err, nil)
		return err
	}

	fmt.Fprintln(os.Stderr, "🔍 Analyzing face...")
	faces, err := eng.Recognize(buf.Bytes())
	if err != nil {
		utils.ShowError("Face detection failed", err, nil)
		return err
	}
	if len(faces) == 0 {
		fmt.Println("❌ No faces detected in the provided image.")
		return nil
	}

	// Pick largest face if multiple
	best := faces[0]
	if len(faces) > 1 {
		fmt.Printf("⚠️  Multiple faces detected (%d). Using the largest face.\n", len(faces))
		maxArea := best.Rect.Dx() * best.Rect.Dy()
		for _, f := range faces[1:] {
			if area := f.Rect.Dx() * f.Rect.Dy(); area > maxArea {
				maxArea = area
				best = f
			}
		}
	}

	distances := match.FaceDistances(refs.Descriptors(), best.Descriptor)
	idx := match.BestMatch(distances)

	if distances[idx] > opts.Tolerance {
		fmt.Printf("❌ No match within tolerance %.2f (closest: %s at %.3f).\n",
			opts.Tolerance, refs.Names()[idx], distances[idx])
	} else {
		fmt.Printf("✅ Found Match: %s (distance %.3f)\n", refs.Names()[idx], distances[idx])
	}

	// Full ranking, nearest first.
	order := make([]int, len(distances))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return distances[order[a]] < distances[order[b]] })

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "\nNAME\tDISTANCE\tWITHIN TOLERANCE")
	fmt.Fprintln(w, "----\t--------\t----------------")
	for _, i := range order {
		within := ""
		if distances[i] <= opts.Tolerance {
			within = "yes"
		}
		fmt.Fprintf(w, "%s\t%.3f\t%s\n", refs.Names()[i], distances[i], within)
	}
	w.Flush()

	return nil
}
