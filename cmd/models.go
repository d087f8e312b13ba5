package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/facetag/facetag/internal/engine"
	"github.com/facetag/facetag/internal/utils"
)

const megabyte = 1024 * 1024

var modelsDownload bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Show or download the face recognition model files",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runModels()
	},
}

func init() {
	modelsCmd.Flags().BoolVar(&modelsDownload, "download", false, "download any missing model files")
	rootCmd.AddCommand(modelsCmd)
}

func runModels() error {
	if modelsDownload {
		if err := engine.Download(opts.ModelsDir); err != nil {
			utils.ShowError("Model download failed", err, nil)
			return err
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "MODEL\tSTATUS\tSIZE")
	fmt.Fprintln(w, "-----\t------\t----")
	for _, m := range engine.Models {
		path := filepath.Join(opts.ModelsDir, m.Name)
		if info, err := os.Stat(path); err == nil {
			fmt.Fprintf(w, "%s\tpresent\t%.1f MB\n", m.Name, float64(info.Size())/megabyte)
		} else {
			fmt.Fprintf(w, "%s\tmissing\t-\n", m.Name)
		}
	}
	w.Flush()

	if err := engine.CheckModels(opts.ModelsDir); err != nil {
		fmt.Println("\n⚠️  Missing model files. Run 'facetag models --download' to fetch them.")
	} else {
		fmt.Println("\n✅ All model files present.")
	}
	return nil
}
