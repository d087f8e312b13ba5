package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/facetag/facetag/internal/engine"
	"github.com/facetag/facetag/internal/refset"
	"github.com/facetag/facetag/internal/utils"
)

var listCheck bool

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the known faces in the reference directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true
		return runList()
	},
}

func init() {
	listCmd.Flags().BoolVar(&listCheck, "check", false, "warn about reference pairs close enough to be confused for each other")
	rootCmd.AddCommand(listCmd)
}

func runList() error {
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
		fmt.Printf("No known faces found in %q.\n", opts.KnownFacesDir)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "NAME\tSOURCE")
	fmt.Fprintln(w, "----\t------")
	for _, ref := range refs.References() {
		fmt.Fprintf(w, "%s\t%s\n", ref.Name, ref.Source)
	}
	w.Flush()

	if !listCheck {
		return nil
	}

	pairs := refs.ConfusablePairs(opts.Tolerance)
	if len(pairs) == 0 {
		fmt.Printf("\n✅ No reference pairs within tolerance %.2f of each other.\n", opts.Tolerance)
		return nil
	}

	names := refs.Names()
	fmt.Printf("\n⚠️  %d reference pair(s) within tolerance %.2f of each other:\n", len(pairs), opts.Tolerance)
	for _, p := range pairs {
		fmt.Printf("   %s ↔ %s (whichever loads first wins their ties)\n", names[p[0]], names[p[1]])
	}
	return nil
}
