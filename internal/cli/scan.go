package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/jcodify/blockreg/internal/manifest"
	"github.com/spf13/cobra"
)

var (
	scanTree string
	scanJSON bool
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "List block manifests in the build and source trees",
	Long: `List every block manifest found in the configured trees together with its
reconciliation key (the manifest directory relative to the tree root).`,
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanTree, "tree", "both", "Tree to scan: build, src, or both")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(scanCmd)
}

// scanEntry represents a discovered manifest for display.
type scanEntry struct {
	Tree   string `json:"tree"`
	RelDir string `json:"rel_dir"`
	Name   string `json:"name,omitempty"`
	Path   string `json:"path"`
}

func runScan(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	roots, err := env.treeRoots(scanTree)
	if err != nil {
		return err
	}
	rec, err := env.reconciler(nil, false)
	if err != nil {
		return err
	}

	entries := []scanEntry{}
	for _, root := range roots {
		res, err := rec.Scan(root.Path)
		if err != nil {
			return fmt.Errorf("scanning %s tree: %w", root.Name, err)
		}
		for _, e := range res.Entries {
			name, _ := manifest.DeclaredName(e.Path)
			entries = append(entries, scanEntry{
				Tree:   root.Name,
				RelDir: e.RelDir,
				Name:   name,
				Path:   e.Path,
			})
		}
	}

	if scanJSON {
		data, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No block manifests found.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TREE\tDIR\tNAME\tPATH")
	for _, e := range entries {
		name := e.Name
		if name == "" {
			name = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Tree, e.RelDir, name, e.Path)
	}
	return w.Flush()
}
