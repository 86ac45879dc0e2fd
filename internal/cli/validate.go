package cli

import (
	"fmt"

	"github.com/jcodify/blockreg/internal/manifest"
	"github.com/spf13/cobra"
)

var validateTree string

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate block manifests against the manifest schema",
	Long: `Check every manifest in the selected tree against the block manifest schema.
A manifest must declare a namespaced name (namespace/block-name); a declared
version must be a semantic version.`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVar(&validateTree, "tree", "src", "Tree to validate: build, src, or both")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	roots, err := env.treeRoots(validateTree)
	if err != nil {
		return err
	}
	rec, err := env.reconciler(nil, false)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	var checked, invalid int
	for _, root := range roots {
		res, err := rec.Scan(root.Path)
		if err != nil {
			return fmt.Errorf("scanning %s tree: %w", root.Name, err)
		}
		for _, e := range res.Entries {
			checked++
			result, err := manifest.ValidateFile(e.Path)
			if err != nil {
				invalid++
				fmt.Fprintf(out, "✗ %s\n    %v\n", e.Path, err)
				continue
			}
			if result.Valid {
				env.logger.Debug("manifest valid", "path", e.Path)
				continue
			}
			invalid++
			fmt.Fprintf(out, "✗ %s\n", e.Path)
			for _, issue := range result.Issues {
				path := issue.Path
				if path == "" {
					path = "/"
				}
				fmt.Fprintf(out, "    %s: %s\n", path, issue.Message)
			}
		}
	}

	if invalid > 0 {
		return fmt.Errorf("%d of %d manifest(s) invalid", invalid, checked)
	}
	fmt.Fprintf(out, "All %d manifest(s) valid.\n", checked)
	return nil
}
