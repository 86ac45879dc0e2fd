package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var dedupeDryRun bool

var dedupeCmd = &cobra.Command{
	Use:   "dedupe",
	Short: "Remove older build directories that duplicate a block name",
	Long: `Delete build directories whose manifest declares the same block name as a
more recently modified build directory. Only the build tree is touched. When
the older directory contains the newer copy, only its manifest is deleted.`,
	Args: cobra.NoArgs,
	RunE: runDedupe,
}

func init() {
	dedupeCmd.Flags().BoolVar(&dedupeDryRun, "dry-run", false, "Print what would be removed; nothing is deleted")
	rootCmd.AddCommand(dedupeCmd)
}

func runDedupe(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}
	rec, err := env.reconciler(nil, dedupeDryRun)
	if err != nil {
		return err
	}

	removals, err := rec.Deduplicate(env.settings.BuildRoot())
	if err != nil {
		return fmt.Errorf("deduplicating build tree: %w", err)
	}

	if len(removals) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No duplicate blocks found.")
		return nil
	}
	printRemovals(cmd.OutOrStdout(), removals, dedupeDryRun)
	return nil
}
