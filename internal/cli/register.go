package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jcodify/blockreg/internal/blocks"
	"github.com/jcodify/blockreg/internal/registry"
	"github.com/jcodify/blockreg/internal/watch"
	"github.com/spf13/cobra"
)

var (
	registerAll      bool
	registerDryRun   bool
	registerIndex    string
	registerWatch    bool
	registerDebounce time.Duration
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register reconciled blocks into the block index",
	Long: `Remove duplicate build output, keep the build manifests whose directory also
exists in the source tree, and write them to the block index.

With --all the source tree is ignored and every build manifest is registered.
With --watch the command keeps running and registers again whenever a
manifest in the build tree changes.`,
	RunE: runRegister,
}

func init() {
	registerCmd.Flags().BoolVar(&registerAll, "all", false, "Register every build manifest without reconciling against the source tree")
	registerCmd.Flags().BoolVar(&registerDryRun, "dry-run", false, "Print what would be removed and registered; nothing is deleted or written")
	registerCmd.Flags().StringVar(&registerIndex, "index", "", "Index file to write (default: index_path setting)")
	registerCmd.Flags().BoolVar(&registerWatch, "watch", false, "Keep running and re-register when build manifests change")
	registerCmd.Flags().DurationVar(&registerDebounce, "debounce", watch.DefaultDebounce, "Quiet period before re-registering in watch mode")
	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	env, err := loadEnv(cmd)
	if err != nil {
		return err
	}

	indexPath := env.settings.IndexFile()
	if registerIndex != "" {
		indexPath = registerIndex
	}

	pass := func() error {
		return registerPass(cmd.OutOrStdout(), env, indexPath)
	}

	if !registerWatch {
		return pass()
	}

	if err := pass(); err != nil {
		env.logger.Error("registration failed", "error", err)
	}

	w, err := watch.New(watch.Config{
		Dir:      env.settings.BuildRoot(),
		Patterns: []string{"**/" + env.settings.ManifestFile},
		Ignore:   env.settings.Ignore,
		Debounce: registerDebounce,
		Logger:   env.logger,
		OnChange: func(_ context.Context, changed []string) error {
			env.logger.Info("build tree changed", "manifests", len(changed))
			return pass()
		},
	})
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	env.logger.Info("watching build tree", "dir", env.settings.BuildRoot())
	return w.Run(ctx)
}

// registerPass runs one reconciliation pass and writes the index.
func registerPass(out io.Writer, env *commandEnv, indexPath string) error {
	buildRoot := env.settings.BuildRoot()
	sourceRoot := env.settings.SourceRoot()
	if registerAll {
		sourceRoot = ""
	}

	var (
		registrar blocks.Registrar
		index     *registry.Index
	)
	if registerDryRun {
		registrar = registry.NewDryRun(out)
	} else {
		index = registry.NewIndex(buildRoot, sourceRoot, registry.WithLogger(env.logger))
		registrar = index
	}

	rec, err := env.reconciler(registrar, registerDryRun)
	if err != nil {
		return err
	}

	var report *blocks.Report
	if registerAll {
		report, err = rec.RegisterAll(buildRoot)
	} else {
		report, err = rec.RegisterReconciled(sourceRoot, buildRoot)
	}
	if err != nil {
		return err
	}

	if index != nil {
		if err := index.Write(indexPath); err != nil {
			return err
		}
	}

	printReport(out, report, index, indexPath)
	return nil
}

func printReport(out io.Writer, report *blocks.Report, index *registry.Index, indexPath string) {
	printRemovals(out, report.Removed, index == nil)
	if n := len(report.Skipped); n > 0 {
		fmt.Fprintf(out, "Skipped %d build manifest(s) without a source counterpart\n", n)
	}
	if index == nil {
		fmt.Fprintf(out, "Dry run: %d block(s) would be registered\n", len(report.Registered))
		return
	}
	for _, r := range index.Rejected() {
		fmt.Fprintf(out, "Rejected %s: %s\n", r.ManifestPath, r.Reason)
	}
	fmt.Fprintf(out, "Registered %d block(s) into %s\n", index.Len(), indexPath)
}

func printRemovals(out io.Writer, removals []blocks.Removal, dryRun bool) {
	verb := "Removed"
	if dryRun {
		verb = "Would remove"
	}
	for _, r := range removals {
		fmt.Fprintf(out, "%s duplicate %s at %s (kept %s)\n", verb, r.Name, r.Path, r.Kept)
	}
}
