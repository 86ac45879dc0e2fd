package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/jcodify/blockreg/internal/blocks"
	"github.com/jcodify/blockreg/internal/config"
	"github.com/jcodify/blockreg/internal/logging"
	"github.com/spf13/cobra"
)

// commandEnv bundles the resolved settings and logger for one command run.
type commandEnv struct {
	settings config.Settings
	logger   *log.Logger
}

func loadEnv(cmd *cobra.Command) (*commandEnv, error) {
	settings, err := config.Current()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	logger, err := logging.New(cmd.ErrOrStderr(), settings.LogLevel)
	if err != nil {
		return nil, err
	}
	return &commandEnv{settings: settings, logger: logger}, nil
}

// reconciler builds a Reconciler for the configured trees. registrar may be
// nil for commands that never register. With dryRun set nothing is deleted.
func (e *commandEnv) reconciler(registrar blocks.Registrar, dryRun bool) (*blocks.Reconciler, error) {
	return blocks.New(registrar, blocks.Options{
		ManifestFile: e.settings.ManifestFile,
		Ignore:       e.settings.Ignore,
		Logger:       e.logger,
		DryRun:       dryRun,
	})
}

// treeRoots maps a --tree value to the roots it selects.
func (e *commandEnv) treeRoots(tree string) ([]namedRoot, error) {
	build := namedRoot{Name: "build", Path: e.settings.BuildRoot()}
	src := namedRoot{Name: "src", Path: e.settings.SourceRoot()}
	switch tree {
	case "build":
		return []namedRoot{build}, nil
	case "src", "source":
		return []namedRoot{src}, nil
	case "both", "":
		return []namedRoot{build, src}, nil
	default:
		return nil, fmt.Errorf("unknown tree %q (use build, src, or both)", tree)
	}
}

type namedRoot struct {
	Name string
	Path string
}
