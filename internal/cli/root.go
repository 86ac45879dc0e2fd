package cli

import (
	"os"

	"github.com/jcodify/blockreg/internal/branding"
	"github.com/jcodify/blockreg/internal/config"
	"github.com/jcodify/blockreg/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` finds block manifests (block.json) in a build tree, removes stale
duplicate build output, keeps the blocks that also exist in the source tree,
and registers them into a block index.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.Load()
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("base-dir", "", "Project base directory (default: working directory)")
	pf.String("build-dir", "", "Build tree, relative to the base directory (default "+config.DefaultBuildDir+")")
	pf.String("src-dir", "", "Source tree, relative to the base directory (default "+config.DefaultSrcDir+")")
	pf.String("manifest-file", "", "Manifest file name (default "+config.DefaultManifestFile+")")
	pf.String("log-level", "", "Log level: debug, info, warn, error (default "+config.DefaultLogLevel+")")

	bindings := map[string]string{
		config.KeyBaseDir:      "base-dir",
		config.KeyBuildDir:     "build-dir",
		config.KeySrcDir:       "src-dir",
		config.KeyManifestFile: "manifest-file",
		config.KeyLogLevel:     "log-level",
	}
	for key, flag := range bindings {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	err := rootCmd.Execute()
	if err != nil {
		logger, logErr := logging.New(os.Stderr, viper.GetString(config.KeyLogLevel))
		if logErr != nil {
			logger, _ = logging.New(os.Stderr, "")
		}
		logger.Error(err.Error())
	}
	return err
}
