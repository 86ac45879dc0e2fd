package cli

import (
	"encoding/json"
	"fmt"

	"github.com/jcodify/blockreg/internal/branding"
	"github.com/spf13/cobra"
)

var (
	versionShort bool
	versionJSON  bool
)

func init() {
	versionCmd.Flags().BoolVar(&versionShort, "short", false, "Print version number only")
	versionCmd.Flags().BoolVar(&versionJSON, "json", false, "Print version info as JSON")
	rootCmd.AddCommand(versionCmd)
}

// buildInfo is the version command's JSON shape.
type buildInfo struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
	Repo    string `json:"repo"`
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func runVersion(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	info := buildInfo{
		Version: buildVersion,
		Commit:  buildCommit,
		Date:    buildDate,
		Repo:    branding.GitHubRepo(),
	}

	switch {
	case versionShort:
		_, err := fmt.Fprintln(out, info.Version)
		return err
	case versionJSON:
		data, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling version info: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	default:
		_, err := fmt.Fprintf(out, "%s %s (commit: %s, built: %s)\n", branding.CLIName(), info.Version, info.Commit, info.Date)
		return err
	}
}
