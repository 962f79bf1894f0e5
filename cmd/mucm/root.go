// Root command for the mucm CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mucm/pkg/mucm"
)

// Exit codes: 0 success, 1 validation or user error, 2 I/O or
// serialisation error.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// Global flag values.
var (
	flagProjectDir string
	flagConfigDir  string
	flagJSON       bool
	flagNoIndex    bool
)

var rootCmd = &cobra.Command{
	Use:     "mucm",
	Short:   "mucm authors use case documents from persistent source records",
	Version: mucm.Version,
	Long: `mucm keeps use cases as TOML source records and projects them into
Markdown views, one per methodology and detail level. The source records
are the single source of truth; every Markdown file can be regenerated
from them at any time.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits the process on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUserError)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProjectDir, "project-dir", "", "project root (default: $MUCM_PROJECT_DIR or CWD)")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "configuration directory (default: <project>/.config/.mucm)")
	rootCmd.PersistentFlags().BoolVar(&flagJSON, "json", false, "output as JSON")
	rootCmd.PersistentFlags().BoolVar(&flagNoIndex, "no-index", false, "skip the derived sqlite index")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(createCmd)
	rootCmd.AddCommand(updateCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(regenerateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(viewCmd)
	rootCmd.AddCommand(fieldsCmd)
	rootCmd.AddCommand(refCmd)
	rootCmd.AddCommand(conditionCmd)
	rootCmd.AddCommand(scenarioCmd)
	rootCmd.AddCommand(actorCmd)
	rootCmd.AddCommand(methodologyCmd)
}
