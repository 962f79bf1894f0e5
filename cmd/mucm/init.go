// Init command prepares a project tree for use case authoring.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mucm/pkg/mucm"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a mucm project",
	Long: `Init writes a default mucm.toml and installs the bundled methodology
templates (business, developer, testing) under the configuration
directory. Existing files are never overwritten, so init is safe to run
in a project that is already set up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		err := mucm.Init(mucm.Options{
			ProjectDir: flagProjectDir,
			ConfigDir:  flagConfigDir,
		})
		if err != nil {
			fmt.Fprintln(os.Stderr, "init:", err)
			os.Exit(exitSysError)
		}
		fmt.Println("Project initialized")
		return nil
	},
}
