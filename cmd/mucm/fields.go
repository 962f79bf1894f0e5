// Fields commands manage methodology field bags.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Manage methodology field values",
}

var fieldsSetCmd = &cobra.Command{
	Use:   "set <id> <methodology> <key=value>...",
	Short: "Replace the field values for a methodology",
	Long: `Set replaces the whole field bag for the methodology: keys not given
are removed. Values are coerced against the view's schema; unknown keys
are kept verbatim and flagged by validate.

Example:
  mucm fields set UC-AUT-001 business user_story="As a user..." stakeholders=security,product`,
	Args: cobra.MinimumNArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, methodology := args[0], args[1]
		fields, err := parseFieldArgs(args[2:])
		if err != nil {
			fmt.Fprintln(os.Stderr, "fields set:", err)
			os.Exit(exitUserError)
		}

		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.UpdateMethodologyFields(id, methodology, fields)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Set %d field(s) on %s/%s\n", len(fields), id, methodology)
		return nil
	},
}

var fieldsCleanupDryRun bool

var fieldsCleanupCmd = &cobra.Command{
	Use:   "cleanup [id]",
	Short: "Remove field bags no view references",
	Long: `Cleanup removes methodology field bags whose methodology has no view
any more, for one use case or for the whole corpus. With --dry-run the
report is printed and nothing is written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := ""
		if len(args) == 1 {
			id = args[0]
		}

		p := openProject()
		defer p.Close()

		report, err := p.Coordinator.CleanupMethodologyFields(id, fieldsCleanupDryRun)
		if err != nil {
			if id != "" {
				failNotFound(p, id, err)
			}
			fail(err)
		}

		if len(report) == 0 {
			fmt.Println("Nothing to clean up")
			return nil
		}
		verb := "Removed"
		if fieldsCleanupDryRun {
			verb = "Would remove"
		}
		for _, entry := range report {
			fmt.Printf("%s %s from %s\n", verb, strings.Join(entry.Methodologies, ", "), entry.ID)
		}
		return nil
	},
}

func init() {
	fieldsCleanupCmd.Flags().BoolVar(&fieldsCleanupDryRun, "dry-run", false, "report without writing")

	fieldsCmd.AddCommand(fieldsSetCmd)
	fieldsCmd.AddCommand(fieldsCleanupCmd)
}
