// Validate command reports corpus-wide consistency findings.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the corpus for consistency problems",
	Long: `Validate loads every record and reports dangling references, orphaned
methodology bags, fields missing from their view's schema, and required
fields without a value. Findings are warnings; nothing is modified.
The exit code is 1 when findings exist, 0 otherwise.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := openProject()
		defer p.Close()

		issues, err := p.Coordinator.ValidateCorpus()
		if err != nil {
			fail(err)
		}

		if flagJSON {
			printJSON(issues)
		} else if len(issues) == 0 {
			fmt.Println("No problems found")
		} else {
			for _, issue := range issues {
				if issue.ID != "" {
					fmt.Printf("%s: %s: %s\n", issue.ID, issue.Kind, issue.Detail)
				} else {
					fmt.Printf("%s: %s\n", issue.Kind, issue.Detail)
				}
			}
		}
		if len(issues) > 0 {
			os.Exit(exitUserError)
		}
		return nil
	},
}
