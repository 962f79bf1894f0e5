// Regenerate command re-renders Markdown from the source records.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var regenerateCmd = &cobra.Command{
	Use:   "regenerate [id]",
	Short: "Re-render Markdown views from source",
	Long: `Regenerate reads the source records and rewrites their Markdown
projections. With an id only that use case is re-rendered; without one
the whole corpus and the overview are rebuilt. Source records are never
modified.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := ""
		if len(args) == 1 {
			id = args[0]
		}

		p := openProject()
		defer p.Close()

		warnings, err := p.Coordinator.Regenerate(id)
		if err != nil {
			if id != "" {
				failNotFound(p, id, err)
			}
			fail(err)
		}
		printWarnings(warnings)

		if id != "" {
			fmt.Printf("Regenerated %s\n", id)
		} else {
			fmt.Println("Regenerated all use cases")
		}
		return nil
	},
}
