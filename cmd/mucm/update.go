// Update command patches a use case's header fields.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mucm/internal/coordinator"
)

var (
	updateTitle       string
	updateCategory    string
	updateDescription string
	updatePriority    string
)

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update title, category, description, or priority",
	Long: `Update applies a sparse patch: only the flags given change. A category
change moves the source record and its Markdown files into the new
category directory; the id is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		var patch coordinator.Patch
		if cmd.Flags().Changed("title") {
			patch.Title = &updateTitle
		}
		if cmd.Flags().Changed("category") {
			patch.Category = &updateCategory
		}
		if cmd.Flags().Changed("description") {
			patch.Description = &updateDescription
		}
		if cmd.Flags().Changed("priority") {
			patch.Priority = &updatePriority
		}

		p := openProject()
		defer p.Close()

		uc, warnings, err := p.Coordinator.Update(id, patch)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)

		if flagJSON {
			printJSON(summarize(uc))
		} else {
			fmt.Printf("Updated %s\n", uc.ID)
		}
		return nil
	},
}

func init() {
	updateCmd.Flags().StringVar(&updateTitle, "title", "", "new title")
	updateCmd.Flags().StringVar(&updateCategory, "category", "", "new category")
	updateCmd.Flags().StringVar(&updateDescription, "description", "", "new description")
	updateCmd.Flags().StringVar(&updatePriority, "priority", "", "new priority")
}
