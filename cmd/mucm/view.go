// View commands attach and detach methodology views.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Manage the views of a use case",
}

var viewAddCmd = &cobra.Command{
	Use:   "add <id> <methodology> <level>",
	Short: "Add a view and render it",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, methodology, level := args[0], args[1], args[2]
		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.AddView(id, methodology, level)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Added view %s/%s to %s\n", methodology, level, id)
		return nil
	},
}

var viewRemoveCmd = &cobra.Command{
	Use:   "remove <id> <methodology>",
	Short: "Remove a view and delete its Markdown file",
	Long: `Remove detaches a view and deletes the corresponding Markdown file.
The methodology's field values stay in the source record; run
"mucm fields cleanup" to drop them. The last view cannot be removed.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, methodology := args[0], args[1]
		p := openProject()
		defer p.Close()

		if _, err := p.Coordinator.RemoveView(id, methodology); err != nil {
			failNotFound(p, id, err)
		}
		fmt.Printf("Removed view %s from %s\n", methodology, id)
		return nil
	},
}

func init() {
	viewCmd.AddCommand(viewAddCmd)
	viewCmd.AddCommand(viewRemoveCmd)
}
