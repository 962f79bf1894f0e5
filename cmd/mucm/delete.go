// Delete command removes a use case and all its rendered files.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a use case and its Markdown files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		p := openProject()
		defer p.Close()

		if err := p.Coordinator.Delete(id); err != nil {
			failNotFound(p, id, err)
		}
		fmt.Printf("Deleted %s\n", id)
		return nil
	},
}
