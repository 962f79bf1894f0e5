// Show command prints one use case.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mucm/pkg/types"
)

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a use case",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		p := openProject()
		defer p.Close()

		uc, err := p.Coordinator.Get(id)
		if err != nil {
			failNotFound(p, id, err)
		}

		if flagJSON {
			printJSON(summarize(uc))
			return nil
		}

		status := uc.AggregatedStatus()
		fmt.Printf("%s: %s\n", uc.ID, uc.Title)
		fmt.Printf("  Category:  %s\n", uc.Category)
		fmt.Printf("  Priority:  %s\n", types.PriorityDisplay(uc.Priority))
		fmt.Printf("  Status:    %s %s\n", types.StatusMarker(status), types.StatusDisplay(status))
		fmt.Printf("  Version:   %d\n", uc.Metadata.Version)
		if uc.Description != "" {
			fmt.Printf("  %s\n", uc.Description)
		}
		fmt.Println("  Views:")
		for _, v := range uc.Views {
			fmt.Printf("    %s/%s\n", v.Methodology, v.Level)
		}
		if len(uc.Scenarios) > 0 {
			fmt.Println("  Scenarios:")
			for _, s := range uc.Scenarios {
				fmt.Printf("    %s %s %s (%s, %d steps)\n",
					types.StatusMarker(s.Status), s.ID, s.Title, s.Type, len(s.Steps))
			}
		}
		return nil
	},
}
