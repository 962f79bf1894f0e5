// List command queries the corpus with optional filters.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mucm/internal/index"
	"github.com/mesh-intelligence/mucm/pkg/types"
)

var (
	listCategory string
	listPriority string
	listStatus   string
	listTitle    string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List use cases with optional filters",
	Long: `List prints one line per use case. Filters are ANDed together; the
status filter matches the aggregated status derived from scenarios.

Example:
  mucm list
  mucm list --category authentication --status implemented
  mucm list --title login`,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := openProject()
		defer p.Close()

		summaries, err := p.Coordinator.List(index.Filter{
			Category:   listCategory,
			Priority:   listPriority,
			Status:     listStatus,
			TitleQuery: listTitle,
		})
		if err != nil {
			fail(err)
		}

		if flagJSON {
			printJSON(summaries)
			return nil
		}
		if len(summaries) == 0 {
			fmt.Println("No use cases found")
			return nil
		}
		for _, s := range summaries {
			fmt.Printf("%s  %-10s %-8s %s %-12s %s\n",
				s.ID, s.Category, types.PriorityDisplay(s.Priority),
				types.StatusMarker(s.Status), types.StatusDisplay(s.Status), s.Title)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listCategory, "category", "", "filter by category")
	listCmd.Flags().StringVar(&listPriority, "priority", "", "filter by priority")
	listCmd.Flags().StringVar(&listStatus, "status", "", "filter by aggregated status")
	listCmd.Flags().StringVar(&listTitle, "title", "", "filter by title substring")
}
