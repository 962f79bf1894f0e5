// Create command mints a new use case and renders its views.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mucm/internal/coordinator"
	"github.com/mesh-intelligence/mucm/pkg/types"
)

var (
	createTitle       string
	createCategory    string
	createDescription string
	createPriority    string
	createViews       []string
	createFields      []string
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new use case",
	Long: `Create mints the next free id for the category, writes the source
record, and renders one Markdown file per view.

Example:
  mucm create --title "User Login" --category authentication \
    --priority high --view business:normal --view developer:detailed \
    --field user_story="As a user, I want to log in"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if createTitle == "" {
			fmt.Fprintln(os.Stderr, "create: --title is required")
			os.Exit(exitUserError)
		}
		if createCategory == "" {
			fmt.Fprintln(os.Stderr, "create: --category is required")
			os.Exit(exitUserError)
		}

		var views []types.View
		for _, raw := range createViews {
			v, err := parseView(raw)
			if err != nil {
				fmt.Fprintln(os.Stderr, "create:", err)
				os.Exit(exitUserError)
			}
			views = append(views, v)
		}
		fields, err := parseFieldArgs(createFields)
		if err != nil {
			fmt.Fprintln(os.Stderr, "create:", err)
			os.Exit(exitUserError)
		}

		p := openProject()
		defer p.Close()

		uc, warnings, err := p.Coordinator.Create(coordinator.CreateRequest{
			Title:       createTitle,
			Category:    createCategory,
			Description: createDescription,
			Priority:    createPriority,
			Views:       views,
			ExtraFields: fields,
		})
		if err != nil {
			fail(err)
		}
		printWarnings(warnings)

		if flagJSON {
			printJSON(summarize(uc))
		} else {
			fmt.Printf("Created %s: %s\n", uc.ID, uc.Title)
		}
		return nil
	},
}

func init() {
	createCmd.Flags().StringVar(&createTitle, "title", "", "use case title (required)")
	createCmd.Flags().StringVar(&createCategory, "category", "", "use case category (required)")
	createCmd.Flags().StringVar(&createDescription, "description", "", "free-form description")
	createCmd.Flags().StringVar(&createPriority, "priority", "", "low, medium, high, or critical")
	createCmd.Flags().StringArrayVar(&createViews, "view", nil, "view as methodology:level (repeatable)")
	createCmd.Flags().StringArrayVar(&createFields, "field", nil, "initial field as key=value (repeatable)")
}
