// Scenario commands manage a use case's scenarios, steps, and conditions.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mucm/internal/coordinator"
	"github.com/mesh-intelligence/mucm/pkg/types"
)

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Manage the scenarios of a use case",
}

var (
	scenarioAddDescription string
	scenarioAddType        string
)

var scenarioAddCmd = &cobra.Command{
	Use:   "add <id> <title>",
	Short: "Add a scenario",
	Long: `Add appends a scenario in the planned state. The type is main,
alternative, or exception (aliases like happy_path are accepted).`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, title := args[0], args[1]
		p := openProject()
		defer p.Close()

		s, warnings, err := p.Coordinator.AddScenario(id, title, scenarioAddDescription, scenarioAddType)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Added scenario %s: %s\n", s.ID, s.Title)
		return nil
	},
}

var (
	scenarioEditTitle       string
	scenarioEditDescription string
	scenarioEditType        string
)

var scenarioEditCmd = &cobra.Command{
	Use:   "edit <id> <scenario-id>",
	Short: "Edit a scenario's title, description, or type",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, scenarioID := args[0], args[1]
		var patch coordinator.ScenarioPatch
		if cmd.Flags().Changed("title") {
			patch.Title = &scenarioEditTitle
		}
		if cmd.Flags().Changed("description") {
			patch.Description = &scenarioEditDescription
		}
		if cmd.Flags().Changed("type") {
			patch.Type = &scenarioEditType
		}

		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.EditScenario(id, scenarioID, patch)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Updated scenario %s\n", scenarioID)
		return nil
	},
}

var scenarioRemoveCmd = &cobra.Command{
	Use:   "remove <id> <scenario-id>",
	Short: "Remove a scenario",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, scenarioID := args[0], args[1]
		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.DeleteScenario(id, scenarioID)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Removed scenario %s\n", scenarioID)
		return nil
	},
}

var scenarioStatusCmd = &cobra.Command{
	Use:   "status <id> <scenario-id> <status>",
	Short: "Change a scenario's status",
	Long: `Status moves a scenario along its lifecycle: planned, in_progress,
implemented, tested, deployed. Any scenario can be deprecated, and any
can be reset to planned; backward moves are rejected.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, scenarioID, status := args[0], args[1], args[2]
		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.UpdateScenarioStatus(id, scenarioID, status)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Scenario %s is now %s\n", scenarioID, types.StatusDisplay(status))
		return nil
	},
}

var scenarioPersonaCmd = &cobra.Command{
	Use:   "persona <id> <scenario-id> [actor-id]",
	Short: "Assign or clear a scenario's persona",
	Long: `Persona links an actor to the scenario. The actor must exist in the
actor store. Without an actor-id the current assignment is cleared.`,
	Args: cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, scenarioID := args[0], args[1]
		p := openProject()
		defer p.Close()

		if len(args) == 3 {
			_, warnings, err := p.Coordinator.AssignPersona(id, scenarioID, args[2])
			if err != nil {
				failNotFound(p, id, err)
			}
			printWarnings(warnings)
			fmt.Printf("Assigned %s to %s\n", args[2], scenarioID)
			return nil
		}
		_, warnings, err := p.Coordinator.UnassignPersona(id, scenarioID)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Cleared persona of %s\n", scenarioID)
		return nil
	},
}

var (
	scenarioRefType        string
	scenarioRefDescription string
)

var scenarioRefCmd = &cobra.Command{
	Use:   "ref",
	Short: "Manage scenario references",
}

var scenarioRefAddCmd = &cobra.Command{
	Use:   "add <id> <scenario-id> <target> <relationship>",
	Short: "Link a scenario to a use case or scenario",
	Long: `Add records a typed edge from the scenario to another use case or
scenario. Relationships: depends_on, triggers, includes, extends,
follows, alternative_to.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, scenarioID, target, rel := args[0], args[1], args[2], args[3]
		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.AddScenarioReference(id, scenarioID, scenarioRefType, target, rel, scenarioRefDescription)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Linked %s -> %s (%s)\n", scenarioID, target, rel)
		return nil
	},
}

var scenarioRefRemoveCmd = &cobra.Command{
	Use:   "remove <id> <scenario-id> <position>",
	Short: "Remove a scenario reference by position",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, scenarioID := args[0], args[1]
		position, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "ref remove: invalid position %q\n", args[2])
			os.Exit(exitUserError)
		}

		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.RemoveScenarioReference(id, scenarioID, position)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Removed reference %d from %s\n", position, scenarioID)
		return nil
	},
}

var (
	conditionTargetType   string
	conditionTargetID     string
	conditionRelationship string
)

var scenarioConditionCmd = &cobra.Command{
	Use:   "condition",
	Short: "Manage scenario pre- and postconditions",
}

var scenarioConditionAddCmd = &cobra.Command{
	Use:   "add <id> <scenario-id> <pre|post> <text>",
	Short: "Add a condition",
	Long: `Add appends a pre- or postcondition. A condition may link to a use
case or scenario via --target-id with --target-type and --relationship.`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, scenarioID, slot, text := args[0], args[1], args[2], args[3]

		cond := types.NewCondition(text)
		if conditionTargetID != "" {
			var err error
			cond, err = types.NewLinkedCondition(text, conditionTargetType, conditionTargetID, conditionRelationship)
			if err != nil {
				fail(err)
			}
		}

		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.AddCondition(id, scenarioID, slot, cond)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Added %scondition to %s\n", slot, scenarioID)
		return nil
	},
}

var scenarioConditionRemoveCmd = &cobra.Command{
	Use:   "remove <id> <scenario-id> <pre|post> <position>",
	Short: "Remove a condition by position",
	Args:  cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, scenarioID, slot := args[0], args[1], args[2]
		position, err := strconv.Atoi(args[3])
		if err != nil {
			fmt.Fprintf(os.Stderr, "condition remove: invalid position %q\n", args[3])
			os.Exit(exitUserError)
		}

		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.RemoveCondition(id, scenarioID, slot, position)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Removed %scondition %d from %s\n", slot, position, scenarioID)
		return nil
	},
}

var scenarioConditionReorderCmd = &cobra.Command{
	Use:   "reorder <id> <scenario-id> <pre|post> <positions>",
	Short: "Reorder conditions",
	Long: `Reorder takes a comma-separated permutation of the current zero-based
positions, e.g. "2,0,1".`,
	Args: cobra.ExactArgs(4),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, scenarioID, slot := args[0], args[1], args[2]
		order, err := parsePositions(args[3])
		if err != nil {
			fmt.Fprintln(os.Stderr, "condition reorder:", err)
			os.Exit(exitUserError)
		}

		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.ReorderConditions(id, scenarioID, slot, order)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Reordered %sconditions of %s\n", slot, scenarioID)
		return nil
	},
}

// parsePositions parses a comma-separated list of integers.
func parsePositions(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	out := make([]int, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("invalid position %q", part)
		}
		out = append(out, n)
	}
	return out, nil
}

func init() {
	scenarioAddCmd.Flags().StringVar(&scenarioAddDescription, "description", "", "scenario description")
	scenarioAddCmd.Flags().StringVar(&scenarioAddType, "type", "", "main, alternative, or exception (default main)")

	scenarioEditCmd.Flags().StringVar(&scenarioEditTitle, "title", "", "new title")
	scenarioEditCmd.Flags().StringVar(&scenarioEditDescription, "description", "", "new description")
	scenarioEditCmd.Flags().StringVar(&scenarioEditType, "type", "", "new type")

	scenarioRefAddCmd.Flags().StringVar(&scenarioRefType, "target-type", types.TargetUseCase, "use_case or scenario")
	scenarioRefAddCmd.Flags().StringVar(&scenarioRefDescription, "description", "", "edge description")

	scenarioConditionAddCmd.Flags().StringVar(&conditionTargetType, "target-type", types.TargetUseCase, "use_case or scenario")
	scenarioConditionAddCmd.Flags().StringVar(&conditionTargetID, "target-id", "", "linked use case or scenario id")
	scenarioConditionAddCmd.Flags().StringVar(&conditionRelationship, "relationship", types.RelDependsOn, "link relationship")

	scenarioRefCmd.AddCommand(scenarioRefAddCmd)
	scenarioRefCmd.AddCommand(scenarioRefRemoveCmd)

	scenarioConditionCmd.AddCommand(scenarioConditionAddCmd)
	scenarioConditionCmd.AddCommand(scenarioConditionRemoveCmd)
	scenarioConditionCmd.AddCommand(scenarioConditionReorderCmd)

	scenarioCmd.AddCommand(scenarioAddCmd)
	scenarioCmd.AddCommand(scenarioEditCmd)
	scenarioCmd.AddCommand(scenarioRemoveCmd)
	scenarioCmd.AddCommand(scenarioStatusCmd)
	scenarioCmd.AddCommand(scenarioPersonaCmd)
	scenarioCmd.AddCommand(scenarioRefCmd)
	scenarioCmd.AddCommand(scenarioConditionCmd)
	scenarioCmd.AddCommand(stepCmd)
}
