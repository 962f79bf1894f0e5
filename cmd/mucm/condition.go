// Condition commands manage use-case-level pre- and postconditions. The
// per-scenario variants live under "mucm scenario condition".
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mucm/pkg/types"
)

var conditionCmd = &cobra.Command{
	Use:   "condition",
	Short: "Manage use case pre- and postconditions",
}

var (
	ucConditionTargetType   string
	ucConditionTargetID     string
	ucConditionRelationship string
)

var conditionAddCmd = &cobra.Command{
	Use:   "add <id> <pre|post> <text>",
	Short: "Add a condition",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, slot, text := args[0], args[1], args[2]

		cond := types.NewCondition(text)
		if ucConditionTargetID != "" {
			var err error
			cond, err = types.NewLinkedCondition(text, ucConditionTargetType, ucConditionTargetID, ucConditionRelationship)
			if err != nil {
				fail(err)
			}
		}

		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.AddUseCaseCondition(id, slot, cond)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Added %scondition to %s\n", slot, id)
		return nil
	},
}

var conditionRemoveCmd = &cobra.Command{
	Use:   "remove <id> <pre|post> <position>",
	Short: "Remove a condition by position",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, slot := args[0], args[1]
		position, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "condition remove: invalid position %q\n", args[2])
			os.Exit(exitUserError)
		}

		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.RemoveUseCaseCondition(id, slot, position)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Removed %scondition %d from %s\n", slot, position, id)
		return nil
	},
}

func init() {
	conditionAddCmd.Flags().StringVar(&ucConditionTargetType, "target-type", types.TargetUseCase, "use_case or scenario")
	conditionAddCmd.Flags().StringVar(&ucConditionTargetID, "target-id", "", "linked use case or scenario id")
	conditionAddCmd.Flags().StringVar(&ucConditionRelationship, "relationship", types.RelDependsOn, "link relationship")

	conditionCmd.AddCommand(conditionAddCmd)
	conditionCmd.AddCommand(conditionRemoveCmd)
}
