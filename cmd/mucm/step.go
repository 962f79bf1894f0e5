package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mucm/internal/coordinator"
)

var stepCmd = &cobra.Command{
	Use:   "step",
	Short: "Manage the steps of a scenario",
}

var (
	stepActor          string
	stepReceiver       string
	stepExpectedResult string
)

var stepAddCmd = &cobra.Command{
	Use:   "add <id> <scenario-id> <action>",
	Short: "Append a step",
	Long: `Add appends a numbered step to the scenario flow. Actor defaults to
"system" and receiver to "system" when not given.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, scenarioID, action := args[0], args[1], args[2]
		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.AddStep(id, scenarioID, stepActor, stepReceiver, action, stepExpectedResult)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Added step to %s\n", scenarioID)
		return nil
	},
}

var (
	stepEditActor          string
	stepEditReceiver       string
	stepEditAction         string
	stepEditExpectedResult string
)

var stepEditCmd = &cobra.Command{
	Use:   "edit <id> <scenario-id> <order>",
	Short: "Edit a step by order",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, scenarioID := args[0], args[1]
		order, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "step edit: invalid order %q\n", args[2])
			os.Exit(exitUserError)
		}

		var patch coordinator.StepPatch
		if cmd.Flags().Changed("actor") {
			patch.Actor = &stepEditActor
		}
		if cmd.Flags().Changed("receiver") {
			patch.Receiver = &stepEditReceiver
		}
		if cmd.Flags().Changed("action") {
			patch.Action = &stepEditAction
		}
		if cmd.Flags().Changed("expected-result") {
			patch.ExpectedResult = &stepEditExpectedResult
		}

		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.EditStep(id, scenarioID, order, patch)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Updated step %d of %s\n", order, scenarioID)
		return nil
	},
}

var stepRemoveCmd = &cobra.Command{
	Use:   "remove <id> <scenario-id> <order>",
	Short: "Remove a step and renumber the rest",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, scenarioID := args[0], args[1]
		order, err := strconv.Atoi(args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "step remove: invalid order %q\n", args[2])
			os.Exit(exitUserError)
		}

		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.RemoveStep(id, scenarioID, order)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Removed step %d from %s\n", order, scenarioID)
		return nil
	},
}

var stepReorderCmd = &cobra.Command{
	Use:   "reorder <id> <scenario-id> <orders>",
	Short: "Reorder steps",
	Long: `Reorder takes a comma-separated permutation of the current step
orders, e.g. "3,1,2". Steps are renumbered from 1 afterwards.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, scenarioID := args[0], args[1]
		orders, err := parsePositions(args[2])
		if err != nil {
			fmt.Fprintln(os.Stderr, "step reorder:", err)
			os.Exit(exitUserError)
		}

		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.ReorderSteps(id, scenarioID, orders)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Reordered steps of %s\n", scenarioID)
		return nil
	},
}

func init() {
	stepAddCmd.Flags().StringVar(&stepActor, "actor", "system", "acting party")
	stepAddCmd.Flags().StringVar(&stepReceiver, "receiver", "system", "receiving party")
	stepAddCmd.Flags().StringVar(&stepExpectedResult, "expected-result", "", "observable outcome")

	stepEditCmd.Flags().StringVar(&stepEditActor, "actor", "", "new acting party")
	stepEditCmd.Flags().StringVar(&stepEditReceiver, "receiver", "", "new receiving party")
	stepEditCmd.Flags().StringVar(&stepEditAction, "action", "", "new action")
	stepEditCmd.Flags().StringVar(&stepEditExpectedResult, "expected-result", "", "new observable outcome")

	stepCmd.AddCommand(stepAddCmd)
	stepCmd.AddCommand(stepEditCmd)
	stepCmd.AddCommand(stepRemoveCmd)
	stepCmd.AddCommand(stepReorderCmd)
}
