// Ref commands manage use-case-to-use-case reference edges.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

var refCmd = &cobra.Command{
	Use:   "ref",
	Short: "Manage use case references",
}

var refAddDescription string

var refAddCmd = &cobra.Command{
	Use:   "add <id> <target-id> <kind>",
	Short: "Link a use case to another use case",
	Long: `Add records a typed edge to another use case. Kinds: depends_on,
extends, includes, alternative_to.`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, target, kind := args[0], args[1], args[2]
		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.AddReference(id, target, kind, refAddDescription)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Linked %s -> %s (%s)\n", id, target, kind)
		return nil
	},
}

var refRemoveCmd = &cobra.Command{
	Use:   "remove <id> <position>",
	Short: "Remove a reference by position",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]
		position, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "ref remove: invalid position %q\n", args[1])
			os.Exit(exitUserError)
		}

		p := openProject()
		defer p.Close()

		_, warnings, err := p.Coordinator.RemoveReference(id, position)
		if err != nil {
			failNotFound(p, id, err)
		}
		printWarnings(warnings)
		fmt.Printf("Removed reference %d from %s\n", position, id)
		return nil
	},
}

func init() {
	refAddCmd.Flags().StringVar(&refAddDescription, "description", "", "edge description")

	refCmd.AddCommand(refAddCmd)
	refCmd.AddCommand(refRemoveCmd)
}
