// Actor commands manage the shared actor store that scenarios assign
// personas from.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/mucm/internal/coordinator"
	"github.com/mesh-intelligence/mucm/pkg/types"
)

var actorCmd = &cobra.Command{
	Use:   "actor",
	Short: "Manage actors",
}

var (
	actorAddID     string
	actorAddKind   string
	actorAddMarker string
	actorAddFields []string
)

var actorAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add an actor",
	Long: `Add creates an actor of kind persona, system, or external. Without
--id the id is derived from the name. Repeat --field key=value for the
kind's declared fields.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := parseFieldArgs(actorAddFields)
		if err != nil {
			fmt.Fprintln(os.Stderr, "actor add:", err)
			os.Exit(exitUserError)
		}

		p := openProject()
		defer p.Close()

		actor, err := p.Coordinator.AddActor(coordinator.AddActorRequest{
			ID:     actorAddID,
			Name:   args[0],
			Kind:   actorAddKind,
			Marker: actorAddMarker,
			Fields: fields,
		})
		if err != nil {
			fail(err)
		}
		fmt.Printf("Added actor %s (%s)\n", actor.ID, actor.Kind)
		return nil
	},
}

var actorUpdateFields []string

var actorUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an actor's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		fields, err := parseFieldArgs(actorUpdateFields)
		if err != nil {
			fmt.Fprintln(os.Stderr, "actor update:", err)
			os.Exit(exitUserError)
		}

		p := openProject()
		defer p.Close()

		actor, err := p.Coordinator.UpdateActorFields(args[0], fields)
		if err != nil {
			fail(err)
		}
		fmt.Printf("Updated actor %s\n", actor.ID)
		return nil
	},
}

type actorSummary struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Kind   string         `json:"kind"`
	Marker string         `json:"marker,omitempty"`
	Fields map[string]any `json:"fields,omitempty"`
}

func summarizeActor(a *types.Actor) actorSummary {
	s := actorSummary{ID: a.ID, Name: a.Name, Kind: a.Kind, Marker: a.Marker}
	if a.Fields.Len() > 0 {
		s.Fields = make(map[string]any, a.Fields.Len())
		for _, k := range a.Fields.Keys() {
			v, _ := a.Fields.Get(k)
			s.Fields[k] = v.ToAny()
		}
	}
	return s
}

var actorListCmd = &cobra.Command{
	Use:   "list",
	Short: "List actors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		p := openProject()
		defer p.Close()

		actors, err := p.Coordinator.ListActors()
		if err != nil {
			fail(err)
		}
		if flagJSON {
			out := make([]actorSummary, 0, len(actors))
			for _, a := range actors {
				out = append(out, summarizeActor(a))
			}
			printJSON(out)
			return nil
		}
		for _, a := range actors {
			fmt.Printf("%-20s %-10s %s\n", a.ID, a.Kind, a.Name)
		}
		return nil
	},
}

var actorShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one actor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := openProject()
		defer p.Close()

		actor, err := p.Coordinator.GetActor(args[0])
		if err != nil {
			fail(err)
		}
		if flagJSON {
			printJSON(summarizeActor(actor))
			return nil
		}
		fmt.Printf("%s %s (%s)\n", actor.Marker, actor.Name, actor.Kind)
		fmt.Printf("ID: %s\n", actor.ID)
		for _, k := range actor.Fields.Keys() {
			v, _ := actor.Fields.Get(k)
			fmt.Printf("  %s: %s\n", k, v.AsString())
		}
		return nil
	},
}

var actorRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove an actor",
	Long:  `Remove deletes the actor. It refuses while any scenario still has the actor assigned as its persona.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := openProject()
		defer p.Close()

		if err := p.Coordinator.RemoveActor(args[0]); err != nil {
			fail(err)
		}
		fmt.Printf("Removed actor %s\n", args[0])
		return nil
	},
}

func init() {
	actorAddCmd.Flags().StringVar(&actorAddID, "id", "", "actor id (derived from name when empty)")
	actorAddCmd.Flags().StringVar(&actorAddKind, "kind", types.ActorPersona, "persona, system, or external")
	actorAddCmd.Flags().StringVar(&actorAddMarker, "marker", "", "marker shown in rendered output")
	actorAddCmd.Flags().StringArrayVar(&actorAddFields, "field", nil, "field as key=value, repeatable")

	actorUpdateCmd.Flags().StringArrayVar(&actorUpdateFields, "field", nil, "field as key=value, repeatable")

	actorCmd.AddCommand(actorAddCmd)
	actorCmd.AddCommand(actorUpdateCmd)
	actorCmd.AddCommand(actorListCmd)
	actorCmd.AddCommand(actorShowCmd)
	actorCmd.AddCommand(actorRemoveCmd)
}
