// Shared helpers for mucm CLI commands.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/mesh-intelligence/mucm/internal/coordinator"
	"github.com/mesh-intelligence/mucm/internal/fuzzy"
	"github.com/mesh-intelligence/mucm/internal/schema"
	"github.com/mesh-intelligence/mucm/internal/store"
	"github.com/mesh-intelligence/mucm/pkg/mucm"
	"github.com/mesh-intelligence/mucm/pkg/types"
)

// openProject assembles the project from the persistent flags. Failures
// here are system errors: the project tree could not be read.
func openProject() *mucm.Project {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	p, err := mucm.Open(mucm.Options{
		ProjectDir: flagProjectDir,
		ConfigDir:  flagConfigDir,
		Logger:     logger,
		NoIndex:    flagNoIndex,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, "open project:", err)
		os.Exit(exitSysError)
	}
	return p
}

// fail prints a diagnostic and exits with the code matching the error
// kind: not-found and validation errors are user errors, everything else
// is a system error.
func fail(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitCodeFor(err))
}

func exitCodeFor(err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound),
		errors.Is(err, store.ErrParse),
		errors.Is(err, schema.ErrMethodologyNotFound),
		errors.Is(err, schema.ErrLevelNotFound),
		errors.Is(err, schema.ErrTypeMismatch),
		isValidationError(err):
		return exitUserError
	default:
		return exitSysError
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		types.ErrEmptyTitle, types.ErrEmptyCategory, types.ErrEmptyAction,
		types.ErrInvalidPriority, types.ErrInvalidStatus, types.ErrInvalidTransition,
		types.ErrInvalidType, types.ErrInvalidKind, types.ErrInvalidID,
		types.ErrDuplicateView, types.ErrLastView, types.ErrInvalidCondition,
		types.ErrInvalidReference, types.ErrUnsupportedValue,
		types.ErrViewNotFound, types.ErrScenarioNotFound, types.ErrStepNotFound,
		types.ErrActorNotFound,
		coordinator.ErrDuplicateID, coordinator.ErrMethodologyDisabled,
		coordinator.ErrUnknownSlot, coordinator.ErrPositionOutOfRange,
		coordinator.ErrActorExists, coordinator.ErrMissingActorField,
		coordinator.ErrUnknownActorField, coordinator.ErrActorStillAssigned,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// failNotFound reports a missing use case, suggesting the closest known
// id when the input looks like a typo.
func failNotFound(p *mucm.Project, id string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		if all, _, loadErr := p.Coordinator.LoadAll(); loadErr == nil {
			ids := make([]string, 0, len(all))
			for _, uc := range all {
				ids = append(ids, uc.ID)
			}
			if suggestion, ok := fuzzy.Closest(id, ids); ok {
				fmt.Fprintf(os.Stderr, "%v (did you mean %s?)\n", err, suggestion)
				os.Exit(exitUserError)
			}
		}
	}
	fail(err)
}

// failWithSuggestion reports an error, offering the closest candidate
// when the input looks like a typo.
func failWithSuggestion(input string, candidates []string, err error) {
	if suggestion, ok := fuzzy.Closest(input, candidates); ok {
		fmt.Fprintf(os.Stderr, "%v (did you mean %s?)\n", err, suggestion)
		os.Exit(exitUserError)
	}
	fail(err)
}

// printJSON writes an indented JSON rendering of v to stdout.
func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintln(os.Stderr, "marshal JSON:", err)
		os.Exit(exitSysError)
	}
	fmt.Println(string(out))
}

// printWarnings sends render findings to stderr; they never change the
// exit code.
func printWarnings(warnings []string) {
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, "warning:", w)
	}
}

// parseFieldArgs converts key=value arguments into a field map. Values
// stay strings; the coordinator coerces them against the schema.
func parseFieldArgs(args []string) (map[string]any, error) {
	fields := make(map[string]any, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 || parts[0] == "" {
			return nil, fmt.Errorf("invalid field %q (expected key=value)", arg)
		}
		fields[parts[0]] = parts[1]
	}
	return fields, nil
}

// parseView splits a methodology:level pair.
func parseView(s string) (types.View, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return types.View{}, fmt.Errorf("invalid view %q (expected methodology:level)", s)
	}
	return types.View{Methodology: parts[0], Level: parts[1]}, nil
}

// useCaseSummary is the JSON shape for use case output.
type useCaseSummary struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Category    string            `json:"category"`
	Description string            `json:"description,omitempty"`
	Priority    string            `json:"priority"`
	Status      string            `json:"status"`
	Version     int               `json:"version"`
	Views       []viewSummary     `json:"views"`
	Scenarios   []scenarioSummary `json:"scenarios,omitempty"`
}

type viewSummary struct {
	Methodology string `json:"methodology"`
	Level       string `json:"level"`
}

type scenarioSummary struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Type   string `json:"type"`
	Status string `json:"status"`
	Steps  int    `json:"steps"`
}

func summarize(uc *types.UseCase) useCaseSummary {
	s := useCaseSummary{
		ID:          uc.ID,
		Title:       uc.Title,
		Category:    uc.Category,
		Description: uc.Description,
		Priority:    uc.Priority,
		Status:      uc.AggregatedStatus(),
		Version:     uc.Metadata.Version,
	}
	for _, v := range uc.Views {
		s.Views = append(s.Views, viewSummary{Methodology: v.Methodology, Level: v.Level})
	}
	for _, sc := range uc.Scenarios {
		s.Scenarios = append(s.Scenarios, scenarioSummary{
			ID:     sc.ID,
			Title:  sc.Title,
			Type:   sc.Type,
			Status: sc.Status,
			Steps:  len(sc.Steps),
		})
	}
	return s
}
