package coordinator

import (
	"fmt"

	"github.com/mesh-intelligence/mucm/internal/index"
	"github.com/mesh-intelligence/mucm/internal/store"
	"github.com/mesh-intelligence/mucm/pkg/types"
)

// Get loads one use case by id.
func (c *Coordinator) Get(id string) (*types.UseCase, error) {
	return c.store.LoadByID(id)
}

// List returns summaries matching the filter, served from the derived
// index when one is open and from a full corpus load otherwise.
func (c *Coordinator) List(f index.Filter) ([]index.Summary, error) {
	if c.index != nil {
		out, err := c.index.Query(f)
		if err == nil {
			return out, nil
		}
		c.log.Warn("index query failed, falling back to full load", "error", err)
	}
	all, diags, err := c.store.LoadAll()
	if err != nil {
		return nil, err
	}
	c.logDiagnostics(diags)
	return index.Match(all, f), nil
}

// LoadAll returns the whole corpus with per-file diagnostics for records
// that could not be parsed.
func (c *Coordinator) LoadAll() ([]*types.UseCase, []store.Diagnostic, error) {
	return c.store.LoadAll()
}

// Issue is one finding of a corpus validation run.
type Issue struct {
	ID     string // Use case the finding belongs to.
	Kind   string // One of the Issue* kinds.
	Detail string
}

// Issue kinds reported by ValidateCorpus.
const (
	IssueUnparseable     = "unparseable_record"
	IssueDanglingRef     = "dangling_reference"
	IssueUnknownField    = "unknown_field"
	IssueMissingRequired = "missing_required_field"
	IssueOrphanedBag     = "orphaned_methodology_bag"
	IssueUnknownActor    = "unknown_actor"
)

// ValidateCorpus checks cross-record consistency: reference targets must
// exist, methodology bags must belong to a view and fit its schema, and
// required fields need a value or a default. Findings are warnings; the
// corpus is never modified.
func (c *Coordinator) ValidateCorpus() ([]Issue, error) {
	all, diags, err := c.store.LoadAll()
	if err != nil {
		return nil, err
	}

	var issues []Issue
	for _, d := range diags {
		issues = append(issues, Issue{Kind: IssueUnparseable, Detail: d.String()})
	}

	ucIDs := make(map[string]bool, len(all))
	scenarioIDs := make(map[string]bool)
	for _, uc := range all {
		ucIDs[uc.ID] = true
		for _, s := range uc.Scenarios {
			scenarioIDs[s.ID] = true
		}
	}

	actorIDs := map[string]bool{}
	if c.actors != nil {
		actors, err := c.actors.LoadAll()
		if err == nil {
			for _, a := range actors {
				actorIDs[a.ID] = true
			}
		}
	}

	for _, uc := range all {
		issues = append(issues, c.validateRecord(uc, ucIDs, scenarioIDs, actorIDs)...)
	}
	return issues, nil
}

func (c *Coordinator) validateRecord(uc *types.UseCase, ucIDs, scenarioIDs, actorIDs map[string]bool) []Issue {
	var issues []Issue

	for _, ref := range uc.References {
		if !ucIDs[ref.Target] {
			issues = append(issues, Issue{
				ID:     uc.ID,
				Kind:   IssueDanglingRef,
				Detail: fmt.Sprintf("%s target %s does not exist", ref.Kind, ref.Target),
			})
		}
	}

	for _, s := range uc.Scenarios {
		for _, ref := range s.References {
			known := ucIDs[ref.Target]
			if ref.TargetType == types.TargetScenario {
				known = scenarioIDs[ref.Target]
			}
			if !known {
				issues = append(issues, Issue{
					ID:     uc.ID,
					Kind:   IssueDanglingRef,
					Detail: fmt.Sprintf("scenario %s %s target %s does not exist", s.ID, ref.Relationship, ref.Target),
				})
			}
		}
		for _, cond := range append(append([]types.Condition{}, s.Preconditions...), s.Postconditions...) {
			if issue := checkConditionTarget(uc.ID, s.ID, cond, ucIDs, scenarioIDs); issue != nil {
				issues = append(issues, *issue)
			}
		}
		if s.Persona != "" && len(actorIDs) > 0 && !actorIDs[s.Persona] {
			issues = append(issues, Issue{
				ID:     uc.ID,
				Kind:   IssueUnknownActor,
				Detail: fmt.Sprintf("scenario %s persona %s is not a known actor", s.ID, s.Persona),
			})
		}
	}

	for _, m := range uc.MethodologyNames() {
		if !uc.HasView(m) {
			issues = append(issues, Issue{
				ID:     uc.ID,
				Kind:   IssueOrphanedBag,
				Detail: fmt.Sprintf("methodology bag %q has no view", m),
			})
		}
	}

	for _, v := range uc.Views {
		resolved, err := c.schema.FieldsFor(v.Methodology, v.Level)
		if err != nil {
			issues = append(issues, Issue{
				ID:     uc.ID,
				Kind:   IssueUnknownField,
				Detail: fmt.Sprintf("view %s/%s: %v", v.Methodology, v.Level, err),
			})
			continue
		}
		declared := make(map[string]bool, len(resolved))
		bag := uc.MethodologyFields[v.Methodology]
		for _, f := range resolved {
			declared[f.Name] = true
			if f.Required && !f.HasDefault() {
				if _, ok := bag.Get(f.Name); !ok {
					issues = append(issues, Issue{
						ID:     uc.ID,
						Kind:   IssueMissingRequired,
						Detail: fmt.Sprintf("view %s/%s: field %q has no value", v.Methodology, v.Level, f.Name),
					})
				}
			}
		}
		for _, k := range bag.Keys() {
			if !declared[k] {
				issues = append(issues, Issue{
					ID:     uc.ID,
					Kind:   IssueUnknownField,
					Detail: fmt.Sprintf("view %s/%s: field %q is not in the schema", v.Methodology, v.Level, k),
				})
			}
		}
	}
	return issues
}

func checkConditionTarget(ucID, scenarioID string, cond types.Condition, ucIDs, scenarioIDs map[string]bool) *Issue {
	if !cond.HasReference() {
		return nil
	}
	known := ucIDs[cond.TargetID]
	if cond.TargetType == types.TargetScenario {
		known = scenarioIDs[cond.TargetID]
	}
	if known {
		return nil
	}
	return &Issue{
		ID:     ucID,
		Kind:   IssueDanglingRef,
		Detail: fmt.Sprintf("scenario %s condition target %s does not exist", scenarioID, cond.TargetID),
	}
}
