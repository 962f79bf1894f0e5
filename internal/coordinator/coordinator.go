// Package coordinator orchestrates the write path: every command-level
// operation loads source records, mutates them in memory, validates the
// result, persists the source, and projects the affected Markdown views.
// External callers go through this package and never touch the stores
// directly.
package coordinator

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/mesh-intelligence/mucm/internal/ids"
	"github.com/mesh-intelligence/mucm/internal/index"
	"github.com/mesh-intelligence/mucm/internal/render"
	"github.com/mesh-intelligence/mucm/internal/schema"
	"github.com/mesh-intelligence/mucm/internal/store"
	"github.com/mesh-intelligence/mucm/pkg/types"
)

// mintAttempts bounds the id collision retry loop in Create.
const mintAttempts = 8

var (
	ErrDuplicateID         = errors.New("could not mint a free use case id")
	ErrMethodologyDisabled = errors.New("methodology not enabled for this project")
	ErrUnknownSlot         = errors.New("condition slot must be pre or post")
	ErrPositionOutOfRange  = errors.New("position out of range")
)

// RenderError reports a view whose Markdown projection failed after the
// source record was already saved. The source is retained; a subsequent
// regenerate retries the projection.
type RenderError struct {
	ID          string
	Methodology string
	Level       string
	Err         error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering %s view %s/%s: %v", e.ID, e.Methodology, e.Level, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Coordinator wires the stores, the schema registry, and the renderer into
// the operation surface consumed by the CLI.
type Coordinator struct {
	cfg      types.ProjectConfig
	store    *store.Store
	actors   *store.ActorStore
	schema   *schema.Registry
	renderer *render.Renderer
	index    *index.Index // nil disables the derived index
	log      *slog.Logger
}

// New assembles a coordinator. The index may be nil; logging falls back to
// the default logger.
func New(cfg types.ProjectConfig, st *store.Store, actors *store.ActorStore, reg *schema.Registry, r *render.Renderer, ix *index.Index, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		cfg:      cfg,
		store:    st,
		actors:   actors,
		schema:   reg,
		renderer: r,
		index:    ix,
		log:      logger,
	}
}

// CreateRequest carries the inputs for a new use case. Views defaults to a
// single view in the project's default methodology and level. ExtraFields
// are routed by name into the matching methodology bag, or into the extra
// bag when no view's schema declares them.
type CreateRequest struct {
	Title       string
	Category    string
	Description string
	Priority    string
	Views       []types.View
	ExtraFields map[string]any
}

// Create mints an id, builds the record, persists it, and projects every
// requested view plus the overview. Warnings carry non-fatal render
// findings such as missing required fields.
func (c *Coordinator) Create(req CreateRequest) (*types.UseCase, []string, error) {
	views := req.Views
	if len(views) == 0 {
		views = []types.View{{Methodology: c.cfg.DefaultMethodology, Level: c.cfg.DefaultLevel}}
	}
	for _, v := range views {
		if err := c.checkView(v.Methodology, v.Level); err != nil {
			return nil, nil, err
		}
	}

	existing, diags, err := c.store.LoadAll()
	if err != nil {
		return nil, nil, err
	}
	c.logDiagnostics(diags)

	category := types.NormalizeCategory(req.Category)
	id := ""
	for attempt := 0; attempt < mintAttempts; attempt++ {
		candidate := ids.MintUseCaseID(category, existing, c.store.CategoryDir(category), c.store.MarkdownDir(category))
		if !c.store.Exists(candidate) {
			id = candidate
			break
		}
		c.log.Warn("minted id already on disk, retrying", "id", candidate)
		existing, _, err = c.store.LoadAll()
		if err != nil {
			return nil, nil, err
		}
	}
	if id == "" {
		return nil, nil, fmt.Errorf("%w after %d attempts", ErrDuplicateID, mintAttempts)
	}

	uc, err := types.NewUseCase(id, req.Title, req.Category, req.Description, req.Priority)
	if err != nil {
		return nil, nil, err
	}
	for _, v := range views {
		if err := uc.AddView(v.Methodology, v.Level); err != nil {
			return nil, nil, err
		}
	}
	if err := c.seedFields(uc, req.ExtraFields); err != nil {
		return nil, nil, err
	}
	if err := uc.Validate(); err != nil {
		return nil, nil, err
	}

	if err := c.store.SaveSourceOnly(uc); err != nil {
		return nil, nil, err
	}

	warnings, err := c.renderViews(uc)
	if err != nil {
		return uc, warnings, err
	}
	if err := c.renderOverview(); err != nil {
		return uc, warnings, err
	}
	c.reindex()
	c.log.Info("use case created", "id", uc.ID, "category", uc.Category, "views", len(uc.Views))
	return uc, warnings, nil
}

// seedFields distributes initial field values by key: the first view whose
// resolved schema declares the key receives the coerced value in its
// methodology bag; undeclared keys land in the extra bag. Keys are applied
// in sorted order.
func (c *Coordinator) seedFields(uc *types.UseCase, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		raw := fields[k]
		placed := false
		for _, v := range uc.Views {
			resolved, err := c.schema.FieldsFor(v.Methodology, v.Level)
			if err != nil {
				return err
			}
			for _, f := range resolved {
				if f.Name != k {
					continue
				}
				val, err := f.CoerceAny(raw)
				if err != nil {
					return err
				}
				uc.FieldsFor(v.Methodology).Set(k, val)
				placed = true
				break
			}
			if placed {
				break
			}
		}
		if !placed {
			val, err := types.ValueFromAny(raw)
			if err != nil {
				return fmt.Errorf("field %q: %w", k, err)
			}
			uc.Extra.Set(k, val)
		}
	}
	return nil
}

// Patch is a sparse update of the use case header fields. Nil pointers
// leave the current value alone.
type Patch struct {
	Title       *string
	Category    *string
	Description *string
	Priority    *string
}

// Update applies a patch, moving the source and Markdown files when the
// category changes. The id never changes.
func (c *Coordinator) Update(id string, p Patch) (*types.UseCase, []string, error) {
	uc, err := c.store.LoadByID(id)
	if err != nil {
		return nil, nil, err
	}
	work := uc.Clone()
	oldCategory := work.Category

	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return nil, nil, types.ErrEmptyTitle
		}
		work.Title = *p.Title
	}
	if p.Category != nil {
		category := types.NormalizeCategory(*p.Category)
		if category == "" {
			return nil, nil, types.ErrEmptyCategory
		}
		work.Category = category
	}
	if p.Description != nil {
		work.Description = *p.Description
	}
	if p.Priority != nil {
		priority, err := types.ParsePriority(*p.Priority)
		if err != nil {
			return nil, nil, err
		}
		work.Priority = priority
	}
	if err := work.Validate(); err != nil {
		return nil, nil, err
	}
	work.Touch()

	if err := c.store.SaveSourceOnly(work); err != nil {
		return nil, nil, err
	}
	if work.Category != oldCategory {
		if err := c.store.MoveSource(id, oldCategory); err != nil {
			return work, nil, err
		}
		for _, v := range work.Views {
			if err := c.store.RemoveMarkdown(oldCategory, render.Filename(id, v.Methodology, v.Level)); err != nil {
				return work, nil, err
			}
		}
	}

	warnings, err := c.renderViews(work)
	if err != nil {
		return work, warnings, err
	}
	if err := c.renderOverview(); err != nil {
		return work, warnings, err
	}
	c.reindex()
	return work, warnings, nil
}

// UpdateMethodologyFields replaces the bag for one methodology with the
// supplied mapping, coercing each value against the view's resolved
// schema. Keys the schema does not declare are kept as-is. Only the
// affected view is re-rendered.
func (c *Coordinator) UpdateMethodologyFields(id, methodology string, fields map[string]any) (*types.UseCase, []string, error) {
	uc, err := c.store.LoadByID(id)
	if err != nil {
		return nil, nil, err
	}
	work := uc.Clone()

	view, err := work.ViewFor(methodology)
	if err != nil {
		return nil, nil, err
	}
	resolved, err := c.schema.FieldsFor(methodology, view.Level)
	if err != nil {
		return nil, nil, err
	}
	declared := make(map[string]schema.Field, len(resolved))
	for _, f := range resolved {
		declared[f.Name] = f
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	bag := types.NewFieldBag()
	for _, k := range keys {
		raw := fields[k]
		if f, ok := declared[k]; ok {
			val, err := f.CoerceAny(raw)
			if err != nil {
				return nil, nil, err
			}
			bag.Set(k, val)
			continue
		}
		val, err := types.ValueFromAny(raw)
		if err != nil {
			return nil, nil, fmt.Errorf("field %q: %w", k, err)
		}
		bag.Set(k, val)
	}
	work.MethodologyFields[methodology] = bag
	work.Touch()

	if err := c.store.SaveSourceOnly(work); err != nil {
		return nil, nil, err
	}
	warnings, err := c.renderView(work, view)
	if err != nil {
		return work, warnings, err
	}
	c.reindex()
	return work, warnings, nil
}

// AddView attaches a new view and renders it.
func (c *Coordinator) AddView(id, methodology, level string) (*types.UseCase, []string, error) {
	if err := c.checkView(methodology, level); err != nil {
		return nil, nil, err
	}
	uc, err := c.store.LoadByID(id)
	if err != nil {
		return nil, nil, err
	}
	work := uc.Clone()
	if err := work.AddView(methodology, level); err != nil {
		return nil, nil, err
	}
	work.Touch()
	if err := c.store.SaveSourceOnly(work); err != nil {
		return nil, nil, err
	}
	warnings, err := c.renderView(work, types.View{Methodology: methodology, Level: level})
	if err != nil {
		return work, warnings, err
	}
	if err := c.renderOverview(); err != nil {
		return work, warnings, err
	}
	c.reindex()
	return work, warnings, nil
}

// RemoveView detaches a view and deletes its Markdown file. The last view
// cannot be removed, and the methodology bag survives until a cleanup.
func (c *Coordinator) RemoveView(id, methodology string) (*types.UseCase, error) {
	uc, err := c.store.LoadByID(id)
	if err != nil {
		return nil, err
	}
	work := uc.Clone()
	view, err := work.ViewFor(methodology)
	if err != nil {
		return nil, err
	}
	if err := work.RemoveView(methodology); err != nil {
		return nil, err
	}
	work.Touch()
	if err := c.store.SaveSourceOnly(work); err != nil {
		return nil, err
	}
	if err := c.store.RemoveMarkdown(work.Category, render.Filename(id, view.Methodology, view.Level)); err != nil {
		return work, err
	}
	if err := c.renderOverview(); err != nil {
		return work, err
	}
	c.reindex()
	return work, nil
}

// CleanupEntry names the orphaned methodology bags of one use case.
type CleanupEntry struct {
	ID            string
	Methodologies []string
}

// CleanupMethodologyFields removes methodology bags no view references
// any more. With id empty every use case is inspected. In dry-run mode the
// report is produced but nothing is written.
func (c *Coordinator) CleanupMethodologyFields(id string, dryRun bool) ([]CleanupEntry, error) {
	var targets []*types.UseCase
	if id != "" {
		uc, err := c.store.LoadByID(id)
		if err != nil {
			return nil, err
		}
		targets = []*types.UseCase{uc}
	} else {
		all, diags, err := c.store.LoadAll()
		if err != nil {
			return nil, err
		}
		c.logDiagnostics(diags)
		targets = all
	}

	var report []CleanupEntry
	for _, uc := range targets {
		var orphaned []string
		for _, m := range uc.MethodologyNames() {
			if !uc.HasView(m) {
				orphaned = append(orphaned, m)
			}
		}
		if len(orphaned) == 0 {
			continue
		}
		report = append(report, CleanupEntry{ID: uc.ID, Methodologies: orphaned})
		if dryRun {
			continue
		}
		work := uc.Clone()
		for _, m := range orphaned {
			delete(work.MethodologyFields, m)
		}
		work.Touch()
		if err := c.store.SaveSourceOnly(work); err != nil {
			return report, err
		}
	}
	return report, nil
}

// Regenerate re-renders the views of one use case, or of the whole corpus
// plus the overview when id is empty. Source records are read, never
// written.
func (c *Coordinator) Regenerate(id string) ([]string, error) {
	if id != "" {
		uc, err := c.store.LoadByID(id)
		if err != nil {
			return nil, err
		}
		return c.renderViews(uc)
	}

	all, diags, err := c.store.LoadAll()
	if err != nil {
		return nil, err
	}
	c.logDiagnostics(diags)

	var warnings []string
	for _, uc := range all {
		w, err := c.renderViews(uc)
		warnings = append(warnings, w...)
		if err != nil {
			return warnings, err
		}
	}
	if err := c.renderOverview(); err != nil {
		return warnings, err
	}
	c.reindex()
	return warnings, nil
}

// Delete removes the source record and all its rendered files, then
// refreshes the overview.
func (c *Coordinator) Delete(id string) error {
	if err := c.store.Delete(id); err != nil {
		return err
	}
	if err := c.renderOverview(); err != nil {
		return err
	}
	c.reindex()
	c.log.Info("use case deleted", "id", id)
	return nil
}

// checkView verifies the methodology is enabled for the project and the
// level exists in its definition.
func (c *Coordinator) checkView(methodology, level string) error {
	if len(c.cfg.EnabledMethodologies) > 0 {
		enabled := false
		for _, m := range c.cfg.EnabledMethodologies {
			if m == methodology {
				enabled = true
				break
			}
		}
		if !enabled {
			return fmt.Errorf("%w: %s", ErrMethodologyDisabled, methodology)
		}
	}
	m, err := c.schema.Methodology(methodology)
	if err != nil {
		return err
	}
	_, err = m.Level(level)
	return err
}

// renderViews projects every view of a use case. Warnings are prefixed
// with the view they came from; the first failing view aborts with a
// RenderError naming it.
func (c *Coordinator) renderViews(uc *types.UseCase) ([]string, error) {
	var warnings []string
	for _, v := range uc.Views {
		w, err := c.renderView(uc, v)
		warnings = append(warnings, w...)
		if err != nil {
			return warnings, err
		}
	}
	return warnings, nil
}

func (c *Coordinator) renderView(uc *types.UseCase, v types.View) ([]string, error) {
	text, warnings, err := c.renderer.UseCase(uc, v.Methodology, v.Level)
	if err != nil {
		return nil, &RenderError{ID: uc.ID, Methodology: v.Methodology, Level: v.Level, Err: err}
	}
	prefixed := make([]string, 0, len(warnings))
	for _, w := range warnings {
		prefixed = append(prefixed, fmt.Sprintf("%s %s/%s: %s", uc.ID, v.Methodology, v.Level, w))
	}
	filename := render.Filename(uc.ID, v.Methodology, v.Level)
	if err := c.store.SaveMarkdownOnly(uc.Category, filename, text); err != nil {
		return prefixed, &RenderError{ID: uc.ID, Methodology: v.Methodology, Level: v.Level, Err: err}
	}
	return prefixed, nil
}

// renderOverview rebuilds the corpus README from the current records.
func (c *Coordinator) renderOverview() error {
	all, diags, err := c.store.LoadAll()
	if err != nil {
		return err
	}
	c.logDiagnostics(diags)
	text, err := c.renderer.Overview(all)
	if err != nil {
		return err
	}
	return c.store.SaveOverview(text)
}

// reindex rebuilds the derived index. Failures are logged, never fatal:
// the index is reconstructible and must not block a completed write.
func (c *Coordinator) reindex() {
	if c.index == nil {
		return
	}
	all, _, err := c.store.LoadAll()
	if err != nil {
		c.log.Warn("index rebuild skipped", "error", err)
		return
	}
	if err := c.index.Rebuild(all); err != nil {
		c.log.Warn("index rebuild failed", "error", err)
	}
}

func (c *Coordinator) logDiagnostics(diags []store.Diagnostic) {
	for _, d := range diags {
		c.log.Warn("skipped unreadable record", "file", d.File, "error", d.Err)
	}
}
