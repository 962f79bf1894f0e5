package coordinator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/mesh-intelligence/mucm/pkg/types"
)

var (
	ErrActorExists        = errors.New("actor already exists")
	ErrMissingActorField  = errors.New("missing required actor field")
	ErrUnknownActorField  = errors.New("field not declared for actor kind")
	ErrActorStillAssigned = errors.New("actor is assigned to scenarios")
)

// AddActorRequest carries the inputs for a new actor record. An empty ID
// derives one from the name.
type AddActorRequest struct {
	ID     string
	Name   string
	Kind   string
	Marker string
	Fields map[string]any
}

// AddActor persists a new actor, validating its fields against the
// per-kind field map from the project configuration.
func (c *Coordinator) AddActor(req AddActorRequest) (*types.Actor, error) {
	id := req.ID
	if id == "" {
		id = types.NormalizeCategory(req.Name)
	}
	if _, err := c.actors.Load(id); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrActorExists, id)
	}

	actor, err := types.NewActor(id, req.Name, req.Kind, req.Marker)
	if err != nil {
		return nil, err
	}
	if err := c.applyActorFields(actor, req.Fields); err != nil {
		return nil, err
	}
	if err := c.actors.Save(actor); err != nil {
		return nil, err
	}
	c.log.Info("actor added", "id", actor.ID, "kind", actor.Kind)
	return actor, nil
}

// UpdateActorFields merges field values into an existing actor.
func (c *Coordinator) UpdateActorFields(id string, fields map[string]any) (*types.Actor, error) {
	actor, err := c.actors.Load(id)
	if err != nil {
		return nil, err
	}
	if err := c.applyActorFields(actor, fields); err != nil {
		return nil, err
	}
	actor.Metadata.Touch()
	if err := c.actors.Save(actor); err != nil {
		return nil, err
	}
	return actor, nil
}

// applyActorFields sets the supplied values and then checks the kind's
// declared field map: required fields must be present, and supplied keys
// must be declared when a declaration exists for the kind.
func (c *Coordinator) applyActorFields(actor *types.Actor, fields map[string]any) error {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, err := types.ValueFromAny(fields[k])
		if err != nil {
			return fmt.Errorf("field %q: %w", k, err)
		}
		actor.Fields.Set(k, v)
	}

	decl, ok := c.cfg.ActorKinds[actor.Kind]
	if !ok {
		return nil
	}
	allowed := make(map[string]bool, len(decl.Required)+len(decl.Optional))
	for _, name := range decl.Required {
		allowed[name] = true
		if _, present := actor.Fields.Get(name); !present {
			return fmt.Errorf("%w: %q for kind %s", ErrMissingActorField, name, actor.Kind)
		}
	}
	for _, name := range decl.Optional {
		allowed[name] = true
	}
	for _, k := range actor.Fields.Keys() {
		if !allowed[k] {
			return fmt.Errorf("%w: %q for kind %s", ErrUnknownActorField, k, actor.Kind)
		}
	}
	return nil
}

// GetActor loads one actor by id.
func (c *Coordinator) GetActor(id string) (*types.Actor, error) {
	return c.actors.Load(id)
}

// ListActors returns all actors sorted by id.
func (c *Coordinator) ListActors() ([]*types.Actor, error) {
	actors, err := c.actors.LoadAll()
	if err != nil {
		return nil, err
	}
	sort.Slice(actors, func(i, j int) bool { return actors[i].ID < actors[j].ID })
	return actors, nil
}

// RemoveActor deletes an actor unless a scenario still has it assigned.
func (c *Coordinator) RemoveActor(id string) error {
	all, diags, err := c.store.LoadAll()
	if err != nil {
		return err
	}
	c.logDiagnostics(diags)
	for _, uc := range all {
		for _, s := range uc.Scenarios {
			if s.Persona == id {
				return fmt.Errorf("%w: %s in %s", ErrActorStillAssigned, id, s.ID)
			}
		}
	}
	return c.actors.Delete(id)
}
