package types

import (
	"fmt"
	"strings"
)

// Actor kinds.
const (
	ActorPersona  = "persona"
	ActorSystem   = "system"
	ActorExternal = "external"
)

var validActorKinds = map[string]bool{
	ActorPersona:  true,
	ActorSystem:   true,
	ActorExternal: true,
}

// Actor is a named agent referenced by scenarios and steps. Actors live in
// their own store; the use-case model consumes them read-only by id.
type Actor struct {
	ID       string
	Name     string
	Kind     string // One of the Actor kind constants.
	Marker   string // Emoji or short marker used in rendered output.
	Fields   *FieldBag
	Metadata Metadata
}

// NewActor validates the kind and builds an actor with an empty field bag.
func NewActor(id, name, kind, marker string) (*Actor, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyTitle
	}
	kind = strings.ToLower(strings.TrimSpace(kind))
	if !validActorKinds[kind] {
		return nil, fmt.Errorf("%w: %q (valid: persona, system, external)", ErrInvalidKind, kind)
	}
	return &Actor{
		ID:       id,
		Name:     name,
		Kind:     kind,
		Marker:   marker,
		Fields:   NewFieldBag(),
		Metadata: NewMetadata(),
	}, nil
}
