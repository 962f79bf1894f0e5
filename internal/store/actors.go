package store

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/mesh-intelligence/mucm/pkg/types"
)

// ActorStore persists actor records, one TOML file per actor.
type ActorStore struct {
	dir string
	log *slog.Logger
}

// NewActorStore builds an actor store over the given directory.
func NewActorStore(dir string, logger *slog.Logger) *ActorStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActorStore{dir: dir, log: logger}
}

// actorDoc mirrors the actor record layout.
type actorDoc struct {
	ID       string         `toml:"id"`
	Name     string         `toml:"name"`
	Kind     string         `toml:"kind"`
	Marker   string         `toml:"marker,omitempty"`
	Fields   map[string]any `toml:"fields,omitempty"`
	Metadata metadataDoc    `toml:"metadata"`
}

type metadataDoc struct {
	CreatedAt time.Time `toml:"created_at"`
	UpdatedAt time.Time `toml:"updated_at"`
	Version   int64     `toml:"version"`
}

// Save writes an actor record atomically. Metadata is persisted as-is.
func (a *ActorStore) Save(actor *types.Actor) error {
	doc := actorDoc{
		ID:     actor.ID,
		Name:   actor.Name,
		Kind:   actor.Kind,
		Marker: actor.Marker,
		Fields: actor.Fields.ToMap(),
		Metadata: metadataDoc{
			CreatedAt: actor.Metadata.CreatedAt,
			UpdatedAt: actor.Metadata.UpdatedAt,
			Version:   int64(actor.Metadata.Version),
		},
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return fmt.Errorf("creating actors dir: %w", err)
	}
	return writeFileAtomic(filepath.Join(a.dir, actor.ID+SourceExt), data)
}

// Load parses one actor record by id.
func (a *ActorStore) Load(id string) (*types.Actor, error) {
	data, err := os.ReadFile(filepath.Join(a.dir, id+SourceExt))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", types.ErrActorNotFound, id)
		}
		return nil, err
	}
	return decodeActor(data)
}

// LoadAll parses every actor record, skipping unparseable files with a
// logged warning. Actors come back sorted by id.
func (a *ActorStore) LoadAll() ([]*types.Actor, error) {
	entries, err := os.ReadDir(a.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var actors []*types.Actor
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), SourceExt) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(a.dir, e.Name()))
		if err != nil {
			return nil, err
		}
		actor, err := decodeActor(data)
		if err != nil {
			a.log.Warn("skipping unparseable actor record", "file", e.Name(), "error", err)
			continue
		}
		actors = append(actors, actor)
	}
	sort.Slice(actors, func(i, j int) bool { return actors[i].ID < actors[j].ID })
	return actors, nil
}

// Delete removes an actor record.
func (a *ActorStore) Delete(id string) error {
	err := os.Remove(filepath.Join(a.dir, id+SourceExt))
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", types.ErrActorNotFound, id)
	}
	return err
}

func decodeActor(data []byte) (*types.Actor, error) {
	var doc actorDoc
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	actor, err := types.NewActor(doc.ID, doc.Name, doc.Kind, doc.Marker)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}
	if len(doc.Fields) > 0 {
		bag, err := types.BagFromMap(doc.Fields)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrParse, err)
		}
		actor.Fields = bag
	}
	actor.Metadata = types.Metadata{
		CreatedAt: doc.Metadata.CreatedAt.UTC(),
		UpdatedAt: doc.Metadata.UpdatedAt.UTC(),
		Version:   int(doc.Metadata.Version),
	}
	return actor, nil
}
