// Package types defines the use-case document model: use cases, scenarios,
// steps, views, actors, references, conditions, and the typed field bags
// that carry methodology-specific values. Constructors and mutators enforce
// the model invariants; serialisation lives in internal/store.
package types
