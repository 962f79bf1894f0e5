package types

import "errors"

// Validation errors. These are returned by constructors and mutators when
// user input does not satisfy the model; they never leave the model in a
// modified state.
var (
	ErrEmptyTitle        = errors.New("title must not be empty")
	ErrEmptyAction       = errors.New("step action must not be empty")
	ErrEmptyCategory     = errors.New("category must not be empty")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidStatus     = errors.New("invalid status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidType       = errors.New("invalid scenario type")
	ErrInvalidKind       = errors.New("invalid actor kind")
	ErrInvalidID         = errors.New("id does not match the identifier scheme")
	ErrDuplicateView     = errors.New("view already exists for methodology")
	ErrLastView          = errors.New("cannot remove the last view")
	ErrInvalidCondition  = errors.New("condition must reference exactly one target")
	ErrInvalidReference  = errors.New("invalid reference kind")
	ErrUnsupportedValue  = errors.New("unsupported field value type")
)

// Not-found errors.
var (
	ErrViewNotFound     = errors.New("view not found")
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrStepNotFound     = errors.New("step not found")
	ErrActorNotFound    = errors.New("actor not found")
)
