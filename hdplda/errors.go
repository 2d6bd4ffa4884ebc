package hdplda

import "errors"

var (
	// ErrNotImplemented is returned by scoring entry points that have no
	// implementation yet.
	ErrNotImplemented = errors.New("not implemented")

	// ErrInvariantViolation is returned when a maintained aggregate diverges
	// from the value recomputed from the data underneath it.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrInvalidIndex is returned when an entity, term, table or dish id is
	// outside its active range, including the reserved id 0.
	ErrInvalidIndex = errors.New("invalid index")

	// ErrPrecondition is returned when an operation is applied to a table or
	// dish in the wrong state, e.g. deleting a table that still holds terms.
	ErrPrecondition = errors.New("precondition violation")

	// ErrInvalidConfig is returned for bad constructor arguments and corrupt
	// snapshots.
	ErrInvalidConfig = errors.New("invalid config")
)
