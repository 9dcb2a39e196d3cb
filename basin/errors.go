package basin

import "errors"

// ErrCycleNotFound is returned when the requested CycleId has no entry in
// the given Classification.
var ErrCycleNotFound = errors.New("basin: cycle id not found")

// ErrOptionViolation is returned when an invalid Option is supplied.
var ErrOptionViolation = errors.New("basin: invalid option supplied")

// ErrCancelled wraps a context cancellation observed between frontier
// levels during Materialize. No partial result is returned.
var ErrCancelled = errors.New("basin: materialize cancelled")

// ErrBudgetExceeded tags the warning attached to a truncated Result when a
// configured member budget is hit before the reverse walk exhausts the
// basin; it is never returned as a call error, since a soft cap is not a
// failure.
var ErrBudgetExceeded = errors.New("basin: member budget exceeded, result truncated")
