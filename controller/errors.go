package controller

import "errors"

// ErrInvalidPlan is returned when a Plan fails validation (empty N_set,
// missing OutputDir, negative MemberBudget or DominanceThreshold, a cycle
// request with n < 1) or names a cycle page_id absent from the snapshot.
var ErrInvalidPlan = errors.New("controller: invalid plan")

// ErrCancelled is returned when a Run's context is cancelled; partial
// per-N outputs are discarded per the write-then-rename discipline and
// whatever N was in flight is not checkpointed as complete.
var ErrCancelled = errors.New("controller: run cancelled")
