package rule

import "errors"

// ErrInvalidN is returned when Compute is called with N < 1. Multiplex
// configurations typically range over N ∈ [2, N_max], but the rule itself
// is defined for any fixed positive integer N.
var ErrInvalidN = errors.New("rule: N must be >= 1")
