package loader

import "errors"

// ErrBadSnapshot is returned when the input tables violate a structural
// invariant: unsorted nlink_sequences, a non-positive position, or a
// from_page_id absent from pages. Wrapped with %w at each call site to
// attach the offending row; branch on it with errors.Is.
var ErrBadSnapshot = errors.New("loader: malformed snapshot input")
