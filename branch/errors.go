package branch

import "errors"

// ErrNotCycleMember is returned when Decompose is called with an entry
// node that is not depth-0 in the given basin.Result.
var ErrNotCycleMember = errors.New("branch: entry node is not a cycle member of this basin")

// ErrNoParentPointers is returned when the basin.Result passed to Decompose
// was not materialized WithParentPointers, since subtree assignment
// requires each member's reverse-BFS parent.
var ErrNoParentPointers = errors.New("branch: basin result has no parent pointers")
