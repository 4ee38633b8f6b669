package tree

import "errors"

var (
	// ErrInvalidParent is returned when a subtask is added under a task
	// that is not part of the tree.
	ErrInvalidParent = errors.New("invalid parent task")

	// ErrNotInTree is returned for operations on a task that has been
	// removed or never belonged to the tree.
	ErrNotInTree = errors.New("task not in tree")
)
