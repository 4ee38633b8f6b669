// Package tree holds the in-memory task tree and the completion
// propagation rules that keep it consistent.
//
// A completed task has only completed descendants, and an incomplete task
// has only incomplete ancestors. Completion flags change only through
// Propagator.
package tree

import "fmt"

// Tree owns a forest of top-level tasks and their subtasks.
type Tree struct {
	roots []*Task
	size  int
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{}
}

// CreateTopLevel appends a new incomplete top-level task.
func (tr *Tree) CreateTopLevel(text string) *Task {
	t := newTask(text)
	t.tree = tr
	tr.roots = append(tr.roots, t)
	tr.size++
	return t
}

// CreateSubtask appends a new incomplete task to parent's subtasks.
//
// The new task starts incomplete, so the caller must follow up with
// Propagator.UncheckAncestors on the returned task.
func (tr *Tree) CreateSubtask(parent *Task, text string) (*Task, error) {
	if !tr.Contains(parent) {
		return nil, ErrInvalidParent
	}
	t := newTask(text)
	t.tree = tr
	t.parent = parent
	parent.children = append(parent.children, t)
	tr.size++
	return t, nil
}

// Remove detaches node and its whole subtree from the tree.
func (tr *Tree) Remove(node *Task) error {
	if !tr.Contains(node) {
		return ErrNotInTree
	}

	if node.parent == nil {
		tr.roots = without(tr.roots, node)
	} else {
		node.parent.children = without(node.parent.children, node)
	}

	removed := 0
	preorder(node, func(t *Task) {
		t.tree = nil
		removed++
	})
	node.parent = nil
	tr.size -= removed
	return nil
}

// EnclosingTask returns the task node is a direct subtask of, or nil when
// node is a top-level task.
func (tr *Tree) EnclosingTask(node *Task) (*Task, error) {
	if !tr.Contains(node) {
		return nil, ErrNotInTree
	}
	return node.parent, nil
}

// Ancestors returns node's enclosing tasks, nearest first.
func (tr *Tree) Ancestors(node *Task) ([]*Task, error) {
	if !tr.Contains(node) {
		return nil, ErrNotInTree
	}
	var out []*Task
	for p := node.parent; p != nil; p = p.parent {
		out = append(out, p)
	}
	return out, nil
}

// Contains reports whether node is currently part of the tree.
func (tr *Tree) Contains(node *Task) bool {
	return node != nil && node.tree == tr
}

// Roots returns the top-level tasks in insertion order.
func (tr *Tree) Roots() []*Task {
	out := make([]*Task, len(tr.roots))
	copy(out, tr.roots)
	return out
}

// Len returns the number of tasks in the tree.
func (tr *Tree) Len() int { return tr.size }

// Walk visits every task in pre-order, top-level tasks in insertion order.
func (tr *Tree) Walk(fn func(*Task)) {
	for _, r := range tr.roots {
		preorder(r, fn)
	}
}

// Check verifies the structural and completion invariants of the tree.
func (tr *Tree) Check() error {
	seen := make(map[*Task]bool, tr.size)
	var check func(t, parent *Task) error
	check = func(t, parent *Task) error {
		if seen[t] {
			return fmt.Errorf("task %s reachable twice", t.id)
		}
		seen[t] = true
		if t.tree != tr {
			return fmt.Errorf("task %s: %w", t.id, ErrNotInTree)
		}
		if t.parent != parent {
			return fmt.Errorf("task %s: parent link does not match owner", t.id)
		}
		for _, c := range t.children {
			if t.completed && !c.completed {
				return fmt.Errorf("task %s is complete but subtask %s is not", t.id, c.id)
			}
			if err := check(c, t); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range tr.roots {
		if err := check(r, nil); err != nil {
			return err
		}
	}
	if len(seen) != tr.size {
		return fmt.Errorf("tree reports %d tasks, found %d", tr.size, len(seen))
	}
	return nil
}

func preorder(t *Task, fn func(*Task)) {
	fn(t)
	for _, c := range t.children {
		preorder(c, fn)
	}
}

func without(list []*Task, t *Task) []*Task {
	for i, x := range list {
		if x == t {
			return append(list[:i:i], list[i+1:]...)
		}
	}
	return list
}
