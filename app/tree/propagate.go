package tree

// Propagator is the only writer of task completion flags.
type Propagator struct {
	tree *Tree
}

// NewPropagator returns a Propagator bound to tr.
func NewPropagator(tr *Tree) *Propagator {
	return &Propagator{tree: tr}
}

// Toggle flips node's completion. Completing a task completes all of its
// descendants; un-completing it un-completes every ancestor up to the root.
func (p *Propagator) Toggle(node *Task) error {
	if !p.tree.Contains(node) {
		return ErrNotInTree
	}

	node.completed = !node.completed
	if node.completed {
		preorder(node, func(t *Task) { t.completed = true })
		return nil
	}
	uncheckFrom(node.parent)
	return nil
}

// UncheckAncestors marks node and all of its ancestors incomplete. Call it
// right after CreateSubtask so a fresh subtask cannot sit under a completed
// task.
func (p *Propagator) UncheckAncestors(node *Task) error {
	if !p.tree.Contains(node) {
		return ErrNotInTree
	}
	uncheckFrom(node)
	return nil
}

// uncheckFrom always walks to the root. An incomplete ancestor is not
// proof that the ones above it are incomplete too.
func uncheckFrom(t *Task) {
	for ; t != nil; t = t.parent {
		t.completed = false
	}
}
