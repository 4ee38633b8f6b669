package tree

import "github.com/google/uuid"

// Task is a node in a TaskTree.
type Task struct {
	id        string
	text      string
	completed bool
	children  []*Task
	parent    *Task

	// tree is the owning tree, nil once the task has been removed.
	tree *Tree
}

// newTask builds a fresh, incomplete task.
func newTask(text string) *Task {
	return &Task{
		id:   uuid.New().String(),
		text: text,
	}
}

// ID returns the task's identity. It never changes.
func (t *Task) ID() string { return t.id }

// Text returns the task's content.
func (t *Task) Text() string { return t.text }

// SetText replaces the task's content.
func (t *Task) SetText(text string) { t.text = text }

// Completed reports whether the task is complete.
func (t *Task) Completed() bool { return t.completed }

// Parent returns the enclosing task, or nil for a top-level task.
func (t *Task) Parent() *Task { return t.parent }

// Children returns a copy of the task's subtasks in insertion order.
func (t *Task) Children() []*Task {
	out := make([]*Task, len(t.children))
	copy(out, t.children)
	return out
}

// IsSubtask reports whether the task has an enclosing task.
func (t *Task) IsSubtask() bool { return t.parent != nil }
