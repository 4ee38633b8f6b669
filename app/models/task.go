package models

import "tasktree/app/tree"

// Task is the JSON view of a task and its subtasks.
type Task struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	Completed bool    `json:"completed"`
	ParentID  *string `json:"parent_id"`
	Subtasks  []Task  `json:"subtasks"`
}

// FromTree converts t and its subtree into a Task view.
func FromTree(t *tree.Task) Task {
	var parentID *string
	if p := t.Parent(); p != nil {
		id := p.ID()
		parentID = &id
	}

	children := t.Children()
	subtasks := make([]Task, 0, len(children))
	for _, c := range children {
		subtasks = append(subtasks, FromTree(c))
	}

	return Task{
		ID:        t.ID(),
		Text:      t.Text(),
		Completed: t.Completed(),
		ParentID:  parentID,
		Subtasks:  subtasks,
	}
}
