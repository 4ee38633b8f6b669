package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"tasktree/app/models"
	"tasktree/app/tree"
)

// ErrTaskNotFound is returned when no task has the requested ID.
var ErrTaskNotFound = errors.New("task not found")

// TaskService handles task-related operations for a single editing session.
type TaskService struct {
	mu     sync.Mutex
	tree   *tree.Tree
	prop   *tree.Propagator
	byID   map[string]*tree.Task
	logger *slog.Logger
}

// NewTaskService creates a new instance of TaskService with an empty tree.
func NewTaskService(logger *slog.Logger) *TaskService {
	if logger == nil {
		logger = slog.Default()
	}
	tr := tree.New()
	return &TaskService{
		tree:   tr,
		prop:   tree.NewPropagator(tr),
		byID:   make(map[string]*tree.Task),
		logger: logger.With(slog.String("component", "task_service")),
	}
}

// GetTasks returns every top-level task with its subtasks nested.
func (s *TaskService) GetTasks(ctx context.Context) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	roots := s.tree.Roots()
	tasks := make([]models.Task, 0, len(roots))
	for _, r := range roots {
		tasks = append(tasks, models.FromTree(r))
	}
	return tasks, nil
}

// GetTaskByID retrieves a single task and its subtree.
func (s *TaskService) GetTaskByID(ctx context.Context, taskID string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.lookup(taskID)
	if err != nil {
		return nil, err
	}
	task := models.FromTree(t)
	return &task, nil
}

// CreateTask adds a new top-level task.
func (s *TaskService) CreateTask(ctx context.Context, text string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t := s.tree.CreateTopLevel(text)
	s.byID[t.ID()] = t
	s.logger.DebugContext(ctx, "task created", slog.String("id", t.ID()))

	task := models.FromTree(t)
	return &task, nil
}

// CreateSubtask adds a new task under parentID and un-completes the parent
// chain in the same step.
func (s *TaskService) CreateSubtask(ctx context.Context, parentID, text string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	parent, ok := s.byID[parentID]
	if !ok {
		return nil, fmt.Errorf("create subtask of %s: %w", parentID, tree.ErrInvalidParent)
	}
	t, err := s.tree.CreateSubtask(parent, text)
	if err != nil {
		return nil, fmt.Errorf("create subtask of %s: %w", parentID, err)
	}
	if err := s.prop.UncheckAncestors(t); err != nil {
		return nil, fmt.Errorf("create subtask of %s: %w", parentID, err)
	}
	s.byID[t.ID()] = t
	s.logger.DebugContext(ctx, "subtask created",
		slog.String("id", t.ID()),
		slog.String("parent_id", parentID),
	)

	task := models.FromTree(t)
	return &task, nil
}

// UpdateText replaces a task's content.
func (s *TaskService) UpdateText(ctx context.Context, taskID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.lookup(taskID)
	if err != nil {
		return err
	}
	t.SetText(text)
	s.logger.DebugContext(ctx, "task text updated", slog.String("id", taskID))
	return nil
}

// ToggleTask flips a task's completion and propagates the change.
func (s *TaskService) ToggleTask(ctx context.Context, taskID string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.lookup(taskID)
	if err != nil {
		return nil, err
	}
	if err := s.prop.Toggle(t); err != nil {
		return nil, fmt.Errorf("toggle %s: %w", taskID, err)
	}
	s.logger.DebugContext(ctx, "task toggled",
		slog.String("id", taskID),
		slog.Bool("completed", t.Completed()),
	)

	task := models.FromTree(t)
	return &task, nil
}

// GetParent returns the task that directly encloses taskID, or nil for a
// top-level task.
func (s *TaskService) GetParent(ctx context.Context, taskID string) (*models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.lookup(taskID)
	if err != nil {
		return nil, err
	}
	parent, err := s.tree.EnclosingTask(t)
	if err != nil {
		return nil, fmt.Errorf("enclosing task of %s: %w", taskID, err)
	}
	if parent == nil {
		return nil, nil
	}
	task := models.FromTree(parent)
	return &task, nil
}

// DeleteTask removes a task and all of its subtasks.
func (s *TaskService) DeleteTask(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.lookup(taskID)
	if err != nil {
		return err
	}

	var ids []string
	preorder(t, func(n *tree.Task) { ids = append(ids, n.ID()) })

	if err := s.tree.Remove(t); err != nil {
		return fmt.Errorf("delete %s: %w", taskID, err)
	}
	for _, id := range ids {
		delete(s.byID, id)
	}
	s.logger.DebugContext(ctx, "task deleted",
		slog.String("id", taskID),
		slog.Int("removed", len(ids)),
	)
	return nil
}

func (s *TaskService) lookup(taskID string) (*tree.Task, error) {
	t, ok := s.byID[taskID]
	if !ok {
		return nil, fmt.Errorf("%s: %w", taskID, ErrTaskNotFound)
	}
	return t, nil
}

func preorder(t *tree.Task, fn func(*tree.Task)) {
	fn(t)
	for _, c := range t.Children() {
		preorder(c, fn)
	}
}
