package controllers

import (
	"encoding/json"
	"errors"
	"net/http"

	"tasktree/app/services"
	"tasktree/app/tree"

	"github.com/gorilla/mux"
)

// TaskController handles HTTP requests for tasks.
type TaskController struct {
	Service *services.TaskService
}

// NewTaskController creates a new TaskController.
func NewTaskController(service *services.TaskService) *TaskController {
	return &TaskController{Service: service}
}

type createRequest struct {
	Text     string  `json:"text"`
	ParentID *string `json:"parent_id"`
}

// GetTasks handles GET /tasks.
func (c *TaskController) GetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := c.Service.GetTasks(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

// CreateTask handles POST /tasks. A non-empty parent_id creates a subtask.
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if req.ParentID != nil && *req.ParentID != "" {
		c.createSubtask(w, r, *req.ParentID, req.Text)
		return
	}

	newTask, err := c.Service.CreateTask(r.Context(), req.Text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTask)
}

// CreateSubtask handles POST /tasks/{taskID}/subtasks.
func (c *TaskController) CreateSubtask(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	c.createSubtask(w, r, mux.Vars(r)["taskID"], req.Text)
}

func (c *TaskController) createSubtask(w http.ResponseWriter, r *http.Request, parentID, text string) {
	newTask, err := c.Service.CreateSubtask(r.Context(), parentID, text)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newTask)
}

// GetTaskByID handles GET /tasks/{taskID}.
func (c *TaskController) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	task, err := c.Service.GetTaskByID(r.Context(), mux.Vars(r)["taskID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// UpdateTask handles PUT /tasks/{taskID}. Only the text is editable here;
// completion changes go through the toggle route.
func (c *TaskController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID := mux.Vars(r)["taskID"]
	var updates struct {
		Text string `json:"text"`
	}

	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}

	if err := c.Service.UpdateText(r.Context(), taskID, updates.Text); err != nil {
		writeError(w, err)
		return
	}

	task, err := c.Service.GetTaskByID(r.Context(), taskID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ToggleTask handles POST /tasks/{taskID}/toggle.
func (c *TaskController) ToggleTask(w http.ResponseWriter, r *http.Request) {
	task, err := c.Service.ToggleTask(r.Context(), mux.Vars(r)["taskID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// GetParent handles GET /tasks/{taskID}/parent. Top-level tasks yield a
// JSON null.
func (c *TaskController) GetParent(w http.ResponseWriter, r *http.Request) {
	parent, err := c.Service.GetParent(r.Context(), mux.Vars(r)["taskID"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, parent)
}

// DeleteTask handles DELETE /tasks/{taskID}.
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := c.Service.DeleteTask(r.Context(), mux.Vars(r)["taskID"]); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrTaskNotFound), errors.Is(err, tree.ErrNotInTree):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, tree.ErrInvalidParent):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
