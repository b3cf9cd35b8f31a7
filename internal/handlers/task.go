package handlers

import (
	"net/http"

	"tasktracker/internal/journal"
	"tasktracker/internal/models"
	"tasktracker/internal/store"
)

// CreateTask adds a new task.
func (h *Handlers) CreateTask(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	deadline := r.FormValue("deadline")
	if err := models.ValidateDeadline(deadline); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	priority, err := parsePriority(r.FormValue("priority"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var task models.Task
	err = h.mutate(r.Context(), func() error {
		id, err := h.store.AddTask(r.FormValue("title"), r.FormValue("description"), deadline, priority)
		if err != nil {
			return err
		}
		task, err = h.store.Task(id)
		return err
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, newTaskView(task, models.Today()))
}

// GetTask returns a single task.
func (h *Handlers) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	h.mu.Lock()
	task, err := h.store.Task(id)
	h.mu.Unlock()
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newTaskView(task, models.Today()))
}

// UpdateTask replaces title, description, deadline and priority.
func (h *Handlers) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	deadline := r.FormValue("deadline")
	if err := models.ValidateDeadline(deadline); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	priority, err := parsePriority(r.FormValue("priority"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.applyEdit(w, r, id, func() error {
		return h.store.UpdateTask(id, r.FormValue("title"), r.FormValue("description"), deadline, priority)
	})
}

// EditTask replaces only the title and deadline.
func (h *Handlers) EditTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	deadline := r.FormValue("deadline")
	if err := models.ValidateDeadline(deadline); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.applyEdit(w, r, id, func() error {
		return h.store.EditTask(id, r.FormValue("title"), deadline)
	})
}

// UpdatePriority replaces only the priority.
func (h *Handlers) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if err := r.ParseForm(); err != nil {
		respondError(w, http.StatusBadRequest, "invalid form data")
		return
	}

	priority, err := parsePriority(r.FormValue("priority"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.applyEdit(w, r, id, func() error {
		return h.store.UpdatePriority(id, priority)
	})
}

// CompleteTask marks a task as completed.
func (h *Handlers) CompleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	h.applyEdit(w, r, id, func() error {
		return h.store.MarkTaskCompleted(id)
	})
}

// MoveToTomorrow pushes the deadline forward by one day.
func (h *Handlers) MoveToTomorrow(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	h.applyEdit(w, r, id, func() error {
		return h.store.MoveToTomorrow(id)
	})
}

// applyEdit runs an edit and responds with the updated task.
func (h *Handlers) applyEdit(w http.ResponseWriter, r *http.Request, id int64, edit func() error) {
	var task models.Task
	err := h.mutate(r.Context(), func() error {
		if err := edit(); err != nil {
			return err
		}
		var err error
		task, err = h.store.Task(id)
		return err
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, newTaskView(task, models.Today()))
}

// DeleteTask deletes a task.
func (h *Handlers) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	err = h.mutate(r.Context(), func() error {
		return h.store.DeleteTask(id)
	})
	if err != nil {
		respondStoreError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// SortTasks reorders the collection by deadline. Sorting is not undoable and
// is not journaled.
func (h *Handlers) SortTasks(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.store.SortByDeadline()
	tasks := h.store.AllTasks()
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, newTaskViews(tasks))
}

// historyResult describes an applied undo or redo.
type historyResult struct {
	Operation string `json:"operation"`
	Kind      string `json:"kind"`
	TaskID    int64  `json:"task_id"`
	CanUndo   bool   `json:"can_undo"`
	CanRedo   bool   `json:"can_redo"`
}

// Undo reverts the most recent mutation.
func (h *Handlers) Undo(w http.ResponseWriter, r *http.Request) {
	h.applyHistory(w, r, "undo", h.store.Undo, journal.FromUndo)
}

// Redo reapplies the most recently undone mutation.
func (h *Handlers) Redo(w http.ResponseWriter, r *http.Request) {
	h.applyHistory(w, r, "redo", h.store.Redo, journal.FromRedo)
}

func (h *Handlers) applyHistory(w http.ResponseWriter, r *http.Request, operation string,
	apply func() (store.UndoAction, error), entry func(store.UndoAction) journal.Entry) {
	h.mu.Lock()
	action, err := apply()
	if err == nil {
		h.record(r.Context(), entry(action))
	}
	result := historyResult{
		Operation: operation,
		CanUndo:   h.store.CanUndo(),
		CanRedo:   h.store.CanRedo(),
	}
	h.mu.Unlock()

	if err != nil {
		respondStoreError(w, err)
		return
	}

	result.Kind = action.Kind.String()
	result.TaskID = action.TaskID()

	respondJSON(w, http.StatusOK, result)
}
