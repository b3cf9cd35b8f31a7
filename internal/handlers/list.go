package handlers

import (
	"net/http"
	"strconv"

	"tasktracker/internal/models"
)

// ListTasks returns tasks filtered by the view query parameter:
// "all" (default), "pending", "completed", "priority" or "overdue".
// q, deadline and title narrow the result further.
func (h *Handlers) ListTasks(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	view := query.Get("view")
	if view == "" {
		view = "all"
	}

	deadline := query.Get("deadline")
	if deadline != "" {
		if err := models.ValidateDeadline(deadline); err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	today := models.Today()

	h.mu.Lock()
	var tasks []models.Task
	switch view {
	case "all":
		tasks = h.store.AllTasks()
	case "pending":
		tasks = h.store.PendingTasks()
	case "completed":
		tasks = h.store.CompletedTasks()
	case "priority":
		tasks = h.store.TasksByPriority()
	case "overdue":
		for _, task := range h.store.PendingTasks() {
			if task.IsOverdue(today) {
				tasks = append(tasks, task)
			}
		}
	default:
		h.mu.Unlock()
		respondError(w, http.StatusBadRequest, "view must be all, pending, completed, priority, or overdue")
		return
	}

	// Narrowing filters intersect with the selected view by id.
	if q := query.Get("q"); q != "" {
		tasks = intersect(tasks, h.store.SearchTasks(q))
	}
	if deadline != "" {
		tasks = intersect(tasks, h.store.TasksByDeadline(deadline))
	}
	if title := query.Get("title"); title != "" {
		tasks = intersect(tasks, h.store.TasksByTitle(title))
	}
	h.mu.Unlock()

	views := make([]taskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, newTaskView(task, today))
	}
	respondJSON(w, http.StatusOK, views)
}

// Queue returns pending tasks in priority-queue order. The optional n query
// parameter limits the result to the n most urgent tasks.
func (h *Handlers) Queue(w http.ResponseWriter, r *http.Request) {
	n := -1
	if v := r.URL.Query().Get("n"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "invalid n")
			return
		}
		n = parsed
	}

	h.mu.Lock()
	var tasks []models.Task
	if n < 0 {
		tasks = h.store.Queue()
	} else {
		tasks = h.store.TopPriority(n)
	}
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, newTaskViews(tasks))
}

// intersect keeps the tasks of base whose id also appears in filter,
// preserving base order.
func intersect(base, filter []models.Task) []models.Task {
	ids := make(map[int64]bool, len(filter))
	for _, task := range filter {
		ids[task.ID] = true
	}

	result := make([]models.Task, 0, len(base))
	for _, task := range base {
		if ids[task.ID] {
			result = append(result, task)
		}
	}
	return result
}
