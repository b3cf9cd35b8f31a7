package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	log "github.com/sirupsen/logrus"

	"tasktracker/internal/journal"
	"tasktracker/internal/models"
	"tasktracker/internal/store"
)

// Journal records and lists task activity.
type Journal interface {
	Record(ctx context.Context, entry *journal.Entry) error
	ListByTask(ctx context.Context, taskID int64) ([]journal.Entry, error)
	Recent(ctx context.Context, limit int) ([]journal.Entry, error)
}

// Handlers holds the HTTP handlers and their dependencies.
//
// The task store is not safe for concurrent use, so every call into it goes
// through mu.
type Handlers struct {
	mu      sync.Mutex
	store   store.Store
	journal Journal
}

// New creates a new Handlers instance. j may be nil to disable the journal.
func New(s store.Store, j Journal) *Handlers {
	return &Handlers{
		store:   s,
		journal: j,
	}
}

// Routes registers every API route on r.
func (h *Handlers) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/tasks", h.ListTasks)
		r.Post("/tasks", h.CreateTask)
		r.Post("/tasks/sort", h.SortTasks)
		r.Get("/tasks/{id}", h.GetTask)
		r.Put("/tasks/{id}", h.UpdateTask)
		r.Delete("/tasks/{id}", h.DeleteTask)
		r.Post("/tasks/{id}/complete", h.CompleteTask)
		r.Post("/tasks/{id}/edit", h.EditTask)
		r.Post("/tasks/{id}/priority", h.UpdatePriority)
		r.Post("/tasks/{id}/tomorrow", h.MoveToTomorrow)
		r.Get("/tasks/{id}/history", h.TaskHistory)

		r.Get("/queue", h.Queue)
		r.Post("/undo", h.Undo)
		r.Post("/redo", h.Redo)
		r.Get("/history", h.History)
	})
}

// taskView is the JSON shape of a task.
type taskView struct {
	models.Task
	Overdue bool `json:"overdue"`
}

func newTaskView(task models.Task, today models.Date) taskView {
	return taskView{Task: task, Overdue: task.IsOverdue(today)}
}

func newTaskViews(tasks []models.Task) []taskView {
	today := models.Today()
	views := make([]taskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, newTaskView(task, today))
	}
	return views
}

// parseID extracts and parses an integer ID from URL parameters.
func parseID(r *http.Request, param string) (int64, error) {
	idStr := chi.URLParam(r, param)
	return strconv.ParseInt(idStr, 10, 64)
}

// parsePriority parses the priority form value. Range checks are left to the store.
func parsePriority(value string) (int, error) {
	priority, err := strconv.Atoi(value)
	if err != nil {
		return 0, errors.New("invalid priority number")
	}
	return priority, nil
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, code int, message string) {
	w.WriteHeader(code)
	w.Write([]byte(message))
}

func respondServerError(w http.ResponseWriter, err error) {
	log.WithError(err).Error("internal server error")
	respondError(w, http.StatusInternalServerError, "internal server error")
}

// respondStoreError maps store errors onto status codes.
func respondStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, store.ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, store.ErrHistoryEmpty):
		respondError(w, http.StatusConflict, err.Error())
	default:
		respondServerError(w, err)
	}
}

func respondJSON(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.WithError(err).Warn("failed to encode response")
	}
}

// mutate runs fn under the store lock and journals the action it recorded
// before releasing the lock, so journal order matches the order mutations were
// applied in.
func (h *Handlers) mutate(ctx context.Context, fn func() error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := fn(); err != nil {
		return err
	}
	if action, ok := h.store.LastAction(); ok {
		h.record(ctx, journal.FromAction(action))
	}
	return nil
}

// record writes entry to the journal. Callers hold h.mu. Journal failures are
// logged and never fail the request: the mutation has already been applied.
func (h *Handlers) record(ctx context.Context, entry journal.Entry) {
	if h.journal == nil {
		return
	}
	if err := h.journal.Record(ctx, &entry); err != nil {
		log.WithError(err).WithFields(log.Fields{
			"task_id": entry.TaskID,
			"event":   entry.Event,
		}).Warn("failed to record journal entry")
	}
}
