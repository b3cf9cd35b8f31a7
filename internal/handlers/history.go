package handlers

import (
	"net/http"
	"strconv"

	"tasktracker/internal/journal"
)

const defaultHistoryLimit = 50

// TaskHistory returns the journal entries for one task, oldest first.
func (h *Handlers) TaskHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := parseID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid task id")
		return
	}

	if h.journal == nil {
		respondJSON(w, http.StatusOK, []journal.Entry{})
		return
	}

	entries, err := h.journal.ListByTask(ctx, id)
	if err != nil {
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}

// History returns the most recent journal entries, newest first. Entries are
// written under the store lock, so their order is the order mutations applied.
func (h *Handlers) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	limit := defaultHistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			respondError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	if h.journal == nil {
		respondJSON(w, http.StatusOK, []journal.Entry{})
		return
	}

	entries, err := h.journal.Recent(ctx, limit)
	if err != nil {
		respondServerError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, entries)
}
