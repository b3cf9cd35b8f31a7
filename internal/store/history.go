package store

import "tasktracker/internal/models"

// DefaultHistoryLimit is the number of undo (and redo) entries kept unless
// configured otherwise.
const DefaultHistoryLimit = 100

// ActionKind identifies the mutation an UndoAction reverses.
type ActionKind int

const (
	ActionAdd ActionKind = iota + 1
	ActionEdit
	ActionDelete
)

func (k ActionKind) String() string {
	switch k {
	case ActionAdd:
		return "add"
	case ActionEdit:
		return "edit"
	case ActionDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// UndoAction is a snapshot of one reversible mutation. Before is the zero Task
// for ActionAdd and After is the zero Task for ActionDelete.
type UndoAction struct {
	Kind   ActionKind
	Before models.Task
	After  models.Task

	// position of the removed task in the collection: set on delete, and on
	// undo of an add so that redo restores the same order
	position int
}

// TaskID returns the id of the task the action touched.
func (a UndoAction) TaskID() int64 {
	if a.Kind == ActionAdd {
		return a.After.ID
	}
	return a.Before.ID
}

// HistoryStack is a LIFO of UndoActions with an optional capacity. When full,
// pushing evicts the oldest entry.
type HistoryStack struct {
	actions  []UndoAction
	capacity int
}

// NewHistoryStack creates a stack holding at most capacity entries. A capacity
// of zero or less means unbounded.
func NewHistoryStack(capacity int) *HistoryStack {
	if capacity < 0 {
		capacity = 0
	}
	return &HistoryStack{capacity: capacity}
}

// Push places action on top of the stack and reports whether the oldest entry
// had to be evicted to make room.
func (s *HistoryStack) Push(action UndoAction) bool {
	evicted := false
	if s.capacity > 0 && len(s.actions) >= s.capacity {
		copy(s.actions, s.actions[1:])
		s.actions = s.actions[:len(s.actions)-1]
		evicted = true
	}
	s.actions = append(s.actions, action)
	return evicted
}

// Pop removes and returns the top entry. The second return value is false
// when the stack is empty.
func (s *HistoryStack) Pop() (UndoAction, bool) {
	n := len(s.actions)
	if n == 0 {
		return UndoAction{}, false
	}
	action := s.actions[n-1]
	s.actions[n-1] = UndoAction{}
	s.actions = s.actions[:n-1]
	return action, true
}

// Peek returns the top entry without removing it.
func (s *HistoryStack) Peek() (UndoAction, bool) {
	if len(s.actions) == 0 {
		return UndoAction{}, false
	}
	return s.actions[len(s.actions)-1], true
}

// Len returns the number of entries.
func (s *HistoryStack) Len() int {
	return len(s.actions)
}

// IsEmpty reports whether the stack has no entries.
func (s *HistoryStack) IsEmpty() bool {
	return len(s.actions) == 0
}

// Clear drops every entry.
func (s *HistoryStack) Clear() {
	s.actions = nil
}
