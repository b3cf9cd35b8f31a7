package store

import (
	"errors"

	"tasktracker/internal/models"
)

var (
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")

	// ErrHistoryEmpty is returned by Undo and Redo when there is nothing to apply.
	ErrHistoryEmpty = errors.New("history is empty")

	// ErrInvalidArgument is returned when task fields fail validation.
	ErrInvalidArgument = models.ErrInvalidArgument
)

// Store defines the task operations the presentation shells rely on.
type Store interface {
	// Mutations
	AddTask(title, description, deadline string, priority int) (int64, error)
	DeleteTask(id int64) error
	UpdateTask(id int64, title, description, deadline string, priority int) error
	MarkTaskCompleted(id int64) error
	EditTask(id int64, title, deadline string) error
	UpdatePriority(id int64, priority int) error
	MoveToTomorrow(id int64) error
	SortByDeadline()
	Undo() (UndoAction, error)
	Redo() (UndoAction, error)

	// Queries
	AllTasks() []models.Task
	PendingTasks() []models.Task
	CompletedTasks() []models.Task
	SearchTasks(query string) []models.Task
	TasksByPriority() []models.Task
	TasksByDeadline(deadline string) []models.Task
	TasksByTitle(title string) []models.Task
	Task(id int64) (models.Task, error)
	TopPriority(n int) []models.Task
	Queue() []models.Task
	LastAction() (UndoAction, bool)
	CanUndo() bool
	CanRedo() bool
}
