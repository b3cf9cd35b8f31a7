package store

import (
	"fmt"
	"sort"
	"strings"

	"tasktracker/internal/models"
)

// Options configures a TaskStore.
type Options struct {
	// HistoryLimit caps both the undo and redo history. Zero means unbounded.
	HistoryLimit int

	// ClearRedoOnMutation drops the redo history whenever a new mutation is
	// recorded. When false, redo entries survive fresh mutations.
	ClearRedoOnMutation bool
}

// DefaultOptions returns the options used by the shells when nothing is configured.
func DefaultOptions() Options {
	return Options{HistoryLimit: DefaultHistoryLimit}
}

// TaskStore owns the authoritative task collection together with the derived
// priority queue and the undo/redo history.
//
// TaskStore is not safe for concurrent use. Callers must serialize access.
type TaskStore struct {
	tasks  []models.Task
	index  map[int64]int
	nextID int64

	queue *PriorityQueue
	undo  *HistoryStack
	redo  *HistoryStack

	clearRedo bool
}

var _ Store = (*TaskStore)(nil)

// NewTaskStore creates an empty store.
func NewTaskStore(opts Options) *TaskStore {
	return &TaskStore{
		index:     make(map[int64]int),
		nextID:    1,
		queue:     NewPriorityQueue(),
		undo:      NewHistoryStack(opts.HistoryLimit),
		redo:      NewHistoryStack(opts.HistoryLimit),
		clearRedo: opts.ClearRedoOnMutation,
	}
}

// AddTask validates and appends a new task, returning its id.
func (s *TaskStore) AddTask(title, description, deadline string, priority int) (int64, error) {
	task := models.Task{
		Title:       title,
		Description: description,
		Deadline:    deadline,
		Priority:    priority,
	}
	if err := task.Validate(); err != nil {
		return 0, err
	}

	task.ID = s.nextID
	s.nextID++

	s.tasks = append(s.tasks, task)
	s.record(UndoAction{Kind: ActionAdd, After: task})
	s.sync()

	return task.ID, nil
}

// DeleteTask removes the task with the given id.
func (s *TaskStore) DeleteTask(id int64) error {
	pos, ok := s.index[id]
	if !ok {
		return notFound(id)
	}

	removed := s.tasks[pos]
	s.tasks = append(s.tasks[:pos], s.tasks[pos+1:]...)
	s.record(UndoAction{Kind: ActionDelete, Before: removed, position: pos})
	s.sync()

	return nil
}

// UpdateTask replaces title, description, deadline and priority.
func (s *TaskStore) UpdateTask(id int64, title, description, deadline string, priority int) error {
	if err := models.ValidateTitle(title); err != nil {
		return err
	}
	if err := models.ValidatePriority(priority); err != nil {
		return err
	}

	return s.edit(id, func(t *models.Task) {
		t.Title = title
		t.Description = description
		t.Deadline = deadline
		t.Priority = priority
	})
}

// MarkTaskCompleted flags the task as done, which removes it from the queue.
func (s *TaskStore) MarkTaskCompleted(id int64) error {
	return s.edit(id, func(t *models.Task) {
		t.Completed = true
	})
}

// EditTask replaces only the title and deadline.
func (s *TaskStore) EditTask(id int64, title, deadline string) error {
	if err := models.ValidateTitle(title); err != nil {
		return err
	}

	return s.edit(id, func(t *models.Task) {
		t.Title = title
		t.Deadline = deadline
	})
}

// UpdatePriority replaces only the priority.
func (s *TaskStore) UpdatePriority(id int64, priority int) error {
	if err := models.ValidatePriority(priority); err != nil {
		return err
	}

	return s.edit(id, func(t *models.Task) {
		t.Priority = priority
	})
}

// MoveToTomorrow pushes the deadline forward by one day using 30-day months.
func (s *TaskStore) MoveToTomorrow(id int64) error {
	return s.edit(id, func(t *models.Task) {
		t.Deadline = models.ParseDate(t.Deadline).AddDays(1).String()
	})
}

func (s *TaskStore) edit(id int64, apply func(t *models.Task)) error {
	pos, ok := s.index[id]
	if !ok {
		return notFound(id)
	}

	before := s.tasks[pos]
	apply(&s.tasks[pos])
	s.record(UndoAction{Kind: ActionEdit, Before: before, After: s.tasks[pos]})
	s.sync()

	return nil
}

// SortByDeadline reorders the collection by ascending deadline. Tasks with equal
// deadlines keep their relative order. Sorting is a view change and is not
// recorded in the undo history.
func (s *TaskStore) SortByDeadline() {
	sort.SliceStable(s.tasks, func(i, j int) bool {
		return models.ParseDate(s.tasks[i].Deadline).Before(models.ParseDate(s.tasks[j].Deadline))
	})
	s.sync()
}

// Undo reverts the most recent mutation and moves it to the redo history.
func (s *TaskStore) Undo() (UndoAction, error) {
	action, ok := s.undo.Pop()
	if !ok {
		return UndoAction{}, fmt.Errorf("nothing to undo: %w", ErrHistoryEmpty)
	}

	switch action.Kind {
	case ActionAdd:
		// Remember where the task sat so a redo puts it back in the same place.
		if pos, ok := s.index[action.After.ID]; ok {
			action.position = pos
		}
		s.remove(action.After.ID)
	case ActionEdit:
		s.overwrite(action.Before)
	case ActionDelete:
		s.insertAt(action.position, action.Before)
	}

	s.sync()
	s.redo.Push(action)
	return action, nil
}

// Redo reapplies the most recently undone mutation and moves it back to the
// undo history.
func (s *TaskStore) Redo() (UndoAction, error) {
	action, ok := s.redo.Pop()
	if !ok {
		return UndoAction{}, fmt.Errorf("nothing to redo: %w", ErrHistoryEmpty)
	}

	switch action.Kind {
	case ActionAdd:
		s.insertAt(action.position, action.After)
	case ActionEdit:
		s.overwrite(action.After)
	case ActionDelete:
		s.remove(action.Before.ID)
	}

	s.sync()
	s.undo.Push(action)
	return action, nil
}

func (s *TaskStore) record(action UndoAction) {
	s.undo.Push(action)
	if s.clearRedo {
		s.redo.Clear()
	}
}

// remove drops the task with the given id if present.
func (s *TaskStore) remove(id int64) {
	if pos, ok := s.index[id]; ok {
		s.tasks = append(s.tasks[:pos], s.tasks[pos+1:]...)
	}
}

// overwrite replaces the task sharing task.ID if present.
func (s *TaskStore) overwrite(task models.Task) {
	if pos, ok := s.index[task.ID]; ok {
		s.tasks[pos] = task
	}
}

// insertAt places task at pos, clamped to the collection bounds. A task that
// already carries the same id is replaced in place so ids stay unique.
func (s *TaskStore) insertAt(pos int, task models.Task) {
	if existing, ok := s.index[task.ID]; ok {
		s.tasks[existing] = task
		return
	}

	if pos < 0 {
		pos = 0
	}
	if pos > len(s.tasks) {
		pos = len(s.tasks)
	}

	s.tasks = append(s.tasks, models.Task{})
	copy(s.tasks[pos+1:], s.tasks[pos:])
	s.tasks[pos] = task
}

// sync rebuilds the id index and the priority queue from the collection.
func (s *TaskStore) sync() {
	s.index = make(map[int64]int, len(s.tasks))
	queue := NewPriorityQueue()
	for i, task := range s.tasks {
		s.index[task.ID] = i
		if !task.Completed {
			queue.Insert(task)
		}
	}
	s.queue = queue
}

// AllTasks returns every task in collection order.
func (s *TaskStore) AllTasks() []models.Task {
	return s.filter(func(models.Task) bool { return true })
}

// PendingTasks returns the tasks not yet completed.
func (s *TaskStore) PendingTasks() []models.Task {
	return s.filter(func(t models.Task) bool { return !t.Completed })
}

// CompletedTasks returns the completed tasks.
func (s *TaskStore) CompletedTasks() []models.Task {
	return s.filter(func(t models.Task) bool { return t.Completed })
}

// SearchTasks returns tasks whose title or description contains query.
// Matching is case-sensitive.
func (s *TaskStore) SearchTasks(query string) []models.Task {
	return s.filter(func(t models.Task) bool {
		return strings.Contains(t.Title, query) || strings.Contains(t.Description, query)
	})
}

// TasksByDeadline returns tasks whose deadline equals deadline exactly.
func (s *TaskStore) TasksByDeadline(deadline string) []models.Task {
	return s.filter(func(t models.Task) bool { return t.Deadline == deadline })
}

// TasksByTitle returns tasks whose title equals title exactly.
func (s *TaskStore) TasksByTitle(title string) []models.Task {
	return s.filter(func(t models.Task) bool { return t.Title == title })
}

// TasksByPriority returns every task, completed or not, by ascending priority
// number. Equal priorities keep collection order.
func (s *TaskStore) TasksByPriority() []models.Task {
	tasks := s.AllTasks()
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Priority < tasks[j].Priority
	})
	return tasks
}

// Task returns a copy of the task with the given id.
func (s *TaskStore) Task(id int64) (models.Task, error) {
	pos, ok := s.index[id]
	if !ok {
		return models.Task{}, notFound(id)
	}
	return s.tasks[pos], nil
}

// TopPriority returns up to n pending tasks in queue order.
func (s *TaskStore) TopPriority(n int) []models.Task {
	return s.queue.Top(n)
}

// Queue returns every pending task in queue order.
func (s *TaskStore) Queue() []models.Task {
	return s.queue.Ordered()
}

// LastAction returns the mutation that the next Undo would revert.
func (s *TaskStore) LastAction() (UndoAction, bool) {
	return s.undo.Peek()
}

// CanUndo reports whether the undo history has entries.
func (s *TaskStore) CanUndo() bool {
	return !s.undo.IsEmpty()
}

// CanRedo reports whether the redo history has entries.
func (s *TaskStore) CanRedo() bool {
	return !s.redo.IsEmpty()
}

// Len returns the number of tasks.
func (s *TaskStore) Len() int {
	return len(s.tasks)
}

func (s *TaskStore) filter(keep func(models.Task) bool) []models.Task {
	result := make([]models.Task, 0, len(s.tasks))
	for _, task := range s.tasks {
		if keep(task) {
			result = append(result, task)
		}
	}
	return result
}

func notFound(id int64) error {
	return fmt.Errorf("task %d: %w", id, ErrNotFound)
}
