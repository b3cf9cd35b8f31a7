package models

import (
	"errors"
	"fmt"
	"strings"
)

// Priority bounds. Lower numbers are more urgent.
const (
	MinPriority = 1
	MaxPriority = 10
)

// ErrInvalidArgument is returned when a task field fails validation.
var ErrInvalidArgument = errors.New("invalid argument")

// Task represents a single tracked task.
type Task struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
	Priority    int    `json:"priority"`
	Completed   bool   `json:"completed"`
}

// Validate checks that the task has valid field values.
func (t *Task) Validate() error {
	if err := ValidateTitle(t.Title); err != nil {
		return err
	}
	return ValidatePriority(t.Priority)
}

// ValidateTitle rejects empty or whitespace-only titles.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidArgument)
	}
	return nil
}

// ValidatePriority rejects priorities outside [MinPriority, MaxPriority].
func ValidatePriority(priority int) error {
	if priority < MinPriority || priority > MaxPriority {
		return fmt.Errorf("%w: priority must be between %d and %d", ErrInvalidArgument, MinPriority, MaxPriority)
	}
	return nil
}

// IsOverdue returns true if the task is pending and its deadline is before today.
func (t *Task) IsOverdue(today Date) bool {
	if t.Completed || t.Deadline == "" {
		return false
	}
	return ParseDate(t.Deadline).Before(today)
}

// Status returns "Completed" or "Pending".
func (t *Task) Status() string {
	if t.Completed {
		return "Completed"
	}
	return "Pending"
}
