package models

import (
	"errors"
	"testing"
)

func TestTaskValidation_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		task    Task
		wantErr bool
		errMsg  string
	}{
		{
			name:    "empty title should fail",
			task:    Task{Title: "", Priority: 5},
			wantErr: true,
			errMsg:  "invalid argument: title is required",
		},
		{
			name:    "whitespace title should fail",
			task:    Task{Title: "   ", Priority: 5},
			wantErr: true,
			errMsg:  "invalid argument: title is required",
		},
		{
			name:    "empty description is allowed",
			task:    Task{Title: "Write report", Description: "", Priority: 5},
			wantErr: false,
		},
		{
			name:    "valid task should pass",
			task:    Task{Title: "Write report", Description: "quarterly", Deadline: "2025-03-01", Priority: 2},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.task.Validate()
			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				} else if err.Error() != tt.errMsg {
					t.Errorf("expected error %q, got %q", tt.errMsg, err.Error())
				}
				if !errors.Is(err, ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
			} else {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
			}
		})
	}
}

func TestTaskValidation_PriorityValues(t *testing.T) {
	tests := []struct {
		name     string
		priority int
		wantErr  bool
	}{
		{name: "zero priority should fail", priority: 0, wantErr: true},
		{name: "negative priority should fail", priority: -3, wantErr: true},
		{name: "lowest bound is valid", priority: 1, wantErr: false},
		{name: "middle value is valid", priority: 5, wantErr: false},
		{name: "upper bound is valid", priority: 10, wantErr: false},
		{name: "above upper bound should fail", priority: 11, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := Task{Title: "Test", Priority: tt.priority}
			err := task.Validate()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error but got none")
				}
				if err.Error() != "invalid argument: priority must be between 1 and 10" {
					t.Errorf("unexpected error message: %v", err)
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestTask_IsOverdue(t *testing.T) {
	today := Date{Year: 2025, Month: 6, Day: 15}

	tests := []struct {
		name     string
		task     Task
		expected bool
	}{
		{
			name:     "past deadline and not completed is overdue",
			task:     Task{Deadline: "2025-06-14"},
			expected: true,
		},
		{
			name:     "past deadline but completed is not overdue",
			task:     Task{Deadline: "2025-06-14", Completed: true},
			expected: false,
		},
		{
			name:     "deadline today is not overdue",
			task:     Task{Deadline: "2025-06-15"},
			expected: false,
		},
		{
			name:     "future deadline is not overdue",
			task:     Task{Deadline: "2026-01-01"},
			expected: false,
		},
		{
			name:     "no deadline is not overdue",
			task:     Task{},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := tt.task.IsOverdue(today)
			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

func TestTask_Status(t *testing.T) {
	pending := Task{}
	if pending.Status() != "Pending" {
		t.Errorf("expected Pending, got %q", pending.Status())
	}
	done := Task{Completed: true}
	if done.Status() != "Completed" {
		t.Errorf("expected Completed, got %q", done.Status())
	}
}
