package console

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"tasktracker/internal/store"
)

func runConsole(t *testing.T, s *store.TaskStore, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	c := New(s, strings.NewReader(strings.Join(lines, "\n")+"\n"), &out)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return out.String()
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(output, w) {
			t.Errorf("expected output to contain %q\noutput:\n%s", w, output)
		}
	}
}

func TestRun_AddAndView(t *testing.T) {
	s := store.NewTaskStore(store.DefaultOptions())

	out := runConsole(t, s,
		"1", "Write report", "quarterly", "2025-03-01", "2",
		"2",
		"18",
	)

	assertContains(t, out,
		"Task added successfully with ID 1!",
		"=== All Tasks ===",
		"Title: Write report",
		"Description: quarterly",
		"Priority: 2",
		"Deadline: 2025-03-01",
		"Status: Pending",
		"Thank you for using Task Manager!",
	)
	if s.Len() != 1 {
		t.Errorf("expected 1 task, got %d", s.Len())
	}
}

func TestRun_RejectsInvalidInput(t *testing.T) {
	s := store.NewTaskStore(store.DefaultOptions())

	out := runConsole(t, s,
		"99",
		"abc",
		"1", "Task", "", "2023-01-01",
		"1", "Task", "", "2025-01-01", "11",
		"1", "", "", "2025-01-01", "3",
		"18",
	)

	assertContains(t, out,
		"Invalid choice! Please try again.",
		"Invalid deadline.",
		"Priority must be a number between 1 and 10.",
		"Error: invalid argument",
	)
	if s.Len() != 0 {
		t.Errorf("expected no tasks, got %d", s.Len())
	}
}

func TestRun_UndoRedo(t *testing.T) {
	s := store.NewTaskStore(store.DefaultOptions())

	out := runConsole(t, s,
		"10",
		"1", "Task", "", "2025-01-01", "3",
		"10",
		"11",
		"11",
		"18",
	)

	assertContains(t, out,
		"Nothing to undo.",
		"Undone: add of task 1",
		"Redone: add of task 1",
		"Nothing to redo.",
	)
	if s.Len() != 1 {
		t.Errorf("expected task restored by redo, got %d tasks", s.Len())
	}
}

func TestRun_CompleteAndQueue(t *testing.T) {
	s := store.NewTaskStore(store.DefaultOptions())
	s.AddTask("Low", "", "2025-01-01", 9)
	s.AddTask("High", "", "2025-01-01", 1)
	s.AddTask("Mid", "", "2025-01-01", 5)

	out := runConsole(t, s,
		"5", "2",
		"5", "42",
		"15",
		"12", "1",
		"18",
	)

	assertContains(t, out,
		"Task marked as completed!",
		"Task not found.",
		"=== Priority Queue ===\n- Mid (Priority: 5)\n- Low (Priority: 9)\n",
		"=== Top 1 Priority Tasks ===\n- Mid (Priority: 5)\n",
	)
}

func TestRun_TitleLookups(t *testing.T) {
	s := store.NewTaskStore(store.DefaultOptions())
	s.AddTask("Call", "", "2025-01-30", 4)

	out := runConsole(t, s,
		"13", "Call", "7",
		"14", "Call",
		"14", "Nobody",
		"6", "Call",
		"7", "2025-02-01",
		"18",
	)

	assertContains(t, out,
		"Priority updated successfully!",
		"Task moved to tomorrow successfully!",
		"Task not found.",
		"=== Tasks Titled Call ===",
		"=== Tasks Due on 2025-02-01 ===",
	)

	task, err := s.Task(1)
	if err != nil {
		t.Fatalf("Task failed: %v", err)
	}
	if task.Priority != 7 || task.Deadline != "2025-02-01" {
		t.Errorf("unexpected task: %+v", task)
	}
}

func TestRun_EditSortDeleteSearch(t *testing.T) {
	s := store.NewTaskStore(store.DefaultOptions())
	s.AddTask("Later", "", "2025-06-01", 4)
	s.AddTask("Sooner", "has keyword", "2025-02-01", 4)

	out := runConsole(t, s,
		"9", "1", "Renamed", "2025-07-01",
		"8",
		"17", "keyword",
		"16", "2",
		"16", "x",
		"18",
	)

	assertContains(t, out,
		"Task updated successfully!",
		"Tasks sorted by deadline!",
		"=== Search Results ===\nID: 2\n",
		"Task deleted successfully!",
		"Invalid task ID.",
	)

	all := s.AllTasks()
	if len(all) != 1 || all[0].Title != "Renamed" {
		t.Errorf("unexpected tasks: %+v", all)
	}
}

func TestRun_EndOfInputStops(t *testing.T) {
	s := store.NewTaskStore(store.DefaultOptions())

	out := runConsole(t, s, "1", "Half a task")
	if strings.Contains(out, "Task added") {
		t.Errorf("expected no task to be added on truncated input:\n%s", out)
	}
	if s.Len() != 0 {
		t.Errorf("expected no tasks, got %d", s.Len())
	}
}

func TestRun_CancelledContext(t *testing.T) {
	s := store.NewTaskStore(store.DefaultOptions())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := New(s, strings.NewReader("2\n"), &out).Run(ctx)
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestRun_FollowUpPromptErrorsStopTheLoop(t *testing.T) {
	errRead := errors.New("read failed")

	tests := []struct {
		name  string
		input string
	}{
		{name: "edit title", input: "9\n1\n"},
		{name: "edit deadline", input: "9\n1\nRenamed\n"},
		{name: "update priority", input: "13\nCall\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := store.NewTaskStore(store.DefaultOptions())
			s.AddTask("Call", "", "2025-01-30", 4)

			var out bytes.Buffer
			in := io.MultiReader(strings.NewReader(tt.input), iotest.ErrReader(errRead))
			err := New(s, in, &out).Run(context.Background())

			if !errors.Is(err, errRead) {
				t.Fatalf("expected read error, got %v", err)
			}
			if n := strings.Count(out.String(), "TASK MANAGER"); n != 1 {
				t.Errorf("expected the menu once before stopping, shown %d times", n)
			}
			if task, _ := s.Task(1); task.Title != "Call" || task.Priority != 4 {
				t.Errorf("expected task untouched, got %+v", task)
			}
		})
	}
}
