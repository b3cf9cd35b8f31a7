// Package console implements the interactive menu shell over a task store.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"tasktracker/internal/models"
	"tasktracker/internal/store"
)

const menu = `
====== TASK MANAGER ======
1. Add Task
2. View All Tasks
3. View Pending Tasks
4. View Completed Tasks
5. Mark Task as Completed
6. Search by Title
7. Search by Deadline
8. Sort by Deadline
9. Edit Task
10. Undo
11. Redo
12. View Top N Priority Tasks
13. Update Priority
14. Move Task to Tomorrow
15. Show Priority Queue
16. Delete Task
17. Search Text
18. Exit
Enter your choice: `

const choiceExit = 18

// Console reads menu choices from in and writes results to out.
type Console struct {
	store store.Store
	in    *bufio.Scanner
	out   io.Writer
}

// New creates a console over s.
func New(s store.Store, in io.Reader, out io.Writer) *Console {
	return &Console{
		store: s,
		in:    bufio.NewScanner(in),
		out:   out,
	}
}

// Run shows the menu until the user exits, the input ends or ctx is done.
func (c *Console) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		fmt.Fprint(c.out, menu)
		line, err := c.readLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}

		choice, err := strconv.Atoi(line)
		if err != nil || choice < 1 || choice > choiceExit {
			fmt.Fprintln(c.out, "Invalid choice! Please try again.")
			continue
		}
		if choice == choiceExit {
			fmt.Fprintln(c.out, "Thank you for using Task Manager!")
			return nil
		}

		if err := c.dispatch(choice); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

func (c *Console) dispatch(choice int) error {
	switch choice {
	case 1:
		return c.addTask()
	case 2:
		c.printTasks("All Tasks", c.store.AllTasks(), "No tasks found.")
	case 3:
		c.printTasks("Pending Tasks", c.store.PendingTasks(), "No pending tasks.")
	case 4:
		c.printTasks("Completed Tasks", c.store.CompletedTasks(), "No completed tasks.")
	case 5:
		return c.withID("Enter task ID to mark as completed: ", func(id int64) error {
			c.report(c.store.MarkTaskCompleted(id), "Task marked as completed!")
			return nil
		})
	case 6:
		title, err := c.prompt("Enter title to search: ")
		if err != nil {
			return err
		}
		c.printTasks("Tasks Titled "+title, c.store.TasksByTitle(title), "No tasks found with this title.")
	case 7:
		deadline, err := c.prompt("Enter deadline (YYYY-MM-DD): ")
		if err != nil {
			return err
		}
		c.printTasks("Tasks Due on "+deadline, c.store.TasksByDeadline(deadline), "No tasks found for this date.")
	case 8:
		c.store.SortByDeadline()
		fmt.Fprintln(c.out, "Tasks sorted by deadline!")
	case 9:
		return c.editTask()
	case 10:
		c.history("undo", c.store.Undo, "Nothing to undo.")
	case 11:
		c.history("redo", c.store.Redo, "Nothing to redo.")
	case 12:
		return c.topPriority()
	case 13:
		return c.updatePriority()
	case 14:
		return c.withTitle("Enter task title to move: ", func(id int64) error {
			c.report(c.store.MoveToTomorrow(id), "Task moved to tomorrow successfully!")
			return nil
		})
	case 15:
		c.printQueue("Priority Queue", c.store.Queue())
	case 16:
		return c.withID("Enter task ID to delete: ", func(id int64) error {
			c.report(c.store.DeleteTask(id), "Task deleted successfully!")
			return nil
		})
	case 17:
		query, err := c.prompt("Enter text to search: ")
		if err != nil {
			return err
		}
		c.printTasks("Search Results", c.store.SearchTasks(query), "No tasks found.")
	}
	return nil
}

func (c *Console) addTask() error {
	title, err := c.prompt("Enter task title: ")
	if err != nil {
		return err
	}
	description, err := c.prompt("Enter task description: ")
	if err != nil {
		return err
	}
	deadline, err := c.prompt("Enter deadline (YYYY-MM-DD): ")
	if err != nil {
		return err
	}
	if err := models.ValidateDeadline(deadline); err != nil {
		fmt.Fprintln(c.out, "Invalid deadline. Use YYYY-MM-DD with a year of 2024 or later.")
		return nil
	}
	priority, ok, err := c.promptPriority("Enter priority (1-10): ")
	if err != nil || !ok {
		return err
	}

	id, err := c.store.AddTask(title, description, deadline, priority)
	if err != nil {
		c.report(err, "")
		return nil
	}
	fmt.Fprintf(c.out, "Task added successfully with ID %d!\n", id)
	return nil
}

func (c *Console) editTask() error {
	return c.withID("Enter task ID to edit: ", func(id int64) error {
		title, err := c.prompt("Enter new title: ")
		if err != nil {
			return err
		}
		deadline, err := c.prompt("Enter new deadline (YYYY-MM-DD): ")
		if err != nil {
			return err
		}
		if err := models.ValidateDeadline(deadline); err != nil {
			fmt.Fprintln(c.out, "Invalid deadline. Use YYYY-MM-DD with a year of 2024 or later.")
			return nil
		}
		c.report(c.store.EditTask(id, title, deadline), "Task updated successfully!")
		return nil
	})
}

func (c *Console) updatePriority() error {
	return c.withTitle("Enter task title: ", func(id int64) error {
		priority, ok, err := c.promptPriority("Enter new priority (1-10): ")
		if err != nil || !ok {
			return err
		}
		c.report(c.store.UpdatePriority(id, priority), "Priority updated successfully!")
		return nil
	})
}

func (c *Console) topPriority() error {
	line, err := c.prompt("Enter number of tasks to view: ")
	if err != nil {
		return err
	}
	n, err := strconv.Atoi(line)
	if err != nil || n < 0 {
		fmt.Fprintln(c.out, "Invalid number.")
		return nil
	}
	c.printQueue(fmt.Sprintf("Top %d Priority Tasks", n), c.store.TopPriority(n))
	return nil
}

func (c *Console) history(operation string, apply func() (store.UndoAction, error), empty string) {
	action, err := apply()
	if errors.Is(err, store.ErrHistoryEmpty) {
		fmt.Fprintln(c.out, empty)
		return
	}
	if err != nil {
		c.report(err, "")
		return
	}

	log.WithFields(log.Fields{
		"operation": operation,
		"kind":      action.Kind.String(),
		"task_id":   action.TaskID(),
	}).Debug("history applied")

	verb := "Undone"
	if operation == "redo" {
		verb = "Redone"
	}
	fmt.Fprintf(c.out, "%s: %s of task %d\n", verb, action.Kind, action.TaskID())
}

// withID prompts for a numeric task id and passes it to fn.
func (c *Console) withID(label string, fn func(id int64) error) error {
	line, err := c.prompt(label)
	if err != nil {
		return err
	}
	id, err := strconv.ParseInt(line, 10, 64)
	if err != nil {
		fmt.Fprintln(c.out, "Invalid task ID.")
		return nil
	}
	return fn(id)
}

// withTitle prompts for a title and passes the id of the first task with that
// exact title to fn.
func (c *Console) withTitle(label string, fn func(id int64) error) error {
	title, err := c.prompt(label)
	if err != nil {
		return err
	}
	matches := c.store.TasksByTitle(title)
	if len(matches) == 0 {
		fmt.Fprintln(c.out, "Task not found.")
		return nil
	}
	return fn(matches[0].ID)
}

// promptPriority reads a priority. ok is false when the input was rejected.
func (c *Console) promptPriority(label string) (int, bool, error) {
	line, err := c.prompt(label)
	if err != nil {
		return 0, false, err
	}
	priority, err := strconv.Atoi(line)
	if err != nil || models.ValidatePriority(priority) != nil {
		fmt.Fprintf(c.out, "Priority must be a number between %d and %d.\n", models.MinPriority, models.MaxPriority)
		return 0, false, nil
	}
	return priority, true, nil
}

func (c *Console) report(err error, success string) {
	switch {
	case err == nil:
		fmt.Fprintln(c.out, success)
	case errors.Is(err, store.ErrNotFound):
		fmt.Fprintln(c.out, "Task not found.")
	case errors.Is(err, store.ErrInvalidArgument):
		fmt.Fprintf(c.out, "Error: %v\n", err)
	default:
		log.WithError(err).Error("console operation failed")
		fmt.Fprintf(c.out, "Error: %v\n", err)
	}
}

func (c *Console) printTasks(heading string, tasks []models.Task, empty string) {
	if len(tasks) == 0 {
		fmt.Fprintln(c.out, empty)
		return
	}
	fmt.Fprintf(c.out, "\n=== %s ===\n", heading)
	for _, task := range tasks {
		printTask(c.out, task)
	}
}

func (c *Console) printQueue(heading string, tasks []models.Task) {
	fmt.Fprintf(c.out, "\n=== %s ===\n", heading)
	if len(tasks) == 0 {
		fmt.Fprintln(c.out, "No pending tasks.")
		return
	}
	for _, task := range tasks {
		fmt.Fprintf(c.out, "- %s (Priority: %d)\n", task.Title, task.Priority)
	}
}

func printTask(w io.Writer, task models.Task) {
	fmt.Fprintf(w, "ID: %d\n", task.ID)
	fmt.Fprintf(w, "Title: %s\n", task.Title)
	fmt.Fprintf(w, "Description: %s\n", task.Description)
	fmt.Fprintf(w, "Priority: %d\n", task.Priority)
	fmt.Fprintf(w, "Deadline: %s\n", task.Deadline)
	fmt.Fprintf(w, "Status: %s\n", task.Status())
	fmt.Fprintln(w, "------------------------")
}

func (c *Console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	return c.readLine()
}

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}
