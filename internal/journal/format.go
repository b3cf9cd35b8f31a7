package journal

import (
	"fmt"
	"strings"

	"tasktracker/internal/models"
	"tasktracker/internal/store"
)

// FromAction builds the entry for a freshly applied mutation.
func FromAction(action store.UndoAction) Entry {
	var event string
	switch action.Kind {
	case store.ActionAdd:
		event = EventAdded
	case store.ActionDelete:
		event = EventDeleted
	default:
		event = EventUpdated
	}

	return Entry{
		TaskID:  action.TaskID(),
		Event:   event,
		Details: forward(action),
	}
}

// FromUndo builds the entry for an undone action.
func FromUndo(action store.UndoAction) Entry {
	var details string
	switch action.Kind {
	case store.ActionAdd:
		details = formatTaskDetails("removed", action.After)
	case store.ActionDelete:
		details = formatTaskDetails("restored", action.Before)
	default:
		details = formatTaskDiff(action.After, action.Before)
	}

	return Entry{
		TaskID:  action.TaskID(),
		Event:   "undo:" + action.Kind.String(),
		Details: details,
	}
}

// FromRedo builds the entry for a redone action.
func FromRedo(action store.UndoAction) Entry {
	return Entry{
		TaskID:  action.TaskID(),
		Event:   "redo:" + action.Kind.String(),
		Details: forward(action),
	}
}

func forward(action store.UndoAction) string {
	switch action.Kind {
	case store.ActionAdd:
		return formatTaskDetails("created", action.After)
	case store.ActionDelete:
		return formatTaskDetails("removed", action.Before)
	default:
		return formatTaskDiff(action.Before, action.After)
	}
}

func formatTaskDetails(verb string, task models.Task) string {
	return fmt.Sprintf("%s: title='%s' priority=%d deadline=%s status=%s",
		verb, task.Title, task.Priority, valueOrNone(task.Deadline), strings.ToLower(task.Status()))
}

func formatTaskDiff(before, after models.Task) string {
	changes := []string{}
	if before.Title != after.Title {
		changes = append(changes, formatChange("title", before.Title, after.Title))
	}
	if before.Description != after.Description {
		changes = append(changes, formatChange("description", before.Description, after.Description))
	}
	if before.Deadline != after.Deadline {
		changes = append(changes, formatChange("deadline", before.Deadline, after.Deadline))
	}
	if before.Priority != after.Priority {
		changes = append(changes, formatChange("priority", fmt.Sprintf("%d", before.Priority), fmt.Sprintf("%d", after.Priority)))
	}
	if before.Completed != after.Completed {
		changes = append(changes, formatChange("status", strings.ToLower(before.Status()), strings.ToLower(after.Status())))
	}

	if len(changes) == 0 {
		return "updated: no changes"
	}

	return "updated: " + strings.Join(changes, "; ")
}

func formatChange(field, before, after string) string {
	return fmt.Sprintf("%s: '%s' -> '%s'", field, valueOrNone(before), valueOrNone(after))
}

func valueOrNone(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "none"
	}
	return trimmed
}
