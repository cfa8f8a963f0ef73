package commands

import (
	"fmt"

	"tasklist/internal/service"
)

// errTaskNotFound is returned by findTask; its message is user-facing.
type errTaskNotFound struct{ msg string }

func (e errTaskNotFound) Error() string { return e.msg }

// findTask resolves ref against a loaded list.
func findTask(tasks []service.Task, ref TaskRef) (service.Task, error) {
	if ref.ByID {
		for _, t := range tasks {
			if t.ID == ref.ID {
				return t, nil
			}
		}
		return service.Task{}, errTaskNotFound{fmt.Sprintf("task not found: %s", ref.ID)}
	}

	if ref.Num < 1 || ref.Num > len(tasks) {
		return service.Task{}, errTaskNotFound{fmt.Sprintf("task number out of range: %d", ref.Num)}
	}
	return tasks[ref.Num-1], nil
}
