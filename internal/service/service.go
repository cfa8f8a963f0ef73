// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for a remote task collection.
// Commands and the interactive view never talk to a backend directly.
type Service interface {
	// ListTasks returns every task in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns it with its server-assigned ID.
	CreateTask(ctx context.Context, title string) (Task, error)

	// UpdateTask stores task (matched by ID) and returns the server's copy.
	UpdateTask(ctx context.Context, task Task) (Task, error)

	// DeleteTask deletes the task with the given ID.
	DeleteTask(ctx context.Context, id string) error
}
