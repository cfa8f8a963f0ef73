// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"tasklist/internal/service"
)

// ErrNotFound is returned when a task ID is unknown.
var ErrNotFound = errors.New("not found")

// FakeService is an in-memory implementation of service.Service for testing.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int
	calls  map[string]int

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error

	// Gate, when non-nil, makes every call wait until it is closed or
	// receives a value. Used to hold responses in flight.
	Gate chan struct{}
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	return &FakeService{calls: make(map[string]int)}
}

// AddTask seeds a task without counting as a call.
func (f *FakeService) AddTask(id, title string, completed bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = append(f.tasks, service.Task{ID: id, Title: title, Completed: completed})
}

// SetNextID makes the next created task get id n (then n+1, ...).
func (f *FakeService) SetNextID(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID = n - 1
}

// Tasks returns the server-side tasks.
func (f *FakeService) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns how many times method was invoked.
func (f *FakeService) Calls(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[method]
}

// TotalCalls returns the number of calls across all methods.
func (f *FakeService) TotalCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *FakeService) enter(ctx context.Context, method string) error {
	f.mu.Lock()
	f.calls[method]++
	gate := f.Gate
	f.mu.Unlock()

	if gate == nil {
		return nil
	}
	select {
	case <-gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	if err := f.enter(ctx, "ListTasks"); err != nil {
		return nil, err
	}
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, title string) (service.Task, error) {
	if err := f.enter(ctx, "CreateTask"); err != nil {
		return service.Task{}, err
	}
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	f.nextID++
	t := service.Task{ID: strconv.Itoa(f.nextID), Title: title}
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, task service.Task) (service.Task, error) {
	if err := f.enter(ctx, "UpdateTask"); err != nil {
		return service.Task{}, err
	}
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == task.ID {
			f.tasks[i] = task
			return task, nil
		}
	}
	return service.Task{}, ErrNotFound
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id string) error {
	if err := f.enter(ctx, "DeleteTask"); err != nil {
		return err
	}
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}
