package memserver

import (
	"errors"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"tasklist/internal/service"
)

// ErrNotFound is returned for unknown task IDs.
var ErrNotFound = errors.New("not found")

// IDFunc produces a fresh task ID.
type IDFunc func() string

// Store is an ordered, goroutine-safe in-memory task collection.
type Store struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID IDFunc
}

// NewStore creates an empty store. A nil idFunc uses random UUIDs.
func NewStore(idFunc IDFunc) *Store {
	if idFunc == nil {
		idFunc = uuid.NewString
	}
	return &Store{nextID: idFunc}
}

// List returns a copy of all tasks in insertion order.
func (s *Store) List() []service.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]service.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Create appends a new open task.
func (s *Store) Create(title string) service.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	t := service.Task{ID: s.nextID(), Title: title}
	s.tasks = append(s.tasks, t)
	return t
}

// Update applies fn to the task with the given ID and returns the result.
func (s *Store) Update(id string, fn func(*service.Task)) (service.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			fn(&s.tasks[i])
			s.tasks[i].ID = id
			return s.tasks[i], nil
		}
	}
	return service.Task{}, ErrNotFound
}

// Delete removes the task with the given ID.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// SequentialIDs returns an IDFunc yielding "1", "2", ... for predictable tests
// and demos.
func SequentialIDs() IDFunc {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return strconv.Itoa(n)
	}
}
