// Package session keeps a local task list in step with a remote task
// collection.
//
// Every mutation waits for the server before touching local state: there are
// no optimistic updates, no retries and no request queue. Concurrent calls are
// allowed and resolve in the order their responses arrive.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"tasklist/internal/service"
)

// ErrClosed is returned when a result arrives after Close. The result is
// discarded.
var ErrClosed = errors.New("session closed")

// Session owns the task list state for one view.
type Session struct {
	svc service.Service
	log *slog.Logger

	mu     sync.Mutex
	state  State
	loads  int // in-flight Load calls
	closed bool
}

// New creates a session over svc. A nil logger discards output.
func New(svc service.Service, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{svc: svc, log: logger}
}

// State returns a snapshot that is safe to keep and modify.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// SetNewTitle replaces the pending input buffer.
func (s *Session) SetNewTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.state.NewTitle = title
}

// Close marks the owning view as gone. Responses that arrive afterwards are
// dropped. Close is idempotent.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Closed reports whether Close has been called.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// apply replaces the state with fn(state) unless the session is closed.
func (s *Session) apply(fn func(State) State) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	s.state = fn(s.state)
	return nil
}

// fail records msg in the error slot and returns cause.
func (s *Session) fail(msg string, cause error) error {
	s.log.Debug("request failed", "msg", msg)
	if err := s.apply(func(st State) State { return failed(st, msg) }); err != nil {
		return err
	}
	return cause
}

// Load fetches the whole list and replaces the local one with it.
// On failure the list is left as it was.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.loads++
	s.state.Loading = true
	s.mu.Unlock()

	tasks, err := s.svc.ListTasks(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loads--
	if s.closed {
		return ErrClosed
	}

	var next State
	if err != nil {
		next = failed(s.state, fmt.Sprintf("failed to load tasks: %v", err))
	} else {
		next = loaded(s.state, tasks)
		s.log.Debug("loaded tasks", "count", len(tasks))
	}
	next.Loading = s.loads > 0
	s.state = next
	return err
}

// Add creates a task and appends the server's copy. A blank title is a no-op
// and issues no request.
func (s *Session) Add(ctx context.Context, title string) error {
	if strings.TrimSpace(title) == "" {
		return nil
	}
	if s.Closed() {
		return ErrClosed
	}

	task, err := s.svc.CreateTask(ctx, title)
	if err != nil {
		return s.fail(fmt.Sprintf("failed to add task: %v", err), err)
	}
	s.log.Debug("added task", "id", task.ID)
	return s.apply(func(st State) State { return appended(st, task, title) })
}

// Submit adds the task currently held in the input buffer.
func (s *Session) Submit(ctx context.Context) error {
	return s.Add(ctx, s.State().NewTitle)
}

// Toggle asks the server to invert task's completed flag and replaces the
// matching entry with the server's answer.
func (s *Session) Toggle(ctx context.Context, task service.Task) error {
	if s.Closed() {
		return ErrClosed
	}

	want := task
	want.Completed = !task.Completed
	updated, err := s.svc.UpdateTask(ctx, want)
	if err != nil {
		return s.fail(fmt.Sprintf("failed to update task: %v", err), err)
	}
	s.log.Debug("updated task", "id", updated.ID, "completed", updated.Completed)
	return s.apply(func(st State) State { return replaced(st, updated) })
}

// Delete removes a task on the server, then locally.
func (s *Session) Delete(ctx context.Context, id string) error {
	if s.Closed() {
		return ErrClosed
	}

	if err := s.svc.DeleteTask(ctx, id); err != nil {
		return s.fail(fmt.Sprintf("failed to delete task: %v", err), err)
	}
	s.log.Debug("deleted task", "id", id)
	return s.apply(func(st State) State { return removed(st, id) })
}
