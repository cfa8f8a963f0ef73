// Package service defines the backend-agnostic interface for task operations.
package service

import (
	"fmt"
	"strings"
)

// Task represents a single task item.
type Task struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// StatusError is returned when a backend answers with a non-success status.
// All backends report HTTP failures through this type so callers can branch
// on the status class without parsing messages.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	body := strings.TrimSpace(e.Body)
	if body == "" {
		return fmt.Sprintf("%s %s: %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Code, body)
}

// IsAuth reports whether the status means the credentials were rejected.
func (e *StatusError) IsAuth() bool {
	return e.Code == 401 || e.Code == 403
}

// IsClient reports whether the status is a 4xx other than an auth failure.
func (e *StatusError) IsClient() bool {
	return e.Code >= 400 && e.Code < 500 && !e.IsAuth()
}
