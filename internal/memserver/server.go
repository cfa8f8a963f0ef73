// Package memserver serves an in-memory task collection over the same HTTP
// contract the rest backend consumes. It backs `tasklist serve` and the
// backend tests.
package memserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/gorilla/mux"

	"tasklist/internal/service"
)

// Server exposes a Store as /tasks.
type Server struct {
	store *Store
	log   *slog.Logger
}

// New creates a server over store. A nil logger discards request logs.
func New(store *Store, logger *slog.Logger) *Server {
	if store == nil {
		store = NewStore(nil)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Server{store: store, log: logger}
}

// Store returns the backing store.
func (s *Server) Store() *Store { return s.store }

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			m := httpsnoop.CaptureMetrics(handler, writer, request)
			s.log.Info("handled", "method", request.Method, "url", request.URL, "duration", m.Duration, "status", m.Code)
		})
	})

	r.Methods(http.MethodGet).Path("/tasks").HandlerFunc(s.handleList)
	r.Methods(http.MethodPost).Path("/tasks").HandlerFunc(s.handleCreate)
	r.Methods(http.MethodPut).Path("/tasks/{id}").HandlerFunc(s.handleUpdate)
	r.Methods(http.MethodDelete).Path("/tasks/{id}").HandlerFunc(s.handleDelete)
	r.Methods(http.MethodGet).Path("/health").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

// ListenAndServe serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	server := &http.Server{Addr: addr, Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeErr(w, http.StatusBadRequest, "title required")
		return
	}
	writeJSON(w, http.StatusCreated, s.store.Create(req.Title))
}

// updateRequest accepts both the full task and the {"completed": bool} shape.
type updateRequest struct {
	Title     *string `json:"title"`
	Completed *bool   `json:"completed"`
}

func (s *Server) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		writeErr(w, http.StatusBadRequest, "title required")
		return
	}

	task, err := s.store.Update(id, func(t *service.Task) {
		if req.Title != nil {
			t.Title = *req.Title
		}
		if req.Completed != nil {
			t.Completed = *req.Completed
		}
	})
	if errors.Is(err, ErrNotFound) {
		writeErr(w, http.StatusNotFound, "task not found")
		return
	}
	writeJSON(w, http.StatusOK, task)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := s.store.Delete(id); errors.Is(err, ErrNotFound) {
		writeErr(w, http.StatusNotFound, "task not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
