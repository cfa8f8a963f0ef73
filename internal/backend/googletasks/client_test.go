package googletasks_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"google.golang.org/api/option"

	"tasklist/internal/backend/googletasks"
	"tasklist/internal/service"
)

// fakeTasksAPI serves the subset of the Google Tasks REST surface the client uses.
type fakeTasksAPI struct {
	mu        sync.Mutex
	items     []map[string]any
	lastPatch map[string]any
}

func (f *fakeTasksAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	const prefix = "/lists/L1/tasks"
	i := strings.Index(r.URL.Path, prefix)
	if i < 0 {
		http.NotFound(w, r)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path[i+len(prefix):], "/")

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.Method == http.MethodGet && rest == "":
		_ = json.NewEncoder(w).Encode(map[string]any{"kind": "tasks#tasks", "items": f.items})
	case r.Method == http.MethodPost && rest == "":
		var body map[string]any
		_ = json.NewDecoder(r.Body).Decode(&body)
		body["id"] = "g-new"
		f.items = append(f.items, body)
		_ = json.NewEncoder(w).Encode(body)
	case r.Method == http.MethodPatch && rest != "":
		var body map[string]any
		data, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(data, &body)
		f.lastPatch = body
		for _, item := range f.items {
			if item["id"] == rest {
				for k, v := range body {
					item[k] = v
				}
				_ = json.NewEncoder(w).Encode(item)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"error":{"code":404,"message":"Task not found"}}`)
	case r.Method == http.MethodDelete && rest != "":
		w.WriteHeader(http.StatusNoContent)
	default:
		http.NotFound(w, r)
	}
}

func newClient(t *testing.T, api *fakeTasksAPI) *googletasks.Client {
	t.Helper()
	ts := httptest.NewServer(api)
	t.Cleanup(ts.Close)

	client, err := googletasks.NewWithHTTPClient(context.Background(), ts.Client(), "L1", 0, option.WithEndpoint(ts.URL+"/"))
	if err != nil {
		t.Fatalf("NewWithHTTPClient: %v", err)
	}
	return client
}

func TestListTasks_MapsStatus(t *testing.T) {
	api := &fakeTasksAPI{items: []map[string]any{
		{"id": "a", "title": "buy milk", "status": "needsAction"},
		{"id": "b", "title": "walk dog", "status": "completed"},
	}}
	client := newClient(t, api)

	got, err := client.ListTasks(context.Background())
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	want := []service.Task{
		{ID: "a", Title: "buy milk", Completed: false},
		{ID: "b", Title: "walk dog", Completed: true},
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d tasks, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("task %d: expected %+v, got %+v", i, want[i], got[i])
		}
	}
}

func TestCreateTask_ReturnsServerID(t *testing.T) {
	client := newClient(t, &fakeTasksAPI{})

	task, err := client.CreateTask(context.Background(), "walk dog")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID != "g-new" || task.Title != "walk dog" || task.Completed {
		t.Errorf("unexpected task %+v", task)
	}
}

func TestUpdateTask_SendsStatus(t *testing.T) {
	api := &fakeTasksAPI{items: []map[string]any{
		{"id": "a", "title": "buy milk", "status": "needsAction"},
	}}
	client := newClient(t, api)

	task, err := client.UpdateTask(context.Background(), service.Task{ID: "a", Title: "buy milk", Completed: true})
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !task.Completed {
		t.Error("expected completed task")
	}
	if api.lastPatch["status"] != "completed" {
		t.Errorf("expected status completed in patch, got %v", api.lastPatch)
	}
}

func TestUpdateTask_NotFoundIsStatusError(t *testing.T) {
	client := newClient(t, &fakeTasksAPI{})

	_, err := client.UpdateTask(context.Background(), service.Task{ID: "ghost", Title: "x"})
	var se *service.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *service.StatusError, got %T %v", err, err)
	}
	if se.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", se.Code)
	}
}

func TestDeleteTask(t *testing.T) {
	client := newClient(t, &fakeTasksAPI{})
	if err := client.DeleteTask(context.Background(), "a"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
}
