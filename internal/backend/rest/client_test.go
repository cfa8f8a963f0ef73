package rest_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"tasklist/internal/backend/rest"
	"tasklist/internal/config"
	"tasklist/internal/memserver"
	"tasklist/internal/service"
)

func newMemClient(t *testing.T, mode string) (*rest.Client, *memserver.Store) {
	t.Helper()
	store := memserver.NewStore(memserver.SequentialIDs())
	ts := httptest.NewServer(memserver.New(store, nil).Handler())
	t.Cleanup(ts.Close)
	return rest.NewWithHTTPClient(ts.Client(), rest.Options{BaseURL: ts.URL, UpdateMode: mode}), store
}

// recorded captures what a handler saw.
type recorded struct {
	mu          sync.Mutex
	method      string
	path        string
	contentType string
	auth        string
	body        string
}

func recordingServer(t *testing.T, status int, response string) (*httptest.Server, *recorded) {
	t.Helper()
	rec := &recorded{}
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.method = r.Method
		rec.path = r.URL.EscapedPath()
		rec.contentType = r.Header.Get("Content-Type")
		rec.auth = r.Header.Get("Authorization")
		rec.body = string(data)
		rec.mu.Unlock()
		w.WriteHeader(status)
		_, _ = io.WriteString(w, response)
	}))
	t.Cleanup(ts.Close)
	return ts, rec
}

func TestClient_CRUDAgainstMemServer(t *testing.T) {
	client, store := newMemClient(t, config.UpdateFull)
	ctx := context.Background()

	tasks, err := client.ListTasks(ctx)
	if err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if tasks == nil || len(tasks) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v", tasks)
	}

	created, err := client.CreateTask(ctx, "buy milk")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if created.ID != "1" || created.Title != "buy milk" || created.Completed {
		t.Errorf("unexpected created task %+v", created)
	}

	created.Completed = true
	updated, err := client.UpdateTask(ctx, created)
	if err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	if !updated.Completed || updated.ID != "1" {
		t.Errorf("unexpected updated task %+v", updated)
	}

	if err := client.DeleteTask(ctx, "1"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if n := len(store.List()); n != 0 {
		t.Errorf("expected empty store, got %d", n)
	}
}

func TestClient_NonSuccessStatusIsStatusError(t *testing.T) {
	client, _ := newMemClient(t, config.UpdateFull)

	_, err := client.UpdateTask(context.Background(), service.Task{ID: "missing", Title: "x"})
	var se *service.StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected *service.StatusError, got %T %v", err, err)
	}
	if se.Code != http.StatusNotFound || se.Method != http.MethodPut || se.Path != "/tasks/missing" {
		t.Errorf("unexpected status error %+v", se)
	}
	if !se.IsClient() || se.IsAuth() {
		t.Errorf("expected a client (non-auth) error classification")
	}
}

func TestClient_ErrorBodyIgnoredForSuccessDecision(t *testing.T) {
	// A 2xx with an "error" body is still a success; a 5xx with a task body is still a failure.
	ts, _ := recordingServer(t, http.StatusInternalServerError, `{"id":"1","title":"x","completed":false}`)
	client := rest.NewWithHTTPClient(ts.Client(), rest.Options{BaseURL: ts.URL})

	if _, err := client.CreateTask(context.Background(), "x"); err == nil {
		t.Fatal("expected error for 500 response")
	} else if !strings.Contains(err.Error(), "500") {
		t.Errorf("expected status code in message, got %v", err)
	}
}

func TestClient_CreateSendsTitleJSON(t *testing.T) {
	ts, rec := recordingServer(t, http.StatusCreated, `{"id":"9","title":"walk dog","completed":false}`)
	client := rest.NewWithHTTPClient(ts.Client(), rest.Options{BaseURL: ts.URL + "/"})

	task, err := client.CreateTask(context.Background(), "walk dog")
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if task.ID != "9" {
		t.Errorf("expected server id 9, got %q", task.ID)
	}
	if rec.method != http.MethodPost || rec.path != "/tasks" {
		t.Errorf("unexpected request %s %s", rec.method, rec.path)
	}
	if rec.contentType != "application/json" {
		t.Errorf("expected JSON content type, got %q", rec.contentType)
	}
	if strings.TrimSpace(rec.body) != `{"title":"walk dog"}` {
		t.Errorf("unexpected body %q", rec.body)
	}
}

func TestClient_UpdateModes(t *testing.T) {
	task := service.Task{ID: "a b", Title: "buy milk", Completed: true}

	tests := []struct {
		mode string
		want map[string]any
	}{
		{config.UpdateFull, map[string]any{"id": "a b", "title": "buy milk", "completed": true}},
		{config.UpdatePatch, map[string]any{"completed": true}},
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			ts, rec := recordingServer(t, http.StatusOK, `{"id":"a b","title":"buy milk","completed":true}`)
			client := rest.NewWithHTTPClient(ts.Client(), rest.Options{BaseURL: ts.URL, UpdateMode: tt.mode})

			if _, err := client.UpdateTask(context.Background(), task); err != nil {
				t.Fatalf("UpdateTask: %v", err)
			}
			if rec.method != http.MethodPut || rec.path != "/tasks/a%20b" {
				t.Errorf("unexpected request %s %s", rec.method, rec.path)
			}
			var got map[string]any
			if err := json.Unmarshal([]byte(rec.body), &got); err != nil {
				t.Fatalf("body is not JSON: %q", rec.body)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("expected body %v, got %v", tt.want, got)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("field %s: expected %v, got %v", k, v, got[k])
				}
			}
		})
	}
}

func TestClient_DeleteHasNoContentTypeAndIgnoresBody(t *testing.T) {
	ts, rec := recordingServer(t, http.StatusOK, `not json at all`)
	client := rest.NewWithHTTPClient(ts.Client(), rest.Options{BaseURL: ts.URL})

	if err := client.DeleteTask(context.Background(), "7"); err != nil {
		t.Fatalf("DeleteTask: %v", err)
	}
	if rec.method != http.MethodDelete || rec.path != "/tasks/7" {
		t.Errorf("unexpected request %s %s", rec.method, rec.path)
	}
	if rec.contentType != "" {
		t.Errorf("expected no content type on bodiless request, got %q", rec.contentType)
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	url := ts.URL
	ts.Close()

	client := rest.NewWithHTTPClient(nil, rest.Options{BaseURL: url})
	if _, err := client.ListTasks(context.Background()); err == nil {
		t.Fatal("expected network error")
	}
}

func TestNew_UsesStoredBearerToken(t *testing.T) {
	ts, rec := recordingServer(t, http.StatusOK, `[]`)

	dir := t.TempDir()
	token := `{"access_token":"s3cret","token_type":"Bearer"}`
	if err := os.WriteFile(filepath.Join(dir, config.TokenFile), []byte(token), 0600); err != nil {
		t.Fatalf("write token: %v", err)
	}
	cfg := &config.Config{Dir: dir, BaseURL: ts.URL, UpdateMode: config.UpdateFull}

	client, err := rest.New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := client.ListTasks(context.Background()); err != nil {
		t.Fatalf("ListTasks: %v", err)
	}
	if rec.auth != "Bearer s3cret" {
		t.Errorf("expected bearer header, got %q", rec.auth)
	}
}

func TestNew_RejectsTokenWithoutAccessToken(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.TokenFile), []byte(`{}`), 0600); err != nil {
		t.Fatalf("write token: %v", err)
	}
	cfg := &config.Config{Dir: dir, BaseURL: "http://localhost"}

	if _, err := rest.New(context.Background(), cfg); err == nil {
		t.Fatal("expected error for token without access_token")
	}
}
