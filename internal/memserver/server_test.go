package memserver_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tasklist/internal/memserver"
	"tasklist/internal/service"
)

func newServer(t *testing.T) (*memserver.Server, *httptest.Server) {
	t.Helper()
	srv := memserver.New(memserver.NewStore(memserver.SequentialIDs()), nil)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return srv, ts
}

func doRequest(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestServer_CreateAndList(t *testing.T) {
	_, ts := newServer(t)

	resp := doRequest(t, http.MethodPost, ts.URL+"/tasks", `{"title":"buy milk"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
	var created service.Task
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if created.ID != "1" || created.Title != "buy milk" || created.Completed {
		t.Errorf("unexpected created task %+v", created)
	}

	doRequest(t, http.MethodPost, ts.URL+"/tasks", `{"title":"walk dog"}`)

	resp = doRequest(t, http.MethodGet, ts.URL+"/tasks", "")
	var list []service.Task
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 2 || list[0].ID != "1" || list[1].ID != "2" {
		t.Errorf("unexpected list %+v", list)
	}
}

func TestServer_CreateBlankTitle(t *testing.T) {
	srv, ts := newServer(t)

	resp := doRequest(t, http.MethodPost, ts.URL+"/tasks", `{"title":"   "}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
	if n := len(srv.Store().List()); n != 0 {
		t.Errorf("expected empty store, got %d tasks", n)
	}
}

func TestServer_UpdateShapes(t *testing.T) {
	srv, ts := newServer(t)
	srv.Store().Create("buy milk")

	resp := doRequest(t, http.MethodPut, ts.URL+"/tasks/1", `{"completed":true}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var got service.Task
	_ = json.NewDecoder(resp.Body).Decode(&got)
	if !got.Completed || got.Title != "buy milk" {
		t.Errorf("patch update: unexpected %+v", got)
	}

	resp = doRequest(t, http.MethodPut, ts.URL+"/tasks/1", `{"id":"ignored","title":"buy oat milk","completed":false}`)
	_ = json.NewDecoder(resp.Body).Decode(&got)
	if got.ID != "1" || got.Completed || got.Title != "buy oat milk" {
		t.Errorf("full update: unexpected %+v", got)
	}
}

func TestServer_UnknownIDs(t *testing.T) {
	_, ts := newServer(t)

	if resp := doRequest(t, http.MethodPut, ts.URL+"/tasks/nope", `{"completed":true}`); resp.StatusCode != http.StatusNotFound {
		t.Errorf("PUT: expected 404, got %d", resp.StatusCode)
	}
	if resp := doRequest(t, http.MethodDelete, ts.URL+"/tasks/nope", ""); resp.StatusCode != http.StatusNotFound {
		t.Errorf("DELETE: expected 404, got %d", resp.StatusCode)
	}
}

func TestServer_Delete(t *testing.T) {
	srv, ts := newServer(t)
	srv.Store().Create("a")
	srv.Store().Create("b")

	resp := doRequest(t, http.MethodDelete, ts.URL+"/tasks/1", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", resp.StatusCode)
	}
	list := srv.Store().List()
	if len(list) != 1 || list[0].ID != "2" {
		t.Errorf("unexpected remaining tasks %+v", list)
	}
}
