package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/panetree/pkg/geom"
	"github.com/matzehuels/panetree/pkg/observability"
	"github.com/matzehuels/panetree/pkg/partition"
	"github.com/matzehuels/panetree/pkg/pipeline"
	"github.com/matzehuels/panetree/pkg/snapshot"
)

func columns() []partition.Element {
	return []partition.Element{
		{ID: "a", Rect: geom.R(0, 0, 0.5, 1), Label: "nav"},
		{ID: "b", Rect: geom.R(0.5, 0, 0.5, 0.5)},
		{ID: "c", Rect: geom.R(0.5, 0.5, 0.5, 0.5)},
	}
}

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, nil)
	s, err := New(context.Background(), runner, columns(), pipeline.Options{ResizeOnPromote: true})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return s, ts
}

func do(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return v
}

func TestSnapshotRoute(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/tree.json", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	snap, err := snapshot.Read(resp.Body)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if snap.ElementCount != 3 || len(snap.Nodes) != 5 {
		t.Errorf("snapshot has %d elements and %d nodes, want 3 and 5", snap.ElementCount, len(snap.Nodes))
	}
}

func TestArtifactRoutes(t *testing.T) {
	_, ts := newTestServer(t)
	tests := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/tree.svg", "image/svg+xml", `id="leaf-a"`},
		{"/tree.svg?branches=true", "image/svg+xml", `class="branch"`},
		{"/tree.dot", "text/vnd.graphviz", "digraph"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp := do(t, http.MethodGet, ts.URL+tt.path, "")
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d, want 200", resp.StatusCode)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body missing %q", tt.contains)
			}
		})
	}
}

func TestRemoveAndReset(t *testing.T) {
	s, ts := newTestServer(t)

	resp := do(t, http.MethodDelete, ts.URL+"/leaves/b", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	got := decode[changeResponse](t, resp)
	if got.Removed != 2 || !got.Promoted || got.Leaves != 2 {
		t.Errorf("remove b = %+v, want 2 removed, promoted, 2 leaves", got)
	}

	// Removing again is a no-op.
	again := decode[changeResponse](t, do(t, http.MethodDelete, ts.URL+"/leaves/b", ""))
	if again.Removed != 0 || again.Leaves != 2 {
		t.Errorf("second remove = %+v, want no change", again)
	}

	resp = do(t, http.MethodPost, ts.URL+"/reset", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("reset status = %d, want 204", resp.StatusCode)
	}
	if n := s.Snapshot().ElementCount; n != 3 {
		t.Errorf("after reset ElementCount = %d, want 3", n)
	}
}

func TestInsert(t *testing.T) {
	s, ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/leaves", `{"target":"c","id":"d","axis":"v"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d, want 201", resp.StatusCode)
	}
	got := decode[changeResponse](t, resp)
	if got.Inserted != "d" || got.Leaves != 4 {
		t.Errorf("insert = %+v", got)
	}

	for _, n := range s.Snapshot().Leaves() {
		if n.ElementID == "d" && !geom.Near(n.Height, 1.0/3) {
			t.Errorf("new leaf height = %g, want 1/3", n.Height)
		}
	}
}

func TestInsertErrors(t *testing.T) {
	_, ts := newTestServer(t)
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"bad json", `{`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"bad axis", `{"target":"a","id":"x","axis":"diagonal"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"no axis", `{"target":"a","id":"x"}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"duplicate", `{"target":"a","id":"b","axis":"h"}`, http.StatusConflict, "DUPLICATE_ID"},
		{"missing target", `{"target":"zz","id":"x","axis":"h"}`, http.StatusNotFound, "NOT_FOUND"},
		{"slash in id", `{"target":"a","id":"x/y","axis":"h"}`, http.StatusBadRequest, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodPost, ts.URL+"/leaves", tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if got := decode[errorResponse](t, resp); string(got.Code) != tt.code {
				t.Errorf("code = %q, want %q", got.Code, tt.code)
			}
		})
	}
}

func TestLeavesAndHealth(t *testing.T) {
	_, ts := newTestServer(t)

	leaves := decode[[]map[string]any](t, do(t, http.MethodGet, ts.URL+"/leaves", ""))
	if len(leaves) != 3 || leaves[0]["id"] != "a" {
		t.Errorf("leaves = %v", leaves)
	}

	health := decode[map[string]string](t, do(t, http.MethodGet, ts.URL+"/healthz", ""))
	if health["version"] == "" {
		t.Errorf("healthz = %v, missing version", health)
	}
}

type recordingServerHooks struct {
	observability.NoopServerHooks
	mu     sync.Mutex
	routes []string
}

func (h *recordingServerHooks) OnRequest(_ context.Context, method, route string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, method+" "+route)
}

func TestRequestHooks(t *testing.T) {
	hooks := &recordingServerHooks{}
	observability.SetServerHooks(hooks)
	defer observability.Reset()

	s, _ := newTestServer(t)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/leaves/a", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	if len(hooks.routes) != 1 || hooks.routes[0] != "DELETE /leaves/{id}" {
		t.Errorf("routes = %v, want [DELETE /leaves/{id}]", hooks.routes)
	}
}
