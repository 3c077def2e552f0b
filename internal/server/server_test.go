package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/paneflow/pkg/cache"
	perrors "github.com/matzehuels/paneflow/pkg/errors"
	"github.com/matzehuels/paneflow/pkg/observability"
	"github.com/matzehuels/paneflow/pkg/scene"
)

func newTestServer(t *testing.T, c cache.Cache) *httptest.Server {
	t.Helper()
	srv := New(c, log.New(io.Discard))
	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts
}

func demoBody(t *testing.T, width float64, extra string) io.Reader {
	t.Helper()
	data, err := json.Marshal(scene.Demo())
	if err != nil {
		t.Fatal(err)
	}
	body := `{"scene":` + string(data) + `,"width":` + jsonNumber(width) + extra + `}`
	return strings.NewReader(body)
}

func jsonNumber(v float64) string {
	data, _ := json.Marshal(v)
	return string(data)
}

func post(t *testing.T, url string, body io.Reader) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", body)
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) ErrorBody {
	t.Helper()
	var body map[string]ErrorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Error("response has no request ID")
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q", body["status"])
	}
}

func TestRequestIDPropagated(t *testing.T) {
	ts := newTestServer(t, nil)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Errorf("request ID = %q, want abc-123", got)
	}
}

func TestDemo(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/v1/demo")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	s, err := scene.Read(resp.Body, scene.FormatJSON)
	if err != nil {
		t.Fatalf("demo is not a valid scene: %v", err)
	}
	if len(s.Panes) != 5 || s.Width != 920 {
		t.Errorf("demo = %d panes at width %g", len(s.Panes), s.Width)
	}
}

func TestResize(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := post(t, ts.URL+"/v1/resize", demoBody(t, 1220, ""))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body ResizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body.Rows != 3 {
		t.Errorf("rows = %d, want 3", body.Rows)
	}
	if body.Scene.Width != 1220 {
		t.Errorf("scene width = %g, want 1220", body.Scene.Width)
	}
	want := map[int][2]float64{1: {0, 600}, 2: {610, 610}, 3: {610, 0}, 4: {620, 600}, 5: {0, 610}}
	for _, p := range body.Scene.Panes {
		if got := [2]float64{p.X, p.Width}; got != want[p.ID] {
			t.Errorf("pane %d = %v, want %v", p.ID, got, want[p.ID])
		}
	}
	if len(body.Artifacts) != 0 {
		t.Errorf("unexpected artifacts: %v", body.Artifacts)
	}
}

func TestResizeWithFormats(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := post(t, ts.URL+"/v1/resize", demoBody(t, 1220, `,"formats":["svg","dot"]`))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body ResizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !bytes.Contains(body.Artifacts["svg"], []byte("<svg")) {
		t.Error("svg artifact missing")
	}
	if !bytes.Contains(body.Artifacts["dot"], []byte("digraph")) {
		t.Error("dot artifact missing")
	}
}

func TestResizeErrors(t *testing.T) {
	ts := newTestServer(t, nil)
	tests := []struct {
		name   string
		body   io.Reader
		status int
		code   perrors.Code
	}{
		{"unsatisfiable", demoBody(t, 600, ""), http.StatusUnprocessableEntity, perrors.ErrCodeUnsatisfiableLayout},
		{"negative width", demoBody(t, -5, ""), http.StatusBadRequest, perrors.ErrCodeInvalidWidth},
		{"bad format", demoBody(t, 1220, `,"formats":["gif"]`), http.StatusBadRequest, perrors.ErrCodeInvalidFormat},
		{"malformed", strings.NewReader(`{"scene":`), http.StatusBadRequest, perrors.ErrCodeInvalidInput},
		{"unknown field", strings.NewReader(`{"scene":{"width":10,"panes":[]},"colour":1}`), http.StatusBadRequest, perrors.ErrCodeInvalidInput},
		{"no scene", strings.NewReader(`{"width":100}`), http.StatusBadRequest, perrors.ErrCodeInvalidInput},
		{"duplicate pane", strings.NewReader(`{"scene":{"width":100,"panes":[` +
			`{"id":1,"x":0,"y":0,"width":10,"height":10,"flex":true},` +
			`{"id":1,"x":20,"y":0,"width":10,"height":10,"flex":true}]}}`), http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/resize", tt.body)
			if resp.StatusCode != tt.status {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			body := decodeError(t, resp)
			if tt.code != "" && body.Code != tt.code {
				t.Errorf("code = %s, want %s", body.Code, tt.code)
			}
			if body.Message == "" {
				t.Error("error has no message")
			}
			if body.RequestID == "" {
				t.Error("error has no request ID")
			}
		})
	}
}

func TestResizeBodyTooLarge(t *testing.T) {
	ts := newTestServer(t, nil)
	body := `{"scene":{"width":10,"panes":[]},"formats":["` + strings.Repeat("x", MaxBodyBytes) + `"]}`
	resp := post(t, ts.URL+"/v1/resize", strings.NewReader(body))
	if resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", resp.StatusCode)
	}
}

func TestResizeWrongContentType(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Post(ts.URL+"/v1/resize", "text/plain", demoBody(t, 1220, ""))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestRender(t *testing.T) {
	ts := newTestServer(t, nil)
	tests := []struct {
		format      string
		contentType string
		prefix      []byte
	}{
		{"svg", "image/svg+xml", []byte("<svg")},
		{"png", "image/png", []byte("\x89PNG")},
		{"dot", "text/vnd.graphviz", []byte("digraph")},
		{"json", "application/json", []byte("{")},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			resp := post(t, ts.URL+"/v1/render/"+tt.format, demoBody(t, 700, ""))
			if resp.StatusCode != http.StatusOK {
				t.Fatalf("status = %d", resp.StatusCode)
			}
			if got := resp.Header.Get("Content-Type"); got != tt.contentType {
				t.Errorf("Content-Type = %q, want %q", got, tt.contentType)
			}
			data, _ := io.ReadAll(resp.Body)
			if !bytes.HasPrefix(bytes.TrimSpace(data), tt.prefix) {
				t.Errorf("body starts with %q", data[:min(len(data), 16)])
			}
		})
	}
}

func TestRenderUnknownFormat(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := post(t, ts.URL+"/v1/render/gif", demoBody(t, 1220, ""))
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
	if body := decodeError(t, resp); body.Code != perrors.ErrCodeInvalidFormat {
		t.Errorf("code = %s", body.Code)
	}
}

func TestRenderCached(t *testing.T) {
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ts := newTestServer(t, c)

	first := post(t, ts.URL+"/v1/render/svg", demoBody(t, 1220, ""))
	second := post(t, ts.URL+"/v1/render/svg", demoBody(t, 1220, ""))
	if got := first.Header.Get("X-Cache"); got != "miss" {
		t.Errorf("first X-Cache = %q, want miss", got)
	}
	if got := second.Header.Get("X-Cache"); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
	if first.Header.Get("X-Scene-Hash") != second.Header.Get("X-Scene-Hash") {
		t.Error("scene hash changed between identical requests")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/v1/resize")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", resp.StatusCode)
	}
}

type recordingHTTPHooks struct {
	mu       sync.Mutex
	statuses []int
}

func (h *recordingHTTPHooks) OnRequest(context.Context, string, string) {}

func (h *recordingHTTPHooks) OnResponse(_ context.Context, _, _ string, status int, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.statuses = append(h.statuses, status)
}

func TestHTTPHooks(t *testing.T) {
	hooks := &recordingHTTPHooks{}
	observability.SetHTTPHooks(hooks)
	t.Cleanup(observability.Reset)

	ts := newTestServer(t, nil)
	post(t, ts.URL+"/v1/resize", demoBody(t, 600, ""))
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()

	hooks.mu.Lock()
	defer hooks.mu.Unlock()
	want := []int{http.StatusUnprocessableEntity, http.StatusOK}
	if len(hooks.statuses) != len(want) {
		t.Fatalf("statuses = %v, want %v", hooks.statuses, want)
	}
	for i := range want {
		if hooks.statuses[i] != want[i] {
			t.Errorf("statuses = %v, want %v", hooks.statuses, want)
		}
	}
}

func TestListenAndServeShutdown(t *testing.T) {
	srv := New(nil, log.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.ListenAndServe(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("ListenAndServe() = %v, want nil after cancel", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
