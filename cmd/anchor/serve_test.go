package main

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	clientdist "github.com/vango-dev/anchor/client/dist"
	"github.com/vango-dev/anchor/internal/config"
	"github.com/vango-dev/anchor/pkg/live"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	cfg := config.New()
	cfg.Demo.Items = []string{"write", "ship"}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	srv := httptest.NewServer(newServer(cfg, logger, prometheus.NewRegistry()).routes())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string) (int, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp.StatusCode, string(body)
}

func TestServePage(t *testing.T) {
	srv := newTestServer(t)

	code, body := get(t, srv.URL+"/")
	if code != http.StatusOK {
		t.Fatalf("GET / = %d", code)
	}
	for _, want := range []string{
		`<meta name="anchor-live" content="/live">`,
		`<div id="app">`,
		">ship</li>",
		`id="__anchor_state"`,
		`<script src="/_anchor/client.js" defer></script>`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("page is missing %q", want)
		}
	}
}

func TestServeHealthAndNotFound(t *testing.T) {
	srv := newTestServer(t)

	if code, body := get(t, srv.URL+"/healthz"); code != http.StatusOK || body != "ok" {
		t.Errorf("GET /healthz = %d %q", code, body)
	}
	if code, _ := get(t, srv.URL+"/nope"); code != http.StatusNotFound {
		t.Errorf("GET /nope = %d, want 404", code)
	}
}

func TestServeClientScript(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + clientdist.Path)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK || !strings.HasPrefix(resp.Header.Get("Content-Type"), "text/javascript") {
		t.Errorf("GET %s = %d %s", clientdist.Path, resp.StatusCode, resp.Header.Get("Content-Type"))
	}
}

func TestServeMetrics(t *testing.T) {
	srv := newTestServer(t)
	get(t, srv.URL+"/")

	code, body := get(t, srv.URL+"/metrics")
	if code != http.StatusOK {
		t.Fatalf("GET /metrics = %d", code)
	}
	for _, want := range []string{
		`anchor_http_requests_total{method="GET",route="/",status="2xx"} 1`,
		"anchor_effect_runs_total",
		"anchor_reconcile_passes_total",
		"go_goroutines",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics are missing %q", want)
		}
	}
}

func TestServeLive(t *testing.T) {
	srv := newTestServer(t)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/live"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Dial() error: %v", err)
	}
	defer conn.Close()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))

	var first live.Frame
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatal(err)
	}
	if first.Seq != 1 || len(first.Mutations) == 0 {
		t.Fatalf("first frame = %+v", first)
	}

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"key":"filter","value":"done"}`)); err != nil {
		t.Fatal(err)
	}
	var f live.Frame
	if err := conn.ReadJSON(&f); err != nil {
		t.Fatal(err)
	}
	if f.Error != nil || len(f.Mutations) == 0 {
		t.Errorf("filter frame = %+v", f)
	}

	var removed bytes.Buffer
	for _, m := range f.Mutations {
		removed.WriteString(string(m.Op) + " ")
	}
	if !strings.Contains(removed.String(), "remove") {
		t.Errorf("filtering to done removed nothing: %s", removed.String())
	}
}
