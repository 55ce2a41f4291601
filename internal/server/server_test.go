package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/azsu/crossfwd/internal/config"
	"github.com/azsu/crossfwd/internal/engine"
	"github.com/azsu/crossfwd/internal/hub"
	"github.com/azsu/crossfwd/internal/identity"
	"github.com/azsu/crossfwd/internal/router"
)

type recordingEngine struct {
	submitted chan string
}

func (e *recordingEngine) Submit(as identity.Executor, command string) *engine.Future {
	e.submitted <- command
	return engine.Completed(true)
}

type serverFixture struct {
	http   *httptest.Server
	engine *recordingEngine
}

func startServer(t *testing.T) *serverFixture {
	t.Helper()
	cfg, err := config.LoadRouterConfig("")
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	log := zerolog.Nop()
	h := hub.New(log, cfg.Channel)
	eng := &recordingEngine{submitted: make(chan string, 8)}
	rt := router.New(log, cfg.Channel, h, h, identity.NewMemoryDirectory(), eng)
	h.SetSink(rt)

	s := New(log, cfg, h, rt)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return &serverFixture{http: ts, engine: eng}
}

func TestHealthRoute(t *testing.T) {
	fx := startServer(t)
	resp, err := http.Get(fx.http.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Fatalf("unexpected health body: %v", body)
	}
}

func TestDestinationsRouteEmptyRegistry(t *testing.T) {
	fx := startServer(t)
	resp, err := http.Get(fx.http.URL + "/destinations")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	var body struct {
		Channel      string   `json:"channel"`
		Destinations []string `json:"destinations"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Channel != config.DefaultChannel || len(body.Destinations) != 0 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestForwardRouteReachesEngine(t *testing.T) {
	fx := startServer(t)
	payload := []byte(`{
		"target_server": "proxy",
		"command": "glist",
		"executor_name": "CONSOLE",
		"executor_uuid": "CONSOLE",
		"execute_as_console": true
	}`)
	resp, err := http.Post(fx.http.URL+"/forward", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("status: %d", resp.StatusCode)
	}
	select {
	case cmd := <-fx.engine.submitted:
		if cmd != "glist" {
			t.Fatalf("wrong command submitted: %q", cmd)
		}
	case <-time.After(time.Second):
		t.Fatal("forward never reached the engine")
	}
}

func TestForwardRouteRejectsBadBody(t *testing.T) {
	fx := startServer(t)
	resp, err := http.Post(fx.http.URL+"/forward", "application/json", bytes.NewReader([]byte(`{"command":""}`)))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}
