package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Hanifalm/TG-FileStreamBot/internal/backendtest"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/backend"
	"github.com/Hanifalm/TG-FileStreamBot/pkg/pool"
)

func newStatusTracker(t *testing.T, names ...string) ([]backend.Client, *pool.LoadTracker) {
	t.Helper()
	clients := make([]backend.Client, len(names))
	for i, name := range names {
		clients[i] = backendtest.NewMockClient(i, name)
	}
	tracker, err := pool.NewLoadTracker(clients)
	if err != nil {
		t.Fatalf("failed to create tracker: %v", err)
	}
	return clients, tracker
}

func TestStatusHandlerPayload(t *testing.T) {
	clients, tracker := newStatusTracker(t, "bot1", "bot2", "bot3")
	tracker.Acquire(clients[1])
	tracker.Acquire(clients[1])
	tracker.Acquire(clients[2])

	handler := NewStatusHandler(tracker, "examplebot", "0.1.0")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/status", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("unexpected Content-Type %q", got)
	}

	var payload struct {
		ServerStatus  string           `json:"server_status"`
		Uptime        string           `json:"uptime"`
		TelegramBot   string           `json:"telegram_bot"`
		ConnectedBots int              `json:"connected_bots"`
		Loads         map[string]int64 `json:"loads"`
		Version       string           `json:"version"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if payload.ServerStatus != "running" {
		t.Errorf("unexpected server_status %q", payload.ServerStatus)
	}
	if payload.TelegramBot != "@examplebot" {
		t.Errorf("unexpected telegram_bot %q", payload.TelegramBot)
	}
	if payload.ConnectedBots != 3 {
		t.Errorf("unexpected connected_bots %d", payload.ConnectedBots)
	}
	if payload.Version != "0.1.0" {
		t.Errorf("unexpected version %q", payload.Version)
	}
	// Load keys are rank labels: bot1 is the busiest backend.
	if payload.Loads["bot1"] != 2 || payload.Loads["bot2"] != 1 || payload.Loads["bot3"] != 0 {
		t.Errorf("unexpected loads %v", payload.Loads)
	}
	if payload.Uptime == "" {
		t.Error("expected a readable uptime")
	}
}

func TestStatusHandlerLoadsRankedByLoad(t *testing.T) {
	// The load map renumbers backends by busyness, regardless of their
	// configured names or pool order: the busiest is always "bot1".
	clients, tracker := newStatusTracker(t, "alpha", "beta")
	tracker.Acquire(clients[1])
	tracker.Acquire(clients[1])

	handler := NewStatusHandler(tracker, "examplebot", "0.1.0")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/status", nil))

	body := rec.Body.String()
	if !strings.Contains(body, `"loads":{"bot1":2,"bot2":0}`) {
		t.Errorf("expected rank-labeled loads, got %s", body)
	}
}

func TestStatusHandlerHead(t *testing.T) {
	_, tracker := newStatusTracker(t, "bot1")
	handler := NewStatusHandler(tracker, "examplebot", "0.1.0")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("HEAD", "/status", nil))

	if rec.Code != 200 {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if rec.Body.Len() != 0 {
		t.Error("HEAD response must have no body")
	}
}

func TestReadableDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0 secs"},
		{time.Second, "1 sec"},
		{61 * time.Second, "1 min, 1 sec"},
		{3600 * time.Second, "1 hr, 0 mins, 0 secs"},
		{90061 * time.Second, "1 day, 1 hr, 1 min, 1 sec"},
		{2*86400*time.Second + 5*time.Second, "2 days, 0 hrs, 0 mins, 5 secs"},
	}

	for _, tt := range tests {
		if got := readableDuration(tt.d); got != tt.want {
			t.Errorf("readableDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}
