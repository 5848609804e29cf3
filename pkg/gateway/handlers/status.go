package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/pool"
)

// StatusHandler reports gateway health and per-backend load as JSON.
type StatusHandler struct {
	tracker *pool.LoadTracker
	botName string
	version string
	started time.Time
}

// NewStatusHandler creates a status handler. botName is reported with a
// leading "@" the way chat clients display it.
func NewStatusHandler(tracker *pool.LoadTracker, botName, version string) *StatusHandler {
	return &StatusHandler{
		tracker: tracker,
		botName: botName,
		version: version,
		started: time.Now(),
	}
}

// statusReport marshals with a fixed key order, including the loads
// map, so the payload is stable across requests.
type statusReport struct {
	ServerStatus  string
	Uptime        string
	TelegramBot   string
	ConnectedBots int
	Loads         []pool.BackendLoad
	Version       string
}

func (s statusReport) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	writeField := func(key string, value any) error {
		if buf.Len() > 1 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return err
		}
		v, err := json.Marshal(value)
		if err != nil {
			return err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
		return nil
	}
	if err := writeField("server_status", s.ServerStatus); err != nil {
		return nil, err
	}
	if err := writeField("uptime", s.Uptime); err != nil {
		return nil, err
	}
	if err := writeField("telegram_bot", s.TelegramBot); err != nil {
		return nil, err
	}
	if err := writeField("connected_bots", s.ConnectedBots); err != nil {
		return nil, err
	}
	// Keys are rank labels over the load-sorted entries, not backend
	// names: "bot1" is always the busiest backend right now.
	buf.WriteString(`,"loads":{`)
	for i, bl := range s.Loads {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, `"bot%d":%d`, i+1, bl.Load)
	}
	buf.WriteByte('}')
	if err := writeField("version", s.Version); err != nil {
		return nil, err
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ServeHTTP implements http.Handler.
func (h *StatusHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "405: method not allowed", http.StatusMethodNotAllowed)
		return
	}

	report := statusReport{
		ServerStatus:  "running",
		Uptime:        readableDuration(time.Since(h.started)),
		TelegramBot:   "@" + h.botName,
		ConnectedBots: h.tracker.Size(),
		Loads:         h.tracker.Snapshot(),
		Version:       h.version,
	}

	body, err := json.Marshal(report)
	if err != nil {
		http.Error(w, "500: internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", fmt.Sprint(len(body)))
	if r.Method == http.MethodHead {
		return
	}
	w.Write(body)
}

// readableDuration renders a duration as "2 days, 3 hrs, 4 mins, 5 secs",
// omitting leading zero units.
func readableDuration(d time.Duration) string {
	if d < time.Second {
		return "0 secs"
	}
	total := int64(d.Seconds())
	days := total / 86400
	hours := (total % 86400) / 3600
	mins := (total % 3600) / 60
	secs := total % 60

	unit := func(n int64, singular, plural string) string {
		if n == 1 {
			return fmt.Sprintf("%d %s", n, singular)
		}
		return fmt.Sprintf("%d %s", n, plural)
	}

	var parts []string
	if days > 0 {
		parts = append(parts, unit(days, "day", "days"))
	}
	if len(parts) > 0 || hours > 0 {
		parts = append(parts, unit(hours, "hr", "hrs"))
	}
	if len(parts) > 0 || mins > 0 {
		parts = append(parts, unit(mins, "min", "mins"))
	}
	parts = append(parts, unit(secs, "sec", "secs"))
	return strings.Join(parts, ", ")
}
