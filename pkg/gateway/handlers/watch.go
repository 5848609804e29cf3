package handlers

import (
	"bytes"
	"fmt"
	"html/template"
	"net/http"

	"github.com/Hanifalm/TG-FileStreamBot/pkg/gateway"
)

var watchTemplate = template.Must(template.New("watch").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Name}}</title>
<style>
body { margin: 0; background: #000; display: flex; align-items: center; justify-content: center; min-height: 100vh; }
video { max-width: 100%; max-height: 100vh; }
</style>
</head>
<body>
<video controls autoplay src="/video/{{.Token}}">{{.Name}}</video>
</body>
</html>
`))

type watchPage struct {
	Name  string
	Token string
}

// WatchHandler renders a minimal HTML player that streams the object
// through the inline video route.
type WatchHandler struct {
	deps *Deps
}

// NewWatchHandler creates a watch page handler.
func NewWatchHandler(deps *Deps) *WatchHandler {
	return &WatchHandler{deps: deps}
}

// ServeHTTP implements http.Handler.
func (h *WatchHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, "405: method not allowed", http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	token := r.PathValue("token")

	_, session, err := h.deps.pickSession(ctx)
	if err != nil {
		gateway.WriteError(w, r, err)
		return
	}

	meta, err := session.Resolve(ctx, token)
	if err != nil {
		gateway.WriteError(w, r, err)
		return
	}

	name := meta.DisplayName
	if name == "" {
		name = token
	}

	var buf bytes.Buffer
	if err := watchTemplate.Execute(&buf, watchPage{Name: name, Token: token}); err != nil {
		http.Error(w, "500: internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	if r.Method == http.MethodHead {
		return
	}
	buf.WriteTo(w)
}
