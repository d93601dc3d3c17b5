package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ayusman/airdraw/internal/canvas"
	"github.com/ayusman/airdraw/internal/gesture"
)

// CanvasHandler serves the drawing state and the explicit commands that do
// not need a gesture: clear, background, selection and tracking.
type CanvasHandler struct {
	engine Engine
}

// NewCanvasHandler creates a CanvasHandler.
func NewCanvasHandler(e Engine) *CanvasHandler {
	return &CanvasHandler{engine: e}
}

// State is the full drawing state as served by GET /api/canvas and pushed
// over the events socket.
type State struct {
	Enabled bool             `json:"enabled"`
	Gesture *gesture.Gesture `json:"gesture,omitempty"`
	Canvas  canvas.Snapshot  `json:"canvas"`
	Layout  canvas.Layout    `json:"layout"`
}

// CurrentState reads the engine once.
func CurrentState(e Engine) State {
	snap := e.Snapshot()
	st := State{
		Enabled: e.IsEnabled(),
		Canvas:  snap,
		Layout:  snap.Layout(),
	}
	if g, ok := e.LastGesture(); ok {
		st.Gesture = &g
	}
	return st
}

type selectionRequest struct {
	Color string `json:"color"`
	Kind  string `json:"kind"`
}

type trackingRequest struct {
	Enabled bool `json:"enabled"`
}

// ServeHTTP routes /api/canvas and its command subpaths.
func (h *CanvasHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	action := strings.TrimPrefix(r.URL.Path, "/api/canvas")
	action = strings.TrimPrefix(action, "/")

	switch action {
	case "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, CurrentState(h.engine))

	case "clear":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.engine.Clear()
		writeJSON(w, http.StatusOK, CurrentState(h.engine))

	case "background":
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"blackout": h.engine.SwitchBackground()})

	case "selection":
		if r.Method != http.MethodPut {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.selection(w, r)

	case "tracking":
		if r.Method != http.MethodPut {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var req trackingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON")
			return
		}
		h.engine.SetEnabled(req.Enabled)
		writeJSON(w, http.StatusOK, map[string]bool{"enabled": h.engine.IsEnabled()})

	default:
		http.NotFound(w, r)
	}
}

func (h *CanvasHandler) selection(w http.ResponseWriter, r *http.Request) {
	var req selectionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	var kind *canvas.Kind
	if req.Kind != "" {
		k, err := canvas.ParseKind(req.Kind)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid shape kind")
			return
		}
		kind = &k
	}

	if req.Color != "" {
		if err := h.engine.SelectColor(req.Color); err != nil {
			writeError(w, http.StatusBadRequest, "Unknown color")
			return
		}
	}
	if kind != nil {
		h.engine.SelectKind(*kind)
	}

	snap := h.engine.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{"color": snap.Color, "kind": snap.Kind})
}
