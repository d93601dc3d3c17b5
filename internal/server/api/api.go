// Package api provides the HTTP handlers of the airdraw control API.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/ayusman/airdraw/internal/canvas"
	"github.com/ayusman/airdraw/internal/gesture"
)

// Engine is the drawing state the API reads and commands. *app.App
// implements it.
type Engine interface {
	Snapshot() canvas.Snapshot
	LastGesture() (gesture.Gesture, bool)
	Clear()
	SwitchBackground() bool
	SelectColor(name string) error
	SelectKind(k canvas.Kind)
	ReloadPalette() error
	IsEnabled() bool
	SetEnabled(enabled bool)
}

type errorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

const timeLayout = "2006-01-02T15:04:05Z07:00"
