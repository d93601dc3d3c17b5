package server

import (
	"fmt"
	"net/http"
	"time"
)

// FrameSource yields the latest rendered preview as JPEG.
type FrameSource interface {
	LatestFrame() []byte
}

// StreamInterval is the MJPEG frame period (~15 FPS).
const StreamInterval = 66 * time.Millisecond

// StreamHandler serves the rendered preview as MJPEG.
type StreamHandler struct {
	source   FrameSource
	interval time.Duration
}

// NewStreamHandler creates a new StreamHandler over source.
func NewStreamHandler(source FrameSource) *StreamHandler {
	return &StreamHandler{source: source, interval: StreamInterval}
}

// ServeHTTP streams frames until the client goes away. A frame is only
// resent when the pipeline has published a new one.
func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	var sent []byte
	for {
		if data := h.source.LatestFrame(); len(data) > 0 && !sameFrame(data, sent) {
			if err := writePart(w, data); err != nil {
				return
			}
			sent = data
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}

		select {
		case <-r.Context().Done():
			return
		case <-ticker.C:
		}
	}
}

func writePart(w http.ResponseWriter, data []byte) error {
	if _, err := fmt.Fprintf(w, "--frame\r\nContent-Type: image/jpeg\r\nContent-Length: %d\r\n\r\n", len(data)); err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	_, err := fmt.Fprint(w, "\r\n")
	return err
}

// sameFrame reports whether a and b are the same published buffer. Frames
// are replaced, never mutated, so identity is enough.
func sameFrame(a, b []byte) bool {
	return len(a) == len(b) && len(a) > 0 && &a[0] == &b[0]
}
