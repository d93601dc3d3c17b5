package server

import (
	"bufio"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestStreamHandler(t *testing.T) {
	t.Run("rejects non-GET", func(t *testing.T) {
		h := NewStreamHandler(newFakeController())
		rec := httptest.NewRecorder()

		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/stream", nil))

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})

	t.Run("writes multipart frames", func(t *testing.T) {
		ctrl := newFakeController()
		ctrl.setFrame([]byte("JPEGDATA"))

		srv := httptest.NewServer(NewStreamHandler(ctrl))
		defer srv.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL, nil)
		if err != nil {
			t.Fatalf("failed to build request: %v", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		defer resp.Body.Close()

		if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "multipart/x-mixed-replace") {
			t.Errorf("unexpected Content-Type %q", ct)
		}

		r := bufio.NewReader(resp.Body)
		header, err := r.ReadString('\n')
		if err != nil {
			t.Fatalf("failed to read boundary: %v", err)
		}
		if header != "--frame\r\n" {
			t.Errorf("expected boundary line, got %q", header)
		}

		// Skip part headers up to the blank line.
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				t.Fatalf("failed to read part header: %v", err)
			}
			if line == "\r\n" {
				break
			}
		}

		data := make([]byte, len("JPEGDATA"))
		if _, err := io.ReadFull(r, data); err != nil {
			t.Fatalf("failed to read frame: %v", err)
		}
		if string(data) != "JPEGDATA" {
			t.Errorf("expected frame payload, got %q", data)
		}
	})
}

func TestSameFrame(t *testing.T) {
	a := []byte("abc")
	b := []byte("abc")

	if !sameFrame(a, a) {
		t.Error("expected a buffer to match itself")
	}
	if sameFrame(a, b) {
		t.Error("expected distinct buffers to differ")
	}
	if sameFrame(nil, nil) {
		t.Error("expected empty buffers never to match")
	}
}
