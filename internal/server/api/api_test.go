package api

import (
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ayusman/airdraw/internal/canvas"
	"github.com/ayusman/airdraw/internal/gesture"
	"github.com/ayusman/airdraw/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

// fakeEngine is an Engine over a bare canvas.
type fakeEngine struct {
	mu      sync.Mutex
	canvas  *canvas.Canvas
	store   *store.Store
	enabled bool
	reloads int
	gesture *gesture.Gesture
}

func newFakeEngine(s *store.Store) *fakeEngine {
	return &fakeEngine{canvas: canvas.New(nil), store: s, enabled: true}
}

func (f *fakeEngine) Snapshot() canvas.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canvas.Snapshot()
}

func (f *fakeEngine) LastGesture() (gesture.Gesture, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.gesture == nil {
		return gesture.Gesture{}, false
	}
	return *f.gesture, true
}

func (f *fakeEngine) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canvas.Clear()
}

func (f *fakeEngine) SwitchBackground() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canvas.SwitchBackground()
	return f.canvas.Blackout()
}

func (f *fakeEngine) SelectColor(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.canvas.SelectColor(name) {
		return errors.New("unknown color")
	}
	return nil
}

func (f *fakeEngine) SelectKind(k canvas.Kind) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canvas.SelectKind(k)
}

func (f *fakeEngine) ReloadPalette() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reloads++
	if f.store == nil {
		return nil
	}
	p, err := f.store.Colors().Palette()
	if err != nil {
		return err
	}
	f.canvas.SetPalette(p)
	return nil
}

func (f *fakeEngine) IsEnabled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.enabled
}

func (f *fakeEngine) SetEnabled(enabled bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enabled = enabled
}

// update feeds one gesture to the canvas the way the pipeline does.
func (f *fakeEngine) update(g gesture.Gesture) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.canvas.Update(480, 640, g)
	f.gesture = &g
}

func body(s string) *strings.Reader {
	return strings.NewReader(s)
}
