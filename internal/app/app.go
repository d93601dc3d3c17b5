// Package app wires capture, hand detection, gesture classification and the
// canvas into the airdraw frame pipeline.
package app

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"sync"
	"time"

	"github.com/ayusman/airdraw/internal/canvas"
	"github.com/ayusman/airdraw/internal/capture"
	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/gesture"
	"github.com/ayusman/airdraw/internal/render"
	"github.com/ayusman/airdraw/internal/smoothing"
	"github.com/ayusman/airdraw/internal/store"
)

// Config holds configuration options for the application.
type Config struct {
	// Store persists the palette and selection. Optional.
	Store *store.Store
	// Palette is used when there is no store.
	Palette []canvas.Color

	Camera   capture.Config
	Detector detector.Config

	MotionThresh  float64
	IdleFPS       int
	ActiveFPS     int
	IdleCooldown  time.Duration
	SmoothingSize int

	Threshold       float64
	StrictThreshold float64
}

// App owns the drawing engine and the goroutine feeding it frames.
type App struct {
	config   Config
	camera   capture.Camera
	motion   *capture.MotionDetector
	renderer *render.Renderer

	// mu guards the pipeline lifecycle and the detector.
	mu       sync.RWMutex
	detector detector.Detector
	enabled  bool
	stopCh   chan struct{}
	done     chan struct{}

	// engineMu serializes every access to the canvas and its inputs.
	engineMu   sync.Mutex
	canvas     *canvas.Canvas
	buffer     *smoothing.Buffer
	classifier *gesture.Classifier
	last       *gesture.Gesture
	hand       detector.HandPose

	frameMu sync.RWMutex
	frame   []byte
}

// New creates a new App. The camera is not opened until Start.
func New(config Config) *App {
	classifier := gesture.NewClassifier()
	if config.Threshold > 0 {
		classifier.Threshold = config.Threshold
	}
	if config.StrictThreshold > 0 {
		classifier.StrictThreshold = config.StrictThreshold
	}

	a := &App{
		config:     config,
		camera:     capture.NewCamera(config.Camera),
		motion:     capture.NewMotionDetector(config.MotionThresh),
		renderer:   render.New(),
		canvas:     canvas.New(config.Palette),
		buffer:     smoothing.New(config.SmoothingSize),
		classifier: classifier,
		enabled:    true,
	}

	if err := a.ReloadPalette(); err != nil {
		log.Printf("Failed to load palette: %v", err)
	}

	// Try MediaPipe first, fall back to mock detector
	if mp, err := detector.NewMediaPipeDetector(config.Detector); err == nil {
		a.detector = mp
		log.Println("Using MediaPipe hand detection")
	} else {
		log.Printf("MediaPipe not available (%v), using mock detector", err)
		a.detector = detector.NewMockDetector()
	}

	return a
}

// SetEnabled turns hand tracking on or off. While off, frames are still
// rendered but the canvas is left alone.
func (a *App) SetEnabled(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.enabled = enabled
}

// IsEnabled reports whether hand tracking is on.
func (a *App) IsEnabled() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.enabled
}

// SetDetector replaces the hand detector.
func (a *App) SetDetector(d detector.Detector) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.detector = d
}

// Detector returns the hand detector.
func (a *App) Detector() detector.Detector {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.detector
}

// SetCamera replaces the frame source. It must be called before Start.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Camera returns the frame source.
func (a *App) Camera() capture.Camera {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.camera
}

// Start opens the camera and begins the frame pipeline.
func (a *App) Start() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.stopCh != nil {
		return nil
	}

	if err := a.camera.Open(); err != nil {
		return fmt.Errorf("start pipeline: %w", err)
	}

	if err := a.restorePreferences(); err != nil {
		log.Printf("Failed to restore preferences: %v", err)
	}

	a.stopCh = make(chan struct{})
	a.done = make(chan struct{})
	go a.runPipeline(a.camera, a.stopCh, a.done)

	log.Println("Drawing pipeline started")
	return nil
}

// Stop halts the pipeline, saves preferences and releases resources.
func (a *App) Stop() {
	a.mu.Lock()
	stop, done := a.stopCh, a.done
	a.stopCh, a.done = nil, nil
	cam, det := a.camera, a.detector
	a.mu.Unlock()

	if stop != nil {
		close(stop)
		<-done
	}

	if err := a.savePreferences(); err != nil {
		log.Printf("Failed to save preferences: %v", err)
	}

	if err := cam.Close(); err != nil {
		log.Printf("Error closing camera: %v", err)
	}
	a.motion.Close()

	if det != nil {
		if err := det.Close(); err != nil {
			log.Printf("Error closing detector: %v", err)
		}
	}

	log.Println("Drawing pipeline stopped")
}

// HandleHands applies one frame of detector output to the canvas. Only the
// first hand is followed. It returns the classified gesture, or false when
// the frame carried no usable hand and nothing changed.
func (a *App) HandleHands(rows, cols int, hands []detector.HandLandmarks) (gesture.Gesture, bool) {
	if len(hands) == 0 {
		return gesture.Gesture{}, false
	}
	return a.HandlePose(rows, cols, hands[0].Pose(rows, cols))
}

// HandlePose smooths pose, classifies it and updates the canvas. Invalid
// poses are dropped without touching any state.
func (a *App) HandlePose(rows, cols int, pose detector.HandPose) (gesture.Gesture, bool) {
	if !pose.Valid() {
		return gesture.Gesture{}, false
	}

	a.engineMu.Lock()
	defer a.engineMu.Unlock()

	a.buffer.Push(pose)
	avg, err := a.buffer.Average()
	if err != nil {
		a.buffer.Reset()
		return gesture.Gesture{}, false
	}

	g, err := a.classifier.Detect(avg, a.buffer.Displacement())
	if err != nil {
		return gesture.Gesture{}, false
	}

	a.canvas.Update(rows, cols, g)
	a.last = &g
	a.hand = avg
	return g, true
}

// Snapshot returns a copy of the canvas.
func (a *App) Snapshot() canvas.Snapshot {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	return a.canvas.Snapshot()
}

// LastGesture returns the most recent classified gesture.
func (a *App) LastGesture() (gesture.Gesture, bool) {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	if a.last == nil {
		return gesture.Gesture{}, false
	}
	return *a.last, true
}

// LastHand returns the smoothed pose behind the most recent gesture.
func (a *App) LastHand() (detector.HandPose, bool) {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	if a.hand == nil {
		return nil, false
	}
	return append(detector.HandPose(nil), a.hand...), true
}

// Clear removes every shape.
func (a *App) Clear() {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	a.canvas.Clear()
}

// SwitchBackground toggles the blackout background and returns the new mode.
func (a *App) SwitchBackground() bool {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	a.canvas.SwitchBackground()
	return a.canvas.Blackout()
}

// ErrUnknownColor is returned when selecting a color missing from the palette.
var ErrUnknownColor = errors.New("unknown color")

// SelectColor switches the drawing color by name.
func (a *App) SelectColor(name string) error {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	if !a.canvas.SelectColor(name) {
		return fmt.Errorf("%w: %q", ErrUnknownColor, name)
	}
	return nil
}

// SelectKind switches the shape kind.
func (a *App) SelectKind(k canvas.Kind) {
	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	a.canvas.SelectKind(k)
}

// ReloadPalette reads the palette from the store into the canvas. Without a
// store the configured palette is used.
func (a *App) ReloadPalette() error {
	palette := a.config.Palette
	if a.config.Store != nil {
		p, err := a.config.Store.Colors().Palette()
		if err != nil {
			return fmt.Errorf("load palette: %w", err)
		}
		palette = p
	}

	a.engineMu.Lock()
	defer a.engineMu.Unlock()
	a.canvas.SetPalette(palette)
	return nil
}

// LatestFrame returns the newest rendered frame as JPEG, or nil before the
// first one.
func (a *App) LatestFrame() []byte {
	a.frameMu.RLock()
	defer a.frameMu.RUnlock()
	return a.frame
}

func (a *App) setFrame(data []byte) {
	a.frameMu.Lock()
	defer a.frameMu.Unlock()
	a.frame = data
}

// restorePreferences applies the stored selection to the canvas.
func (a *App) restorePreferences() error {
	if a.config.Store == nil {
		return nil
	}
	all, err := a.config.Store.Settings().All()
	if err != nil {
		return err
	}

	a.engineMu.Lock()
	defer a.engineMu.Unlock()

	if name, ok := all[store.SettingColor]; ok {
		a.canvas.SelectColor(name)
	}
	if v, ok := all[store.SettingKind]; ok {
		if k, err := canvas.ParseKind(v); err == nil {
			a.canvas.SelectKind(k)
		}
	}
	if v, ok := all[store.SettingBlackout]; ok {
		if on, err := strconv.ParseBool(v); err == nil {
			a.canvas.SetBlackout(on)
		}
	}
	return nil
}

// savePreferences stores the current selection.
func (a *App) savePreferences() error {
	if a.config.Store == nil {
		return nil
	}

	a.engineMu.Lock()
	values := map[string]string{
		store.SettingColor:    a.canvas.Color().Name,
		store.SettingKind:     a.canvas.Kind().String(),
		store.SettingBlackout: strconv.FormatBool(a.canvas.Blackout()),
	}
	a.engineMu.Unlock()

	return a.config.Store.Settings().SetMany(values)
}
