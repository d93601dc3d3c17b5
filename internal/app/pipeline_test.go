package app

import (
	"testing"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airdraw/internal/capture"
	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/gesture"
)

func TestApp_ProcessFrame(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping test that requires GoCV Mat creation")
	}

	a := newTestApp(t, 1, nil)
	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.Landmarks(detector.PeacePose(), rows, cols)})
	a.SetDetector(mock)

	frame := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	defer frame.Close()

	t.Run("idle frame skips detection", func(t *testing.T) {
		if a.processFrame(&frame, false) {
			t.Error("no hand expected without tracking")
		}
		if mock.Calls() != 0 {
			t.Errorf("detector called %d times while idle", mock.Calls())
		}
		if a.LatestFrame() == nil {
			t.Error("preview should be published even while idle")
		}
	})

	t.Run("active frame draws", func(t *testing.T) {
		if !a.processFrame(&frame, true) {
			t.Fatal("expected the hand to be applied")
		}
		if a.Snapshot().Len() != 1 {
			t.Errorf("expected one stroke, got %d shapes", a.Snapshot().Len())
		}
	})

	t.Run("disabled tracking", func(t *testing.T) {
		a.SetEnabled(false)
		defer a.SetEnabled(true)
		calls := mock.Calls()
		a.processFrame(&frame, true)
		if mock.Calls() != calls {
			t.Error("detector should not run while tracking is disabled")
		}
	})
}

func TestApp_Pipeline_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	black := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	defer black.Close()
	white := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC3)
	defer white.Close()
	white.SetTo(gocv.NewScalar(255, 255, 255, 0))

	a := New(Config{IdleFPS: 20, ActiveFPS: 30, SmoothingSize: 1})
	mock := detector.NewMockDetector()
	mock.SetHands([]detector.HandLandmarks{detector.Landmarks(detector.PeacePose(), rows, cols)})
	a.SetDetector(mock)

	// Alternating frames keep the motion gate open.
	cam := capture.NewMockCamera([]*gocv.Mat{&black, &white}, true)
	a.SetCamera(cam)

	if err := a.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if a.Snapshot().Len() > 0 && a.LatestFrame() != nil {
			break
		}
		time.Sleep(20 * time.Millisecond)
	}
	a.Stop()

	if a.Snapshot().Len() == 0 {
		t.Fatal("pipeline never drew a stroke")
	}
	if mock.Calls() == 0 {
		t.Error("detector was never called")
	}
	if cam.IsOpen() {
		t.Error("Stop should close the camera")
	}
	if g, ok := a.LastGesture(); !ok || g.Kind != gesture.Draw {
		t.Errorf("last gesture = %v %v, want DRAW", g.Kind, ok)
	}
}
