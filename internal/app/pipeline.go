package app

import (
	"log"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/airdraw/internal/capture"
	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/gesture"
	"github.com/ayusman/airdraw/internal/render"
)

// runPipeline reads, tracks and renders frames until stop is closed.
//
// The loop idles at a low frame rate and only runs the hand detector once the
// motion detector fires. A visible hand keeps it active; after the cooldown
// with neither motion nor a hand it drops back to idle. The preview is
// rendered in both modes.
func (a *App) runPipeline(cam capture.Camera, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	gate := capture.NewRateGate(a.config.IdleFPS, a.config.ActiveFPS, a.config.IdleCooldown)
	cam.SetFPS(gate.FPS())

	ticker := time.NewTicker(gate.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		frame, err := cam.ReadFrame()
		if err != nil {
			log.Printf("Error reading frame: %v", err)
			continue
		}

		moved, _ := a.motion.Detect(frame)
		active := gate.Active() || moved
		sawHand := a.processFrame(frame, active)
		frame.Close()

		if fps, changed := gate.Observe(moved || sawHand, time.Now()); changed {
			cam.SetFPS(fps)
			ticker.Reset(gate.Interval())
			if gate.Active() {
				log.Println("Switched to active mode")
			} else {
				log.Println("Switched to idle mode")
			}
		}
	}
}

// processFrame runs detection when track is set and tracking is enabled,
// then renders the canvas onto frame and publishes the preview. It reports
// whether a hand was applied to the canvas.
func (a *App) processFrame(frame *gocv.Mat, track bool) bool {
	rows, cols := frame.Rows(), frame.Cols()

	sawHand := false
	if track && a.IsEnabled() {
		if d := a.Detector(); d != nil {
			hands, err := d.Detect(frame)
			if err != nil {
				log.Printf("Error detecting hands: %v", err)
			} else {
				_, sawHand = a.HandleHands(rows, cols, hands)
			}
		}
	}

	snap := a.Snapshot()
	var g *gesture.Gesture
	var hand detector.HandPose
	if sawHand {
		if last, ok := a.LastGesture(); ok {
			g = &last
		}
		hand, _ = a.LastHand()
	}
	a.renderer.Draw(frame, snap, g, hand)

	data, err := render.EncodeJPEG(frame)
	if err != nil {
		log.Printf("Error encoding preview: %v", err)
		return sawHand
	}
	a.setFrame(data)
	return sawHand
}
