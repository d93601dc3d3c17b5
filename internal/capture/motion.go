package capture

import (
	"image"
	"sync"
	"time"

	"gocv.io/x/gocv"
)

// Frame differencing parameters.
const (
	BlurKernel    = 21
	PixelDelta    = 25
	DefaultMotion = 1.0
)

// MotionDetector compares each frame with the previous one and reports the
// share of pixels that changed.
type MotionDetector struct {
	mu        sync.Mutex
	threshold float64
	prev      gocv.Mat
	primed    bool
}

// NewMotionDetector returns a detector that fires when more than threshold
// percent of the pixels change. Non-positive thresholds use DefaultMotion.
func NewMotionDetector(threshold float64) *MotionDetector {
	if threshold <= 0 {
		threshold = DefaultMotion
	}
	return &MotionDetector{threshold: threshold, prev: gocv.NewMat()}
}

// Detect reports whether frame differs from the previous frame and by what
// percentage. The first frame after construction or Reset only primes the
// detector.
func (m *MotionDetector) Detect(frame *gocv.Mat) (bool, float64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	cur := smoothGray(frame)
	defer cur.Close()

	if !m.primed {
		cur.CopyTo(&m.prev)
		m.primed = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(cur, m.prev, &diff)
	gocv.Threshold(diff, &diff, PixelDelta, 255, gocv.ThresholdBinary)

	changed := float64(gocv.CountNonZero(diff)) / float64(diff.Rows()*diff.Cols()) * 100
	cur.CopyTo(&m.prev)

	return changed > m.threshold, changed
}

// smoothGray returns a blurred grayscale copy of frame.
func smoothGray(frame *gocv.Mat) gocv.Mat {
	gray := gocv.NewMat()
	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}
	gocv.GaussianBlur(gray, &gray, image.Pt(BlurKernel, BlurKernel), 0, 0, gocv.BorderDefault)
	return gray
}

// Reset drops the reference frame.
func (m *MotionDetector) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

// Close releases the reference frame. The detector may be used again.
func (m *MotionDetector) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.release()
}

func (m *MotionDetector) release() {
	if !m.prev.Empty() {
		m.prev.Close()
		m.prev = gocv.NewMat()
	}
	m.primed = false
}

// SetThreshold changes the trigger percentage. Values <= 0 are ignored.
func (m *MotionDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.threshold = threshold
}

// Threshold returns the trigger percentage.
func (m *MotionDetector) Threshold() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.threshold
}

// Frame rates and cooldown used by RateGate.
const (
	IdleFPS      = 5
	ActiveFPS    = 15
	IdleCooldown = 2 * time.Second
)

// RateGate switches between an idle and an active frame rate. Any busy frame
// (motion or a visible hand) makes it active; it drops back to idle once no
// busy frame has been seen for the cooldown.
type RateGate struct {
	idle     int
	active   int
	cooldown time.Duration

	on   bool
	last time.Time
}

// NewRateGate returns an idle gate. Non-positive arguments take the package
// defaults.
func NewRateGate(idle, active int, cooldown time.Duration) *RateGate {
	if idle <= 0 {
		idle = IdleFPS
	}
	if active <= 0 {
		active = ActiveFPS
	}
	if cooldown <= 0 {
		cooldown = IdleCooldown
	}
	return &RateGate{idle: idle, active: active, cooldown: cooldown}
}

// Observe records one frame and returns the rate to run at next and whether
// it differs from the previous one.
func (g *RateGate) Observe(busy bool, now time.Time) (fps int, changed bool) {
	switch {
	case busy:
		g.last = now
		if !g.on {
			g.on = true
			return g.active, true
		}
	case g.on && now.Sub(g.last) > g.cooldown:
		g.on = false
		return g.idle, true
	}
	return g.FPS(), false
}

// Active reports whether the gate is running at the active rate.
func (g *RateGate) Active() bool {
	return g.on
}

// FPS returns the current rate.
func (g *RateGate) FPS() int {
	if g.on {
		return g.active
	}
	return g.idle
}

// Interval returns the ticker period for the current rate.
func (g *RateGate) Interval() time.Duration {
	return time.Second / time.Duration(g.FPS())
}
