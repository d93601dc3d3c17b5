package detector

import (
	"sync"

	"gocv.io/x/gocv"
)

// MockDetector is a test implementation of the Detector interface.
// It allows tests to control the detection results.
type MockDetector struct {
	mu    sync.Mutex
	hands []HandLandmarks
	err   error
	calls int
}

// NewMockDetector creates a new MockDetector instance.
func NewMockDetector() *MockDetector {
	return &MockDetector{}
}

// SetHands sets the hands that will be returned by Detect.
func (m *MockDetector) SetHands(hands []HandLandmarks) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hands = hands
}

// SetError sets the error that will be returned by Detect.
func (m *MockDetector) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns how many times Detect has been called.
func (m *MockDetector) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Detect returns the pre-configured hands or error.
func (m *MockDetector) Detect(frame *gocv.Mat) ([]HandLandmarks, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.hands, nil
}

// Close is a no-op for the mock detector.
func (m *MockDetector) Close() error {
	return nil
}

// Preset poses are laid out for a 480x640 frame with the hand upright: the
// wrist near the bottom and fingers pointing toward row 0.
const (
	PresetRows = 480
	PresetCols = 640
)

var presetMCP = [4]Landmark{
	{Row: 300, Col: 340}, // index
	{Row: 290, Col: 310}, // middle
	{Row: 295, Col: 280}, // ring
	{Row: 310, Col: 255}, // pinky
}

// presetPose builds a pose where each of index, middle, ring and pinky is
// either straight up (extended) or folded so the tip sits below its PIP joint.
func presetPose(index, middle, ring, pinky bool) HandPose {
	pose := make(HandPose, NumLandmarks)
	pose[Wrist] = Landmark{Row: 400, Col: 300}
	pose[ThumbCMC] = Landmark{Row: 385, Col: 330}
	pose[ThumbMCP] = Landmark{Row: 365, Col: 350}
	pose[ThumbIP] = Landmark{Row: 350, Col: 365}
	pose[ThumbTip] = Landmark{Row: 335, Col: 375}

	for f, extended := range [4]bool{index, middle, ring, pinky} {
		mcp := presetMCP[f]
		base := IndexMCP + 4*f
		pose[base] = mcp
		if extended {
			pose[base+1] = Landmark{Row: mcp.Row - 40, Col: mcp.Col}
			pose[base+2] = Landmark{Row: mcp.Row - 70, Col: mcp.Col}
			pose[base+3] = Landmark{Row: mcp.Row - 95, Col: mcp.Col}
		} else {
			pose[base+1] = Landmark{Row: mcp.Row - 30, Col: mcp.Col}
			pose[base+2] = Landmark{Row: mcp.Row - 15, Col: mcp.Col - 5}
			pose[base+3] = Landmark{Row: mcp.Row + 5, Col: mcp.Col}
		}
	}
	return pose
}

// PointingPose has only the index finger extended.
func PointingPose() HandPose { return presetPose(true, false, false, false) }

// PeacePose has index and middle fingers extended.
func PeacePose() HandPose { return presetPose(true, true, false, false) }

// ThreeFingerPose has index, middle and ring fingers extended.
func ThreeFingerPose() HandPose { return presetPose(true, true, true, false) }

// RockPose has index and pinky fingers extended.
func RockPose() HandPose { return presetPose(true, false, false, true) }

// FistPose has every finger curled.
func FistPose() HandPose { return presetPose(false, false, false, false) }

// OpenPalmPose has every finger extended.
func OpenPalmPose() HandPose { return presetPose(true, true, true, true) }

// Landmarks converts a pixel pose back into normalized detector output for a
// frame of the given size. It is the inverse of HandLandmarks.Pose.
func Landmarks(pose HandPose, rows, cols int) HandLandmarks {
	lm := HandLandmarks{Handedness: "Right", Score: 0.95}
	for i := 0; i < NumLandmarks && i < len(pose); i++ {
		lm.Points[i] = Point3D{
			X: pose[i].Col / float64(cols),
			Y: pose[i].Row / float64(rows),
			Z: pose[i].Z,
		}
	}
	return lm
}
