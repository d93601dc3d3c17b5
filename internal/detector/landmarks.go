// Package detector provides the hand detection boundary: landmark indices,
// the per-frame HandPose, and Detector implementations.
package detector

import "github.com/ayusman/airdraw/internal/geometry"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist        = 0
	ThumbCMC     = 1
	ThumbMCP     = 2
	ThumbIP      = 3
	ThumbTip     = 4
	IndexMCP     = 5
	IndexPIP     = 6
	IndexDIP     = 7
	IndexTip     = 8
	MiddleMCP    = 9
	MiddlePIP    = 10
	MiddleDIP    = 11
	MiddleTip    = 12
	RingMCP      = 13
	RingPIP      = 14
	RingDIP      = 15
	RingTip      = 16
	PinkyMCP     = 17
	PinkyPIP     = 18
	PinkyDIP     = 19
	PinkyTip     = 20
	NumLandmarks = 21
)

// HandConnections are the landmark pairs joined when drawing the hand
// skeleton, in MediaPipe's order: palm, thumb, then each finger.
var HandConnections = [][2]int{
	{Wrist, ThumbCMC}, {Wrist, IndexMCP}, {IndexMCP, MiddleMCP},
	{MiddleMCP, RingMCP}, {RingMCP, PinkyMCP}, {Wrist, PinkyMCP},
	{ThumbCMC, ThumbMCP}, {ThumbMCP, ThumbIP}, {ThumbIP, ThumbTip},
	{IndexMCP, IndexPIP}, {IndexPIP, IndexDIP}, {IndexDIP, IndexTip},
	{MiddleMCP, MiddlePIP}, {MiddlePIP, MiddleDIP}, {MiddleDIP, MiddleTip},
	{RingMCP, RingPIP}, {RingPIP, RingDIP}, {RingDIP, RingTip},
	{PinkyMCP, PinkyPIP}, {PinkyPIP, PinkyDIP}, {PinkyDIP, PinkyTip},
}

// Point3D is a normalized landmark as reported by the detector: X and Y are in
// [0, 1] relative to frame width and height, Z is relative depth.
type Point3D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// HandLandmarks is one detected hand in detector coordinates.
type HandLandmarks struct {
	Points     [NumLandmarks]Point3D `json:"points"`
	Handedness string                `json:"handedness"` // "Left" or "Right"
	Score      float64               `json:"score"`
}

// Landmark is a single hand-skeleton point in frame pixels.
type Landmark struct {
	Row float64 `json:"row"`
	Col float64 `json:"col"`
	Z   float64 `json:"z"`
}

// Point drops the depth component.
func (l Landmark) Point() geometry.Point {
	return geometry.Point{Row: l.Row, Col: l.Col}
}

// HandPose is one frame's worth of landmarks in pixel (row, col) space.
// A usable pose has exactly NumLandmarks entries.
type HandPose []Landmark

// Valid reports whether the pose has the expected landmark count.
func (p HandPose) Valid() bool {
	return len(p) == NumLandmarks
}

// At returns landmark i as a point. The caller must check Valid first.
func (p HandPose) At(i int) geometry.Point {
	return p[i].Point()
}

// Shift returns a copy of the pose moved by d.
func (p HandPose) Shift(d geometry.Point) HandPose {
	out := make(HandPose, len(p))
	for i, l := range p {
		out[i] = Landmark{Row: l.Row + d.Row, Col: l.Col + d.Col, Z: l.Z}
	}
	return out
}

// Pose converts normalized detector output into a pixel-space HandPose for a
// frame of the given size. X maps to columns and Y to rows.
func (h *HandLandmarks) Pose(rows, cols int) HandPose {
	if h == nil {
		return nil
	}

	pose := make(HandPose, NumLandmarks)
	for i, p := range h.Points {
		pose[i] = Landmark{
			Row: p.Y * float64(rows),
			Col: p.X * float64(cols),
			Z:   p.Z,
		}
	}
	return pose
}
