// Package gesture classifies a smoothed hand pose into one of the drawing
// gestures and derives the geometry each gesture acts on.
package gesture

import (
	"errors"
	"fmt"

	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/geometry"
)

// Kind is the discrete meaning of a hand pose.
type Kind int

const (
	// Hover moves without touching the canvas. It is also the fallback.
	Hover Kind = iota
	// Draw extends the active shape.
	Draw
	// Erase removes shapes under the query circle.
	Erase
	// Translate drags shapes under the query circle.
	Translate
)

// String returns the upper-case gesture name.
func (k Kind) String() string {
	switch k {
	case Draw:
		return "DRAW"
	case Erase:
		return "ERASE"
	case Translate:
		return "TRANSLATE"
	default:
		return "HOVER"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	for _, c := range []Kind{Hover, Draw, Erase, Translate} {
		if c.String() == string(text) {
			*k = c
			return nil
		}
	}
	return fmt.Errorf("unknown gesture %q", text)
}

// Classification thresholds.
const (
	// DefaultThreshold is the cosine similarity above which a finger counts
	// as extended along its palm direction.
	DefaultThreshold = 0.70
	// DefaultStrictThreshold is how closely middle and ring must follow the
	// index finger for ERASE.
	DefaultStrictThreshold = 0.90
)

// ErrInvalidPose is returned for poses without exactly detector.NumLandmarks points.
var ErrInvalidPose = errors.New("hand pose must have 21 landmarks")

// Gesture is one classified frame.
type Gesture struct {
	Kind Kind `json:"kind"`
	// Origin and Radius describe the query circle. They are zero for Hover.
	Origin geometry.Point `json:"origin"`
	Radius float64        `json:"radius"`
	// Shift is the index tip displacement, set for Translate only.
	Shift geometry.Point `json:"shift"`
	// Tips are the fingertips the gesture was derived from. They are what
	// the canvas tests against its buttons.
	Tips []geometry.Point `json:"tips"`
}

// Classifier is a stateless, per-frame pose classifier. It keeps no history;
// temporal stability is the caller's concern.
type Classifier struct {
	Threshold       float64
	StrictThreshold float64
}

// NewClassifier returns a Classifier using the default thresholds.
func NewClassifier() *Classifier {
	return &Classifier{
		Threshold:       DefaultThreshold,
		StrictThreshold: DefaultStrictThreshold,
	}
}

// handVectors holds the eight direction vectors the rules look at.
type handVectors struct {
	palmIndex, palmMiddle, palmRing, palmPinky []float64
	index, middle, ring, pinky                 []float64
}

func vectorsOf(pose detector.HandPose) handVectors {
	vec := func(from, to int) []float64 {
		return pose.At(to).Sub(pose.At(from)).Vec()
	}
	return handVectors{
		palmIndex:  vec(detector.Wrist, detector.IndexMCP),
		palmMiddle: vec(detector.Wrist, detector.MiddleMCP),
		palmRing:   vec(detector.Wrist, detector.RingMCP),
		palmPinky:  vec(detector.Wrist, detector.PinkyMCP),
		index:      vec(detector.IndexPIP, detector.IndexTip),
		middle:     vec(detector.MiddlePIP, detector.MiddleTip),
		ring:       vec(detector.RingPIP, detector.RingTip),
		pinky:      vec(detector.PinkyPIP, detector.PinkyTip),
	}
}

// Classify maps a pose to a Kind. Rules are tried in a fixed order and the
// first match wins; anything unmatched is Hover. Invalid poses are Hover.
func (c *Classifier) Classify(pose detector.HandPose) Kind {
	if !pose.Valid() {
		return Hover
	}

	v := vectorsOf(pose)
	cos := geometry.CosineSimilarity
	t := c.Threshold

	indexOut := cos(v.palmIndex, v.index) > t
	if !indexOut {
		return Hover
	}

	// Pointing: only the index is out, the rest fold back against it.
	if cos(v.index, v.middle) < 0 && cos(v.index, v.ring) < 0 && cos(v.index, v.pinky) < 0 {
		return Hover
	}

	if cos(v.palmMiddle, v.middle) > t && cos(v.index, v.ring) < 0 && cos(v.index, v.pinky) < 0 {
		return Draw
	}

	if cos(v.index, v.middle) > c.StrictThreshold && cos(v.index, v.ring) > c.StrictThreshold &&
		cos(v.palmPinky, v.pinky) < 0 {
		return Erase
	}

	if cos(v.palmPinky, v.pinky) > t && cos(v.index, v.middle) < 0 && cos(v.index, v.ring) < 0 {
		return Translate
	}

	return Hover
}

// Detect classifies pose and fills in the gesture's query circle. shift is the
// index tip displacement from the smoothing buffer and is only kept for
// Translate.
func (c *Classifier) Detect(pose detector.HandPose, shift geometry.Point) (Gesture, error) {
	if !pose.Valid() {
		return Gesture{}, ErrInvalidPose
	}

	kind := c.Classify(pose)
	index := pose.At(detector.IndexTip)

	switch kind {
	case Draw:
		return circleBetween(kind, index, pose.At(detector.MiddleTip)), nil
	case Erase:
		return circleBetween(kind, index, pose.At(detector.RingTip)), nil
	case Translate:
		g := circleBetween(kind, index, pose.At(detector.PinkyTip))
		g.Shift = shift
		return g, nil
	default:
		return Gesture{Kind: Hover, Tips: []geometry.Point{index}}, nil
	}
}

func circleBetween(kind Kind, a, b geometry.Point) Gesture {
	return Gesture{
		Kind:   kind,
		Origin: geometry.Midpoint(a, b),
		Radius: 0.5 * geometry.Distance(a, b),
		Tips:   []geometry.Point{a, b},
	}
}
