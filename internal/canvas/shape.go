package canvas

import (
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/airdraw/internal/geometry"
)

// Kind selects which shape DRAW produces.
type Kind int

const (
	StrokeKind Kind = iota
	CircleKind
	RectangleKind
)

// Kinds lists every shape kind in toolbar order.
var Kinds = []Kind{StrokeKind, CircleKind, RectangleKind}

func (k Kind) String() string {
	switch k {
	case CircleKind:
		return "CIRCLE"
	case RectangleKind:
		return "RECTANGLE"
	default:
		return "STROKE"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ParseKind parses a kind name case-insensitively.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if strings.EqualFold(s, k.String()) {
			return k, nil
		}
	}
	return StrokeKind, fmt.Errorf("unknown shape kind %q", s)
}

// Color is a named RGB drawing color.
type Color struct {
	Name string `json:"name" yaml:"name"`
	R    uint8  `json:"r" yaml:"r"`
	G    uint8  `json:"g" yaml:"g"`
	B    uint8  `json:"b" yaml:"b"`
}

// DefaultPalette is used when no palette has been configured.
func DefaultPalette() []Color {
	return []Color{
		{Name: "BLUE", B: 255},
		{Name: "GREEN", G: 255},
		{Name: "RED", R: 255},
	}
}

// Shape is implemented by Stroke, Circle and Rectangle only.
type Shape interface {
	// Kind reports the variant.
	Kind() Kind
	// Overlaps reports whether the shape touches the query circle.
	Overlaps(center geometry.Point, r float64) bool

	shape()
}

// Stroke is a polyline grown from consecutive DRAW samples. Its first point
// doubles as its key in the canvas.
type Stroke struct {
	ID     uuid.UUID        `json:"id"`
	Color  Color            `json:"color"`
	Active bool             `json:"active"`
	Points []geometry.Point `json:"points"`

	seq uint64
}

// Circle grows its radius toward the latest reference point while active.
type Circle struct {
	ID     uuid.UUID      `json:"id"`
	Color  Color          `json:"color"`
	Active bool           `json:"active"`
	Origin geometry.Point `json:"origin"`
	Radius float64        `json:"radius"`

	seq uint64
}

// Rectangle is axis-aligned between a fixed anchor and a moving opposite corner.
type Rectangle struct {
	ID       uuid.UUID      `json:"id"`
	Color    Color          `json:"color"`
	Active   bool           `json:"active"`
	Anchor   geometry.Point `json:"anchor"`
	Opposite geometry.Point `json:"opposite"`

	seq uint64
}

func (*Stroke) shape()    {}
func (*Circle) shape()    {}
func (*Rectangle) shape() {}

func (*Stroke) Kind() Kind    { return StrokeKind }
func (*Circle) Kind() Kind    { return CircleKind }
func (*Rectangle) Kind() Kind { return RectangleKind }

// Origin returns the first point.
func (s *Stroke) Origin() geometry.Point {
	return s.Points[0]
}

// Overlaps reports whether any point lies within r of center.
func (s *Stroke) Overlaps(center geometry.Point, r float64) bool {
	for _, p := range s.Points {
		if geometry.Distance(p, center) <= r {
			return true
		}
	}
	return false
}

// Overlaps reports whether the query circle touches the circle's outline.
// A query circle strictly inside or strictly outside does not count.
func (c *Circle) Overlaps(center geometry.Point, r float64) bool {
	d := geometry.Distance(c.Origin, center)
	return math.Abs(c.Radius-r) <= d && d <= c.Radius+r
}

// Overlaps runs a closest-point test between the query circle and the box.
func (rc *Rectangle) Overlaps(center geometry.Point, r float64) bool {
	mid := geometry.Midpoint(rc.Anchor, rc.Opposite)
	halfH := math.Abs(rc.Anchor.Row-rc.Opposite.Row) / 2
	halfW := math.Abs(rc.Anchor.Col-rc.Opposite.Col) / 2

	dr := math.Abs(center.Row - mid.Row)
	dc := math.Abs(center.Col - mid.Col)

	if dr > halfH+r || dc > halfW+r {
		return false
	}
	if dr <= halfH-r && dc <= halfW-r {
		return true
	}

	// Distance from the center to the nearest point of the box edge or corner.
	er := math.Max(dr-halfH, 0)
	ec := math.Max(dc-halfW, 0)
	return er*er+ec*ec <= r*r
}

// Min returns the top-left corner.
func (rc *Rectangle) Min() geometry.Point {
	return geometry.Pt(math.Min(rc.Anchor.Row, rc.Opposite.Row), math.Min(rc.Anchor.Col, rc.Opposite.Col))
}

// Max returns the bottom-right corner.
func (rc *Rectangle) Max() geometry.Point {
	return geometry.Pt(math.Max(rc.Anchor.Row, rc.Opposite.Row), math.Max(rc.Anchor.Col, rc.Opposite.Col))
}
