// Package render draws canvas snapshots and the toolbar onto camera frames
// with OpenCV primitives.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"gocv.io/x/gocv"

	"github.com/ayusman/airdraw/internal/canvas"
	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/geometry"
	"github.com/ayusman/airdraw/internal/gesture"
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	gray  = color.RGBA{R: 128, G: 128, B: 128, A: 255}

	boneColor  = color.RGBA{R: 224, G: 224, B: 224, A: 255}
	jointColor = color.RGBA{R: 255, A: 255}
)

// Renderer holds the drawing style.
type Renderer struct {
	StrokeThickness int
	ShapeThickness  int
	FontScale       float64
	// ShowCursor marks the reference point of the current gesture.
	ShowCursor bool
	// ShowHand draws the tracked hand skeleton.
	ShowHand      bool
	BoneThickness int
	JointRadius   int
}

// New returns a Renderer with the default style.
func New() *Renderer {
	return &Renderer{
		StrokeThickness: 4,
		ShapeThickness:  3,
		FontScale:       0.5,
		ShowCursor:      true,
		ShowHand:        true,
		BoneThickness:   2,
		JointRadius:     4,
	}
}

// Draw paints snap onto frame in place: the blackout background if set, then
// shapes, the toolbar, the hand skeleton and finally the gesture cursor. g may
// be nil and hand may be empty when no hand was seen.
func (r *Renderer) Draw(frame *gocv.Mat, snap canvas.Snapshot, g *gesture.Gesture, hand detector.HandPose) {
	if frame == nil || frame.Empty() {
		return
	}

	if snap.Blackout {
		frame.SetTo(gocv.NewScalar(0, 0, 0, 0))
	}

	for i := range snap.Strokes {
		r.drawStroke(frame, &snap.Strokes[i])
	}
	for _, c := range snap.Circles {
		gocv.Circle(frame, toImage(c.Origin), int(math.Round(c.Radius)), rgba(c.Color), r.ShapeThickness)
	}
	for _, rc := range snap.Rectangles {
		box := image.Rectangle{Min: toImage(rc.Min()), Max: toImage(rc.Max())}
		gocv.Rectangle(frame, box, rgba(rc.Color), r.ShapeThickness)
	}

	r.drawToolbar(frame, snap)

	if r.ShowHand && hand.Valid() {
		r.drawHand(frame, hand)
	}

	if g != nil && r.ShowCursor {
		r.drawCursor(frame, *g)
	}
}

func (r *Renderer) drawStroke(frame *gocv.Mat, s *canvas.Stroke) {
	c := rgba(s.Color)
	if len(s.Points) == 1 {
		gocv.Circle(frame, toImage(s.Points[0]), max(r.StrokeThickness/2, 1), c, -1)
		return
	}
	for i := 1; i < len(s.Points); i++ {
		gocv.Line(frame, toImage(s.Points[i-1]), toImage(s.Points[i]), c, r.StrokeThickness)
	}
}

func (r *Renderer) drawToolbar(frame *gocv.Mat, snap canvas.Snapshot) {
	layout := canvas.ComputeLayout(frame.Rows(), frame.Cols(), len(snap.Palette), len(canvas.Kinds))

	if !layout.Clear.Empty() {
		gocv.Rectangle(frame, box(layout.Clear), white, 2)
		r.label(frame, layout.Clear, "CLEAR", white)
	}

	for i, region := range layout.Colors {
		col := snap.Palette[i]
		gocv.Rectangle(frame, box(region), rgba(col), -1)
		if col.Name == snap.Color.Name {
			gocv.Rectangle(frame, box(region), white, 3)
		}
	}

	for i, region := range layout.Kinds {
		k := canvas.Kinds[i]
		fg := gray
		if k == snap.Kind {
			fg = white
		}
		gocv.Rectangle(frame, box(region), fg, 2)
		r.label(frame, region, k.String(), fg)
	}
}

// label centers text inside region, shrinking it to fit.
func (r *Renderer) label(frame *gocv.Mat, region canvas.Region, text string, c color.RGBA) {
	b := box(region)
	scale := r.FontScale
	size := gocv.GetTextSize(text, gocv.FontHersheySimplex, scale, 1)
	if size.X > b.Dx()-4 && size.X > 0 {
		scale *= float64(b.Dx()-4) / float64(size.X)
		size = gocv.GetTextSize(text, gocv.FontHersheySimplex, scale, 1)
	}
	org := image.Pt(b.Min.X+(b.Dx()-size.X)/2, b.Min.Y+(b.Dy()+size.Y)/2)
	gocv.PutText(frame, text, org, gocv.FontHersheySimplex, scale, c, 1)
}

func (r *Renderer) drawCursor(frame *gocv.Mat, g gesture.Gesture) {
	switch g.Kind {
	case gesture.Erase, gesture.Translate:
		gocv.Circle(frame, toImage(g.Origin), max(int(math.Round(g.Radius)), 1), white, 1)
	case gesture.Draw:
		gocv.Circle(frame, toImage(g.Origin), 3, white, -1)
	default:
		if len(g.Tips) > 0 {
			gocv.Circle(frame, toImage(g.Tips[0]), 5, white, 1)
		}
	}
}

func (r *Renderer) drawHand(frame *gocv.Mat, hand detector.HandPose) {
	for _, c := range detector.HandConnections {
		gocv.Line(frame, toImage(hand.At(c[0])), toImage(hand.At(c[1])), boneColor, r.BoneThickness)
	}
	for i := range hand {
		gocv.Circle(frame, toImage(hand.At(i)), r.JointRadius, jointColor, -1)
	}
}

// EncodeJPEG compresses frame for the preview stream.
func EncodeJPEG(frame *gocv.Mat) ([]byte, error) {
	if frame == nil || frame.Empty() {
		return nil, fmt.Errorf("encode preview: empty frame")
	}
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, *frame)
	if err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}
	defer buf.Close()

	return append([]byte(nil), buf.GetBytes()...), nil
}

func toImage(p geometry.Point) image.Point {
	return image.Pt(int(math.Round(p.Col)), int(math.Round(p.Row)))
}

// box converts a half-open region to the inclusive pixel rectangle OpenCV draws.
func box(r canvas.Region) image.Rectangle {
	return image.Rect(int(r.Min.Col), int(r.Min.Row), int(r.Max.Col)-1, int(r.Max.Row)-1)
}

func rgba(c canvas.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}
