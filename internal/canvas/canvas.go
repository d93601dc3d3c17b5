// Package canvas owns the drawn shapes and turns classified gestures into
// edits: drawing, erasing, dragging and toolbar interaction.
//
// A Canvas is not safe for concurrent use; callers serialize updates.
package canvas

import (
	"strings"

	"github.com/google/uuid"

	"github.com/ayusman/airdraw/internal/geometry"
	"github.com/ayusman/airdraw/internal/gesture"
)

// Sizes given to a freshly created circle or rectangle before the first
// extending sample arrives.
const (
	MinRadius      = 1.0
	DefaultRectGap = 1.0
)

// DefaultColor is selected on start when the palette has it.
const DefaultColor = "GREEN"

// Canvas is the shape collection plus the current style selection.
type Canvas struct {
	// Strokes are keyed by their first point. The key is rewritten whenever
	// a translation moves that point.
	strokes    map[geometry.Point]*Stroke
	circles    []*Circle
	rectangles []*Rectangle

	activeStroke    *Stroke
	activeCircle    *Circle
	activeRectangle *Rectangle

	palette  []Color
	color    Color
	kind     Kind
	rows     int
	cols     int
	blackout bool
	seq      uint64
}

// New returns an empty canvas using palette, or DefaultPalette when palette
// is empty.
func New(palette []Color) *Canvas {
	c := &Canvas{
		strokes: make(map[geometry.Point]*Stroke),
		kind:    StrokeKind,
	}
	c.SetPalette(palette)
	return c
}

// Update applies one classified frame to the canvas. Toolbar hits take
// precedence and consume the frame; otherwise the gesture is dispatched.
// A DRAW whose fingertip rests on a button therefore draws nothing that
// frame. The active shape stays active only when the button is the kind
// already selected.
func (c *Canvas) Update(rows, cols int, g gesture.Gesture) {
	c.rows, c.cols = rows, cols

	if c.handleToolbar(rows, cols, g.Tips) {
		return
	}

	switch g.Kind {
	case gesture.Draw:
		c.draw(g.Origin)
	case gesture.Erase:
		c.Deactivate()
		c.erase(g.Origin, g.Radius)
	case gesture.Translate:
		c.Deactivate()
		c.translate(g.Origin, g.Radius, g.Shift)
	default:
		c.Deactivate()
	}
}

// Layout returns the toolbar for a rows x cols frame.
func (c *Canvas) Layout(rows, cols int) Layout {
	return ComputeLayout(rows, cols, len(c.palette), len(Kinds))
}

func (c *Canvas) handleToolbar(rows, cols int, tips []geometry.Point) bool {
	if len(tips) == 0 {
		return false
	}
	layout := c.Layout(rows, cols)

	for _, tip := range tips {
		if layout.Clear.Contains(tip) {
			c.Clear()
			return true
		}
	}

	for i, region := range layout.Colors {
		for _, tip := range tips {
			if region.Contains(tip) {
				c.Deactivate()
				c.color = c.palette[i]
				return true
			}
		}
	}

	for i, region := range layout.Kinds {
		for _, tip := range tips {
			if region.Contains(tip) {
				c.SelectKind(Kinds[i])
				return true
			}
		}
	}
	return false
}

func (c *Canvas) nextSeq() uint64 {
	c.seq++
	return c.seq
}

// draw starts or extends the active shape of the selected kind at p. Points
// outside the canvas are ignored.
func (c *Canvas) draw(p geometry.Point) {
	if !p.In(c.rows, c.cols) {
		return
	}

	switch c.kind {
	case StrokeKind:
		if s := c.activeStroke; s != nil {
			s.Points = append(s.Points, p)
			return
		}
		if _, taken := c.strokes[p]; taken {
			return
		}
		s := &Stroke{
			ID:     uuid.New(),
			Color:  c.color,
			Active: true,
			Points: []geometry.Point{p},
			seq:    c.nextSeq(),
		}
		c.strokes[p] = s
		c.activeStroke = s

	case CircleKind:
		if ci := c.activeCircle; ci != nil {
			ci.Radius = geometry.Distance(ci.Origin, p)
			return
		}
		ci := &Circle{
			ID:     uuid.New(),
			Color:  c.color,
			Active: true,
			Origin: p,
			Radius: MinRadius,
			seq:    c.nextSeq(),
		}
		c.circles = append(c.circles, ci)
		c.activeCircle = ci

	case RectangleKind:
		if r := c.activeRectangle; r != nil {
			r.Opposite = p
			return
		}
		r := &Rectangle{
			ID:       uuid.New(),
			Color:    c.color,
			Active:   true,
			Anchor:   p,
			Opposite: p.Add(geometry.Pt(DefaultRectGap, DefaultRectGap)),
			seq:      c.nextSeq(),
		}
		c.rectangles = append(c.rectangles, r)
		c.activeRectangle = r
	}
}

// erase removes every shape touching the query circle.
func (c *Canvas) erase(center geometry.Point, r float64) {
	for key, s := range c.strokes {
		if s.Overlaps(center, r) {
			delete(c.strokes, key)
		}
	}

	circles := c.circles[:0]
	for _, ci := range c.circles {
		if !ci.Overlaps(center, r) {
			circles = append(circles, ci)
		}
	}
	clear(c.circles[len(circles):])
	c.circles = circles

	rectangles := c.rectangles[:0]
	for _, rc := range c.rectangles {
		if !rc.Overlaps(center, r) {
			rectangles = append(rectangles, rc)
		}
	}
	clear(c.rectangles[len(rectangles):])
	c.rectangles = rectangles
}

// translate moves every shape touching the query circle by shift.
//
// A stroke moves only if all of its shifted points stay on the canvas and its
// new first point is not the key of a stroke that stays put; otherwise it is
// left untouched. Strokes moving together may take each other's old keys. Circles and rectangles always move, even off the canvas.
// TODO: decide whether circles and rectangles should get the same bounds check as strokes.
func (c *Canvas) translate(center geometry.Point, r float64, shift geometry.Point) {
	if shift.IsZero() {
		return
	}

	var hits []*Stroke
	for _, s := range c.strokes {
		if s.Overlaps(center, r) {
			hits = append(hits, s)
		}
	}

	moves := make(map[*Stroke][]geometry.Point, len(hits))
	for _, s := range hits {
		if moved, ok := c.shiftPoints(s.Points, shift); ok {
			moves[s] = moved
		}
	}
	c.rekey(moves)

	for _, ci := range c.circles {
		if ci.Overlaps(center, r) {
			ci.Origin = ci.Origin.Add(shift)
		}
	}
	for _, rc := range c.rectangles {
		if rc.Overlaps(center, r) {
			rc.Anchor = rc.Anchor.Add(shift)
			rc.Opposite = rc.Opposite.Add(shift)
		}
	}
}

func (c *Canvas) shiftPoints(points []geometry.Point, shift geometry.Point) ([]geometry.Point, bool) {
	moved := make([]geometry.Point, len(points))
	for i, p := range points {
		q := p.Add(shift)
		if !q.In(c.rows, c.cols) {
			return nil, false
		}
		moved[i] = q
	}
	return moved, true
}

// rekey moves every stroke in moves to its new points in one step. A stroke
// whose new first point is held by a stroke that stays put keeps its old
// points; that can in turn pin others, so rejections repeat until stable.
func (c *Canvas) rekey(moves map[*Stroke][]geometry.Point) {
	for changed := true; changed; {
		changed = false
		for s, points := range moves {
			if other, taken := c.strokes[points[0]]; taken && other != s {
				if _, moving := moves[other]; !moving {
					delete(moves, s)
					changed = true
				}
			}
		}
	}

	for s := range moves {
		delete(c.strokes, s.Origin())
	}
	for s, points := range moves {
		s.Points = points
		c.strokes[points[0]] = s
	}
}

// Deactivate freezes the active shape of every kind.
func (c *Canvas) Deactivate() {
	if c.activeStroke != nil {
		c.activeStroke.Active = false
		c.activeStroke = nil
	}
	if c.activeCircle != nil {
		c.activeCircle.Active = false
		c.activeCircle = nil
	}
	if c.activeRectangle != nil {
		c.activeRectangle.Active = false
		c.activeRectangle = nil
	}
}

// Clear removes every shape.
func (c *Canvas) Clear() {
	c.Deactivate()
	clear(c.strokes)
	c.circles = nil
	c.rectangles = nil
}

// SwitchBackground toggles the blackout background.
func (c *Canvas) SwitchBackground() {
	c.blackout = !c.blackout
}

// SetBlackout sets the blackout background.
func (c *Canvas) SetBlackout(on bool) {
	c.blackout = on
}

// Blackout reports whether the background is blacked out.
func (c *Canvas) Blackout() bool {
	return c.blackout
}

// SetPalette replaces the toolbar colors. The selection is kept when the new
// palette still has a color of the same name.
func (c *Canvas) SetPalette(palette []Color) {
	if len(palette) == 0 {
		palette = DefaultPalette()
	}
	c.palette = append([]Color(nil), palette...)

	name := c.color.Name
	if name == "" {
		name = DefaultColor
	}
	if !c.SelectColor(name) {
		c.Deactivate()
		c.color = c.palette[0]
	}
}

// Palette returns a copy of the toolbar colors.
func (c *Canvas) Palette() []Color {
	return append([]Color(nil), c.palette...)
}

// SelectColor switches to the palette color named name, freezing any active
// shape. It reports false when no such color exists.
func (c *Canvas) SelectColor(name string) bool {
	for _, col := range c.palette {
		if strings.EqualFold(col.Name, name) {
			if col != c.color {
				c.Deactivate()
				c.color = col
			}
			return true
		}
	}
	return false
}

// Color returns the selected color.
func (c *Canvas) Color() Color {
	return c.color
}

// SelectKind switches the shape kind DRAW produces.
func (c *Canvas) SelectKind(k Kind) {
	if k == c.kind {
		return
	}
	c.Deactivate()
	c.kind = k
}

// Kind returns the selected shape kind.
func (c *Canvas) Kind() Kind {
	return c.kind
}

// Len returns the total number of shapes.
func (c *Canvas) Len() int {
	return len(c.strokes) + len(c.circles) + len(c.rectangles)
}
