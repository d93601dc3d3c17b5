package canvas

import (
	"sort"

	"github.com/ayusman/airdraw/internal/geometry"
)

// Snapshot is a deep copy of the canvas for renderers and API clients.
// Shapes of each kind are in creation order.
type Snapshot struct {
	Rows       int         `json:"rows"`
	Cols       int         `json:"cols"`
	Blackout   bool        `json:"blackout"`
	Color      Color       `json:"color"`
	Kind       Kind        `json:"kind"`
	Palette    []Color     `json:"palette"`
	Strokes    []Stroke    `json:"strokes"`
	Circles    []Circle    `json:"circles"`
	Rectangles []Rectangle `json:"rectangles"`
}

// Snapshot copies the current state.
func (c *Canvas) Snapshot() Snapshot {
	snap := Snapshot{
		Rows:       c.rows,
		Cols:       c.cols,
		Blackout:   c.blackout,
		Color:      c.color,
		Kind:       c.kind,
		Palette:    c.Palette(),
		Strokes:    make([]Stroke, 0, len(c.strokes)),
		Circles:    make([]Circle, 0, len(c.circles)),
		Rectangles: make([]Rectangle, 0, len(c.rectangles)),
	}

	for _, s := range c.strokes {
		cp := *s
		cp.Points = append([]geometry.Point(nil), s.Points...)
		snap.Strokes = append(snap.Strokes, cp)
	}
	sort.Slice(snap.Strokes, func(i, j int) bool { return snap.Strokes[i].seq < snap.Strokes[j].seq })

	for _, ci := range c.circles {
		snap.Circles = append(snap.Circles, *ci)
	}
	for _, rc := range c.rectangles {
		snap.Rectangles = append(snap.Rectangles, *rc)
	}
	return snap
}

// Len returns the total number of shapes in the snapshot.
func (s Snapshot) Len() int {
	return len(s.Strokes) + len(s.Circles) + len(s.Rectangles)
}

// Layout returns the toolbar matching the snapshot's frame size.
func (s Snapshot) Layout() Layout {
	return ComputeLayout(s.Rows, s.Cols, len(s.Palette), len(Kinds))
}
