package canvas

import "github.com/ayusman/airdraw/internal/geometry"

// Toolbar geometry in pixels. The clear button has a fixed size; the color
// and kind buttons share whatever width is left.
const (
	ToolbarTop    = 1
	ToolbarBottom = 65
	ClearLeft     = 40
	ClearWidth    = 100
	ButtonGap     = 20
	RightMargin   = 20
)

// Region is the half-open box [Min, Max).
type Region struct {
	Min geometry.Point `json:"min"`
	Max geometry.Point `json:"max"`
}

// Contains reports whether p lies inside the region.
func (r Region) Contains(p geometry.Point) bool {
	return p.Row >= r.Min.Row && p.Row < r.Max.Row && p.Col >= r.Min.Col && p.Col < r.Max.Col
}

// Empty reports whether the region has no area.
func (r Region) Empty() bool {
	return r.Max.Row <= r.Min.Row || r.Max.Col <= r.Min.Col
}

// Layout is the toolbar for one frame size. It is derived from the frame
// dimensions alone and recomputed every update.
type Layout struct {
	Clear  Region   `json:"clear"`
	Colors []Region `json:"colors"`
	Kinds  []Region `json:"kinds"`
}

// ComputeLayout places the clear button followed by colors and kinds equal
// width buttons along the top of a rows x cols frame. Buttons that would have
// no width are omitted.
func ComputeLayout(rows, cols, colors, kinds int) Layout {
	bottom := float64(min(ToolbarBottom, rows))

	var l Layout
	l.Clear = Region{
		Min: geometry.Pt(ToolbarTop, ClearLeft),
		Max: geometry.Pt(bottom, float64(min(ClearLeft+ClearWidth, cols))),
	}

	n := colors + kinds
	if n == 0 {
		return l
	}

	left := ClearLeft + ClearWidth + ButtonGap
	width := (cols - left - RightMargin - ButtonGap*(n-1)) / n
	if width <= 0 {
		return l
	}

	next := func() Region {
		r := Region{
			Min: geometry.Pt(ToolbarTop, float64(left)),
			Max: geometry.Pt(bottom, float64(left+width)),
		}
		left += width + ButtonGap
		return r
	}

	l.Colors = make([]Region, colors)
	for i := range l.Colors {
		l.Colors[i] = next()
	}
	l.Kinds = make([]Region, kinds)
	for i := range l.Kinds {
		l.Kinds[i] = next()
	}
	return l
}
