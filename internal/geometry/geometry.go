// Package geometry provides the small amount of 2D vector math used by the
// gesture classifier and the canvas engine.
package geometry

import (
	"errors"
	"math"
)

// ErrDimensionMismatch is returned when two vectors of different length are combined.
var ErrDimensionMismatch = errors.New("vector dimensions differ")

// Point is a position (or displacement) in frame-pixel space.
// Row grows downward and Col grows to the right, origin at the top-left.
type Point struct {
	Row float64 `json:"row"`
	Col float64 `json:"col"`
}

// Pt is shorthand for Point{Row: row, Col: col}.
func Pt(row, col float64) Point {
	return Point{Row: row, Col: col}
}

// Add returns p + q.
func (p Point) Add(q Point) Point {
	return Point{Row: p.Row + q.Row, Col: p.Col + q.Col}
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{Row: p.Row - q.Row, Col: p.Col - q.Col}
}

// IsZero reports whether both components are zero.
func (p Point) IsZero() bool {
	return p.Row == 0 && p.Col == 0
}

// In reports whether p lies in [0, rows) x [0, cols).
func (p Point) In(rows, cols int) bool {
	return p.Row >= 0 && p.Row < float64(rows) && p.Col >= 0 && p.Col < float64(cols)
}

// Vec returns p as a two-element vector.
func (p Point) Vec() []float64 {
	return []float64{p.Row, p.Col}
}

// Midpoint returns the point halfway between a and b.
func Midpoint(a, b Point) Point {
	return Point{Row: (a.Row + b.Row) / 2, Col: (a.Col + b.Col) / 2}
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b Point) float64 {
	dr := a.Row - b.Row
	dc := a.Col - b.Col
	return math.Sqrt(dr*dr + dc*dc)
}

// Vectorize returns the component-wise difference v - u.
func Vectorize(u, v []float64) ([]float64, error) {
	if len(u) != len(v) {
		return nil, ErrDimensionMismatch
	}
	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i] - u[i]
	}
	return out, nil
}

// Magnitude returns the Euclidean length of v.
func Magnitude(v []float64) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// CosineSimilarity returns the cosine of the angle between u and v.
// It returns 0 when either vector has zero length or the dimensions differ.
func CosineSimilarity(u, v []float64) float64 {
	if len(u) != len(v) {
		return 0
	}
	mu, mv := Magnitude(u), Magnitude(v)
	if mu == 0 || mv == 0 {
		return 0
	}

	var dot float64
	for i := range u {
		dot += u[i] * v[i]
	}

	// Clamp rounding drift so callers can rely on [-1, 1].
	return math.Max(-1, math.Min(1, dot/(mu*mv)))
}
