package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const epsilon = 1e-9

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"same point", Pt(3, 4), Pt(3, 4), 0},
		{"3-4-5 triangle", Pt(0, 0), Pt(3, 4), 5},
		{"negative coordinates", Pt(-1, -1), Pt(2, 3), 5},
		{"symmetric", Pt(3, 4), Pt(0, 0), 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Distance(tt.a, tt.b), epsilon)
		})
	}
}

func TestVectorize(t *testing.T) {
	t.Run("subtracts u from v", func(t *testing.T) {
		got, err := Vectorize([]float64{1, 2}, []float64{4, 6})
		require.NoError(t, err)
		assert.Equal(t, []float64{3, 4}, got)
	})

	t.Run("rejects mismatched dimensions", func(t *testing.T) {
		_, err := Vectorize([]float64{1, 2, 3}, []float64{4, 6})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})
}

func TestMagnitude(t *testing.T) {
	assert.InDelta(t, 5.0, Magnitude([]float64{3, 4}), epsilon)
	assert.InDelta(t, 0.0, Magnitude([]float64{0, 0}), epsilon)
	assert.InDelta(t, 0.0, Magnitude(nil), epsilon)
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		u, v []float64
		want float64
	}{
		{"parallel", []float64{1, 0}, []float64{5, 0}, 1},
		{"opposite", []float64{0, 2}, []float64{0, -3}, -1},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0},
		{"45 degrees", []float64{1, 0}, []float64{1, 1}, math.Sqrt2 / 2},
		{"zero u", []float64{0, 0}, []float64{1, 1}, 0},
		{"zero v", []float64{1, 1}, []float64{0, 0}, 0},
		{"both zero", []float64{0, 0}, []float64{0, 0}, 0},
		{"mismatched", []float64{1, 0, 0}, []float64{1, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.u, tt.v)
			assert.InDelta(t, tt.want, got, epsilon)
			assert.False(t, math.IsNaN(got))
		})
	}
}

func TestPoint(t *testing.T) {
	p := Pt(10, 20)

	assert.Equal(t, Pt(11, 22), p.Add(Pt(1, 2)))
	assert.Equal(t, Pt(9, 18), p.Sub(Pt(1, 2)))
	assert.Equal(t, Pt(5, 10), Midpoint(Pt(0, 0), p))
	assert.Equal(t, []float64{10, 20}, p.Vec())
	assert.True(t, Point{}.IsZero())
	assert.False(t, p.IsZero())

	t.Run("bounds are half-open", func(t *testing.T) {
		assert.True(t, Pt(0, 0).In(100, 100))
		assert.True(t, Pt(99.5, 99).In(100, 100))
		assert.False(t, Pt(100, 50).In(100, 100))
		assert.False(t, Pt(50, 100).In(100, 100))
		assert.False(t, Pt(-0.1, 50).In(100, 100))
	})
}
