// Package smoothing damps per-frame hand tracking jitter by averaging the most
// recent poses, and derives a finite-difference velocity for the index tip.
package smoothing

import (
	"errors"

	"github.com/ayusman/airdraw/internal/detector"
	"github.com/ayusman/airdraw/internal/geometry"
)

// DefaultSize is the number of poses averaged by default.
const DefaultSize = 5

var (
	// ErrEmpty is returned by Average when no pose has been pushed.
	ErrEmpty = errors.New("smoothing buffer is empty")
	// ErrLandmarkMismatch is returned by Average when buffered poses differ in length.
	ErrLandmarkMismatch = errors.New("buffered poses have different landmark counts")
)

// Buffer is a fixed-capacity FIFO of hand poses. It is not safe for
// concurrent use.
type Buffer struct {
	poses []detector.HandPose
	size  int
}

// New creates a Buffer holding at most size poses. Non-positive sizes fall
// back to DefaultSize.
func New(size int) *Buffer {
	if size <= 0 {
		size = DefaultSize
	}
	return &Buffer{
		poses: make([]detector.HandPose, 0, size),
		size:  size,
	}
}

// Push appends pose, evicting the oldest entry when the buffer is full.
func (b *Buffer) Push(pose detector.HandPose) {
	if len(b.poses) >= b.size {
		copy(b.poses, b.poses[1:])
		b.poses = b.poses[:b.size-1]
	}
	b.poses = append(b.poses, pose)
}

// Len returns the number of buffered poses.
func (b *Buffer) Len() int {
	return len(b.poses)
}

// Cap returns the buffer capacity.
func (b *Buffer) Cap() int {
	return b.size
}

// Reset drops every buffered pose.
func (b *Buffer) Reset() {
	b.poses = b.poses[:0]
}

// Average returns the per-landmark mean of all buffered poses.
func (b *Buffer) Average() (detector.HandPose, error) {
	if len(b.poses) == 0 {
		return nil, ErrEmpty
	}

	n := len(b.poses[0])
	for _, p := range b.poses[1:] {
		if len(p) != n {
			return nil, ErrLandmarkMismatch
		}
	}

	avg := make(detector.HandPose, n)
	for _, p := range b.poses {
		for i, l := range p {
			avg[i].Row += l.Row
			avg[i].Col += l.Col
			avg[i].Z += l.Z
		}
	}

	count := float64(len(b.poses))
	for i := range avg {
		avg[i].Row /= count
		avg[i].Col /= count
		avg[i].Z /= count
	}
	return avg, nil
}

// Displacement returns how far the index fingertip moved between the two
// newest poses. It is zero with fewer than two poses or when any buffered pose
// does not have exactly detector.NumLandmarks entries.
func (b *Buffer) Displacement() geometry.Point {
	if len(b.poses) < 2 {
		return geometry.Point{}
	}
	for _, p := range b.poses {
		if !p.Valid() {
			return geometry.Point{}
		}
	}

	last := b.poses[len(b.poses)-1].At(detector.IndexTip)
	prev := b.poses[len(b.poses)-2].At(detector.IndexTip)
	return last.Sub(prev)
}
