package detector

import (
	"errors"
	"math"
	"testing"

	"github.com/ayusman/airdraw/internal/geometry"
)

const epsilon = 1e-9

func TestHandLandmarks_Pose(t *testing.T) {
	t.Run("maps x to columns and y to rows", func(t *testing.T) {
		hand := HandLandmarks{Handedness: "Right", Score: 0.9}
		hand.Points[IndexTip] = Point3D{X: 0.25, Y: 0.5, Z: -0.1}

		pose := hand.Pose(480, 640)

		if !pose.Valid() {
			t.Fatalf("expected %d landmarks, got %d", NumLandmarks, len(pose))
		}
		tip := pose[IndexTip]
		if math.Abs(tip.Row-240) > epsilon {
			t.Errorf("expected row 240, got %f", tip.Row)
		}
		if math.Abs(tip.Col-160) > epsilon {
			t.Errorf("expected col 160, got %f", tip.Col)
		}
		if tip.Z != -0.1 {
			t.Errorf("expected depth to be preserved, got %f", tip.Z)
		}
	})

	t.Run("nil hand returns nil", func(t *testing.T) {
		var hand *HandLandmarks
		if pose := hand.Pose(480, 640); pose != nil {
			t.Error("expected nil pose for nil hand")
		}
	})

	t.Run("round trips through Landmarks", func(t *testing.T) {
		original := PeacePose()
		lm := Landmarks(original, PresetRows, PresetCols)
		back := lm.Pose(PresetRows, PresetCols)

		for i := range original {
			if math.Abs(original[i].Row-back[i].Row) > 1e-6 || math.Abs(original[i].Col-back[i].Col) > 1e-6 {
				t.Errorf("landmark %d: expected %+v, got %+v", i, original[i], back[i])
			}
		}
	})
}

func TestHandPose(t *testing.T) {
	t.Run("valid only with 21 landmarks", func(t *testing.T) {
		if (HandPose{}).Valid() {
			t.Error("empty pose should be invalid")
		}
		if make(HandPose, 20).Valid() {
			t.Error("20 landmark pose should be invalid")
		}
		if !make(HandPose, NumLandmarks).Valid() {
			t.Error("21 landmark pose should be valid")
		}
	})

	t.Run("shift moves every landmark", func(t *testing.T) {
		pose := PointingPose()
		moved := pose.Shift(geometry.Pt(5, -3))

		for i := range pose {
			if moved[i].Row != pose[i].Row+5 || moved[i].Col != pose[i].Col-3 {
				t.Errorf("landmark %d not shifted: %+v -> %+v", i, pose[i], moved[i])
			}
		}
		if pose[IndexTip].Row != 205 {
			t.Error("shift must not modify the original pose")
		}
	})
}

func TestMockDetector(t *testing.T) {
	t.Run("returns empty hands by default", func(t *testing.T) {
		mock := NewMockDetector()

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if hands != nil {
			t.Errorf("expected nil hands, got %v", hands)
		}
	})

	t.Run("returns configured hands", func(t *testing.T) {
		mock := NewMockDetector()
		mock.SetHands([]HandLandmarks{
			Landmarks(PointingPose(), PresetRows, PresetCols),
		})

		hands, err := mock.Detect(nil)

		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if len(hands) != 1 {
			t.Errorf("expected 1 hand, got %d", len(hands))
		}
		if mock.Calls() != 1 {
			t.Errorf("expected 1 call, got %d", mock.Calls())
		}
	})

	t.Run("returns configured error", func(t *testing.T) {
		mock := NewMockDetector()

		expectedErr := errors.New("detection failed")
		mock.SetError(expectedErr)

		hands, err := mock.Detect(nil)

		if err != expectedErr {
			t.Errorf("expected error %v, got %v", expectedErr, err)
		}
		if hands != nil {
			t.Errorf("expected nil hands when error is set, got %v", hands)
		}
	})

	t.Run("implements Detector interface", func(t *testing.T) {
		var _ Detector = (*MockDetector)(nil)
		var _ Detector = (*MediaPipeDetector)(nil)
	})
}

func TestPresetPoses(t *testing.T) {
	extended := func(pose HandPose, pip, tip int) bool {
		// Fingers point toward row 0 when extended.
		return pose[tip].Row < pose[pip].Row
	}

	tests := []struct {
		name                        string
		pose                        HandPose
		index, middle, ring, pinky bool
	}{
		{"pointing", PointingPose(), true, false, false, false},
		{"peace", PeacePose(), true, true, false, false},
		{"three finger", ThreeFingerPose(), true, true, true, false},
		{"rock", RockPose(), true, false, false, true},
		{"fist", FistPose(), false, false, false, false},
		{"open palm", OpenPalmPose(), true, true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.pose.Valid() {
				t.Fatalf("preset has %d landmarks", len(tt.pose))
			}
			if got := extended(tt.pose, IndexPIP, IndexTip); got != tt.index {
				t.Errorf("index extended = %v, want %v", got, tt.index)
			}
			if got := extended(tt.pose, MiddlePIP, MiddleTip); got != tt.middle {
				t.Errorf("middle extended = %v, want %v", got, tt.middle)
			}
			if got := extended(tt.pose, RingPIP, RingTip); got != tt.ring {
				t.Errorf("ring extended = %v, want %v", got, tt.ring)
			}
			if got := extended(tt.pose, PinkyPIP, PinkyTip); got != tt.pinky {
				t.Errorf("pinky extended = %v, want %v", got, tt.pinky)
			}
			for i, l := range tt.pose {
				if !l.Point().In(PresetRows, PresetCols) {
					t.Errorf("landmark %d outside preset frame: %+v", i, l)
				}
			}
		})
	}
}
