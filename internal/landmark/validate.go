package landmark

import "errors"

// ErrInsufficientLandmarks is returned when a frame has no hand detection.
// The frame is skipped, not fatal; it lowers the session's visibility ratio.
var ErrInsufficientLandmarks = errors.New("insufficient hand landmarks")

// ValidHand holds hand landmarks that passed the confidence gate.
// Low-confidence points keep their coordinates but are marked absent in
// Present, so downstream geometry can tell a guessed point from a real one.
type ValidHand struct {
	Points  [NumHandLandmarks]Point
	Present [NumHandLandmarks]bool
}

// Have reports whether every listed landmark passed the confidence gate.
func (h *ValidHand) Have(indices ...int) bool {
	for _, i := range indices {
		if i < 0 || i >= NumHandLandmarks || !h.Present[i] {
			return false
		}
	}
	return true
}

// ValidFrame is a raw frame after the confidence gate. All downstream
// geometry must consume ValidFrame, never Frame: MediaPipe-style trackers
// emit coordinates even for points they effectively guessed.
type ValidFrame struct {
	Timestamp   int64
	Hand        ValidHand
	Pose        *Pose
	PosePresent [NumPoseLandmarks]bool
	Handedness  Handedness
}

// PoseHave reports whether every listed pose landmark passed the gate.
func (f *ValidFrame) PoseHave(indices ...int) bool {
	if f.Pose == nil {
		return false
	}
	for _, i := range indices {
		if i < 0 || i >= NumPoseLandmarks || !f.PosePresent[i] {
			return false
		}
	}
	return true
}

// Validate filters a raw frame by per-point confidence. Points below
// minVisibility are marked missing rather than zeroed. It returns
// ErrInsufficientLandmarks when no hand was detected this frame.
// Validate is a pure function; the input frame is not modified.
func Validate(f *Frame, minVisibility float64) (*ValidFrame, error) {
	if f == nil || f.Hand == nil {
		return nil, ErrInsufficientLandmarks
	}

	vf := &ValidFrame{
		Timestamp:  f.Timestamp,
		Handedness: f.Handedness,
	}

	for i, p := range f.Hand.Points {
		vf.Hand.Points[i] = p
		vf.Hand.Present[i] = p.Visibility >= minVisibility
	}

	if f.Pose != nil {
		pose := *f.Pose
		vf.Pose = &pose
		for i, p := range pose.Points {
			vf.PosePresent[i] = p.Visibility >= minVisibility
		}
	}

	return vf, nil
}
