package rom

import (
	"sort"

	"github.com/sreevidya/handrom/internal/landmark"
)

// signBias nudges the cross product away from an exact zero so the sign of a
// perfectly in-plane configuration is deterministic.
const signBias = 1e-9

// SignedAngle computes the signed, anatomically side-corrected angle between
// the forearm axis (elbow to wrist) and the hand reference vector (wrist to
// ref), in degrees.
//
// The magnitude is the raw angle between the two vectors, in [0, 180]. The
// sign comes from the z component of their cross product, mirrored by which
// side of the frame the arm appears on (wrist.x versus elbow.x), so that
// flexion is positive on both left and right arms. The corresponding
// pronation/supination and radial/ulnar conventions follow the same rule with
// their respective reference landmarks.
func SignedAngle(elbow, wrist, ref landmark.Point) float64 {
	forearm := sub(wrist, elbow)
	handVec := sub(ref, wrist)

	theta := angleDeg(forearm, handVec)

	sign := 1.0
	if cross(forearm, handVec).z+signBias < 0 {
		sign = -1.0
	}

	side := -1.0
	if wrist.X < elbow.X {
		side = 1.0
	}

	return theta * sign * side
}

// WristAngles holds the wrist-family measurements for one frame. Each value
// is only meaningful when its ok flag is set; a cleared flag means the
// required landmarks failed the confidence gate this frame.
type WristAngles struct {
	FlexExt    float64 // positive flexion, negative extension
	Rotation   float64 // positive pronation, negative supination
	Deviation  float64 // positive radial, negative ulnar
	FlexExtOK  bool
	RotationOK bool
	DeviationOK bool
}

// WristFamilyAngles computes the three wrist-family signed angles from fused
// pose and hand landmarks. The elbow and wrist are taken from the pose side
// matching the session's locked hand type; the side must not be recomputed
// per frame, or the reference skeleton jumps when the hand crosses the body
// midline.
func WristFamilyAngles(f *landmark.ValidFrame, side landmark.Handedness) WristAngles {
	var out WristAngles

	elbowIdx := landmark.ElbowIndex(side)
	wristIdx := landmark.WristIndex(side)
	if !f.PoseHave(elbowIdx, wristIdx) {
		return out
	}

	elbow := f.Pose.Points[elbowIdx]
	wrist := f.Pose.Points[wristIdx]

	if f.Hand.Have(landmark.MiddleMCP) {
		out.FlexExt = SignedAngle(elbow, wrist, f.Hand.Points[landmark.MiddleMCP])
		out.FlexExtOK = true
	}
	if f.Hand.Have(landmark.ThumbCMC) {
		out.Rotation = SignedAngle(elbow, wrist, f.Hand.Points[landmark.ThumbCMC])
		out.RotationOK = true
	}
	if f.Hand.Have(landmark.IndexMCP) {
		out.Deviation = SignedAngle(elbow, wrist, f.Hand.Points[landmark.IndexMCP])
		out.DeviationOK = true
	}

	return out
}

// MedianFilter is a short moving-median smoother for signed angles. It
// suppresses single-frame tracking jitter without material lag. A window
// below 3 makes the filter a passthrough.
type MedianFilter struct {
	window int
	buf    []float64
}

// NewMedianFilter creates a median filter with the given odd window length.
// Even lengths are rounded down to the next odd length.
func NewMedianFilter(window int) *MedianFilter {
	if window >= 3 && window%2 == 0 {
		window--
	}
	return &MedianFilter{window: window}
}

// Apply pushes a value into the window and returns the current median.
func (m *MedianFilter) Apply(v float64) float64 {
	if m.window < 3 {
		return v
	}

	if len(m.buf) == m.window {
		copy(m.buf, m.buf[1:])
		m.buf = m.buf[:m.window-1]
	}
	m.buf = append(m.buf, v)

	return median(m.buf)
}

// Reset clears the window, e.g. between repetitions.
func (m *MedianFilter) Reset() {
	m.buf = m.buf[:0]
}

// median returns the median of values; for even counts it returns the lower
// middle value so the result is always an observed sample.
func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	return sorted[(len(sorted)-1)/2]
}
