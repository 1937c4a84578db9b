package rom

import (
	"github.com/sreevidya/handrom/internal/landmark"
)

// pt builds a fully-trusted landmark point.
func pt(x, y, z float64) landmark.Point {
	return landmark.Point{X: x, Y: y, Z: z, Visibility: 1.0}
}

// straightHand builds a hand with the wrist at the bottom and all four
// fingers fully extended straight up (-Y), each finger chain collinear with
// its wrist-to-MCP direction. Every point is fully trusted.
func straightHand() *landmark.Hand {
	h := &landmark.Hand{}
	h.Points[landmark.Wrist] = pt(0.5, 0.9, 0)

	// Thumb, angled off to the side.
	h.Points[landmark.ThumbCMC] = pt(0.56, 0.84, 0)
	h.Points[landmark.ThumbMCP] = pt(0.62, 0.78, 0)
	h.Points[landmark.ThumbIP] = pt(0.68, 0.72, 0)
	h.Points[landmark.ThumbTip] = pt(0.74, 0.66, 0)

	xs := map[Finger]float64{
		FingerIndex:  0.62,
		FingerMiddle: 0.50,
		FingerRing:   0.38,
		FingerPinky:  0.26,
	}
	for f, x := range xs {
		mcp, pip, dip, tip := fingerJoints(f)
		// Each chain is collinear with its wrist->MCP direction, fanning out
		// in X so neighboring fingertips stay clearly separated.
		dx := (x - 0.5) / 4
		h.Points[mcp] = pt(0.5+dx*1, 0.70, 0)
		h.Points[pip] = pt(0.5+dx*1.5, 0.60, 0)
		h.Points[dip] = pt(0.5+dx*1.8, 0.54, 0)
		h.Points[tip] = pt(0.5+dx*2, 0.50, 0)
	}
	return h
}

// collinearFinger overwrites one finger of h so its whole chain is exactly
// collinear with the wrist, giving zero flexion at every joint.
func collinearFinger(h *landmark.Hand, f Finger) {
	mcp, pip, dip, tip := fingerJoints(f)
	h.Points[landmark.Wrist] = pt(0.5, 0.9, 0)
	h.Points[mcp] = pt(0.5, 0.7, 0)
	h.Points[pip] = pt(0.5, 0.6, 0)
	h.Points[dip] = pt(0.5, 0.55, 0)
	h.Points[tip] = pt(0.5, 0.5, 0)
}

// flexFinger overwrites one finger of h so the PIP joint is bent 90 degrees
// (the distal segments turn into +Z) while MCP and DIP stay straight.
func flexFinger(h *landmark.Hand, f Finger) {
	mcp, pip, dip, tip := fingerJoints(f)
	h.Points[landmark.Wrist] = pt(0.5, 0.9, 0)
	h.Points[mcp] = pt(0.5, 0.7, 0)
	h.Points[pip] = pt(0.5, 0.6, 0)
	h.Points[dip] = pt(0.5, 0.6, 0.05)
	h.Points[tip] = pt(0.5, 0.6, 0.1)
}

// validHand runs the confidence gate over a raw hand with the default
// threshold and returns the validated landmarks.
func validHand(h *landmark.Hand) *landmark.ValidHand {
	f := &landmark.Frame{Timestamp: 0, Hand: h, Handedness: landmark.HandRight}
	vf, err := landmark.Validate(f, DefaultConfig().MinVisibility)
	if err != nil {
		panic(err)
	}
	return &vf.Hand
}

// handFrame wraps a hand into a raw frame with the given timestamp.
func handFrame(ts int64, h *landmark.Hand, hd landmark.Handedness) *landmark.Frame {
	return &landmark.Frame{Timestamp: ts, Hand: h, Handedness: hd}
}

// wristFrame builds a fused hand+pose frame for wrist-family tests: the pose
// carries the elbow and wrist for the given side, the hand carries the
// reference landmarks placed at ref.
func wristFrame(ts int64, side landmark.Handedness, elbow, wrist, ref landmark.Point) *landmark.Frame {
	pose := &landmark.Pose{}
	pose.Points[landmark.ElbowIndex(side)] = elbow
	pose.Points[landmark.WristIndex(side)] = wrist

	hand := straightHand()
	hand.Points[landmark.MiddleMCP] = ref
	hand.Points[landmark.ThumbCMC] = ref
	hand.Points[landmark.IndexMCP] = ref

	return &landmark.Frame{Timestamp: ts, Hand: hand, Pose: pose, Handedness: side}
}
