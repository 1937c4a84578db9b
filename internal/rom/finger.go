package rom

import "github.com/sreevidya/handrom/internal/landmark"

// Finger identifies one of the four fingers measured for joint angles.
// The thumb is scored separately via the Kapandji ladder.
type Finger string

const (
	FingerIndex  Finger = "index"
	FingerMiddle Finger = "middle"
	FingerRing   Finger = "ring"
	FingerPinky  Finger = "pinky"
)

// Fingers lists the measured fingers in anatomical order.
var Fingers = []Finger{FingerIndex, FingerMiddle, FingerRing, FingerPinky}

// fingerJoints returns the MCP, PIP, DIP and tip landmark indices for a finger.
func fingerJoints(f Finger) (mcp, pip, dip, tip int) {
	switch f {
	case FingerIndex:
		return landmark.IndexMCP, landmark.IndexPIP, landmark.IndexDIP, landmark.IndexTip
	case FingerMiddle:
		return landmark.MiddleMCP, landmark.MiddlePIP, landmark.MiddleDIP, landmark.MiddleTip
	case FingerRing:
		return landmark.RingMCP, landmark.RingPIP, landmark.RingDIP, landmark.RingTip
	default:
		return landmark.PinkyMCP, landmark.PinkyPIP, landmark.PinkyDIP, landmark.PinkyTip
	}
}

// FingerAngles holds one finger's flexion angles for a single frame.
//
// Convention: each joint angle is the angle between the incoming and outgoing
// bone direction vectors, so 0° is fully extended (segments collinear) and
// larger values mean more flexion. TotalActiveROM is the sum of the three.
type FingerAngles struct {
	MCP            float64 `json:"mcp"`
	PIP            float64 `json:"pip"`
	DIP            float64 `json:"dip"`
	TotalActiveROM float64 `json:"totalActiveRom"`
}

// JointAngles computes the MCP/PIP/DIP flexion angles and total active motion
// for one finger. It returns ok=false when any required landmark failed the
// confidence gate this frame.
func JointAngles(h *landmark.ValidHand, f Finger) (FingerAngles, bool) {
	mcp, pip, dip, tip := fingerJoints(f)

	if !h.Have(landmark.Wrist, mcp, pip, dip, tip) {
		return FingerAngles{}, false
	}

	// Bone direction vectors, proximal to distal.
	b0 := sub(h.Points[mcp], h.Points[landmark.Wrist])
	b1 := sub(h.Points[pip], h.Points[mcp])
	b2 := sub(h.Points[dip], h.Points[pip])
	b3 := sub(h.Points[tip], h.Points[dip])

	a := FingerAngles{
		MCP: angleDeg(b0, b1),
		PIP: angleDeg(b1, b2),
		DIP: angleDeg(b2, b3),
	}
	a.TotalActiveROM = a.MCP + a.PIP + a.DIP
	return a, true
}
