// Package landmark provides hand and pose landmark types for ROM assessment.
package landmark

import "encoding/json"

// Hand landmark indices following MediaPipe convention.
// See: https://developers.google.com/mediapipe/solutions/vision/hand_landmarker
const (
	Wrist            = 0
	ThumbCMC         = 1
	ThumbMCP         = 2
	ThumbIP          = 3
	ThumbTip         = 4
	IndexMCP         = 5
	IndexPIP         = 6
	IndexDIP         = 7
	IndexTip         = 8
	MiddleMCP        = 9
	MiddlePIP        = 10
	MiddleDIP        = 11
	MiddleTip        = 12
	RingMCP          = 13
	RingPIP          = 14
	RingDIP          = 15
	RingTip          = 16
	PinkyMCP         = 17
	PinkyPIP         = 18
	PinkyDIP         = 19
	PinkyTip         = 20
	NumHandLandmarks = 21
)

// Pose landmark indices following the MediaPipe pose convention.
// Only the upper-limb subset used for wrist and forearm angles is named.
// See: https://developers.google.com/mediapipe/solutions/vision/pose_landmarker
const (
	PoseLeftShoulder  = 11
	PoseRightShoulder = 12
	PoseLeftElbow     = 13
	PoseRightElbow    = 14
	PoseLeftWrist     = 15
	PoseRightWrist    = 16
	NumPoseLandmarks  = 33
)

// Handedness identifies which hand an observation belongs to.
type Handedness string

const (
	// HandUnknown means the tracker could not determine handedness.
	HandUnknown Handedness = "unknown"
	// HandLeft is the subject's left hand.
	HandLeft Handedness = "left"
	// HandRight is the subject's right hand.
	HandRight Handedness = "right"
)

// Point represents a tracked 3D point with the detector's confidence
// that it is correctly located. A visibility of 1.0 means fully trusted.
type Point struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Z          float64 `json:"z"`
	Visibility float64 `json:"visibility"`
}

// UnmarshalJSON decodes a point, treating an absent visibility field as
// fully trusted (1.0). MediaPipe hand landmarks omit visibility entirely
// while pose landmarks carry it.
func (p *Point) UnmarshalJSON(data []byte) error {
	var raw struct {
		X          float64  `json:"x"`
		Y          float64  `json:"y"`
		Z          float64  `json:"z"`
		Visibility *float64 `json:"visibility"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.X = raw.X
	p.Y = raw.Y
	p.Z = raw.Z
	if raw.Visibility != nil {
		p.Visibility = *raw.Visibility
	} else {
		p.Visibility = 1.0
	}
	return nil
}

// Hand represents the 21 hand landmarks reported by the tracker for one frame.
type Hand struct {
	Points [NumHandLandmarks]Point `json:"points"`
}

// Pose represents the 33 body pose landmarks reported by the tracker.
type Pose struct {
	Points [NumPoseLandmarks]Point `json:"points"`
}

// Frame is one raw observation from the vision tracker.
// Hand and Pose are nil when the tracker found nothing this frame.
type Frame struct {
	Timestamp  int64      `json:"timestamp"`
	Hand       *Hand      `json:"hand,omitempty"`
	Pose       *Pose      `json:"pose,omitempty"`
	Handedness Handedness `json:"handedness"`
}

// ElbowIndex returns the pose landmark index of the elbow for the given side.
func ElbowIndex(h Handedness) int {
	if h == HandLeft {
		return PoseLeftElbow
	}
	return PoseRightElbow
}

// WristIndex returns the pose landmark index of the wrist for the given side.
func WristIndex(h Handedness) int {
	if h == HandLeft {
		return PoseLeftWrist
	}
	return PoseRightWrist
}
