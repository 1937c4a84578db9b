package tracker

import (
	"gocv.io/x/gocv"

	"github.com/sreevidya/handrom/internal/landmark"
)

// MockTracker is a test implementation of the Tracker interface.
// It allows tests to control the observation results.
type MockTracker struct {
	frame *landmark.Frame
	err   error
}

// NewMockTracker creates a new MockTracker instance.
func NewMockTracker() *MockTracker {
	return &MockTracker{}
}

// SetFrame sets the observation that will be returned by Detect.
// The timestamp of the returned frame is overwritten per call.
func (m *MockTracker) SetFrame(frame *landmark.Frame) {
	m.frame = frame
}

// SetError sets the error that will be returned by Detect.
func (m *MockTracker) SetError(err error) {
	m.err = err
}

// Detect returns the pre-configured observation or error.
func (m *MockTracker) Detect(frame *gocv.Mat, timestamp int64) (*landmark.Frame, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.frame == nil {
		return &landmark.Frame{Timestamp: timestamp, Handedness: landmark.HandUnknown}, nil
	}
	out := *m.frame
	if m.frame.Hand != nil {
		hand := *m.frame.Hand
		out.Hand = &hand
	}
	if m.frame.Pose != nil {
		pose := *m.frame.Pose
		out.Pose = &pose
	}
	out.Timestamp = timestamp
	return &out, nil
}

// Close is a no-op for the mock tracker.
func (m *MockTracker) Close() error {
	return nil
}

func mockPoint(x, y, z float64) landmark.Point {
	return landmark.Point{X: x, Y: y, Z: z, Visibility: 1.0}
}

// OpenHandFrame returns a preset observation of an open hand with all four
// fingers straight, so every finger measures near zero flexion.
func OpenHandFrame(timestamp int64, handedness landmark.Handedness) *landmark.Frame {
	hand := &landmark.Hand{}
	hand.Points[landmark.Wrist] = mockPoint(0.5, 0.9, 0)

	hand.Points[landmark.ThumbCMC] = mockPoint(0.58, 0.85, 0)
	hand.Points[landmark.ThumbMCP] = mockPoint(0.66, 0.80, 0)
	hand.Points[landmark.ThumbIP] = mockPoint(0.72, 0.76, 0)
	hand.Points[landmark.ThumbTip] = mockPoint(0.78, 0.72, 0)

	chains := []struct {
		mcp, pip, dip, tip int
		x                  float64
	}{
		{landmark.IndexMCP, landmark.IndexPIP, landmark.IndexDIP, landmark.IndexTip, 0.62},
		{landmark.MiddleMCP, landmark.MiddlePIP, landmark.MiddleDIP, landmark.MiddleTip, 0.50},
		{landmark.RingMCP, landmark.RingPIP, landmark.RingDIP, landmark.RingTip, 0.38},
		{landmark.PinkyMCP, landmark.PinkyPIP, landmark.PinkyDIP, landmark.PinkyTip, 0.26},
	}
	for _, c := range chains {
		dx := (c.x - 0.5) / 4
		hand.Points[c.mcp] = mockPoint(0.5+dx, 0.70, 0)
		hand.Points[c.pip] = mockPoint(0.5+1.5*dx, 0.60, 0)
		hand.Points[c.dip] = mockPoint(0.5+1.8*dx, 0.54, 0)
		hand.Points[c.tip] = mockPoint(0.5+2*dx, 0.50, 0)
	}

	return &landmark.Frame{Timestamp: timestamp, Hand: hand, Handedness: handedness}
}

// FistFrame returns a preset observation with all four fingers bent ninety
// degrees at the PIP joint, out of the palm plane.
func FistFrame(timestamp int64, handedness landmark.Handedness) *landmark.Frame {
	f := OpenHandFrame(timestamp, handedness)
	joints := [][4]int{
		{landmark.IndexMCP, landmark.IndexPIP, landmark.IndexDIP, landmark.IndexTip},
		{landmark.MiddleMCP, landmark.MiddlePIP, landmark.MiddleDIP, landmark.MiddleTip},
		{landmark.RingMCP, landmark.RingPIP, landmark.RingDIP, landmark.RingTip},
		{landmark.PinkyMCP, landmark.PinkyPIP, landmark.PinkyDIP, landmark.PinkyTip},
	}
	for _, j := range joints {
		pip := f.Hand.Points[j[1]]
		f.Hand.Points[j[2]] = mockPoint(pip.X, pip.Y, pip.Z+0.05)
		f.Hand.Points[j[3]] = mockPoint(pip.X, pip.Y, pip.Z+0.10)
	}
	return f
}

// ArmFrame returns a preset observation carrying pose landmarks for the
// given side, placed so the wrist assessments see a flexed posture.
func ArmFrame(timestamp int64, handedness landmark.Handedness) *landmark.Frame {
	f := OpenHandFrame(timestamp, handedness)

	pose := &landmark.Pose{}
	pose.Points[landmark.ElbowIndex(handedness)] = mockPoint(0.1, 0.3, 0)
	pose.Points[landmark.WristIndex(handedness)] = mockPoint(0.2, 0.5, 0)
	f.Pose = pose

	ref := mockPoint(0.18, 0.45, 0.15)
	f.Hand.Points[landmark.MiddleMCP] = ref
	f.Hand.Points[landmark.ThumbCMC] = ref
	f.Hand.Points[landmark.IndexMCP] = ref

	return f
}
