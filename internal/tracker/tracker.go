// Package tracker bridges external vision trackers into landmark frames for
// the measurement engine. The engine never detects hands itself; everything
// behind this interface is an external collaborator.
package tracker

import (
	"gocv.io/x/gocv"

	"github.com/sreevidya/handrom/internal/landmark"
)

// Tracker defines the interface for landmark tracker implementations.
type Tracker interface {
	// Detect analyzes a video frame and returns the landmark observation
	// for it. The returned frame has a nil Hand when no hand was found.
	Detect(frame *gocv.Mat, timestamp int64) (*landmark.Frame, error)

	// Close releases any resources held by the tracker.
	Close() error
}

// Config holds configuration options for landmark tracking.
type Config struct {
	// MinConfidence is the minimum detection confidence threshold (0.0-1.0).
	MinConfidence float64

	// MinTrackingConf is the minimum tracking confidence threshold (0.0-1.0).
	MinTrackingConf float64

	// WithPose requests body pose landmarks alongside the hand, needed for
	// wrist and forearm assessments.
	WithPose bool
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() Config {
	return Config{
		MinConfidence:   0.5,
		MinTrackingConf: 0.5,
		WithPose:        true,
	}
}
