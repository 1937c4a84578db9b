package capture

import (
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// PresenceDetector decides whether a subject is in front of the station
// camera by frame differencing with Gaussian blur for noise reduction.
// The app uses it to hold off recording until a hand actually appears and
// to skip the landmark tracker on an idle scene.
type PresenceDetector struct {
	threshold   float64
	prevGray    gocv.Mat
	initialized bool
	mu          sync.Mutex
}

const (
	// blurKernelSize is the kernel size for Gaussian blur (21x21).
	blurKernelSize = 21
	// diffThreshold is the binary threshold for difference detection.
	diffThreshold = 25
)

// NewPresenceDetector creates a new PresenceDetector with the given threshold.
// The threshold is the percentage of pixels that must change between frames
// to report activity; 1.0 means 1% of pixels.
func NewPresenceDetector(threshold float64) *PresenceDetector {
	return &PresenceDetector{
		threshold: threshold,
		prevGray:  gocv.NewMat(),
	}
}

// Detect compares a frame against the previous one and reports whether the
// scene is active, together with the percentage of pixels that changed.
// The first frame establishes the baseline and always reports inactive.
func (p *PresenceDetector) Detect(frame *gocv.Mat) (bool, float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if frame == nil || frame.Empty() {
		return false, 0
	}

	gray := gocv.NewMat()
	defer gray.Close()

	if frame.Channels() > 1 {
		gocv.CvtColor(*frame, &gray, gocv.ColorBGRToGray)
	} else {
		frame.CopyTo(&gray)
	}

	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(gray, &blurred, image.Point{X: blurKernelSize, Y: blurKernelSize}, 0, 0, gocv.BorderDefault)

	if !p.initialized {
		blurred.CopyTo(&p.prevGray)
		p.initialized = true
		return false, 0
	}

	diff := gocv.NewMat()
	defer diff.Close()
	gocv.AbsDiff(blurred, p.prevGray, &diff)

	thresh := gocv.NewMat()
	defer thresh.Close()
	gocv.Threshold(diff, &thresh, diffThreshold, 255, gocv.ThresholdBinary)

	nonZero := gocv.CountNonZero(thresh)
	totalPixels := thresh.Rows() * thresh.Cols()

	changePercent := float64(nonZero) / float64(totalPixels) * 100.0

	blurred.CopyTo(&p.prevGray)

	return changePercent > p.threshold, changePercent
}

// Reset clears the detector state so the next frame becomes a new baseline.
func (p *PresenceDetector) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.prevGray.Empty() {
		p.prevGray.Close()
		p.prevGray = gocv.NewMat()
	}
	p.initialized = false
}

// Close releases resources used by the detector.
func (p *PresenceDetector) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.prevGray.Empty() {
		p.prevGray.Close()
		p.prevGray = gocv.NewMat()
	}
	p.initialized = false
}

// SetThreshold sets the activity threshold as a pixel-change percentage.
// Values less than or equal to 0 are ignored.
func (p *PresenceDetector) SetThreshold(threshold float64) {
	if threshold <= 0 {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.threshold = threshold
}
