package rom

// Config holds the measurement thresholds for a session.
//
// The numeric defaults were chosen empirically, not from a cited clinical
// validation study; keep them overridable and flag changes for clinical
// sign-off rather than assuming the values are correct.
type Config struct {
	// MinVisibility is the per-point confidence gate (0.0-1.0).
	// Points below it are treated as missing.
	MinVisibility float64

	// VisibilityBypassRatio is the fraction of frames a metric's landmarks
	// must be visible for the quality gate to trust the metric outright.
	VisibilityBypassRatio float64

	// QualityThreshold is the minimum quality score for a metric to be
	// included in the session result. Metrics below it are nulled, never
	// reported as zero.
	QualityThreshold float64

	// ArtifactThreshold is the maximum deviation in degrees from the rolling
	// median before a single-frame value is treated as an occlusion artifact.
	ArtifactThreshold float64

	// QualityWindow is the rolling-median window used for the
	// frame-to-frame consistency check.
	QualityWindow int

	// MedianWindow is the odd window length of the optional moving-median
	// smoother applied to wrist-family angles. Values below 3 disable it.
	MedianWindow int

	// KapandjiProximity is the thumb-tip to target distance, in hand-scale
	// units (wrist to middle MCP = 1.0), below which a rung counts as reached.
	KapandjiProximity float64

	// HandednessGraceFrames is how many initial frames may pass without a
	// confident handedness before the session is considered ambiguous.
	HandednessGraceFrames int

	// MinFrames is the minimum frame count for a complete recording.
	// Sessions below it finalize with Incomplete set.
	MinFrames int
}

// DefaultConfig returns a Config with the station's default thresholds.
func DefaultConfig() Config {
	return Config{
		MinVisibility:         0.7,
		VisibilityBypassRatio: 0.8,
		QualityThreshold:      0.7,
		ArtifactThreshold:     30.0,
		QualityWindow:         7,
		MedianWindow:          0,
		KapandjiProximity:     0.15,
		HandednessGraceFrames: 30,
		MinFrames:             60,
	}
}
