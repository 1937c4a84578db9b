package rom

import "fmt"

// AssessmentKind selects which calculators a session runs. It is chosen once
// at session creation and carried explicitly, never re-derived from display
// names mid-pipeline.
type AssessmentKind string

const (
	// AssessTAM measures per-finger joint angles and total active motion.
	AssessTAM AssessmentKind = "tam"
	// AssessKapandji measures the thumb-opposition rung.
	AssessKapandji AssessmentKind = "kapandji"
	// AssessWristFlexExt measures signed wrist flexion/extension.
	AssessWristFlexExt AssessmentKind = "wrist_flexion_extension"
	// AssessForearmRotation measures forearm pronation/supination.
	AssessForearmRotation AssessmentKind = "forearm_rotation"
	// AssessRadialUlnar measures radial/ulnar wrist deviation.
	AssessRadialUlnar AssessmentKind = "radial_ulnar_deviation"
)

// ParseAssessmentKind parses a kind string as used in the API and the store.
func ParseAssessmentKind(s string) (AssessmentKind, error) {
	switch AssessmentKind(s) {
	case AssessTAM, AssessKapandji, AssessWristFlexExt, AssessForearmRotation, AssessRadialUlnar:
		return AssessmentKind(s), nil
	}
	return "", fmt.Errorf("unknown assessment kind %q", s)
}

// Metric identifies one quality-gated measurement within a session.
type Metric string

const (
	// MetricKapandji is the thumb-opposition rung.
	MetricKapandji Metric = "kapandji"
	// MetricWristFlexExt is the signed flexion/extension angle.
	MetricWristFlexExt Metric = "wrist_flexion_extension"
	// MetricForearmRotation is the signed pronation/supination angle.
	MetricForearmRotation Metric = "forearm_rotation"
	// MetricRadialUlnar is the signed deviation angle.
	MetricRadialUlnar Metric = "radial_ulnar_deviation"
)

// TAMMetric returns the quality metric for one finger's total active motion.
func TAMMetric(f Finger) Metric {
	return Metric("tam_" + string(f))
}

// AngleSample is one computed measurement for one frame, suitable for live
// feedback while a recording is in progress.
type AngleSample struct {
	Metric    Metric  `json:"metric"`
	Finger    Finger  `json:"finger,omitempty"`
	Value     float64 `json:"value"`
	Timestamp int64   `json:"timestamp"`
}
