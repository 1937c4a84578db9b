package rom

import "math"

// Quality is the resolved confidence for one metric at session finalize.
type Quality struct {
	// Score is 1.0 when the metric was bypassed, otherwise a validated
	// score in [0.3, 0.9].
	Score float64 `json:"score"`
	// Bypassed means the metric's landmarks were visible often enough that
	// its values were trusted outright, with no artifact filtering.
	Bypassed bool `json:"bypassed"`
	// Accepted means the score met the acceptance threshold; rejected
	// metrics are nulled in the result, never reported as zero.
	Accepted bool `json:"accepted"`
}

// metricState tracks one metric's visibility history and frame-to-frame
// consistency across a session.
type metricState struct {
	total      int
	visible    int
	checked    int
	consistent int
	window     []float64
}

// QualityGate assigns per-metric quality scores from visibility history and
// frame-to-frame consistency.
//
// A metric whose landmarks were visible in at least the bypass ratio of
// frames is trusted outright: robustly visible fingers must not be penalized
// by artifact heuristics tuned for occlusion. Below the ratio, values are
// checked against a rolling median; single-frame deviations beyond the
// artifact threshold count as suspect.
type QualityGate struct {
	cfg     Config
	metrics map[Metric]*metricState
}

// NewQualityGate creates a QualityGate with the given thresholds.
func NewQualityGate(cfg Config) *QualityGate {
	return &QualityGate{
		cfg:     cfg,
		metrics: make(map[Metric]*metricState),
	}
}

func (g *QualityGate) state(m Metric) *metricState {
	st, ok := g.metrics[m]
	if !ok {
		st = &metricState{}
		g.metrics[m] = st
	}
	return st
}

// Observe records one frame's outcome for a metric. visible is false when the
// metric's landmarks failed the confidence gate this frame; value is ignored
// in that case.
//
// The return value reports whether the value is consistent with the metric's
// recent history and safe to fold into session maxima. Suspect spikes return
// false so a single occluded frame cannot inflate a maximum.
func (g *QualityGate) Observe(m Metric, value float64, visible bool) bool {
	st := g.state(m)
	st.total++

	if !visible {
		return false
	}
	st.visible++

	consistent := true
	if len(st.window) >= 3 {
		st.checked++
		if math.Abs(value-median(st.window)) > g.cfg.ArtifactThreshold {
			consistent = false
		} else {
			st.consistent++
		}
	}

	if len(st.window) == g.cfg.QualityWindow {
		copy(st.window, st.window[1:])
		st.window = st.window[:g.cfg.QualityWindow-1]
	}
	st.window = append(st.window, value)

	return consistent
}

// VisibilityRatio returns the fraction of observed frames in which the
// metric's landmarks were visible.
func (g *QualityGate) VisibilityRatio(m Metric) float64 {
	st := g.state(m)
	if st.total == 0 {
		return 0
	}
	return float64(st.visible) / float64(st.total)
}

// Bypassed reports whether the metric currently qualifies for bypass, in
// which case its values are folded into maxima unconditionally.
func (g *QualityGate) Bypassed(m Metric) bool {
	return g.VisibilityRatio(m) >= g.cfg.VisibilityBypassRatio
}

// Score resolves a metric's final quality.
func (g *QualityGate) Score(m Metric) Quality {
	st := g.state(m)

	if st.total == 0 || st.visible == 0 {
		return Quality{Score: 0, Bypassed: false, Accepted: false}
	}

	if g.Bypassed(m) {
		return Quality{Score: 1.0, Bypassed: true, Accepted: true}
	}

	fraction := 1.0
	if st.checked > 0 {
		fraction = float64(st.consistent) / float64(st.checked)
	}
	score := clamp(0.3+0.6*fraction, 0.3, 0.9)

	return Quality{
		Score:    score,
		Bypassed: false,
		Accepted: score >= g.cfg.QualityThreshold,
	}
}

// Metrics returns every metric the gate has observed.
func (g *QualityGate) Metrics() []Metric {
	out := make([]Metric, 0, len(g.metrics))
	for m := range g.metrics {
		out = append(out, m)
	}
	return out
}
