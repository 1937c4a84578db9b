// Package rom implements the motion-derived range-of-motion measurement
// engine: per-finger joint angles and total active motion, the Kapandji
// thumb-opposition score, and signed wrist/forearm angles, with
// confidence-weighted temporal validation and ratchet session maxima.
package rom

import (
	"errors"

	"github.com/sreevidya/handrom/internal/landmark"
)

// State is the lifecycle state of a session.
type State string

const (
	// StateUnlocked means no confident handedness has been seen yet.
	StateUnlocked State = "unlocked"
	// StateRecording means the hand type is locked and frames are folding in.
	StateRecording State = "recording"
	// StateFinalized means the result snapshot has been taken. There is no
	// transition out of this state.
	StateFinalized State = "finalized"
)

// ErrSessionFinalized is returned when frames arrive after finalize.
var ErrSessionFinalized = errors.New("session already finalized")

// ratchet tracks a monotonically non-decreasing maximum at two trust tiers:
// one folding every observed value, one folding only values the quality gate
// found consistent. Which tier is reported depends on whether the metric ends
// the session bypassed.
type ratchet struct {
	all            float64
	consistent     float64
	seen           bool
	seenConsistent bool
}

func (r *ratchet) fold(v float64, ok bool) {
	if !r.seen || v > r.all {
		r.all = v
	}
	r.seen = true
	if ok {
		if !r.seenConsistent || v > r.consistent {
			r.consistent = v
		}
		r.seenConsistent = true
	}
}

func (r *ratchet) value(bypassed bool) (float64, bool) {
	if bypassed {
		return r.all, r.seen
	}
	return r.consistent, r.seenConsistent
}

// fingerMaxima ratchets one finger's joint angles and TAM independently.
type fingerMaxima struct {
	mcp, pip, dip, tam ratchet
}

func (fm *fingerMaxima) fold(a FingerAngles, ok bool) {
	fm.mcp.fold(a.MCP, ok)
	fm.pip.fold(a.PIP, ok)
	fm.dip.fold(a.DIP, ok)
	fm.tam.fold(a.TotalActiveROM, ok)
}

// Result is the immutable session snapshot emitted at finalize. Gated-out
// metrics are nil: a missing measurement is never conflated with a measured
// zero ROM.
type Result struct {
	Kind                   AssessmentKind           `json:"kind"`
	HandType               landmark.Handedness      `json:"handType"`
	PerFinger              map[Finger]*FingerAngles `json:"perFinger,omitempty"`
	KapandjiScore          *int                     `json:"kapandjiScore,omitempty"`
	WristFlexionAngle      *float64                 `json:"wristFlexionAngle,omitempty"`
	WristExtensionAngle    *float64                 `json:"wristExtensionAngle,omitempty"`
	ForearmPronationAngle  *float64                 `json:"forearmPronationAngle,omitempty"`
	ForearmSupinationAngle *float64                 `json:"forearmSupinationAngle,omitempty"`
	RadialDeviationAngle   *float64                 `json:"radialDeviationAngle,omitempty"`
	UlnarDeviationAngle    *float64                 `json:"ulnarDeviationAngle,omitempty"`
	Quality                map[Metric]Quality       `json:"quality"`
	FrameCount             int                      `json:"frameCount"`
	Repetitions            int                      `json:"repetitions"`
	Incomplete             bool                     `json:"isIncomplete"`
}

// Session owns all mutable measurement state for one bounded recording: the
// locked hand type, rolling quality and median buffers, and the running
// maxima. Two sessions never share state; the caller guarantees one active
// session per physical recording, so no locking discipline is needed.
type Session struct {
	kind      AssessmentKind
	cfg       Config
	state     State
	hand      landmark.Handedness
	graceLeft int
	frames    int
	reps      int

	gate    *QualityGate
	fingers map[Finger]*fingerMaxima

	flex, ext, pron, sup, radial, ulnar ratchet
	filter                              *MedianFilter

	kapandji     int
	kapandjiSeen bool
}

// NewSession creates a session for one assessment kind. The kind is fixed for
// the session's lifetime; it is never re-derived from display names.
func NewSession(kind AssessmentKind, cfg Config) *Session {
	s := &Session{
		kind:      kind,
		cfg:       cfg,
		state:     StateUnlocked,
		hand:      landmark.HandUnknown,
		graceLeft: cfg.HandednessGraceFrames,
		reps:      1,
		gate:      NewQualityGate(cfg),
		fingers:   make(map[Finger]*fingerMaxima),
		filter:    NewMedianFilter(cfg.MedianWindow),
	}
	for _, f := range Fingers {
		s.fingers[f] = &fingerMaxima{}
	}
	return s
}

// Kind returns the assessment kind chosen at session creation.
func (s *Session) Kind() AssessmentKind { return s.kind }

// State returns the session's lifecycle state.
func (s *Session) State() State { return s.state }

// Hand returns the locked hand type, or HandUnknown before locking.
func (s *Session) Hand() landmark.Handedness { return s.hand }

// FrameCount returns how many frames have been ingested, including skipped ones.
func (s *Session) FrameCount() int { return s.frames }

// Repetitions returns the number of recording repetitions so far.
func (s *Session) Repetitions() int { return s.reps }

// EndRepetition marks a repetition boundary. Maxima carry across repetitions
// (session maxima are the max across repetitions, never summed); only the
// median smoothing window is cleared so smoothing does not bridge the gap.
func (s *Session) EndRepetition() {
	if s.state == StateFinalized {
		return
	}
	s.reps++
	s.filter.Reset()
}

// ProcessFrame validates one raw frame and folds its measurements into the
// session. It returns the per-frame samples for live feedback. A frame with
// no usable hand returns ErrInsufficientLandmarks; such frames are skipped,
// not fatal, and lower the session's visibility ratios.
func (s *Session) ProcessFrame(f *landmark.Frame) ([]AngleSample, error) {
	if s.state == StateFinalized {
		return nil, ErrSessionFinalized
	}
	s.frames++

	// Hand identity locks at the first confident handedness and is held for
	// the rest of the session, regardless of per-frame disagreement.
	if s.state == StateUnlocked {
		if f != nil && f.Handedness != landmark.HandUnknown {
			s.hand = f.Handedness
			s.state = StateRecording
		} else if s.graceLeft > 0 {
			s.graceLeft--
		}
	}

	vf, err := landmark.Validate(f, s.cfg.MinVisibility)
	if err != nil {
		for _, m := range s.trackedMetrics() {
			s.gate.Observe(m, 0, false)
		}
		return nil, err
	}

	switch s.kind {
	case AssessTAM:
		return s.processTAM(vf), nil
	case AssessKapandji:
		return s.processKapandji(vf), nil
	default:
		return s.processWrist(vf), nil
	}
}

// trackedMetrics returns the metrics the session's kind gates.
func (s *Session) trackedMetrics() []Metric {
	switch s.kind {
	case AssessTAM:
		ms := make([]Metric, 0, len(Fingers))
		for _, f := range Fingers {
			ms = append(ms, TAMMetric(f))
		}
		return ms
	case AssessKapandji:
		return []Metric{MetricKapandji}
	case AssessWristFlexExt:
		return []Metric{MetricWristFlexExt}
	case AssessForearmRotation:
		return []Metric{MetricForearmRotation}
	default:
		return []Metric{MetricRadialUlnar}
	}
}

func (s *Session) processTAM(vf *landmark.ValidFrame) []AngleSample {
	var samples []AngleSample

	for _, f := range Fingers {
		angles, ok := JointAngles(&vf.Hand, f)
		consistent := s.gate.Observe(TAMMetric(f), angles.TotalActiveROM, ok)
		if !ok {
			continue
		}
		s.fingers[f].fold(angles, consistent)
		samples = append(samples, AngleSample{
			Metric:    TAMMetric(f),
			Finger:    f,
			Value:     angles.TotalActiveROM,
			Timestamp: vf.Timestamp,
		})
	}

	return samples
}

func (s *Session) processKapandji(vf *landmark.ValidFrame) []AngleSample {
	rung, ok := KapandjiRung(&vf.Hand, s.cfg.KapandjiProximity)
	s.gate.Observe(MetricKapandji, float64(rung), ok)
	if !ok {
		return nil
	}

	// Opposition is cumulative evidence of capability, not an instantaneous
	// state: the score only ever ratchets up.
	if rung > s.kapandji {
		s.kapandji = rung
	}
	s.kapandjiSeen = true

	return []AngleSample{{
		Metric:    MetricKapandji,
		Value:     float64(rung),
		Timestamp: vf.Timestamp,
	}}
}

func (s *Session) processWrist(vf *landmark.ValidFrame) []AngleSample {
	metric := s.trackedMetrics()[0]

	// Wrist-family angles need the locked side for elbow/wrist selection.
	if s.state != StateRecording {
		s.gate.Observe(metric, 0, false)
		return nil
	}

	wa := WristFamilyAngles(vf, s.hand)

	var value float64
	var visible bool
	switch s.kind {
	case AssessWristFlexExt:
		value, visible = wa.FlexExt, wa.FlexExtOK
	case AssessForearmRotation:
		value, visible = wa.Rotation, wa.RotationOK
	default:
		value, visible = wa.Deviation, wa.DeviationOK
	}

	if visible {
		value = s.filter.Apply(value)
	}

	consistent := s.gate.Observe(metric, value, visible)
	if !visible {
		return nil
	}

	pos, neg := s.ratchetsFor(s.kind)
	if value >= 0 {
		pos.fold(value, consistent)
	} else {
		neg.fold(-value, consistent)
	}

	return []AngleSample{{
		Metric:    metric,
		Value:     value,
		Timestamp: vf.Timestamp,
	}}
}

// ratchetsFor returns the positive-direction and negative-direction maxima
// for a wrist-family kind.
func (s *Session) ratchetsFor(kind AssessmentKind) (pos, neg *ratchet) {
	switch kind {
	case AssessWristFlexExt:
		return &s.flex, &s.ext
	case AssessForearmRotation:
		return &s.pron, &s.sup
	default:
		return &s.radial, &s.ulnar
	}
}

// Finalize takes the immutable result snapshot and seals the session. A
// cancelled recording still finalizes with whatever frames were collected;
// sessions below the minimum frame count, or without a handedness lock, are
// flagged incomplete rather than silently reported as valid.
func (s *Session) Finalize() *Result {
	s.state = StateFinalized

	res := &Result{
		Kind:        s.kind,
		HandType:    s.hand,
		Quality:     make(map[Metric]Quality),
		FrameCount:  s.frames,
		Repetitions: s.reps,
		Incomplete:  s.frames < s.cfg.MinFrames || s.hand == landmark.HandUnknown,
	}

	for _, m := range s.trackedMetrics() {
		res.Quality[m] = s.gate.Score(m)
	}

	switch s.kind {
	case AssessTAM:
		res.PerFinger = make(map[Finger]*FingerAngles)
		for _, f := range Fingers {
			q := res.Quality[TAMMetric(f)]
			fm := s.fingers[f]
			if !q.Accepted {
				res.PerFinger[f] = nil
				continue
			}
			mcp, ok1 := fm.mcp.value(q.Bypassed)
			pip, ok2 := fm.pip.value(q.Bypassed)
			dip, ok3 := fm.dip.value(q.Bypassed)
			tam, ok4 := fm.tam.value(q.Bypassed)
			if !(ok1 && ok2 && ok3 && ok4) {
				res.PerFinger[f] = nil
				continue
			}
			res.PerFinger[f] = &FingerAngles{MCP: mcp, PIP: pip, DIP: dip, TotalActiveROM: tam}
		}

	case AssessKapandji:
		if res.Quality[MetricKapandji].Accepted && s.kapandjiSeen {
			score := s.kapandji
			res.KapandjiScore = &score
		}

	case AssessWristFlexExt:
		q := res.Quality[MetricWristFlexExt]
		if q.Accepted {
			res.WristFlexionAngle = ratchetValue(&s.flex, q.Bypassed)
			res.WristExtensionAngle = ratchetValue(&s.ext, q.Bypassed)
		}

	case AssessForearmRotation:
		q := res.Quality[MetricForearmRotation]
		if q.Accepted {
			res.ForearmPronationAngle = ratchetValue(&s.pron, q.Bypassed)
			res.ForearmSupinationAngle = ratchetValue(&s.sup, q.Bypassed)
		}

	case AssessRadialUlnar:
		q := res.Quality[MetricRadialUlnar]
		if q.Accepted {
			res.RadialDeviationAngle = ratchetValue(&s.radial, q.Bypassed)
			res.UlnarDeviationAngle = ratchetValue(&s.ulnar, q.Bypassed)
		}
	}

	return res
}

func ratchetValue(r *ratchet, bypassed bool) *float64 {
	v, ok := r.value(bypassed)
	if !ok {
		return nil
	}
	return &v
}
