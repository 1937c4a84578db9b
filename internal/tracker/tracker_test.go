package tracker

import (
	"testing"

	"github.com/sreevidya/handrom/internal/landmark"
)

func jsonHandAt(x float64, label string, score float64) jsonHand {
	h := jsonHand{Handedness: label, Score: score}
	for i := 0; i < landmark.NumHandLandmarks; i++ {
		h.Points = append(h.Points, jsonPoint{X: x, Y: float64(i) * 0.01})
	}
	return h
}

func TestMediaPipeTracker_ToFrame_KeepsBestHand(t *testing.T) {
	tr := &MediaPipeTracker{config: DefaultConfig()}

	frame := tr.toFrame(42, []jsonHand{
		jsonHandAt(0.2, "Left", 0.6),
		jsonHandAt(0.8, "Right", 0.9),
	}, nil)

	if frame.Timestamp != 42 {
		t.Errorf("timestamp = %d, want 42", frame.Timestamp)
	}
	if frame.Hand == nil {
		t.Fatal("expected a hand")
	}
	if frame.Hand.Points[landmark.Wrist].X != 0.8 {
		t.Errorf("kept hand x = %f, want the higher-scoring 0.8", frame.Hand.Points[landmark.Wrist].X)
	}
	if frame.Handedness != landmark.HandRight {
		t.Errorf("handedness = %s, want right", frame.Handedness)
	}
}

func TestMediaPipeTracker_ToFrame_LowScoreHandedness(t *testing.T) {
	tr := &MediaPipeTracker{config: DefaultConfig()}

	frame := tr.toFrame(0, []jsonHand{jsonHandAt(0.5, "Left", 0.2)}, nil)

	if frame.Hand == nil {
		t.Fatal("expected landmarks even below the confidence threshold")
	}
	if frame.Handedness != landmark.HandUnknown {
		t.Errorf("handedness = %s, want unknown below the confidence threshold", frame.Handedness)
	}
}

func TestMediaPipeTracker_ToFrame_NoDetections(t *testing.T) {
	tr := &MediaPipeTracker{config: DefaultConfig()}

	frame := tr.toFrame(7, nil, nil)
	if frame.Hand != nil || frame.Pose != nil {
		t.Errorf("frame = %+v, want empty observation", frame)
	}
	if frame.Handedness != landmark.HandUnknown {
		t.Errorf("handedness = %s, want unknown", frame.Handedness)
	}
}

func TestMediaPipeTracker_ToFrame_PoseVisibility(t *testing.T) {
	tr := &MediaPipeTracker{config: DefaultConfig()}

	vis := 0.4
	pose := make([]jsonPoint, landmark.NumPoseLandmarks)
	for i := range pose {
		pose[i] = jsonPoint{X: 0.1, Visibility: &vis}
	}

	frame := tr.toFrame(0, nil, pose)
	if frame.Pose == nil {
		t.Fatal("expected pose landmarks")
	}
	if got := frame.Pose.Points[landmark.PoseLeftElbow].Visibility; got != 0.4 {
		t.Errorf("visibility = %f, want 0.4 carried through", got)
	}
}

func TestParseHandedness(t *testing.T) {
	tests := []struct {
		label string
		want  landmark.Handedness
	}{
		{"Left", landmark.HandLeft},
		{"right", landmark.HandRight},
		{"", landmark.HandUnknown},
		{"both", landmark.HandUnknown},
	}
	for _, tt := range tests {
		if got := parseHandedness(tt.label); got != tt.want {
			t.Errorf("parseHandedness(%q) = %s, want %s", tt.label, got, tt.want)
		}
	}
}

func TestMockTracker_CopiesPreset(t *testing.T) {
	m := NewMockTracker()
	m.SetFrame(OpenHandFrame(0, landmark.HandRight))

	first, err := m.Detect(nil, 10)
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	first.Hand.Points[landmark.Wrist].X = 99

	second, _ := m.Detect(nil, 20)
	if second.Hand.Points[landmark.Wrist].X == 99 {
		t.Error("Detect() shares hand storage between calls")
	}
	if second.Timestamp != 20 {
		t.Errorf("timestamp = %d, want 20", second.Timestamp)
	}
}

func TestPresetFrames_Geometry(t *testing.T) {
	open := OpenHandFrame(0, landmark.HandLeft)
	if open.Hand == nil || open.Handedness != landmark.HandLeft {
		t.Fatalf("open frame = %+v", open)
	}

	fist := FistFrame(0, landmark.HandRight)
	if fist.Hand.Points[landmark.IndexTip] == open.Hand.Points[landmark.IndexTip] {
		t.Error("fist preset left the index finger straight")
	}

	arm := ArmFrame(0, landmark.HandRight)
	if arm.Pose == nil {
		t.Fatal("arm frame missing pose landmarks")
	}
	if arm.Pose.Points[landmark.PoseRightWrist].Visibility != 1.0 {
		t.Error("arm frame wrist not visible")
	}
}
