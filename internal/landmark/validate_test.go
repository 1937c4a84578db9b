package landmark

import (
	"encoding/json"
	"errors"
	"testing"
)

func fullHand(visibility float64) *Hand {
	h := &Hand{}
	for i := range h.Points {
		h.Points[i] = Point{X: float64(i) * 0.01, Y: 0.5, Z: 0, Visibility: visibility}
	}
	return h
}

func TestValidate_NoHand(t *testing.T) {
	_, err := Validate(&Frame{Timestamp: 100}, 0.7)
	if !errors.Is(err, ErrInsufficientLandmarks) {
		t.Errorf("error = %v, want ErrInsufficientLandmarks", err)
	}

	_, err = Validate(nil, 0.7)
	if !errors.Is(err, ErrInsufficientLandmarks) {
		t.Errorf("error = %v, want ErrInsufficientLandmarks for nil frame", err)
	}
}

func TestValidate_AllVisible(t *testing.T) {
	f := &Frame{Timestamp: 100, Hand: fullHand(0.9), Handedness: HandLeft}

	vf, err := Validate(f, 0.7)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	for i, present := range vf.Hand.Present {
		if !present {
			t.Errorf("landmark %d marked missing at visibility 0.9", i)
		}
	}
	if vf.Timestamp != 100 || vf.Handedness != HandLeft {
		t.Errorf("frame metadata not carried: %+v", vf)
	}
}

func TestValidate_LowConfidenceMarkedMissingNotZeroed(t *testing.T) {
	h := fullHand(0.9)
	h.Points[IndexTip] = Point{X: 0.42, Y: 0.13, Z: 0.05, Visibility: 0.3}
	f := &Frame{Hand: h}

	vf, err := Validate(f, 0.7)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if vf.Hand.Present[IndexTip] {
		t.Error("low-confidence point not marked missing")
	}
	// Coordinates are kept, not zeroed.
	if vf.Hand.Points[IndexTip].X != 0.42 {
		t.Errorf("coordinates zeroed: %+v", vf.Hand.Points[IndexTip])
	}
	if !vf.Hand.Have(Wrist, MiddleMCP) {
		t.Error("unrelated landmarks affected")
	}
	if vf.Hand.Have(Wrist, IndexTip) {
		t.Error("Have() ignored a missing landmark")
	}
}

func TestValidate_ThresholdBoundary(t *testing.T) {
	// A point exactly at the threshold passes the gate.
	h := fullHand(0.7)
	vf, err := Validate(&Frame{Hand: h}, 0.7)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !vf.Hand.Present[Wrist] {
		t.Error("visibility exactly at threshold rejected")
	}
}

func TestValidate_PosePresence(t *testing.T) {
	pose := &Pose{}
	for i := range pose.Points {
		pose.Points[i] = Point{Visibility: 0.9}
	}
	pose.Points[PoseLeftElbow].Visibility = 0.1

	f := &Frame{Hand: fullHand(0.9), Pose: pose}
	vf, err := Validate(f, 0.7)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if vf.PoseHave(PoseLeftElbow, PoseLeftWrist) {
		t.Error("PoseHave() ignored an occluded elbow")
	}
	if !vf.PoseHave(PoseRightElbow, PoseRightWrist) {
		t.Error("visible pose landmarks reported missing")
	}
}

func TestValidate_NoPose(t *testing.T) {
	vf, err := Validate(&Frame{Hand: fullHand(0.9)}, 0.7)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if vf.PoseHave(PoseRightWrist) {
		t.Error("PoseHave() true without pose landmarks")
	}
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	h := fullHand(0.9)
	f := &Frame{Hand: h}

	vf, _ := Validate(f, 0.7)
	vf.Hand.Points[Wrist].X = 99

	if h.Points[Wrist].X == 99 {
		t.Error("Validate() shares storage with the input frame")
	}
}

func TestPoint_UnmarshalJSON_DefaultVisibility(t *testing.T) {
	// Hand landmarks omit visibility; absent means fully trusted.
	var p Point
	if err := json.Unmarshal([]byte(`{"x":0.1,"y":0.2,"z":0.3}`), &p); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}
	if p.Visibility != 1.0 {
		t.Errorf("visibility = %f, want 1.0 when absent", p.Visibility)
	}

	if err := json.Unmarshal([]byte(`{"x":0.1,"y":0.2,"z":0.3,"visibility":0.4}`), &p); err != nil {
		t.Fatalf("unmarshal error = %v", err)
	}
	if p.Visibility != 0.4 {
		t.Errorf("visibility = %f, want 0.4", p.Visibility)
	}
}
