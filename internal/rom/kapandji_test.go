package rom

import (
	"testing"

	"github.com/sreevidya/handrom/internal/landmark"
)

func thumbAt(h *landmark.Hand, target landmark.Point) {
	h.Points[landmark.ThumbTip] = target
}

func TestKapandjiRung_TargetLadder(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name   string
		target int
		want   int
	}{
		{"IndexProximalPhalanx", landmark.IndexPIP, 1},
		{"IndexTip", landmark.IndexTip, 3},
		{"MiddleTip", landmark.MiddleTip, 4},
		{"RingTip", landmark.RingTip, 5},
		{"PinkyTip", landmark.PinkyTip, 6},
		{"PinkyProximalCrease", landmark.PinkyPIP, 8},
		{"PalmarCrease", landmark.PinkyMCP, 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := straightHand()
			thumbAt(h, h.Points[tt.target])

			rung, ok := KapandjiRung(validHand(h), cfg.KapandjiProximity)
			if !ok {
				t.Fatal("expected a scored frame")
			}
			if rung != tt.want {
				t.Errorf("rung = %d, want %d", rung, tt.want)
			}
		})
	}
}

func TestKapandjiRung_DistalPalmarCrease(t *testing.T) {
	// Rung 10 is the midpoint between the pinky MCP and the wrist.
	h := straightHand()
	p, w := h.Points[landmark.PinkyMCP], h.Points[landmark.Wrist]
	thumbAt(h, pt((p.X+w.X)/2, (p.Y+w.Y)/2, (p.Z+w.Z)/2))

	rung, ok := KapandjiRung(validHand(h), DefaultConfig().KapandjiProximity)
	if !ok {
		t.Fatal("expected a scored frame")
	}
	if rung != 10 {
		t.Errorf("rung = %d, want 10", rung)
	}
}

func TestKapandjiRung_NoTargetReached(t *testing.T) {
	// Thumb far from every target on the radial border.
	h := straightHand()
	thumbAt(h, pt(0.95, 0.1, 0))

	rung, ok := KapandjiRung(validHand(h), DefaultConfig().KapandjiProximity)
	if !ok {
		t.Fatal("expected a scored frame")
	}
	if rung != 0 {
		t.Errorf("rung = %d, want 0", rung)
	}
}

func TestKapandjiRung_ScaleInvariant(t *testing.T) {
	// The same pose twice as far from the camera scores the same rung.
	near := straightHand()
	thumbAt(near, near.Points[landmark.RingTip])

	far := &landmark.Hand{}
	for i, p := range near.Points {
		far.Points[i] = pt(p.X/2, p.Y/2, p.Z/2)
	}

	cfg := DefaultConfig()
	nearRung, ok1 := KapandjiRung(validHand(near), cfg.KapandjiProximity)
	farRung, ok2 := KapandjiRung(validHand(far), cfg.KapandjiProximity)
	if !ok1 || !ok2 {
		t.Fatal("expected scored frames")
	}
	if nearRung != farRung {
		t.Errorf("near rung %d != far rung %d", nearRung, farRung)
	}
}

func TestKapandjiRung_OccludedThumb(t *testing.T) {
	h := straightHand()
	h.Points[landmark.ThumbTip].Visibility = 0.1

	_, ok := KapandjiRung(validHand(h), DefaultConfig().KapandjiProximity)
	if ok {
		t.Error("expected ok=false when the thumb tip failed the gate")
	}
}
