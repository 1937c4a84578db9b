package rom

import "github.com/sreevidya/handrom/internal/landmark"

// kapandjiLadder maps each opposition rung to the hand landmark standing in
// for its anatomical target on the radial border of the hand. Rung 10, the
// distal palmar crease, has no landmark of its own and is resolved as the
// midpoint between the pinky MCP and the wrist.
var kapandjiLadder = []int{
	landmark.IndexPIP,  // 1: index proximal phalanx
	landmark.IndexDIP,  // 2: index middle phalanx
	landmark.IndexTip,  // 3: index tip
	landmark.MiddleTip, // 4: middle tip
	landmark.RingTip,   // 5: ring tip
	landmark.PinkyTip,  // 6: pinky tip
	landmark.PinkyDIP,  // 7: pinky distal crease
	landmark.PinkyPIP,  // 8: pinky proximal crease
	landmark.PinkyMCP,  // 9: palmar crease
}

// KapandjiRung returns the highest opposition rung (1-10) whose target lies
// within proximity of the thumb tip this frame, or 0 when no rung is reached.
// Distances are expressed in hand-scale units (wrist to middle MCP = 1.0) so
// the threshold is independent of how far the hand is from the camera.
// ok is false when the thumb tip or the scale reference landmarks failed the
// confidence gate.
func KapandjiRung(h *landmark.ValidHand, proximity float64) (rung int, ok bool) {
	if !h.Have(landmark.ThumbTip, landmark.Wrist, landmark.MiddleMCP) {
		return 0, false
	}

	scale := pointDistance(h.Points[landmark.Wrist], h.Points[landmark.MiddleMCP])
	if scale < epsilon {
		return 0, false
	}

	thumb := h.Points[landmark.ThumbTip]

	for i := len(kapandjiLadder) - 1; i >= 0; i-- {
		idx := kapandjiLadder[i]
		if !h.Have(idx) {
			continue
		}
		if pointDistance(thumb, h.Points[idx])/scale < proximity {
			rung = i + 1
			break
		}
	}

	// Rung 10: midpoint of pinky MCP and wrist.
	if h.Have(landmark.PinkyMCP) {
		p, w := h.Points[landmark.PinkyMCP], h.Points[landmark.Wrist]
		mid := landmark.Point{X: (p.X + w.X) / 2, Y: (p.Y + w.Y) / 2, Z: (p.Z + w.Z) / 2}
		if pointDistance(thumb, mid)/scale < proximity {
			rung = 10
		}
	}

	return rung, true
}
