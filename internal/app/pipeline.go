package app

import (
	"time"

	"go.uber.org/zap"

	"github.com/sreevidya/handrom/internal/rom"
)

// runRecording is the capture loop for one assessment. It waits for a
// subject to appear in front of the camera, then feeds tracker observations
// into the session until the bounded window elapses or the app stops it.
//
// Pipeline logic:
//  1. Poll frames at IdleFPS until the presence detector fires
//  2. Switch to RecordingFPS and arm the window timer
//  3. Track landmarks on every frame and feed them to the session
//  4. When the window elapses, finalize and persist the result
func (a *App) runRecording(stopCh chan struct{}, id string, session *rom.Session, window time.Duration) {
	interval := time.Second / time.Duration(IdleFPS)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	recording := false
	var windowC <-chan time.Time

	for {
		select {
		case <-stopCh:
			// StopAssessment finalizes; just leave the loop.
			return

		case <-windowC:
			a.log.Info("assessment window elapsed", zap.String("session", id))
			a.finish()
			return

		case <-ticker.C:
			frame, err := a.camera.ReadFrame()
			if err != nil {
				a.log.Debug("error reading frame", zap.Error(err))
				continue
			}

			if !recording {
				active, _ := a.presence.Detect(frame)
				if !active {
					frame.Close()
					continue
				}
				recording = true
				a.camera.SetFPS(RecordingFPS)
				interval = time.Second / time.Duration(RecordingFPS)
				ticker.Reset(interval)
				windowC = time.After(window)
				a.log.Info("subject detected, recording",
					zap.String("session", id),
					zap.Duration("window", window))
			}

			observation, err := a.Tracker().Detect(frame, time.Now().UnixMilli())
			frame.Close()
			if err != nil {
				a.log.Warn("landmark tracking failed", zap.Error(err))
				continue
			}

			a.mu.Lock()
			current := a.session == session
			if current {
				// Frames without a usable hand still count toward the
				// recording; the session handles them.
				session.ProcessFrame(observation)
			}
			a.mu.Unlock()
			if !current {
				return
			}
		}
	}
}
