// Package app provides the main application logic for the assessment
// station: it owns the camera, the landmark tracker, and the currently
// recording assessment session.
package app

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sreevidya/handrom/internal/capture"
	"github.com/sreevidya/handrom/internal/rom"
	"github.com/sreevidya/handrom/internal/store"
	"github.com/sreevidya/handrom/internal/tracker"
)

// Pipeline timing constants.
const (
	// IdleFPS is the frame rate while waiting for a subject.
	IdleFPS = 5
	// RecordingFPS is the frame rate during an assessment recording.
	RecordingFPS = 30
	// DefaultWindowSeconds bounds a recording when the config does not.
	DefaultWindowSeconds = 20
)

// ErrAssessmentActive is returned when starting an assessment while another
// one is still recording.
var ErrAssessmentActive = errors.New("an assessment is already recording")

// Config holds configuration options for the application.
type Config struct {
	Store          *store.Store
	CameraID       int
	PresenceThresh float64
	Engine         rom.Config
	WindowSeconds  int
	Log            *zap.Logger
}

// App orchestrates the capture pipeline: camera frames flow through the
// tracker into the active measurement session, and the finalized result is
// persisted to the store.
type App struct {
	config   Config
	camera   capture.Camera
	presence *capture.PresenceDetector
	tracker  tracker.Tracker
	log      *zap.Logger

	mu         sync.RWMutex
	stopCh     chan struct{}
	sessionID  string
	session    *rom.Session
	lastResult *rom.Result
}

// New creates a new App instance with the given configuration.
func New(config Config) *App {
	presenceThreshold := config.PresenceThresh
	if presenceThreshold <= 0 {
		presenceThreshold = 1.0 // 1% pixel change
	}
	if config.WindowSeconds <= 0 {
		config.WindowSeconds = DefaultWindowSeconds
	}
	log := config.Log
	if log == nil {
		log = zap.NewNop()
	}

	a := &App{
		config:   config,
		camera:   capture.NewCamera(config.CameraID),
		presence: capture.NewPresenceDetector(presenceThreshold),
		log:      log,
	}

	// Try MediaPipe first, fall back to the mock tracker
	if mp, err := tracker.NewMediaPipeTracker(tracker.DefaultConfig()); err == nil {
		a.tracker = mp
		log.Info("using MediaPipe landmark tracking")
	} else {
		log.Warn("MediaPipe not available, using mock tracker", zap.Error(err))
		a.tracker = tracker.NewMockTracker()
	}

	return a
}

// SetTracker sets the landmark tracker implementation to use.
func (a *App) SetTracker(t tracker.Tracker) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tracker = t
}

// Tracker returns the landmark tracker.
func (a *App) Tracker() tracker.Tracker {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tracker
}

// Camera returns the camera instance.
func (a *App) Camera() capture.Camera {
	return a.camera
}

// SetCamera replaces the camera, used by tests to play back recordings.
func (a *App) SetCamera(c capture.Camera) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.camera = c
}

// Recording reports whether an assessment is currently recording.
func (a *App) Recording() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.session != nil
}

// SessionID returns the ID of the recording session, or "" when idle.
func (a *App) SessionID() string {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessionID
}

// LastResult returns the most recently finalized result, or nil.
func (a *App) LastResult() *rom.Result {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lastResult
}

// StartAssessment opens the camera and begins recording a session of the
// given kind. The recording finalizes itself when the bounded window
// elapses, or earlier via StopAssessment.
func (a *App) StartAssessment(kind rom.AssessmentKind) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.session != nil {
		return "", ErrAssessmentActive
	}

	if err := a.camera.Open(); err != nil {
		return "", err
	}
	a.camera.SetFPS(RecordingFPS)

	id := uuid.New().String()
	if a.config.Store != nil {
		if err := a.config.Store.Sessions().Create(&store.Session{ID: id, Kind: kind}); err != nil {
			a.camera.Close()
			return "", err
		}
	}

	a.sessionID = id
	a.session = rom.NewSession(kind, a.config.Engine)
	a.presence.Reset()
	a.stopCh = make(chan struct{})
	go a.runRecording(a.stopCh, id, a.session, time.Duration(a.config.WindowSeconds)*time.Second)

	a.log.Info("assessment started",
		zap.String("session", id),
		zap.String("kind", string(kind)))
	return id, nil
}

// StopAssessment ends the current recording early and returns the finalized
// result. It is a no-op returning nil when no assessment is recording.
func (a *App) StopAssessment() *rom.Result {
	a.mu.Lock()
	if a.stopCh != nil {
		close(a.stopCh)
		a.stopCh = nil
	}
	a.mu.Unlock()

	return a.finish()
}

// EndRepetition marks a movement repetition boundary on the recording
// session.
func (a *App) EndRepetition() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session != nil {
		a.session.EndRepetition()
	}
}

// Close releases the camera, presence detector, and tracker.
func (a *App) Close() {
	a.StopAssessment()

	a.mu.Lock()
	defer a.mu.Unlock()

	if err := a.camera.Close(); err != nil {
		a.log.Warn("error closing camera", zap.Error(err))
	}
	a.presence.Close()
	if a.tracker != nil {
		if err := a.tracker.Close(); err != nil {
			a.log.Warn("error closing tracker", zap.Error(err))
		}
	}
}

// finish seals the current session, persists the result, and clears the
// recording state. Safe to call when nothing is recording.
func (a *App) finish() *rom.Result {
	a.mu.Lock()
	session, id := a.session, a.sessionID
	a.session = nil
	a.sessionID = ""
	a.mu.Unlock()

	if session == nil {
		return nil
	}

	result := session.Finalize()

	if a.config.Store != nil {
		if err := a.config.Store.Results().Save(id, result); err != nil {
			a.log.Error("failed to save result", zap.String("session", id), zap.Error(err))
		}
	}
	a.camera.Close()

	a.mu.Lock()
	a.lastResult = result
	a.mu.Unlock()

	a.log.Info("assessment finalized",
		zap.String("session", id),
		zap.String("hand", string(result.HandType)),
		zap.Int("frames", result.FrameCount),
		zap.Bool("incomplete", result.Incomplete))
	return result
}
