package tracker

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/sreevidya/handrom/internal/landmark"
)

// MediaPipeTracker implements Tracker using a Python MediaPipe subprocess.
// The service runs the Hands and Pose solutions on each submitted frame and
// replies with one JSON line per request.
type MediaPipeTracker struct {
	config    Config
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	lastUsed  time.Time
	idleTimer *time.Timer
}

// NewMediaPipeTracker creates a new MediaPipe tracker.
// The Python process is started lazily on the first detection.
func NewMediaPipeTracker(config Config) (*MediaPipeTracker, error) {
	scriptPath := findTrackerScript()
	if scriptPath == "" {
		return nil, fmt.Errorf("landmark_service.py not found")
	}

	return &MediaPipeTracker{
		config: config,
	}, nil
}

// Detect analyzes a frame and returns the landmark observation for it.
func (t *MediaPipeTracker) Detect(frame *gocv.Mat, timestamp int64) (*landmark.Frame, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.ensureStarted(); err != nil {
		return nil, err
	}

	// Encode frame as JPEG
	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	// Write length (4 bytes big-endian) + data
	length := make([]byte, 4)
	binary.BigEndian.PutUint32(length, uint32(len(data)))

	if _, err := t.stdin.Write(length); err != nil {
		return nil, fmt.Errorf("write length: %w", err)
	}
	if _, err := t.stdin.Write(data); err != nil {
		return nil, fmt.Errorf("write data: %w", err)
	}

	// Read JSON response
	line, err := t.stdout.ReadString('\n')
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var response struct {
		Hands []jsonHand  `json:"hands"`
		Pose  []jsonPoint `json:"pose"`
	}
	if err := json.Unmarshal([]byte(line), &response); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	t.lastUsed = time.Now()
	t.resetIdleTimer()

	return t.toFrame(timestamp, response.Hands, response.Pose), nil
}

// Close shuts down the Python process.
func (t *MediaPipeTracker) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.shutdown()
}

func (t *MediaPipeTracker) toFrame(timestamp int64, hands []jsonHand, pose []jsonPoint) *landmark.Frame {
	frame := &landmark.Frame{
		Timestamp:  timestamp,
		Handedness: landmark.HandUnknown,
	}

	// A single subject is assumed; when the solution reports several hands,
	// keep the highest-scoring one.
	best := -1
	for i, h := range hands {
		if len(h.Points) < landmark.NumHandLandmarks {
			continue
		}
		if best < 0 || h.Score > hands[best].Score {
			best = i
		}
	}
	if best >= 0 {
		h := hands[best]
		hand := &landmark.Hand{}
		for i := 0; i < landmark.NumHandLandmarks; i++ {
			hand.Points[i] = h.Points[i].toPoint()
		}
		frame.Hand = hand
		if h.Score >= t.config.MinConfidence {
			frame.Handedness = parseHandedness(h.Handedness)
		}
	}

	if t.config.WithPose && len(pose) >= landmark.NumPoseLandmarks {
		p := &landmark.Pose{}
		for i := 0; i < landmark.NumPoseLandmarks; i++ {
			p.Points[i] = pose[i].toPoint()
		}
		frame.Pose = p
	}

	return frame
}

func parseHandedness(label string) landmark.Handedness {
	switch strings.ToLower(label) {
	case "left":
		return landmark.HandLeft
	case "right":
		return landmark.HandRight
	default:
		return landmark.HandUnknown
	}
}

func (t *MediaPipeTracker) ensureStarted() error {
	if t.started {
		return nil
	}

	scriptPath := findTrackerScript()
	if scriptPath == "" {
		return fmt.Errorf("landmark_service.py not found")
	}

	// Use virtual environment Python if available
	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	args := []string{scriptPath}
	if t.config.WithPose {
		args = append(args, "--with-pose")
	}
	t.cmd = exec.Command(pythonPath, args...)

	stdin, err := t.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := t.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	// Capture stderr for debugging
	t.cmd.Stderr = os.Stderr

	if err := t.cmd.Start(); err != nil {
		return fmt.Errorf("start landmark service: %w", err)
	}

	t.stdin = stdin
	t.stdout = bufio.NewReader(stdout)
	t.started = true
	t.lastUsed = time.Now()

	return nil
}

func (t *MediaPipeTracker) shutdown() error {
	if !t.started {
		return nil
	}

	if t.idleTimer != nil {
		t.idleTimer.Stop()
		t.idleTimer = nil
	}

	if t.stdin != nil {
		t.stdin.Close()
	}

	err := t.cmd.Wait()
	t.started = false
	t.cmd = nil
	t.stdin = nil
	t.stdout = nil

	return err
}

func (t *MediaPipeTracker) resetIdleTimer() {
	if t.idleTimer != nil {
		t.idleTimer.Stop()
	}
	t.idleTimer = time.AfterFunc(30*time.Second, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		t.shutdown()
	})
}

func findTrackerScript() string {
	// Get executable directory
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		"scripts/landmark_service.py",
		"../scripts/landmark_service.py",
		filepath.Join(execDir, "scripts/landmark_service.py"),
		filepath.Join(os.Getenv("HOME"), ".handrom/scripts/landmark_service.py"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// findVenvPython looks for a Python interpreter in a virtual environment.
// It checks for venv/bin/python relative to the project directory.
func findVenvPython() string {
	// Get executable directory to find project root
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".handrom/venv/bin/python"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// jsonHand represents the JSON structure from the Python service.
type jsonHand struct {
	Points     []jsonPoint `json:"points"`
	Handedness string      `json:"handedness"`
	Score      float64     `json:"score"`
}

type jsonPoint struct {
	X          float64  `json:"x"`
	Y          float64  `json:"y"`
	Z          float64  `json:"z"`
	Visibility *float64 `json:"visibility,omitempty"`
}

func (p jsonPoint) toPoint() landmark.Point {
	// Hand landmarks carry no per-point visibility; pose landmarks do.
	visibility := 1.0
	if p.Visibility != nil {
		visibility = *p.Visibility
	}
	return landmark.Point{X: p.X, Y: p.Y, Z: p.Z, Visibility: visibility}
}
