// Package tray provides the system tray interface for the assessment
// station: starting and stopping assessments and jumping to the dashboard.
package tray

import (
	"sync"

	"github.com/getlantern/systray"

	"github.com/sreevidya/handrom/internal/rom"
)

// assessmentMenu maps a menu entry to the assessment it starts.
type assessmentMenu struct {
	kind  rom.AssessmentKind
	title string
	help  string
}

var assessmentMenus = []assessmentMenu{
	{rom.AssessTAM, "Start Finger ROM (TAM)", "Record per-finger joint angles"},
	{rom.AssessKapandji, "Start Kapandji", "Record thumb opposition score"},
	{rom.AssessWristFlexExt, "Start Wrist Flexion/Extension", "Record wrist flexion and extension"},
	{rom.AssessForearmRotation, "Start Pronation/Supination", "Record forearm rotation"},
	{rom.AssessRadialUlnar, "Start Radial/Ulnar Deviation", "Record wrist deviation"},
}

// Tray represents the system tray application.
type Tray struct {
	onStart     func(kind rom.AssessmentKind)
	onStop      func()
	onDashboard func()
	onQuit      func()
	mu          sync.RWMutex

	// Menu items stored for later updates
	menuStop       *systray.MenuItem
	menuLastResult *systray.MenuItem
}

// New creates a new Tray instance.
func New() *Tray {
	return &Tray{}
}

// OnStart sets the callback invoked when an assessment entry is clicked.
func (t *Tray) OnStart(fn func(kind rom.AssessmentKind)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStart = fn
}

// OnStop sets the callback invoked when the stop entry is clicked.
func (t *Tray) OnStop(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onStop = fn
}

// OnDashboard sets the callback invoked when the dashboard entry is clicked.
func (t *Tray) OnDashboard(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDashboard = fn
}

// OnQuit sets the callback invoked when the quit entry is clicked.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("HandROM")
	systray.SetTooltip("HandROM Assessment Station")

	starters := make([]*systray.MenuItem, len(assessmentMenus))
	for i, m := range assessmentMenus {
		starters[i] = systray.AddMenuItem(m.title, m.help)
	}
	systray.AddSeparator()

	t.menuStop = systray.AddMenuItem("Stop Recording", "Finalize the current assessment")
	t.menuStop.Disable()
	systray.AddSeparator()

	t.menuLastResult = systray.AddMenuItem("Last: none", "Most recent measurement")
	t.menuLastResult.Disable()
	systray.AddSeparator()

	menuDashboard := systray.AddMenuItem("Open Dashboard...", "Open the dashboard in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit HandROM")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for i, item := range starters {
			go func(i int, item *systray.MenuItem) {
				for range item.ClickedCh {
					t.handleStart(assessmentMenus[i].kind)
				}
			}(i, item)
		}
		for {
			select {
			case <-t.menuStop.ClickedCh:
				t.handleStop()
			case <-menuDashboard.ClickedCh:
				t.handleDashboard()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {
}

func (t *Tray) handleStart(kind rom.AssessmentKind) {
	t.mu.RLock()
	callback := t.onStart
	t.mu.RUnlock()

	if callback != nil {
		callback(kind)
	}
}

func (t *Tray) handleStop() {
	t.mu.RLock()
	callback := t.onStop
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleDashboard() {
	t.mu.RLock()
	callback := t.onDashboard
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetRecording toggles the stop entry to mirror the app state.
func (t *Tray) SetRecording(recording bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuStop == nil {
		return
	}
	if recording {
		t.menuStop.Enable()
	} else {
		t.menuStop.Disable()
	}
}

// SetLastResult updates the last result display in the menu.
func (t *Tray) SetLastResult(summary string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuLastResult != nil {
		if summary == "" {
			t.menuLastResult.SetTitle("Last: none")
		} else {
			t.menuLastResult.SetTitle("Last: " + summary)
		}
	}
}
