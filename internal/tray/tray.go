// Package tray provides the system tray menu for the drawing app.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray is the system tray menu. Callbacks run on the menu goroutine.
type Tray struct {
	onToggleCamera func() (bool, error)
	onClear        func()
	onSave         func() (string, error)
	onOpen         func()
	onQuit         func()
	cameraOn       bool
	mu             sync.RWMutex

	// Menu items stored for later updates
	menuCamera *systray.MenuItem
	menuStatus *systray.MenuItem
}

// New creates a new Tray with the camera shown as off.
func New() *Tray {
	return &Tray{}
}

// OnToggleCamera sets the callback that starts or stops the camera. It
// reports whether the camera is running afterwards.
func (t *Tray) OnToggleCamera(fn func() (bool, error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggleCamera = fn
}

// OnClear sets the callback for the clear canvas item.
func (t *Tray) OnClear(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClear = fn
}

// OnSave sets the callback that saves the drawing and returns the file name.
func (t *Tray) OnSave(fn func() (string, error)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onSave = fn
}

// OnOpen sets the callback for the open drawing board item.
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback function to be called when the quit menu item is clicked.
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

// Quit stops the tray loop started by Run.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("AirSketch")
	systray.SetTooltip("AirSketch - draw with a pinch")

	t.mu.Lock()
	t.menuCamera = systray.AddMenuItem(cameraTitle(t.cameraOn), "Start or stop the camera")
	t.menuStatus = systray.AddMenuItem("Ready", "Last action")
	t.menuStatus.Disable()
	t.mu.Unlock()
	systray.AddSeparator()

	menuClear := systray.AddMenuItem("Clear Canvas", "Erase ink and template")
	menuSave := systray.AddMenuItem("Save Drawing", "Save the drawing as PNG")
	menuOpen := systray.AddMenuItem("Open Drawing Board...", "Open the drawing board in a browser")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit AirSketch")

	// Handle menu item clicks in a separate goroutine
	go func() {
		for {
			select {
			case <-t.menuCamera.ClickedCh:
				t.handleToggleCamera()
			case <-menuClear.ClickedCh:
				t.handleClear()
			case <-menuSave.ClickedCh:
				t.handleSave()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				return
			}
		}
	}()
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

func cameraTitle(on bool) string {
	if on {
		return "● Camera On"
	}
	return "○ Camera Off"
}

// handleToggleCamera handles the camera menu item click.
func (t *Tray) handleToggleCamera() {
	t.mu.RLock()
	callback := t.onToggleCamera
	t.mu.RUnlock()

	if callback == nil {
		return
	}

	// Call the callback outside the lock to prevent deadlocks
	on, err := callback()
	if err != nil {
		t.SetStatus("Camera unavailable")
	}
	t.SetCameraOn(on)
}

// handleClear handles the clear menu item click.
func (t *Tray) handleClear() {
	t.mu.RLock()
	callback := t.onClear
	t.mu.RUnlock()

	if callback != nil {
		callback()
		t.SetStatus("Canvas cleared")
	}
}

// handleSave handles the save menu item click.
func (t *Tray) handleSave() {
	t.mu.RLock()
	callback := t.onSave
	t.mu.RUnlock()

	if callback == nil {
		return
	}

	name, err := callback()
	if err != nil {
		t.SetStatus("Save failed")
		return
	}
	t.SetStatus("Saved " + name)
}

// handleOpen handles the open menu item click.
func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// handleQuit handles the quit menu item click.
func (t *Tray) handleQuit() {
	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}

	systray.Quit()
}

// SetCameraOn updates the camera item.
func (t *Tray) SetCameraOn(on bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.cameraOn = on
	if t.menuCamera != nil {
		t.menuCamera.SetTitle(cameraTitle(on))
	}
}

// SetStatus updates the disabled status line.
func (t *Tray) SetStatus(text string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuStatus != nil {
		t.menuStatus.SetTitle(text)
	}
}

// CameraOn returns the camera state shown in the menu.
func (t *Tray) CameraOn() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.cameraOn
}
