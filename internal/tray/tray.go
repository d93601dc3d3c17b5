// Package tray provides the system tray menu for airdraw.
package tray

import (
	"sync"

	"github.com/getlantern/systray"
)

// Tray represents the system tray application.
type Tray struct {
	onToggle     func(enabled bool)
	onClear      func()
	onBackground func() bool
	onOpen       func()
	onQuit       func()
	enabled      bool
	blackout     bool
	mu           sync.RWMutex

	// Menu items stored for later updates
	menuToggle     *systray.MenuItem
	menuBackground *systray.MenuItem
	menuGesture    *systray.MenuItem
}

// New creates a new Tray with tracking enabled.
func New() *Tray {
	return &Tray{
		enabled: true,
	}
}

// OnToggle sets the callback run when tracking is switched on or off.
func (t *Tray) OnToggle(fn func(enabled bool)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onToggle = fn
}

// OnClear sets the callback run by "Clear canvas".
func (t *Tray) OnClear(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onClear = fn
}

// OnBackground sets the callback run by "Switch background". It returns the
// new blackout state.
func (t *Tray) OnBackground(fn func() bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onBackground = fn
}

// OnOpen sets the callback run by "Open in browser".
func (t *Tray) OnOpen(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onOpen = fn
}

// OnQuit sets the callback run before the tray exits.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// SetEnabled syncs the toggle with state changed elsewhere.
func (t *Tray) SetEnabled(enabled bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.enabled = enabled
	t.updateToggle()
}

// Run starts the system tray application.
// This function blocks until systray.Quit() is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, func() {})
}

// Quit stops a running tray.
func (t *Tray) Quit() {
	systray.Quit()
}

func (t *Tray) onReady() {
	systray.SetTitle("AirDraw")
	systray.SetTooltip("AirDraw gesture canvas")

	t.mu.Lock()
	t.menuToggle = systray.AddMenuItem("", "Toggle hand tracking")
	t.updateToggle()
	systray.AddSeparator()

	t.menuGesture = systray.AddMenuItem("Gesture: none", "Current gesture")
	t.menuGesture.Disable()
	systray.AddSeparator()

	menuClear := systray.AddMenuItem("Clear canvas", "Remove every shape")
	t.menuBackground = systray.AddMenuItem("", "Switch between camera and black background")
	t.updateBackground()
	menuOpen := systray.AddMenuItem("Open in browser...", "Open the live canvas")
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit AirDraw")
	t.mu.Unlock()

	go func() {
		for {
			select {
			case <-t.menuToggle.ClickedCh:
				t.handleToggle()
			case <-menuClear.ClickedCh:
				t.handleClear()
			case <-t.menuBackground.ClickedCh:
				t.handleBackground()
			case <-menuOpen.ClickedCh:
				t.handleOpen()
			case <-menuQuit.ClickedCh:
				t.handleQuit()
				systray.Quit()
				return
			}
		}
	}()
}

// updateToggle must be called with t.mu held.
func (t *Tray) updateToggle() {
	if t.menuToggle == nil {
		return
	}
	if t.enabled {
		t.menuToggle.SetTitle("● Tracking")
	} else {
		t.menuToggle.SetTitle("○ Paused")
	}
}

// updateBackground must be called with t.mu held.
func (t *Tray) updateBackground() {
	if t.menuBackground == nil {
		return
	}
	if t.blackout {
		t.menuBackground.SetTitle("Show camera")
	} else {
		t.menuBackground.SetTitle("Black background")
	}
}

func (t *Tray) handleToggle() {
	t.mu.Lock()
	t.enabled = !t.enabled
	enabled := t.enabled
	t.updateToggle()
	callback := t.onToggle
	t.mu.Unlock()

	// Call the callback outside the lock to prevent deadlocks
	if callback != nil {
		callback(enabled)
	}
}

func (t *Tray) handleClear() {
	t.mu.RLock()
	callback := t.onClear
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

func (t *Tray) handleBackground() {
	t.mu.RLock()
	callback := t.onBackground
	t.mu.RUnlock()

	if callback == nil {
		return
	}
	blackout := callback()

	t.mu.Lock()
	t.blackout = blackout
	t.updateBackground()
	t.mu.Unlock()
}

func (t *Tray) handleOpen() {
	t.mu.RLock()
	callback := t.onOpen
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
}

// SetGesture updates the current gesture display in the menu.
func (t *Tray) SetGesture(name string) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.menuGesture != nil {
		if name == "" {
			t.menuGesture.SetTitle("Gesture: none")
		} else {
			t.menuGesture.SetTitle("Gesture: " + name)
		}
	}
}

// IsEnabled returns the current enabled state.
func (t *Tray) IsEnabled() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.enabled
}

// Blackout returns the last background state reported by OnBackground.
func (t *Tray) Blackout() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.blackout
}
