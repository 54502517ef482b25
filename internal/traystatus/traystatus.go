// Package traystatus shows a system tray icon for the bench daemons
// (cmd/hidbridge, cmd/traystatus): active layer, default layer, and bridge
// connection state. The menu shape and RunOpts callback pattern are
// carried over from the teacher's internal/tray.Run.
package traystatus

import (
	"fmt"

	"fyne.io/systray"
)

// BridgeState is the hidbridge connection state shown in the tray.
type BridgeState uint8

const (
	BridgeDisconnected BridgeState = iota
	BridgeConnected
	BridgeError
)

// RunOpts configures the status tray.
type RunOpts struct {
	Version       string
	OnReady       func()
	OnQuit        func()
	OnReplayToggle func(enabled bool)
}

var (
	mStatus    *systray.MenuItem
	mLayer     *systray.MenuItem
	mDefault   *systray.MenuItem
)

// Run starts the status tray. It blocks on the calling goroutine —
// callers typically run it from main() on platforms requiring the
// main thread, the same constraint cmd/tray/main.go documents.
func Run(opts RunOpts) {
	systray.Run(func() {
		systray.SetIcon(iconDisconnected)
		systray.SetTitle("")
		systray.SetTooltip("kbfw bench — no bridge")

		title := "kbfw bench"
		if opts.Version != "" && opts.Version != "dev" {
			title += " " + opts.Version
		}
		mTitle := systray.AddMenuItem(title, "")
		mTitle.Disable()

		systray.AddSeparator()

		mStatus = systray.AddMenuItem("Bridge: disconnected", "")
		mStatus.Disable()
		mLayer = systray.AddMenuItem("Active layer: 0", "")
		mLayer.Disable()
		mDefault = systray.AddMenuItem("Default layer: 0", "")
		mDefault.Disable()

		systray.AddSeparator()

		mReplay := systray.AddMenuItemCheckbox("Replay last capture", "Replay the last capture session on start", false)

		systray.AddSeparator()
		mQuit := systray.AddMenuItem("Quit", "Exit the bench daemon")

		if opts.OnReady != nil {
			opts.OnReady()
		}

		go func() {
			for {
				select {
				case <-mReplay.ClickedCh:
					if mReplay.Checked() {
						mReplay.Uncheck()
						if opts.OnReplayToggle != nil {
							opts.OnReplayToggle(false)
						}
					} else {
						mReplay.Check()
						if opts.OnReplayToggle != nil {
							opts.OnReplayToggle(true)
						}
					}
				case <-mQuit.ClickedCh:
					if opts.OnQuit != nil {
						opts.OnQuit()
					}
					systray.Quit()
					return
				}
			}
		}()
	}, func() {})
}

// SetBridgeState updates the tray icon and status line.
func SetBridgeState(state BridgeState) {
	switch state {
	case BridgeDisconnected:
		systray.SetIcon(iconDisconnected)
		systray.SetTooltip("kbfw bench — no bridge")
		if mStatus != nil {
			mStatus.SetTitle("Bridge: disconnected")
		}
	case BridgeConnected:
		systray.SetIcon(iconConnected)
		systray.SetTooltip("kbfw bench — bridge connected")
		if mStatus != nil {
			mStatus.SetTitle("Bridge: connected")
		}
	case BridgeError:
		systray.SetIcon(iconError)
		systray.SetTooltip("kbfw bench — bridge error")
		if mStatus != nil {
			mStatus.SetTitle("Bridge: error")
		}
	}
}

// SetLayers updates the active/default layer menu lines.
func SetLayers(active, def uint8) {
	if mLayer != nil {
		mLayer.SetTitle(fmt.Sprintf("Active layer: %d", active))
	}
	if mDefault != nil {
		mDefault.SetTitle(fmt.Sprintf("Default layer: %d", def))
	}
}

// Quit stops the status tray.
func Quit() { systray.Quit() }
