// Command traystatus runs the bench status tray on its own, without
// cmd/hidbridge's USB polling loop. Nothing in this command updates
// the tray's bridge or layer lines, so they keep their initial values;
// menu actions are only logged.
package main

import (
	"log"
	"os"

	"github.com/kbfw/firmware/internal/traystatus"
)

func main() {
	log.Printf("[traystatus] starting")
	traystatus.Run(traystatus.RunOpts{
		Version: "dev",
		OnReady: func() {
			log.Printf("[traystatus] ready")
		},
		OnQuit: func() {
			log.Printf("[traystatus] quitting")
		},
		OnReplayToggle: func(enabled bool) {
			log.Printf("[traystatus] replay toggle: %v", enabled)
		},
	})
	os.Exit(0)
}
