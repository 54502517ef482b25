// Command hidbridge runs the layout engine against a real USB test
// fixture: it ticks an internal/bench.Rig at the configured rate and
// pushes each HID report that differs from the last one written through
// internal/hidbridge and internal/hidlock. No key source is attached
// to the rig here. It optionally shows bench
// status in the system tray and over internal/benchserver. Its
// composition — load config, build the pipeline, register autostart,
// run a blocking loop under a bracketed log prefix — follows the
// teacher's main-package composition style.
package main

import (
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kbfw/firmware/internal/autostart"
	"github.com/kbfw/firmware/internal/bench"
	"github.com/kbfw/firmware/internal/benchconfig"
	"github.com/kbfw/firmware/internal/benchserver"
	"github.com/kbfw/firmware/internal/hidbridge"
	"github.com/kbfw/firmware/internal/hidlock"
	"github.com/kbfw/firmware/internal/traystatus"
)

func main() {
	vid := flag.Uint("vid", 0, "USB vendor ID of the test fixture (0 = use saved config)")
	pid := flag.Uint("pid", 0, "USB product ID of the test fixture (0 = use saved config)")
	noTray := flag.Bool("no-tray", false, "don't show a system tray icon")
	autostartFlag := flag.String("autostart", "", "enable|disable|status and exit")
	flag.Parse()

	if *autostartFlag != "" {
		runAutostartCommand(*autostartFlag)
		return
	}

	cfg, err := benchconfig.Load()
	if err != nil {
		log.Printf("[hidbridge] no saved config, using defaults: %v", err)
		cfg = benchconfig.DefaultConfig()
	}

	targetVID, targetPID := cfg.GetBridgeTarget()
	if *vid != 0 {
		targetVID = uint16(*vid)
	}
	if *pid != 0 {
		targetPID = uint16(*pid)
	}
	if targetVID == 0 || targetPID == 0 {
		log.Fatalf("[hidbridge] no USB VID/PID configured; pass -vid/-pid")
	}

	rig, err := bench.New(bench.DefaultTable(), nil)
	if err != nil {
		log.Fatalf("[hidbridge] build rig: %v", err)
	}

	br, err := hidbridge.Open(targetVID, targetPID)
	if err != nil {
		log.Fatalf("[hidbridge] open fixture: %v", err)
	}
	defer br.Close()
	guard := hidlock.New(br)

	showTray := cfg.ShowTray && !*noTray
	if showTray {
		go traystatus.Run(traystatus.RunOpts{
			Version: "dev",
			OnQuit:  func() { os.Exit(0) },
		})
		traystatus.SetBridgeState(traystatus.BridgeConnected)
	}

	statusSrv := benchserver.New(rig)
	if url, err := statusSrv.Start(); err != nil {
		log.Printf("[hidbridge] status server disabled: %v", err)
	} else {
		log.Printf("[hidbridge] status: %s/status", url)
	}
	defer statusSrv.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Second / time.Duration(cfg.GetTickHz()))
	defer ticker.Stop()

	log.Printf("[hidbridge] connected to fixture VID:0x%04x PID:0x%04x", targetVID, targetPID)

	var lastReport [8]byte
	for {
		select {
		case <-sigCh:
			log.Printf("[hidbridge] shutting down")
			return
		case <-ticker.C:
			rig.Tick()
			rep := rig.Report()
			report := rep.Bytes()
			if reportChanged(lastReport, report) {
				if err := guard.WriteReport(report); err != nil {
					log.Printf("[hidbridge] write report: %v", err)
					if showTray {
						traystatus.SetBridgeState(traystatus.BridgeError)
					}
					continue
				}
				copy(lastReport[:], report)
				if showTray {
					traystatus.SetBridgeState(traystatus.BridgeConnected)
				}
			}
		}
	}
}

func reportChanged(last [8]byte, current []byte) bool {
	for i, b := range current {
		if last[i] != b {
			return true
		}
	}
	return false
}

func runAutostartCommand(cmd string) {
	switch cmd {
	case "enable":
		if err := autostart.Enable(); err != nil {
			log.Fatalf("[hidbridge] enable autostart: %v", err)
		}
		log.Printf("[hidbridge] autostart enabled")
	case "disable":
		if err := autostart.Disable(); err != nil {
			log.Fatalf("[hidbridge] disable autostart: %v", err)
		}
		log.Printf("[hidbridge] autostart disabled")
	case "status":
		log.Printf("[hidbridge] autostart enabled: %v", autostart.IsEnabled())
	default:
		log.Fatalf("[hidbridge] unknown -autostart value %q (want enable|disable|status)", cmd)
	}
}
