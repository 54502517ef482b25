// Package bench composes the full core pipeline — debounce, chording,
// layout resolution, and HID report building — into a single
// Rig a workstation tool can tick and render, the way cmd/tray/main.go
// composes the teacher's device/hotkey/tray/server packages into one
// running application.
package bench

import (
	"github.com/kbfw/firmware/internal/action"
	"github.com/kbfw/firmware/internal/chord"
	"github.com/kbfw/firmware/internal/debounce"
	"github.com/kbfw/firmware/internal/kbevent"
	"github.com/kbfw/firmware/internal/keycode"
	"github.com/kbfw/firmware/internal/layout"
	"github.com/kbfw/firmware/internal/matrix"
	"github.com/kbfw/firmware/internal/report"
)

// Rows and Cols size the bench's default 4x12 ortholinear grid.
const (
	Rows = 4
	Cols = 12
)

// DebounceThreshold is the debouncer's threshold: a changed raw sample
// is accepted once it has been seen on more than this many consecutive
// ticks, i.e. on the (DebounceThreshold+1)th tick.
const DebounceThreshold = 3

// Rig wires a raw matrix sample through debounce -> chord -> layout ->
// report for one simulated or captured keyboard.
type Rig struct {
	debouncer *debounce.Debouncer[matrix.Grid4x12]
	chords    *chord.Engine
	engine    *layout.Engine

	raw matrix.Grid4x12

	lastReport report.Report
}

// New builds a Rig over table (layout.New's layer/row/col action
// table) and an optional set of chord definitions.
func New(table [][][]action.Action, chordDefs []chord.Definition) (*Rig, error) {
	eng, err := layout.New(table)
	if err != nil {
		return nil, err
	}
	chEngine, err := chord.New(chordDefs)
	if err != nil {
		return nil, err
	}
	return &Rig{
		debouncer: debounce.New[matrix.Grid4x12](DebounceThreshold),
		chords:    chEngine,
		engine:    eng,
	}, nil
}

// SetKey sets or clears one cell of the next raw sample; the caller
// drives this directly instead of a physical matrix.Scanner.
func (r *Rig) SetKey(coord matrix.Coord, pressed bool) {
	if int(coord.Row) >= Rows || int(coord.Col) >= Cols {
		return
	}
	r.raw[coord.Row][coord.Col] = pressed
}

// Tick advances debounce, chording, and the layout engine by one scan
// period, and rebuilds the HID report from the resulting keycode set.
func (r *Rig) Tick() layout.CustomEvent {
	events := r.debouncer.Events(r.raw)
	events = r.chords.Process(events)
	for _, ev := range events {
		r.engine.Event(ev)
	}
	custom := r.engine.Tick()
	report.BuildInto(&r.lastReport, r.engine.Keycodes())
	return custom
}

// Keycodes returns the layout engine's currently asserted keys.
func (r *Rig) Keycodes() []keycode.KeyCode { return r.engine.Keycodes() }

// Report returns the most recently built boot report.
func (r *Rig) Report() report.Report { return r.lastReport }

// RawGrid returns the raw (pre-debounce) sample grid for rendering.
func (r *Rig) RawGrid() matrix.Grid4x12 { return r.raw }

// InjectEvent feeds a synthetic event (e.g. from internal/capture)
// directly into the chord/layout stages, bypassing debounce — capture
// sources are already clean host keyboard events.
func (r *Rig) InjectEvent(ev kbevent.Event) {
	folded := r.chords.Process([]kbevent.Event{ev})
	for _, e := range folded {
		r.engine.Event(e)
	}
}
