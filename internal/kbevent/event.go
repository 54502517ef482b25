// Package kbevent is the shared press/release event type flowing from
// the debouncer through chording into the layout engine's stacked
// ring (spec.md §2's "Event" stream).
package kbevent

import "github.com/kbfw/firmware/internal/matrix"

// Event is a single coordinate transition.
type Event struct {
	Coord matrix.Coord
	Press bool // true = Press, false = Release
}

// NewPress builds a press event at coord.
func NewPress(coord matrix.Coord) Event { return Event{Coord: coord, Press: true} }

// NewRelease builds a release event at coord.
func NewRelease(coord matrix.Coord) Event { return Event{Coord: coord, Press: false} }
