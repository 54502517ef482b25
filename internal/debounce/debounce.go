// Package debounce suppresses transient switch bounces, turning a
// stream of noisy matrix samples into a stable grid plus the discrete
// press/release events the chording and layout stages consume.
package debounce

import (
	"github.com/kbfw/firmware/internal/kbevent"
	"github.com/kbfw/firmware/internal/matrix"
)

// CellGrid is the comparable, indexable snapshot type the debouncer
// diffs tick over tick. Concrete instantiations are fixed-size arrays
// (see matrix.Grid8x8) so comparing two grids is a plain value
// comparison — the same property keyberon gets for free from
// `#[derive(PartialEq)]` on its fixed-size `PressedKeys<ROWS, COLS>`.
type CellGrid interface {
	comparable
	At(row, col uint8) bool
	Rows() uint8
	Cols() uint8
}

// Debouncer suppresses transient bounces, emitting a change only
// after more than threshold consecutive equal samples disagree with
// the last accepted grid (spec.md §4.2).
type Debouncer[T CellGrid] struct {
	current   T
	candidate T
	since     int
	threshold int

	eventsBuf []kbevent.Event // reused across calls; never grows past one full grid
}

// New creates a Debouncer with the given consecutive-sample threshold.
// 5 ticks at a 1kHz tick rate is the recommended value for mechanical
// switches (spec.md §4.2).
func New[T CellGrid](threshold int) *Debouncer[T] {
	return &Debouncer[T]{threshold: threshold}
}

// Get returns the last accepted (stable) grid.
func (d *Debouncer[T]) Get() T { return d.current }

// Update folds in one new sample, returning true iff it just became
// the new stable state.
func (d *Debouncer[T]) Update(sample T) bool {
	if sample == d.current {
		d.since = 0
		return false
	}
	if sample != d.candidate {
		d.candidate = sample
		d.since = 1
		return false
	}
	d.since++
	if d.since > d.threshold {
		d.current, d.candidate = d.candidate, d.current
		d.since = 0
		return true
	}
	return false
}

// Events runs Update and, on a state change, diffs the newly accepted
// grid against the one it replaced, emitting one Event per cell that
// flipped, in row-major order (the ordering spec.md §5 requires for
// appending to the layout engine's stacked ring). Returns nil when the
// sample didn't cause a state change. The returned slice is owned by
// the Debouncer and is overwritten by the next call to Events.
func (d *Debouncer[T]) Events(sample T) []kbevent.Event {
	previous := d.current
	if !d.Update(sample) {
		return nil
	}
	accepted := d.current
	d.eventsBuf = d.eventsBuf[:0]
	rows, cols := accepted.Rows(), accepted.Cols()
	for r := uint8(0); r < rows; r++ {
		for c := uint8(0); c < cols; c++ {
			was, is := previous.At(r, c), accepted.At(r, c)
			if was == is {
				continue
			}
			coord := matrix.Coord{Row: r, Col: c}
			if is {
				d.eventsBuf = append(d.eventsBuf, kbevent.NewPress(coord))
			} else {
				d.eventsBuf = append(d.eventsBuf, kbevent.NewRelease(coord))
			}
		}
	}
	return d.eventsBuf
}
