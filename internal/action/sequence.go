package action

import "github.com/kbfw/firmware/internal/keycode"

// SeqKind tags one step of a pre-authored macro (spec.md §3
// "SequenceEvent").
type SeqKind uint8

const (
	SeqPress SeqKind = iota
	SeqRelease
	SeqTap
	SeqDelay
	SeqComplete
)

// SequenceEvent is one step of a Sequence action's script.
type SequenceEvent struct {
	Kind  SeqKind
	Key   keycode.KeyCode // SeqPress, SeqRelease, SeqTap
	Ticks int             // SeqDelay
}

// Press enqueues a fake key-down of k.
func Press(k keycode.KeyCode) SequenceEvent { return SequenceEvent{Kind: SeqPress, Key: k} }

// Release enqueues a fake key-up of k.
func Release(k keycode.KeyCode) SequenceEvent { return SequenceEvent{Kind: SeqRelease, Key: k} }

// Tap enqueues a fake press followed by its release on the next tick.
func Tap(k keycode.KeyCode) SequenceEvent { return SequenceEvent{Kind: SeqTap, Key: k} }

// Delay holds the sequence for the given number of ticks (the tick
// that consumes the Delay step itself counts toward it).
func Delay(ticks int) SequenceEvent { return SequenceEvent{Kind: SeqDelay, Ticks: ticks} }

// Complete is an early terminator: it clears the remaining script and
// releases every fake key the sequence asserted.
func Complete() SequenceEvent { return SequenceEvent{Kind: SeqComplete} }
