// Package action defines the tagged-variant Action type stored in the
// layout engine's compile-time action table (spec.md §3), along with
// the hold/tap configuration and macro sequence types it composes.
package action

import "github.com/kbfw/firmware/internal/keycode"

// Kind discriminates the Action variant. The zero value, KindNoOp,
// makes a zero-initialized action table cell behave exactly like an
// explicit NoOp — the same safety property keyberon gets from
// `Option<&Action>::None` (see SPEC_FULL.md §4.8).
type Kind uint8

const (
	KindNoOp Kind = iota
	KindTrans
	KindKeyCode
	KindMultipleKeyCodes
	KindMultipleActions
	KindLayer
	KindDefaultLayer
	KindHoldTap
	KindSequence
	KindCancelSequence
	KindCustom
)

// HoldTapSpec is the payload of a KindHoldTap action. Hold and Tap
// point at the sub-actions the HoldTap was built with, which can be any
// other action — including another HoldTap or a MultipleActions — the
// way the action table "owns everything; the engine borrows"
// (spec.md §9 Design Notes on cyclic/aliased references).
type HoldTapSpec struct {
	Timeout         int // ticks
	Hold            *Action
	Tap             *Action
	Config          HoldTapConfig
	TapHoldInterval int // ticks; 0 disables the auto-repeat shortcut
}

// Action is a tagged variant over every action the layout engine can
// perform at a coordinate. Only the fields matching Kind are
// meaningful; constructors below keep callers from having to know
// which ones those are.
type Action struct {
	Kind Kind

	KeyCode   keycode.KeyCode   // KindKeyCode
	KeyCodes  []keycode.KeyCode // KindMultipleKeyCodes
	Actions   []Action          // KindMultipleActions
	Layer     uint8             // KindLayer, KindDefaultLayer
	HoldTap   *HoldTapSpec      // KindHoldTap
	Sequence  []SequenceEvent   // KindSequence
	CustomVal any               // KindCustom
}

// NoOp performs nothing.
func NoOp() Action { return Action{Kind: KindNoOp} }

// Trans falls through to the default layer's action at the same
// coordinate; on the default layer itself it behaves as NoOp
// (spec.md §4.4.1).
func Trans() Action { return Action{Kind: KindTrans} }

// KC presses a single HID key.
func KC(k keycode.KeyCode) Action { return Action{Kind: KindKeyCode, KeyCode: k} }

// MultiKC presses several HID keys atomically.
func MultiKC(ks ...keycode.KeyCode) Action {
	return Action{Kind: KindMultipleKeyCodes, KeyCodes: ks}
}

// MultiActions recursively performs several actions atomically.
func MultiActions(as ...Action) Action {
	return Action{Kind: KindMultipleActions, Actions: as}
}

// LayerAction adds layer n to the active stack while the originating
// key is physically held.
func LayerAction(n uint8) Action { return Action{Kind: KindLayer, Layer: n} }

// DefaultLayer sets the base layer to n on press.
func DefaultLayer(n uint8) Action { return Action{Kind: KindDefaultLayer, Layer: n} }

// HoldTap builds a dual hold/tap action (spec.md §4 HoldTap).
func HoldTap(timeout int, hold, tap Action, cfg HoldTapConfig, tapHoldInterval int) Action {
	return Action{Kind: KindHoldTap, HoldTap: &HoldTapSpec{
		Timeout:         timeout,
		Hold:            &hold,
		Tap:             &tap,
		Config:          cfg,
		TapHoldInterval: tapHoldInterval,
	}}
}

// Sequence enqueues a pre-authored macro on press.
func Sequence(events ...SequenceEvent) Action {
	return Action{Kind: KindSequence, Sequence: events}
}

// CancelSequence aborts all running sequences and their fake presses.
func CancelSequence() Action { return Action{Kind: KindCancelSequence} }

// Custom surfaces a user-defined value as a press/release pulse.
func Custom(v any) Action { return Action{Kind: KindCustom, CustomVal: v} }
