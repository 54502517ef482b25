// Package layout implements the keymap engine: it turns debounced,
// chord-folded matrix events into the set of HID keycodes currently
// asserted, resolving HoldTap ambiguity, layer stacking, and macro
// sequences one tick at a time (spec.md §4.4).
package layout

import (
	"fmt"

	"github.com/kbfw/firmware/internal/action"
	"github.com/kbfw/firmware/internal/kbevent"
	"github.com/kbfw/firmware/internal/keycode"
	"github.com/kbfw/firmware/internal/matrix"
)

// CustomEventKind tags the pulse Tick returns when a Custom action's
// state is asserted or released this tick.
type CustomEventKind uint8

const (
	CustomEventNone CustomEventKind = iota
	CustomEventPress
	CustomEventRelease
)

// CustomEvent reports a Custom action's press/release pulse for the
// tick it occurred on. Release outranks Press, which outranks None,
// when more than one Custom transition lands in the same tick
// (spec.md §4.4.3 step 5).
type CustomEvent struct {
	Kind  CustomEventKind
	Value any
}

func strongerCustom(a, b CustomEvent) CustomEvent {
	rank := func(e CustomEvent) int {
		switch e.Kind {
		case CustomEventRelease:
			return 2
		case CustomEventPress:
			return 1
		default:
			return 0
		}
	}
	if rank(b) > rank(a) {
		return b
	}
	return a
}

// waitingState is the single in-flight HoldTap disambiguation
// (spec.md §3 "WaitingState": "at most one exists at a time").
type waitingState struct {
	coord            matrix.Coord
	timeoutRemaining int
	initialDelay     uint16
	hold             *action.Action
	tap              *action.Action
	config           action.HoldTapConfig
}

// tapHoldTracker implements the TapHoldInterval auto-repeat shortcut:
// a second press of the same HoldTap coordinate within TapHoldInterval
// ticks of the previous press performs Tap immediately instead of
// opening a new WaitingState (spec.md §9 Design Notes — the tracked
// coordinate is updated strictly after the same-coordinate check).
type tapHoldTracker struct {
	coord     matrix.Coord
	armed     bool
	remaining int
}

// Engine is one keyboard's layout state machine: a compile-time action
// table plus the runtime state the Tick loop advances.
type Engine struct {
	table        [][][]action.Action // table[layer][row][col]
	numLayers    uint8
	defaultLayer uint8

	states stateSet
	ring   ring

	waiting   *waitingState
	sequences []*sequenceState

	tracker tapHoldTracker

	keycodeBuf  []keycode.KeyCode
	ringSnapBuf []kbevent.Aged
}

// New builds an Engine over a layer/row/column action table. table
// must have at least one layer; every layer is expected to share the
// same row/column shape as the physical matrix, though shorter rows
// are tolerated (out-of-range lookups act as NoOp).
func New(table [][][]action.Action) (*Engine, error) {
	if len(table) == 0 {
		return nil, fmt.Errorf("layout: table has no layers")
	}
	if len(table) > 256 {
		return nil, fmt.Errorf("layout: table has %d layers, want <=256", len(table))
	}
	return &Engine{table: table, numLayers: uint8(len(table))}, nil
}

// Event enqueues a physical press/release onto the stacked ring. If
// the ring is already full, the oldest entry is evicted: any in-flight
// WaitingState resolves immediately as a Hold (spec.md §4.4.2 —
// mirrors what Tick would eventually do on timeout, just forced early
// to make room), then the evicted event itself is applied synchronously.
func (e *Engine) Event(ev kbevent.Event) {
	evicted, didEvict := e.ring.push(ev)
	if !didEvict {
		return
	}
	if e.waiting != nil {
		e.forceHold()
	}
	e.applyAgedEvent(evicted)
}

func (e *Engine) forceHold() {
	w := e.waiting
	e.waiting = nil
	e.performAction(*w.hold, w.coord, 0)
}

// Tick advances the engine by one scan period, implementing
// spec.md §4.4.3's five steps, and returns the strongest Custom pulse
// produced.
func (e *Engine) Tick() CustomEvent {
	// Step 1: state aging is a no-op — no State variant in this engine
	// carries its own TTL.
	e.ring.ageAll()
	e.decayTracker()

	preExisting := e.sequences

	var custom CustomEvent
	if e.waiting != nil {
		custom = e.consultWaiting()
	} else if e.ring.len() > 0 {
		aged := e.ring.pop()
		custom = strongerCustom(custom, e.applyAgedEvent(aged))
	}

	newlyAdded := e.sequences[len(preExisting):]
	survivors, seqCustom := e.advanceSequences(preExisting)
	if len(newlyAdded) > 0 {
		survivors = append(survivors, newlyAdded...)
	}
	e.sequences = survivors
	custom = strongerCustom(custom, seqCustom)

	return custom
}

func (e *Engine) decayTracker() {
	if !e.tracker.armed {
		return
	}
	if e.tracker.remaining > 0 {
		e.tracker.remaining--
	}
	if e.tracker.remaining == 0 {
		e.tracker.armed = false
	}
}

// Keycodes returns every HID keycode currently asserted, in insertion
// order. The returned slice aliases Engine-owned storage and is only
// valid until the next Tick or Event call.
func (e *Engine) Keycodes() []keycode.KeyCode {
	e.keycodeBuf = e.states.keycodes(e.keycodeBuf)
	return e.keycodeBuf
}

func (e *Engine) currentLayer() uint8 {
	return e.states.currentLayer(e.defaultLayer)
}

func (e *Engine) lookup(layer uint8, coord matrix.Coord) action.Action {
	if int(layer) >= len(e.table) {
		return action.NoOp()
	}
	rows := e.table[layer]
	if int(coord.Row) >= len(rows) {
		return action.NoOp()
	}
	cols := rows[coord.Row]
	if int(coord.Col) >= len(cols) {
		return action.NoOp()
	}
	return cols[coord.Col]
}

// pressAsAction resolves the action table entry for coord on layer,
// falling through a single Trans to the default layer. A Trans on the
// default layer itself — or a Trans found after that one fallthrough —
// degrades to NoOp rather than recursing further (spec.md §9 Open
// Question: "must not recurse").
func (e *Engine) pressAsAction(coord matrix.Coord, layer uint8) action.Action {
	a := e.lookup(layer, coord)
	if a.Kind != action.KindTrans {
		return a
	}
	if layer == e.defaultLayer {
		return action.NoOp()
	}
	fallback := e.lookup(e.defaultLayer, coord)
	if fallback.Kind == action.KindTrans {
		return action.NoOp()
	}
	return fallback
}

func (e *Engine) applyAgedEvent(a kbevent.Aged) CustomEvent {
	if a.Event.Press {
		act := e.pressAsAction(a.Event.Coord, e.currentLayer())
		return e.performAction(act, a.Event.Coord, a.Age)
	}
	return e.release(a.Event.Coord)
}

func (e *Engine) release(coord matrix.Coord) CustomEvent {
	removed := e.states.removeCoord(coord)
	if len(removed) == 0 {
		return CustomEvent{}
	}
	return CustomEvent{Kind: CustomEventRelease, Value: removed[len(removed)-1]}
}

// performAction is do_action: it carries out a already-resolved
// action at coord, using pressAge only to seed a new HoldTap's
// initial_delay.
func (e *Engine) performAction(a action.Action, coord matrix.Coord, pressAge uint16) CustomEvent {
	switch a.Kind {
	case action.KindNoOp, action.KindTrans:
		return CustomEvent{}

	case action.KindKeyCode:
		e.states.insert(state{Kind: stateNormalKey, KeyCode: a.KeyCode, Coord: coord, HasCoord: true})
		return CustomEvent{}

	case action.KindMultipleKeyCodes:
		for _, k := range a.KeyCodes {
			e.states.insert(state{Kind: stateNormalKey, KeyCode: k, Coord: coord, HasCoord: true})
		}
		return CustomEvent{}

	case action.KindMultipleActions:
		result := CustomEvent{}
		for _, sub := range a.Actions {
			result = strongerCustom(result, e.performAction(sub, coord, pressAge))
		}
		return result

	case action.KindLayer:
		e.states.insert(state{Kind: stateLayerModifier, Layer: a.Layer, Coord: coord, HasCoord: true})
		return CustomEvent{}

	case action.KindDefaultLayer:
		if a.Layer < e.numLayers {
			e.defaultLayer = a.Layer
		}
		return CustomEvent{}

	case action.KindHoldTap:
		return e.performHoldTap(a.HoldTap, coord, pressAge)

	case action.KindSequence:
		e.enqueueSequence(a.Sequence)
		return CustomEvent{}

	case action.KindCancelSequence:
		// Running sequences are emptied in place rather than cut from
		// e.sequences: Tick holds a snapshot of the list taken before
		// this event, and advanceSequences drops emptied entries.
		for _, seq := range e.sequences {
			seq.remaining = nil
			seq.delayRemaining = 0
			seq.pendingTapRelease = nil
			seq.asserted = nil
		}
		e.states.removeAllFakeKeys()
		return CustomEvent{}

	case action.KindCustom:
		e.states.insert(state{Kind: stateCustom, Custom: a.CustomVal, Coord: coord, HasCoord: true})
		return CustomEvent{Kind: CustomEventPress, Value: a.CustomVal}

	default:
		return CustomEvent{}
	}
}

func (e *Engine) performHoldTap(spec *action.HoldTapSpec, coord matrix.Coord, pressAge uint16) CustomEvent {
	if spec.TapHoldInterval > 0 && e.tracker.armed && e.tracker.coord == coord {
		result := e.performAction(*spec.Tap, coord, 0)
		e.tracker.coord = coord
		e.tracker.armed = true
		e.tracker.remaining = spec.TapHoldInterval
		return result
	}

	e.waiting = &waitingState{
		coord:            coord,
		timeoutRemaining: spec.Timeout,
		initialDelay:     pressAge,
		hold:             spec.Hold,
		tap:              spec.Tap,
		config:           spec.Config,
	}

	e.tracker.coord = coord
	e.tracker.armed = spec.TapHoldInterval > 0
	e.tracker.remaining = spec.TapHoldInterval
	return CustomEvent{}
}

func (e *Engine) consultWaiting() CustomEvent {
	w := e.waiting
	if w.timeoutRemaining > 0 {
		w.timeoutRemaining--
	}

	switch e.decide(w) {
	case action.DecisionHold:
		e.waiting = nil
		return e.performAction(*w.hold, w.coord, 0)
	case action.DecisionTap:
		e.waiting = nil
		return e.performAction(*w.tap, w.coord, 0)
	case action.DecisionNoOp:
		e.waiting = nil
		return CustomEvent{}
	default:
		return CustomEvent{}
	}
}

// decide implements spec.md §4.4.4: each HoldTapConfig strategy tries
// its own early-Hold rule first, then falls through to the Default
// timeout/release-age comparison.
func (e *Engine) decide(w *waitingState) action.Decision {
	switch w.config.Kind {
	case action.HTHoldOnOtherKeyPress:
		if e.ring.anyPress() {
			return action.DecisionHold
		}
	case action.HTPermissiveHold:
		if e.ring.hasTapPair() {
			return action.DecisionHold
		}
	case action.HTCustom:
		if w.config.Custom != nil {
			e.ringSnapBuf = e.ring.snapshot(e.ringSnapBuf)
			if dec, ok := w.config.Custom(e.ringSnapBuf); ok {
				return dec
			}
		}
	}

	if age, ok := e.ring.releaseAge(w.coord); ok {
		if w.timeoutRemaining+int(age) >= int(w.initialDelay) {
			return action.DecisionTap
		}
		return action.DecisionHold
	}
	if w.timeoutRemaining == 0 {
		return action.DecisionHold
	}
	return action.DecisionPending
}

func (e *Engine) enqueueSequence(events []action.SequenceEvent) {
	if len(e.sequences) >= maxSequences {
		return
	}
	cp := make([]action.SequenceEvent, len(events))
	copy(cp, events)
	e.sequences = append(e.sequences, &sequenceState{remaining: cp})
}

// advanceSequences runs one script step for every sequence in seqs
// (a snapshot taken before this tick's event application — a sequence
// enqueued this same tick starts advancing next tick, not this one),
// returning the survivors and the strongest Custom pulse produced.
func (e *Engine) advanceSequences(seqs []*sequenceState) ([]*sequenceState, CustomEvent) {
	result := CustomEvent{}
	live := seqs[:0]
	for _, seq := range seqs {
		result = strongerCustom(result, e.advanceOne(seq))
		if !seq.done() {
			live = append(live, seq)
		}
	}
	return live, result
}

func (e *Engine) advanceOne(seq *sequenceState) CustomEvent {
	if seq.delayRemaining > 0 {
		seq.delayRemaining--
		return CustomEvent{}
	}
	if seq.pendingTapRelease != nil {
		k := *seq.pendingTapRelease
		e.states.removeFakeKey(k)
		removeAsserted(seq, k)
		seq.pendingTapRelease = nil
		return CustomEvent{}
	}
	if len(seq.remaining) == 0 {
		return CustomEvent{}
	}

	ev := seq.remaining[0]
	seq.remaining = seq.remaining[1:]
	switch ev.Kind {
	case action.SeqPress:
		e.states.insert(state{Kind: stateFakeKey, KeyCode: ev.Key})
		seq.asserted = append(seq.asserted, ev.Key)
	case action.SeqRelease:
		e.states.removeFakeKey(ev.Key)
		removeAsserted(seq, ev.Key)
	case action.SeqTap:
		e.states.insert(state{Kind: stateFakeKey, KeyCode: ev.Key})
		seq.asserted = append(seq.asserted, ev.Key)
		k := ev.Key
		seq.pendingTapRelease = &k
	case action.SeqDelay:
		if ev.Ticks > 0 {
			seq.delayRemaining = ev.Ticks - 1
		}
	case action.SeqComplete:
		for _, k := range seq.asserted {
			e.states.removeFakeKey(k)
		}
		seq.asserted = nil
		seq.remaining = nil
	}
	return CustomEvent{}
}
