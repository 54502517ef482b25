package layout

import (
	"reflect"
	"sort"
	"testing"

	"github.com/kbfw/firmware/internal/action"
	"github.com/kbfw/firmware/internal/kbevent"
	"github.com/kbfw/firmware/internal/keycode"
	"github.com/kbfw/firmware/internal/matrix"
)

func coord(r, c uint8) matrix.Coord { return matrix.Coord{Row: r, Col: c} }

func press(e *Engine, r, c uint8)   { e.Event(kbevent.NewPress(coord(r, c))) }
func release(e *Engine, r, c uint8) { e.Event(kbevent.NewRelease(coord(r, c))) }

// keys returns the engine's asserted keycodes as a sorted name set,
// order-independent so tests can compare with reflect.DeepEqual.
func keys(e *Engine) []string {
	got := e.Keycodes()
	names := make([]string, len(got))
	for i, k := range got {
		names[i] = k.String()
	}
	sort.Strings(names)
	return names
}

func oneLayerTable(row []action.Action) [][][]action.Action {
	return [][][]action.Action{{row}}
}

func TestHoldOnOtherKeyPressScenario(t *testing.T) {
	// (0,0): HoldTap{hold=LAlt, tap=Space, HoldOnOtherKeyPress}; (0,1): Enter.
	hold := action.KC(keycode.LAlt)
	tap := action.KC(keycode.Space)
	table := [][][]action.Action{{{
		action.HoldTap(50, hold, tap, action.HoldOnOtherKeyPress(), 0),
		action.KC(keycode.Enter),
	}}}
	e, err := New(table)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	press(e, 0, 0)
	e.Tick()
	if got := keys(e); len(got) != 0 {
		t.Fatalf("after press(0,0): got %v, want empty", got)
	}

	press(e, 0, 1)
	e.Tick()
	if got, want := keys(e), []string{"LAlt"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after press(0,1): got %v, want %v", got, want)
	}

	e.Tick()
	if got, want := keys(e), []string{"Enter", "LAlt"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after drain tick: got %v, want %v", got, want)
	}

	release(e, 0, 0)
	e.Tick()
	if got, want := keys(e), []string{"Enter"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after release(0,0): got %v, want %v", got, want)
	}

	release(e, 0, 1)
	e.Tick()
	if got := keys(e); len(got) != 0 {
		t.Fatalf("after release(0,1): got %v, want empty", got)
	}
}

func TestPermissiveHoldScenario(t *testing.T) {
	// spec.md §8 scenario 3 states this trace resolving in a single
	// tick ("press(0,0), press(0,1), release(0,1), tick -> {LAlt}").
	// This engine consumes at most one ring entry per Tick (spec.md
	// §4.4.3 step 3: "if not waiting, apply exactly one event"), so
	// installing (0,0)'s WaitingState and then consulting it against
	// the already-queued (0,1) press/release pair are two separate
	// ticks here; see DESIGN.md's Open Question decisions for the
	// reconciliation. The resolved keys after both ticks match the
	// spec exactly.
	hold := action.KC(keycode.LAlt)
	tap := action.KC(keycode.Space)
	table := [][][]action.Action{{{
		action.HoldTap(50, hold, tap, action.PermissiveHold(), 0),
		action.KC(keycode.Enter),
	}}}
	e, _ := New(table)

	press(e, 0, 0)
	press(e, 0, 1)
	release(e, 0, 1)

	e.Tick() // installs WaitingState for (0,0)
	e.Tick() // consults it: ring holds a full press/release pair for (0,1) -> Hold
	if got, want := keys(e), []string{"LAlt"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after permissive-hold resolves: got %v, want %v", got, want)
	}

	e.Tick() // drains the queued press(0,1)
	if got, want := keys(e), []string{"Enter", "LAlt"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after draining press(0,1): got %v, want %v", got, want)
	}

	e.Tick() // drains the queued release(0,1)
	if got, want := keys(e), []string{"LAlt"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after draining release(0,1): got %v, want %v", got, want)
	}

	release(e, 0, 0)
	e.Tick()
	if got := keys(e); len(got) != 0 {
		t.Fatalf("after release(0,0): got %v, want empty", got)
	}
}

func TestDefaultConfigResolvesTapOnQuickRelease(t *testing.T) {
	// Covers the Default-config Tap path in decide (layout.go) — a
	// release queued behind the press ages past the key's own
	// initial delay before the WaitingState is consulted, so the
	// timeout+age comparison picks Tap over Hold (spec.md §8
	// scenario 1's Default/tap resolution, §4.4.4).
	hold := action.KC(keycode.LAlt)
	tap := action.KC(keycode.Space)
	table := [][][]action.Action{{{
		action.HoldTap(50, hold, tap, action.Default(), 0),
	}}}
	e, err := New(table)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	press(e, 0, 0)
	release(e, 0, 0)

	e.Tick() // installs WaitingState for (0,0)
	e.Tick() // consults it: the queued release has aged enough to pick Tap
	if got, want := keys(e), []string{"Space"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after quick release resolves: got %v, want %v", got, want)
	}

	e.Tick() // drains the queued release, clearing the Tap key
	if got := keys(e); len(got) != 0 {
		t.Fatalf("after draining release: got %v, want empty", got)
	}
}

func TestTapHoldIntervalRepeatsTapWithoutReopeningWaitingState(t *testing.T) {
	// Covers the TapHoldInterval auto-repeat shortcut (layout.go's
	// tapHoldTracker / performHoldTap): a second press of the same
	// HoldTap coordinate within the window started by the first press
	// performs Tap immediately, with no WaitingState in between.
	hold := action.KC(keycode.LAlt)
	tap := action.KC(keycode.Space)
	table := [][][]action.Action{{{
		action.HoldTap(50, hold, tap, action.Default(), 5),
	}}}
	e, err := New(table)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	press(e, 0, 0)
	release(e, 0, 0)
	e.Tick() // installs WaitingState, arms the tracker
	e.Tick() // resolves Tap, tracker stays armed
	if got, want := keys(e), []string{"Space"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after first tap resolves: got %v, want %v", got, want)
	}
	e.Tick() // drains the queued release
	if got := keys(e); len(got) != 0 {
		t.Fatalf("after draining first release: got %v, want empty", got)
	}

	press(e, 0, 0) // second press, still within the tracker's window
	e.Tick()       // auto-repeat shortcut: Tap fires immediately, no WaitingState
	if e.waiting != nil {
		t.Fatalf("waiting = %+v, want nil — auto-repeat must bypass disambiguation", e.waiting)
	}
	if got, want := keys(e), []string{"Space"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after auto-repeat press: got %v, want %v", got, want)
	}

	release(e, 0, 0)
	e.Tick()
	if got := keys(e); len(got) != 0 {
		t.Fatalf("after releasing second tap: got %v, want empty", got)
	}
}

func TestMultipleActionsStacksLayerAndKey(t *testing.T) {
	table := [][][]action.Action{
		{{action.MultiActions(action.LayerAction(1), action.KC(keycode.LShift)), action.KC(keycode.F)}},
		{{action.Trans(), action.KC(keycode.E)}},
	}
	e, err := New(table)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	press(e, 0, 0)
	e.Tick()
	if got, want := keys(e), []string{"LShift"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after press(0,0): got %v, want %v", got, want)
	}

	press(e, 0, 1)
	e.Tick()
	if got, want := keys(e), []string{"E", "LShift"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after press(0,1) on layer 1: got %v, want %v", got, want)
	}

	release(e, 0, 0)
	e.Tick()
	if got, want := keys(e), []string{"E"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("after release(0,0): got %v, want %v", got, want)
	}

	release(e, 0, 1)
	e.Tick()
	if got := keys(e); len(got) != 0 {
		t.Fatalf("after release(0,1): got %v, want empty", got)
	}
}

func TestCustomActionPulsesPressThenRelease(t *testing.T) {
	const marker = "relay-42"
	table := oneLayerTable([]action.Action{action.Custom(marker)})
	e, _ := New(table)

	press(e, 0, 0)
	evt := e.Tick()
	if evt.Kind != CustomEventPress || evt.Value != marker {
		t.Fatalf("got %+v, want Press(%q)", evt, marker)
	}
	if got := keys(e); len(got) != 0 {
		t.Fatalf("custom state must not surface as a keycode, got %v", got)
	}

	release(e, 0, 0)
	evt = e.Tick()
	if evt.Kind != CustomEventRelease || evt.Value != marker {
		t.Fatalf("got %+v, want Release(%q)", evt, marker)
	}
}

func TestSequenceMacroPlaysCtrlC(t *testing.T) {
	table := oneLayerTable([]action.Action{
		action.Sequence(
			action.Press(keycode.LCtrl),
			action.Press(keycode.C),
			action.Release(keycode.C),
			action.Release(keycode.LCtrl),
		),
	})
	e, _ := New(table)

	press(e, 0, 0)
	e.Tick() // enqueues the sequence; nothing plays yet
	if got := keys(e); len(got) != 0 {
		t.Fatalf("enqueue tick: got %v, want empty", got)
	}

	e.Tick()
	if got, want := keys(e), []string{"LCtrl"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("step1: got %v, want %v", got, want)
	}

	e.Tick()
	if got, want := keys(e), []string{"C", "LCtrl"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("step2: got %v, want %v", got, want)
	}

	e.Tick()
	if got, want := keys(e), []string{"LCtrl"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("step3: got %v, want %v", got, want)
	}

	e.Tick()
	if got := keys(e); len(got) != 0 {
		t.Fatalf("step4: got %v, want empty", got)
	}
}

func TestTransFallsThroughToDefaultLayer(t *testing.T) {
	table := [][][]action.Action{
		{{action.KC(keycode.A)}},
		{{action.Trans()}},
	}
	e, _ := New(table)
	e.defaultLayer = 0
	e.states.insert(state{Kind: stateLayerModifier, Layer: 1, HasCoord: true, Coord: coord(9, 9)})

	press(e, 0, 0)
	e.Tick()
	if got, want := keys(e), []string{"A"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Trans should fall through to default layer: got %v, want %v", got, want)
	}
}

func TestTransOnDefaultLayerIsNoOp(t *testing.T) {
	table := [][][]action.Action{{{action.Trans()}}}
	e, _ := New(table)

	press(e, 0, 0)
	e.Tick()
	if got := keys(e); len(got) != 0 {
		t.Fatalf("Trans on default layer must be NoOp, got %v", got)
	}
}

func TestRingOverflowForcesHoldAndAppliesDisplacedEvent(t *testing.T) {
	hold := action.KC(keycode.LAlt)
	tap := action.KC(keycode.Space)
	table := oneLayerTable([]action.Action{
		action.HoldTap(1000, hold, tap, action.Default(), 0),
	})
	e, _ := New(table)

	press(e, 0, 0)
	e.Tick() // installs the WaitingState; ring now empty

	for i := 0; i < ringCapacity+1; i++ {
		e.Event(kbevent.NewPress(coord(1, 1)))
	}
	if got, want := keys(e), []string{"LAlt"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("overflow should force the waiting HoldTap to resolve Hold: got %v, want %v", got, want)
	}
}

func TestDefaultLayerActionChangesBaseLayer(t *testing.T) {
	table := [][][]action.Action{
		{{action.DefaultLayer(1), action.KC(keycode.A)}},
		{{action.DefaultLayer(0), action.KC(keycode.B)}},
	}
	e, _ := New(table)

	press(e, 0, 0)
	e.Tick()
	release(e, 0, 0)
	e.Tick()

	if e.currentLayer() != 1 {
		t.Fatalf("default layer = %d, want 1", e.currentLayer())
	}

	press(e, 0, 1)
	e.Tick()
	if got, want := keys(e), []string{"B"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
