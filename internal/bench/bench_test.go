package bench

import (
	"testing"

	"github.com/kbfw/firmware/internal/kbevent"
	"github.com/kbfw/firmware/internal/keycode"
	"github.com/kbfw/firmware/internal/matrix"
)

func coord(r, c uint8) matrix.Coord { return matrix.Coord{Row: r, Col: c} }

func hasKey(codes []keycode.KeyCode, want keycode.KeyCode) bool {
	for _, k := range codes {
		if k == want {
			return true
		}
	}
	return false
}

func TestRigTicksPlainKeyThroughDebounce(t *testing.T) {
	rig, err := New(DefaultTable(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rig.SetKey(coord(0, 1), true) // layer0[1] = A
	for i := 0; i < DebounceThreshold+1; i++ {
		rig.Tick()
	}

	if !hasKey(rig.Keycodes(), keycode.A) {
		t.Fatalf("keycodes = %v, want A asserted after debounce settles", rig.Keycodes())
	}

	rig.SetKey(coord(0, 1), false)
	for i := 0; i < DebounceThreshold+1; i++ {
		rig.Tick()
	}
	if hasKey(rig.Keycodes(), keycode.A) {
		t.Fatalf("keycodes = %v, want A cleared after release debounces", rig.Keycodes())
	}
}

func TestRigHoldTapLayerSwitchesFunctionRow(t *testing.T) {
	rig, err := New(DefaultTable(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rig.SetKey(coord(0, 0), true) // holdTapLayer
	for i := 0; i < DebounceThreshold+250; i++ {
		rig.Tick() // outlast the 200-tick hold timeout so it resolves Hold
	}

	rig.SetKey(coord(0, 1), true) // layer1[1] = F1 while layer0[1] = A
	for i := 0; i < DebounceThreshold+1; i++ {
		rig.Tick()
	}

	if !hasKey(rig.Keycodes(), keycode.F1) {
		t.Fatalf("keycodes = %v, want F1 while hold-tap layer is held", rig.Keycodes())
	}
	if hasKey(rig.Keycodes(), keycode.A) {
		t.Fatalf("keycodes = %v, want A shadowed by the active layer", rig.Keycodes())
	}
}

func TestRigInjectEventBypassesDebounce(t *testing.T) {
	rig, err := New(DefaultTable(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	rig.InjectEvent(kbevent.NewPress(coord(0, 2))) // layer0[2] = B
	rig.Tick()

	if !hasKey(rig.Keycodes(), keycode.B) {
		t.Fatalf("keycodes = %v, want B asserted immediately via InjectEvent", rig.Keycodes())
	}
}

func TestRigRawGridReflectsSetKey(t *testing.T) {
	rig, err := New(DefaultTable(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rig.SetKey(coord(1, 3), true)
	if !rig.RawGrid().At(1, 3) {
		t.Fatalf("RawGrid().At(1,3) = false, want true")
	}
	rig.SetKey(coord(1, 3), false)
	if rig.RawGrid().At(1, 3) {
		t.Fatalf("RawGrid().At(1,3) = true after clearing, want false")
	}
}

func TestRigSetKeyIgnoresOutOfBoundsCoord(t *testing.T) {
	rig, err := New(DefaultTable(), nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	rig.SetKey(coord(99, 99), true) // must not panic
	rig.Tick()
}
