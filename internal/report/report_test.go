package report

import (
	"testing"

	"github.com/kbfw/firmware/internal/keycode"
)

func TestBuildPacksModifierBitmapSeparately(t *testing.T) {
	r := Build([]keycode.KeyCode{keycode.LCtrl, keycode.LShift, keycode.A})
	wantMod := byte(1<<0 | 1<<1)
	if r[0] != wantMod {
		t.Fatalf("modifier byte = %#x, want %#x", r[0], wantMod)
	}
	if r[1] != 0 {
		t.Fatalf("reserved byte = %#x, want 0", r[1])
	}
	if r[2] != byte(keycode.A) {
		t.Fatalf("key1 = %#x, want %#x", r[2], byte(keycode.A))
	}
}

func TestBuildPreservesInsertionOrder(t *testing.T) {
	r := Build([]keycode.KeyCode{keycode.C, keycode.A, keycode.B})
	want := [3]byte{byte(keycode.C), byte(keycode.A), byte(keycode.B)}
	for i, w := range want {
		if r[2+i] != w {
			t.Fatalf("key%d = %#x, want %#x", i+1, r[2+i], w)
		}
	}
}

func TestBuildFillsErrorRollOverOnOverflow(t *testing.T) {
	codes := []keycode.KeyCode{
		keycode.A, keycode.B, keycode.C, keycode.D, keycode.E, keycode.F, keycode.G,
	}
	r := Build(codes)
	for i := 2; i < 8; i++ {
		if r[i] != byte(keycode.ErrorRollOver) {
			t.Fatalf("byte %d = %#x, want ErrorRollOver", i, r[i])
		}
	}
}

func TestBuildDropsNoWithoutCountingTowardRollover(t *testing.T) {
	codes := []keycode.KeyCode{
		keycode.A, keycode.B, keycode.C, keycode.D, keycode.E, keycode.F, keycode.No,
	}
	r := Build(codes)
	want := [6]byte{
		byte(keycode.A), byte(keycode.B), byte(keycode.C),
		byte(keycode.D), byte(keycode.E), byte(keycode.F),
	}
	for i, w := range want {
		if r[2+i] != w {
			t.Fatalf("key%d = %#x, want %#x (No must not occupy a slot or trigger rollover)", i+1, r[2+i], w)
		}
	}
}

func TestBuildFillsAllOnAssertedErrorCode(t *testing.T) {
	for _, errCode := range []keycode.KeyCode{keycode.ErrorRollOver, keycode.PostFail, keycode.ErrorUndefined} {
		r := Build([]keycode.KeyCode{keycode.A, errCode, keycode.B})
		for i := 2; i < 8; i++ {
			if r[i] != byte(errCode) {
				t.Fatalf("code %v: byte %d = %#x, want %#x filled across bytes 2..8", errCode, i, r[i], byte(errCode))
			}
		}
	}
}

func TestBuildIntoReusesDestination(t *testing.T) {
	var r Report
	BuildInto(&r, []keycode.KeyCode{keycode.LAlt, keycode.Space})
	if r[0] != 1<<2 {
		t.Fatalf("modifier byte = %#x, want LAlt bit set", r[0])
	}
	if r[2] != byte(keycode.Space) {
		t.Fatalf("key1 = %#x, want Space", r[2])
	}

	BuildInto(&r, nil)
	for i, b := range r.Bytes() {
		if b != 0 {
			t.Fatalf("byte %d = %#x after clearing report, want 0", i, b)
		}
	}
}

type fakeSink struct {
	states map[LED]bool
}

func (s *fakeSink) SetLED(l LED, on bool) {
	if s.states == nil {
		s.states = map[LED]bool{}
	}
	s.states[l] = on
}

func TestDispatchLEDFansOutEveryBit(t *testing.T) {
	sink := &fakeSink{}
	DispatchLED(sink, 1<<LEDCapsLock|1<<LEDKana)

	want := map[LED]bool{
		LEDNumLock:    false,
		LEDCapsLock:   true,
		LEDScrollLock: false,
		LEDCompose:    false,
		LEDKana:       true,
	}
	for led, on := range want {
		if sink.states[led] != on {
			t.Fatalf("LED %d = %v, want %v", led, sink.states[led], on)
		}
	}
}
