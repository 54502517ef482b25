// Package report builds USB HID boot-protocol keyboard reports from
// the layout engine's active keycode set, and fans a host LED report
// back out to modifier/lock indicators (spec.md §4.4.7, §4.5).
//
// The 8-byte layout — [modifier, reserved, key1..key6] — mirrors the
// teacher's AOA2 keyboard descriptor (aoa.keyboardDescriptor, kbDown).
package report

import "github.com/kbfw/firmware/internal/keycode"

// Report is one boot-protocol keyboard input report.
type Report [8]byte

// Bytes returns r as a byte slice suitable for a USB interrupt-in
// transfer.
func (r *Report) Bytes() []byte { return r[:] }

// maxNonModifierKeys is the number of non-modifier key slots in a
// boot report (bytes 2..7).
const maxNonModifierKeys = 6

// Build packs codes into a boot report: modifiers OR into byte 0's
// bitmap, and up to six non-modifier codes fill bytes 2..7 in
// insertion order. More than six non-modifier codes is a rollover
// condition — the report fills with ErrorRollOver instead of
// reporting a truncated, ambiguous key set (USB HID 1.11 §10).
func Build(codes []keycode.KeyCode) Report {
	var r Report
	BuildInto(&r, codes)
	return r
}

// BuildInto writes into dst without allocating, for callers on a tick
// budget that already own a Report to reuse. keycode.No is dropped —
// it never occupies a slot or counts toward the six-key limit — and
// any of ErrorRollOver/PostFail/ErrorUndefined asserted among codes
// fills bytes 2..7 entirely, per the HID boot-keyboard convention
// (USB HID 1.11 §10; keyberon's KbHidReport::pressed treats them the
// same way).
func BuildInto(dst *Report, codes []keycode.KeyCode) {
	*dst = Report{}

	var nonMod [maxNonModifierKeys]keycode.KeyCode
	var n int
	overflow := false

	for _, k := range codes {
		switch {
		case k == keycode.No:
			continue
		case k == keycode.ErrorRollOver || k == keycode.PostFail || k == keycode.ErrorUndefined:
			for i := 2; i < len(dst); i++ {
				dst[i] = byte(k)
			}
			return
		case keycode.IsModifier(k):
			dst[0] |= 1 << keycode.ModifierBit(k)
			continue
		}
		if n < maxNonModifierKeys {
			nonMod[n] = k
		} else {
			overflow = true
		}
		n++
	}

	if overflow {
		for i := 2; i < len(dst); i++ {
			dst[i] = byte(keycode.ErrorRollOver)
		}
		return
	}
	for i := 0; i < n; i++ {
		dst[2+i] = byte(nonMod[i])
	}
}
