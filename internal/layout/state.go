package layout

import (
	"github.com/kbfw/firmware/internal/keycode"
	"github.com/kbfw/firmware/internal/matrix"
)

// stateKind discriminates the active-state variants the engine tracks
// while keys are held (spec.md §3 "State").
type stateKind uint8

const (
	stateNormalKey stateKind = iota
	stateLayerModifier
	stateFakeKey
	stateCustom
)

// state is one entry in the engine's active-state set. Only the
// fields matching Kind are meaningful.
type state struct {
	Kind     stateKind
	KeyCode  keycode.KeyCode // stateNormalKey, stateFakeKey
	Coord    matrix.Coord    // stateNormalKey, stateLayerModifier, stateCustom
	HasCoord bool
	Layer    uint8 // stateLayerModifier
	Custom   any   // stateCustom
}

// stateCapacity bounds the active-state set (spec.md §3: "capacity
// 64"). Insertion past capacity is silently dropped, matching the
// keyberon-derived "best effort" semantics rather than panicking on a
// pathological keymap.
const stateCapacity = 64

// stateSet is the engine's bounded, insertion-ordered set of active
// states. Order matters: current_layer scans back-to-front so the
// most recently asserted LayerModifier wins (spec.md §4.4.1).
type stateSet struct {
	items [stateCapacity]state
	n     int
}

func (s *stateSet) insert(st state) bool {
	if s.n >= stateCapacity {
		return false
	}
	s.items[s.n] = st
	s.n++
	return true
}

// removeCoord drops every state owning coord, preserving the relative
// order of what remains, and returns the Custom payload of any
// removed stateCustom entries (for Release pulses).
func (s *stateSet) removeCoord(coord matrix.Coord) []any {
	var removed []any
	w := 0
	for r := 0; r < s.n; r++ {
		st := s.items[r]
		if st.HasCoord && st.Coord == coord {
			if st.Kind == stateCustom {
				removed = append(removed, st.Custom)
			}
			continue
		}
		s.items[w] = st
		w++
	}
	s.n = w
	return removed
}

// removeFakeKey drops the first stateFakeKey entry matching k.
func (s *stateSet) removeFakeKey(k keycode.KeyCode) bool {
	for r := 0; r < s.n; r++ {
		if s.items[r].Kind == stateFakeKey && s.items[r].KeyCode == k {
			copy(s.items[r:s.n-1], s.items[r+1:s.n])
			s.n--
			return true
		}
	}
	return false
}

// removeAllFakeKeys drops every stateFakeKey entry (CancelSequence).
func (s *stateSet) removeAllFakeKeys() {
	w := 0
	for r := 0; r < s.n; r++ {
		if s.items[r].Kind == stateFakeKey {
			continue
		}
		s.items[w] = s.items[r]
		w++
	}
	s.n = w
}

// currentLayer scans back-to-front for the most recently pushed
// LayerModifier; with none active it returns defaultLayer.
func (s *stateSet) currentLayer(defaultLayer uint8) uint8 {
	for i := s.n - 1; i >= 0; i-- {
		if s.items[i].Kind == stateLayerModifier {
			return s.items[i].Layer
		}
	}
	return defaultLayer
}

// keycodes appends every NormalKey and FakeKey keycode, in insertion
// order, reusing buf's backing array.
func (s *stateSet) keycodes(buf []keycode.KeyCode) []keycode.KeyCode {
	buf = buf[:0]
	for i := 0; i < s.n; i++ {
		switch s.items[i].Kind {
		case stateNormalKey, stateFakeKey:
			buf = append(buf, s.items[i].KeyCode)
		}
	}
	return buf
}
