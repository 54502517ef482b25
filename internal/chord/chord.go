// Package chord recognizes simultaneous multi-key combinations,
// folding them into a single virtual-coordinate event. It sits
// immediately after debouncing (spec.md §4.3) and relies on the
// debouncer to have already batched near-simultaneous presses into
// the same tick's event list.
package chord

import (
	"fmt"

	"github.com/kbfw/firmware/internal/kbevent"
	"github.com/kbfw/firmware/internal/matrix"
)

// MaxInputs and MaxChords bound a single chord's input count and the
// total number of configured chords (spec.md §4.3).
const (
	MaxInputs = 8
	MaxChords = 16
)

// Definition is one chord: pressing every coordinate in Inputs
// simultaneously yields a single Press(Result); releasing all of them
// yields a single Release(Result).
type Definition struct {
	Result matrix.Coord
	Inputs []matrix.Coord
}

type chordState struct {
	def      Definition
	asserted uint8 // bit i set iff Inputs[i] currently asserted
	full     uint8 // bitmask with every input bit set
	active   bool  // in_progress
}

// Engine tracks a static list of chord definitions across ticks.
type Engine struct {
	chords []chordState

	// Scratch state reused across Process calls to avoid per-tick
	// allocation once warmed up.
	removed    []bool
	insert     []*kbevent.Event
	resultBuf  []kbevent.Event
	contribIdx [MaxChords][]int // press-or-release contributor indices, this call only
}

// New validates and builds a chord Engine from a static definition
// table (the configuration surface is compile-time per spec.md §6).
func New(defs []Definition) (*Engine, error) {
	if len(defs) > MaxChords {
		return nil, fmt.Errorf("chord: %d definitions exceeds max %d", len(defs), MaxChords)
	}
	e := &Engine{chords: make([]chordState, len(defs))}
	for i, d := range defs {
		if len(d.Inputs) == 0 || len(d.Inputs) > MaxInputs {
			return nil, fmt.Errorf("chord: definition %d has %d inputs, want 1..%d", i, len(d.Inputs), MaxInputs)
		}
		e.chords[i] = chordState{def: d, full: (1 << uint(len(d.Inputs))) - 1}
		e.contribIdx[i] = make([]int, 0, MaxInputs)
	}
	return e, nil
}

func (s *chordState) inputBit(coord matrix.Coord) (int, bool) {
	for i, c := range s.def.Inputs {
		if c == coord {
			return i, true
		}
	}
	return 0, false
}

// Process folds recognized chords out of events, returning the
// pass-through stream with contributing presses/releases removed and
// Press/Release(result_coord) substituted at the point of completion.
// The returned slice aliases Engine-owned storage and is only valid
// until the next call to Process.
func (e *Engine) Process(events []kbevent.Event) []kbevent.Event {
	n := len(events)
	if cap(e.removed) < n {
		e.removed = make([]bool, n)
		e.insert = make([]*kbevent.Event, n)
	}
	removed := e.removed[:n]
	insert := e.insert[:n]
	for i := range removed {
		removed[i] = false
		insert[i] = nil
	}
	for i := range e.contribIdx {
		e.contribIdx[i] = e.contribIdx[i][:0]
	}

	for idx, ev := range events {
		for ci := range e.chords {
			s := &e.chords[ci]
			bit, ok := s.inputBit(ev.Coord)
			if !ok {
				continue
			}
			mask := uint8(1) << uint(bit)
			if ev.Press {
				if s.active {
					continue // already folded; a stray extra press is ignored
				}
				s.asserted |= mask
				e.contribIdx[ci] = append(e.contribIdx[ci], idx)
				if s.asserted == s.full {
					s.active = true
					for _, j := range e.contribIdx[ci] {
						removed[j] = true
					}
					result := kbevent.NewPress(s.def.Result)
					insert[idx] = &result
					e.contribIdx[ci] = e.contribIdx[ci][:0]
				}
			} else {
				if s.asserted&mask == 0 {
					continue // not part of the current assertion
				}
				s.asserted &^= mask
				if s.active {
					e.contribIdx[ci] = append(e.contribIdx[ci], idx)
					removed[idx] = true
					if s.asserted == 0 {
						s.active = false
						for _, j := range e.contribIdx[ci] {
							removed[j] = true
						}
						result := kbevent.NewRelease(s.def.Result)
						insert[idx] = &result
						e.contribIdx[ci] = e.contribIdx[ci][:0]
					}
				}
			}
		}
	}

	e.resultBuf = e.resultBuf[:0]
	for idx, ev := range events {
		switch {
		case insert[idx] != nil:
			e.resultBuf = append(e.resultBuf, *insert[idx])
		case removed[idx]:
			// dropped: a contributing press of a chord completed in
			// this call, or a release of an active chord's input.
		default:
			e.resultBuf = append(e.resultBuf, ev)
		}
	}
	return e.resultBuf
}
