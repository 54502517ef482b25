package layout

import (
	"github.com/kbfw/firmware/internal/action"
	"github.com/kbfw/firmware/internal/keycode"
)

// maxSequences bounds the number of concurrently running macros
// (spec.md §3 "SequenceState": "capacity ≥4"). A Sequence action
// triggered past this limit is silently dropped, the same best-effort
// posture as stateSet.insert.
const maxSequences = 4

// sequenceState is one running macro. asserted tracks every fake
// keycode this sequence currently has pressed so Complete can release
// exactly those and nothing another sequence asserted.
type sequenceState struct {
	remaining         []action.SequenceEvent
	delayRemaining    int
	pendingTapRelease *keycode.KeyCode
	asserted          []keycode.KeyCode
}

func (seq *sequenceState) done() bool {
	return len(seq.remaining) == 0 && seq.pendingTapRelease == nil && seq.delayRemaining == 0
}

func removeAsserted(seq *sequenceState, k keycode.KeyCode) {
	for i, a := range seq.asserted {
		if a == k {
			seq.asserted = append(seq.asserted[:i], seq.asserted[i+1:]...)
			return
		}
	}
}
