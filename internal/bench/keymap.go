package bench

import (
	"github.com/kbfw/firmware/internal/action"
	"github.com/kbfw/firmware/internal/keycode"
)

// DefaultTable builds a small two-layer demo keymap, for benches
// launched without a configured keymap file: row 0 holds a HoldTap
// (hold=Layer1, tap=Space), two plain letters (A, B), a Ctrl-C macro,
// and a custom marker; layer 1 puts F1/F2 over the letters and is
// Trans elsewhere in row 0. Every other row is NoOp.
func DefaultTable() [][][]action.Action {
	holdTapLayer := action.HoldTap(200,
		action.LayerAction(1),
		action.KC(keycode.Space),
		action.Default(),
		0,
	)

	ctrlC := action.Sequence(
		action.Press(keycode.LCtrl),
		action.Press(keycode.C),
		action.Release(keycode.C),
		action.Release(keycode.LCtrl),
	)

	layer0 := make([]action.Action, Cols)
	layer0[0] = holdTapLayer
	layer0[1] = action.KC(keycode.A)
	layer0[2] = action.KC(keycode.B)
	layer0[3] = ctrlC
	layer0[4] = action.Custom("bench-marker")
	for i := 5; i < Cols; i++ {
		layer0[i] = action.NoOp()
	}

	layer1 := make([]action.Action, Cols)
	layer1[0] = action.Trans()
	layer1[1] = action.KC(keycode.F1)
	layer1[2] = action.KC(keycode.F2)
	for i := 3; i < Cols; i++ {
		layer1[i] = action.Trans()
	}

	table := make([][][]action.Action, 2)
	for layer, row := range [][]action.Action{layer0, layer1} {
		grid := make([][]action.Action, Rows)
		grid[0] = row
		for r := 1; r < Rows; r++ {
			grid[r] = make([]action.Action, Cols)
			for c := range grid[r] {
				grid[r][c] = action.NoOp()
			}
		}
		table[layer] = grid
	}
	return table
}
