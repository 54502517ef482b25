package matrix

// Grid4x12 is a fixed-size pressed-cell snapshot for a typical 4-row,
// 12-column ortholinear board (the layout shape spec.md's worked
// scenarios in §8 assume). Being a plain array, two Grid4x12 values
// compare equal with ==, which is exactly the property
// internal/debounce.Debouncer needs from its CellGrid type parameter.
type Grid4x12 [4][12]bool

func (g Grid4x12) At(row, col uint8) bool { return g[row][col] }
func (g Grid4x12) Rows() uint8            { return 4 }
func (g Grid4x12) Cols() uint8            { return 12 }

// Grid8x8 is a larger fixed-size snapshot for boards up to 8x8, with
// unused cells left false. The workstation benches use Grid4x12
// (through internal/bench), not this type.
type Grid8x8 [8][8]bool

func (g Grid8x8) At(row, col uint8) bool { return g[row][col] }
func (g Grid8x8) Rows() uint8            { return 8 }
func (g Grid8x8) Cols() uint8            { return 8 }
