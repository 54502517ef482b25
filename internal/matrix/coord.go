package matrix

// Coord addresses one matrix cell. Row and Col are uint8 so that every
// coordinate that flows through the debouncer, the chording stage, and
// the layout engine's stacked event ring fits the embedded target's
// narrowest practical integer width (spec.md §4.2).
type Coord struct {
	Row uint8
	Col uint8
}
