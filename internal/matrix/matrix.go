// Package matrix turns raw GPIO pin samples into a boolean grid of
// pressed matrix cells. It performs no filtering — see
// internal/debounce for that — and reports pin I/O failures upward
// rather than interpreting them, the same division of labor the
// teacher's aoa.Device keeps between USB transport and device.Manager
// policy.
package matrix

// OutputPin is the capability a scan row needs: drive the line high
// (idle, pulled up) or low (select this row).
type OutputPin interface {
	High() error
	Low() error
}

// InputPin is the capability a scan column needs: read whether the
// line is currently pulled low (pressed, given an external pull-up).
type InputPin interface {
	IsLow() (bool, error)
}

// Grid is an R-by-C boolean matrix; true means the cell reads pressed.
// Row-major to match the stacked-event ingress ordering spec.md §5
// requires ("row-major iteration order over the matrix").
type Grid [][]bool

// NewGrid allocates a zeroed R×C grid. Called once at startup; the
// scan loop never grows or re-slices it afterward.
func NewGrid(rows, cols int) Grid {
	g := make(Grid, rows)
	for r := range g {
		g[r] = make([]bool, cols)
	}
	return g
}

// Scanner drives an output×input matrix of switches.
type Scanner struct {
	outputs []OutputPin
	inputs  []InputPin
	settle  func()
}

// New builds a Scanner over the given output (row) and input (column)
// pins. settle, if non-nil, is invoked after driving a row low and
// before sampling its columns, to let the line stabilize; it is the
// caller's responsibility to keep it short and non-blocking on a real
// MCU (a few NOPs or a cycle-counted spin), matching spec.md §4.1.
func New(outputs []OutputPin, inputs []InputPin, settle func()) *Scanner {
	return &Scanner{outputs: outputs, inputs: inputs, settle: settle}
}

// Rows and Cols report the scanner's dimensions, for callers sizing a
// Grid with NewGrid.
func (s *Scanner) Rows() int { return len(s.outputs) }
func (s *Scanner) Cols() int { return len(s.inputs) }

// Init drives every output pin high, the scanner's idle state.
func (s *Scanner) Init() error {
	for _, o := range s.outputs {
		if err := o.High(); err != nil {
			return err
		}
	}
	return nil
}

// Scan drives each row low in turn, samples every column, and writes
// the result into dst, which must be Rows()×Cols(). It always restores
// the row high before moving to the next one, even on a read error.
func (s *Scanner) Scan(dst Grid) error {
	for r, out := range s.outputs {
		if err := out.Low(); err != nil {
			return err
		}
		if s.settle != nil {
			s.settle()
		}
		row := dst[r]
		var readErr error
		for c, in := range s.inputs {
			pressed, err := in.IsLow()
			if err != nil {
				readErr = err
				break
			}
			row[c] = pressed
		}
		if err := out.High(); err != nil {
			return err
		}
		if readErr != nil {
			return readErr
		}
	}
	return nil
}

// DirectMatrix treats an R×C sparse grid of input pins — some cells
// unwired — as an already-laid-out matrix: a nil entry never reads
// pressed, a present pin's low level marks the cell pressed. This
// models boards that wire every key to its own input line instead of
// a row/column matrix (spec.md §4.1 "direct-pin matrix").
type DirectMatrix struct {
	pins [][]InputPin
}

// NewDirectMatrix wraps a pre-built sparse pin grid. Entries may be
// nil for coordinates with no physical key.
func NewDirectMatrix(pins [][]InputPin) *DirectMatrix {
	return &DirectMatrix{pins: pins}
}

func (d *DirectMatrix) Rows() int { return len(d.pins) }
func (d *DirectMatrix) Cols() int {
	if len(d.pins) == 0 {
		return 0
	}
	return len(d.pins[0])
}

// Scan samples every non-nil pin into dst.
func (d *DirectMatrix) Scan(dst Grid) error {
	for r, row := range d.pins {
		for c, pin := range row {
			if pin == nil {
				dst[r][c] = false
				continue
			}
			pressed, err := pin.IsLow()
			if err != nil {
				return err
			}
			dst[r][c] = pressed
		}
	}
	return nil
}
