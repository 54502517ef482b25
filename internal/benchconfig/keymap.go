package benchconfig

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/kbfw/firmware/internal/matrix"
)

// BenchKeymap maps a bench input source's scancode name (a tcell key
// name or an SDL scancode name) to the physical matrix coordinate it
// should drive, so a developer can exercise a layout on whatever
// keyboard their workstation has rather than real switches.
type BenchKeymap struct {
	Rows int                     `toml:"rows"`
	Cols int                     `toml:"cols"`
	Keys map[string]KeymapBinding `toml:"keys"`
}

// KeymapBinding is one scancode-name-to-coordinate entry.
type KeymapBinding struct {
	Row uint8 `toml:"row"`
	Col uint8 `toml:"col"`
}

// LoadKeymap reads a TOML bench keymap from path.
func LoadKeymap(path string) (*BenchKeymap, error) {
	var km BenchKeymap
	if _, err := toml.DecodeFile(path, &km); err != nil {
		return nil, fmt.Errorf("benchconfig: decode keymap %s: %w", path, err)
	}
	if km.Rows <= 0 || km.Cols <= 0 {
		return nil, fmt.Errorf("benchconfig: keymap %s has invalid dimensions %dx%d", path, km.Rows, km.Cols)
	}
	return &km, nil
}

// Coord looks up the matrix coordinate bound to a scancode name.
func (km *BenchKeymap) Coord(scancode string) (matrix.Coord, bool) {
	b, ok := km.Keys[scancode]
	if !ok {
		return matrix.Coord{}, false
	}
	return matrix.Coord{Row: b.Row, Col: b.Col}, true
}

// DefaultKeymap builds a QWERTY-row bench keymap for a 4x12 ortho grid,
// used when no TOML keymap file is configured.
func DefaultKeymap() *BenchKeymap {
	rows := [4]string{
		"Q,W,E,R,T,Y,U,I,O,P,LeftBracket,RightBracket",
		"A,S,D,F,G,H,J,K,L,Semicolon,Quote,Backslash",
		"Z,X,C,V,B,N,M,Comma,Period,Slash,Rshift,Enter",
		"Tab,Ctrl,Alt,Gui,Space,Left,Down,Up,Right,Esc,Backspace,Minus",
	}
	km := &BenchKeymap{Rows: 4, Cols: 12, Keys: make(map[string]KeymapBinding, 48)}
	for r, row := range rows {
		col := 0
		start := 0
		for i := 0; i <= len(row); i++ {
			if i == len(row) || row[i] == ',' {
				name := row[start:i]
				km.Keys[name] = KeymapBinding{Row: uint8(r), Col: uint8(col)}
				start = i + 1
				col++
			}
		}
	}
	return km
}
