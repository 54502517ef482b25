// Command kbsim is an interactive terminal bench for the layout
// engine: it renders the raw matrix grid, the number of keys toggled
// on, and the HID report bytes every tick, and turns the host
// terminal's own key events into matrix coordinate presses and
// releases through a bench keymap. The composition style — load
// config, build the core pipeline, run an event loop logging under a
// bracketed prefix — follows cmd/tray/main.go.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kbfw/firmware/internal/bench"
	"github.com/kbfw/firmware/internal/benchconfig"
	"github.com/kbfw/firmware/internal/matrix"
)

const tickPeriod = 10 * time.Millisecond

func main() {
	keymapPath := flag.String("keymap", "", "path to a bench keymap TOML file (default: built-in QWERTY layout)")
	flag.Parse()

	cfg, err := benchconfig.Load()
	if err != nil {
		log.Printf("[kbsim] no saved config, using defaults: %v", err)
		cfg = benchconfig.DefaultConfig()
	}
	if *keymapPath != "" {
		cfg.SetKeymapPath(*keymapPath)
	}

	km, err := loadKeymap(cfg.GetKeymapPath())
	if err != nil {
		log.Fatalf("[kbsim] load keymap: %v", err)
	}

	rig, err := bench.New(bench.DefaultTable(), nil)
	if err != nil {
		log.Fatalf("[kbsim] build rig: %v", err)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		log.Fatalf("[kbsim] new screen: %v", err)
	}
	if err := screen.Init(); err != nil {
		log.Fatalf("[kbsim] init screen: %v", err)
	}
	defer screen.Fini()
	screen.SetStyle(tcell.StyleDefault)

	events := make(chan tcell.Event, 16)
	go screen.ChannelEvents(events, nil)

	held := map[matrix.Coord]bool{}
	ticker := time.NewTicker(tickPeriod)
	defer ticker.Stop()

	log.Printf("[kbsim] running, %dx%d grid, tick every %s", bench.Rows, bench.Cols, tickPeriod)

	for {
		select {
		case ev := <-events:
			switch e := ev.(type) {
			case *tcell.EventKey:
				if e.Key() == tcell.KeyEscape || e.Key() == tcell.KeyCtrlC {
					return
				}
				coord, ok := km.Coord(scancodeFor(e))
				if !ok {
					continue
				}
				if held[coord] {
					rig.SetKey(coord, false)
					delete(held, coord)
				} else {
					rig.SetKey(coord, true)
					held[coord] = true
				}
			case *tcell.EventResize:
				screen.Sync()
			}
		case <-ticker.C:
			rig.Tick()
			render(screen, rig, held)
		}
	}
}

func loadKeymap(path string) (*benchconfig.BenchKeymap, error) {
	if path == "" {
		return benchconfig.DefaultKeymap(), nil
	}
	return benchconfig.LoadKeymap(path)
}

// scancodeFor maps a tcell key event to the scancode-name strings
// benchconfig.DefaultKeymap binds ("Q".."P", "LeftBracket", "Tab",
// "Space", arrow names, ...).
func scancodeFor(e *tcell.EventKey) string {
	if named, ok := namedKeys[e.Key()]; ok {
		return named
	}
	if e.Key() == tcell.KeyRune {
		if runeName, ok := runeNames[e.Rune()]; ok {
			return runeName
		}
		return strings.ToUpper(string(e.Rune()))
	}
	return ""
}

var namedKeys = map[tcell.Key]string{
	tcell.KeyTab:       "Tab",
	tcell.KeyEnter:     "Enter",
	tcell.KeyBackspace: "Backspace",
	tcell.KeyBackspace2: "Backspace",
	tcell.KeyEsc:       "Esc",
	tcell.KeyUp:        "Up",
	tcell.KeyDown:      "Down",
	tcell.KeyLeft:      "Left",
	tcell.KeyRight:     "Right",
}

var runeNames = map[rune]string{
	' ':  "Space",
	'[':  "LeftBracket",
	']':  "RightBracket",
	';':  "Semicolon",
	'\'': "Quote",
	'\\': "Backslash",
	',':  "Comma",
	'.':  "Period",
	'/':  "Slash",
	'-':  "Minus",
}

func render(screen tcell.Screen, rig *bench.Rig, held map[matrix.Coord]bool) {
	screen.Clear()
	grid := rig.RawGrid()
	for r := 0; r < bench.Rows; r++ {
		for c := 0; c < bench.Cols; c++ {
			ch := '.'
			style := tcell.StyleDefault
			if grid.At(uint8(r), uint8(c)) {
				ch = '#'
				style = style.Foreground(tcell.ColorGreen)
			}
			screen.SetContent(c*2, r, ch, nil, style)
		}
	}

	y := bench.Rows + 1
	drawLine(screen, y, fmt.Sprintf("keys held: %d", len(held)))
	y++
	drawLine(screen, y, "report: "+reportHex(rig))
	y++
	drawLine(screen, y, "esc/ctrl-c to quit")
	screen.Show()
}

func reportHex(rig *bench.Rig) string {
	r := rig.Report()
	b := r.Bytes()
	parts := make([]string, len(b))
	for i, v := range b {
		parts[i] = fmt.Sprintf("%02x", v)
	}
	return strings.Join(parts, " ")
}

func drawLine(screen tcell.Screen, y int, s string) {
	for x, r := range s {
		screen.SetContent(x, y, r, nil, tcell.StyleDefault)
	}
}
