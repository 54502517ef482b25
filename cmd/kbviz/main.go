// Command kbviz is an optional graphical bench: it draws the raw
// matrix as a grid of rectangles colored by press state and shows the
// resolved HID report bytes in the window title, polling SDL keyboard
// events to drive
// matrix coordinates the same way cmd/kbsim does from a terminal.
package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/kbfw/firmware/internal/bench"
	"github.com/kbfw/firmware/internal/benchconfig"
)

const (
	cellSize   = 48
	cellMargin = 6
)

func main() {
	keymapPath := flag.String("keymap", "", "path to a bench keymap TOML file (default: built-in QWERTY layout)")
	flag.Parse()

	cfg, err := benchconfig.Load()
	if err != nil {
		log.Printf("[kbviz] no saved config, using defaults: %v", err)
		cfg = benchconfig.DefaultConfig()
	}
	if *keymapPath != "" {
		cfg.SetKeymapPath(*keymapPath)
	}
	km, err := loadKeymap(cfg.GetKeymapPath())
	if err != nil {
		log.Fatalf("[kbviz] load keymap: %v", err)
	}

	rig, err := bench.New(bench.DefaultTable(), nil)
	if err != nil {
		log.Fatalf("[kbviz] build rig: %v", err)
	}

	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		log.Fatalf("[kbviz] sdl init: %v", err)
	}
	defer sdl.Quit()

	w := bench.Cols*(cellSize+cellMargin) + cellMargin
	h := bench.Rows*(cellSize+cellMargin) + cellMargin + 60

	window, renderer, err := sdl.CreateWindowAndRenderer(int32(w), int32(h), sdl.WINDOW_SHOWN)
	if err != nil {
		log.Fatalf("[kbviz] create window: %v", err)
	}
	defer window.Destroy()
	defer renderer.Destroy()
	window.SetTitle("kbfw bench")

	log.Printf("[kbviz] running, %dx%d grid", bench.Rows, bench.Cols)

	running := true
	for running {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			switch e := event.(type) {
			case *sdl.QuitEvent:
				running = false
			case *sdl.KeyboardEvent:
				if e.Keysym.Sym == sdl.K_ESCAPE {
					running = false
					continue
				}
				coord, ok := km.Coord(scancodeFor(e.Keysym.Sym))
				if !ok {
					continue
				}
				rig.SetKey(coord, e.State == sdl.PRESSED)
			}
		}

		rig.Tick()
		render(renderer, rig)
		window.SetTitle(fmt.Sprintf("kbfw bench — report %s", reportLabel(rig)))
		sdl.Delay(16)
	}
}

func loadKeymap(path string) (*benchconfig.BenchKeymap, error) {
	if path == "" {
		return benchconfig.DefaultKeymap(), nil
	}
	return benchconfig.LoadKeymap(path)
}

func render(renderer *sdl.Renderer, rig *bench.Rig) {
	renderer.SetDrawColor(20, 20, 24, 255)
	renderer.Clear()

	grid := rig.RawGrid()
	for r := uint8(0); r < bench.Rows; r++ {
		for c := uint8(0); c < bench.Cols; c++ {
			rect := sdl.Rect{
				X: int32(c)*(cellSize+cellMargin) + cellMargin,
				Y: int32(r)*(cellSize+cellMargin) + cellMargin,
				W: cellSize,
				H: cellSize,
			}
			if grid.At(r, c) {
				renderer.SetDrawColor(46, 160, 67, 255)
			} else {
				renderer.SetDrawColor(60, 60, 66, 255)
			}
			renderer.FillRect(&rect)
		}
	}

	renderer.Present()
}

func reportLabel(rig *bench.Rig) string {
	rep := rig.Report()
	b := rep.Bytes()
	return fmt.Sprintf("% 02x", b)
}

// scancodeFor maps an SDL keycode to the scancode-name strings
// benchconfig.DefaultKeymap binds, the same naming cmd/kbsim uses.
func scancodeFor(sym sdl.Keycode) string {
	if name, ok := sdlNamed[sym]; ok {
		return name
	}
	if sym >= sdl.K_a && sym <= sdl.K_z {
		return string(rune('A' + (sym - sdl.K_a)))
	}
	return ""
}

var sdlNamed = map[sdl.Keycode]string{
	sdl.K_LEFTBRACKET:  "LeftBracket",
	sdl.K_RIGHTBRACKET: "RightBracket",
	sdl.K_SEMICOLON:    "Semicolon",
	sdl.K_QUOTE:        "Quote",
	sdl.K_BACKSLASH:    "Backslash",
	sdl.K_COMMA:        "Comma",
	sdl.K_PERIOD:       "Period",
	sdl.K_SLASH:        "Slash",
	sdl.K_TAB:          "Tab",
	sdl.K_LCTRL:        "Ctrl",
	sdl.K_LALT:         "Alt",
	sdl.K_LGUI:         "Gui",
	sdl.K_SPACE:        "Space",
	sdl.K_LEFT:         "Left",
	sdl.K_DOWN:         "Down",
	sdl.K_UP:           "Up",
	sdl.K_RIGHT:        "Right",
	sdl.K_ESCAPE:       "Esc",
	sdl.K_BACKSPACE:    "Backspace",
	sdl.K_MINUS:        "Minus",
	sdl.K_RETURN:       "Enter",
	sdl.K_RSHIFT:       "Rshift",
}
