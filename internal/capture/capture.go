// Package capture drives the layout engine from the developer's own
// keyboard: it registers a global hotkey per "probe" key and turns
// its key-down/key-up into synthetic matrix Press/Release events, so
// a layout can be exercised without wired switches.
//
// The registration and auto-repeat-debounce technique is the
// teacher's internal/hotkey.Manager.listen goroutine, generalized from
// a single push-to-talk binding to an arbitrary set of probe keys.
package capture

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
	"time"

	"golang.design/x/hotkey"

	"github.com/kbfw/firmware/internal/kbevent"
	"github.com/kbfw/firmware/internal/matrix"
)

// Probe binds one global hotkey to a matrix coordinate.
type Probe struct {
	Key   hotkey.Key
	Coord matrix.Coord
}

// Session owns every registered probe hotkey and forwards their
// key-down/key-up transitions as kbevent.Event values on Events.
type Session struct {
	Events chan kbevent.Event

	mu      sync.Mutex
	cancel  context.CancelFunc
	probes  []*hotkey.Hotkey
}

// Start registers every probe as a global hotkey and begins listening.
// Call Stop to unregister everything and release the Events channel.
func Start(probes []Probe) (*Session, error) {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Session{
		Events: make(chan kbevent.Event, 32),
		cancel: cancel,
	}

	for _, p := range probes {
		hk := hotkey.New([]hotkey.Modifier{}, p.Key)
		if err := hk.Register(); err != nil {
			s.Stop()
			return nil, fmt.Errorf("capture: register probe %v: %w", p.Key, err)
		}
		s.probes = append(s.probes, hk)
		go s.listen(ctx, hk, p.Coord)
	}

	log.Printf("[capture] %d probe(s) registered", len(probes))
	return s, nil
}

// listen loops on one probe's keydown/keyup channels, applying the
// same X11-autorepeat debounce the teacher's hotkey.Manager uses: a
// keyup is held for a short window in case a spurious keydown follows,
// which would mean the host was just auto-repeating, not releasing.
func (s *Session) listen(ctx context.Context, hk *hotkey.Hotkey, coord matrix.Coord) {
	isLinux := runtime.GOOS == "linux"
	var debounce *time.Timer
	var mu sync.Mutex

	for {
		select {
		case <-ctx.Done():
			return
		case <-hk.Keydown():
			mu.Lock()
			if isLinux && debounce != nil {
				debounce.Stop()
				debounce = nil
				mu.Unlock()
				continue
			}
			mu.Unlock()
			s.emit(kbevent.NewPress(coord))
		case <-hk.Keyup():
			if !isLinux {
				s.emit(kbevent.NewRelease(coord))
				continue
			}
			mu.Lock()
			debounce = time.AfterFunc(50*time.Millisecond, func() {
				s.emit(kbevent.NewRelease(coord))
				mu.Lock()
				debounce = nil
				mu.Unlock()
			})
			mu.Unlock()
		}
	}
}

func (s *Session) emit(ev kbevent.Event) {
	select {
	case s.Events <- ev:
	default:
		log.Printf("[capture] events channel full, dropping %+v", ev)
	}
}

// Stop unregisters every probe hotkey and stops all listener goroutines.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	for _, hk := range s.probes {
		hk.Unregister()
	}
	s.probes = nil
}
