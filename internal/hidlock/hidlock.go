// Package hidlock serializes access to a shared USB HID class object
// between the tick loop writing input reports and the interrupt
// handlers servicing host SET_REPORT transfers, implementing the
// priority-ceiling mutual exclusion spec.md §5 requires.
//
// The single sync.Mutex guard mirrors device.Manager's mu field in the
// teacher (internal/device/manager.go), generalized from one
// accessory connection to any Reporter.
package hidlock

import (
	"errors"
	"sync"
)

// ErrWouldBlock signals a full USB endpoint. Guard retries the write
// rather than surfacing it, since silently dropping a report can skip
// a state transition the host never otherwise learns about.
var ErrWouldBlock = errors.New("hidlock: write would block")

// Reporter is the minimal HID class object surface hidlock guards.
type Reporter interface {
	WriteReport(report []byte) error
}

// Guard wraps a Reporter with a single mutex shared by every caller —
// the tick loop's periodic input report and any interrupt-context
// handler reacting to a host LED/SET_REPORT transfer.
type Guard struct {
	mu sync.Mutex
	r  Reporter
}

// New wraps r.
func New(r Reporter) *Guard { return &Guard{r: r} }

// WriteReport writes report under the lock, retrying on
// ErrWouldBlock until the endpoint accepts it.
func (g *Guard) WriteReport(report []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for {
		err := g.r.WriteReport(report)
		if err == nil {
			return nil
		}
		if errors.Is(err, ErrWouldBlock) {
			continue
		}
		return err
	}
}

// WithLock runs fn against the guarded Reporter while holding the
// same lock WriteReport uses, for a handler that needs to issue its
// own control transfers (e.g. reading a SET_REPORT payload) without
// racing a concurrent WriteReport.
func (g *Guard) WithLock(fn func(Reporter) error) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return fn(g.r)
}
