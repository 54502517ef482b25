package layout

import (
	"github.com/kbfw/firmware/internal/kbevent"
	"github.com/kbfw/firmware/internal/matrix"
)

// ringCapacity is the stacked event ring's size (spec.md §3: "capacity
// 16-32"). 32 gives headroom for bursty chorded input without costing
// more than a couple hundred bytes on an MCU.
const ringCapacity = 32

// ring is the wrapping stacked-event buffer the layout engine drains
// at most one entry from per tick while no WaitingState is in flight
// (spec.md §4.4.2, §4.4.3).
type ring struct {
	buf  [ringCapacity]kbevent.Aged
	head int
	n    int
}

func (r *ring) len() int { return r.n }

func (r *ring) at(i int) kbevent.Aged { return r.buf[(r.head+i)%ringCapacity] }

// push appends e with age 0. If the ring was already full, the oldest
// entry is evicted to make room and returned with didEvict == true;
// the caller must resolve it synchronously per spec.md §4.4.2.
func (r *ring) push(e kbevent.Event) (evicted kbevent.Aged, didEvict bool) {
	if r.n == ringCapacity {
		evicted = r.pop()
		didEvict = true
	}
	idx := (r.head + r.n) % ringCapacity
	r.buf[idx] = kbevent.Aged{Event: e}
	r.n++
	return evicted, didEvict
}

// pop removes and returns the oldest entry. The caller must check
// len() > 0 first.
func (r *ring) pop() kbevent.Aged {
	e := r.buf[r.head]
	r.head = (r.head + 1) % ringCapacity
	r.n--
	return e
}

// ageAll increments every queued entry's age by one tick (saturating).
func (r *ring) ageAll() {
	for i := 0; i < r.n; i++ {
		r.buf[(r.head+i)%ringCapacity].AgeOne()
	}
}

// releaseAge returns the age of the oldest queued Release at coord.
func (r *ring) releaseAge(coord matrix.Coord) (uint16, bool) {
	for i := 0; i < r.n; i++ {
		a := r.at(i)
		if !a.Event.Press && a.Event.Coord == coord {
			return a.Age, true
		}
	}
	return 0, false
}

// anyPress reports whether the ring holds any queued press at all,
// for HoldTapConfig's HoldOnOtherKeyPress.
func (r *ring) anyPress() bool {
	for i := 0; i < r.n; i++ {
		if r.at(i).Event.Press {
			return true
		}
	}
	return false
}

// hasTapPair reports whether some coordinate has a queued Press
// followed later by its matching Release, for PermissiveHold.
func (r *ring) hasTapPair() bool {
	for i := 0; i < r.n; i++ {
		a := r.at(i)
		if !a.Event.Press {
			continue
		}
		for j := i + 1; j < r.n; j++ {
			b := r.at(j)
			if !b.Event.Press && b.Event.Coord == a.Event.Coord {
				return true
			}
		}
	}
	return false
}

// snapshot copies the ring's current contents into buf (reusing its
// backing array) for a Custom hold/tap handler to inspect.
func (r *ring) snapshot(buf []kbevent.Aged) []kbevent.Aged {
	buf = buf[:0]
	for i := 0; i < r.n; i++ {
		buf = append(buf, r.at(i))
	}
	return buf
}
