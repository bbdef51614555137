package affect

import (
	"fmt"
	"time"
)

// fixedRand returns the same value from every draw. With f = 0 every jitter
// sits at its lower bound and every probability gate passes.
type fixedRand struct{ f float64 }

func (r fixedRand) Float64() float64 { return r.f }
func (r fixedRand) IntN(int) int     { return 0 }

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("mem_%04d", n)
	}
}

func newTestState() State {
	return NewState(DefaultProfile(), newFakeClock().Now())
}
