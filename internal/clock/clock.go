package clock

import (
	"sync"
	"time"
)

const defaultZone = "Asia/Almaty"

// Clock supplies the current time to lifecycle services.
type Clock interface {
	Now() time.Time
}

// Location loads the named zone, falling back to a fixed UTC+5 offset for
// Asia/Almaty (or UTC for anything else) when tzdata is unavailable.
func Location(name string) *time.Location {
	if name == "" {
		name = defaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		if name == defaultZone {
			return time.FixedZone(defaultZone, 5*60*60)
		}
		return time.UTC
	}
	return loc
}

type systemClock struct {
	loc *time.Location
}

// System returns a clock reading wall time in loc.
func System(loc *time.Location) Clock {
	if loc == nil {
		loc = Location(defaultZone)
	}
	return systemClock{loc: loc}
}

func (c systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

type fixedClock struct {
	t time.Time
}

// Fixed returns a clock that always reports t.
func Fixed(t time.Time) Clock {
	return fixedClock{t: t}
}

func (c fixedClock) Now() time.Time { return c.t }

// Manual is a settable clock for tests and replays.
type Manual struct {
	mu sync.Mutex
	t  time.Time
}

// NewManual creates a Manual clock starting at t.
func NewManual(t time.Time) *Manual {
	return &Manual{t: t}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.t
}

// Set moves the clock to t.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.t = t
	m.mu.Unlock()
}

// Advance moves the clock forward by d.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.t = m.t.Add(d)
	m.mu.Unlock()
}
