// Package clock supplies frame deltas to the simulation loop.
package clock

import (
	"math/rand/v2"
	"sync"
	"time"
)

// Ticker yields the seconds elapsed since its previous call.
type Ticker interface {
	Tick() float64
}

type Source interface {
	Now() time.Time
}

type systemSource struct{}

func (systemSource) Now() time.Time { return time.Now() }

// System reads the wall clock. time.Now carries a monotonic reading, so
// deltas never go backwards because of wall clock adjustments.
var System Source = systemSource{}

// FrameTimer measures real frame time. It does no clamping; the world does.
type FrameTimer struct {
	src  Source
	last time.Time
}

func NewFrameTimer(src Source) *FrameTimer {
	if src == nil {
		src = System
	}
	return &FrameTimer{src: src, last: src.Now()}
}

func (t *FrameTimer) Tick() float64 {
	now := t.src.Now()
	d := now.Sub(t.last).Seconds()
	t.last = now
	return d
}

// Reset drops the time accumulated since the last tick, e.g. after a pause.
func (t *FrameTimer) Reset() {
	t.last = t.src.Now()
}

// Fixed produces synthetic frames of a constant period, optionally jittered
// by up to ±jitter of the period. Used by headless runs.
type Fixed struct {
	period  float64
	jitter  float64
	rng     *rand.Rand
	elapsed float64
	frames  int
}

func NewFixed(fps, jitter float64, seed uint64) *Fixed {
	return &Fixed{
		period: 1.0 / fps,
		jitter: jitter,
		rng:    rand.New(rand.NewPCG(seed, seed+1)),
	}
}

func (f *Fixed) Tick() float64 {
	d := f.period
	if f.jitter > 0 {
		d *= 1 + f.jitter*(2*f.rng.Float64()-1)
	}
	f.elapsed += d
	f.frames++
	return d
}

func (f *Fixed) Period() float64  { return f.period }
func (f *Fixed) Elapsed() float64 { return f.elapsed }
func (f *Fixed) Frames() int      { return f.frames }

// Manual is a Source advanced by hand.
type Manual struct {
	mu  sync.Mutex
	now time.Time
}

func NewManual(start time.Time) *Manual {
	return &Manual{now: start}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	m.now = m.now.Add(d)
	m.mu.Unlock()
}
