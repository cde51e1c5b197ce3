package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameTimer_Tick(t *testing.T) {
	src := NewManual(time.Unix(0, 0))
	ft := NewFrameTimer(src)

	src.Advance(16 * time.Millisecond)
	assert.InDelta(t, 0.016, ft.Tick(), 1e-12)

	assert.Equal(t, 0.0, ft.Tick(), "no time passed")

	src.Advance(time.Second)
	ft.Reset()
	assert.Equal(t, 0.0, ft.Tick(), "reset drops pending time")
}

func TestFrameTimer_BackwardsSource(t *testing.T) {
	src := NewManual(time.Unix(100, 0))
	ft := NewFrameTimer(src)

	src.Advance(-time.Second)
	assert.Less(t, ft.Tick(), 0.0, "timer reports raw deltas; clamping is the caller's job")
}

func TestFrameTimer_DefaultsToSystem(t *testing.T) {
	ft := NewFrameTimer(nil)
	assert.GreaterOrEqual(t, ft.Tick(), 0.0)
}

func TestFixed(t *testing.T) {
	f := NewFixed(60, 0, 1)
	for i := 0; i < 60; i++ {
		assert.Equal(t, f.Period(), f.Tick())
	}
	assert.InDelta(t, 1.0, f.Elapsed(), 1e-9)
	assert.Equal(t, 60, f.Frames())
}

func TestFixed_Jitter(t *testing.T) {
	a := NewFixed(30, 0.5, 9)
	b := NewFixed(30, 0.5, 9)

	for i := 0; i < 100; i++ {
		d := a.Tick()
		require.Equal(t, d, b.Tick(), "same seed, same frames")
		assert.GreaterOrEqual(t, d, a.Period()*0.5)
		assert.LessOrEqual(t, d, a.Period()*1.5)
	}
}
