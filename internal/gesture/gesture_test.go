package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)

func TestVelocityFromSteadyDrag(t *testing.T) {
	tr := NewTracker()
	tr.Start(0, t0)
	for i := 1; i <= 4; i++ {
		tr.Move(float64(i*8), t0.Add(time.Duration(i)*16*time.Millisecond))
	}
	assert.InDelta(t, 8.0, tr.Velocity(), 1e-9)
	assert.Equal(t, 32.0, tr.Offset())
}

func TestVelocityKeepsOnlyRecentSamples(t *testing.T) {
	tr := NewTracker()
	tr.Start(0, t0)
	// A slow start followed by a fast flick; only the flick counts.
	tr.Move(1, t0.Add(500*time.Millisecond))
	tr.Move(2, t0.Add(1000*time.Millisecond))
	tr.Move(18, t0.Add(1016*time.Millisecond))
	tr.Move(34, t0.Add(1032*time.Millisecond))
	assert.InDelta(t, 16.0, tr.Velocity(), 1e-9)
}

func TestTrackerBuffersAtMostFiveSamples(t *testing.T) {
	tr := NewTracker()
	tr.Start(0, t0)
	for i := 1; i <= 10; i++ {
		tr.Move(float64(i*i), t0.Add(time.Duration(i)*time.Millisecond))
	}
	assert.Len(t, tr.samples, MaxSamples)
	assert.Equal(t, 100.0, tr.Offset())
	// Samples 6..10: (100-36) / 4ms per 16ms frame.
	assert.InDelta(t, 256.0, tr.Velocity(), 1e-9)
}

func TestVelocityNeedsTwoSamples(t *testing.T) {
	tr := NewTracker()
	assert.Zero(t, tr.Velocity())
	tr.Start(5, t0)
	assert.Zero(t, tr.Velocity())
	tr.Move(10, t0)
	assert.Zero(t, tr.Velocity(), "zero elapsed time")
}

func TestReleaseResets(t *testing.T) {
	tr := NewTracker()
	tr.Start(0, t0)
	tr.Move(-16, t0.Add(16*time.Millisecond))
	assert.InDelta(t, -16.0, tr.Release(), 1e-9)
	assert.False(t, tr.Active())
	assert.Zero(t, tr.Release())
}

func TestInertiaDecaysToRest(t *testing.T) {
	in := NewInertia(0, 10)
	assert.True(t, in.Step())
	assert.InDelta(t, 10.0, in.Offset, 1e-9)
	assert.InDelta(t, 9.5, in.Velocity, 1e-9)

	frames := 1
	for in.Step() {
		frames++
	}
	// 10 * 0.95^n < 0.5 first holds at n = 59.
	assert.Equal(t, 58, frames)
	assert.False(t, in.Active())
	assert.Less(t, in.Offset, 10/(1-Friction))
}

func TestInertiaBelowThresholdDoesNotMove(t *testing.T) {
	in := NewInertia(3, 0.4)
	assert.False(t, in.Step())
	assert.Equal(t, 3.0, in.Offset)
	assert.Zero(t, in.Velocity)
}

func TestSettleAndSnap(t *testing.T) {
	in := NewInertia(0, -7)
	final := in.Settle()
	assert.Less(t, final, -100.0)
	assert.Equal(t, -2, Snap(-100, 49))
	assert.Equal(t, 1, Snap(30, 49))
	assert.Equal(t, 0, Snap(24, 49))
	assert.Equal(t, 0, Snap(10, 0))
}
