// Package gesture turns a burst of drag or key-repeat samples into a release
// velocity and glides it to rest with frictional decay. The weekly tracker
// uses it to let the week carousel coast after a fast swipe.
package gesture

import (
	"math"
	"time"
)

const (
	// MaxSamples is how many recent move samples feed the velocity estimate.
	MaxSamples = 5
	// SampleWindow drops samples older than this relative to the newest one.
	SampleWindow = 100 * time.Millisecond
	// Friction multiplies the velocity once per frame.
	Friction = 0.95
	// StopThreshold ends the glide once |velocity| falls below it (units per frame).
	StopThreshold = 0.5
	// Frame is the animation step the velocity is expressed in.
	Frame = 16 * time.Millisecond
)

type Sample struct {
	Pos float64
	At  time.Time
}

// Tracker buffers the most recent move samples of one gesture.
type Tracker struct {
	start   float64
	samples []Sample
}

func NewTracker() *Tracker {
	return &Tracker{samples: make([]Sample, 0, MaxSamples)}
}

// Start begins a new gesture at pos, discarding earlier samples.
func (t *Tracker) Start(pos float64, at time.Time) {
	t.start = pos
	t.samples = append(t.samples[:0], Sample{Pos: pos, At: at})
}

// Move records a sample; only the last MaxSamples are kept.
func (t *Tracker) Move(pos float64, at time.Time) {
	if len(t.samples) == MaxSamples {
		copy(t.samples, t.samples[1:])
		t.samples = t.samples[:MaxSamples-1]
	}
	t.samples = append(t.samples, Sample{Pos: pos, At: at})
}

// Active reports whether a gesture is in progress.
func (t *Tracker) Active() bool {
	return len(t.samples) > 0
}

// Offset is the distance moved since Start.
func (t *Tracker) Offset() float64 {
	if len(t.samples) == 0 {
		return 0
	}
	return t.samples[len(t.samples)-1].Pos - t.start
}

// Velocity estimates units per Frame from the samples inside SampleWindow
// of the newest one. Fewer than two usable samples give zero.
func (t *Tracker) Velocity() float64 {
	n := len(t.samples)
	if n < 2 {
		return 0
	}
	last := t.samples[n-1]
	first := last
	for i := n - 2; i >= 0; i-- {
		if last.At.Sub(t.samples[i].At) > SampleWindow {
			break
		}
		first = t.samples[i]
	}
	dt := last.At.Sub(first.At)
	if dt <= 0 {
		return 0
	}
	return (last.Pos - first.Pos) / float64(dt) * float64(Frame)
}

// Release ends the gesture and returns its velocity.
func (t *Tracker) Release() float64 {
	v := t.Velocity()
	t.samples = t.samples[:0]
	return v
}

// Inertia glides an offset with decaying velocity.
type Inertia struct {
	Velocity float64
	Offset   float64
}

func NewInertia(offset, velocity float64) *Inertia {
	return &Inertia{Velocity: velocity, Offset: offset}
}

// Active reports whether the glide has not yet come to rest.
func (in *Inertia) Active() bool {
	return math.Abs(in.Velocity) >= StopThreshold
}

// Step advances one frame and reports whether the glide is still moving.
func (in *Inertia) Step() bool {
	if !in.Active() {
		in.Velocity = 0
		return false
	}
	in.Offset += in.Velocity
	in.Velocity *= Friction
	return in.Active()
}

// Settle runs the glide to rest and returns the final offset.
func (in *Inertia) Settle() float64 {
	for in.Step() {
	}
	in.Velocity = 0
	return in.Offset
}

// Snap rounds offset to the nearest whole number of units.
func Snap(offset, unit float64) int {
	if unit <= 0 {
		return 0
	}
	return int(math.Round(offset / unit))
}
