// Package sim calls a motion model once per frame at a fixed rate.
package sim

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/mogaika/carrig/motion"
)

// Listener is called after every frame from the driver goroutine
type Listener func(state motion.MotionState, pose motion.Pose)

type Driver struct {
	model  motion.Model
	period time.Duration

	lock      sync.RWMutex
	listeners []Listener
	state     motion.MotionState
	pose      motion.Pose
	frames    uint64
}

func NewDriver(model motion.Model, rate float32) (*Driver, error) {
	if model == nil {
		return nil, errors.Errorf("Model is nil")
	}
	if rate <= 0 {
		return nil, errors.Errorf("Tick rate must be positive, got %v", rate)
	}
	return &Driver{
		model:  model,
		period: time.Duration(float64(time.Second) / float64(rate)),
		state:  model.State(),
		pose:   model.Pose(),
	}, nil
}

func (d *Driver) OnFrame(l Listener) {
	d.lock.Lock()
	defer d.lock.Unlock()
	d.listeners = append(d.listeners, l)
}

// Step advances the model by dt seconds and notifies listeners.
func (d *Driver) Step(dt float32) motion.MotionState {
	return d.step(func() motion.MotionState { return d.model.Tick(dt) })
}

// StepAt advances the model to now, measured from the start of the run.
func (d *Driver) StepAt(now time.Duration, dt float32) motion.MotionState {
	return d.step(func() motion.MotionState { return d.model.TickAt(now, dt) })
}

func (d *Driver) step(tick func() motion.MotionState) motion.MotionState {
	d.lock.Lock()
	state := tick()
	pose := d.model.Pose()
	d.state, d.pose = state, pose
	d.frames++
	listeners := d.listeners
	d.lock.Unlock()

	for _, l := range listeners {
		l(state, pose)
	}
	return state
}

// Last returns the state and pose of the latest frame
func (d *Driver) Last() (motion.MotionState, motion.Pose) {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.state, d.pose
}

func (d *Driver) Frames() uint64 {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.frames
}

// Run ticks until ctx is done. Time is read from the monotonic clock relative
// to the start of the run, so the model never sums frame deltas.
func (d *Driver) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.period)
	defer ticker.Stop()

	log.Printf("[sim] Running at %v per frame", d.period)
	start := time.Now()
	var last time.Duration
	for {
		select {
		case <-ctx.Done():
			log.Printf("[sim] Stopped after %d frames", d.Frames())
			return nil
		case <-ticker.C:
			now := time.Since(start)
			d.StepAt(now, float32((now - last).Seconds()))
			last = now
		}
	}
}

// Period is the duration of one frame at the configured rate
func (d *Driver) Period() time.Duration {
	return d.period
}
