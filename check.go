package main

import (
	"log"
	"time"

	"github.com/mogaika/carrig/config"
	"github.com/mogaika/carrig/sim"
	"github.com/mogaika/carrig/utils"
)

// frameTime is the start time of frame i at rate frames per second
func frameTime(i int, rate float32) time.Duration {
	return time.Duration(float64(i) * float64(time.Second) / float64(rate))
}

// runCheck steps the model at the configured rate without a clock
func runCheck(d *sim.Driver, cfg *config.Rig, frames int) {
	dt := 1 / cfg.TickRate
	for i := 1; i <= frames; i++ {
		d.StepAt(frameTime(i, cfg.TickRate), dt)
	}
	state, pose := d.Last()
	log.Printf("[check] %d frames of %v s", frames, dt)
	utils.LogDump(state, pose)
}
