package main

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/carrig/config"
	"github.com/mogaika/carrig/export"
	"github.com/mogaika/carrig/motion"
	"github.com/mogaika/carrig/rig"
	"github.com/mogaika/carrig/scene"
)

func TestBuildModelModes(t *testing.T) {
	for _, mode := range []config.Mode{config.ModePath, config.ModeLinear} {
		t.Run(string(mode), func(t *testing.T) {
			cfg := config.Default()
			cfg.Mode = mode
			cfg.Parallel = true
			sc := scene.New()

			model, err := buildModel(cfg, sc)
			require.NoError(t, err)
			assert.Len(t, sc.Objects(), 1+rig.WheelCount)
			assert.True(t, model.Rig().Parallel)

			model.Tick(0.5)
			assert.Equal(t, 0.5, model.State().Elapsed)
		})
	}
}

func TestBuildModelMissingFile(t *testing.T) {
	cfg := config.Default()
	cfg.Body.File = "does-not-exist.glb"
	_, err := buildModel(cfg, scene.New())
	assert.Error(t, err)
}

func TestPathModelFollowsDefaultSquare(t *testing.T) {
	cfg := config.Default()
	model, err := buildModel(cfg, scene.New())
	require.NoError(t, err)
	f := model.(*motion.PathFollower)

	for i := 0; i < 4; i++ {
		f.Tick(0.5)
	}
	assert.Equal(t, 2, f.State().Waypoint)
	assert.Equal(t, mgl32.Vec3{20, 0, -20}, f.Pose().Position)
}

func TestNewFrameStamped(t *testing.T) {
	sc := scene.New()
	model, err := buildModel(config.Default(), sc)
	require.NoError(t, err)
	model.Tick(0.25)

	before := time.Now()
	frame := newFrame(sc, config.ModePath, model.State(), model.Pose())
	assert.False(t, frame.Time.IsZero())
	assert.False(t, frame.Time.Before(before))
	assert.Equal(t, "path", frame.Mode)
	assert.Equal(t, model.State(), frame.State)
	assert.Equal(t, export.Checksum(sc.Snapshot()), frame.Checksum)
}
