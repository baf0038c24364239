package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/mogaika/carrig/config"
	"github.com/mogaika/carrig/export"
	"github.com/mogaika/carrig/motion"
	"github.com/mogaika/carrig/scene"
	"github.com/mogaika/carrig/sim"
	"github.com/mogaika/carrig/status"
	"github.com/mogaika/carrig/web"
)

func loadModel(m config.Model, fallback func() *scene.Mesh) (*scene.Mesh, error) {
	if m.File == "" {
		return fallback(), nil
	}
	mesh, err := scene.LoadGLTFMesh(m.File, m.Mesh)
	if err != nil {
		return nil, errors.Wrapf(err, "Failed to load %q", m.File)
	}
	return mesh, nil
}

// buildModel places the body into sc and rigs it according to cfg
func buildModel(cfg *config.Rig, sc *scene.Scene) (motion.Model, error) {
	body, err := loadModel(cfg.Body, func() *scene.Mesh {
		return scene.Box("body", mgl32.Vec3{4.2, 1.5, 6.4})
	})
	if err != nil {
		return nil, err
	}
	wheel, err := loadModel(cfg.Wheel, func() *scene.Mesh {
		return scene.Cylinder("wheel", 0.85, 0.6, 24)
	})
	if err != nil {
		return nil, err
	}
	sc.Add(body)

	var model motion.Model
	switch cfg.Mode {
	case config.ModeLinear:
		model, err = motion.NewLinearMover(body, wheel, sc, cfg.LinearParams())
	default:
		model, err = motion.NewPathFollower(body, wheel, sc, cfg.PathParams())
	}
	if err != nil {
		return nil, err
	}
	model.Rig().Parallel = cfg.Parallel
	return model, nil
}

func publisher(sc *scene.Scene, mode config.Mode) sim.Listener {
	return func(state motion.MotionState, pose motion.Pose) {
		if status.ClientsCount() == 0 {
			return
		}
		status.Publish(newFrame(sc, mode, state, pose))
	}
}

func newFrame(sc *scene.Scene, mode config.Mode, state motion.MotionState, pose motion.Pose) *status.Frame {
	return &status.Frame{
		Time:     time.Now(),
		Mode:     string(mode),
		State:    state,
		Pose:     pose,
		Checksum: export.Checksum(sc.Snapshot()),
	}
}

func main() {
	var addr, cfgPath string
	var rate float64
	var checkFrames int
	var dumpConfig bool
	flag.StringVar(&addr, "i", ":8000", "Address of server")
	flag.StringVar(&cfgPath, "config", "", "Path to rig yaml, built-in defaults when empty")
	flag.Float64Var(&rate, "rate", 0, "Tick rate override, frames per second")
	flag.IntVar(&checkFrames, "check", 0, "Run this many frames without server and print the state")
	flag.BoolVar(&dumpConfig, "dumpconfig", false, "Print effective config as yaml and exit")
	flag.Parse()

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		if cfg, err = config.Load(cfgPath); err != nil {
			log.Fatal(err)
		}
	}
	if rate > 0 {
		cfg.TickRate = float32(rate)
	}
	config.SetRig(cfg)

	if dumpConfig {
		data, err := cfg.Marshal()
		if err != nil {
			log.Fatal(err)
		}
		os.Stdout.Write(data)
		return
	}

	sc := scene.New()
	model, err := buildModel(cfg, sc)
	if err != nil {
		log.Fatal(err)
	}
	driver, err := sim.NewDriver(model, cfg.TickRate)
	if err != nil {
		log.Fatal(err)
	}

	if checkFrames > 0 {
		runCheck(driver, cfg, checkFrames)
		return
	}

	driver.OnFrame(publisher(sc, cfg.Mode))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return driver.Run(ctx) })
	g.Go(func() error { return web.StartServer(ctx, addr, sc, driver) })
	if err := g.Wait(); err != nil {
		log.Fatal(err)
	}
}
