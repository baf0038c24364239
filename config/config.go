// Package config loads the rig description from YAML.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mogaika/carrig/motion"
	"github.com/mogaika/carrig/rig"
)

type Mode string

const (
	ModePath   Mode = "path"
	ModeLinear Mode = "linear"
)

type Model struct {
	// Path to .gltf/.glb, empty for the built-in primitive
	File string `yaml:"file,omitempty"`
	// Mesh name inside File, empty for the first one
	Mesh string `yaml:"mesh,omitempty"`
}

type Rig struct {
	Mode                 Mode         `yaml:"mode"`
	AngularVelocity      float32      `yaml:"angular_velocity"`
	Scale                float32      `yaml:"scale"`
	TimeBetweenWaypoints float32      `yaml:"time_between_waypoints"`
	Waypoints            []mgl32.Vec3 `yaml:"waypoints"`
	// Either four explicit positions or mirrored front/back axles
	WheelPositions []mgl32.Vec3 `yaml:"wheel_positions,omitempty"`
	FrontAxis      mgl32.Vec3   `yaml:"front_axis"`
	BackAxis       mgl32.Vec3   `yaml:"back_axis"`
	Displacement   mgl32.Vec3   `yaml:"displacement"`

	Body  Model `yaml:"body"`
	Wheel Model `yaml:"wheel"`

	TickRate float32 `yaml:"tick_rate"`
	Parallel bool    `yaml:"parallel"`
}

func Default() *Rig {
	return &Rig{
		Mode:                 ModePath,
		AngularVelocity:      90,
		Scale:                0.69,
		TimeBetweenWaypoints: 1,
		Waypoints: []mgl32.Vec3{
			{0, 0, 0},
			{0, 0, -20},
			{20, 0, -20},
			{20, 0, 0},
		},
		FrontAxis:    rig.FrontAxis,
		BackAxis:     rig.BackAxis,
		Displacement: mgl32.Vec3{0, 0, -2},
		TickRate:     60,
	}
}

func (r *Rig) Validate() error {
	switch r.Mode {
	case ModePath:
		p := r.PathParams()
		if err := p.Validate(); err != nil {
			return err
		}
	case ModeLinear:
	default:
		return errors.Errorf("Unknown mode %q", r.Mode)
	}
	if r.Scale <= 0 {
		return errors.Errorf("Scale must be positive, got %v", r.Scale)
	}
	if len(r.WheelPositions) != 0 && len(r.WheelPositions) != rig.WheelCount {
		return errors.Errorf("Expected %d wheel positions, got %d", rig.WheelCount, len(r.WheelPositions))
	}
	if r.TickRate <= 0 {
		return errors.Errorf("Tick rate must be positive, got %v", r.TickRate)
	}
	return nil
}

func (r *Rig) Pivots() [rig.WheelCount]mgl32.Vec3 {
	if len(r.WheelPositions) == rig.WheelCount {
		var p [rig.WheelCount]mgl32.Vec3
		copy(p[:], r.WheelPositions)
		return p
	}
	return rig.MirroredPivots(r.FrontAxis, r.BackAxis)
}

func (r *Rig) PathParams() motion.PathParams {
	return motion.PathParams{
		AngularVelocity:      r.AngularVelocity,
		Scale:                r.Scale,
		TimeBetweenWaypoints: r.TimeBetweenWaypoints,
		Waypoints:            r.Waypoints,
		WheelPivots:          r.Pivots(),
	}
}

func (r *Rig) LinearParams() motion.LinearParams {
	return motion.LinearParams{
		AngularVelocity: r.AngularVelocity,
		Scale:           r.Scale,
		Displacement:    r.Displacement,
		WheelPivots:     r.Pivots(),
	}
}

// Parse decodes data over the defaults and validates the result.
func Parse(data []byte) (*Rig, error) {
	r := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(r); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "Failed to unmarshal yaml")
	}
	if err := r.Validate(); err != nil {
		return nil, errors.Wrapf(err, "Invalid rig config")
	}
	return r, nil
}

func Load(path string) (*Rig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "Cannot read file %q", path)
	}
	return Parse(data)
}

func (r *Rig) Marshal() ([]byte, error) {
	var buffer bytes.Buffer
	enc := yaml.NewEncoder(&buffer)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return nil, errors.Wrapf(err, "Failed to marshal yaml")
	}
	if err := enc.Close(); err != nil {
		return nil, errors.Wrapf(err, "Failed to close yaml encoder")
	}
	return buffer.Bytes(), nil
}

var currentRig = Default()

func GetRig() *Rig {
	return currentRig
}

func SetRig(r *Rig) {
	currentRig = r
}
