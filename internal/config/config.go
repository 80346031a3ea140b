package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/dpsim/internal/dynamo"
	"github.com/san-kum/dpsim/internal/pendulum"
	"github.com/san-kum/dpsim/internal/sim"
)

const (
	DefaultDt         = 0.05
	DefaultDuration   = 10.0
	DefaultFPS        = 20
	DefaultTrailLimit = 400
	DefaultGrabRadius = 20.0
)

type Config struct {
	Integrator string         `yaml:"integrator"`
	Dt         float64        `yaml:"dt"`
	Duration   float64        `yaml:"duration"`
	FPS        int            `yaml:"fps"`
	GrabRadius float64        `yaml:"grab_radius"`
	Pendulum   PendulumConfig `yaml:"pendulum"`
	Trail      TrailConfig    `yaml:"trail"`
}

// PendulumConfig holds the geometry in screen units and the initial angles in
// degrees.
type PendulumConfig struct {
	OriginX   float64 `yaml:"origin_x"`
	OriginY   float64 `yaml:"origin_y"`
	Length1   float64 `yaml:"length1"`
	Length2   float64 `yaml:"length2"`
	Mass1     float64 `yaml:"mass1"`
	Mass2     float64 `yaml:"mass2"`
	Theta1Deg float64 `yaml:"theta1_deg"`
	Theta2Deg float64 `yaml:"theta2_deg"`
}

// TrailConfig sets the trail policy. A zero limit keeps every position.
type TrailConfig struct {
	Limit        int  `yaml:"limit"`
	ClearOnReset bool `yaml:"clear_on_reset"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: "semi_implicit",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		FPS:        DefaultFPS,
		GrabRadius: DefaultGrabRadius,
		Pendulum: PendulumConfig{
			OriginX:   pendulum.DefaultOriginX,
			OriginY:   pendulum.DefaultOriginY,
			Length1:   pendulum.DefaultLength,
			Length2:   pendulum.DefaultLength,
			Mass1:     pendulum.DefaultMass,
			Mass2:     pendulum.DefaultMass,
			Theta1Deg: pendulum.DefaultTheta,
			Theta2Deg: pendulum.DefaultTheta,
		},
		Trail: TrailConfig{Limit: DefaultTrailLimit},
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over a copy of base.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if !(c.Dt > 0) {
		return fmt.Errorf("dt must be positive, got %v: %w", c.Dt, dynamo.ErrParameterBounds)
	}
	if !(c.Duration > 0) {
		return fmt.Errorf("duration must be positive, got %v: %w", c.Duration, dynamo.ErrParameterBounds)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %d: %w", c.FPS, dynamo.ErrParameterBounds)
	}
	if c.Trail.Limit < 0 {
		return fmt.Errorf("trail limit must not be negative, got %d: %w", c.Trail.Limit, dynamo.ErrParameterBounds)
	}
	if c.GrabRadius < 0 {
		return fmt.Errorf("grab radius must not be negative, got %v: %w", c.GrabRadius, dynamo.ErrParameterBounds)
	}
	return c.Params().Validate()
}

func (c *Config) Params() pendulum.Params {
	p := c.Pendulum
	return pendulum.Params{
		Origin: pendulum.Point{X: p.OriginX, Y: p.OriginY},
		L1:     p.Length1, L2: p.Length2,
		M1: p.Mass1, M2: p.Mass2,
		Theta1: pendulum.Radians(p.Theta1Deg),
		Theta2: pendulum.Radians(p.Theta2Deg),
	}
}

// NewState validates the configuration and builds a pendulum from it.
func (c *Config) NewState() (*pendulum.State, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return pendulum.New(c.Params(), c.Trail.Limit)
}

func (c *Config) SimConfig() sim.Config {
	sc := sim.DefaultConfig()
	sc.Dt = c.Dt
	sc.Duration = c.Duration
	return sc
}

// Set assigns a numeric field by its YAML key. Pendulum fields are addressed
// without the "pendulum." prefix.
func (c *Config) Set(name string, v float64) error {
	switch name {
	case "dt":
		c.Dt = v
	case "duration":
		c.Duration = v
	case "grab_radius":
		c.GrabRadius = v
	case "origin_x":
		c.Pendulum.OriginX = v
	case "origin_y":
		c.Pendulum.OriginY = v
	case "length1":
		c.Pendulum.Length1 = v
	case "length2":
		c.Pendulum.Length2 = v
	case "mass1":
		c.Pendulum.Mass1 = v
	case "mass2":
		c.Pendulum.Mass2 = v
	case "theta1_deg":
		c.Pendulum.Theta1Deg = v
	case "theta2_deg":
		c.Pendulum.Theta2Deg = v
	default:
		return fmt.Errorf("unknown parameter: %s", name)
	}
	return nil
}
