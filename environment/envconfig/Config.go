// Package envconfig provides configuration structs for configuring
// environments with default physical parameters and tasks. Environment
// configurations in this package are JSON serializable.
package envconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"gonum.org/v1/gonum/mat"

	env "github.com/rlworld/classic/environment"
	"github.com/rlworld/classic/environment/classiccontrol/cartpole"
	"github.com/rlworld/classic/environment/classiccontrol/mountaincar"
	"github.com/rlworld/classic/environment/wrappers"
	"github.com/rlworld/classic/render/ascii"
	"github.com/rlworld/classic/render/frames"
)

// ErrUnknown is returned when a Config names an environment or render
// mode that does not exist
var ErrUnknown = errors.New("unknown configuration value")

// EnvName stores the name of environments that can be configured with
// this package
type EnvName string

// Environments available for configuration
const (
	MountainCar EnvName = "MountainCar"
	Cartpole    EnvName = "Cartpole"
)

// EnvNames returns all environments that can be configured
func EnvNames() []EnvName {
	return []EnvName{Cartpole, MountainCar}
}

// ParseEnvName returns the EnvName matching name, ignoring case
func ParseEnvName(name string) (EnvName, error) {
	for _, e := range EnvNames() {
		if strings.EqualFold(name, string(e)) {
			return e, nil
		}
	}
	return "", fmt.Errorf("parseEnvName: %w: environment %q", ErrUnknown,
		name)
}

// RenderMode determines which renderer, if any, is bound to a created
// environment
type RenderMode string

// Render modes available for configuration
const (
	NoRender RenderMode = "none"
	ASCII    RenderMode = "ascii"
	Frames   RenderMode = "frames"
)

// Config implements a specific configuration of a specific environment
// with its default task
type Config struct {
	Environment   EnvName    `json:"environment"`
	EpisodeCutoff uint       `json:"episode_cutoff"`
	Seed          uint64     `json:"seed"`
	Render        RenderMode `json:"render,omitempty"`
	FrameDir      string     `json:"frame_dir,omitempty"`
}

// NewConfig returns a new environment Config that does not render
func NewConfig(envName EnvName, episodeCutoff uint, seed uint64) Config {
	return Config{
		Environment:   envName,
		EpisodeCutoff: episodeCutoff,
		Seed:          seed,
		Render:        NoRender,
	}
}

// Load reads a JSON Config from path
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("load: %w", err)
	}

	var c Config
	if err := json.Unmarshal(data, &c); err != nil {
		return Config{}, fmt.Errorf("load: could not decode %v: %w", path, err)
	}
	if c.Render == "" {
		c.Render = NoRender
	}
	return c, c.Validate()
}

// Save writes the Config to path as JSON
func (c Config) Save(path string) error {
	data, err := json.MarshalIndent(c, "", "\t")
	if err != nil {
		return fmt.Errorf("save: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks that the Config describes an environment that can be
// created
func (c Config) Validate() error {
	if _, err := ParseEnvName(string(c.Environment)); err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	switch c.Render {
	case "", NoRender, ASCII:
	case Frames:
		if c.FrameDir == "" {
			return fmt.Errorf("validate: render mode %v needs a frame "+
				"directory", Frames)
		}
	default:
		return fmt.Errorf("validate: %w: render mode %q", ErrUnknown,
			c.Render)
	}
	return nil
}

type options struct {
	out    io.Writer
	logger *log.Logger
	record io.Writer
}

// Option configures how an environment is created
type Option func(*options)

// WithOutput sets the writer that ASCII rendering draws to. The default
// is standard output.
func WithOutput(w io.Writer) Option {
	return func(o *options) {
		o.out = w
	}
}

// WithLogger sets the logger used by created environments
func WithLogger(l *log.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithRecorder records every episode of the created environment as a
// JSON line written to w
func WithRecorder(w io.Writer) Option {
	return func(o *options) {
		o.record = w
	}
}

// Create returns the environment described by the Config. If the
// Config has a non-zero episode cutoff, the environment is wrapped so
// that episodes end after that many steps.
func (c Config) Create(opts ...Option) (env.Env[*mat.VecDense, int], error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}
	o := options{out: os.Stdout, logger: log.Default()}
	for _, opt := range opts {
		opt(&o)
	}

	name, _ := ParseEnvName(string(c.Environment))
	renderer, err := c.renderer(name, o.out)
	if err != nil {
		return nil, fmt.Errorf("create: %w", err)
	}

	var e env.Env[*mat.VecDense, int]
	switch name {
	case Cartpole:
		cartOpts := []cartpole.Option{cartpole.WithLogger(o.logger)}
		if renderer != nil {
			cartOpts = append(cartOpts, cartpole.WithRenderer(renderer))
		}
		e = cartpole.NewDefault(c.Seed, cartOpts...)

	case MountainCar:
		var carOpts []mountaincar.Option
		if renderer != nil {
			carOpts = append(carOpts, mountaincar.WithRenderer(renderer))
		}
		e = mountaincar.NewDefault(c.Seed, carOpts...)
	}

	if c.EpisodeCutoff > 0 {
		e = wrappers.NewStepLimit(e, int(c.EpisodeCutoff))
	}
	if o.record != nil {
		e = wrappers.NewRecorder[int](e, o.record)
	}
	return e, nil
}

// renderer returns the renderer for the configured render mode, or nil
// if the environment should not render
func (c Config) renderer(name EnvName, out io.Writer) (env.Renderer, error) {
	switch c.Render {
	case ASCII:
		if name == Cartpole {
			return ascii.NewCartPole(out), nil
		}
		return ascii.NewMountainCar(out), nil

	case Frames:
		newFrames := frames.NewMountainCar
		if name == Cartpole {
			newFrames = frames.NewCartPole
		}
		r, err := newFrames(c.FrameDir)
		if err != nil {
			return nil, err
		}
		return r, nil
	}
	return nil, nil
}

// Describe returns the specifications of the configured environment's
// action and observation spaces and of its task's rewards
func (c Config) Describe() (env.EnvSpec, error) {
	c.Render = NoRender
	c.EpisodeCutoff = 0
	e, err := c.Create()
	if err != nil {
		return env.EnvSpec{}, fmt.Errorf("describe: %w", err)
	}
	defer e.Close()

	name, _ := ParseEnvName(string(c.Environment))
	return env.Describe(string(name), e)
}
