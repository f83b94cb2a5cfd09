package config

import (
	"fmt"
	"os"

	"github.com/san-kum/ctmqc/internal/ensemble"
	"gopkg.in/yaml.v3"
)

const (
	DefaultReplicas   = 20
	DefaultDofs       = 1
	DefaultStates     = 2
	DefaultStepSize   = 1e-5
	DefaultWidthConst = 3.0
	DefaultDt         = 0.1
	DefaultMethod     = "analytic"
)

type Config struct {
	Replicas        int          `yaml:"replicas"`
	Dofs            int          `yaml:"dofs"`
	States          int          `yaml:"states"`
	Seed            int64        `yaml:"seed"`
	StepSize        float64      `yaml:"step_size"`
	WidthConst      float64      `yaml:"width_const"`
	RecomputeWidths bool         `yaml:"recompute_widths"`
	Dt              float64      `yaml:"dt"`
	Method          string       `yaml:"method"`
	Spread          SpreadConfig `yaml:"spread"`
	Log             LogConfig    `yaml:"log"`
}

type SpreadConfig struct {
	Center     float64 `yaml:"center"`
	Std        float64 `yaml:"std"`
	WidthMean  float64 `yaml:"width_mean"`
	WidthStd   float64 `yaml:"width_std"`
	WidthFloor float64 `yaml:"width_floor"`
	Mass       float64 `yaml:"mass"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Pretty bool   `yaml:"pretty"`
}

// Override returns l with level and pretty replacing the file values when
// they were set explicitly.
func (l LogConfig) Override(level string, levelSet bool, pretty, prettySet bool) LogConfig {
	if levelSet || l.Level == "" {
		l.Level = level
	}
	if prettySet {
		l.Pretty = pretty
	}
	return l
}

func DefaultConfig() *Config {
	s := ensemble.DefaultSpread()
	return &Config{
		Replicas:   DefaultReplicas,
		Dofs:       DefaultDofs,
		States:     DefaultStates,
		StepSize:   DefaultStepSize,
		WidthConst: DefaultWidthConst,
		Dt:         DefaultDt,
		Method:     DefaultMethod,
		Spread: SpreadConfig{
			Center:     s.Center,
			Std:        s.Std,
			WidthMean:  s.WidthMean,
			WidthStd:   s.WidthStd,
			WidthFloor: s.WidthFloor,
			Mass:       s.Mass,
		},
		Log: LogConfig{Level: "info"},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations that would build an invalid ensemble.
func (c *Config) Validate() error {
	if c.Replicas <= 0 || c.Dofs <= 0 {
		return fmt.Errorf("%w: replicas and dofs must be positive, got %d and %d",
			ensemble.ErrEmptyEnsemble, c.Replicas, c.Dofs)
	}
	if c.States < 0 {
		return fmt.Errorf("%w: states must be non-negative, got %d", ensemble.ErrInvalidParams, c.States)
	}
	if c.Spread.Mass <= 0 {
		return fmt.Errorf("%w: got %g", ensemble.ErrNonPositiveMass, c.Spread.Mass)
	}
	if c.Spread.WidthFloor <= 0 {
		return fmt.Errorf("%w: width floor must be positive, got %g", ensemble.ErrNonPositiveWidth, c.Spread.WidthFloor)
	}
	if _, err := ensemble.New(1, 1, 0, c.Params()); err != nil {
		return err
	}
	return nil
}

func (c *Config) Params() ensemble.Params {
	return ensemble.Params{
		StepSize:        c.StepSize,
		WidthConst:      c.WidthConst,
		RecomputeWidths: c.RecomputeWidths,
		Dt:              c.Dt,
	}
}

func (c *Config) GetSpread() ensemble.Spread {
	return ensemble.Spread{
		Center:     c.Spread.Center,
		Std:        c.Spread.Std,
		WidthMean:  c.Spread.WidthMean,
		WidthStd:   c.Spread.WidthStd,
		WidthFloor: c.Spread.WidthFloor,
		Mass:       c.Spread.Mass,
	}
}
