// Package neural defines small fully-connected networks used as learnable
// stand-ins for analytic signed distance fields. Only the model definition,
// its batched evaluation and its input gradients live here; training is out
// of scope.
package neural

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config describes a network architecture.
type Config struct {
	// Inputs is the point dimensionality, 2 or 3. For time-varying fields the
	// last input coordinate carries the time parameter.
	Inputs int `yaml:"inputs"`
	// Hidden lists the hidden layer widths.
	Hidden []int `yaml:"hidden"`
	// Activation selects the hidden nonlinearity: "sine" or "tanh".
	Activation string `yaml:"activation"`
	// Omega is the sine frequency multiplier. Ignored for tanh.
	Omega float32 `yaml:"omega"`
	// Seed seeds weight initialization.
	Seed int64 `yaml:"seed"`
}

// DefaultConfig returns the embedded default architecture.
func DefaultConfig() Config {
	var c Config
	if err := yaml.Unmarshal(defaultsYAML, &c); err != nil {
		panic("bad embedded defaults: " + err.Error())
	}
	return c
}

// LoadConfig reads a YAML architecture file, starting from the embedded
// defaults so partial files are valid.
func LoadConfig(path string) (Config, error) {
	c := DefaultConfig()
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading network config: %w", err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("parsing network config %s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) validate() error {
	if c.Inputs != 2 && c.Inputs != 3 {
		return fmt.Errorf("network inputs must be 2 or 3, got %d", c.Inputs)
	}
	if len(c.Hidden) == 0 {
		return fmt.Errorf("network needs at least one hidden layer")
	}
	for _, h := range c.Hidden {
		if h < 1 {
			return fmt.Errorf("bad hidden layer width %d", h)
		}
	}
	switch c.Activation {
	case "sine":
		if c.Omega <= 0 {
			return fmt.Errorf("sine activation needs omega > 0, got %g", c.Omega)
		}
	case "tanh":
	default:
		return fmt.Errorf("unknown activation %q", c.Activation)
	}
	return nil
}
