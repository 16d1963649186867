package lugha

import (
	"os"

	yaml "gopkg.in/yaml.v2"
)

// Default configuration values.
const (
	DefaultMaxIterations = 10000
	DefaultMaxCallDepth  = 1000
	DefaultPrompt        = "lugha> "
	DefaultContPrompt    = "...... "
)

// Config carries the interpreter and REPL knobs. The zero value of any
// field means its default.
type Config struct {
	// MaxIterations bounds each loop activation.
	MaxIterations int `yaml:"max_iterations"`
	// MaxCallDepth bounds nested function activations.
	MaxCallDepth int `yaml:"max_call_depth"`
	// Prompt and ContPrompt are the REPL's input prompts.
	Prompt     string `yaml:"prompt"`
	ContPrompt string `yaml:"cont_prompt"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (c Config) withDefaults() Config {
	if c.MaxIterations == 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.MaxCallDepth == 0 {
		c.MaxCallDepth = DefaultMaxCallDepth
	}
	if c.Prompt == "" {
		c.Prompt = DefaultPrompt
	}
	if c.ContPrompt == "" {
		c.ContPrompt = DefaultContPrompt
	}
	return c
}

// LoadConfig reads a YAML config file. A missing file is not an error; it
// yields the defaults.
func LoadConfig(path string) (Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return Config{}, err
	}
	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, err
	}
	return c.withDefaults(), nil
}
