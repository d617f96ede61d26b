// Package config loads build settings from a YAML file.
package config

import (
	"bytes"
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultFile is read from the working directory when no path is given.
const DefaultFile = "vmasm.yaml"

// Config holds the settings shared by every build command.
type Config struct {
	OutDir    string   `yaml:"out_dir"`
	Extension string   `yaml:"extension"`
	Addons    []string `yaml:"addons"`
	Scripts   []string `yaml:"scripts"`
	Listing   bool     `yaml:"listing"`
	Jobs      int      `yaml:"jobs"`
}

// Default returns the settings used when no file exists.
func Default() Config {
	return Config{
		OutDir:    "out",
		Extension: ".bin",
		Addons:    []string{"comments", "labels"},
		Jobs:      4,
	}
}

// Load reads path on top of the defaults. A missing DefaultFile is not an
// error; any other missing file is.
func Load(path string) (Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && os.IsNotExist(err) {
			return Default(), nil
		}
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	cfg, err := Parse(data)
	if err != nil {
		return Config{}, errors.Wrapf(err, "config %s", path)
	}
	return cfg, nil
}

// Parse decodes YAML over the defaults and validates the result. Unknown
// keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return Config{}, errors.Wrap(err, "decode")
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that YAML alone cannot.
func (c Config) Validate() error {
	if c.Jobs < 1 {
		return errors.Errorf("jobs must be at least 1, got %d", c.Jobs)
	}
	if c.Extension != "" && c.Extension[0] != '.' {
		return errors.Errorf("extension %q must start with a dot", c.Extension)
	}
	for _, name := range c.Addons {
		switch name {
		case "comments", "labels", "lua":
		default:
			return errors.Errorf("unknown addon %q", name)
		}
	}
	return nil
}
