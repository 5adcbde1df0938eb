// Package config loads the optional cubestate configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/SeamusWaldron/cubestate/internal/cube"
)

// ErrInvalidConfig is returned when a configuration value cannot be used.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config holds settings shared by the CLI commands. Zero values mean
// "use the built-in default".
type Config struct {
	DBPath     string   `yaml:"db_path,omitempty"`
	Workers    int      `yaml:"workers,omitempty"`
	DenseLimit uint32   `yaml:"dense_limit,omitempty"`
	ChunkSize  uint32   `yaml:"chunk_size,omitempty"`
	Families   []string `yaml:"families,omitempty"`
	Variant    string   `yaml:"variant,omitempty"`
}

// File manages the configuration file.
type File struct {
	path   string
	config Config
}

// DefaultPath returns the default configuration file path.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".cubestate", "config.yaml"), nil
}

// Load reads the configuration at path. A missing file yields an empty
// configuration. Unknown keys are rejected.
func Load(path string) (*File, error) {
	f := &File{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f.config); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	if err := f.config.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// LoadDefault loads the configuration from the default path.
func LoadDefault() (*File, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Save writes the configuration to disk.
func (f *File) Save() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(f.config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Path returns the configuration file path.
func (f *File) Path() string {
	return f.path
}

// Config returns the loaded configuration.
func (f *File) Config() Config {
	return f.config
}

// Set replaces the configuration after validating it.
func (f *File) Set(c Config) error {
	if err := c.Validate(); err != nil {
		return err
	}
	f.config = c
	return nil
}

// Validate checks every set value.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}
	v, err := c.VariantValue()
	if err != nil {
		return err
	}
	families, err := c.FamilyValues()
	if err != nil {
		return err
	}
	for _, fam := range families {
		if fam.IsEdge() && !v.HasEdges() {
			return fmt.Errorf("%w: family %s not available for %s", ErrInvalidConfig, fam, v)
		}
	}
	return nil
}

// VariantValue returns the configured variant, Standard when unset.
func (c Config) VariantValue() (cube.Variant, error) {
	if c.Variant == "" {
		return cube.Standard, nil
	}
	v, err := cube.ParseVariant(c.Variant)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return v, nil
}

// FamilyValues returns the configured families, nil when unset.
func (c Config) FamilyValues() ([]cube.Family, error) {
	if len(c.Families) == 0 {
		return nil, nil
	}
	var seen [cube.NumFamilies]bool
	out := make([]cube.Family, 0, len(c.Families))
	for _, s := range c.Families {
		f, err := cube.ParseFamily(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		if seen[f] {
			return nil, fmt.Errorf("%w: family %s listed twice", ErrInvalidConfig, f)
		}
		seen[f] = true
		out = append(out, f)
	}
	return out, nil
}
