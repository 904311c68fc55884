package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Format FormatConfig `toml:"format" yaml:"format"`
	Store  StoreConfig  `toml:"store" yaml:"store"`
	Stream StreamConfig `toml:"stream" yaml:"stream"`
}

type FormatConfig struct {
	Indent    int    `toml:"indent,omitempty" yaml:"indent,omitempty"`
	Color     string `toml:"color,omitempty" yaml:"color,omitempty"` // auto, always or never
	MaxFrames int    `toml:"max_frames,omitempty" yaml:"max_frames,omitempty"`
}

type StoreConfig struct {
	CacheSize int `toml:"cache_size,omitempty" yaml:"cache_size,omitempty"`
}

type StreamConfig struct {
	Compression string `toml:"compression,omitempty" yaml:"compression,omitempty"`
}

func Default() *Config {
	return &Config{
		Format: FormatConfig{Indent: 14, Color: "auto"},
		Store:  StoreConfig{CacheSize: 1000},
		Stream: StreamConfig{Compression: "zstd"},
	}
}

func parseTOML(f io.Reader) (*Config, error) {
	out := Default()
	_, err := toml.NewDecoder(f).Decode(out)
	if err != nil {
		return nil, err
	}
	if err := out.validate(); err != nil {
		return nil, err
	}
	return out, nil
}

func parseYAML(f io.Reader) (*Config, error) {
	out := Default()
	err := yaml.NewDecoder(f).Decode(out)
	if err != nil && err != io.EOF {
		return nil, err
	}
	if err := out.validate(); err != nil {
		return nil, err
	}
	return out, nil
}

// LoadFromFile reads a TOML or YAML config, chosen by extension. Missing
// settings keep their defaults.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return parseYAML(f)
	default:
		return parseTOML(f)
	}
}

func (c *Config) validate() error {
	switch c.Format.Color {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("format.color: unknown mode %q", c.Format.Color)
	}
	if c.Format.Indent < 0 {
		return fmt.Errorf("format.indent: must not be negative")
	}
	if c.Format.MaxFrames < 0 {
		return fmt.Errorf("format.max_frames: must not be negative")
	}
	switch c.Stream.Compression {
	case "none", "zstd":
	default:
		return fmt.Errorf("stream.compression: unknown codec %q", c.Stream.Compression)
	}
	return nil
}
