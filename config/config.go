package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go-resonate/midi"
	"go-resonate/monitor"
)

// Audio backends
const (
	BackendOto  = "oto"
	BackendNone = "none"
)

// AudioConfig selects the host audio driver
type AudioConfig struct {
	SampleRate int    `json:"sampleRate"`
	BlockSize  int    `json:"blockSize"`
	Backend    string `json:"backend"` // "oto" or "none"
}

// MonitorConfig controls the remote listening server
type MonitorConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr"`
}

// Config holds hardware wiring only; menu state is never saved
type Config struct {
	Audio   AudioConfig   `json:"audio"`
	Surface midi.Mapping  `json:"surface"`
	Monitor MonitorConfig `json:"monitor"`
	Debug   bool          `json:"debug,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			SampleRate: 48000,
			BlockSize:  48,
			Backend:    BackendOto,
		},
		Surface: midi.DefaultMapping(),
		Monitor: MonitorConfig{
			Addr: ":8090",
		},
	}
}

// Validate rejects settings the audio path cannot run with
func (c *Config) Validate() error {
	if c.Audio.SampleRate <= 0 {
		return fmt.Errorf("audio.sampleRate must be positive, got %d", c.Audio.SampleRate)
	}
	if c.Audio.BlockSize <= 0 || c.Audio.BlockSize > 1024 {
		return fmt.Errorf("audio.blockSize must be 1..1024, got %d", c.Audio.BlockSize)
	}
	switch c.Audio.Backend {
	case BackendOto, BackendNone:
	default:
		return fmt.Errorf("audio.backend must be %q or %q, got %q", BackendOto, BackendNone, c.Audio.Backend)
	}
	if c.Surface.Channel < 0 || c.Surface.Channel > 16 {
		return fmt.Errorf("surface.channel must be 0..16, got %d", c.Surface.Channel)
	}
	if c.Monitor.Enabled {
		if err := monitor.CheckSampleRate(c.Audio.SampleRate); err != nil {
			return fmt.Errorf("audio.sampleRate: %w", err)
		}
	}
	return nil
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-resonate"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from the default path, or returns defaults if not found
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	return LoadFile(path)
}

// LoadFile reads the config at path. Missing fields keep their defaults;
// a missing file yields DefaultConfig.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to the default path
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveFile(path)
}

// SaveFile writes the config to path, creating its directory
func (c *Config) SaveFile(path string) error {
	// Create directory if it doesn't exist
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
