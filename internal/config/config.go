// Package config loads airdraw settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ayusman/airdraw/internal/canvas"
	"github.com/ayusman/airdraw/internal/gesture"
	"github.com/ayusman/airdraw/internal/smoothing"
)

// DirName is the per-user directory under $HOME holding config and data.
const DirName = ".airdraw"

// Config is the on-disk configuration. Zero values are replaced by defaults
// on Load.
type Config struct {
	Camera     CameraConfig     `yaml:"camera"`
	Server     ServerConfig     `yaml:"server"`
	Tracking   TrackingConfig   `yaml:"tracking"`
	DataDir    string           `yaml:"data_dir"`
	Palette    []canvas.Color   `yaml:"palette,omitempty"`
	Classifier ClassifierConfig `yaml:"classifier"`
}

type CameraConfig struct {
	DeviceID int  `yaml:"device_id"`
	Width    int  `yaml:"width"`
	Height   int  `yaml:"height"`
	Mirror   bool `yaml:"mirror"`
}

type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"static_dir"`
}

type TrackingConfig struct {
	IdleFPS         int           `yaml:"idle_fps"`
	ActiveFPS       int           `yaml:"active_fps"`
	IdleCooldown    time.Duration `yaml:"idle_cooldown"`
	MotionThreshold float64       `yaml:"motion_threshold"`
	SmoothingSize   int           `yaml:"smoothing_size"`
	// MediaPipeScript overrides the hand detector script search.
	MediaPipeScript string `yaml:"mediapipe_script,omitempty"`
}

type ClassifierConfig struct {
	Threshold       float64 `yaml:"threshold"`
	StrictThreshold float64 `yaml:"strict_threshold"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Camera: CameraConfig{
			Width:  640,
			Height: 480,
			Mirror: true,
		},
		Server: ServerConfig{
			Addr:      "127.0.0.1:7400",
			StaticDir: "web",
		},
		Tracking: TrackingConfig{
			IdleFPS:         5,
			ActiveFPS:       15,
			IdleCooldown:    2 * time.Second,
			MotionThreshold: 1.0,
			SmoothingSize:   smoothing.DefaultSize,
		},
		DataDir: defaultDataDir(),
		Classifier: ClassifierConfig{
			Threshold:       gesture.DefaultThreshold,
			StrictThreshold: gesture.DefaultStrictThreshold,
		},
	}
}

// DefaultPath returns ~/.airdraw/config.yaml.
func DefaultPath() string {
	return filepath.Join(defaultDataDir(), "config.yaml")
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadOrInit is Load, except that a missing file is created from the
// defaults so there is something to edit after the first run.
func LoadOrInit(path string) (*Config, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("write default config: %w", err)
		}
		return cfg, nil
	}
	return Load(path)
}

// Save writes cfg to path, creating the parent directory.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	cl := c.Classifier
	if cl.Threshold <= 0 || cl.Threshold > 1 || cl.StrictThreshold <= 0 || cl.StrictThreshold > 1 {
		return fmt.Errorf("classifier thresholds must be in (0, 1], got %v and %v", cl.Threshold, cl.StrictThreshold)
	}
	if c.Tracking.SmoothingSize < 1 {
		return fmt.Errorf("smoothing_size must be at least 1, got %d", c.Tracking.SmoothingSize)
	}
	if c.Tracking.IdleFPS <= 0 || c.Tracking.ActiveFPS <= 0 {
		return fmt.Errorf("frame rates must be positive")
	}
	seen := make(map[string]bool, len(c.Palette))
	for _, col := range c.Palette {
		if col.Name == "" {
			return fmt.Errorf("palette color without a name")
		}
		if seen[col.Name] {
			return fmt.Errorf("duplicate palette color %q", col.Name)
		}
		seen[col.Name] = true
	}
	return nil
}

// DBPath returns the SQLite database location inside DataDir.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "airdraw.db")
}
