package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/airdraw/internal/canvas"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 0.70, cfg.Classifier.Threshold)
	assert.Equal(t, 0.90, cfg.Classifier.StrictThreshold)
	assert.Equal(t, 5, cfg.Tracking.SmoothingSize)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeFile(t, `
camera:
  device_id: 2
  mirror: false
server:
  addr: ":9000"
tracking:
  idle_cooldown: 5s
palette:
  - {name: WHITE, r: 255, g: 255, b: 255}
  - {name: RED, r: 255}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Camera.DeviceID)
	assert.False(t, cfg.Camera.Mirror)
	assert.Equal(t, 640, cfg.Camera.Width, "unset fields keep defaults")
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Tracking.IdleCooldown)
	assert.Equal(t, 15, cfg.Tracking.ActiveFPS)
	assert.Equal(t, []canvas.Color{
		{Name: "WHITE", R: 255, G: 255, B: 255},
		{Name: "RED", R: 255},
	}, cfg.Palette)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed", "camera: [unterminated"},
		{"threshold above one", "classifier:\n  threshold: 1.5\n"},
		{"zero smoothing", "tracking:\n  smoothing_size: 0\n"},
		{"duplicate color", "palette:\n  - {name: RED, r: 255}\n  - {name: RED, r: 200}\n"},
		{"unnamed color", "palette:\n  - {r: 1}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestConfig_SaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.Server.Addr = ":8081"
	cfg.Palette = canvas.DefaultPalette()
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestLoadOrInit(t *testing.T) {
	t.Run("writes defaults on first run", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "config.yaml")

		cfg, err := LoadOrInit(path)
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
		assert.FileExists(t, path)

		again, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, cfg, again)
	})

	t.Run("leaves an existing file alone", func(t *testing.T) {
		path := writeFile(t, "server:\n  addr: \":9000\"\n")

		cfg, err := LoadOrInit(path)
		require.NoError(t, err)
		assert.Equal(t, ":9000", cfg.Server.Addr)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "server:\n  addr: \":9000\"\n", string(data))
	})
}

func TestConfig_Paths(t *testing.T) {
	cfg := &Config{DataDir: "/tmp/airdraw"}
	assert.Equal(t, "/tmp/airdraw/airdraw.db", cfg.DBPath())
	assert.Equal(t, "config.yaml", filepath.Base(DefaultPath()))
}
