package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/airsketch/internal/canvas"
)

func env(values map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := values[k]
		return v, ok
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, canvas.DefaultSize, cfg.CanvasSize())
	assert.Equal(t, "#000000", cfg.Brush.Color)
	assert.Equal(t, float64(canvas.DefaultPenWidth), cfg.Brush.Width)
	assert.False(t, cfg.Brush.IncludeTemplate)
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := load("", env(map[string]string{EnvDataDir: dir}))
	require.NoError(t, err)
	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "airsketch.db"), cfg.DBPath())
	assert.Equal(t, filepath.Join(dir, "drawings"), cfg.ExportDir())
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := load(filepath.Join(t.TempDir(), "nope.toml"), env(nil))
	assert.Error(t, err)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
addr = ":9090"
tray = false

[camera]
device = 2
auto_start = true

[detector]
script = "/opt/airsketch/mediapipe_service.py"
min_confidence = 0.7

[canvas]
width = 800
height = 600

[brush]
color = "tomato"
width = 4.0

[log]
level = "debug"
`)

	cfg, err := load(path, env(nil))
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.False(t, cfg.Tray)
	assert.Equal(t, 2, cfg.Camera.Device)
	assert.True(t, cfg.Camera.AutoStart)
	assert.Equal(t, 1.0, cfg.Camera.MotionThreshold, "unset keys keep defaults")
	assert.Equal(t, canvas.Size{Width: 800, Height: 600}, cfg.CanvasSize())
	assert.Equal(t, "tomato", cfg.Preferences().Color)
	assert.Equal(t, 4.0, cfg.Preferences().Width)
	assert.Equal(t, 10, cfg.Log.MaxSizeMB)

	mp := cfg.MediaPipe()
	assert.Equal(t, "/opt/airsketch/mediapipe_service.py", mp.ScriptPath)
	assert.Equal(t, 0.7, mp.MinConfidence)
	assert.Equal(t, 1, mp.MaxHands)

	level, err := ParseLevel(cfg.Log.Level)
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "addr = \":9090\"\n[camera]\ndevice = 2\n")

	cfg, err := load(path, env(map[string]string{
		EnvAddr:     ":7070",
		EnvCamera:   "1",
		EnvLogLevel: "warn",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Addr)
	assert.Equal(t, 1, cfg.Camera.Device)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		env  map[string]string
	}{
		{name: "bad toml", body: "addr = "},
		{name: "bad colour", body: "[brush]\ncolor = \"blurple\"\n"},
		{name: "zero width", body: "[brush]\nwidth = 0\n"},
		{name: "empty canvas", body: "[canvas]\nwidth = 0\n"},
		{name: "huge canvas", body: "[canvas]\nwidth = 100000\nheight = 75000\n"},
		{name: "negative camera", body: "[camera]\ndevice = -1\n"},
		{name: "bad confidence", body: "[detector]\nmin_confidence = 1.5\n"},
		{name: "bad level", body: "[log]\nlevel = \"loud\"\n"},
		{name: "bad camera env", body: "", env: map[string]string{EnvCamera: "front"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := load(writeConfig(t, tt.body), env(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestLogFile(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/data"
	assert.Equal(t, filepath.Join("/data", "logs", "airsketch.log"), cfg.LogFile())

	cfg.Log.File = "/var/log/airsketch.log"
	assert.Equal(t, "/var/log/airsketch.log", cfg.LogFile())
}
