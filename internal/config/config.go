// Package config loads application settings from an optional TOML file and
// the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/ayusman/airsketch/internal/canvas"
	"github.com/ayusman/airsketch/internal/detector"
	"github.com/ayusman/airsketch/internal/session"
)

// Environment variables that override the file.
const (
	EnvAddr     = "AIRSKETCH_ADDR"
	EnvCamera   = "AIRSKETCH_CAMERA"
	EnvDataDir  = "AIRSKETCH_DATA_DIR"
	EnvLogLevel = "AIRSKETCH_LOG_LEVEL"
)

// FileName is the config file looked up in the data directory when no path
// is given.
const FileName = "config.toml"

// Config holds all application settings.
type Config struct {
	Addr      string `toml:"addr"`
	StaticDir string `toml:"static_dir"`
	DataDir   string `toml:"data_dir"`
	Tray      bool   `toml:"tray"`

	Camera   CameraConfig   `toml:"camera"`
	Detector DetectorConfig `toml:"detector"`
	Canvas   CanvasConfig   `toml:"canvas"`
	Brush    BrushConfig    `toml:"brush"`
	Log      LogConfig      `toml:"log"`
}

type CameraConfig struct {
	Device          int     `toml:"device"`
	MotionThreshold float64 `toml:"motion_threshold"`
	AutoStart       bool    `toml:"auto_start"`
}

// DetectorConfig locates and tunes the MediaPipe landmark service.
type DetectorConfig struct {
	Script        string  `toml:"script"`
	Python        string  `toml:"python"`
	MinConfidence float64 `toml:"min_confidence"`
}

type CanvasConfig struct {
	Width  int `toml:"width"`
	Height int `toml:"height"`
}

// BrushConfig is the tool state of a fresh install. Saved preferences take
// precedence once the user changes anything.
type BrushConfig struct {
	Color           string  `toml:"color"`
	Width           float64 `toml:"width"`
	IncludeTemplate bool    `toml:"include_template"`
}

type LogConfig struct {
	Level      string `toml:"level"`
	File       string `toml:"file"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
}

// Default returns the built-in settings.
func Default() Config {
	dataDir := ".airsketch"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".airsketch")
	}

	return Config{
		Addr:    "127.0.0.1:8080",
		DataDir: dataDir,
		Tray:    true,
		Camera: CameraConfig{
			MotionThreshold: 1.0,
		},
		Detector: DetectorConfig{
			MinConfidence: 0.5,
		},
		Canvas: CanvasConfig{
			Width:  canvas.DefaultSize.Width,
			Height: canvas.DefaultSize.Height,
		},
		Brush: BrushConfig{
			Color: "#000000",
			Width: canvas.DefaultPenWidth,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Load reads settings. Values start at Default, are replaced by those in
// the TOML file at path, then by environment variables. An empty path
// means FileName in the data directory, which may be absent.
func Load(path string) (Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (Config, error) {
	cfg := Default()

	// The data dir decides where the default file lives.
	if v, ok := lookup(EnvDataDir); ok && v != "" {
		cfg.DataDir = v
	}

	optional := path == ""
	if optional {
		path = filepath.Join(cfg.DataDir, FileName)
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	case optional && errors.Is(err, fs.ErrNotExist):
	default:
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(lookup); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvAddr); ok && v != "" {
		c.Addr = v
	}
	if v, ok := lookup(EnvDataDir); ok && v != "" {
		c.DataDir = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup(EnvCamera); ok && v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCamera, err)
		}
		c.Camera.Device = id
	}
	return nil
}

// Validate checks that every setting is usable.
func (c Config) Validate() error {
	if c.Addr == "" {
		return errors.New("addr must not be empty")
	}
	if c.DataDir == "" {
		return errors.New("data_dir must not be empty")
	}
	if c.Camera.Device < 0 {
		return fmt.Errorf("camera.device must not be negative, got %d", c.Camera.Device)
	}
	if mc := c.Detector.MinConfidence; mc < 0 || mc > 1 {
		return fmt.Errorf("detector.min_confidence must be within [0,1], got %v", mc)
	}
	if !c.CanvasSize().Valid() {
		return fmt.Errorf("canvas: %w: %s (at most %d per side)", canvas.ErrInvalidSize, c.CanvasSize(), canvas.MaxDimension)
	}
	if _, err := canvas.ParseColor(c.Brush.Color); err != nil {
		return fmt.Errorf("brush.color: %w", err)
	}
	if !canvas.ValidWidth(c.Brush.Width) {
		return fmt.Errorf("brush.width: %w: %v", canvas.ErrInvalidWidth, c.Brush.Width)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// CanvasSize returns the initial canvas size.
func (c Config) CanvasSize() canvas.Size {
	return canvas.Size{Width: c.Canvas.Width, Height: c.Canvas.Height}
}

// Preferences returns the brush settings as session preferences.
func (c Config) Preferences() session.Preferences {
	return session.Preferences{
		Tool:            canvas.Brush,
		Color:           c.Brush.Color,
		Width:           c.Brush.Width,
		IncludeTemplate: c.Brush.IncludeTemplate,
	}
}

// MediaPipe returns the landmark service settings.
func (c Config) MediaPipe() detector.Config {
	d := detector.DefaultConfig()
	d.ScriptPath = c.Detector.Script
	d.PythonPath = c.Detector.Python
	if c.Detector.MinConfidence > 0 {
		d.MinConfidence = c.Detector.MinConfidence
		d.MinTrackingConf = c.Detector.MinConfidence
	}
	return d
}

// DBPath returns the SQLite database location.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "airsketch.db")
}

// ExportDir returns where drawings saved from the tray are written.
func (c Config) ExportDir() string {
	return filepath.Join(c.DataDir, "drawings")
}

// LogFile returns the log file path.
func (c Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, "logs", "airsketch.log")
}

// ParseLevel converts a level name to a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return l, nil
}
