// Package config loads the station configuration from a TOML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/sreevidya/handrom/internal/rom"
)

// Config holds all station configuration.
type Config struct {
	DataDir string `toml:"data_dir"`

	Server    ServerConfig    `toml:"server"`
	Camera    CameraConfig    `toml:"camera"`
	Recording RecordingConfig `toml:"recording"`
	Engine    EngineConfig    `toml:"engine"`
}

type ServerConfig struct {
	Addr      string `toml:"addr"`
	StaticDir string `toml:"static_dir"`
}

type CameraConfig struct {
	DeviceID          int     `toml:"device_id"`
	PresenceThreshold float64 `toml:"presence_threshold"`
}

type RecordingConfig struct {
	WindowSeconds int `toml:"window_seconds"`
}

// EngineConfig exposes the measurement thresholds so a clinic can tune them
// without rebuilding the station.
type EngineConfig struct {
	MinVisibility         float64 `toml:"min_visibility"`
	VisibilityBypassRatio float64 `toml:"visibility_bypass_ratio"`
	QualityThreshold      float64 `toml:"quality_threshold"`
	ArtifactThreshold     float64 `toml:"artifact_threshold"`
	QualityWindow         int     `toml:"quality_window"`
	MedianWindow          int     `toml:"median_window"`
	KapandjiProximity     float64 `toml:"kapandji_proximity"`
	HandednessGraceFrames int     `toml:"handedness_grace_frames"`
	MinFrames             int     `toml:"min_frames"`
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	engine := rom.DefaultConfig()
	return Config{
		DataDir: "~/.handrom",
		Server: ServerConfig{
			Addr: "127.0.0.1:8750",
		},
		Camera: CameraConfig{
			DeviceID:          0,
			PresenceThreshold: 1.0,
		},
		Recording: RecordingConfig{
			WindowSeconds: 20,
		},
		Engine: EngineConfig{
			MinVisibility:         engine.MinVisibility,
			VisibilityBypassRatio: engine.VisibilityBypassRatio,
			QualityThreshold:      engine.QualityThreshold,
			ArtifactThreshold:     engine.ArtifactThreshold,
			QualityWindow:         engine.QualityWindow,
			MedianWindow:          engine.MedianWindow,
			KapandjiProximity:     engine.KapandjiProximity,
			HandednessGraceFrames: engine.HandednessGraceFrames,
			MinFrames:             engine.MinFrames,
		},
	}
}

// Load reads config from the standard path, falling back to defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			if _, err := toml.DecodeFile(p, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", p, err)
			}
			break
		}
	}

	cfg.DataDir = expandHome(cfg.DataDir)
	cfg.Server.StaticDir = expandHome(cfg.Server.StaticDir)

	return cfg, nil
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "handrom", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "handrom", "config.toml"))
	}

	return paths
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// DBPath returns the SQLite database path inside the data directory.
func (c Config) DBPath() string {
	return filepath.Join(c.DataDir, "handrom.db")
}

// ROM maps the engine section onto the measurement configuration.
func (c Config) ROM() rom.Config {
	return rom.Config{
		MinVisibility:         c.Engine.MinVisibility,
		VisibilityBypassRatio: c.Engine.VisibilityBypassRatio,
		QualityThreshold:      c.Engine.QualityThreshold,
		ArtifactThreshold:     c.Engine.ArtifactThreshold,
		QualityWindow:         c.Engine.QualityWindow,
		MedianWindow:          c.Engine.MedianWindow,
		KapandjiProximity:     c.Engine.KapandjiProximity,
		HandednessGraceFrames: c.Engine.HandednessGraceFrames,
		MinFrames:             c.Engine.MinFrames,
	}
}
