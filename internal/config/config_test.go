package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr == "" {
		t.Error("default server address empty")
	}
	if cfg.Recording.WindowSeconds <= 0 {
		t.Error("default recording window not positive")
	}

	engine := cfg.ROM()
	if engine.MinVisibility != 0.7 {
		t.Errorf("MinVisibility = %f, want 0.7", engine.MinVisibility)
	}
	if engine.QualityThreshold != 0.7 {
		t.Errorf("QualityThreshold = %f, want 0.7", engine.QualityThreshold)
	}
}

func TestConfig_DecodeOverrides(t *testing.T) {
	cfg := DefaultConfig()

	doc := `
data_dir = "/var/lib/handrom"

[server]
addr = "0.0.0.0:9000"

[camera]
device_id = 2
presence_threshold = 2.5

[engine]
min_visibility = 0.6
kapandji_proximity = 0.2
`
	if _, err := toml.Decode(doc, &cfg); err != nil {
		t.Fatalf("decode error = %v", err)
	}

	if cfg.DataDir != "/var/lib/handrom" {
		t.Errorf("data dir = %q", cfg.DataDir)
	}
	if cfg.Server.Addr != "0.0.0.0:9000" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Camera.DeviceID != 2 || cfg.Camera.PresenceThreshold != 2.5 {
		t.Errorf("camera = %+v", cfg.Camera)
	}

	engine := cfg.ROM()
	if engine.MinVisibility != 0.6 {
		t.Errorf("MinVisibility = %f, want the override 0.6", engine.MinVisibility)
	}
	if engine.KapandjiProximity != 0.2 {
		t.Errorf("KapandjiProximity = %f, want the override 0.2", engine.KapandjiProximity)
	}
	// Untouched keys keep their defaults.
	if engine.ArtifactThreshold != 30.0 {
		t.Errorf("ArtifactThreshold = %f, want the default 30", engine.ArtifactThreshold)
	}
}

func TestLoad_FromXDGPath(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	path := filepath.Join(dir, "handrom")
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("mkdir error = %v", err)
	}
	doc := []byte("[recording]\nwindow_seconds = 45\n")
	if err := os.WriteFile(filepath.Join(path, "config.toml"), doc, 0644); err != nil {
		t.Fatalf("write error = %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Recording.WindowSeconds != 45 {
		t.Errorf("window = %d, want 45", cfg.Recording.WindowSeconds)
	}
}

func TestConfig_DBPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DataDir = "/tmp/handrom"

	if got := cfg.DBPath(); got != filepath.Join("/tmp/handrom", "handrom.db") {
		t.Errorf("DBPath() = %q", got)
	}
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home dir: %v", err)
	}

	if got := expandHome("~/station"); got != filepath.Join(home, "station") {
		t.Errorf("expandHome() = %q", got)
	}
	if got := expandHome("/absolute/path"); got != "/absolute/path" {
		t.Errorf("expandHome() = %q, want untouched", got)
	}
}
