package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New(), filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service.BaseURL != "http://localhost:8000" {
		t.Errorf("BaseURL = %q", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0", cfg.Service.Timeout)
	}
	if cfg.Export.Dir != "." || !cfg.Output.Color || cfg.Log.Level != "info" {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "service:\n  base_url: http://design.lab:9000\n  timeout: 30s\nexport:\n  dir: /tmp/out\nlog:\n  level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(viper.New(), path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service.BaseURL != "http://design.lab:9000" {
		t.Errorf("BaseURL = %q", cfg.Service.BaseURL)
	}
	if cfg.Service.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Service.Timeout)
	}
	if cfg.Export.Dir != "/tmp/out" {
		t.Errorf("Export.Dir = %q", cfg.Export.Dir)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("CRISPR_SERVICE_BASE_URL", "http://env:1234")

	cfg, err := Load(viper.New(), "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service.BaseURL != "http://env:1234" {
		t.Errorf("BaseURL = %q, want env override", cfg.Service.BaseURL)
	}
}

func TestLoad_InvalidLevel(t *testing.T) {
	v := viper.New()
	v.Set(KeyLogLevel, "chatty")
	if _, err := Load(v, ""); err == nil {
		t.Error("expected error for invalid log level")
	}
}

func TestSaveConfig_DoesNotOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	v := viper.New()
	SetDefaults(v)

	if err := SaveConfig(v, path); err != nil {
		t.Fatalf("SaveConfig() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}
	if err := SaveConfig(v, path); err == nil {
		t.Error("expected error when config already exists")
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("warn")
	if err != nil || l != slog.LevelWarn {
		t.Errorf("ParseLevel(warn) = %v, %v", l, err)
	}
}
