package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Network.Listen != "0.0.0.0:5000" {
		t.Fatalf("Listen = %q, want 0.0.0.0:5000", cfg.Network.Listen)
	}
	if cfg.Network.BufferSize != 2048 {
		t.Fatalf("BufferSize = %d, want 2048", cfg.Network.BufferSize)
	}
	if cfg.LCD.Capacity != 15 || cfg.LCD.VisibleLines != 15 || cfg.LCD.LineWidth != 20 {
		t.Fatalf("LCD geometry = %+v, want 15/15/20", cfg.LCD)
	}
	if cfg.LCD.Driver != DriverTerminal {
		t.Fatalf("Driver = %q, want %q", cfg.LCD.Driver, DriverTerminal)
	}
	if !strings.HasPrefix(cfg.Log.File, home) {
		t.Fatalf("Log.File = %q, want it under HOME %q", cfg.Log.File, home)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
[network]
listen = "  127.0.0.1:6000  "
buffer_size = 512
ip = "10.0.0.2"

[lcd]
driver = " ILI9340 "
capacity = 8
visible_lines = 6
line_width = 24
spi_port = "SPI0.0"
dc_pin = "GPIO22"

[log]
level = "DEBUG"
file = "~/logs/loopback.log"
max_backups = 7
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Network.Listen != "127.0.0.1:6000" || cfg.Network.Port() != "6000" {
		t.Fatalf("Listen = %q (port %q)", cfg.Network.Listen, cfg.Network.Port())
	}
	if cfg.Network.BufferSize != 512 || cfg.Network.IP != "10.0.0.2" {
		t.Fatalf("Network = %+v", cfg.Network)
	}
	if cfg.Network.Gateway != "192.168.11.1" {
		t.Fatalf("Gateway = %q, want default kept", cfg.Network.Gateway)
	}
	if cfg.LCD.Driver != DriverILI9340 || cfg.LCD.Capacity != 8 || cfg.LCD.VisibleLines != 6 || cfg.LCD.LineWidth != 24 {
		t.Fatalf("LCD = %+v", cfg.LCD)
	}
	if cfg.LCD.SPIPort != "SPI0.0" || cfg.LCD.DCPin != "GPIO22" || cfg.LCD.ResetPin != "GPIO24" {
		t.Fatalf("LCD pins = %+v", cfg.LCD)
	}
	if cfg.Log.Level != "debug" || cfg.Log.MaxBackups != 7 || cfg.Log.MaxSizeMB != 10 {
		t.Fatalf("Log = %+v", cfg.Log)
	}
	if cfg.Log.File != filepath.Join(home, "logs", "loopback.log") {
		t.Fatalf("Log.File = %q", cfg.Log.File)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := writeConfig(t, `listen = [`)
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %v, want parse config error", err)
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"listen without port", "[network]\nlisten = \"localhost\"\n", "network.listen"},
		{"bad ip", "[network]\nip = \"300.1.1.1\"\n", "network.ip"},
		{"bad mac", "[network]\nmac = \"zz\"\n", "network.mac"},
		{"unknown driver", "[lcd]\ndriver = \"vga\"\n", "lcd.driver"},
		{"visible exceeds capacity", "[lcd]\ncapacity = 4\nvisible_lines = 5\n", "lcd.visible_lines"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Load error = %v, want mention of %q", err, tt.want)
			}
		})
	}
}

func TestValidate_DefaultsAreValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestValidate_ILI9340NeedsDCPin(t *testing.T) {
	cfg := Default()
	cfg.LCD.Driver = DriverILI9340
	cfg.LCD.DCPin = " "
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "lcd.dc_pin") {
		t.Fatalf("Validate = %v, want dc_pin error", err)
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	if want := filepath.Join(home, "a/b"); got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestDefaultPath_UnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if got := DefaultPath(); got != filepath.Join(home, ".config", "loopback", "config.toml") {
		t.Fatalf("DefaultPath = %q", got)
	}
}
