package config

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/netip"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

// Driver names accepted in [lcd].driver.
const (
	DriverTerminal = "terminal"
	DriverILI9340  = "ili9340"
	DriverNone     = "none"
)

// Config is the resolved program configuration.
type Config struct {
	Network Network
	LCD     LCD
	Log     Log
}

// Network holds the listener settings and the board's network identity.
type Network struct {
	Listen     string
	BufferSize int
	MAC        string
	IP         string
	Subnet     string
	Gateway    string
	DNS        string
}

// LCD sizes the scroll log and selects the panel driver.
type LCD struct {
	Driver       string
	Capacity     int
	VisibleLines int
	LineWidth    int
	SPIPort      string
	SPIHz        int64
	DCPin        string
	ResetPin     string
}

// Log configures the logger.
type Log struct {
	Level      string
	File       string
	MaxSizeMB  int
	MaxBackups int
}

const (
	defaultConfigPath = "~/.config/loopback/config.toml"
	defaultLogFile    = "~/.local/state/loopback/loopback.log"
)

// Default returns the compiled-in configuration of the reference board.
func Default() Config {
	return Config{
		Network: Network{
			Listen:     "0.0.0.0:5000",
			BufferSize: 2048,
			MAC:        "00:08:dc:12:34:56",
			IP:         "192.168.11.2",
			Subnet:     "255.255.255.0",
			Gateway:    "192.168.11.1",
			DNS:        "8.8.8.8",
		},
		LCD: LCD{
			Driver:       DriverTerminal,
			Capacity:     15,
			VisibleLines: 15,
			LineWidth:    20,
			SPIHz:        40_000_000,
			DCPin:        "GPIO25",
			ResetPin:     "GPIO24",
		},
		Log: Log{
			Level:      "info",
			File:       mustExpand(defaultLogFile),
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

type rawConfig struct {
	Network struct {
		Listen     string `toml:"listen"`
		BufferSize int    `toml:"buffer_size"`
		MAC        string `toml:"mac"`
		IP         string `toml:"ip"`
		Subnet     string `toml:"subnet"`
		Gateway    string `toml:"gateway"`
		DNS        string `toml:"dns"`
	} `toml:"network"`
	LCD struct {
		Driver       string `toml:"driver"`
		Capacity     int    `toml:"capacity"`
		VisibleLines int    `toml:"visible_lines"`
		LineWidth    int    `toml:"line_width"`
		SPIPort      string `toml:"spi_port"`
		SPIHz        int64  `toml:"spi_hz"`
		DCPin        string `toml:"dc_pin"`
		ResetPin     string `toml:"reset_pin"`
	} `toml:"lcd"`
	Log struct {
		Level      string `toml:"level"`
		File       string `toml:"file"`
		MaxSizeMB  int    `toml:"max_size_mb"`
		MaxBackups int    `toml:"max_backups"`
	} `toml:"log"`
}

// Load reads the config at path (or the default path), falling back to
// defaults for a missing file and for empty fields.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw rawConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	n := &cfg.Network
	setString(&n.Listen, raw.Network.Listen)
	setInt(&n.BufferSize, raw.Network.BufferSize)
	setString(&n.MAC, raw.Network.MAC)
	setString(&n.IP, raw.Network.IP)
	setString(&n.Subnet, raw.Network.Subnet)
	setString(&n.Gateway, raw.Network.Gateway)
	setString(&n.DNS, raw.Network.DNS)

	l := &cfg.LCD
	setString(&l.Driver, strings.ToLower(raw.LCD.Driver))
	setInt(&l.Capacity, raw.LCD.Capacity)
	setInt(&l.VisibleLines, raw.LCD.VisibleLines)
	setInt(&l.LineWidth, raw.LCD.LineWidth)
	setString(&l.SPIPort, raw.LCD.SPIPort)
	if raw.LCD.SPIHz > 0 {
		l.SPIHz = raw.LCD.SPIHz
	}
	setString(&l.DCPin, raw.LCD.DCPin)
	setString(&l.ResetPin, raw.LCD.ResetPin)

	lg := &cfg.Log
	setString(&lg.Level, strings.ToLower(raw.Log.Level))
	if strings.TrimSpace(raw.Log.File) != "" {
		lg.File = mustExpand(raw.Log.File)
	}
	setInt(&lg.MaxSizeMB, raw.Log.MaxSizeMB)
	setInt(&lg.MaxBackups, raw.Log.MaxBackups)

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config %s: %w", resolved, err)
	}
	return cfg, nil
}

// Validate checks addresses and panel geometry.
func (c Config) Validate() error {
	var errs []error

	if _, _, err := net.SplitHostPort(c.Network.Listen); err != nil {
		errs = append(errs, fmt.Errorf("network.listen: %w", err))
	}
	if c.Network.BufferSize <= 0 {
		errs = append(errs, fmt.Errorf("network.buffer_size must be positive"))
	}
	if _, err := net.ParseMAC(c.Network.MAC); err != nil {
		errs = append(errs, fmt.Errorf("network.mac: %w", err))
	}
	for name, value := range map[string]string{
		"network.ip":      c.Network.IP,
		"network.subnet":  c.Network.Subnet,
		"network.gateway": c.Network.Gateway,
		"network.dns":     c.Network.DNS,
	} {
		if _, err := netip.ParseAddr(value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	switch c.LCD.Driver {
	case DriverTerminal, DriverILI9340, DriverNone:
	default:
		errs = append(errs, fmt.Errorf("lcd.driver %q is not one of %s, %s, %s", c.LCD.Driver, DriverTerminal, DriverILI9340, DriverNone))
	}
	if c.LCD.Capacity <= 0 || c.LCD.VisibleLines <= 0 || c.LCD.VisibleLines > c.LCD.Capacity {
		errs = append(errs, fmt.Errorf("lcd.visible_lines (%d) must be between 1 and lcd.capacity (%d)", c.LCD.VisibleLines, c.LCD.Capacity))
	}
	if c.LCD.LineWidth < 2 {
		errs = append(errs, fmt.Errorf("lcd.line_width must be at least 2"))
	}
	if c.LCD.Driver == DriverILI9340 && strings.TrimSpace(c.LCD.DCPin) == "" {
		errs = append(errs, fmt.Errorf("lcd.dc_pin is required for the %s driver", DriverILI9340))
	}

	return errors.Join(errs...)
}

// Port returns the TCP port of the listen address.
func (n Network) Port() string {
	_, port, err := net.SplitHostPort(n.Listen)
	if err != nil {
		return ""
	}
	return port
}

func setString(dst *string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		*dst = v
	}
}

func setInt(dst *int, value int) {
	if value > 0 {
		*dst = value
	}
}

// DefaultPath returns the expanded default config location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
