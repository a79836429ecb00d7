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
	"time"

	"gopkg.in/yaml.v3"

	"github.com/chaz8081/gattlink/internal/gatt"
)

// Config holds all application configuration.
type Config struct {
	Device    DeviceConfig    `yaml:"device"`
	UUIDs     UUIDConfig      `yaml:"uuids"`
	Transport TransportConfig `yaml:"transport"`
	LogLevel  string          `yaml:"log_level"`
}

// DeviceConfig identifies the peripheral to connect to.
type DeviceConfig struct {
	Address       string `yaml:"address"`
	Name          string `yaml:"name"`
	AutoReconnect bool   `yaml:"auto_reconnect"`
}

// UUIDConfig maps characteristic roles to UUIDs. Empty read/write UUIDs
// fall back to capability inference.
type UUIDConfig struct {
	Service      string `yaml:"service"`
	InfoWrite    string `yaml:"info_write"`
	InfoRead     string `yaml:"info_read"`
	SyncWrite    string `yaml:"sync_write"`
	SyncRead     string `yaml:"sync_read"`
	NotifyConfig string `yaml:"notify_config"`
}

// TransportConfig holds radio backend settings.
type TransportConfig struct {
	Backend      string        `yaml:"backend"`       // "goble"
	AdapterID    string        `yaml:"adapter_id"`    // e.g. "hci0"; empty selects hci0
	DialTimeout  time.Duration `yaml:"dial_timeout"`
	ReconnectMax int           `yaml:"reconnect_max"` // max reconnect backoff in seconds
	Bond         string        `yaml:"bond"`          // "bluez" or "none"
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "gattlink")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Device: DeviceConfig{
			AutoReconnect: true,
		},
		UUIDs: UUIDConfig{
			NotifyConfig: gatt.CCCDUUID,
		},
		Transport: TransportConfig{
			Backend:      "goble",
			DialTimeout:  10 * time.Second,
			ReconnectMax: 30,
			Bond:         "bluez",
		},
		LogLevel: "info",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults. A leading tilde (~) in path is expanded to the user's
// home directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(expandTilde(path))
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Device.Address != "" && !validAddress(c.Device.Address) {
		return fmt.Errorf("device.address must be six colon-separated hex octets, got %q", c.Device.Address)
	}

	if _, err := c.RoleConfig(); err != nil {
		return fmt.Errorf("uuids: %w", err)
	}

	switch c.Transport.Backend {
	case "goble":
	default:
		return fmt.Errorf("transport.backend must be \"goble\", got %q", c.Transport.Backend)
	}

	if c.Transport.DialTimeout <= 0 {
		return fmt.Errorf("transport.dial_timeout must be > 0")
	}

	if c.Transport.ReconnectMax < 0 {
		return fmt.Errorf("transport.reconnect_max must be >= 0")
	}

	switch c.Transport.Bond {
	case "bluez", "none":
	default:
		return fmt.Errorf("transport.bond must be \"bluez\" or \"none\", got %q", c.Transport.Bond)
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	return nil
}

// RoleConfig returns the UUID section as a normalized gatt.RoleConfig.
func (c *Config) RoleConfig() (gatt.RoleConfig, error) {
	return gatt.RoleConfig{
		ServiceUUID:      c.UUIDs.Service,
		InfoWriteUUID:    c.UUIDs.InfoWrite,
		InfoReadUUID:     c.UUIDs.InfoRead,
		SyncWriteUUID:    c.UUIDs.SyncWrite,
		SyncReadUUID:     c.UUIDs.SyncRead,
		NotifyConfigUUID: c.UUIDs.NotifyConfig,
	}.Normalize()
}

// Peripheral returns the configured device.
func (c *Config) Peripheral() gatt.Device {
	return gatt.Device{Name: c.Device.Name, Address: strings.ToUpper(c.Device.Address)}
}

// ParseLogLevel converts a config log level to a slog.Level. Unknown
// values map to info.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// validAddress reports whether addr looks like AA:BB:CC:DD:EE:FF.
func validAddress(addr string) bool {
	parts := strings.Split(addr, ":")
	if len(parts) != 6 {
		return false
	}
	for _, p := range parts {
		if len(p) != 2 {
			return false
		}
		if _, err := strconv.ParseUint(p, 16, 8); err != nil {
			return false
		}
	}
	return true
}

const defaultHeader = `# gattlink configuration
# Empty uuids.info_write / uuids.info_read select characteristics by capability.
`

// WriteDefault writes the default config to DefaultConfigPath. If a file
// already exists it is left untouched and WriteDefault returns ("", nil).
func WriteDefault() (string, error) {
	path := DefaultConfigPath()
	if _, err := os.Stat(path); err == nil {
		return "", nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("checking config file: %w", err)
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return "", fmt.Errorf("encoding default config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, append([]byte(defaultHeader), data...), 0644); err != nil {
		return "", fmt.Errorf("writing config file: %w", err)
	}
	return path, nil
}

// expandTilde replaces a leading ~ with the user's home directory.
func expandTilde(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
