package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/godbus/dbus/v5"

	"github.com/chaz8081/gattlink/internal/config"
	"github.com/chaz8081/gattlink/internal/gatt"
	"github.com/chaz8081/gattlink/internal/transport/bluez"
	"github.com/chaz8081/gattlink/internal/transport/goble"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "path to config file (default: ~/.config/gattlink/config.yaml)")
	deviceAddr := flag.String("device", "", "device address, overrides device.address")
	initConfig := flag.Bool("init", false, "write the default config file and exit")
	flag.Parse()

	if *initConfig {
		path, err := config.WriteDefault()
		if err != nil {
			log.Fatalf("config: %v", err)
		}
		if path == "" {
			fmt.Printf("Config already exists at %s\n", config.DefaultConfigPath())
			return
		}
		fmt.Printf("Wrote default config to %s\n", path)
		return
	}

	// Load configuration
	cfg, err := loadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *deviceAddr != "" {
		cfg.Device.Address = *deviceAddr
	}

	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}
	if cfg.Device.Address == "" {
		log.Fatal("no device address: set device.address or pass -device")
	}
	roles, err := cfg.RoleConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: config.ParseLogLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	printBanner(cfg)

	transport, release, err := newTransport(cfg)
	if err != nil {
		log.Fatalf("Failed to open Bluetooth adapter: %v", err)
	}

	client, err := gatt.NewClient(transport, roles,
		gatt.WithListener(logListener{log: logger}),
		gatt.WithAutoReconnect(cfg.Device.AutoReconnect),
		gatt.WithLogger(logger),
	)
	if err != nil {
		release()
		log.Fatalf("gatt: %v", err)
	}

	device := cfg.Peripheral()
	if err := client.Connect(device); err != nil {
		logger.Error("Connect failed", "device", device.Address, "error", err)
	}

	// Signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	r := &repl{ctl: client, device: device, out: os.Stdout}
	fmt.Println("Ready! Type \"help\" for commands. Ctrl+C to quit.")

	if sig := r.serve(lines, sigCh, os.Stderr); sig != nil {
		log.Printf("Received %s, shutting down...", sig)
	}
	shutdown(client, release)
}

// shutdown closes the client and releases the adapter.
func shutdown(client *gatt.Client, release func()) {
	if err := client.Close(); err != nil {
		slog.Warn("Close failed", "error", err)
	}
	release()
	log.Println("Goodbye!")
}

// newTransport opens the configured adapter. When bonding through BlueZ is
// enabled and the system bus is reachable, the returned transport also
// supports unbonding. release frees the adapter and bus connection.
func newTransport(cfg *config.Config) (gatt.Transport, func(), error) {
	dial, stop, err := goble.NewDefaultDialer(cfg.Transport.AdapterID)
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := stop(); err != nil {
			slog.Warn("Releasing adapter failed", "error", err)
		}
	}

	tr := goble.New(dial, goble.Options{
		DialTimeout:  cfg.Transport.DialTimeout,
		ReconnectMax: cfg.Transport.ReconnectMax,
	})
	if cfg.Transport.Bond != "bluez" {
		return tr, release, nil
	}

	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		slog.Warn("[BLUEZ] System bus unavailable, bonding disabled", "error", err)
		return tr, release, nil
	}
	bonded := tr.WithBonder(bluez.NewBonder(conn, cfg.Transport.AdapterID))
	return bonded, func() {
		conn.Close()
		release()
	}, nil
}

// loadConfig loads the config from the specified path, or falls back to
// the default config path, or uses built-in defaults.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}

	// Try default config path
	defaultPath := config.DefaultConfigPath()
	if _, err := os.Stat(defaultPath); err == nil {
		cfg, err := config.Load(defaultPath)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", defaultPath, err)
		}
		log.Printf("Config loaded from %s", defaultPath)
		return cfg, nil
	}

	// No config file, use defaults
	log.Println("No config file found, using defaults")
	return config.Default(), nil
}

// printBanner displays the startup configuration summary.
func printBanner(cfg *config.Config) {
	service := cfg.UUIDs.Service
	if service == "" {
		service = "(any)"
	}
	adapter := cfg.Transport.AdapterID
	if adapter == "" {
		adapter = bluez.DefaultAdapter
	}
	fmt.Println("=== gattlink ===")
	fmt.Printf("  Device:    %s (auto-reconnect: %t)\n", cfg.Device.Address, cfg.Device.AutoReconnect)
	fmt.Printf("  Service:   %s\n", service)
	fmt.Printf("  Adapter:   %s via %s (bond: %s)\n", adapter, cfg.Transport.Backend, cfg.Transport.Bond)
	fmt.Printf("  Log:       %s\n", cfg.LogLevel)
	fmt.Println("================")
}
