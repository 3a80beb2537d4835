package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"
)

// Config holds runtime settings for the timevault CLI.
type Config struct {
	// ServerEndpointAddr is host:port of the vault gRPC endpoint.
	ServerEndpointAddr string
	// ProfilePath is the SQLite file with the sealed key and remembered
	// addresses.
	ProfilePath string
	// RequestTimeout bounds every server call.
	RequestTimeout time.Duration
	// OnlineCheckInterval is how often reachability is probed; zero turns
	// probing off.
	OnlineCheckInterval time.Duration
}

// userConfigDir is swapped in tests.
var userConfigDir = os.UserConfigDir

// defaultProfilePath is <user config dir>/timevault/profile.db, or
// timevault.db in the working directory when the platform has no config
// directory.
func defaultProfilePath() string {
	dir, err := userConfigDir()
	if err != nil || dir == "" {
		return "timevault.db"
	}
	return filepath.Join(dir, "timevault", "profile.db")
}

func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.ProfilePath = defaultProfilePath()
	c.RequestTimeout = 10 * time.Second
	c.OnlineCheckInterval = 3 * time.Second
}

// Validate reports settings the CLI cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if _, _, err := net.SplitHostPort(c.ServerEndpointAddr); err != nil {
		errs = append(errs, fmt.Errorf("server address %q: %w", c.ServerEndpointAddr, err))
	}
	if c.ProfilePath == "" {
		errs = append(errs, errors.New("profile path is empty"))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout))
	}
	if c.OnlineCheckInterval < 0 {
		errs = append(errs, fmt.Errorf("online check interval must not be negative, got %s", c.OnlineCheckInterval))
	}
	return errors.Join(errs...)
}

// LoadConfig applies defaults, then the JSON file, then flags; each later
// source wins.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
