package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/timevault/internal/flagx"
)

var cliFlags = []string{"-a", "-f", "-t", "-i"}

// parseFlags overlays the CLI flags (see the package doc) onto cfg.
// Malformed values panic.
func parseFlags(cfg *Config) {
	fs := flag.NewFlagSet("timevault", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "vault server host:port")
	fs.StringVar(&cfg.ProfilePath, "f", cfg.ProfilePath, "profile database file")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.DurationVar(&cfg.OnlineCheckInterval, "i", cfg.OnlineCheckInterval, "server reachability probe interval, 0 disables")

	if err := fs.Parse(flagx.FilterArgs(os.Args[1:], cliFlags)); err != nil {
		panic(err)
	}
}
