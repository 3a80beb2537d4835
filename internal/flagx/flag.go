// Package flagx lets several components share one command line: each one
// parses only the flags it owns and ignores the rest.
package flagx

import (
	"flag"
	"io"
	"os"
	"strings"
)

// ConfigEnv names the environment variable consulted when neither -c nor
// -config is given.
const ConfigEnv = "TIMEVAULT_CONFIG"

// FilterArgs returns the allowed flags from args together with their values,
// preserving order.
//
// Both "-name value" and "-name=value" are recognised, with one or two
// leading dashes, so "-config" in allowed also matches "--config=x.json".
// A following token that starts with a dash is never taken as a value.
// Scanning stops at a bare "--".
func FilterArgs(args []string, allowed []string) []string {
	keep := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		keep[canonical(f)] = struct{}{}
	}

	filtered := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			continue
		}

		name, _, inline := strings.Cut(arg, "=")
		if _, ok := keep[canonical(name)]; !ok {
			continue
		}
		filtered = append(filtered, arg)

		if !inline && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			filtered = append(filtered, args[i+1])
			i++
		}
	}

	return filtered
}

func canonical(name string) string {
	return "-" + strings.TrimLeft(name, "-")
}

// ConfigPath returns the JSON config file named by -c or -config on the
// command line, falling back to $TIMEVAULT_CONFIG. Empty means no file.
func ConfigPath() string {
	return configPath(os.Args[1:], os.Getenv)
}

func configPath(args []string, getenv func(string) string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to JSON config file")
	fs.StringVar(&path, "c", "", "path to JSON config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	if path == "" {
		path = getenv(ConfigEnv)
	}
	return path
}
