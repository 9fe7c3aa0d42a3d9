package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"
)

// envPrefix prefixes the environment variable backing each flag.
const envPrefix = "PALETTEGEN_"

// envName returns the environment variable for a flag, e.g.
// "merge-threshold" -> "PALETTEGEN_MERGE_THRESHOLD".
func envName(flag string) string {
	return envPrefix + strings.ToUpper(strings.ReplaceAll(flag, "-", "_"))
}

// applyEnvDefaults sets every flag not given on the command line from its
// environment variable, if present. help and version are never read from the
// environment.
func applyEnvDefaults(fs *pflag.FlagSet) error {
	var errs []error
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Changed || f.Name == "help" || f.Name == "version" {
			return
		}
		value, ok := os.LookupEnv(envName(f.Name))
		if !ok {
			return
		}
		if err := fs.Set(f.Name, value); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s=%q: %w", envName(f.Name), value, err))
		}
	})
	return errors.Join(errs...)
}

// newLogger returns the CLI logger. Verbose enables debug output; quiet
// limits output to errors.
func newLogger(out io.Writer, verbose, quiet bool) hclog.Logger {
	level := hclog.Info
	switch {
	case verbose:
		level = hclog.Debug
	case quiet:
		level = hclog.Error
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "palettegen",
		Output: out,
		Level:  level,
		Color:  hclog.AutoColor,
	})
}
