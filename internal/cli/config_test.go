package cli

import (
	"bytes"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/pflag"
)

func TestApplyEnvDefaults(t *testing.T) {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	stride := fs.Int("stride", 10, "")
	format := fs.String("format", "auto", "")
	fs.Bool("version", false, "")

	if err := fs.Parse([]string{"--format", "hex"}); err != nil {
		t.Fatal(err)
	}

	t.Setenv("PALETTEGEN_STRIDE", "3")
	t.Setenv("PALETTEGEN_FORMAT", "json")
	t.Setenv("PALETTEGEN_VERSION", "1.0.0")

	if err := applyEnvDefaults(fs); err != nil {
		t.Fatalf("applyEnvDefaults() error = %v", err)
	}
	if *stride != 3 {
		t.Errorf("stride = %d, want 3 from the environment", *stride)
	}
	if *format != "hex" {
		t.Errorf("format = %q, want the command-line value", *format)
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name           string
		verbose, quiet bool
		want           hclog.Level
	}{
		{name: "default", want: hclog.Info},
		{name: "verbose", verbose: true, want: hclog.Debug},
		{name: "quiet", quiet: true, want: hclog.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger := newLogger(&bytes.Buffer{}, tt.verbose, tt.quiet)
			if got := logger.GetLevel(); got != tt.want {
				t.Errorf("level = %v, want %v", got, tt.want)
			}
		})
	}
}
