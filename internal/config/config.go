// Package config holds the settings table from spec section 6, bound from
// CLI flags, a dbgasm.yaml file, and DBGASM_-prefixed environment
// variables via viper, the way jjti-repp/config.Config is unmarshalled
// from a package-level viper instance.
package config

import (
	"runtime"

	"github.com/spf13/viper"

	"dbgasm/internal/apperr"
)

// Config is the bound, validated settings struct for one assembly run.
// Field names and mapstructure tags are the single source of truth for
// both the CLI flag names internal/cli registers and the dbgasm.yaml keys
// a config file may set.
type Config struct {
	// K is the k-mer length; must equal the solid set's k.
	K int `mapstructure:"k"`
	// GenomeSize is a hint, in bases, sizing the assembled-set filter.
	GenomeSize uint64 `mapstructure:"genome-size"`
	// NumHashes is the number of hash values per k-mer; must match the
	// solid set's.
	NumHashes int `mapstructure:"num-hashes"`
	// Verbose enables progress and summary diagnostics.
	Verbose bool `mapstructure:"verbose"`
	// Threads is the worker count; 0 means "use every available CPU"
	// (resolved by EffectiveThreads, never left at 0 once New returns).
	Threads int `mapstructure:"threads"`
	// Progress is the reads_processed interval between progress lines.
	Progress uint64 `mapstructure:"progress"`
	// LogFormat selects the slog handler: "text" or "json".
	LogFormat string `mapstructure:"log-format"`
}

// Defaults returns the zero-argument defaults, applied to v before flags,
// file, and environment are layered on top.
func Defaults() Config {
	return Config{
		NumHashes: 1,
		Threads:   0,
		Progress:  1000,
		LogFormat: "text",
	}
}

// BindDefaults installs Defaults into v so any key left unset by flags,
// config file, or environment still resolves to a sane value.
func BindDefaults(v *viper.Viper) {
	d := Defaults()
	v.SetDefault("k", d.K)
	v.SetDefault("genome-size", d.GenomeSize)
	v.SetDefault("num-hashes", d.NumHashes)
	v.SetDefault("verbose", d.Verbose)
	v.SetDefault("threads", d.Threads)
	v.SetDefault("progress", d.Progress)
	v.SetDefault("log-format", d.LogFormat)
}

// New unmarshals v into a Config, resolves Threads to a concrete worker
// count, and validates the required fields, returning a Config-kind
// *apperr.Error on any failure per spec section 7.
func New(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, apperr.New(apperr.Config, err)
	}
	c.Threads = EffectiveThreads(c.Threads)
	if c.K <= 0 {
		return Config{}, apperr.Newf(apperr.Config, "k must be > 0, got %d", c.K)
	}
	if c.NumHashes <= 0 {
		return Config{}, apperr.Newf(apperr.Config, "num-hashes must be > 0, got %d", c.NumHashes)
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return Config{}, apperr.Newf(apperr.Config, "log-format must be \"text\" or \"json\", got %q", c.LogFormat)
	}
	return c, nil
}

// EffectiveThreads returns n if positive, otherwise the host's CPU count —
// the same "0 means auto" convention the teacher used for its own
// --threads flag (ipcr/internal/cli.Options.Threads).
func EffectiveThreads(n int) int {
	if n > 0 {
		return n
	}
	return runtime.NumCPU()
}
