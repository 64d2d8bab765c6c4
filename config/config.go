// Package config loads the VM/compiler tunables cube reads from an
// optional .cube.toml in the working directory.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config holds the knobs cube exposes beyond its fixed wire-format
// limits. StackSize, LocalsMax, ConstantsMax, and JumpBits are not
// meant to be loosened past their defaults - they document the VM's
// hard limits rather than offer real tuning - but are still
// struct fields so a golden-trace test fixture can assert on them.
type Config struct {
	VM struct {
		StackSize    int  `toml:"stack_size"`
		LocalsMax    int  `toml:"locals_max"`
		ConstantsMax int  `toml:"constants_max"`
		JumpBits     int  `toml:"jump_bits"`
		EnableTrace  bool `toml:"enable_trace"`
	} `toml:"vm"`

	Output struct {
		NumberFormat string `toml:"number_format"` // loaded only; PRINT always uses "g" (shortest round-trip)
		Colorized    bool   `toml:"colorized"`
	} `toml:"output"`
}

const DefaultPath = ".cube.toml"

// DefaultConfig returns the configuration cube runs with when no
// .cube.toml is present or a file omits a section entirely.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.VM.StackSize = 256
	cfg.VM.LocalsMax = 256
	cfg.VM.ConstantsMax = 256
	cfg.VM.JumpBits = 16
	cfg.VM.EnableTrace = false

	cfg.Output.NumberFormat = "g"
	cfg.Output.Colorized = false

	return cfg
}

// Load reads .cube.toml from the working directory, falling back to
// defaults when it doesn't exist.
func Load() (*Config, error) {
	return LoadFrom(DefaultPath)
}

// LoadFrom reads path, returning defaults unchanged if it doesn't
// exist. An existing file may only override Output and VM.EnableTrace;
// the wire-format limits (StackSize, LocalsMax, ConstantsMax,
// JumpBits) are restored to their fixed defaults after decoding so a
// config file can never shift the bytecode layout.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.VM.StackSize = 256
	cfg.VM.LocalsMax = 256
	cfg.VM.ConstantsMax = 256
	cfg.VM.JumpBits = 16

	return cfg, nil
}
