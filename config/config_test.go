package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 256, cfg.VM.StackSize)
	assert.Equal(t, 256, cfg.VM.LocalsMax)
	assert.Equal(t, 256, cfg.VM.ConstantsMax)
	assert.Equal(t, 16, cfg.VM.JumpBits)
	assert.False(t, cfg.VM.EnableTrace)
	assert.Equal(t, "g", cfg.Output.NumberFormat)
}

func TestLoadFromMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromOverridesOutputButNotWireLimits(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".cube.toml")
	contents := []byte(`
[vm]
enable_trace = true
stack_size = 9999

[output]
number_format = "hex"
colorized = true
`)
	require.NoError(t, os.WriteFile(path, contents, 0o600))

	cfg, err := LoadFrom(path)
	require.NoError(t, err)

	assert.True(t, cfg.VM.EnableTrace)
	assert.Equal(t, "hex", cfg.Output.NumberFormat)
	assert.True(t, cfg.Output.Colorized)

	// wire-format limits are restored even though the file tried to change them
	assert.Equal(t, 256, cfg.VM.StackSize)
}
