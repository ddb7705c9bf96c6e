package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leekwars/leekc/internal/version"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Defaults, *cfg)
	assert.Equal(t, version.Latest, cfg.Version)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
}

func TestLoadOverlaysFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leekc.toml")
	require.NoError(t, os.WriteFile(path, []byte("Version = 2\nStrict = true\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Version)
	assert.True(t, cfg.Strict)
	assert.Equal(t, Defaults.MaxErrors, cfg.MaxErrors)
	assert.Equal(t, Defaults.IncludeRoot, cfg.IncludeRoot)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "Colour = true\n", "Colour"},
		{"bad version", "Version = 9\n", "unsupported language version"},
		{"zero cap", "MaxErrors = 0\n", "MaxErrors"},
		{"syntax", "Version = \n", "leekc.toml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, "leekc.toml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			_, err := Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}

func TestDumpRoundTrip(t *testing.T) {
	cfg := Defaults
	cfg.Version = 3
	cfg.IncludeRoot = "lib"

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, &cfg))
	assert.True(t, strings.Contains(buf.String(), "IncludeRoot"), buf.String())

	var back Config
	require.NoError(t, Decode(&buf, &back))
	assert.Equal(t, cfg, back)
}
