package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leekcli "github.com/leekwars/leekc/internal/cli"
	"github.com/leekwars/leekc/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCheckCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib.leek", "function helper(a) { return a * 2 }\n")
	good := writeFile(t, dir, "good.leek", "include(\"lib\");\nvar x = helper(2);\n")
	bad := writeFile(t, dir, "bad.leek", "break;\n")

	assert.NoError(t, newApp().Run([]string{"leekc", "check", good}))

	err := newApp().Run([]string{"leekc", "check", good, bad})
	assert.ErrorIs(t, err, leekcli.ErrCheckFailed)
	assert.Equal(t, 1, leekcli.ExitCode(err))

	err = newApp().Run([]string{"leekc", "check", filepath.Join(dir, "missing.leek")})
	require.Error(t, err)
	assert.Equal(t, 2, leekcli.ExitCode(err))
}

func TestStrictCheck(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "ref.leek", "function f(@a) { return a }\n")

	assert.NoError(t, newApp().Run([]string{"leekc", "check", path}))
	assert.ErrorIs(t, newApp().Run([]string{"leekc", "check", "--strict", path}), leekcli.ErrCheckFailed)
}

func TestDumpConfigAppliesFlags(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "dump.toml")
	require.NoError(t, newApp().Run([]string{"leekc", "--version-lang", "2", "--timeout", "2s", "dumpconfig", out}))

	cfg, err := config.Load(out)
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Version)
	assert.Equal(t, 2000, cfg.TimeoutMs)
}

func TestInvalidLanguageFlag(t *testing.T) {
	err := newApp().Run([]string{"leekc", "--version-lang", "7", "dumpconfig"})
	assert.Error(t, err)
}
