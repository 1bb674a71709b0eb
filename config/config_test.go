package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/hostcell/cell"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(content), 0o644))
	return dir
}

func TestLoadOptionalMissingFile(t *testing.T) {
	cfg, err := LoadOptional(t.TempDir())
	require.NoError(t, err)

	r, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, cell.FailFast, r.Mode)
	assert.True(t, r.CaptureSites)
	assert.Empty(t, r.TracePath)
}

func TestLoadSharedMode(t *testing.T) {
	dir := writeConfig(t, "mode: shared\ndiagnostics:\n  trace: borrow.jsonl\n")

	cfg, err := LoadOptional(dir)
	require.NoError(t, err)

	r, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, cell.Blocking, r.Mode)
	assert.Equal(t, "borrow.jsonl", r.TracePath)
	assert.True(t, r.CaptureSites)
}

func TestCaptureSitesDisabled(t *testing.T) {
	dir := writeConfig(t, "diagnostics:\n  capture_sites: false\n")

	cfg, err := LoadOptional(dir)
	require.NoError(t, err)

	r, err := cfg.Resolve()
	require.NoError(t, err)
	assert.Equal(t, cell.FailFast, r.Mode)
	assert.False(t, r.CaptureSites)
}

func TestInvalidModeRejected(t *testing.T) {
	dir := writeConfig(t, "mode: turbo\n")

	cfg, err := LoadOptional(dir)
	require.NoError(t, err)

	_, err = cfg.Resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_config")
}

func TestMalformedYAMLRejected(t *testing.T) {
	dir := writeConfig(t, "mode: [broken\n")

	_, err := LoadOptional(dir)
	require.Error(t, err)
}

func TestStorageOptionsCount(t *testing.T) {
	r := &Resolved{Mode: cell.Blocking, CaptureSites: true}
	assert.Len(t, r.StorageOptions(), 2)
}
