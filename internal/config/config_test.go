package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadYAML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "geomap.yml", `
watch: false
concurrency: 2
log:
  level: debug
  file: /tmp/geomap.log
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.False(t, cfg.Watch)
	assert.Equal(t, 2, cfg.Concurrency)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/tmp/geomap.log", cfg.Log.File)
	// untouched keys keep their defaults
	assert.Equal(t, Default().DebounceMS, cfg.DebounceMS)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoadTOML(t *testing.T) {
	p := writeFile(t, t.TempDir(), "geomap.toml", `
debounce_ms = 50
sidebar_width = 40

[log]
format = "json"
`)
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 50, cfg.DebounceMS)
	assert.Equal(t, 40, cfg.SidebarWidth)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.True(t, cfg.Watch)
}

func TestLoadEmptyFileKeepsDefaults(t *testing.T) {
	p := writeFile(t, t.TempDir(), "geomap.yml", "\n")
	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadRejects(t *testing.T) {
	dir := t.TempDir()
	tests := map[string]string{
		"unknown key":     "colour: red\n",
		"bad concurrency": "concurrency: 0\n",
		"bad format":      "log:\n  format: xml\n",
		"narrow sidebar":  "sidebar_width: 3\n",
	}
	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, dir, "geomap.yml", content))
			assert.Error(t, err)
		})
	}

	_, err := Load(writeFile(t, dir, "geomap.yml", "concurrency: 0\n"))
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestFind(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()

	p, err := Find(dir)
	require.NoError(t, err)
	assert.Empty(t, p)

	want := writeFile(t, dir, "geomap.toml", "")
	p, err = Find(dir)
	require.NoError(t, err)
	assert.Equal(t, want, p)

	want = writeFile(t, dir, "geomap.yml", "")
	p, err = Find(dir)
	require.NoError(t, err)
	assert.Equal(t, want, p)
}

func TestResolveFlagsOverrideFile(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	writeFile(t, dir, "geomap.yml", "concurrency: 2\nwatch: true\nlog:\n  level: warn\n")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--watch=false", "--log-level", "debug"}))

	cfg, err := Resolve(fs, dir)
	require.NoError(t, err)
	assert.False(t, cfg.Watch)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 2, cfg.Concurrency, "file value kept when flag not set")
}

func TestResolveExplicitConfig(t *testing.T) {
	p := writeFile(t, t.TempDir(), "custom.toml", "concurrency = 8\n")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	BindFlags(fs)
	require.NoError(t, fs.Parse([]string{"--config", p, "--concurrency", "0"}))

	_, err := Resolve(fs, t.TempDir())
	assert.ErrorIs(t, err, ErrInvalid)
}
