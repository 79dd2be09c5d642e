package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"geomap/internal/config"
)

func TestSetupWritesComponentEntriesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "geomap.log")
	cleanup, err := Setup(config.LogConfig{Level: "info", File: path, Format: "json"})
	require.NoError(t, err)

	NewLogger("loader").WithField("path", "a.csv").Info("loaded")
	NewLogger("loader").Debug("filtered out")
	require.NoError(t, cleanup())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "loader", rec["component"])
	assert.Equal(t, "a.csv", rec["path"])
	assert.Equal(t, "loaded", rec["msg"])
}

func TestCleanupRestoresDiscard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "geomap.log")
	cleanup, err := Setup(config.LogConfig{Level: "debug", File: path})
	require.NoError(t, err)
	require.NoError(t, cleanup())

	NewLogger("after").Error("not written")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "not written")
}
