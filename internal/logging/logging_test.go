package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Disabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "off.log")
	l, c, err := New(false, path)
	require.NoError(t, err)
	l.Error().Msg("dropped")
	require.NoError(t, c.Close())

	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestNew_Enabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "on.log")
	l, c, err := New(true, path)
	require.NoError(t, err)
	l.Error().Str("action", "freeze").Msg("API call failed")
	require.NoError(t, c.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(b), &entry))
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, "freeze", entry["action"])
	assert.Equal(t, "API call failed", entry["message"])
	assert.Contains(t, entry, "time")
}

func TestNew_BadPath(t *testing.T) {
	_, c, err := New(true, filepath.Join(t.TempDir(), "missing", "dir", "x.log"))
	assert.Error(t, err)
	assert.NotNil(t, c)
}
