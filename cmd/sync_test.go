package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEvent(t *testing.T) {
	origEventPath, hadEventPath := os.LookupEnv("GITHUB_EVENT_PATH")
	require.NoError(t, os.Unsetenv("GITHUB_EVENT_PATH"))
	t.Cleanup(func() {
		if hadEventPath {
			os.Setenv("GITHUB_EVENT_PATH", origEventPath)
		}
	})

	t.Run("Valid payload", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "event.json")
		require.NoError(t, os.WriteFile(path, []byte(`{
			"action": "labeled",
			"label": {"name": "bug"},
			"issue": {"number": 12, "title": "broken"},
			"repository": {"full_name": "octo/stuff"}
		}`), 0644))

		payload, err := loadEvent(path)
		require.NoError(t, err)
		assert.Equal(t, "labeled", payload.Action)
		assert.Equal(t, "bug", payload.Label.Name)
		assert.Equal(t, 12, payload.Issue.Number)
		assert.Equal(t, "octo/stuff", payload.Repository.FullName)
	})

	t.Run("No path yields empty payload", func(t *testing.T) {
		payload, err := loadEvent("")
		require.NoError(t, err)
		assert.Empty(t, payload.Action)
		assert.Nil(t, payload.Issue)
	})

	t.Run("Path from environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "event.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"action": "closed"}`), 0644))
		require.NoError(t, os.Setenv("GITHUB_EVENT_PATH", path))
		defer os.Unsetenv("GITHUB_EVENT_PATH")

		payload, err := loadEvent("")
		require.NoError(t, err)
		assert.Equal(t, "closed", payload.Action)
	})

	t.Run("Unreadable file", func(t *testing.T) {
		_, err := loadEvent(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("Invalid JSON", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "event.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"action":`), 0644))

		_, err := loadEvent(path)
		assert.Error(t, err)
	})
}
