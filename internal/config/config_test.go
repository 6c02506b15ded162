package config

import (
	"testing"

	"github.com/anil29717/DeepDoc/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingConfigIsEmpty(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, &Config{}, cfg)
}

func TestConfigRoundTrip(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	saved := &Config{
		APIBaseURL:    "http://localhost:9999",
		ActiveContext: ActiveContext{Kind: "folder", ID: 7},
		User: &models.User{
			ID:    3,
			Email: "dev@example.com",
			Name:  "Dev",
		},
	}
	require.NoError(t, SaveConfig(saved))

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, saved.APIBaseURL, loaded.APIBaseURL)
	assert.Equal(t, saved.ActiveContext, loaded.ActiveContext)
	require.NotNil(t, loaded.User)
	assert.Equal(t, "dev@example.com", loaded.User.Email)
}

func TestSaveOverwritesPreviousContext(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	require.NoError(t, SaveConfig(&Config{ActiveContext: ActiveContext{Kind: "document", ID: 1}}))
	require.NoError(t, SaveConfig(&Config{ActiveContext: ActiveContext{Kind: "none"}}))

	loaded, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, ActiveContext{Kind: "none"}, loaded.ActiveContext)
}
