package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_PORT", "MONGO_URI", "MONGO_DB_NAME", "NOTIFICATIONS_URL", "ALLOWED_ORIGIN"} {
		// t.Setenv registers restoration of the original value; the
		// variable then has to be truly absent for defaults to apply.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "project_management", cfg.MongoDBName)
	assert.Empty(t, cfg.NotificationsURL)
	assert.Equal(t, "http://localhost:5173", cfg.AllowedOrigin)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("MONGO_DB_NAME", "pm_test")
	t.Setenv("NOTIFICATIONS_URL", "http://notifications:8081")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, "pm_test", cfg.MongoDBName)
	assert.Equal(t, "http://notifications:8081", cfg.NotificationsURL)
}
