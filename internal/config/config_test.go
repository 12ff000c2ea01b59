package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Run("Default Values", func(t *testing.T) {
		cfg, err := LoadConfig()
		assert.NoError(t, err)
		assert.Equal(t, "local", cfg.AppEnv)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	})

	t.Run("Environment Variables", func(t *testing.T) {
		os.Setenv("PORT", "9999")
		os.Setenv("GEMINI_API_KEY", "test-key")
		defer os.Unsetenv("PORT")
		defer os.Unsetenv("GEMINI_API_KEY")

		cfg, err := LoadConfig()
		assert.NoError(t, err)
		assert.Equal(t, "9999", cfg.Port)
		assert.Equal(t, "test-key", cfg.GeminiAPIKey)
	})
}
