package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "EMAIL_PROVIDER", "MAX_UPLOAD_BYTES", "S3_USE_PATH_STYLE", "API_BASE_URL"} {
		t.Setenv(k, "")
	}
	t.Setenv("PORT", "9090")
	t.Setenv("EMAIL_PROVIDER", "SMTP")
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")
	t.Setenv("S3_USE_PATH_STYLE", "true")
	t.Setenv("API_BASE_URL", "https://api.example.com/")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "smtp", cfg.Email.Provider)
	assert.EqualValues(t, 11<<20, cfg.MaxUploadBytes)
	assert.True(t, cfg.S3.UsePathStyle)
	assert.Equal(t, "https://api.example.com", cfg.APIBaseURL)
}

func TestGetEnvInt64(t *testing.T) {
	t.Setenv("X_LIMIT", "2048")
	assert.EqualValues(t, 2048, getEnvInt64("X_LIMIT", 1))
	assert.EqualValues(t, 7, getEnvInt64("X_UNSET_LIMIT", 7))
}
