package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("STORAGE_PROVIDER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Storage.Provider)
	assert.Equal(t, time.Duration(0), cfg.Auth.SimulatedLatency)
	assert.NotEmpty(t, cfg.Auth.JWTSecret, "development secret should be filled in")
	assert.Equal(t, 6, cfg.Auth.MinPasswordLength)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GO_ENV", "test")
	t.Setenv("PORT", "8081")
	t.Setenv("BADGE_AUTO_CHECK_INTERVAL", "30s")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Badges.AutoCheckInterval)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{
			name:    "unknown storage provider",
			env:     map[string]string{"STORAGE_PROVIDER": "floppy"},
			wantErr: true,
		},
		{
			name:    "postgres without url",
			env:     map[string]string{"STORAGE_PROVIDER": "postgres", "DATABASE_URL": ""},
			wantErr: true,
		},
		{
			name:    "invalid port",
			env:     map[string]string{"PORT": "http"},
			wantErr: true,
		},
		{
			name:    "production without jwt secret",
			env:     map[string]string{"GO_ENV": "production", "JWT_SECRET": ""},
			wantErr: true,
		},
		{
			name:    "redis provider",
			env:     map[string]string{"STORAGE_PROVIDER": "redis"},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GO_ENV", "test")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
