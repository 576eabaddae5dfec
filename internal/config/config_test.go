package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "8111", cfg.Port)
	assert.Equal(t, 120*time.Second, cfg.ExtractionTimeout)
	assert.Equal(t, "moneylens", cfg.AlgoliaIndexName)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid memory store", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Port = "nope" }, "invalid port"},
		{"port out of range", func(c *Config) { c.Port = "70000" }, "must be between"},
		{"firestore without project", func(c *Config) { c.UseMemoryStore = false }, "GOOGLE_CLOUD_PROJECT"},
		{"algolia half configured", func(c *Config) { c.AlgoliaAppID = "app" }, "must be set together"},
		{"tiny extraction timeout", func(c *Config) { c.ExtractionTimeout = time.Millisecond }, "at least 1s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				Port:              "8111",
				UseMemoryStore:    true,
				ExtractionTimeout: time.Minute,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
