// File: internal/config/config_test.go
package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/icherkasov/reportgen/internal/config"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := config.NewDefaultConfig()
	require.NotNil(t, cfg)

	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "reportgen", cfg.Logger.ServiceName)
	assert.Equal(t, "127.0.0.1:8501", cfg.Server.Addr)
	assert.True(t, cfg.Server.Compression)
	assert.NoError(t, cfg.Validate())
}

func TestNewConfigFromViperOverrides(t *testing.T) {
	v := viper.New()
	config.SetDefaults(v)
	v.Set("server.addr", "0.0.0.0:9000")
	v.Set("logger.level", "debug")
	v.Set("drafts.dir", "/tmp/drafts")

	cfg, err := config.NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Addr)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "/tmp/drafts", cfg.Drafts.Dir)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"empty addr", func(c *config.Config) { c.Server.Addr = "" }},
		{"zero rate", func(c *config.Config) { c.Server.RatePerSecond = 0 }},
		{"zero burst", func(c *config.Config) { c.Server.RateBurst = 0 }},
		{"zero ttl", func(c *config.Config) { c.Server.ResultTTL = 0 }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.NewDefaultConfig()
			tc.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
