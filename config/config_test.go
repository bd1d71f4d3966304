package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitConfigEmbeddedDefaults(t *testing.T) {
	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "3001", cfg.Server.HTTPPort)
	assert.Equal(t, DriverPostgres, cfg.Repositories.Driver)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.TokenTTL)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.Server.AllowedOrigins)
}

func TestInitConfigEnvOverride(t *testing.T) {
	t.Setenv("JWT_SECRETKEY", "from-env")
	t.Setenv("REPOSITORIES_DRIVER", DriverMemory)

	cfg, err := InitConfig()
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.SecretKey)
	assert.Equal(t, DriverMemory, cfg.Repositories.Driver)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.JWT.SecretKey = "secret"
		c.JWT.TokenTTL = time.Hour
		c.Repositories.Driver = DriverMemory
		return c
	}

	t.Run("Valid", func(t *testing.T) {
		c := valid()
		assert.NoError(t, c.Validate())
	})

	t.Run("MissingSecret", func(t *testing.T) {
		c := valid()
		c.JWT.SecretKey = ""
		assert.Error(t, c.Validate())
	})

	t.Run("NonPositiveTTL", func(t *testing.T) {
		c := valid()
		c.JWT.TokenTTL = 0
		assert.Error(t, c.Validate())
	})

	t.Run("UnknownDriver", func(t *testing.T) {
		c := valid()
		c.Repositories.Driver = "mongo"
		assert.ErrorContains(t, c.Validate(), "mongo")
	})
}
