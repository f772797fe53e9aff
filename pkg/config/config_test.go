package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a:9092", "b:9092"}, CSV(" a:9092, ,b:9092 "))
}

func TestEnvIntDefault(t *testing.T) {
	t.Setenv("RESTAURANT_TEST_INT", "42")
	assert.Equal(t, 42, EnvIntDefault("RESTAURANT_TEST_INT", 1))

	t.Setenv("RESTAURANT_TEST_INT", "nope")
	assert.Equal(t, 1, EnvIntDefault("RESTAURANT_TEST_INT", 1))

	assert.Equal(t, 7, EnvIntDefault("RESTAURANT_TEST_MISSING", 7))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVICE_NAME", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("TOKEN_TTL_HOURS", "")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")

	cfg := Load()
	assert.Equal(t, "restaurant", cfg.ServiceName)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 24*time.Hour, cfg.TokenTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "menu_items", cfg.ESIndex)
	assert.Equal(t, 10, cfg.BcryptCost)
}

func validConfig() Config {
	return Config{
		LogLevel:    "info",
		ServerPort:  8080,
		DBDriver:    "sqlite",
		DatabaseURL: "file:restaurant.db",
		JWTSecret:   []byte("secret"),
		TokenTTL:    time.Hour,
		BcryptCost:  10,
	}
}

func TestValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.DBDriver = "mysql"
	cfg.DatabaseURL = ""
	cfg.JWTSecret = nil
	cfg.LogLevel = "loud"
	cfg.BcryptCost = 99
	cfg.AdminUsername = "admin"

	err := cfg.Validate()
	require.Error(t, err)
	for _, want := range []string{"DB_DRIVER", "DATABASE_URL", "JWT_SECRET", "LOG_LEVEL", "BCRYPT_COST", "ADMIN_PASSWORD"} {
		assert.Contains(t, err.Error(), want)
	}
	assert.NotContains(t, err.Error(), "SERVER_PORT")

	cfg = validConfig()
	cfg.ServerPort = 70000
	cfg.TokenTTL = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SERVER_PORT")
	assert.Contains(t, err.Error(), "TOKEN_TTL_HOURS")
}
