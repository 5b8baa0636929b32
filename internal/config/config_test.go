package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/belanjaaja/backend/internal/config"
)

func setRequiredEnv(t *testing.T) {
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("DB_NAME", "belanjaaja")
	t.Setenv("JWT_SECRET", "test-secret")
}

func TestNewConfig_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "5432", cfg.Postgres.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
	assert.Equal(t, "migrations", cfg.Postgres.MigrationsPath)
	assert.Equal(t, 24*time.Hour, cfg.Auth.TokenTTL)
	assert.Equal(t, "order.events", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Kafka.Brokers, "kafka disabled unless brokers are set")
}

func TestNewConfig_RequiredVars(t *testing.T) {
	tests := []struct {
		name  string
		unset string
	}{
		{"missing_db_host", "DB_HOST"},
		{"missing_db_user", "DB_USER"},
		{"missing_db_name", "DB_NAME"},
		{"missing_jwt_secret", "JWT_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.unset, "")

			_, err := config.NewConfig()
			assert.Error(t, err)
		})
	}
}

func TestNewConfig_KafkaBrokers(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("KAFKA_ORDER_TOPIC", "orders")

	cfg, err := config.NewConfig()
	require.NoError(t, err)

	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "orders", cfg.Kafka.Topic)
}

func TestNewConfig_BadTokenTTL(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("TOKEN_TTL", "yesterday")

	_, err := config.NewConfig()
	assert.Error(t, err)
}
