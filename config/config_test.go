package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DB_DRIVER", "")

	cfg := LoadConfig()
	require.Equal(t, 8080, cfg.ServerPort, "empty value falls back to default")
	require.Equal(t, "", cfg.Database.Driver)
	require.Equal(t, defaultTokenHashCost, cfg.Auth.TokenHashCost)
	require.Equal(t, "phonebook.events", cfg.MQ.EventsChannel)
	require.False(t, cfg.Auth.ConcealNotFound)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite3")
	t.Setenv("DB_PATH", "/tmp/pb.db")
	t.Setenv("DB_USE_SSL", "true")
	t.Setenv("AUTH_CONCEAL_NOT_FOUND", "1")
	t.Setenv("TOKEN_HASH_COST", "4")
	t.Setenv("MQ_BACKEND", "RabbitMQ")
	t.Setenv("RABBITMQ_PREFETCH_COUNT", "not-a-number")

	cfg := LoadConfig()
	require.Equal(t, 9090, cfg.ServerPort)
	require.Equal(t, DriverSQLite, cfg.Database.Driver)
	require.Equal(t, "/tmp/pb.db", cfg.Database.Path)
	require.True(t, cfg.Database.UseSSL)
	require.True(t, cfg.Auth.ConcealNotFound)
	require.Equal(t, 4, cfg.Auth.TokenHashCost)
	require.Equal(t, BackendRabbitMQ, cfg.MQ.Backend)
	require.Equal(t, 0, cfg.MQ.RabbitMQ.PrefetchCount)
}
