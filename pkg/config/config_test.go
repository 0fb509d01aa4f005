package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, AllocatorMemory, cfg.Recommendation.IDAllocator)
	assert.False(t, cfg.Recommendation.LegacyUpdateMatch)
	assert.Contains(t, cfg.Database.DSN(), "password=secret")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("PORT", "9090")
	t.Setenv("ID_ALLOCATOR", "Redis")
	t.Setenv("LEGACY_UPDATE_MATCH", "true")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, AllocatorRedis, cfg.Recommendation.IDAllocator)
	assert.True(t, cfg.Recommendation.LegacyUpdateMatch)
	assert.Equal(t, 2, cfg.Redis.RedisDB)
}

func TestLoadRejectsMissingPassword(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")

	_, err := Load()
	assert.EqualError(t, err, "missing database password")
}

func TestLoadRejectsUnknownAllocator(t *testing.T) {
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("ID_ALLOCATOR", "snowflake")

	_, err := Load()
	assert.Error(t, err)
}
