package conf

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	fileName := filepath.Join(t.TempDir(), "conf.json")
	require.NoError(t, ioutil.WriteFile(fileName, []byte(body), 0644))
	return fileName
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, `{"redis": {"addr": "10.0.0.1:6379"}, "catalog": {"file": "pies.json"}}`))
	require.NoError(t, err)

	assert.Equal(t, "10.0.0.1:6379", cfg.Redis.Addr)
	assert.Equal(t, CatalogSourceFile, cfg.Catalog.Source)
	assert.Equal(t, "pies.json", cfg.Catalog.File)
	assert.Equal(t, StoreDriverRedis, cfg.Store.Driver)
	assert.Equal(t, "pie_purchases", cfg.Kafka.Topic)
	assert.Equal(t, "/ws", cfg.PushServer.Path)
	assert.Equal(t, 10000, cfg.Purchase.BlacklistCacheSize)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PIE_REDIS_ADDR", "redis:6380")
	t.Setenv("PIE_KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("PIE_STORE_DRIVER", StoreDriverMemory)

	cfg, err := LoadConfig(writeConfig(t, `{"redis": {"addr": "10.0.0.1:6379"}, "store": {"driver": "redis"}}`))
	require.NoError(t, err)

	assert.Equal(t, "redis:6380", cfg.Redis.Addr)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, `{"redis": `))
	assert.Error(t, err)
}
