package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv(t *testing.T) {
	t.Run("fails when domain placement is missing", func(t *testing.T) {
		t.Setenv("CROSSLEDGER_OWNER", "alice")
		t.Setenv("CROSSLEDGER_BRIDGE_IDENTITY", "bridge")

		_, err := FromEnv()
		require.Error(t, err)
	})

	t.Run("applies defaults around required values", func(t *testing.T) {
		t.Setenv("CROSSLEDGER_DOMAIN_ID", "7")
		t.Setenv("CROSSLEDGER_ORIGIN_DOMAIN_ID", "1")
		t.Setenv("CROSSLEDGER_OWNER", "alice")
		t.Setenv("CROSSLEDGER_BRIDGE_IDENTITY", "bridge")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.Addr)
		assert.Equal(t, uint64(7), cfg.DomainID)
		assert.Equal(t, uint64(1), cfg.OriginDomainID)
		assert.Equal(t, uint8(18), cfg.TokenDecimals)
		assert.Equal(t, "0", cfg.InitialSupply)
		assert.Empty(t, cfg.PostgresURL)
	})

	t.Run("splits kafka brokers on comma", func(t *testing.T) {
		t.Setenv("CROSSLEDGER_DOMAIN_ID", "1")
		t.Setenv("CROSSLEDGER_ORIGIN_DOMAIN_ID", "1")
		t.Setenv("CROSSLEDGER_OWNER", "alice")
		t.Setenv("CROSSLEDGER_BRIDGE_IDENTITY", "bridge")
		t.Setenv("CROSSLEDGER_KAFKA_BROKERS", "broker-1:9092,broker-2:9092")

		cfg, err := FromEnv()
		require.NoError(t, err)
		assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	})
}
