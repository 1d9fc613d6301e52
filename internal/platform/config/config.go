package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config captures everything a single ledger instance needs at startup. One
// process serves exactly one domain; a deployment coordinator must supply
// the same OriginDomainID and InitialSupply to every instance in the cluster
// (external invariant, not verified here).
type Config struct {
	Addr     string `env:"CROSSLEDGER_ADDR" envDefault:":8080"`
	LogLevel string `env:"CROSSLEDGER_LOG_LEVEL" envDefault:"info"`

	// Domain placement. OriginDomainID selects which instance of the cluster
	// is credited with the entire supply at construction.
	DomainID       uint64 `env:"CROSSLEDGER_DOMAIN_ID,required"`
	OriginDomainID uint64 `env:"CROSSLEDGER_ORIGIN_DOMAIN_ID,required"`

	// Token identity, immutable after construction.
	TokenName     string `env:"CROSSLEDGER_TOKEN_NAME" envDefault:"Crossledger Token"`
	TokenSymbol   string `env:"CROSSLEDGER_TOKEN_SYMBOL" envDefault:"XLT"`
	TokenDecimals uint8  `env:"CROSSLEDGER_TOKEN_DECIMALS" envDefault:"18"`

	// InitialSupply is a decimal string so full 256-bit amounts survive the
	// environment round-trip.
	InitialSupply string `env:"CROSSLEDGER_INITIAL_SUPPLY" envDefault:"0"`

	// Owner receives the initial supply on the origin domain and holds the
	// administrative authority. BridgeIdentity is the sole principal allowed
	// to mint and burn after construction.
	Owner          string `env:"CROSSLEDGER_OWNER,required"`
	BridgeIdentity string `env:"CROSSLEDGER_BRIDGE_IDENTITY,required"`

	// Backing services. Empty values select the in-memory implementations.
	PostgresURL  string   `env:"CROSSLEDGER_POSTGRES_URL"`
	RedisURL     string   `env:"CROSSLEDGER_REDIS_URL"`
	KafkaBrokers []string `env:"CROSSLEDGER_KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"CROSSLEDGER_KAFKA_TOPIC" envDefault:"crossledger.events"`

	JWTSigningKey string `env:"CROSSLEDGER_JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
}

// FromEnv builds the instance configuration from environment variables so
// main stays lean.
func FromEnv() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
