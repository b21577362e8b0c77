package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Credential backend modes.
const (
	CredentialModeLocal  = "local"
	CredentialModeRemote = "remote"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	// CredentialMode selects where accounts live: "local" uses the built-in
	// Mongo-backed service, "remote" proxies the platform backend.
	CredentialMode    string        `env:"CREDENTIAL_MODE,    default=local"`
	CredentialURL     string        `env:"CREDENTIAL_URL"`
	CredentialTimeout time.Duration `env:"CREDENTIAL_TIMEOUT, default=10s"`

	SessionTTL      time.Duration `env:"SESSION_TTL,      default=24h"`
	NotifierWorkers int           `env:"NOTIFIER_WORKERS, default=4"`

	Mongo MongoConfig
	Redis RedisConfig
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=donation_platform"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
