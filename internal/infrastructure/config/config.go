package config

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config is the non-secret configuration surface, loaded once at startup and
// passed by reference to every component that needs it. Secrets (signing
// keys, connection strings, bootstrap identities) come from the secrets
// resolver, not from here.
type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	// Backend selects the principal store implementation: mongo or postgres.
	Backend string `env:"AUTH_DB_BACKEND, default=mongo"`

	Token TokenConfig
	Mongo MongoConfig
	Redis RedisConfig
}

type TokenConfig struct {
	Algorithm         string   `env:"JWT_ALGORITHM,               default=RS256"`
	AllowedAlgorithms []string `env:"ALLOWED_SIGNING_ALGORITHMS,  default=RS256,ES256,HS256"`
	ExpireMinutes     int      `env:"ACCESS_TOKEN_EXPIRE_MINUTES, default=20"`
	Issuer            string   `env:"TOKEN_ISSUER,                default=janux-server"`
	Audience          string   `env:"TOKEN_AUDIENCE,              default=janux-application"`

	// RevocationFailOpen controls validation when the revocation cache is
	// unreachable: false (default) rejects the token, true accepts it with
	// a logged warning.
	RevocationFailOpen bool `env:"REVOCATION_FAIL_OPEN, default=false"`
}

type MongoConfig struct {
	Database string `env:"MONGO_DATABASE_NAME, default=users_db"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

const (
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

// TokenTTL returns the configured access-token lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Token.ExpireMinutes) * time.Minute
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	switch strings.ToLower(cfg.Backend) {
	case BackendMongo, BackendPostgres:
		cfg.Backend = strings.ToLower(cfg.Backend)
	default:
		return nil, fmt.Errorf("config: AUTH_DB_BACKEND must be %q or %q, got %q",
			BackendMongo, BackendPostgres, cfg.Backend)
	}

	if cfg.Token.ExpireMinutes <= 0 {
		return nil, fmt.Errorf("config: ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}

	return &cfg, nil
}
