package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bellapacxx/squares-backend/utils/logger"
	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type Config struct {
	Port         int
	DatabaseURL  string
	Store        string
	JWTSecret    string
	JWTIssuer    string
	TokenTTL     time.Duration
	AllowOrigins []string
	PublicURL    string
	LogLevel     string
	LogEncoding  string
}

// LoadEnv reads .env into the process environment if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		logger.Debug("[INFO] No .env file found, reading environment variables")
	}
}

// RegisterFlags declares every setting on fs. Each flag can also be set from
// the environment variable of the same name in upper snake case
// (database-url -> DATABASE_URL).
func (c *Config) RegisterFlags(fs *pflag.FlagSet) {
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.IntVarP(&c.Port, "port", "p", 4000, "port to listen on (env: PORT)")
	fs.StringVar(&c.DatabaseURL, "database-url", "", "postgres connection string (env: DATABASE_URL)")
	fs.StringVar(&c.Store, "store", StorePostgres, "storage backend: postgres or memory (env: STORE)")
	fs.StringVar(&c.JWTSecret, "jwt-secret", "", "HS256 secret for bearer tokens (env: JWT_SECRET)")
	fs.StringVar(&c.JWTIssuer, "jwt-issuer", "squares", "expected token issuer (env: JWT_ISSUER)")
	fs.DurationVar(&c.TokenTTL, "token-ttl", 30*24*time.Hour, "lifetime of tokens minted by the token command (env: TOKEN_TTL)")
	fs.StringSliceVar(&c.AllowOrigins, "allow-origins", []string{"http://localhost:3000"}, "CORS origins (env: ALLOW_ORIGINS)")
	fs.StringVar(&c.PublicURL, "public-url", "http://localhost:3000", "base URL of share links (env: PUBLIC_URL)")
	fs.StringVar(&c.LogLevel, "log-level", "info", "debug, info, warn or error (env: LOG_LEVEL)")
	fs.StringVar(&c.LogEncoding, "log-encoding", "json", "json or console (env: LOG_ENCODING)")
}

// ApplyEnv fills every flag not given on the command line from the
// environment.
func ApplyEnv(fs *pflag.FlagSet) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

func (c *Config) Validate() error {
	switch c.Store {
	case StorePostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the postgres store")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("unknown store %q (want postgres or memory)", c.Store)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	return nil
}
