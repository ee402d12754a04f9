package config

import (
	"net"
	"strconv"
	"strings"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	Email     EmailConfig     `yaml:"email"`
	Packing   PackingConfig   `yaml:"packing"`
	RateLimit RateLimitConfig `yaml:"ratelimit"`
}

type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"15s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"SERVER_CLEANUP_INTERVAL" env-default:"1h"`
}

type DatabaseConfig struct {
	Path string `yaml:"path" env:"DATABASE_PATH" env-default:"wanderpack.db"`
}

type AuthConfig struct {
	JWTSecret    string        `yaml:"jwt_secret"    env:"AUTH_JWT_SECRET"    env-required:"true"`
	JWTIssuer    string        `yaml:"jwt_issuer"    env:"AUTH_JWT_ISSUER"    env-default:"wanderpack"`
	SessionTTL   time.Duration `yaml:"session_ttl"   env:"AUTH_SESSION_TTL"   env-default:"720h"`
	SecureCookie bool          `yaml:"secure_cookie" env:"AUTH_SECURE_COOKIE" env-default:"false"`
	BcryptCost   int           `yaml:"bcrypt_cost"   env:"AUTH_BCRYPT_COST"   env-default:"10"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"text"`
}

type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// EmailConfig configures Postmark. Email is disabled when ServerToken is empty.
type EmailConfig struct {
	ServerToken string `yaml:"server_token" env:"POSTMARK_SERVER_TOKEN"`
	FromAddress string `yaml:"from_address" env:"EMAIL_FROM"           env-default:"hello@wanderpack.app"`
	OwnerEmail  string `yaml:"owner_email"  env:"EMAIL_OWNER"`
	BaseURL     string `yaml:"base_url"     env:"BASE_URL"             env-default:"http://localhost:8080"`
}

type PackingConfig struct {
	RulesPath string `yaml:"rules_path" env:"PACKING_RULES_PATH"`
}

type RateLimitConfig struct {
	AuthLimit    int           `yaml:"auth_limit"    env:"RATELIMIT_AUTH_LIMIT"    env-default:"10"`
	AuthWindow   time.Duration `yaml:"auth_window"   env:"RATELIMIT_AUTH_WINDOW"   env-default:"15m"`
	PublicLimit  int           `yaml:"public_limit"  env:"RATELIMIT_PUBLIC_LIMIT"  env-default:"30"`
	PublicWindow time.Duration `yaml:"public_window" env:"RATELIMIT_PUBLIC_WINDOW" env-default:"1m"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// SplitList splits a comma-separated setting, dropping empty entries.
func SplitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
