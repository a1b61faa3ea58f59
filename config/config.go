package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Identity   IdentityConfig
	Cloudinary CloudinaryConfig
	Location   LocationConfig
}

type ServerConfig struct {
	Port              string        `env:"PORT" envDefault:"8080"`
	Env               string        `env:"APP_ENV" envDefault:"development"`
	ReadTimeout       time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"10s"`
	WriteTimeout      time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"10s"`
	RateLimitRequests int           `env:"RATE_LIMIT_REQUESTS" envDefault:"100"`
	RateLimitWindow   time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"60s"`
}

type DatabaseConfig struct {
	DSN             string        `env:"DATABASE_DSN" envDefault:"host=localhost user=pawpals password=pawpals dbname=pawpals port=5432 sslmode=disable"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS" envDefault:"10"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS" envDefault:"100"`
	ConnMaxLifetime time.Duration `env:"DB_CONN_MAX_LIFETIME" envDefault:"1h"`
}

type RedisConfig struct {
	// Empty URL keeps the nearby cache in process memory.
	URL string `env:"REDIS_URL"`
}

// IdentityConfig points at the external identity provider. When JWTSecret is
// set, provider tokens are validated locally (HS256); otherwise each token is
// resolved with a verification call against BaseURL.
type IdentityConfig struct {
	BaseURL   string `env:"IDENTITY_BASE_URL"`
	APIKey    string `env:"IDENTITY_API_KEY"`
	JWTSecret string `env:"IDENTITY_JWT_SECRET"`
}

type CloudinaryConfig struct {
	CloudName string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey    string `env:"CLOUDINARY_API_KEY"`
	APISecret string `env:"CLOUDINARY_API_SECRET"`
}

type LocationConfig struct {
	DefaultRadiusMeters float64       `env:"DEFAULT_SEARCH_RADIUS_M" envDefault:"500"`
	NearbyCacheTTL      time.Duration `env:"NEARBY_CACHE_TTL" envDefault:"300000ms"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
