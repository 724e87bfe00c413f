package config

import (
	"fmt"
	"net"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// defaultJWTSecret is only acceptable outside production.
const defaultJWTSecret = "change-me"

// Config holds application level configuration loaded from environment variables.
type Config struct {
	AppEnv     string `env:"APP_ENV" envDefault:"development"`
	ServerPort string `env:"SERVER_PORT" envDefault:"8080"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info"`

	// Database
	DBDriver    string `env:"DB_DRIVER" envDefault:"mysql"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"user:password@tcp(localhost:3306)/newsdesk?charset=utf8mb4&parseTime=True&loc=Local"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Sessions
	JWTSecret  string        `env:"JWT_SECRET" envDefault:"change-me"`
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"168h"`
	CookieName string        `env:"COOKIE_NAME" envDefault:"news-auth-token"`
	BcryptCost int           `env:"BCRYPT_COST" envDefault:"12"`

	// Login limiter
	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS" envDefault:"5"`
	LoginWindow      time.Duration `env:"LOGIN_WINDOW" envDefault:"15m"`
	LoginStore       string        `env:"LOGIN_STORE" envDefault:"memory"` // memory or redis
	LoginStoreSize   int           `env:"LOGIN_STORE_SIZE" envDefault:"10000"`

	// Proxies allowed to set X-Forwarded-For, as CIDR ranges. Empty means
	// the connection address is the client address.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Per-IP API limiter; 0 disables it
	APIRateLimit float64 `env:"API_RATE_LIMIT" envDefault:"20"`
	APIRateBurst int     `env:"API_RATE_BURST" envDefault:"40"`

	// Integrations, all optional
	AMQPURL      string `env:"AMQP_URL"`
	AMQPExchange string `env:"AMQP_EXCHANGE" envDefault:"newsdesk.events"`
	OpenAIKey    string `env:"OPENAI_API_KEY"`
	OpenAIModel  string `env:"OPENAI_MODEL" envDefault:"gpt-4o-mini"`

	StatsCacheTTL time.Duration `env:"STATS_CACHE_TTL" envDefault:"60s"`
	SchedulerSpec string        `env:"SCHEDULER_SPEC" envDefault:"@every 1m"`
	SwaggerHost   string        `env:"SWAGGER_HOST"`

	// Seeding
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
	AdminName     string `env:"ADMIN_NAME" envDefault:"Administrator"`
}

// IsProduction reports whether the service runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}

// Load builds Config from the environment, reading a .env file first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.DBDriver {
	case "mysql", "postgres":
	default:
		return fmt.Errorf("DB_DRIVER must be mysql or postgres, got %q", c.DBDriver)
	}
	switch c.LoginStore {
	case "memory", "redis":
	default:
		return fmt.Errorf("LOGIN_STORE must be memory or redis, got %q", c.LoginStore)
	}
	if c.IsProduction() && (c.JWTSecret == defaultJWTSecret || len(c.JWTSecret) < 32) {
		return fmt.Errorf("JWT_SECRET must be set to at least 32 bytes in production")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if _, err := c.ProxyRanges(); err != nil {
		return err
	}
	return nil
}

// ProxyRanges parses TrustedProxies. A bare address is treated as a
// single-host range.
func (c *Config) ProxyRanges() ([]*net.IPNet, error) {
	ranges := make([]*net.IPNet, 0, len(c.TrustedProxies))
	for _, raw := range c.TrustedProxies {
		if raw == "" {
			continue
		}
		if ip := net.ParseIP(raw); ip != nil {
			bits := 8 * net.IPv6len
			if ip.To4() != nil {
				ip, bits = ip.To4(), 8*net.IPv4len
			}
			ranges = append(ranges, &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)})
			continue
		}
		_, ipNet, err := net.ParseCIDR(raw)
		if err != nil {
			return nil, fmt.Errorf("TRUSTED_PROXIES entry %q is not an address or CIDR range", raw)
		}
		ranges = append(ranges, ipNet)
	}
	return ranges, nil
}
