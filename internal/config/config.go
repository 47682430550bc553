package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv  string
	AppPort string

	MySQLHost   string
	MySQLPort   string
	MySQLDB     string
	MySQLUser   string
	MySQLPass   string
	AutoMigrate bool

	RedisEnabled bool
	RedisAddr    string
	RedisPass    string
	RedisDB      int

	EventsChannel string
	IdempTTLSecs  int
}

func getenv(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func getbool(k string, d bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return d
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return d
	}
	return b
}

func getint(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return d
}

// Load reads the environment, after preloading ENV_FILE (default .env) when it
// exists. Variables already set in the process win over the file.
func Load() *Config {
	_ = godotenv.Load(getenv("ENV_FILE", ".env"))

	return &Config{
		AppEnv:  getenv("APP_ENV", "production"),
		AppPort: getenv("APP_PORT", "8080"),

		MySQLHost:   getenv("MYSQL_HOST", "mysql"),
		MySQLPort:   getenv("MYSQL_PORT", "3306"),
		MySQLDB:     getenv("MYSQL_DB", "treasury"),
		MySQLUser:   getenv("MYSQL_USER", "treasury"),
		MySQLPass:   getenv("MYSQL_PASS", "treasury"),
		AutoMigrate: getbool("AUTO_MIGRATE", false),

		RedisEnabled: getbool("REDIS_ENABLED", true),
		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		RedisDB:      getint("REDIS_DB", 0),

		EventsChannel: getenv("FLAG_EVENTS_CHANNEL", "treasury:events"),
		IdempTTLSecs:  getint("IDEMPOTENCY_TTL_SECONDS", 300),
	}
}

func (c *Config) Validate() error {
	if c.MySQLHost == "" || c.MySQLPort == "" || c.MySQLDB == "" || c.MySQLUser == "" {
		return errors.New("missing MySQL config (MYSQL_HOST/PORT/DB/USER)")
	}
	if _, err := net.LookupPort("tcp", c.MySQLPort); err != nil {
		return fmt.Errorf("invalid MYSQL_PORT %q: %w", c.MySQLPort, err)
	}
	if c.AppPort == "" {
		return errors.New("missing APP_PORT")
	}
	if c.RedisEnabled && c.RedisAddr == "" {
		return errors.New("missing REDIS_ADDR while REDIS_ENABLED")
	}
	if c.IdempTTLSecs <= 0 {
		return fmt.Errorf("IDEMPOTENCY_TTL_SECONDS must be positive, got %d", c.IdempTTLSecs)
	}
	return nil
}

func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }

func (c *Config) IdempotencyTTL() time.Duration { return time.Duration(c.IdempTTLSecs) * time.Second }

func (c *Config) mysqlAddr() string { return net.JoinHostPort(c.MySQLHost, c.MySQLPort) }

// MySQLDSN: parseTime for DATETIME columns, loc=UTC so timestamps read back in UTC.
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=UTC&charset=utf8mb4",
		c.MySQLUser, c.MySQLPass, c.mysqlAddr(), c.MySQLDB)
}
