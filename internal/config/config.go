package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	Env  string
	Port string

	JWTSecret          string
	SessionTTL         time.Duration // lifetime of a session token
	SessionIdleTimeout time.Duration
	SessionShards      int

	PaymentDelay time.Duration

	RateLimit float64 // requests per second per client
	RateBurst int

	CatalogSource string // "memory" or "mysql"
	DB            DBConfig

	RedisAddr string

	KafkaBrokers []string
	KafkaTopic   string
}

type DBConfig struct {
	Host string
	Port string
	User string
	Pass string
	Name string
}

const (
	CatalogMemory = "memory"
	CatalogMySQL  = "mysql"
)

// Load reads the configuration from the environment. Unset or malformed
// values fall back to defaults that run the demo fully in memory.
func Load() Config {
	return Config{
		Env:  getEnv("ENV", "development"),
		Port: getEnv("PORT", "8080"),

		JWTSecret:          getEnv("JWT_SECRET", "secret"),
		SessionTTL:         getDuration("SESSION_TTL", 24*time.Hour),
		SessionIdleTimeout: getDuration("SESSION_IDLE_TIMEOUT", 30*time.Minute),
		SessionShards:      getInt("SESSION_SHARDS", 16),

		PaymentDelay: getDuration("PAYMENT_DELAY", 2*time.Second),

		RateLimit: getFloat("RATE_LIMIT", 10),
		RateBurst: getInt("RATE_BURST", 20),

		CatalogSource: strings.ToLower(getEnv("CATALOG_SOURCE", CatalogMemory)),
		DB: DBConfig{
			Host: getEnv("DB_HOST", "127.0.0.1"),
			Port: getEnv("DB_PORT", "3306"),
			User: getEnv("DB_USER", "root"),
			Pass: getEnv("DB_PASS", ""),
			Name: getEnv("DB_NAME", "shopease"),
		},

		RedisAddr: os.Getenv("REDIS_ADDR"),

		KafkaBrokers: getList("KAFKA_BROKERS"),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "order-topic"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getList(key string) []string {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []string
	for _, s := range strings.Split(v, ",") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func getInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid integer, using default")
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid number, using default")
		return def
	}
	return f
}

func getDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("invalid duration, using default")
		return def
	}
	return d
}
