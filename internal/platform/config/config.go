package config

import (
	"os"
	"strconv"
	"time"

	platformstrings "hotelchain/pkg/platform/strings"
)

// Config is the full runtime configuration, read once at startup.
type Config struct {
	Environment string
	Server      Server
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	Session     SessionConfig
	Seed        SeedConfig
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
}

// DatabaseConfig selects the relational store. An empty URL runs on in-memory stores.
type DatabaseConfig struct {
	URL            string
	ReportsURL     string
	MaxOpenConns   int
	MaxIdleConns   int
	ReportsMaxConn int32
}

// RedisConfig selects the session store. An empty URL keeps sessions in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig enables the audit relay. No brokers keeps audit events in the outbox.
type KafkaConfig struct {
	Brokers        []string
	AuditTopic     string
	Partitions     int32
	Replication    int16
	RelayBatch     int
	RelayPeriod    time.Duration
	ProduceTimeout time.Duration
}

// SessionConfig controls login sessions.
type SessionConfig struct {
	SigningKey      string
	TTL             time.Duration
	SecureCookie    bool
	LockoutAttempts int
	LockoutWindow   time.Duration
}

// SeedConfig provisions the first super admin on an empty user table.
type SeedConfig struct {
	AdminEmail    string
	AdminPassword string
}

// IsProduction reports whether the service runs with production defaults.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	env := getEnv("ENVIRONMENT", "development")
	dbURL := os.Getenv("DATABASE_URL")

	signingKey := os.Getenv("SESSION_SIGNING_KEY")
	if signingKey == "" {
		// Use a default for development - should be overridden in production
		signingKey = "dev-session-key-change-in-production"
	}

	return Config{
		Environment: env,
		Server: Server{
			Addr:            getEnv("HOTEL_ADDR", ":8080"),
			ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
			RequestTimeout:  getDuration("REQUEST_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			URL:            dbURL,
			ReportsURL:     getEnv("REPORTS_DATABASE_URL", dbURL),
			MaxOpenConns:   getInt("DB_MAX_OPEN_CONNS", 20),
			MaxIdleConns:   getInt("DB_MAX_IDLE_CONNS", 5),
			ReportsMaxConn: int32(getInt("REPORTS_DB_MAX_CONNS", 4)),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     getInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  getDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  getDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: getDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:        platformstrings.SplitList(os.Getenv("KAFKA_BROKERS"), ","),
			AuditTopic:     getEnv("AUDIT_TOPIC", "hotel.audit"),
			Partitions:     int32(getInt("AUDIT_TOPIC_PARTITIONS", 3)),
			Replication:    int16(getInt("AUDIT_TOPIC_REPLICATION", 1)),
			RelayBatch:     getInt("AUDIT_RELAY_BATCH", 100),
			RelayPeriod:    getDuration("AUDIT_RELAY_PERIOD", 2*time.Second),
			ProduceTimeout: getDuration("AUDIT_PRODUCE_TIMEOUT", 10*time.Second),
		},
		Session: SessionConfig{
			SigningKey:      signingKey,
			TTL:             getDuration("SESSION_TTL", 2*time.Hour),
			SecureCookie:    env == "production",
			LockoutAttempts: getInt("LOGIN_LOCKOUT_ATTEMPTS", 5),
			LockoutWindow:   getDuration("LOGIN_LOCKOUT_WINDOW", 15*time.Minute),
		},
		Seed: SeedConfig{
			AdminEmail:    os.Getenv("SEED_ADMIN_EMAIL"),
			AdminPassword: os.Getenv("SEED_ADMIN_PASSWORD"),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
