package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Commission CommissionConfig
}

type ServerConfig struct {
	Port         string
	Env          string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	DSN             string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Addr     string // empty = caching disabled
	Password string
	DB       int
	TTL      time.Duration
}

// CommissionConfig holds the default distribution policy. Values here are
// boot-time defaults; system_settings rows override them at runtime.
type CommissionConfig struct {
	Level1Rate      string // decimal fraction, e.g. "0.05"
	Level2Rate      string // decimal fraction, e.g. "0.01"
	MinPurchase     int64  // whole currency units
	MaxReferrals    int    // direct children cap per user
	CommitAttempts  int    // ledger attempts per tuple before giving up
	CommitTimeout   time.Duration
	DispatchTimeout time.Duration
}

func Load() *Config {
	_ = godotenv.Load()
	redisDB, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	return &Config{
		Server: ServerConfig{
			Port:         envOr("APP_PORT", "4000"),
			Env:          envOr("APP_ENV", "development"),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			DSN:             envOr("DB_DSN", "refearn:refearn@tcp(localhost:3306)/refearn?charset=utf8mb4&parseTime=True&loc=Local"),
			MaxIdleConns:    10,
			MaxOpenConns:    100,
			ConnMaxLifetime: time.Hour,
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASS"),
			DB:       redisDB,
			TTL:      30 * time.Second,
		},
		Commission: CommissionConfig{
			Level1Rate:      envOr("COMMISSION_LEVEL1_RATE", "0.05"),
			Level2Rate:      envOr("COMMISSION_LEVEL2_RATE", "0.01"),
			MinPurchase:     envInt64("COMMISSION_MIN_PURCHASE", 1000),
			MaxReferrals:    int(envInt64("REFERRAL_MAX_DIRECT", 8)),
			CommitAttempts:  3,
			CommitTimeout:   5 * time.Second,
			DispatchTimeout: 2 * time.Second,
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}
