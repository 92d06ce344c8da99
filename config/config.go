package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"github.com/yeremiapane/hostel-app/store"
	"github.com/yeremiapane/hostel-app/utils"
)

// App holds the runtime configuration loaded from environment variables.
type App struct {
	Env             string
	Port            string
	GinMode         string
	DBDriver        string
	DatabaseURL     string
	DatabaseName    string
	JWTSecret       string
	JWTTTL          time.Duration
	RedisAddr       string
	CORSOrigins     []string
	RateLimitPerSec float64
	RateLimitBurst  int
	AuthRatePerMin  int
	HostelCapacity  int
	OverdueInterval time.Duration
	LogLevel        string
}

// Load reads .env when present and returns the configuration with defaults
// for everything unset.
func Load() App {
	if err := godotenv.Load(); err != nil {
		utils.InfoLogger.Infof("no .env file loaded: %v", err)
	}

	return App{
		Env:             getEnv("APP_ENV", "dev"),
		Port:            getEnv("PORT", "5000"),
		GinMode:         getEnv("GIN_MODE", "debug"),
		DBDriver:        getEnv("DB_DRIVER", "sqlite"),
		DatabaseURL:     getEnv("DATABASE_URL", "hostel.db"),
		DatabaseName:    getEnv("DATABASE_NAME", "hostel"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-hostel-secret-change"),
		JWTTTL:          durationEnv("JWT_TTL", time.Hour),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		CORSOrigins:     listEnv("CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
		RateLimitPerSec: floatEnv("RATE_LIMIT_PER_SEC", 20),
		RateLimitBurst:  intEnv("RATE_LIMIT_BURST", 40),
		AuthRatePerMin:  intEnv("AUTH_RATE_LIMIT_PER_MIN", 5),
		HostelCapacity:  intEnv("HOSTEL_CAPACITY", 50),
		OverdueInterval: durationEnv("OVERDUE_SCAN_INTERVAL", time.Hour),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
	}
}

// OpenStore connects the backend named by DBDriver.
func OpenStore(ctx context.Context, cfg App) (store.Store, error) {
	switch cfg.DBDriver {
	case "mongo", "mongodb":
		return store.OpenMongo(ctx, cfg.DatabaseURL, cfg.DatabaseName)
	case "mysql", "sqlite":
		return store.OpenGorm(cfg.DBDriver, cfg.DatabaseURL)
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %q", cfg.DBDriver)
	}
}

// OpenRevoker returns a Redis-backed token blacklist when REDIS_ADDR is set
// and reachable, otherwise an in-memory one.
func OpenRevoker(ctx context.Context, cfg App) utils.Revoker {
	if cfg.RedisAddr == "" {
		return utils.NewMemoryRevoker()
	}
	client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		utils.ErrorLogger.Errorf("redis at %s unavailable, revoking tokens in memory: %v", cfg.RedisAddr, err)
		_ = client.Close()
		return utils.NewMemoryRevoker()
	}
	return utils.NewRedisRevoker(client)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func listEnv(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		d, err := time.ParseDuration(val)
		if err != nil {
			utils.ErrorLogger.Warnf("invalid duration for %s: %v, using fallback %s", key, err, fallback)
			return fallback
		}
		return d
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		parsed, err := strconv.Atoi(val)
		if err == nil {
			return parsed
		}
		utils.ErrorLogger.Warnf("invalid int for %s: %q, using fallback %d", key, val, fallback)
	}
	return fallback
}

func floatEnv(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		parsed, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return parsed
		}
		utils.ErrorLogger.Warnf("invalid float for %s: %q, using fallback %g", key, val, fallback)
	}
	return fallback
}
