package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// NetworkConfig параметры вызова бэкенда (таймаут, повторы)
type NetworkConfig struct {
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

type BotConfig struct {
	TelegramToken string
	BotUsername   string
	DatabaseURL   string
	TenantsFile   string
	MetricsAddr   string
	Debug         bool

	Network NetworkConfig

	CacheTTL         time.Duration
	IdleTimeout      time.Duration
	ActivityThrottle time.Duration

	// Периоды автообновления страниц
	AdminRefresh      time.Duration
	SupervisorRefresh time.Duration
	EmployeeRefresh   time.Duration
}

const (
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 2
	DefaultRetryDelay = time.Second

	DefaultCacheTTL         = 2 * time.Minute
	DefaultIdleTimeout      = 10 * time.Minute
	DefaultActivityThrottle = time.Second

	DefaultAdminRefresh      = 2 * time.Minute
	DefaultSupervisorRefresh = 30 * time.Second
	DefaultEmployeeRefresh   = 5 * time.Minute
)

var instance *BotConfig
var once sync.Once

func GetBotConfig() *BotConfig {
	once.Do(func() {
		if err := godotenv.Load(); err != nil {
			logrus.Warnf("no .env file loaded: %s", err.Error())
		}

		cfg, err := Load()
		if err != nil {
			logrus.Fatal(err)
		}
		instance = cfg
	})

	return instance
}

// Load читает конфигурацию из переменных окружения
func Load() (*BotConfig, error) {
	cfg := &BotConfig{
		TelegramToken: getEnv("TELEGRAM_BOT_TOKEN", ""),
		BotUsername:   getEnv("TELEGRAM_BOT_USERNAME", ""),
		DatabaseURL:   getEnv("DATABASE_URL", "asistencia.db"),
		TenantsFile:   getEnv("TENANTS_FILE", ""),
		MetricsAddr:   getEnv("METRICS_ADDR", ""),
		Debug:         getEnvAsBool("DEBUG", false),
		Network: NetworkConfig{
			Timeout:    getEnvAsDuration("API_TIMEOUT", DefaultTimeout),
			MaxRetries: int(getEnvAsInt("API_MAX_RETRIES", DefaultMaxRetries)),
			RetryDelay: getEnvAsDuration("API_RETRY_DELAY", DefaultRetryDelay),
		},
		CacheTTL:          getEnvAsDuration("CACHE_TTL", DefaultCacheTTL),
		IdleTimeout:       getEnvAsDuration("SESSION_TIMEOUT", DefaultIdleTimeout),
		ActivityThrottle:  getEnvAsDuration("ACTIVITY_THROTTLE", DefaultActivityThrottle),
		AdminRefresh:      getEnvAsDuration("ADMIN_REFRESH", DefaultAdminRefresh),
		SupervisorRefresh: getEnvAsDuration("SUPERVISOR_REFRESH", DefaultSupervisorRefresh),
		EmployeeRefresh:   getEnvAsDuration("EMPLOYEE_REFRESH", DefaultEmployeeRefresh),
	}

	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("could not get bot token")
	}
	if cfg.Network.MaxRetries < 0 {
		return nil, fmt.Errorf("API_MAX_RETRIES must not be negative, got %d", cfg.Network.MaxRetries)
	}
	if cfg.CacheTTL <= 0 || cfg.IdleTimeout <= 0 {
		return nil, fmt.Errorf("CACHE_TTL and SESSION_TIMEOUT must be positive")
	}

	return cfg, nil
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultVal
}

func getEnvAsInt(name string, defaultVal int64) int64 {
	valStr := getEnv(name, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return int64(val)
	}

	return defaultVal
}

// getEnvAsDuration принимает "90s", "2m" или число миллисекунд
func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valStr := getEnv(name, "")
	if valStr == "" {
		return defaultVal
	}
	if val, err := time.ParseDuration(valStr); err == nil {
		return val
	}
	if ms, err := strconv.Atoi(valStr); err == nil {
		return time.Duration(ms) * time.Millisecond
	}

	logrus.Warnf("invalid duration for %s: %q, using %s", name, valStr, defaultVal)
	return defaultVal
}
