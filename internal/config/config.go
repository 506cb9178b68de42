package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"housing-coop-go/pkg/logger"
)

const dateLayout = "2006-01-02"

type Config struct {
	HTTPPort    string
	Env         string
	CORSOrigins []string
	HTTP        HTTPConfig
	DB          DBConfig
	Households  HouseholdsConfig
	Ledger      LedgerConfig
	Payments    PaymentsConfig
	Rent        RentConfig
	Metrics     MetricsConfig
}

type HTTPConfig struct {
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
}

type DBConfig struct {
	DSN             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	TimeZone        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type HouseholdsConfig struct {
	// CacheTTL bounds how long actor lookups are served from memory. Zero disables the cache.
	CacheTTL time.Duration
}

type LedgerConfig struct {
	DepositFundName string
}

type PaymentsConfig struct {
	// Epoch is the marker used for households that never paid in full.
	Epoch time.Time
}

type RentConfig struct {
	ProfileMaxAge time.Duration
}

type MetricsConfig struct {
	Enabled bool
}

func Load(log logger.Logger) (Config, error) {
	if err := loadDotEnv(log); err != nil {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	epoch, err := getEnvDate("PAYMENTS_EPOCH", time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC))
	if err != nil {
		return Config{}, err
	}

	return Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		Env:         getEnv("ENV", "development"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"http://localhost:5173"}),
		HTTP: HTTPConfig{
			ReadHeaderTimeout: getEnvDuration("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
			ReadTimeout:       getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:      getEnvDuration("HTTP_WRITE_TIMEOUT", 45*time.Second),
			IdleTimeout:       getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
			ShutdownTimeout:   getEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		DB: DBConfig{
			DSN:             getEnv("DB_DSN", ""),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "housing_coop"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			TimeZone:        getEnv("DB_TIMEZONE", "UTC"),
			MaxOpenConns:    getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvDuration("DB_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Households: HouseholdsConfig{
			CacheTTL: getEnvDuration("HOUSEHOLD_CACHE_TTL", 30*time.Second),
		},
		Ledger: LedgerConfig{
			DepositFundName: getEnv("LEDGER_DEPOSIT_FUND_NAME", "Einzahlungsfonds"),
		},
		Payments: PaymentsConfig{
			Epoch: epoch,
		},
		Rent: RentConfig{
			ProfileMaxAge: getEnvDuration("RENT_PROFILE_MAX_AGE", 30*24*time.Hour),
		},
		Metrics: MetricsConfig{
			Enabled: getEnvBool("METRICS_ENABLED", true),
		},
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvList(key string, fallback []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}

// getEnvDate returns an error instead of the fallback when the value does not parse.
func getEnvDate(key string, fallback time.Time) (time.Time, error) {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback, nil
	}
	parsed, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", key, err)
	}
	return parsed, nil
}

func (c DBConfig) GetDSN() string {
	if c.DSN != "" {
		return c.DSN
	}
	return "host=" + c.Host +
		" user=" + c.User +
		" password=" + c.Password +
		" dbname=" + c.Name +
		" port=" + c.Port +
		" sslmode=" + c.SSLMode +
		" TimeZone=" + c.TimeZone
}
