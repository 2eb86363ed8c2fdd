package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/pkg/psqlbuilder"
)

// ErrInvalidConfig возвращается при некорректной конфигурации
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server         ServerConfig         `toml:"server"`
	Database       DatabaseConfig       `toml:"database"`
	Logs           LogsConfig           `toml:"logs"`
	Metrics        MetricsConfig        `toml:"metrics"`
	Availability   AvailabilityConfig   `toml:"availability"`
	GoogleCalendar GoogleCalendarConfig `toml:"google_calendar"`
	CalDAV         CalDAVConfig         `toml:"caldav"`
	RateLimit      RateLimitConfig      `toml:"rate_limit"`
}

// ServerConfig настройки HTTP сервера (таймауты в секундах)
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки подключения к БД
type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | sqlite
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	Path            string `toml:"path"` // файл sqlite
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для database/sql
func (d DatabaseConfig) DSN() string {
	if d.Driver == psqlbuilder.DriverSQLite {
		return d.Path
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// AvailabilityConfig окна расчета доступности
type AvailabilityConfig struct {
	DefaultTimezone         string `toml:"default_timezone"`
	LookaheadDays           int    `toml:"lookahead_days"`
	ExternalLookaheadMonths int    `toml:"external_lookahead_months"`
}

type GoogleCalendarConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	Endpoint     string `toml:"endpoint"`
	Timeout      int    `toml:"timeout"` // секунды
}

type CalDAVConfig struct {
	Timeout int `toml:"timeout"` // секунды
}

type RateLimitConfig struct {
	Enabled           bool `toml:"enabled"`
	RequestsPerMinute int  `toml:"requests_per_minute"`
	Burst             int  `toml:"burst"`
}

// Load читает .env (если есть), TOML файл path и переменные окружения
// Переменные окружения имеют приоритет над файлом
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	overrideString(&c.Database.Driver, "DB_DRIVER")
	overrideString(&c.Database.Host, "DB_HOST")
	overrideString(&c.Database.User, "DB_USER")
	overrideString(&c.Database.Password, "DB_PASSWORD")
	overrideString(&c.Database.DBName, "DB_NAME")
	overrideString(&c.Database.Path, "DB_PATH")
	overrideString(&c.GoogleCalendar.ClientID, "GOOGLE_CLIENT_ID")
	overrideString(&c.GoogleCalendar.ClientSecret, "GOOGLE_CLIENT_SECRET")
	overrideString(&c.Logs.Level, "LOG_LEVEL")

	if err := overrideInt(&c.Database.Port, "DB_PORT"); err != nil {
		return err
	}
	return overrideInt(&c.Server.HTTPPort, "HTTP_PORT")
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 15)
	setDefault(&c.Server.WriteTimeout, 15)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 30)

	setDefault(&c.Database.Driver, psqlbuilder.DriverPostgres)
	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.SSLMode, "disable")
	setDefault(&c.Database.Path, "availability.db")
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)

	setDefault(&c.Logs.Level, "info")

	setDefault(&c.Metrics.Path, "/metrics")
	setDefault(&c.Metrics.ServiceName, "availability_service")

	setDefault(&c.Availability.DefaultTimezone, domain.DefaultTimezone)
	setDefault(&c.Availability.LookaheadDays, domain.DefaultLookaheadDays)
	setDefault(&c.Availability.ExternalLookaheadMonths, domain.DefaultExternalLookaheadMonths)

	setDefault(&c.GoogleCalendar.Timeout, 10)
	setDefault(&c.CalDAV.Timeout, 10)

	setDefault(&c.RateLimit.RequestsPerMinute, 120)
	setDefault(&c.RateLimit.Burst, 20)
}

// Validate проверяет корректность конфигурации
func (c *Config) Validate() error {
	if _, err := psqlbuilder.ForDriver(c.Database.Driver); err != nil {
		return fmt.Errorf("%w: database.driver: %v", ErrInvalidConfig, err)
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Availability.LookaheadDays <= 0 {
		return fmt.Errorf("%w: availability.lookahead_days must be positive", ErrInvalidConfig)
	}
	if c.Availability.ExternalLookaheadMonths <= 0 {
		return fmt.Errorf("%w: availability.external_lookahead_months must be positive", ErrInvalidConfig)
	}
	if _, err := time.LoadLocation(c.Availability.DefaultTimezone); err != nil {
		return fmt.Errorf("%w: availability.default_timezone: %v", ErrInvalidConfig, err)
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerMinute <= 0 {
		return fmt.Errorf("%w: rate_limit.requests_per_minute must be positive", ErrInvalidConfig)
	}
	return nil
}

func overrideString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func overrideInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, key, v)
	}
	*dst = n
	return nil
}

func setDefault[T comparable](dst *T, value T) {
	var zero T
	if *dst == zero {
		*dst = value
	}
}
