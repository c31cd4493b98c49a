package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix префикс переменных окружения, переопределяющих config.toml
const EnvPrefix = "SHELTER"

var (
	ErrReadConfig    = errors.New("config: failed to read config file")
	ErrEnvOverride   = errors.New("config: failed to apply environment overrides")
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server           ServerConfig            `toml:"server"`
	Database         DatabaseConfig          `toml:"database"`
	Logs             LogsConfig              `toml:"logs"`
	Metrics          MetricsConfig           `toml:"metrics"`
	Redis            RedisConfig             `toml:"redis"`
	Scheduling       SchedulingConfig        `toml:"scheduling"`
	Ledger           LedgerConfig            `toml:"ledger"`
	Retry            RetryConfig             `toml:"retry"`
	Degraded         DegradedConfig          `toml:"degraded"`
	Categories       []CategoryConfig        `toml:"categories"`
	FallbackServices []FallbackServiceConfig `toml:"fallback_services"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
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

type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	LockTTLMs  int    `toml:"lock_ttl_ms"`
	LockWaitMs int    `toml:"lock_wait_ms"`
}

type SchedulingConfig struct {
	Timezone                string `toml:"timezone"`
	MinBookingNoticeMinutes int    `toml:"min_booking_notice_minutes"`
}

// Location часовой пояс приюта
func (s SchedulingConfig) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(s.Timezone)
}

type LedgerConfig struct {
	WriteTimeoutMs int `toml:"write_timeout_ms"`
}

type RetryConfig struct {
	MaxAttempts       int `toml:"max_attempts"`
	InitialIntervalMs int `toml:"initial_interval_ms"`
	MaxIntervalMs     int `toml:"max_interval_ms"`
}

type DegradedConfig struct {
	Enabled bool `toml:"enabled"`
}

type CategoryConfig struct {
	ID                  string `toml:"id"`
	Name                string `toml:"name"`
	Description         string `toml:"description"`
	RequiresAppointment bool   `toml:"requires_appointment"`
	AdvanceBookingDays  int    `toml:"advance_booking_days"`
}

type WindowConfig struct {
	DayOfWeek  int    `toml:"day_of_week"`
	StartTime  string `toml:"start_time"`
	EndTime    string `toml:"end_time"`
	BreakStart string `toml:"break_start"`
	BreakEnd   string `toml:"break_end"`
}

type FallbackServiceConfig struct {
	ID                   int64          `toml:"id"`
	CategoryID           string         `toml:"category_id"`
	ShelterID            int64          `toml:"shelter_id"`
	Name                 string         `toml:"name"`
	Description          string         `toml:"description"`
	Provider             string         `toml:"provider"`
	Location             string         `toml:"location"`
	DurationMinutes      int            `toml:"duration_minutes"`
	Capacity             int            `toml:"capacity"`
	Cost                 float64        `toml:"cost"`
	Requirements         []string       `toml:"requirements"`
	RequiresConfirmation bool           `toml:"requires_confirmation"`
	Schedule             []WindowConfig `toml:"schedule"`
}

// envOverrides значения, которые можно задать через окружение при деплое
type envOverrides struct {
	HTTPPort         int    `envconfig:"HTTP_PORT"`
	DatabaseHost     string `envconfig:"DATABASE_HOST"`
	DatabasePort     int    `envconfig:"DATABASE_PORT"`
	DatabaseUser     string `envconfig:"DATABASE_USER"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD"`
	DatabaseName     string `envconfig:"DATABASE_NAME"`
	RedisAddr        string `envconfig:"REDIS_ADDR"`
	RedisPassword    string `envconfig:"REDIS_PASSWORD"`
	LogLevel         string `envconfig:"LOG_LEVEL"`
	Timezone         string `envconfig:"TIMEZONE"`
}

// Load читает config.toml и применяет переменные окружения SHELTER_*
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default значения, которые действуют, если в файле их нет
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs:    LogsConfig{Level: "info"},
		Metrics: MetricsConfig{Path: "/metrics", ServiceName: "shelter_booking"},
		Redis:   RedisConfig{LockTTLMs: 5000, LockWaitMs: 2000},
		Ledger:  LedgerConfig{WriteTimeoutMs: 3000},
		Retry:   RetryConfig{MaxAttempts: 3, InitialIntervalMs: 100, MaxIntervalMs: 1000},
	}
}

func (c *Config) applyEnv() error {
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrEnvOverride, err)
	}

	if env.HTTPPort != 0 {
		c.Server.HTTPPort = env.HTTPPort
	}
	if env.DatabaseHost != "" {
		c.Database.Host = env.DatabaseHost
	}
	if env.DatabasePort != 0 {
		c.Database.Port = env.DatabasePort
	}
	if env.DatabaseUser != "" {
		c.Database.User = env.DatabaseUser
	}
	if env.DatabasePassword != "" {
		c.Database.Password = env.DatabasePassword
	}
	if env.DatabaseName != "" {
		c.Database.DBName = env.DatabaseName
	}
	if env.RedisAddr != "" {
		c.Redis.Addr = env.RedisAddr
	}
	if env.RedisPassword != "" {
		c.Redis.Password = env.RedisPassword
	}
	if env.LogLevel != "" {
		c.Logs.Level = env.LogLevel
	}
	if env.Timezone != "" {
		c.Scheduling.Timezone = env.Timezone
	}
	return nil
}

// Validate проверяет обязательные значения
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if c.Database.Host == "" || c.Database.DBName == "" || c.Database.User == "" {
		return fmt.Errorf("%w: database host, user and dbname are required", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if _, err := c.Scheduling.Location(); err != nil {
		return fmt.Errorf("%w: scheduling.timezone: %v", ErrInvalidConfig, err)
	}
	if c.Scheduling.MinBookingNoticeMinutes < 0 {
		return fmt.Errorf("%w: scheduling.min_booking_notice_minutes must not be negative", ErrInvalidConfig)
	}
	if c.Ledger.WriteTimeoutMs <= 0 {
		return fmt.Errorf("%w: ledger.write_timeout_ms must be positive", ErrInvalidConfig)
	}
	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("%w: retry.max_attempts must be at least 1", ErrInvalidConfig)
	}

	seen := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		if cat.ID == "" {
			return fmt.Errorf("%w: category without id", ErrInvalidConfig)
		}
		if _, ok := seen[cat.ID]; ok {
			return fmt.Errorf("%w: duplicate category %q", ErrInvalidConfig, cat.ID)
		}
		if cat.AdvanceBookingDays < 0 {
			return fmt.Errorf("%w: category %q: advance_booking_days must not be negative", ErrInvalidConfig, cat.ID)
		}
		seen[cat.ID] = struct{}{}
	}
	return nil
}
