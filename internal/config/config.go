package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	// база часовых поясов нужна в контейнерах без /usr/share/zoneinfo
	_ "time/tzdata"
)

// Драйверы хранилища и блокировок
const (
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverMemory   = "memory"

	LockDriverLocal = "local"
	LockDriverRedis = "redis"
)

// ErrInvalidConfig возвращается, если конфигурация не прошла проверку
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config конфигурация сервиса
type Config struct {
	Server      ServerConfig      `toml:"server"`
	Database    DatabaseConfig    `toml:"database"`
	Logs        LogsConfig        `toml:"logs"`
	Metrics     MetricsConfig     `toml:"metrics"`
	Reservation ReservationConfig `toml:"reservation"`
	Lock        LockConfig        `toml:"lock"`
	Redis       RedisConfig       `toml:"redis"`
	TeamService ServiceConfig     `toml:"team_service"`
	Jobs        JobsConfig        `toml:"jobs"`
}

// ServerConfig настройки HTTP сервера, таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// DatabaseConfig настройки PostgreSQL. Driver "memory" нужен для локального запуска без БД
type DatabaseConfig struct {
	Driver          string `toml:"driver"`
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
	Migrate         bool   `toml:"migrate"`
}

// DSN возвращает строку подключения к PostgreSQL
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file"`
}

// MetricsConfig настройки Prometheus метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// ReservationConfig политика бронирования
type ReservationConfig struct {
	MinRosterSize int    `toml:"min_roster_size"`
	Timezone      string `toml:"timezone"`
	LockTimeoutMs int    `toml:"lock_timeout_ms"`
}

// Location часовой пояс площадки
func (c ReservationConfig) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

// LockTimeout максимальное ожидание блокировки слота
func (c ReservationConfig) LockTimeout() time.Duration {
	return time.Duration(c.LockTimeoutMs) * time.Millisecond
}

// LockConfig настройки блокировок слотов
type LockConfig struct {
	Driver          string `toml:"driver"`
	TTLMs           int    `toml:"ttl_ms"`
	RetryIntervalMs int    `toml:"retry_interval_ms"`
	Prefix          string `toml:"prefix"`
}

// RedisConfig настройки Redis
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// ServiceConfig настройки внешнего сервиса
type ServiceConfig struct {
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// JobsConfig фоновые задачи
type JobsConfig struct {
	ConsistencyAuditEnabled  bool   `toml:"consistency_audit_enabled"`
	ConsistencyAuditSchedule string `toml:"consistency_audit_schedule"` // cron выражение
}

// Load читает конфигурацию из TOML файла.
// Перед этим подгружается .env (если есть), переменные окружения
// DB_PASSWORD и REDIS_PASSWORD перекрывают значения из файла.
// Путь можно переопределить переменной CONFIG_PATH
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		path = envPath
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config %s: %w", path, err)
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default значения по умолчанию, поверх которых читается файл
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
			Driver:          DatabaseDriverPostgres,
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
			Migrate:         true,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "ground_booking",
		},
		Reservation: ReservationConfig{
			MinRosterSize: 7,
			Timezone:      "UTC",
			LockTimeoutMs: 3000,
		},
		Lock: LockConfig{
			Driver:          LockDriverLocal,
			TTLMs:           5000,
			RetryIntervalMs: 10,
			Prefix:          "ground-booking:lock:",
		},
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		TeamService: ServiceConfig{
			Timeout: 5,
		},
		Jobs: JobsConfig{
			ConsistencyAuditSchedule: "@every 10m",
		},
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
}

// Validate проверяет согласованность настроек
func (c *Config) Validate() error {
	var problems []string

	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		problems = append(problems, fmt.Sprintf("server.http_port %d out of range", c.Server.HTTPPort))
	}

	switch c.Database.Driver {
	case DatabaseDriverPostgres:
		if c.Database.DBName == "" {
			problems = append(problems, "database.dbname is required for postgres")
		}
	case DatabaseDriverMemory:
	default:
		problems = append(problems, fmt.Sprintf("database.driver %q is not supported", c.Database.Driver))
	}

	if c.Reservation.MinRosterSize < 1 {
		problems = append(problems, "reservation.min_roster_size must be positive")
	}
	if _, err := c.Reservation.Location(); err != nil {
		problems = append(problems, fmt.Sprintf("reservation.timezone: %v", err))
	}
	if c.Reservation.LockTimeoutMs < 0 {
		problems = append(problems, "reservation.lock_timeout_ms must not be negative")
	}

	switch c.Lock.Driver {
	case LockDriverLocal:
	case LockDriverRedis:
		if c.Redis.Addr == "" {
			problems = append(problems, "redis.addr is required for redis lock driver")
		}
		if c.Lock.TTLMs <= c.Reservation.LockTimeoutMs {
			problems = append(problems, "lock.ttl_ms must exceed reservation.lock_timeout_ms")
		}
	default:
		problems = append(problems, fmt.Sprintf("lock.driver %q is not supported", c.Lock.Driver))
	}

	if c.TeamService.URL == "" {
		problems = append(problems, "team_service.url is required")
	}

	if c.Jobs.ConsistencyAuditEnabled && c.Jobs.ConsistencyAuditSchedule == "" {
		problems = append(problems, "jobs.consistency_audit_schedule is required when the audit is enabled")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}
