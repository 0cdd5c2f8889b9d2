package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config конфигурация сервиса
type Config struct {
	Server       ServerConfig       `toml:"server"`
	Database     DatabaseConfig     `toml:"database"`
	Logs         LogsConfig         `toml:"logs"`
	Metrics      MetricsConfig      `toml:"metrics"`
	NATS         NATSConfig         `toml:"nats"`
	Telegram     TelegramConfig     `toml:"telegram"`
	StaffService StaffServiceConfig `toml:"staff_service"`
	Scheduler    SchedulerConfig    `toml:"scheduler"`
}

// ServerConfig настройки HTTP-сервера
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

// DatabaseConfig настройки подключения к PostgreSQL
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

// DSN возвращает строку подключения PostgreSQL
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// LogsConfig настройки логирования
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig настройки Prometheus-метрик
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// NATSConfig настройки подключения к NATS (шина событий автоматизации)
type NATSConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Subject string `toml:"subject"`
	Timeout int    `toml:"timeout"` // секунды
}

// TelegramConfig настройки Telegram-клиента
type TelegramConfig struct {
	Enabled bool   `toml:"enabled"`
	APIURL  string `toml:"api_url"`
	Token   string `toml:"token"`
	ChatID  int64  `toml:"chat_id"`
	Timeout int    `toml:"timeout"` // секунды
}

// StaffServiceConfig настройки клиента HR-сервиса (график сотрудников)
type StaffServiceConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// SchedulerConfig настройки планировщика генерации
type SchedulerConfig struct {
	Enabled bool `toml:"enabled"`
	// GenerationTime локальное время ежедневного запуска генерации, "HH:MM"
	GenerationTime string `toml:"generation_time"`
	// Timezone таймзона календаря заведения
	Timezone string `toml:"timezone"`
	// TickSeconds период проверки планировщика
	TickSeconds int `toml:"tick_seconds"`
}

// Load читает и парсит конфигурацию из TOML-файла
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return cfg, nil
}

func defaultConfig() *Config {
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
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "park-recurring-service",
		},
		NATS: NATSConfig{
			URL:     "nats://localhost:4222",
			Subject: "park.bookings.created",
			Timeout: 5,
		},
		Telegram: TelegramConfig{
			APIURL:  "https://api.telegram.org",
			Timeout: 10,
		},
		StaffService: StaffServiceConfig{
			Timeout: 5,
		},
		Scheduler: SchedulerConfig{
			GenerationTime: "00:07",
			Timezone:       "Europe/Kyiv",
			TickSeconds:    60,
		},
	}
}
