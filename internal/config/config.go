package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/m04kA/SMC-BarberShop/internal/domain"
)

var (
	// ErrLoadConfig ошибка чтения файла конфигурации
	ErrLoadConfig = errors.New("config: failed to load")

	// ErrInvalidConfig некорректное значение в конфигурации
	ErrInvalidConfig = errors.New("config: invalid value")
)

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Booking  BookingConfig  `toml:"booking"`
	Redis    RedisConfig    `toml:"redis"`
	Notifier NotifierConfig `toml:"notifier"`
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
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// BookingConfig правила записи, общие для всей барбершопа
type BookingConfig struct {
	TimeZone                string   `toml:"time_zone"`
	ClosedWeekdays          []string `toml:"closed_weekdays"`
	SlotStepMinutes         int      `toml:"slot_step_minutes"`
	MinBookingNoticeMinutes int      `toml:"min_booking_notice_minutes"`
	AdvanceBookingDays      int      `toml:"advance_booking_days"`
	PhoneRegion             string   `toml:"phone_region"`
}

// Location часовой пояс барбершопа
func (b BookingConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(b.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: booking.time_zone %q: %v", ErrInvalidConfig, b.TimeZone, err)
	}
	return loc, nil
}

// Weekdays выходные дни в виде time.Weekday
func (b BookingConfig) Weekdays() ([]time.Weekday, error) {
	days := make([]time.Weekday, 0, len(b.ClosedWeekdays))
	for _, name := range b.ClosedWeekdays {
		day, err := ParseWeekday(name)
		if err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, nil
}

type RedisConfig struct {
	Enabled   bool   `toml:"enabled"`
	Addr      string `toml:"addr"`
	Password  string `toml:"password"`
	DB        int    `toml:"db"`
	ReportTTL int    `toml:"report_ttl"` // секунды
}

type NotifierConfig struct {
	Enabled bool   `toml:"enabled"`
	URL     string `toml:"url"`
	Timeout int    `toml:"timeout"` // секунды
}

// Load читает конфигурацию из TOML файла, заполняет значения по умолчанию и проверяет её
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrLoadConfig, path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default конфигурация по умолчанию
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
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "barbershop",
		},
		Booking: BookingConfig{
			TimeZone:                "America/Sao_Paulo",
			ClosedWeekdays:          []string{strings.ToLower(domain.DefaultClosedWeekday.String())},
			SlotStepMinutes:         domain.DefaultSlotStepMinutes,
			MinBookingNoticeMinutes: domain.DefaultMinBookingNoticeMinutes,
			AdvanceBookingDays:      domain.DefaultAdvanceBookingDays,
			PhoneRegion:             domain.DefaultPhoneRegion,
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			ReportTTL: 60,
		},
		Notifier: NotifierConfig{
			Timeout: 5,
		},
	}
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d", ErrInvalidConfig, c.Server.HTTPPort)
	}
	if _, err := c.Booking.Location(); err != nil {
		return err
	}
	if _, err := c.Booking.Weekdays(); err != nil {
		return err
	}
	if c.Booking.SlotStepMinutes <= 0 {
		return fmt.Errorf("%w: booking.slot_step_minutes must be positive", ErrInvalidConfig)
	}
	if c.Booking.MinBookingNoticeMinutes < 0 {
		return fmt.Errorf("%w: booking.min_booking_notice_minutes must not be negative", ErrInvalidConfig)
	}
	if c.Booking.AdvanceBookingDays < 0 || c.Booking.AdvanceBookingDays > domain.MaxAdvanceBookingDays {
		return fmt.Errorf("%w: booking.advance_booking_days must be in [0, %d]", ErrInvalidConfig, domain.MaxAdvanceBookingDays)
	}
	if c.Booking.PhoneRegion == "" {
		return fmt.Errorf("%w: booking.phone_region is required", ErrInvalidConfig)
	}
	if c.Redis.Enabled && c.Redis.Addr == "" {
		return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
	}
	if c.Notifier.Enabled && c.Notifier.URL == "" {
		return fmt.Errorf("%w: notifier.url is required when notifier is enabled", ErrInvalidConfig)
	}
	return nil
}

// ParseWeekday разбирает название дня недели на английском ("sunday" или "sun")
func ParseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for day := time.Sunday; day <= time.Saturday; day++ {
		full := strings.ToLower(day.String())
		if n == full || n == full[:3] {
			return day, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown weekday %q", ErrInvalidConfig, name)
}
