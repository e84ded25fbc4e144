package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // Asia/Manila on hosts without a zoneinfo database

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config application-wide configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Mail      MailConfig      `mapstructure:"mail"`
	Log       LogConfig       `mapstructure:"log"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Renewal   RenewalConfig   `mapstructure:"renewal"`
	Queue     QueueConfig     `mapstructure:"queue"`
}

// ServerConfig HTTP server settings
type ServerConfig struct {
	Port        int        `mapstructure:"port"`
	BaseURL     string     `mapstructure:"base_url"`
	CORS        CORSConfig `mapstructure:"cors"`
	UploadDir   string     `mapstructure:"upload_dir"`
	MaxUploadMB int        `mapstructure:"max_upload_mb"`
}

// CORSConfig cross-origin settings
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// DatabaseConfig PostgreSQL settings
type DatabaseConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN builds the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig Redis settings
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AuthConfig JWT settings
type AuthConfig struct {
	JWTSecret               string        `mapstructure:"jwt_secret"`
	AccessTokenTTL          time.Duration `mapstructure:"access_token_ttl"`
	RefreshTokenTTLDefault  time.Duration `mapstructure:"refresh_token_ttl_default"`
	RefreshTokenTTLRemember time.Duration `mapstructure:"refresh_token_ttl_remember_me"`
}

// MailConfig SMTP settings
type MailConfig struct {
	SMTPHost string `mapstructure:"smtp_host"`
	SMTPPort int    `mapstructure:"smtp_port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	FromName string `mapstructure:"from_name"`
	TLS      bool   `mapstructure:"tls"`
}

// LogConfig logging settings
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// SchedulerConfig daily reminder schedule
type SchedulerConfig struct {
	Timezone            string `mapstructure:"timezone"`
	InterviewReminderAt string `mapstructure:"interview_reminder_cron"`
	RenewalReminderAt   string `mapstructure:"renewal_reminder_cron"`
}

// Location resolves the configured timezone. Validate guarantees it loads.
func (c *SchedulerConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// RenewalConfig renewal period deadlines and reminder window
type RenewalConfig struct {
	ReminderWindowDays     int    `mapstructure:"reminder_window_days"`
	FirstSemesterDeadline  string `mapstructure:"first_semester_deadline"`  // MM-DD
	SecondSemesterDeadline string `mapstructure:"second_semester_deadline"` // MM-DD
}

// QueueConfig background mail queue
type QueueConfig struct {
	PollInterval time.Duration   `mapstructure:"poll_interval"`
	MaxAttempts  int             `mapstructure:"max_attempts"`
	Backoff      []time.Duration `mapstructure:"backoff"`
}

// Load reads configuration from file and environment.
// Precedence: environment > config file > defaults
func Load(path string) (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("server.upload_dir", "./storage/documents")
	v.SetDefault("server.max_upload_mb", 5)

	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "osas_connect")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "Asia/Manila")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("auth.access_token_ttl", "15m")
	v.SetDefault("auth.refresh_token_ttl_default", "24h")
	v.SetDefault("auth.refresh_token_ttl_remember_me", "168h")

	v.SetDefault("mail.smtp_host", "localhost")
	v.SetDefault("mail.smtp_port", 1025)
	v.SetDefault("mail.from", "osas@localhost")
	v.SetDefault("mail.from_name", "OSAS Connect")
	v.SetDefault("mail.tls", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("scheduler.timezone", "Asia/Manila")
	v.SetDefault("scheduler.interview_reminder_cron", "0 9 * * *")
	v.SetDefault("scheduler.renewal_reminder_cron", "0 8 * * *")

	v.SetDefault("renewal.reminder_window_days", 14)
	v.SetDefault("renewal.first_semester_deadline", "09-15")
	v.SetDefault("renewal.second_semester_deadline", "02-15")

	v.SetDefault("queue.poll_interval", "5s")
	v.SetDefault("queue.max_attempts", 3)
	v.SetDefault("queue.backoff", []string{"60s", "120s", "300s"})

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("OSAS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the application cannot run without
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("invalid config: auth.jwt_secret must not be empty")
	}
	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("invalid config: auth.jwt_secret must be at least 16 characters")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be within 1-65535")
	}
	if _, err := time.LoadLocation(c.Scheduler.Timezone); err != nil {
		return fmt.Errorf("invalid config: scheduler.timezone %q: %w", c.Scheduler.Timezone, err)
	}
	for key, md := range map[string]string{
		"renewal.first_semester_deadline":  c.Renewal.FirstSemesterDeadline,
		"renewal.second_semester_deadline": c.Renewal.SecondSemesterDeadline,
	} {
		if _, err := time.Parse("01-02", md); err != nil {
			return fmt.Errorf("invalid config: %s must be MM-DD, got %q", key, md)
		}
	}
	if c.Queue.MaxAttempts < 1 {
		return fmt.Errorf("invalid config: queue.max_attempts must be at least 1")
	}
	if len(c.Queue.Backoff) < c.Queue.MaxAttempts-1 {
		return fmt.Errorf("invalid config: queue.backoff needs %d entries for %d attempts",
			c.Queue.MaxAttempts-1, c.Queue.MaxAttempts)
	}
	return nil
}
