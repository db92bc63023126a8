package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig
	DB          DBConfig
	JWT         JWTConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	SMTP        SMTPConfig
	AI          AIConfig
	Calendar    CalendarConfig
	Scheduler   SchedulerConfig
	FrontendURL string
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins string
}

type DBConfig struct {
	URL             string
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

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type RedisConfig struct {
	Enabled  bool
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled     bool
	Brokers     []string
	EmailTopic  string
	EventsTopic string
	GroupID     string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type AIConfig struct {
	Key            string
	BaseURL        string
	Model          string
	ChatModel      string
	FallbackModels []string
	Referer        string
	Title          string
}

type CalendarConfig struct {
	APIKey  string
	BaseURL string
	Country string
}

type SchedulerConfig struct {
	Enabled       bool
	RefillSpec    string
	AlertSpec     string
	AlertTimezone string
}

// IsProduction reports whether the server runs with production settings.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Env, "production")
}

// DSN builds the Postgres DSN, preferring DATABASE_URL when it is set.
func (c DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode, c.TimeZone,
	)
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			Env:            v.GetString("APP_ENV"),
			AllowedOrigins: v.GetString("ALLOWED_ORIGINS"),
		},
		DB: DBConfig{
			URL:             v.GetString("DATABASE_URL"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			TimeZone:        v.GetString("DB_TIMEZONE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    v.GetDuration("JWT_TTL"),
		},
		Redis: RedisConfig{
			Enabled:  v.GetBool("REDIS_ENABLED"),
			Addr:     v.GetString("REDIS_ADDR"),
			Password: v.GetString("REDIS_PASSWORD"),
			DB:       v.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Enabled:     v.GetBool("KAFKA_ENABLED"),
			Brokers:     splitList(v.GetString("KAFKA_BROKERS")),
			EmailTopic:  v.GetString("KAFKA_EMAIL_TOPIC"),
			EventsTopic: v.GetString("KAFKA_EVENTS_TOPIC"),
			GroupID:     v.GetString("KAFKA_GROUP_ID"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASS"),
			From:     v.GetString("SMTP_FROM"),
		},
		AI: AIConfig{
			Key:            v.GetString("AI_KEY"),
			BaseURL:        v.GetString("AI_BASE_URL"),
			Model:          v.GetString("AI_MODEL"),
			ChatModel:      v.GetString("AI_CHAT_MODEL"),
			FallbackModels: splitList(v.GetString("AI_FALLBACK_MODELS")),
			Referer:        v.GetString("AI_REFERER"),
			Title:          v.GetString("AI_TITLE"),
		},
		Calendar: CalendarConfig{
			APIKey:  v.GetString("CALENDARIFIC_API_KEY"),
			BaseURL: v.GetString("CALENDARIFIC_BASE_URL"),
			Country: v.GetString("CALENDARIFIC_COUNTRY"),
		},
		Scheduler: SchedulerConfig{
			Enabled:       v.GetBool("SCHEDULER_ENABLED"),
			RefillSpec:    v.GetString("REFILL_CRON"),
			AlertSpec:     v.GetString("ALERT_CRON"),
			AlertTimezone: v.GetString("ALERT_TIMEZONE"),
		},
		FrontendURL: v.GetString("FRONTEND_URL"),
	}

	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("ALLOWED_ORIGINS", "*")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_NAME", "ai_mart")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_TIMEZONE", "Asia/Kolkata")
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", time.Hour)

	v.SetDefault("JWT_TTL", 12*time.Hour)

	v.SetDefault("REDIS_ENABLED", false)
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("KAFKA_ENABLED", false)
	v.SetDefault("KAFKA_BROKERS", "localhost:9092")
	v.SetDefault("KAFKA_EMAIL_TOPIC", "notifications.email")
	v.SetDefault("KAFKA_EVENTS_TOPIC", "inventory.events")
	v.SetDefault("KAFKA_GROUP_ID", "ai-mart-notifier")

	v.SetDefault("SMTP_PORT", 587)

	v.SetDefault("AI_BASE_URL", "https://openrouter.ai/api/v1")
	v.SetDefault("AI_MODEL", "google/gemini-flash-1.5-exp:free")
	v.SetDefault("AI_CHAT_MODEL", "deepseek/deepseek-r1-0528-qwen3-8b:free")
	v.SetDefault("AI_FALLBACK_MODELS", "meta-llama/llama-3.2-1b-instruct:free,mistralai/mistral-7b-instruct:free,openchat/openchat-3.5:free")
	v.SetDefault("AI_REFERER", "http://localhost:3000")
	v.SetDefault("AI_TITLE", "AI Mart Inventory")

	v.SetDefault("CALENDARIFIC_BASE_URL", "https://calendarific.com/api/v2")
	v.SetDefault("CALENDARIFIC_COUNTRY", "IN")

	v.SetDefault("SCHEDULER_ENABLED", true)
	v.SetDefault("REFILL_CRON", "5 * * * *")
	v.SetDefault("ALERT_CRON", "0 21 * * *")
	v.SetDefault("ALERT_TIMEZONE", "Asia/Kolkata")

	v.SetDefault("FRONTEND_URL", "http://localhost:5173")
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.DB.URL == "" && (c.DB.Host == "" || c.DB.Name == "") {
		return errors.New("config: DATABASE_URL or DB_HOST/DB_NAME must be set")
	}
	if c.JWT.Secret == "" {
		if c.IsProduction() {
			return errors.New("config: JWT_SECRET is required in production")
		}
		c.JWT.Secret = "dev-secret-change-me"
	}
	if c.JWT.TTL <= 0 {
		return fmt.Errorf("config: JWT_TTL must be positive, got %s", c.JWT.TTL)
	}
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return errors.New("config: KAFKA_BROKERS is required when KAFKA_ENABLED=true")
	}
	if _, err := time.LoadLocation(c.Scheduler.AlertTimezone); err != nil {
		return fmt.Errorf("config: ALERT_TIMEZONE: %w", err)
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
