// File: internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type RuntimeConfig struct {
	Dev bool
}

type ServerConfig struct {
	Port      int    `yaml:"port"`
	AdminPort int    `yaml:"admin_port"`
	BaseURL   string `yaml:"base_url"` // public origin used to build return/cancel URLs
}

type LogConfig struct {
	Level    string `yaml:"level"`    // trace|debug|info|warn|error
	Format   string `yaml:"format"`   // json|console
	Sampling bool   `yaml:"sampling"` // enable sampling in prod
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type RedisConfig struct {
	URL      string        `yaml:"url"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
}

type AuthConfig struct {
	UserSecret  string        `yaml:"user_secret"`  // HS256 secret for the checkout API
	AdminSecret string        `yaml:"admin_secret"` // HS256 secret for the admin API
	SessionTTL  time.Duration `yaml:"session_ttl"`
}

type StripeConfig struct {
	SecretKey      string `yaml:"secret_key"`
	PublishableKey string `yaml:"publishable_key"`
	TestMode       bool   `yaml:"test_mode"`
}

type PayPalConfig struct {
	ClientID string `yaml:"client_id"`
	Secret   string `yaml:"secret"`
	Sandbox  bool   `yaml:"sandbox"`
}

type PaystackConfig struct {
	SecretKey string `yaml:"secret_key"`
	PublicKey string `yaml:"public_key"` // exposed to the embedded widget
}

type DodoPayConfig struct {
	APIKey   string `yaml:"api_key"`
	TestMode bool   `yaml:"test_mode"`
}

type VodaPayConfig struct {
	MerchantID string `yaml:"merchant_id"`
	APIKey     string `yaml:"api_key"`
	Sandbox    bool   `yaml:"sandbox"`
}

type PaymentConfig struct {
	Stripe   StripeConfig   `yaml:"stripe"`
	PayPal   PayPalConfig   `yaml:"paypal"`
	Paystack PaystackConfig `yaml:"paystack"`
	DodoPay  DodoPayConfig  `yaml:"dodopay"`
	VodaPay  VodaPayConfig  `yaml:"vodapay"`
}

type AIConfig struct {
	OpenAIKey       string `yaml:"openai_key"`
	GeminiKey       string `yaml:"gemini_key"`
	GeminiURL       string `yaml:"gemini_url"`
	DefaultModel    string `yaml:"default_model"`
	MaxOutputTokens int    `yaml:"max_output_tokens"`
	PromptBudget    int    `yaml:"prompt_budget"` // max prompt tokens per generation call
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

type AlertsConfig struct {
	TelegramToken  string  `yaml:"telegram_token"`
	TelegramChatID int64   `yaml:"telegram_chat_id"`
	AdminIDs       []int64 `yaml:"admin_ids"`
}

type SchedulerConfig struct {
	ReconcileInterval time.Duration `yaml:"reconcile_interval"`
	StaleAfter        time.Duration `yaml:"stale_after"`
	ExpiryInterval    time.Duration `yaml:"expiry_interval"`
	ReminderInterval  time.Duration `yaml:"reminder_interval"`
	ReminderLeadDays  int           `yaml:"reminder_lead_days"`
	Workers           int           `yaml:"workers"`
}

type SecurityConfig struct {
	EncryptionKey string `yaml:"encryption_key"`
}

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Payment   PaymentConfig   `yaml:"payment"`
	AI        AIConfig        `yaml:"ai"`
	Mail      MailConfig      `yaml:"mail"`
	Alerts    AlertsConfig    `yaml:"alerts"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Security  SecurityConfig  `yaml:"security"`

	Runtime RuntimeConfig `yaml:"-"`
}

func LoadConfig(path string, dev bool) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// defaults
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.AdminPort <= 0 {
		cfg.Server.AdminPort = 8081
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	cfg.Redis.TTL = normalizeTTL(cfg.Redis.TTL)
	if cfg.Auth.SessionTTL <= 0 {
		cfg.Auth.SessionTTL = 30 * time.Minute
	}
	if cfg.AI.DefaultModel == "" {
		cfg.AI.DefaultModel = "gpt-4o-mini"
	}
	if cfg.AI.MaxOutputTokens <= 0 {
		cfg.AI.MaxOutputTokens = 4096
	}
	if cfg.AI.PromptBudget <= 0 {
		cfg.AI.PromptBudget = 8192
	}
	if cfg.Mail.Port <= 0 {
		cfg.Mail.Port = 587
	}
	if cfg.Scheduler.ReconcileInterval <= 0 {
		cfg.Scheduler.ReconcileInterval = time.Minute
	}
	if cfg.Scheduler.StaleAfter <= 0 {
		cfg.Scheduler.StaleAfter = 10 * time.Minute
	}
	if cfg.Scheduler.ExpiryInterval <= 0 {
		cfg.Scheduler.ExpiryInterval = time.Hour
	}
	if cfg.Scheduler.ReminderInterval <= 0 {
		cfg.Scheduler.ReminderInterval = 6 * time.Hour
	}
	if cfg.Scheduler.ReminderLeadDays <= 0 {
		cfg.Scheduler.ReminderLeadDays = 3
	}
	if cfg.Scheduler.Workers <= 0 {
		cfg.Scheduler.Workers = 8
	}

	// Minimal validation
	if cfg.Database.URL == "" {
		return nil, errors.New("database.url is required")
	}
	if cfg.Redis.URL == "" {
		return nil, errors.New("redis.url is required")
	}
	if cfg.Auth.UserSecret == "" {
		return nil, errors.New("auth.user_secret is required")
	}

	cfg.Runtime.Dev = dev
	return &cfg, nil
}

func normalizeTTL(d time.Duration) time.Duration {
	if d <= 0 {
		return time.Hour
	}
	return d
}
