package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Env       string          `yaml:"env" validate:"oneof=dev test prod"`
	HTTP      HTTPConfig      `yaml:"http"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Storage   StorageConfig   `yaml:"storage"`
	Outbox    OutboxConfig    `yaml:"outbox"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Log       LogConfig       `yaml:"log"`
}

type HTTPConfig struct {
	Addr           string        `yaml:"addr" validate:"required"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	RateLimitRPS   int           `yaml:"rate_limit_rps" validate:"gte=0"`
	RateLimitBurst int           `yaml:"rate_limit_burst" validate:"gte=0"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes" validate:"gt=0"`
	ShutdownGrace  time.Duration `yaml:"shutdown_grace"`
}

type DatabaseConfig struct {
	Driver          string        `yaml:"driver" validate:"oneof=mysql postgres sqlite"`
	DSN             string        `yaml:"dsn" validate:"required"`
	MaxOpenConns    int           `yaml:"max_open_conns" validate:"gte=0"`
	MaxIdleConns    int           `yaml:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Enabled 未配置地址时会话落库
func (r RedisConfig) Enabled() bool { return r.Addr != "" }

type AuthConfig struct {
	IdentitySecret string        `yaml:"identity_secret" validate:"required"`
	SessionSecret  string        `yaml:"session_secret" validate:"required,min=16"`
	AccessTTL      time.Duration `yaml:"access_ttl" validate:"gt=0"`
	RefreshTTL     time.Duration `yaml:"refresh_ttl" validate:"gtfield=AccessTTL"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic" validate:"required_with=Brokers"`
}

func (k KafkaConfig) Enabled() bool { return len(k.Brokers) > 0 }

type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port" validate:"gte=0,lte=65535"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from" validate:"required_with=Host"`
}

func (s SMTPConfig) Enabled() bool { return s.Host != "" }

type StorageConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	UseSSL    bool   `yaml:"use_ssl"`
	PublicURL string `yaml:"public_url"`
}

func (s StorageConfig) Enabled() bool {
	return s.Endpoint != "" && s.AccessKey != "" && s.SecretKey != "" && s.Bucket != ""
}

type OutboxConfig struct {
	Interval  time.Duration `yaml:"interval" validate:"gt=0"`
	BatchSize int           `yaml:"batch_size" validate:"gt=0,lte=1000"`
}

type ReconcileConfig struct {
	// cron 表达式，空字符串表示不启用定时对账
	Schedule string `yaml:"schedule"`
}

type LogConfig struct {
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
	File  string `yaml:"file"`
}

func Default() *Config {
	return &Config{
		Env: "dev",
		HTTP: HTTPConfig{
			Addr:           ":8080",
			CORSOrigins:    []string{"http://localhost:5173"},
			RateLimitRPS:   20,
			RateLimitBurst: 40,
			MaxUploadBytes: 10 << 20,
			ShutdownGrace:  10 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:          "mysql",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Auth: AuthConfig{
			AccessTTL:  30 * time.Minute,
			RefreshTTL: 24 * time.Hour,
		},
		SMTP: SMTPConfig{Port: 587},
		Outbox: OutboxConfig{
			Interval:  time.Second,
			BatchSize: 200,
		},
		Reconcile: ReconcileConfig{Schedule: "@every 5m"},
		Log:       LogConfig{Level: "info"},
	}
}

// Load 默认值 -> yaml 文件 -> .env -> 环境变量，最后统一校验
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Env = getEnv("NEXUS_ENV", cfg.Env)

	cfg.HTTP.Addr = getEnv("NEXUS_HTTP_ADDR", cfg.HTTP.Addr)
	if origins := getEnv("NEXUS_CORS_ORIGINS", ""); origins != "" {
		cfg.HTTP.CORSOrigins = splitList(origins)
	}
	cfg.HTTP.RateLimitRPS = getEnvInt("NEXUS_RATE_LIMIT_RPS", cfg.HTTP.RateLimitRPS)
	cfg.HTTP.RateLimitBurst = getEnvInt("NEXUS_RATE_LIMIT_BURST", cfg.HTTP.RateLimitBurst)

	cfg.Database.Driver = getEnv("NEXUS_DB_DRIVER", cfg.Database.Driver)
	cfg.Database.DSN = getEnv("NEXUS_DB_DSN", cfg.Database.DSN)

	cfg.Redis.Addr = getEnv("NEXUS_REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("NEXUS_REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("NEXUS_REDIS_DB", cfg.Redis.DB)

	cfg.Auth.IdentitySecret = getEnv("NEXUS_IDENTITY_SECRET", cfg.Auth.IdentitySecret)
	cfg.Auth.SessionSecret = getEnv("NEXUS_SESSION_SECRET", cfg.Auth.SessionSecret)

	if brokers := getEnv("NEXUS_KAFKA_BROKERS", ""); brokers != "" {
		cfg.Kafka.Brokers = splitList(brokers)
	}
	cfg.Kafka.Topic = getEnv("NEXUS_KAFKA_TOPIC", cfg.Kafka.Topic)

	cfg.SMTP.Host = getEnv("NEXUS_SMTP_HOST", cfg.SMTP.Host)
	cfg.SMTP.Port = getEnvInt("NEXUS_SMTP_PORT", cfg.SMTP.Port)
	cfg.SMTP.Username = getEnv("NEXUS_SMTP_USERNAME", cfg.SMTP.Username)
	cfg.SMTP.Password = getEnv("NEXUS_SMTP_PASSWORD", cfg.SMTP.Password)
	cfg.SMTP.From = getEnv("NEXUS_SMTP_FROM", cfg.SMTP.From)

	cfg.Storage.Endpoint = getEnv("NEXUS_STORAGE_ENDPOINT", cfg.Storage.Endpoint)
	cfg.Storage.AccessKey = getEnv("NEXUS_STORAGE_ACCESS_KEY", cfg.Storage.AccessKey)
	cfg.Storage.SecretKey = getEnv("NEXUS_STORAGE_SECRET_KEY", cfg.Storage.SecretKey)
	cfg.Storage.Bucket = getEnv("NEXUS_STORAGE_BUCKET", cfg.Storage.Bucket)
	cfg.Storage.Region = getEnv("NEXUS_STORAGE_REGION", cfg.Storage.Region)
	cfg.Storage.UseSSL = getEnvBool("NEXUS_STORAGE_USE_SSL", cfg.Storage.UseSSL)
	cfg.Storage.PublicURL = getEnv("NEXUS_STORAGE_PUBLIC_URL", cfg.Storage.PublicURL)

	cfg.Reconcile.Schedule = getEnv("NEXUS_RECONCILE_SCHEDULE", cfg.Reconcile.Schedule)
	cfg.Log.Level = getEnv("NEXUS_LOG_LEVEL", cfg.Log.Level)
	cfg.Log.File = getEnv("NEXUS_LOG_FILE", cfg.Log.File)
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

// getEnvBool 接受 strconv.ParseBool 认识的写法，解析失败用默认值
func getEnvBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
