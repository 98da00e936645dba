package config

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

type Config struct {
	Port               string         `mapstructure:"PORT" validate:"required"`
	InternalAuthHeader string         `mapstructure:"INTERNAL_AUTH_HEADER" validate:"required"`
	Db                 DbConfig       `mapstructure:",squash"`
	Jwt                JwtConfig      `mapstructure:",squash"`
	Broker             BrokerConfig   `mapstructure:",squash"`
	Email              EmailConfig    `mapstructure:",squash"`
	Consumer           ConsumerConfig `mapstructure:",squash"`
}

type DbConfig struct {
	Host          string `mapstructure:"DB_HOST" validate:"required"`
	Port          string `mapstructure:"DB_PORT" validate:"required"`
	Username      string `mapstructure:"DB_USERNAME" validate:"required"`
	Password      string `mapstructure:"DB_PASSWORD" validate:"required"`
	DbName        string `mapstructure:"DB_DBNAME" validate:"required"`
	SSLMode       string `mapstructure:"DB_SSLMODE" validate:"required"`
	MigrationsDir string `mapstructure:"DB_MIGRATIONS_DIR"`
}

type JwtConfig struct {
	SecretKey string `mapstructure:"JWT_SECRETKEY" validate:"required"`
}

type BrokerConfig struct {
	// Driver selects the alert channel implementation: "redis" is the
	// best-effort pub/sub default, "jetstream" the durable variant,
	// "memory" an in-process bus for local runs.
	Driver         string        `mapstructure:"BROKER_DRIVER" validate:"required,oneof=redis jetstream memory"`
	AlertChannel   string        `mapstructure:"ALERT_CHANNEL" validate:"required"`
	RedisURL       string        `mapstructure:"REDIS_URL" validate:"required_if=Driver redis"`
	NatsURL        string        `mapstructure:"NATS_URL" validate:"required_if=Driver jetstream"`
	NatsStreamName string        `mapstructure:"NATS_STREAM_NAME" validate:"required_if=Driver jetstream"`
	PublishTimeout time.Duration `mapstructure:"BROKER_PUBLISH_TIMEOUT" validate:"required"`
}

type EmailConfig struct {
	Driver        string `mapstructure:"EMAIL_DRIVER" validate:"required,oneof=postmark dev"`
	AdminEmail    string `mapstructure:"ADMIN_EMAIL" validate:"required,email"`
	FromEmail     string `mapstructure:"EMAIL_FROM" validate:"required,email"`
	FromName      string `mapstructure:"EMAIL_FROM_NAME" validate:"required"`
	PostmarkToken string `mapstructure:"POSTMARK_SERVER_TOKEN" validate:"required_if=Driver postmark"`
	DevDir        string `mapstructure:"EMAIL_DEV_DIR" validate:"required_if=Driver dev"`
}

type ConsumerConfig struct {
	Workers       int           `mapstructure:"CONSUMER_WORKERS" validate:"required,gt=0"`
	HandleTimeout time.Duration `mapstructure:"CONSUMER_HANDLE_TIMEOUT" validate:"required"`
	ShutdownGrace time.Duration `mapstructure:"CONSUMER_SHUTDOWN_GRACE" validate:"required"`
}

func InitConfig(ctx context.Context) (*Config, error) {
	var cfg Config

	// Reset viper to avoid any previous configuration
	viper.Reset()

	// Make viper case insensitive for environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set the configuration type
	viper.SetConfigType("env")

	// Try to load from .env file if it exists
	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	_, err := os.Stat(envFile)
	if !os.IsNotExist(err) {
		viper.SetConfigFile(envFile)

		if err := viper.ReadInConfig(); err != nil {
			slog.WarnContext(ctx, "[InitConfig] ReadInConfig warning, continuing with env vars only", "error", err)
			// Continue with just environment variables instead of returning error
		} else {
			slog.InfoContext(ctx, "[InitConfig] Successfully loaded config file", "file", envFile)
		}
	} else {
		slog.InfoContext(ctx, "[InitConfig] No config file found, using environment variables")
	}

	// Load environment variables
	viper.AutomaticEnv()

	// Defaults mirror the settings the pipeline shipped with; anything
	// secret or deployment-specific stays required with no default.
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("BROKER_DRIVER", "redis")
	viper.SetDefault("ALERT_CHANNEL", "inventory:low-stock")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("BROKER_PUBLISH_TIMEOUT", "5s")
	viper.SetDefault("EMAIL_DRIVER", "dev")
	viper.SetDefault("EMAIL_DEV_DIR", "./outbox")
	viper.SetDefault("ADMIN_EMAIL", "admin@example.com")
	viper.SetDefault("EMAIL_FROM", "notifications@example.com")
	viper.SetDefault("EMAIL_FROM_NAME", "E-commerce Notifications")
	viper.SetDefault("CONSUMER_WORKERS", 8)
	viper.SetDefault("CONSUMER_HANDLE_TIMEOUT", "30s")
	viper.SetDefault("CONSUMER_SHUTDOWN_GRACE", "15s")

	envVars := []string{
		"PORT",
		"INTERNAL_AUTH_HEADER",
		"DB_HOST",
		"DB_PORT",
		"DB_USERNAME",
		"DB_PASSWORD",
		"DB_DBNAME",
		"DB_SSLMODE",
		"DB_MIGRATIONS_DIR",
		"JWT_SECRETKEY",
		"BROKER_DRIVER",
		"ALERT_CHANNEL",
		"REDIS_URL",
		"NATS_URL",
		"NATS_STREAM_NAME",
		"BROKER_PUBLISH_TIMEOUT",
		"EMAIL_DRIVER",
		"ADMIN_EMAIL",
		"EMAIL_FROM",
		"EMAIL_FROM_NAME",
		"POSTMARK_SERVER_TOKEN",
		"EMAIL_DEV_DIR",
		"CONSUMER_WORKERS",
		"CONSUMER_HANDLE_TIMEOUT",
		"CONSUMER_SHUTDOWN_GRACE",
	}

	// Bind environment variables explicitly to ensure they're mapped correctly
	for _, key := range envVars {
		viper.BindEnv(key)
	}

	// Unmarshal configuration
	if err := viper.Unmarshal(&cfg); err != nil {
		slog.ErrorContext(ctx, "[InitConfig] Unmarshal", "failed bind config", err)
		return nil, err
	}

	// Log the non-secret configuration after binding
	slog.InfoContext(ctx, "[InitConfig] Configuration after binding",
		"PORT", cfg.Port,
		"DB_HOST", cfg.Db.Host,
		"DB_PORT", cfg.Db.Port,
		"DB_USERNAME", cfg.Db.Username,
		"DB_DBNAME", cfg.Db.DbName,
		"DB_SSLMODE", cfg.Db.SSLMode,
		"BROKER_DRIVER", cfg.Broker.Driver,
		"ALERT_CHANNEL", cfg.Broker.AlertChannel,
		"EMAIL_DRIVER", cfg.Email.Driver,
		"ADMIN_EMAIL", cfg.Email.AdminEmail,
		"CONSUMER_WORKERS", cfg.Consumer.Workers)

	// Validate configuration
	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if ok {
			for _, validationErr := range validationErrs {
				slog.ErrorContext(ctx, "[InitConfig] Validation error",
					"field", validationErr.Field(),
					"namespace", validationErr.Namespace(),
					"tag", validationErr.Tag(),
					"value", validationErr.Value())
			}
		} else {
			slog.ErrorContext(ctx, "[InitConfig] Validation", "error", err)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "[InitConfig] Config loaded successfully")
	return &cfg, nil
}
