package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Classifier   ClassifierConfig
	Mail         MailConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values. An empty DSN selects the
// in-memory case store.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines operator authentication parameters. Auth is disabled by
// default so the service runs open in development.
type AuthConfig struct {
	Enabled               bool
	JWTSecret             string
	AccessTokenTTLMinutes int
	OperatorUsername      string
	OperatorPasswordHash  string
}

// ClassifierConfig tunes the lexicon classifier without touching code.
type ClassifierConfig struct {
	LexiconPath       string
	TriggerOnNegative bool
	TriggerOnUrgent   bool
}

// MailConfig configures the polled mailbox collaborator. Credentials arrive
// only through the environment, never as literals.
type MailConfig struct {
	PollEnabled         bool
	PollIntervalSeconds int
	TickTimeoutSeconds  int
	GraphBaseURL        string
	TenantID            string
	ClientID            string
	ClientSecret        string
	Mailboxes           []string
	PageSize            int
}

// NotificationConfig holds stub notification endpoints.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "escalation-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			Enabled:               getEnvAsBool("AUTH_ENABLED", false),
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			OperatorUsername:      getEnv("AUTH_OPERATOR_USERNAME", "operator"),
			OperatorPasswordHash:  os.Getenv("AUTH_OPERATOR_PASSWORD_HASH"),
		},
		Classifier: ClassifierConfig{
			LexiconPath:       os.Getenv("LEXICON_PATH"),
			TriggerOnNegative: getEnvAsBool("TRIGGER_ON_NEGATIVE_SENTIMENT", true),
			TriggerOnUrgent:   getEnvAsBool("TRIGGER_ON_HIGH_URGENCY", true),
		},
		Mail: MailConfig{
			PollEnabled:         getEnvAsBool("MAIL_POLL_ENABLED", false),
			PollIntervalSeconds: getEnvAsInt("MAIL_POLL_INTERVAL_SECONDS", 3600),
			TickTimeoutSeconds:  getEnvAsInt("MAIL_POLL_TICK_TIMEOUT_SECONDS", 60),
			GraphBaseURL:        getEnv("GRAPH_BASE_URL", "https://graph.microsoft.com/v1.0"),
			TenantID:            os.Getenv("GRAPH_TENANT_ID"),
			ClientID:            os.Getenv("GRAPH_CLIENT_ID"),
			ClientSecret:        os.Getenv("GRAPH_CLIENT_SECRET"),
			Mailboxes:           splitList(os.Getenv("GRAPH_MAILBOXES")),
			PageSize:            getEnvAsInt("GRAPH_PAGE_SIZE", 10),
		},
		Notification: NotificationConfig{
			EmailFrom:  getEnv("NOTIFY_EMAIL_FROM", ""),
			WebhookURL: getEnv("NOTIFY_WEBHOOK_URL", ""),
		},
	}

	if cfg.Mail.PollEnabled {
		if cfg.Mail.TenantID == "" || cfg.Mail.ClientID == "" || cfg.Mail.ClientSecret == "" {
			return nil, fmt.Errorf("mail polling enabled but GRAPH_TENANT_ID, GRAPH_CLIENT_ID or GRAPH_CLIENT_SECRET missing")
		}
		if len(cfg.Mail.Mailboxes) == 0 {
			return nil, fmt.Errorf("mail polling enabled but GRAPH_MAILBOXES is empty")
		}
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// PollInterval returns the mailbox poll interval.
func (m MailConfig) PollInterval() time.Duration {
	if m.PollIntervalSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(m.PollIntervalSeconds) * time.Second
}

// TickTimeout bounds a single poll tick against the mail collaborator.
func (m MailConfig) TickTimeout() time.Duration {
	if m.TickTimeoutSeconds <= 0 {
		return time.Minute
	}
	return time.Duration(m.TickTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(val string) []string {
	if strings.TrimSpace(val) == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
