package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	JWT     JWTConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Extract ExtractConfig
	Matcher MatcherConfig
	Learner LearnerConfig
	Notify  NotifyConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ExtractConfig holds field-extraction settings.
type ExtractConfig struct {
	// Wall-clock bound for a single document's extraction. On timeout the
	// pipeline records a low-confidence failed result instead of blocking
	// the batch.
	TimeoutSecs int `mapstructure:"timeout_secs"`
	Concurrency int `mapstructure:"concurrency"`
}

// Timeout returns the per-document extraction deadline.
func (e *ExtractConfig) Timeout() time.Duration {
	return time.Duration(e.TimeoutSecs) * time.Second
}

// MatcherConfig holds partner-matching thresholds.
type MatcherConfig struct {
	// Minimum fuzzy score (0-100) for an automatic match.
	FuzzyThreshold float64 `mapstructure:"fuzzy_threshold"`
	// Two candidates whose scores differ by less than this gap are treated
	// as ambiguous and routed to manual resolution.
	AmbiguityGap float64 `mapstructure:"ambiguity_gap"`
}

// LearnerConfig holds rule-learning thresholds and worker settings.
type LearnerConfig struct {
	// Number of agreeing corrections required before a rule is created.
	MinAgreement int `mapstructure:"min_agreement"`
	// New evidence must exceed an existing rule's confidence by this margin
	// before the rule's value is replaced.
	ReplaceMargin float64 `mapstructure:"replace_margin"`
	// Multiplier applied to a rule's confidence per conflicting batch.
	ConflictDecay    float64 `mapstructure:"conflict_decay"`
	PollIntervalSecs int     `mapstructure:"poll_interval_secs"`
	Concurrency      int     `mapstructure:"concurrency"`
}

// NotifyConfig holds review-notification settings.
type NotifyConfig struct {
	Provider        string `mapstructure:"provider"`
	Region          string `mapstructure:"region"`
	FromAddress     string `mapstructure:"from_address"`
	FromName        string `mapstructure:"from_name"`
	ReviewerAddress string `mapstructure:"reviewer_address"`
}

// Load reads configuration from environment variables with the DECLARA_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DECLARA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "declara")
	v.SetDefault("db.password", "declara_secret")
	v.SetDefault("db.name", "declara_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "declara")

	// S3 defaults
	v.SetDefault("s3.region", "ap-southeast-1")
	v.SetDefault("s3.bucket", "declara-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Extraction defaults
	v.SetDefault("extract.timeout_secs", 30)
	v.SetDefault("extract.concurrency", 4)

	// Matcher defaults
	v.SetDefault("matcher.fuzzy_threshold", 82.0)
	v.SetDefault("matcher.ambiguity_gap", 5.0)

	// Learner defaults
	v.SetDefault("learner.min_agreement", 3)
	v.SetDefault("learner.replace_margin", 0.15)
	v.SetDefault("learner.conflict_decay", 0.8)
	v.SetDefault("learner.poll_interval_secs", 300)
	v.SetDefault("learner.concurrency", 2)

	// Notify defaults
	v.SetDefault("notify.provider", "noop")
	v.SetDefault("notify.region", "ap-southeast-1")
	v.SetDefault("notify.from_address", "noreply@declara.local")
	v.SetDefault("notify.from_name", "Declara")
	v.SetDefault("notify.reviewer_address", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "DECLARA_SERVER_PORT",
		"server.read_timeout":        "DECLARA_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "DECLARA_SERVER_WRITE_TIMEOUT",
		"server.environment":         "DECLARA_SERVER_ENVIRONMENT",
		"db.host":                    "DECLARA_DB_HOST",
		"db.port":                    "DECLARA_DB_PORT",
		"db.user":                    "DECLARA_DB_USER",
		"db.password":                "DECLARA_DB_PASSWORD",
		"db.name":                    "DECLARA_DB_NAME",
		"db.sslmode":                 "DECLARA_DB_SSLMODE",
		"db.max_open":                "DECLARA_DB_MAX_OPEN",
		"db.max_idle":                "DECLARA_DB_MAX_IDLE",
		"jwt.secret":                 "DECLARA_JWT_SECRET",
		"jwt.access_expiry":          "DECLARA_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":         "DECLARA_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                 "DECLARA_JWT_ISSUER",
		"s3.region":                  "DECLARA_S3_REGION",
		"s3.bucket":                  "DECLARA_S3_BUCKET",
		"s3.endpoint":                "DECLARA_S3_ENDPOINT",
		"s3.access_key":              "DECLARA_S3_ACCESS_KEY",
		"s3.secret_key":              "DECLARA_S3_SECRET_KEY",
		"s3.max_file_size_mb":        "DECLARA_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":          "DECLARA_S3_PRESIGN_EXPIRY",
		"log.level":                  "DECLARA_LOG_LEVEL",
		"log.format":                 "DECLARA_LOG_FORMAT",
		"cors.allowed_origins":       "DECLARA_CORS_ALLOWED_ORIGINS",
		"extract.timeout_secs":       "DECLARA_EXTRACT_TIMEOUT_SECS",
		"extract.concurrency":        "DECLARA_EXTRACT_CONCURRENCY",
		"matcher.fuzzy_threshold":    "DECLARA_MATCHER_FUZZY_THRESHOLD",
		"matcher.ambiguity_gap":      "DECLARA_MATCHER_AMBIGUITY_GAP",
		"learner.min_agreement":      "DECLARA_LEARNER_MIN_AGREEMENT",
		"learner.replace_margin":     "DECLARA_LEARNER_REPLACE_MARGIN",
		"learner.conflict_decay":     "DECLARA_LEARNER_CONFLICT_DECAY",
		"learner.poll_interval_secs": "DECLARA_LEARNER_POLL_INTERVAL_SECS",
		"learner.concurrency":        "DECLARA_LEARNER_CONCURRENCY",
		"notify.provider":            "DECLARA_NOTIFY_PROVIDER",
		"notify.region":              "DECLARA_NOTIFY_REGION",
		"notify.from_address":        "DECLARA_NOTIFY_FROM_ADDRESS",
		"notify.from_name":           "DECLARA_NOTIFY_FROM_NAME",
		"notify.reviewer_address":    "DECLARA_NOTIFY_REVIEWER_ADDRESS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if DECLARA_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DECLARA_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Extract = ExtractConfig{
		TimeoutSecs: v.GetInt("extract.timeout_secs"),
		Concurrency: v.GetInt("extract.concurrency"),
	}
	cfg.Matcher = MatcherConfig{
		FuzzyThreshold: v.GetFloat64("matcher.fuzzy_threshold"),
		AmbiguityGap:   v.GetFloat64("matcher.ambiguity_gap"),
	}
	cfg.Learner = LearnerConfig{
		MinAgreement:     v.GetInt("learner.min_agreement"),
		ReplaceMargin:    v.GetFloat64("learner.replace_margin"),
		ConflictDecay:    v.GetFloat64("learner.conflict_decay"),
		PollIntervalSecs: v.GetInt("learner.poll_interval_secs"),
		Concurrency:      v.GetInt("learner.concurrency"),
	}
	cfg.Notify = NotifyConfig{
		Provider:        v.GetString("notify.provider"),
		Region:          v.GetString("notify.region"),
		FromAddress:     v.GetString("notify.from_address"),
		FromName:        v.GetString("notify.from_name"),
		ReviewerAddress: v.GetString("notify.reviewer_address"),
	}

	return cfg, nil
}
