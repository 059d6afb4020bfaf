package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
	BackendMemory   = "memory"
)

type Config struct {
	Port          string        `mapstructure:"PORT"`
	Env           string        `mapstructure:"ENV"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	StoreBackend  string        `mapstructure:"STORE_BACKEND"`
	DatabaseURL   string        `mapstructure:"DATABASE_URL"`
	DBMaxConns    int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns    int32         `mapstructure:"DB_MIN_CONNS"`
	DefaultTenant string        `mapstructure:"DEFAULT_TENANT"`
	MongoURI      string        `mapstructure:"MONGO_URI"`
	MongoDatabase string        `mapstructure:"MONGO_DATABASE"`
	RedisURL      string        `mapstructure:"REDIS_URL"`
	CacheTTL      time.Duration `mapstructure:"CACHE_TTL"`

	AuthIssuer     string `mapstructure:"AUTH_ISSUER"`
	AuthAudience   string `mapstructure:"AUTH_AUDIENCE"`
	AuthJWKSURL    string `mapstructure:"AUTH_JWKS_URL"`
	AuthSigningKey string `mapstructure:"AUTH_SIGNING_KEY"`

	CORSOrigins    []string      `mapstructure:"CORS_ORIGINS"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	ClinicTimezone string        `mapstructure:"CLINIC_TIMEZONE"`

	KnowledgeBaseFile     string  `mapstructure:"KNOWLEDGE_BASE_FILE"`
	SymptomMinConfidence  float64 `mapstructure:"SYMPTOM_MIN_CONFIDENCE"`
	SymptomMaxPredictions int     `mapstructure:"SYMPTOM_MAX_PREDICTIONS"`

	NoShowHistoryWeight   float64 `mapstructure:"NOSHOW_HISTORY_WEIGHT"`
	OutbreakWindowDays    int     `mapstructure:"OUTBREAK_WINDOW_DAYS"`
	OutbreakAlertPercent  float64 `mapstructure:"OUTBREAK_ALERT_PERCENT"`
	OutbreakMinConfidence float64 `mapstructure:"OUTBREAK_MIN_CONFIDENCE"`
	ForecastPeriodDays    int     `mapstructure:"FORECAST_PERIOD_DAYS"`
	RetentionActiveDays   int     `mapstructure:"RETENTION_ACTIVE_DAYS"`
	RetentionLostDays     int     `mapstructure:"RETENTION_LOST_DAYS"`

	// SandboxPatients > 0 fills the memory store with synthetic data.
	SandboxPatients int   `mapstructure:"SANDBOX_PATIENTS"`
	SandboxSeed     int64 `mapstructure:"SANDBOX_SEED"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL", "STORE_BACKEND",
	"DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS", "DEFAULT_TENANT",
	"MONGO_URI", "MONGO_DATABASE", "REDIS_URL", "CACHE_TTL",
	"AUTH_ISSUER", "AUTH_AUDIENCE", "AUTH_JWKS_URL", "AUTH_SIGNING_KEY",
	"CORS_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "REQUEST_TIMEOUT", "CLINIC_TIMEZONE",
	"KNOWLEDGE_BASE_FILE", "SYMPTOM_MIN_CONFIDENCE", "SYMPTOM_MAX_PREDICTIONS",
	"NOSHOW_HISTORY_WEIGHT", "OUTBREAK_WINDOW_DAYS", "OUTBREAK_ALERT_PERCENT", "OUTBREAK_MIN_CONFIDENCE",
	"FORECAST_PERIOD_DAYS", "RETENTION_ACTIVE_DAYS", "RETENTION_LOST_DAYS",
	"SANDBOX_PATIENTS", "SANDBOX_SEED",
}

// Load reads configuration from the environment. The process environment is
// expected to already contain anything from a .env file.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("STORE_BACKEND", BackendPostgres)
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("DEFAULT_TENANT", "default")
	v.SetDefault("MONGO_DATABASE", "medinsight")
	v.SetDefault("CACHE_TTL", "5m")
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("CLINIC_TIMEZONE", "UTC")
	v.SetDefault("SYMPTOM_MIN_CONFIDENCE", 20)
	v.SetDefault("SYMPTOM_MAX_PREDICTIONS", 5)
	v.SetDefault("NOSHOW_HISTORY_WEIGHT", 0.40)
	v.SetDefault("OUTBREAK_WINDOW_DAYS", 7)
	v.SetDefault("OUTBREAK_ALERT_PERCENT", 20)
	v.SetDefault("OUTBREAK_MIN_CONFIDENCE", 0.5)
	v.SetDefault("FORECAST_PERIOD_DAYS", 30)
	v.SetDefault("RETENTION_ACTIVE_DAYS", 90)
	v.SetDefault("RETENTION_LOST_DAYS", 180)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitList(strings.Join(cfg.CORSOrigins, ","))
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))

	switch cfg.StoreBackend {
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is %q", BackendPostgres)
		}
	case BackendMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("MONGO_URI is required when STORE_BACKEND is %q", BackendMongo)
		}
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Location resolves CLINIC_TIMEZONE. An empty zone is UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.ClinicTimezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.ClinicTimezone)
	if err != nil {
		return nil, fmt.Errorf("CLINIC_TIMEZONE %q: %w", c.ClinicTimezone, err)
	}
	return loc, nil
}

// Level parses LOG_LEVEL, falling back to info when it is empty.
func (c *Config) Level() (zerolog.Level, error) {
	if c.LogLevel == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("LOG_LEVEL %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

// Validate checks that the configuration is safe to run. Outside development
// a token verification source must be configured, since DevAuth is only
// installed when ENV=development.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendPostgres, BackendMongo, BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q, %q or %q, got %q",
			BackendPostgres, BackendMongo, BackendMemory, c.StoreBackend)
	}
	if c.Env != "development" && c.Env != "production" {
		return fmt.Errorf("ENV must be \"development\" or \"production\", got %q", c.Env)
	}
	if !c.IsDev() && c.AuthSigningKey == "" && c.AuthJWKSURL == "" {
		return fmt.Errorf("AUTH_SIGNING_KEY or AUTH_JWKS_URL must be set when ENV=%q", c.Env)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("CACHE_TTL must not be negative, got %s", c.CacheTTL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.RateLimitRPS < 0 || c.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must not be negative")
	}
	if c.SymptomMinConfidence < 0 || c.SymptomMinConfidence >= 100 {
		return fmt.Errorf("SYMPTOM_MIN_CONFIDENCE must be in [0, 100), got %g", c.SymptomMinConfidence)
	}
	if c.OutbreakMinConfidence < 0 || c.OutbreakMinConfidence >= 1 {
		return fmt.Errorf("OUTBREAK_MIN_CONFIDENCE must be in [0, 1), got %g", c.OutbreakMinConfidence)
	}
	if c.SandboxPatients > 0 && c.StoreBackend != BackendMemory {
		return fmt.Errorf("SANDBOX_PATIENTS requires STORE_BACKEND=%q", BackendMemory)
	}
	if c.RetentionLostDays > 0 && c.RetentionActiveDays > c.RetentionLostDays {
		return fmt.Errorf("RETENTION_ACTIVE_DAYS (%d) exceeds RETENTION_LOST_DAYS (%d)",
			c.RetentionActiveDays, c.RetentionLostDays)
	}
	return nil
}
