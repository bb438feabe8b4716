package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	CORS         CORSConfig
	Log          LogConfig
	Clearance    ClearanceConfig
	Certificates CertificatesConfig
	Officials    OfficialsConfig
	Dashboard    DashboardConfig
	Seed         SeedConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ClearanceConfig tunes the eligibility decision workflow.
type ClearanceConfig struct {
	CheckDelay  time.Duration
	DecisionTTL time.Duration
}

// CertificatesConfig controls certificate artifact storage and delivery.
type CertificatesConfig struct {
	StorageDir      string
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// OfficialsConfig drives the admin directory manager. The required-field
// list is configuration because the intake form's field set has drifted
// across versions.
type OfficialsConfig struct {
	RequiredFields []string
}

// DashboardConfig governs summary caching.
type DashboardConfig struct {
	CacheTTL time.Duration
}

// SeedConfig governs fallback to bundled seed data when the database is
// unreachable at startup.
type SeedConfig struct {
	Fallback bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Clearance = ClearanceConfig{
		CheckDelay:  parseDuration(v.GetString("CLEARANCE_CHECK_DELAY"), 2*time.Second),
		DecisionTTL: parseDuration(v.GetString("CLEARANCE_DECISION_TTL"), time.Hour),
	}

	cfg.Certificates = CertificatesConfig{
		StorageDir:      v.GetString("CERTIFICATES_STORAGE_DIR"),
		SignedURLSecret: v.GetString("CERTIFICATES_SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("CERTIFICATES_SIGNED_URL_TTL"), 24*time.Hour),
	}

	cfg.Officials = OfficialsConfig{
		RequiredFields: splitAndTrim(v.GetString("OFFICIAL_REQUIRED_FIELDS")),
	}

	cfg.Dashboard = DashboardConfig{
		CacheTTL: parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Seed = SeedConfig{
		Fallback: v.GetBool("SEED_FALLBACK"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "ccms")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "ccms-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("CLEARANCE_CHECK_DELAY", "2s")
	v.SetDefault("CLEARANCE_DECISION_TTL", "1h")

	v.SetDefault("CERTIFICATES_STORAGE_DIR", "./certificates")
	v.SetDefault("CERTIFICATES_SIGNED_URL_SECRET", "dev_certificates_secret")
	v.SetDefault("CERTIFICATES_SIGNED_URL_TTL", "24h")


	v.SetDefault("OFFICIAL_REQUIRED_FIELDS", "officialId,firstName,lastName,profession,education,department,email,phone,username,password")

	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")

	v.SetDefault("SEED_FALLBACK", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
