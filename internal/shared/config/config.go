package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"

	"resume-builder/internal/shared/telemetry"
	"resume-builder/resume/generation"
)

// Config holds application configuration.
type Config struct {
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string
	DatabaseURL     string

	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string

	GeneratorMode    string
	GeneratorURL     string
	GeneratorTimeout time.Duration
	ProgressTick     time.Duration
	SettleDelay      time.Duration

	SessionTTL     time.Duration
	RateLimitRPS   float64
	RateLimitBurst int
}

const (
	GeneratorLocal  = "local"
	GeneratorRemote = "remote"
)

// Load reads configuration from the environment with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("OBJECT_STORE", "local")
	v.SetDefault("LOCAL_STORE_DIR", "./data")
	v.SetDefault("AWS_REGION", "")
	v.SetDefault("S3_BUCKET", "")
	v.SetDefault("S3_PREFIX", "")
	v.SetDefault("SSE_KMS_KEY_ID", "")
	v.SetDefault("GENERATOR_MODE", GeneratorLocal)
	v.SetDefault("GENERATOR_URL", "http://localhost:8000")
	v.SetDefault("GENERATOR_TIMEOUT", "60s")
	v.SetDefault("PROGRESS_TICK", generation.DefaultTickInterval)
	v.SetDefault("SETTLE_DELAY", generation.DefaultSettleDelay)
	v.SetDefault("SESSION_TTL", "2h")
	v.SetDefault("RATE_LIMIT_RPS", 5.0)
	v.SetDefault("RATE_LIMIT_BURST", 20)
	return v
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) Config {
	env := normalizeEnv(v.GetString("ENV"))
	dbURL := strings.TrimSpace(v.GetString("DATABASE_URL"))
	if env == "production" && dbURL == "" {
		telemetry.Info("config.warning", map[string]any{"detail": "DATABASE_URL is not set; archive is in memory"})
	}

	return Config{
		Port:             v.GetString("PORT"),
		Env:              env,
		LogLevel:         v.GetString("LOG_LEVEL"),
		CORSAllowOrigin:  splitAndTrim(v.GetString("CORS_ALLOW_ORIGINS")),
		DatabaseURL:      dbURL,
		ObjectStoreType:  normalizeStoreType(v.GetString("OBJECT_STORE")),
		LocalStoreDir:    v.GetString("LOCAL_STORE_DIR"),
		AWSRegion:        v.GetString("AWS_REGION"),
		S3Bucket:         v.GetString("S3_BUCKET"),
		S3Prefix:         v.GetString("S3_PREFIX"),
		SSEKMSKeyID:      v.GetString("SSE_KMS_KEY_ID"),
		GeneratorMode:    normalizeGeneratorMode(v.GetString("GENERATOR_MODE")),
		GeneratorURL:     strings.TrimRight(v.GetString("GENERATOR_URL"), "/"),
		GeneratorTimeout: v.GetDuration("GENERATOR_TIMEOUT"),
		ProgressTick:     v.GetDuration("PROGRESS_TICK"),
		SettleDelay:      v.GetDuration("SETTLE_DELAY"),
		SessionTTL:       v.GetDuration("SESSION_TTL"),
		RateLimitRPS:     v.GetFloat64("RATE_LIMIT_RPS"),
		RateLimitBurst:   v.GetInt("RATE_LIMIT_BURST"),
	}
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeGeneratorMode(raw string) string {
	if strings.EqualFold(strings.TrimSpace(raw), GeneratorRemote) {
		return GeneratorRemote
	}
	return GeneratorLocal
}
