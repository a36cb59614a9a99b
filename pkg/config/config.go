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
	Env string

	Intra   IntraConfig
	Output  OutputConfig
	Credits CreditsConfig
	Log     LogConfig
}

// IntraConfig holds everything needed to talk to the school intranet.
type IntraConfig struct {
	BaseURL      string
	Cookie       string
	Location     string
	Course       string
	ScholarYears []string
	Timeout      time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
}

// OutputConfig controls where rendered reports land.
type OutputConfig struct {
	Dir string
}

// CreditsConfig tunes the credit accounting rules.
type CreditsConfig struct {
	YearGoal int
}

type LogConfig struct {
	Level  string
	Format string
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

	cfg.Intra = IntraConfig{
		BaseURL:      strings.TrimRight(v.GetString("INTRA_BASE_URL"), "/"),
		Cookie:       v.GetString("INTRA_COOKIE"),
		Location:     v.GetString("INTRA_LOCATION"),
		Course:       v.GetString("INTRA_COURSE"),
		ScholarYears: splitAndTrim(v.GetString("INTRA_SCHOLAR_YEARS")),
		Timeout:      parseDuration(v.GetString("INTRA_TIMEOUT"), 30*time.Second),
		MaxRetries:   v.GetInt("INTRA_MAX_RETRIES"),
		RetryDelay:   parseDuration(v.GetString("INTRA_RETRY_DELAY"), 2*time.Second),
	}

	cfg.Output = OutputConfig{
		Dir: v.GetString("OUTPUT_DIR"),
	}

	cfg.Credits = CreditsConfig{
		YearGoal: v.GetInt("CREDIT_YEAR_GOAL"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)

	v.SetDefault("INTRA_BASE_URL", "https://intra.epitech.eu")
	v.SetDefault("INTRA_COOKIE", "")
	v.SetDefault("INTRA_LOCATION", "FR/LYN")
	v.SetDefault("INTRA_COURSE", "bachelor/classic")
	v.SetDefault("INTRA_SCHOLAR_YEARS", "2024,2025")
	v.SetDefault("INTRA_TIMEOUT", "30s")
	v.SetDefault("INTRA_MAX_RETRIES", 3)
	v.SetDefault("INTRA_RETRY_DELAY", "2s")

	v.SetDefault("OUTPUT_DIR", "./output")
	v.SetDefault("CREDIT_YEAR_GOAL", 60)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")
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
