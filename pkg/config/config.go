package config

import (
	"errors"
	"io/fs"
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
	Env  string
	Port int

	Upstream   UpstreamConfig
	Attendance AttendanceConfig
	Cache      CacheConfig
	Redis      RedisConfig
	CORS       CORSConfig
	Log        LogConfig
	Reports    ReportsConfig
}

// UpstreamConfig points the proxy at the student-management REST API.
type UpstreamConfig struct {
	BaseURL           string
	APIKey            string
	APISecret         string
	Timeout           time.Duration
	Retries           int
	RetryBackoff      time.Duration
	EnrollmentDocType string
	AttendanceDocType string
	ExamResultDocType string
}

// AttendanceConfig controls the rolling window requested from upstream.
type AttendanceConfig struct {
	WindowDays int
}

// CacheConfig toggles caching of upstream payloads.
type CacheConfig struct {
	Enabled bool
	TTL     time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// ReportsConfig gates the combined report and export endpoints.
type ReportsConfig struct {
	Enabled bool
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
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")

	cfg.Upstream = UpstreamConfig{
		BaseURL:           strings.TrimRight(strings.TrimSpace(v.GetString("UPSTREAM_BASE_URL")), "/"),
		APIKey:            strings.TrimSpace(v.GetString("UPSTREAM_API_KEY")),
		APISecret:         strings.TrimSpace(v.GetString("UPSTREAM_API_SECRET")),
		Timeout:           parseDuration(v.GetString("UPSTREAM_TIMEOUT"), 10*time.Second),
		Retries:           v.GetInt("UPSTREAM_RETRIES"),
		RetryBackoff:      parseDuration(v.GetString("UPSTREAM_RETRY_BACKOFF"), 200*time.Millisecond),
		EnrollmentDocType: v.GetString("UPSTREAM_ENROLLMENT_DOCTYPE"),
		AttendanceDocType: v.GetString("UPSTREAM_ATTENDANCE_DOCTYPE"),
		ExamResultDocType: v.GetString("UPSTREAM_RESULT_DOCTYPE"),
	}

	cfg.Attendance = AttendanceConfig{
		WindowDays: v.GetInt("ATTENDANCE_WINDOW_DAYS"),
	}

	cfg.Cache = CacheConfig{
		Enabled: v.GetBool("ENABLE_CACHE"),
		TTL:     parseDuration(v.GetString("CACHE_TTL"), 5*time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Reports = ReportsConfig{
		Enabled: v.GetBool("ENABLE_REPORTS"),
	}

	return cfg
}

// Validate reports configuration that would leave the proxy unusable.
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return errors.New("UPSTREAM_BASE_URL is required")
	}
	if c.Env == EnvProduction && (c.Upstream.APIKey == "" || c.Upstream.APISecret == "") {
		return errors.New("UPSTREAM_API_KEY and UPSTREAM_API_SECRET are required in production")
	}
	if c.Attendance.WindowDays <= 0 {
		return errors.New("ATTENDANCE_WINDOW_DAYS must be positive")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 5000)

	v.SetDefault("UPSTREAM_BASE_URL", "")
	v.SetDefault("UPSTREAM_API_KEY", "")
	v.SetDefault("UPSTREAM_API_SECRET", "")
	v.SetDefault("UPSTREAM_TIMEOUT", "10s")
	v.SetDefault("UPSTREAM_RETRIES", 2)
	v.SetDefault("UPSTREAM_RETRY_BACKOFF", "200ms")
	v.SetDefault("UPSTREAM_ENROLLMENT_DOCTYPE", "Program Enrollment")
	v.SetDefault("UPSTREAM_ATTENDANCE_DOCTYPE", "Student Attendance")
	v.SetDefault("UPSTREAM_RESULT_DOCTYPE", "Exam Result")

	v.SetDefault("ATTENDANCE_WINDOW_DAYS", 90)

	v.SetDefault("ENABLE_CACHE", false)
	v.SetDefault("CACHE_TTL", "5m")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_REPORTS", true)
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
