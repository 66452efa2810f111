package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/Kaitokidbua/worktime-codex/internal/work"
)

const isoDateLayout = "2006-01-02"

type Config struct {
	DatabasePath string `yaml:"DatabasePath" validate:"required"`

	// Shift rules
	StandardShiftHours    float64 `yaml:"StandardShiftHours" validate:"gt=0,lte=24"`
	ZeroDurationIsFullDay bool    `yaml:"ZeroDurationIsFullDay"`
	MaxNetHours           float64 `yaml:"MaxNetHours" validate:"gte=0,lte=24"`
	DateLayout            string  `yaml:"DateLayout" validate:"required"`

	// Output locations
	ReportPath  string `yaml:"ReportPath" validate:"required"`
	HistoryPath string `yaml:"HistoryPath" validate:"required"`

	LogLevel  string `yaml:"LogLevel" validate:"oneof=trace debug info warn warning error"`
	LogFormat string `yaml:"LogFormat" validate:"oneof=text json"`
}

// Load reads .env (if present) and the config file named by WORKTIME_CONFIG,
// falling back to ~/.worktime.yaml.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return LoadFrom(getConfigPath())
}

// LoadFrom reads the YAML file at path over the defaults and then applies
// WORKTIME_* environment overrides. A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := getDefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	applyEnv(cfg)

	cfg.DatabasePath = expandHome(cfg.DatabasePath)
	cfg.ReportPath = expandHome(cfg.ReportPath)
	cfg.HistoryPath = expandHome(cfg.HistoryPath)

	return cfg, nil
}

func Save(cfg *Config) error {
	return SaveTo(cfg, getConfigPath())
}

func SaveTo(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Path returns the config file location Load reads.
func Path() string {
	return getConfigPath()
}

func getConfigPath() string {
	if p := getEnv("WORKTIME_CONFIG", ""); p != "" {
		return expandHome(p)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".worktime.yaml")
}

func getDefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DatabasePath:          filepath.Join(home, ".worktime", "data.db"),
		StandardShiftHours:    work.DefaultStandardShiftHours,
		ZeroDurationIsFullDay: true,
		DateLayout:            work.DefaultDateLayouts[0],
		ReportPath:            "attendance_report.xlsx",
		HistoryPath:           filepath.Join(home, ".worktime", "history"),
		LogLevel:              "info",
		LogFormat:             "text",
	}
}

func applyEnv(cfg *Config) {
	cfg.DatabasePath = getEnv("WORKTIME_DB_PATH", cfg.DatabasePath)
	cfg.StandardShiftHours = getEnvAsFloat("WORKTIME_STANDARD_SHIFT_HOURS", cfg.StandardShiftHours)
	cfg.ZeroDurationIsFullDay = getEnvAsBool("WORKTIME_ZERO_DURATION_FULL_DAY", cfg.ZeroDurationIsFullDay)
	cfg.MaxNetHours = getEnvAsFloat("WORKTIME_MAX_NET_HOURS", cfg.MaxNetHours)
	cfg.DateLayout = getEnv("WORKTIME_DATE_LAYOUT", cfg.DateLayout)
	cfg.ReportPath = getEnv("WORKTIME_REPORT_PATH", cfg.ReportPath)
	cfg.HistoryPath = getEnv("WORKTIME_HISTORY_PATH", cfg.HistoryPath)
	cfg.LogLevel = getEnv("WORKTIME_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("WORKTIME_LOG_FORMAT", cfg.LogFormat)
}

func getEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvAsBool(name string, defaultVal bool) bool {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvAsFloat(name string, defaultVal float64) float64 {
	valStr := getEnv(name, "")
	if val, err := strconv.ParseFloat(valStr, 64); err == nil {
		return val
	}
	return defaultVal
}

func expandHome(p string) string {
	if strings.HasPrefix(p, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, p[2:])
	}
	return p
}

// Policy returns the shift rules the config describes. Entry dates are read
// with the configured layout first, then its unpadded form (5/3/2024), then
// ISO dates.
func (c *Config) Policy() work.Policy {
	layouts := []string{c.DateLayout}
	if unpadded := work.UnpaddedLayout(c.DateLayout); unpadded != c.DateLayout {
		layouts = append(layouts, unpadded)
	}
	if c.DateLayout != isoDateLayout {
		layouts = append(layouts, isoDateLayout)
	}
	return work.Policy{
		StandardShiftHours:    c.StandardShiftHours,
		ZeroDurationIsFullDay: c.ZeroDurationIsFullDay,
		MaxNetHours:           c.MaxNetHours,
		DateLayouts:           layouts,
	}
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s - %s", e.Field, e.Message)
}

var validate = validator.New()

// Validate checks the configuration and reports the first problem found.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) && len(ve) > 0 {
			return &ValidationError{Field: ve[0].Field(), Message: fieldMessage(ve[0])}
		}
		return err
	}

	if c.MaxNetHours > 0 && c.MaxNetHours < c.StandardShiftHours {
		return &ValidationError{Field: "MaxNetHours", Message: "must be 0 or at least StandardShiftHours"}
	}
	if !roundTrips(c.DateLayout) {
		return &ValidationError{Field: "DateLayout", Message: fmt.Sprintf("%q is not a usable date layout", c.DateLayout)}
	}

	return nil
}

// roundTrips reports whether a date formatted with layout parses back to
// the same day.
func roundTrips(layout string) bool {
	sample := time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)
	parsed, err := time.Parse(layout, sample.Format(layout))
	return err == nil && parsed.Equal(sample)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "lte":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", fe.Param())
	default:
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
}
