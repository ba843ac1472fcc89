// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package cliparse

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"github.com/danielhkuo/quickly-poker/tracker"
)

const (
	DatabaseSQLite   = "sqlite"
	DatabasePostgres = "postgres"
)

type Config struct {
	Port         int            `yaml:"port"`
	DatabaseURL  string         `yaml:"database_url"`
	DatabaseType string         `yaml:"database_type"`
	LogLevel     string         `yaml:"log_level"`
	CORSOrigin   string         `yaml:"cors_origin"`
	IPHashSalt   string         `yaml:"ip_hash_salt"`
	Jira         tracker.Config `yaml:"jira"`
}

// Defaults returns the configuration used when nothing else is set
func Defaults() Config {
	return Config{
		Port:         3318,
		DatabaseURL:  "file:quickly-poker.db",
		DatabaseType: DatabaseSQLite,
		LogLevel:     "info",
		Jira: tracker.Config{
			StoryPointsField:  tracker.DefaultStoryPointsField,
			RequestsPerSecond: 5,
		},
	}
}

// ParseFlags builds the configuration from defaults, an optional YAML file,
// environment variables and flags, in increasing order of precedence
func ParseFlags(args []string) (Config, error) {
	var (
		configPath string
		flags      Config
	)

	fset := pflag.NewFlagSet("quickly-poker", pflag.ContinueOnError)

	fset.StringVarP(&configPath, "config", "c", "", "YAML config file (or POKER_CONFIG)")

	// Network config
	fset.IntVarP(&flags.Port, "port", "p", 0, "Server port")
	fset.StringVar(&flags.CORSOrigin, "cors-origin", "", "Allowed CORS origin (default: echo request origin)")

	// Sync journal
	fset.StringVarP(&flags.DatabaseURL, "database-url", "d", "", "Journal database URL")
	fset.StringVarP(&flags.DatabaseType, "database-type", "t", "", "Journal database type (sqlite or postgres)")
	fset.StringVar(&flags.IPHashSalt, "ip-salt", "", "Salt for hashing client IPs in the journal (prefer env)")

	fset.StringVar(&flags.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")

	// Jira (the API token is only read from env or file)
	fset.StringVar(&flags.Jira.BaseURL, "jira-base-url", "", "Jira Cloud base URL")
	fset.StringVar(&flags.Jira.Email, "jira-email", "", "Jira user email")
	fset.StringVar(&flags.Jira.StoryPointsField, "jira-points-field", "", "Jira story points field id")
	fset.Float64Var(&flags.Jira.RequestsPerSecond, "jira-rps", 0, "Max Jira requests per second")

	if err := fset.Parse(args); err != nil {
		return Config{}, err
	}

	cfg := Defaults()

	if configPath == "" {
		configPath = os.Getenv("POKER_CONFIG")
	}
	if configPath != "" {
		if err := loadFile(configPath, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	applyFlags(fset, flags, &cfg)

	cfg.Jira.BaseURL = strings.TrimRight(cfg.Jira.BaseURL, "/")

	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadDotEnv loads variables from a .env file without overriding the
// environment. A missing file is not an error.
func LoadDotEnv(path string) error {
	err := godotenv.Load(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return errors.New("invalid PORT env variable")
		}
		cfg.Port = port
	}
	if rpsStr := os.Getenv("JIRA_RPS"); rpsStr != "" {
		rps, err := strconv.ParseFloat(rpsStr, 64)
		if err != nil {
			return errors.New("invalid JIRA_RPS env variable")
		}
		cfg.Jira.RequestsPerSecond = rps
	}

	for env, dst := range map[string]*string{
		"DATABASE_URL":            &cfg.DatabaseURL,
		"DATABASE_TYPE":           &cfg.DatabaseType,
		"LOG_LEVEL":               &cfg.LogLevel,
		"CORS_ORIGIN":             &cfg.CORSOrigin,
		"IP_HASH_SALT":            &cfg.IPHashSalt,
		"JIRA_BASE_URL":           &cfg.Jira.BaseURL,
		"JIRA_EMAIL":              &cfg.Jira.Email,
		"JIRA_API_TOKEN":          &cfg.Jira.APIToken,
		"JIRA_STORY_POINTS_FIELD": &cfg.Jira.StoryPointsField,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	return nil
}

// applyFlags copies only the flags that were set on the command line
func applyFlags(fset *pflag.FlagSet, flags Config, cfg *Config) {
	if fset.Changed("port") {
		cfg.Port = flags.Port
	}
	if fset.Changed("cors-origin") {
		cfg.CORSOrigin = flags.CORSOrigin
	}
	if fset.Changed("database-url") {
		cfg.DatabaseURL = flags.DatabaseURL
	}
	if fset.Changed("database-type") {
		cfg.DatabaseType = flags.DatabaseType
	}
	if fset.Changed("ip-salt") {
		cfg.IPHashSalt = flags.IPHashSalt
	}
	if fset.Changed("log-level") {
		cfg.LogLevel = flags.LogLevel
	}
	if fset.Changed("jira-base-url") {
		cfg.Jira.BaseURL = flags.Jira.BaseURL
	}
	if fset.Changed("jira-email") {
		cfg.Jira.Email = flags.Jira.Email
	}
	if fset.Changed("jira-points-field") {
		cfg.Jira.StoryPointsField = flags.Jira.StoryPointsField
	}
	if fset.Changed("jira-rps") {
		cfg.Jira.RequestsPerSecond = flags.Jira.RequestsPerSecond
	}
}

func validate(cfg Config) error {
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port %d out of range", cfg.Port)
	}
	if cfg.DatabaseType != DatabaseSQLite && cfg.DatabaseType != DatabasePostgres {
		return fmt.Errorf("database type must be %q or %q, got %q", DatabaseSQLite, DatabasePostgres, cfg.DatabaseType)
	}
	if cfg.DatabaseURL == "" {
		return errors.New("database URL required (use -d or DATABASE_URL env)")
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", cfg.LogLevel)
	}
	return nil
}
