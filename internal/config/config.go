// Package config loads process configuration from the environment, reading an
// optional .env file first.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

// Store backends.
const (
	BackendGoogle = "google"
	BackendXLSX   = "xlsx"
	BackendSQLite = "sqlite"
)

// StartupError reports configuration that prevents the server from starting.
type StartupError struct {
	Problems []string
}

func (e *StartupError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

// Google holds service-account credentials for the Sheets API.
type Google struct {
	ClientEmail     string
	PrivateKey      string
	SheetID         string
	CredentialsFile string
}

// Backup holds snapshot upload settings. Backups are disabled unless Bucket,
// AccessKey, SecretKey and Passphrase are all set.
type Backup struct {
	Endpoint   string
	Bucket     string
	Region     string
	AccessKey  string
	SecretKey  string
	Passphrase string
	Interval   time.Duration
}

// Enabled reports whether enough settings are present to run backups.
func (b Backup) Enabled() bool {
	return b.Bucket != "" && b.AccessKey != "" && b.SecretKey != "" && b.Passphrase != ""
}

type Config struct {
	Port         string
	LogLevel     string
	Backend      string
	StoreTimeout time.Duration
	XLSXPath     string
	DBPath       string
	Timezone     *time.Location
	Google       Google
	Backup       Backup
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function and validates it.
func FromEnv(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Port:     withDefault(getenv("HOMESTOCK_PORT"), "8080"),
		LogLevel: withDefault(getenv("HOMESTOCK_LOG_LEVEL"), "info"),
		Backend:  strings.ToLower(withDefault(getenv("HOMESTOCK_STORE"), BackendGoogle)),
		XLSXPath: withDefault(getenv("HOMESTOCK_XLSX_PATH"), "homestock.xlsx"),
		DBPath:   withDefault(getenv("HOMESTOCK_DB_PATH"), "homestock.db"),
		Google: Google{
			ClientEmail:     getenv("GOOGLE_CLIENT_EMAIL"),
			PrivateKey:      strings.ReplaceAll(getenv("GOOGLE_PRIVATE_KEY"), `\n`, "\n"),
			SheetID:         getenv("GOOGLE_SHEET_ID"),
			CredentialsFile: getenv("GOOGLE_CREDENTIALS_FILE"),
		},
		Backup: Backup{
			Endpoint:   getenv("HOMESTOCK_BACKUP_S3_ENDPOINT"),
			Bucket:     getenv("HOMESTOCK_BACKUP_S3_BUCKET"),
			Region:     withDefault(getenv("HOMESTOCK_BACKUP_S3_REGION"), "us-east-1"),
			AccessKey:  getenv("HOMESTOCK_BACKUP_S3_ACCESS_KEY"),
			SecretKey:  getenv("HOMESTOCK_BACKUP_S3_SECRET_KEY"),
			Passphrase: getenv("HOMESTOCK_BACKUP_PASSPHRASE"),
		},
	}

	var problems []string

	timeout, err := parseDuration(getenv("HOMESTOCK_STORE_TIMEOUT"), 10*time.Second)
	if err != nil {
		problems = append(problems, "HOMESTOCK_STORE_TIMEOUT: "+err.Error())
	}
	cfg.StoreTimeout = timeout

	interval, err := parseDuration(getenv("HOMESTOCK_BACKUP_INTERVAL"), 0)
	if err != nil {
		problems = append(problems, "HOMESTOCK_BACKUP_INTERVAL: "+err.Error())
	}
	cfg.Backup.Interval = interval

	tz := withDefault(getenv("HOMESTOCK_TIMEZONE"), "Asia/Hong_Kong")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		problems = append(problems, fmt.Sprintf("HOMESTOCK_TIMEZONE: unknown zone %q", tz))
		loc = time.UTC
	}
	cfg.Timezone = loc

	problems = append(problems, cfg.validateBackend()...)
	if len(problems) > 0 {
		return nil, &StartupError{Problems: problems}
	}
	return cfg, nil
}

func (c *Config) validateBackend() []string {
	switch c.Backend {
	case BackendGoogle:
		var problems []string
		if c.Google.SheetID == "" {
			problems = append(problems, "GOOGLE_SHEET_ID is required")
		}
		if c.Google.CredentialsFile == "" && (c.Google.ClientEmail == "" || c.Google.PrivateKey == "") {
			problems = append(problems, "GOOGLE_CLIENT_EMAIL and GOOGLE_PRIVATE_KEY (or GOOGLE_CREDENTIALS_FILE) are required")
		}
		return problems
	case BackendXLSX:
		if c.XLSXPath == "" {
			return []string{"HOMESTOCK_XLSX_PATH is required"}
		}
	case BackendSQLite:
		if c.DBPath == "" {
			return []string{"HOMESTOCK_DB_PATH is required"}
		}
	default:
		return []string{fmt.Sprintf("HOMESTOCK_STORE: unknown backend %q", c.Backend)}
	}
	return nil
}

func withDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

// parseDuration accepts Go durations ("15s") or bare seconds ("15").
func parseDuration(raw string, def time.Duration) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		if secs < 0 {
			return 0, fmt.Errorf("must not be negative")
		}
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative")
	}
	return d, nil
}
