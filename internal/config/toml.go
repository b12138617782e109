// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	DefaultAPIURL      = "http://localhost:8000/api"
	DefaultTimeout     = 30 * time.Second
	DefaultLogLevel    = "info"
	DefaultLogFormat   = "json"
	DefaultTickSeconds = 1
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	API     APIConfig     `toml:"api"`
	Log     LogConfig     `toml:"log"`
	Backup  BackupConfig  `toml:"backup"`
	Monitor MonitorConfig `toml:"monitor"`
}

// APIConfig maps backend connection settings.
type APIConfig struct {
	URL            *string `toml:"url"`
	TimeoutSeconds *int    `toml:"timeout"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level  *string `toml:"level"`
	Format *string `toml:"format"`
	Path   *string `toml:"path"`
}

// BackupConfig maps backup download settings.
type BackupConfig struct {
	Dir *string `toml:"dir"`
}

// MonitorConfig maps the metrics monitor settings.
type MonitorConfig struct {
	TickSeconds *int `toml:"tick"`
}

// Config is the resolved configuration after file, environment and defaults.
type Config struct {
	APIURL    string
	Timeout   time.Duration
	LogLevel  string
	LogFormat string
	LogPath   string
	BackupDir string
	Tick      time.Duration
	DBPath    string
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv loads a .env file from the working directory when present.
// Variables already set in the environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Resolve merges defaults, the file config and JADWAL_* environment variables.
func Resolve(file FileConfig) (Config, error) {
	cfg := Config{
		APIURL:    DefaultAPIURL,
		Timeout:   DefaultTimeout,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		LogPath:   DefaultLogPath(),
		BackupDir: DefaultBackupDir(),
		Tick:      DefaultTickSeconds * time.Second,
		DBPath:    DefaultDBPath(),
	}
	setString(&cfg.APIURL, file.API.URL)
	setSeconds(&cfg.Timeout, file.API.TimeoutSeconds)
	setString(&cfg.LogLevel, file.Log.Level)
	setString(&cfg.LogFormat, file.Log.Format)
	setString(&cfg.LogPath, file.Log.Path)
	setString(&cfg.BackupDir, file.Backup.Dir)
	setSeconds(&cfg.Tick, file.Monitor.TickSeconds)

	envString(&cfg.APIURL, "JADWAL_API_URL")
	envString(&cfg.LogLevel, "JADWAL_LOG_LEVEL")
	envString(&cfg.LogFormat, "JADWAL_LOG_FORMAT")
	envString(&cfg.LogPath, "JADWAL_LOG_PATH")
	envString(&cfg.BackupDir, "JADWAL_BACKUP_DIR")
	envString(&cfg.DBPath, "JADWAL_DB_PATH")
	if v := strings.TrimSpace(os.Getenv("JADWAL_TIMEOUT")); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid JADWAL_TIMEOUT %q: %w", v, err)
		}
		cfg.Timeout = time.Duration(secs) * time.Second
	}

	cfg.APIURL = strings.TrimRight(cfg.APIURL, "/")
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the resolved values.
func (c Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api url must not be empty")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("api url must start with http:// or https://")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("api timeout must be > 0")
	}
	if c.Tick <= 0 {
		return fmt.Errorf("monitor tick must be > 0")
	}
	switch c.LogFormat {
	case "json", "console":
	default:
		return fmt.Errorf("log format must be json or console")
	}
	return nil
}

func setString(target, value *string) {
	if value == nil {
		return
	}
	*target = *value
}

func setSeconds(target *time.Duration, value *int) {
	if value == nil {
		return
	}
	*target = time.Duration(*value) * time.Second
}

func envString(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}
