package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/at-ishikawa/paperpilot/internal/selection"
	"github.com/at-ishikawa/paperpilot/internal/validation"
)

const (
	PreferencesStoreFile   = "file"
	PreferencesStoreMySQL  = "mysql"
	PreferencesStoreSQLite = "sqlite"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Background  BackgroundConfig  `mapstructure:"background"`
	Dictionary  DictionaryConfig  `mapstructure:"dictionary"`
	Arxiv       ArxivConfig       `mapstructure:"arxiv"`
	Lookup      LookupConfig      `mapstructure:"lookup"`
	Selection   SelectionConfig   `mapstructure:"selection"`
	Preferences PreferencesConfig `mapstructure:"preferences"`
	Database    DatabaseConfig    `mapstructure:"database"`
}

type ServerConfig struct {
	Address string `mapstructure:"address" validate:"required,hostname_port"`
}

// BackgroundConfig is where the page side and the CLI reach `paperpilot serve`.
type BackgroundConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

type DictionaryConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

type ArxivConfig struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
}

type LookupConfig struct {
	CacheTTL         time.Duration `mapstructure:"cache_ttl" validate:"gt=0"`
	MaxRetryAttempts uint          `mapstructure:"max_retry_attempts" validate:"lte=10"`
	RetryDelay       time.Duration `mapstructure:"retry_delay" validate:"gte=0"`
}

type SelectionConfig struct {
	Debounce  time.Duration `mapstructure:"debounce" validate:"gt=0"`
	MaxLength int           `mapstructure:"max_length" validate:"min=1"`
	Hotkey    string        `mapstructure:"hotkey" validate:"required,hotkey"`
}

type PreferencesConfig struct {
	Store string `mapstructure:"store" validate:"oneof=file mysql sqlite"`
	File  string `mapstructure:"file" validate:"required"`
}

type DatabaseConfig struct {
	Host            string            `mapstructure:"host"`
	Port            int               `mapstructure:"port"`
	Database        string            `mapstructure:"database"`
	Username        string            `mapstructure:"username"`
	Password        string            `mapstructure:"password"`
	TLS             bool              `mapstructure:"tls"`
	Params          map[string]string `mapstructure:"params"`
	MaxOpenConns    int               `mapstructure:"max_open_conns"`
	MaxIdleConns    int               `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int               `mapstructure:"conn_max_lifetime_seconds"`
	// Path is the SQLite database file.
	Path string `mapstructure:"path"`
}

func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigType("yaml")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/paperpilot")
	}

	dataDirectory := "."
	if home, err := os.UserHomeDir(); err == nil {
		dataDirectory = filepath.Join(home, ".config", "paperpilot")
	}

	v.SetDefault("server.address", "127.0.0.1:8787")
	v.SetDefault("background.url", "http://127.0.0.1:8787")
	v.SetDefault("dictionary.base_url", "https://api.dictionaryapi.dev")
	v.SetDefault("arxiv.base_url", "https://export.arxiv.org")
	v.SetDefault("lookup.cache_ttl", time.Minute)
	v.SetDefault("lookup.max_retry_attempts", 2)
	v.SetDefault("lookup.retry_delay", 500*time.Millisecond)
	v.SetDefault("selection.debounce", selection.DefaultDebounce)
	v.SetDefault("selection.max_length", selection.DefaultMaxLength)
	v.SetDefault("selection.hotkey", selection.DefaultHotkey)
	v.SetDefault("preferences.store", PreferencesStoreFile)
	v.SetDefault("preferences.file", filepath.Join(dataDirectory, "preferences.yml"))
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 3306)
	v.SetDefault("database.database", "paperpilot")
	v.SetDefault("database.username", "paperpilot")
	v.SetDefault("database.path", filepath.Join(dataDirectory, "paperpilot.db"))

	if err := v.BindEnv("server.address", "PAPERPILOT_ADDRESS"); err != nil {
		return nil, fmt.Errorf("failed to bind PAPERPILOT_ADDRESS environment variable: %w", err)
	}
	if err := v.BindEnv("background.url", "PAPERPILOT_BACKGROUND_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind PAPERPILOT_BACKGROUND_URL environment variable: %w", err)
	}
	// Bind database password to environment variable
	if err := v.BindEnv("database.password", "PAPERPILOT_DB_PASSWORD"); err != nil {
		return nil, fmt.Errorf("failed to bind PAPERPILOT_DB_PASSWORD environment variable: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("configuration file found but could not be read: %w. Please check the file format and permissions", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration format: %w", err)
	}

	validate, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create new validator: %w", err)
	}
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func newValidator() (*validation.Validator, error) {
	v, err := validation.New("mapstructure")
	if err != nil {
		return nil, err
	}
	if err := v.RegisterValidation("hotkey", "{0} must be a key combination such as alt+o", isHotkey); err != nil {
		return nil, err
	}
	return v, nil
}

func isHotkey(fl validator.FieldLevel) bool {
	_, err := selection.ParseHotkey(fl.Field().String())
	return err == nil
}
