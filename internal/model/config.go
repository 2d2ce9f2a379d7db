package model

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// ClaudeConfig holds settings for the Claude classification client.
type ClaudeConfig struct {
	// Model is the Anthropic model identifier. Empty selects the
	// client's built-in default.
	Model string `mapstructure:"model" yaml:"model"`

	// MaxTokens caps the response length per API call.
	MaxTokens int `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// MailboxConfig selects which mail provider adapter to use.
type MailboxConfig struct {
	// Provider is "gmail" or "imap".
	Provider string `mapstructure:"provider" yaml:"provider"`
}

// GmailConfig holds settings for the Gmail REST adapter.
type GmailConfig struct {
	// CredentialsFile is the path to the OAuth client credentials JSON.
	CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file"`

	// TokenFile is where the exchanged OAuth token is cached.
	TokenFile string `mapstructure:"token_file" yaml:"token_file"`
}

// IMAPConfig holds settings for the IMAP adapter. The account password
// lives in the OS keyring, not here.
type IMAPConfig struct {
	Host        string `mapstructure:"host" yaml:"host"`
	Port        int    `mapstructure:"port" yaml:"port"`
	Username    string `mapstructure:"username" yaml:"username"`
	UseStartTLS bool   `mapstructure:"use_starttls" yaml:"use_starttls"`
}

// DatabaseConfig selects and locates the audit/archive database.
type DatabaseConfig struct {
	// Driver is "sqlite" or "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Path is the SQLite database file (sqlite driver only).
	Path string `mapstructure:"path" yaml:"path"`

	// DSN is the connection string (postgres driver only).
	DSN string `mapstructure:"dsn" yaml:"dsn"`
}

// ProcessingConfig holds the batch engine's tunables.
type ProcessingConfig struct {
	// BatchSize is how many unread emails one run pulls.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`

	// MaxRetries is how many attempts each email gets before its
	// failure is recorded.
	MaxRetries int `mapstructure:"max_retries" yaml:"max_retries"`

	// ContinueOnFailure keeps the batch going past an email whose
	// retries were exhausted instead of aborting the run.
	ContinueOnFailure bool `mapstructure:"continue_on_failure" yaml:"continue_on_failure"`
}

// LoggingConfig controls log verbosity and output encoding.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level" yaml:"level"`

	// Format is "console" or "json".
	Format string `mapstructure:"format" yaml:"format"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Claude     ClaudeConfig     `mapstructure:"claude" yaml:"claude"`
	Mailbox    MailboxConfig    `mapstructure:"mailbox" yaml:"mailbox"`
	Gmail      GmailConfig      `mapstructure:"gmail" yaml:"gmail"`
	IMAP       IMAPConfig       `mapstructure:"imap" yaml:"imap"`
	Database   DatabaseConfig   `mapstructure:"database" yaml:"database"`
	Processing ProcessingConfig `mapstructure:"processing" yaml:"processing"`
	Logging    LoggingConfig    `mapstructure:"logging" yaml:"logging"`
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/emailmgr/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "emailmgr", "config.yaml")
}

// DefaultDatabasePath returns the default SQLite database location,
// ~/.local/share/emailmgr/emailmgr.db.
func DefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "emailmgr.db")
	}
	return filepath.Join(home, ".local", "share", "emailmgr", "emailmgr.db")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		Claude: ClaudeConfig{
			MaxTokens: 1024,
		},
		Mailbox: MailboxConfig{
			Provider: "gmail",
		},
		Gmail: GmailConfig{
			CredentialsFile: "credentials.json",
			TokenFile:       "token.json",
		},
		IMAP: IMAPConfig{
			Port: 993,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			Path:   DefaultDatabasePath(),
		},
		Processing: ProcessingConfig{
			BatchSize:  10,
			MaxRetries: 3,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("claude.max_tokens", 1024)
	v.SetDefault("mailbox.provider", "gmail")
	v.SetDefault("gmail.credentials_file", "credentials.json")
	v.SetDefault("gmail.token_file", "token.json")
	v.SetDefault("imap.port", 993)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", DefaultDatabasePath())
	v.SetDefault("processing.batch_size", 10)
	v.SetDefault("processing.max_retries", 3)
	v.SetDefault("processing.continue_on_failure", false)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultAppConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultAppConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultAppConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("claude", cfg.Claude)
	v.Set("mailbox", cfg.Mailbox)
	v.Set("gmail", cfg.Gmail)
	v.Set("imap", cfg.IMAP)
	v.Set("database", cfg.Database)
	v.Set("processing", cfg.Processing)
	v.Set("logging", cfg.Logging)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
