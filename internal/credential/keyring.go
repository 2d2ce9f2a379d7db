package credential

import (
	"fmt"
	"os"

	"github.com/99designs/keyring"
)

const serviceName = "emailmgr"

// Well-known credential keys.
const (
	// KeyAnthropicAPIKey stores the Claude API key.
	KeyAnthropicAPIKey = "anthropic-api-key"

	// KeyIMAPPassword stores the IMAP account password.
	KeyIMAPPassword = "imap-password"
)

// Environment variables that override the keyring, for headless runs
// (cron, CI) where no keyring backend is available.
const (
	envAnthropicAPIKey = "ANTHROPIC_API_KEY"
	envIMAPPassword    = "EMAILMGR_IMAP_PASSWORD"
)

// openKeyring returns a configured keyring instance.
func openKeyring() (keyring.Keyring, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName: serviceName,
		AllowedBackends: []keyring.BackendType{
			keyring.KeychainBackend,
			keyring.SecretServiceBackend,
			keyring.WinCredBackend,
			keyring.PassBackend,
			keyring.FileBackend,
		},
		FileDir:                  "~/.config/emailmgr/credentials",
		FilePasswordFunc:         keyring.FixedStringPrompt("emailmgr-file-key"),
		KeychainTrustApplication: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening keyring: %w", err)
	}
	return ring, nil
}

// Get retrieves a credential value by key from the system keyring.
func Get(key string) (string, error) {
	ring, err := openKeyring()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(key)
	if err != nil {
		return "", fmt.Errorf("getting credential %q: %w", key, err)
	}

	return string(item.Data), nil
}

// Set stores a credential value by key in the system keyring.
func Set(key string, value string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Set(keyring.Item{
		Key:  key,
		Data: []byte(value),
	})
	if err != nil {
		return fmt.Errorf("setting credential %q: %w", key, err)
	}

	return nil
}

// Delete removes a credential by key from the system keyring.
func Delete(key string) error {
	ring, err := openKeyring()
	if err != nil {
		return err
	}

	err = ring.Remove(key)
	if err != nil {
		return fmt.Errorf("deleting credential %q: %w", key, err)
	}

	return nil
}

// AnthropicAPIKey returns the Claude API key, preferring the
// ANTHROPIC_API_KEY environment variable over the keyring entry.
func AnthropicAPIKey() (string, error) {
	if v := os.Getenv(envAnthropicAPIKey); v != "" {
		return v, nil
	}
	key, err := Get(KeyAnthropicAPIKey)
	if err != nil {
		return "", fmt.Errorf("no API key in %s or keyring: %w", envAnthropicAPIKey, err)
	}
	return key, nil
}

// IMAPPassword returns the IMAP account password, preferring the
// EMAILMGR_IMAP_PASSWORD environment variable over the keyring entry.
func IMAPPassword() (string, error) {
	if v := os.Getenv(envIMAPPassword); v != "" {
		return v, nil
	}
	pw, err := Get(KeyIMAPPassword)
	if err != nil {
		return "", fmt.Errorf("no IMAP password in %s or keyring: %w", envIMAPPassword, err)
	}
	return pw, nil
}
