package model

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaultsWhenFileMissing(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("load missing config: %v", err)
	}

	if cfg.Mailbox.Provider != "gmail" {
		t.Fatalf("expected default provider gmail, got %q", cfg.Mailbox.Provider)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("expected default driver sqlite, got %q", cfg.Database.Driver)
	}
	if cfg.Processing.BatchSize != 10 {
		t.Fatalf("expected default batch size 10, got %d", cfg.Processing.BatchSize)
	}
	if cfg.Processing.MaxRetries != 3 {
		t.Fatalf("expected default max retries 3, got %d", cfg.Processing.MaxRetries)
	}
	if cfg.Processing.ContinueOnFailure {
		t.Fatal("expected continue_on_failure to default to false")
	}
	if cfg.Claude.MaxTokens != 1024 {
		t.Fatalf("expected default max tokens 1024, got %d", cfg.Claude.MaxTokens)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "console" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if cfg.IMAP.Port != 993 {
		t.Fatalf("expected default IMAP port 993, got %d", cfg.IMAP.Port)
	}
}

func TestSaveAndLoadConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	cfg.Mailbox.Provider = "imap"
	cfg.IMAP.Host = "imap.example.com"
	cfg.IMAP.Port = 143
	cfg.IMAP.Username = "user@example.com"
	cfg.IMAP.UseStartTLS = true
	cfg.Processing.BatchSize = 25
	cfg.Processing.ContinueOnFailure = true
	cfg.Database.Driver = "postgres"
	cfg.Database.DSN = "postgres://localhost/emailmgr"
	cfg.Logging.Level = "debug"

	if err := SaveConfig(path, cfg); err != nil {
		t.Fatalf("save config: %v", err)
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}

	if loaded.Mailbox.Provider != "imap" {
		t.Fatalf("provider lost: %q", loaded.Mailbox.Provider)
	}
	if loaded.IMAP.Host != "imap.example.com" || loaded.IMAP.Port != 143 {
		t.Fatalf("imap settings lost: %+v", loaded.IMAP)
	}
	if !loaded.IMAP.UseStartTLS {
		t.Fatal("starttls flag lost")
	}
	if loaded.Processing.BatchSize != 25 {
		t.Fatalf("batch size lost: %d", loaded.Processing.BatchSize)
	}
	if !loaded.Processing.ContinueOnFailure {
		t.Fatal("continue_on_failure lost")
	}
	if loaded.Database.Driver != "postgres" || loaded.Database.DSN != "postgres://localhost/emailmgr" {
		t.Fatalf("database settings lost: %+v", loaded.Database)
	}
	if loaded.Logging.Level != "debug" {
		t.Fatalf("logging level lost: %q", loaded.Logging.Level)
	}

	// Untouched keys keep their defaults through the round trip.
	if loaded.Processing.MaxRetries != 3 {
		t.Fatalf("max retries changed unexpectedly: %d", loaded.Processing.MaxRetries)
	}
}

func TestLoadConfigRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("mailbox: [not: a: map\n"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}
