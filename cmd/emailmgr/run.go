package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/nhle/email-manager/internal/analyzer"
	"github.com/nhle/email-manager/internal/credential"
	"github.com/nhle/email-manager/internal/logging"
	"github.com/nhle/email-manager/internal/mailbox"
	"github.com/nhle/email-manager/internal/mailbox/gmail"
	"github.com/nhle/email-manager/internal/mailbox/imap"
	"github.com/nhle/email-manager/internal/model"
	"github.com/nhle/email-manager/internal/processor"
	"github.com/nhle/email-manager/internal/store"
)

// cmdRun wires the collaborators from config and processes one batch
// of unread emails.
func cmdRun(args []string) int {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	configPath := fs.String("config", model.DefaultConfigPath(), "path to the configuration file")
	batchSize := fs.Int("batch-size", 0, "unread emails to process this run (overrides config)")
	maxRetries := fs.Int("max-retries", 0, "attempts per email before recording a failure (overrides config)")
	continueOnFailure := fs.Bool("continue-on-failure", false, "finish the batch even when an email exhausts its retries")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := model.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "emailmgr: %v\n", err)
		return 1
	}

	if *batchSize > 0 {
		cfg.Processing.BatchSize = *batchSize
	}
	if *maxRetries > 0 {
		cfg.Processing.MaxRetries = *maxRetries
	}
	if fs.Changed("continue-on-failure") {
		cfg.Processing.ContinueOnFailure = *continueOnFailure
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "emailmgr: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx := context.Background()

	st, err := openStore(cfg)
	if err != nil {
		log.Error("opening store failed", zap.Error(err))
		return 1
	}
	defer st.Close()

	mb, err := openMailbox(ctx, cfg)
	if err != nil {
		log.Error("opening mailbox failed", zap.Error(err))
		return 1
	}

	apiKey, err := credential.AnthropicAPIKey()
	if err != nil {
		log.Error("loading API key failed", zap.Error(err))
		return 1
	}
	claude := analyzer.NewClaude(apiKey, cfg.Claude.Model, cfg.Claude.MaxTokens)

	proc := processor.New(mb, claude, st, log, processor.Options{
		ContinueOnFailure: cfg.Processing.ContinueOnFailure,
	})

	log.Info("starting run",
		zap.String("mailbox", mb.Name()),
		zap.Int("batch_size", cfg.Processing.BatchSize),
		zap.Int("max_retries", cfg.Processing.MaxRetries),
	)

	err = proc.ProcessUnreadBatch(ctx, cfg.Processing.BatchSize, cfg.Processing.MaxRetries)
	if err != nil {
		log.Error("run failed", zap.Error(err))
		return 1
	}

	log.Info("run finished")
	return 0
}

// openStore builds the configured store implementation. Opening runs
// any pending schema migrations.
func openStore(cfg *model.AppConfig) (*store.SQLStore, error) {
	switch cfg.Database.Driver {
	case "sqlite", "":
		if dir := filepath.Dir(cfg.Database.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}
		return store.NewSQLiteStore(cfg.Database.Path)
	case "postgres":
		return store.NewPostgresStore(cfg.Database.DSN)
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

// openMailbox builds the configured mail provider adapter.
func openMailbox(ctx context.Context, cfg *model.AppConfig) (mailbox.Mailbox, error) {
	switch cfg.Mailbox.Provider {
	case "gmail", "":
		return gmail.New(ctx, cfg.Gmail)
	case "imap":
		password, err := credential.IMAPPassword()
		if err != nil {
			return nil, err
		}
		return imap.New(cfg.IMAP, password), nil
	default:
		return nil, fmt.Errorf("unknown mailbox provider %q", cfg.Mailbox.Provider)
	}
}
