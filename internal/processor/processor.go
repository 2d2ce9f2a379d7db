// Package processor implements the email processing engine. One batch
// run fetches unread messages and drives each through a
// classify-act-record cycle: the analyzer assigns a category, the
// category's disposition is applied (discard, archive with summary, or
// keep and mark read), and the outcome lands in the audit trail.
// Failed attempts retry with exponential backoff; exhausted emails get
// a failure record and go back to unread for a later run.
package processor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/nhle/email-manager/internal/analyzer"
	"github.com/nhle/email-manager/internal/mailbox"
	"github.com/nhle/email-manager/internal/model"
	"github.com/nhle/email-manager/internal/store"
)

// failureReasoning marks audit rows written when retries are exhausted.
const failureReasoning = "Failed to process email"

// Options carries the processor's policy knobs.
type Options struct {
	// ContinueOnFailure keeps a batch going past an email whose
	// retries were exhausted instead of aborting the run. Credits
	// exhaustion aborts regardless: no later email can succeed, and
	// each would first burn its whole backoff schedule.
	ContinueOnFailure bool

	// Sleep replaces the wall-clock delay between retry attempts.
	// Nil means time.Sleep; tests inject a recorder.
	Sleep func(time.Duration)
}

// Processor coordinates the mailbox, the analyzer, and the store to
// process batches of unread email. Emails are handled one at a time,
// each to completion, including its own retries, before the next
// begins.
type Processor struct {
	mailbox  mailbox.Mailbox
	analyzer analyzer.Analyzer
	store    store.Store
	log      *zap.Logger

	continueOnFailure bool
	sleep             func(time.Duration)
}

// New creates a Processor around the three collaborators.
func New(
	mb mailbox.Mailbox,
	an analyzer.Analyzer,
	st store.Store,
	log *zap.Logger,
	opts Options,
) *Processor {
	if log == nil {
		log = zap.NewNop()
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	return &Processor{
		mailbox:           mb,
		analyzer:          an,
		store:             st,
		log:               log,
		continueOnFailure: opts.ContinueOnFailure,
		sleep:             sleep,
	}
}

// ProcessUnreadBatch fetches up to batchSize unread emails and
// processes each with up to maxRetries attempts. A fetch failure fails
// the whole batch before any email is attempted. A per-email failure
// aborts the remaining batch by default (the emails stay unread and
// the next run picks them up); with ContinueOnFailure the run finishes
// the batch and reports the failures at the end.
func (p *Processor) ProcessUnreadBatch(
	ctx context.Context,
	batchSize, maxRetries int,
) error {
	if batchSize < 1 {
		return fmt.Errorf("batch size must be at least 1, got %d", batchSize)
	}
	if maxRetries < 1 {
		return fmt.Errorf("max retries must be at least 1, got %d", maxRetries)
	}

	emails, err := p.mailbox.FetchUnread(ctx, batchSize)
	if err != nil {
		p.log.Error("fetching unread emails failed", zap.Error(err))
		return &BatchError{Err: fmt.Errorf("fetching unread emails: %w", err)}
	}

	p.log.Info("fetched unread emails",
		zap.Int("count", len(emails)),
		zap.Int("batch_size", batchSize),
	)

	var failed []*EmailError
	for i, email := range emails {
		err := p.processEmail(ctx, email, maxRetries)
		if err == nil {
			continue
		}

		if analyzer.IsCreditsError(err) {
			p.log.Error("aborting batch: analyzer credits exhausted",
				zap.String("email_id", email.ID),
				zap.Int("not_attempted", len(emails)-i-1),
				zap.Error(err),
			)
			return &BatchError{Err: err}
		}

		var emailErr *EmailError
		if !errors.As(err, &emailErr) {
			emailErr = &EmailError{EmailID: email.ID, Attempts: maxRetries, Err: err}
		}

		if !p.continueOnFailure {
			p.log.Error("aborting batch after email failure",
				zap.String("email_id", email.ID),
				zap.Int("not_attempted", len(emails)-i-1),
				zap.Error(err),
			)
			return &BatchError{Err: emailErr}
		}

		p.log.Warn("continuing batch past failed email",
			zap.String("email_id", email.ID),
			zap.Error(err),
		)
		failed = append(failed, emailErr)
	}

	if len(failed) > 0 {
		return &BatchError{Err: fmt.Errorf(
			"%d of %d emails failed, last: %w",
			len(failed), len(emails), failed[len(failed)-1],
		)}
	}

	p.log.Info("batch complete", zap.Int("processed", len(emails)))
	return nil
}

// processEmail drives one email through the classify-act-record cycle
// with up to maxRetries attempts and exponential backoff between them.
// A credits error propagates immediately: the account cannot recover
// within this run, so neither a retry nor a failure record applies.
func (p *Processor) processEmail(
	ctx context.Context,
	email *model.Email,
	maxRetries int,
) error {
	var lastErr error

	for attempt := 1; attempt <= maxRetries; attempt++ {
		p.log.Debug("processing attempt",
			zap.String("email_id", email.ID),
			zap.Int("attempt", attempt),
		)

		err := p.attempt(ctx, email)
		if err == nil {
			p.log.Debug("email processed",
				zap.String("email_id", email.ID),
				zap.Int("attempt", attempt),
			)
			return nil
		}
		if analyzer.IsCreditsError(err) {
			return err
		}

		lastErr = err
		p.log.Warn("attempt failed",
			zap.String("email_id", email.ID),
			zap.Int("attempt", attempt),
			zap.Error(err),
		)

		if attempt < maxRetries {
			p.sleep(backoffDelay(attempt))
		}
	}

	p.log.Error("all attempts failed",
		zap.String("email_id", email.ID),
		zap.Int("attempts", maxRetries),
		zap.Error(lastErr),
	)
	p.recordFailure(ctx, email, lastErr)

	return &EmailError{EmailID: email.ID, Attempts: maxRetries, Err: lastErr}
}

// attempt runs a single classify-act-record cycle. Any error, the
// success audit write included, fails the whole attempt so the retry
// loop sees it.
func (p *Processor) attempt(ctx context.Context, email *model.Email) error {
	analysis, err := p.analyzer.AnalyzeEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("analyzing email: %w", err)
	}

	p.log.Debug("email classified",
		zap.String("email_id", email.ID),
		zap.String("category", analysis.Category.String()),
		zap.Float64("confidence", analysis.Confidence),
	)

	if err := p.dispatch(ctx, email, analysis); err != nil {
		return err
	}

	rec := model.ProcessingRecord{
		EmailID:    email.ID,
		Action:     model.ActionProcessed,
		Category:   analysis.Category,
		Confidence: analysis.Confidence,
		Success:    true,
		Reasoning:  analysis.Reasoning,
	}
	if err := p.store.CreateProcessingRecord(ctx, rec); err != nil {
		return fmt.Errorf("recording outcome: %w", err)
	}

	return nil
}

// dispatch applies the category's disposition. Store writes come
// before mailbox mutations: when a run dies between the two, the
// durable record still says what should have happened to the message.
func (p *Processor) dispatch(
	ctx context.Context,
	email *model.Email,
	analysis *model.EmailAnalysis,
) error {
	switch analysis.Category {
	case model.CategoryNonEssential:
		return p.discard(ctx, email)
	case model.CategorySaveAndSummarize:
		return p.archive(ctx, email, analysis)
	case model.CategoryImportant:
		return p.retain(ctx, email)
	default:
		return fmt.Errorf("unknown category %q for email %s", analysis.Category, email.ID)
	}
}

// discard stores a copy of a non-essential email, then moves the
// original to trash.
func (p *Processor) discard(ctx context.Context, email *model.Email) error {
	rec := model.DiscardedEmail{
		EmailID: email.ID,
		Subject: email.Subject,
		Sender:  email.Sender,
		Content: email.Body,
	}
	if err := p.store.CreateDiscardedEmail(ctx, rec); err != nil {
		return fmt.Errorf("storing discarded email: %w", err)
	}

	if err := p.mailbox.MoveToTrash(ctx, email.ID); err != nil {
		return fmt.Errorf("trashing email: %w", err)
	}

	p.log.Info("discarded non-essential email", zap.String("email_id", email.ID))
	return nil
}

// archive generates the summary, stores content plus summary, then
// moves the original to trash. A missing summary aborts before the
// store write; a failed write aborts before the trash call.
func (p *Processor) archive(
	ctx context.Context,
	email *model.Email,
	analysis *model.EmailAnalysis,
) error {
	summary, err := p.analyzer.GenerateSummary(ctx, email)
	if err != nil {
		return fmt.Errorf("generating summary: %w", err)
	}
	if strings.TrimSpace(summary) == "" {
		return fmt.Errorf("empty summary for email %s", email.ID)
	}

	rec := model.ArchivedContent{
		EmailID:    email.ID,
		Subject:    email.Subject,
		Sender:     email.Sender,
		Content:    email.Body,
		Summary:    summary,
		Category:   analysis.Category,
		ReceivedAt: email.ReceivedAt,
	}
	if err := p.store.CreateArchivedContent(ctx, rec); err != nil {
		return fmt.Errorf("archiving content: %w", err)
	}

	if err := p.mailbox.MoveToTrash(ctx, email.ID); err != nil {
		return fmt.Errorf("trashing email: %w", err)
	}

	p.log.Info("archived email with summary", zap.String("email_id", email.ID))
	return nil
}

// retain marks an important email read and leaves it in the inbox.
func (p *Processor) retain(ctx context.Context, email *model.Email) error {
	if err := p.mailbox.MarkAsRead(ctx, email.ID); err != nil {
		return fmt.Errorf("marking email read: %w", err)
	}

	p.log.Info("marked important email read", zap.String("email_id", email.ID))
	return nil
}

// recordFailure writes the terminal failure record and returns the
// email to the unread state so a later run retries it. Both steps are
// best-effort: their own failures are logged but never mask the
// processing error the caller is about to receive.
func (p *Processor) recordFailure(
	ctx context.Context,
	email *model.Email,
	cause error,
) {
	rec := model.ProcessingRecord{
		EmailID:      email.ID,
		Action:       model.ActionFailed,
		Category:     model.CategoryImportant,
		Confidence:   0.0,
		Success:      false,
		ErrorMessage: cause.Error(),
		Reasoning:    failureReasoning,
	}
	if err := p.store.CreateProcessingRecord(ctx, rec); err != nil {
		p.log.Error("writing failure record failed",
			zap.String("email_id", email.ID),
			zap.Error(err),
		)
	}

	if err := p.mailbox.MarkAsUnread(ctx, email.ID); err != nil {
		p.log.Warn("marking failed email unread failed",
			zap.String("email_id", email.ID),
			zap.Error(err),
		)
	}
}

// backoffDelay is the sleep after a failed attempt: 2^attempt seconds,
// so 2s after the first failure, then 4s, 8s, and so on. maxRetries is
// small enough that the growth never needs a cap.
func backoffDelay(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}
