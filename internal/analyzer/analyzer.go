// Package analyzer classifies email content and generates summaries using
// the Claude Messages API.
package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/email-manager/internal/model"
)

// Analyzer is the classification contract consumed by the processing
// engine. Implementations may keep cross-call state (the credits
// short-circuit); they are not required to be safe for concurrent use.
type Analyzer interface {
	// AnalyzeEmail classifies one email. A malformed or invalid model
	// response is an error, never a defaulted classification.
	AnalyzeEmail(ctx context.Context, email *model.Email) (*model.EmailAnalysis, error)

	// GenerateSummary produces a bullet-point digest of the email,
	// one point per line. An empty digest is an error.
	GenerateSummary(ctx context.Context, email *model.Email) (string, error)
}

// CreditsError indicates the API account's credit balance is exhausted.
// It is fatal: no retry can succeed until the account is recharged, so
// callers must not retry and the client refuses further wire calls for
// the rest of the process lifetime.
type CreditsError struct {
	Message string
}

func (e *CreditsError) Error() string {
	return fmt.Sprintf("insufficient Claude API credits: %s", e.Message)
}

// IsCreditsError reports whether err (or any error in its chain) is a
// CreditsError.
func IsCreditsError(err error) bool {
	var ce *CreditsError
	return errors.As(err, &ce)
}
