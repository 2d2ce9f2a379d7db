package model

import "time"

// Action labels the terminal outcome recorded for one processed email.
type Action string

const (
	// ActionProcessed means the email reached its disposition successfully.
	ActionProcessed Action = "processed"

	// ActionFailed means every retry attempt was exhausted.
	ActionFailed Action = "failed"
)

// DiscardedEmail is the durable copy of a non-essential message, written
// before the original is moved to trash so nothing is lost without a record.
type DiscardedEmail struct {
	// ID is the internal record identifier (UUID).
	ID string `json:"id"`

	// EmailID is the provider message id. Unique: the same message can
	// only be discarded once.
	EmailID string `json:"email_id"`

	// Subject is the message subject at deletion time.
	Subject string `json:"subject"`

	// Sender is the message sender at deletion time.
	Sender string `json:"sender"`

	// Content is the plain-text body copy.
	Content string `json:"content"`

	// DeletedAt is when the record was written (UTC).
	DeletedAt time.Time `json:"deleted_at"`
}

// ArchivedContent is the saved copy plus generated summary for a message
// classified as worth keeping, written before the original is trashed.
type ArchivedContent struct {
	// ID is the internal record identifier (UUID).
	ID string `json:"id"`

	// EmailID is the provider message id. Unique: the same message can
	// only be archived once.
	EmailID string `json:"email_id"`

	// Subject is the message subject.
	Subject string `json:"subject"`

	// Sender is the message sender.
	Sender string `json:"sender"`

	// Content is the full plain-text body.
	Content string `json:"content"`

	// Summary is the generated bullet-point digest, one point per line.
	Summary string `json:"summary"`

	// Category is the classification that routed the message here.
	Category Category `json:"category"`

	// ReceivedAt is when the original message arrived.
	ReceivedAt time.Time `json:"received_at"`

	// ArchivedAt is when the record was written (UTC).
	ArchivedAt time.Time `json:"archived_at"`
}

// ProcessingRecord is the audit row for one terminal per-email outcome.
// Exactly one is written per email per batch run: on success, or once
// retries are exhausted. Rows are never updated.
type ProcessingRecord struct {
	// ID is the internal record identifier (UUID).
	ID string `json:"id"`

	// EmailID is the provider message id.
	EmailID string `json:"email_id"`

	// Action is the terminal outcome (processed or failed).
	Action Action `json:"action"`

	// Category is the category assigned by the classifier, or
	// CategoryImportant on failure (fail-safe: never discard on an
	// ambiguous outcome).
	Category Category `json:"category"`

	// Confidence is the classifier confidence, 0.0 on failure.
	Confidence float64 `json:"confidence"`

	// Success reports whether the disposition was applied.
	Success bool `json:"success"`

	// ErrorMessage carries the last attempt's error text on failure.
	ErrorMessage string `json:"error_message,omitempty"`

	// Reasoning is the classifier's explanation, or the fixed failure
	// marker when no classification survived.
	Reasoning string `json:"reasoning,omitempty"`

	// ProcessedAt is when the record was written (UTC).
	ProcessedAt time.Time `json:"processed_at"`
}
