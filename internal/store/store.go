package store

import (
	"context"

	"github.com/nhle/email-manager/internal/model"
)

// HistoryFilter controls filtering and pagination for processing record
// queries. Nil pointer fields match everything.
type HistoryFilter struct {
	EmailID *string
	Action  *model.Action
	Success *bool
	Limit   int
	Offset  int
}

// ArchiveFilter controls filtering and pagination for archived content
// queries. Query searches subject and sender.
type ArchiveFilter struct {
	Category *model.Category
	Query    *string
	Limit    int
	Offset   int
}

// Store is the persistence interface for discard records, archived
// content, and the processing audit trail. Create methods assign record
// IDs and write timestamps; each call is a single transaction.
type Store interface {
	// === Discarded emails ===

	// CreateDiscardedEmail stores the copy of a non-essential email.
	// A second record for the same provider email id is rejected.
	CreateDiscardedEmail(ctx context.Context, rec model.DiscardedEmail) error
	GetDiscardedEmail(ctx context.Context, emailID string) (*model.DiscardedEmail, error)

	// === Archived content ===

	// CreateArchivedContent stores the copy and summary of an email
	// worth keeping. A second record for the same provider email id
	// is rejected.
	CreateArchivedContent(ctx context.Context, rec model.ArchivedContent) error
	ListArchivedContent(ctx context.Context, filter ArchiveFilter) ([]model.ArchivedContent, error)

	// === Processing history ===

	CreateProcessingRecord(ctx context.Context, rec model.ProcessingRecord) error
	ListProcessingRecords(ctx context.Context, filter HistoryFilter) ([]model.ProcessingRecord, error)

	// ClearProcessingRecords deletes the whole audit trail. Test use
	// only; nothing in the processing path calls it.
	ClearProcessingRecords(ctx context.Context) error

	Close() error
}
