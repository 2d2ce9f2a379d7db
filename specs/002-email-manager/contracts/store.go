// Package contracts/store defines the persistence interface.
// The store holds three kinds of records: copies of discarded emails,
// archived content with summaries, and the processing audit trail.
// Everything is written before the corresponding mailbox mutation, so
// a crash can leave an extra copy but never a silent deletion.
//
// Backends: SQLite (modernc.org/sqlite, local file) and PostgreSQL
// (pgx stdlib driver), selected by config. One SQL body with ?
// placeholders, rebound per driver.
package contracts

// Store defines the interface for the audit/archive database.

// Key operations:
//
// CreateDiscardedEmail / GetDiscardedEmail:
//   Write the full copy of a non-essential email before it is trashed;
//   look one up by provider email id. email_id is UNIQUE: processing
//   the same message twice is a bug upstream and the second write is
//   rejected, not deduplicated.
//
// CreateArchivedContent / ListArchivedContent:
//   Write the copy plus generated summary for a save-and-summarize
//   email before it is trashed. email_id UNIQUE as above. Listing
//   filters by category and by substring match on subject/sender,
//   newest received first, with limit/offset pagination.
//
// CreateProcessingRecord / ListProcessingRecords:
//   Append one audit row per terminal per-email outcome: action
//   (processed/failed), category, confidence, success flag, error
//   message, reasoning, timestamp. Rows are never updated. Listing
//   filters by email id, action, or success, newest first.
//
// Migrations:
//   Versioned DDL lists applied on open, tracked in schema_version.
//   v1 creates the three tables; v2 adds the confidence column to
//   processing_history. Per-driver lists carry the dialect differences
//   (DATETIME vs TIMESTAMPTZ, INTEGER vs SMALLINT booleans).
//
// Invariants:
//   - Create methods assign UUIDs and UTC timestamps; callers never do
//   - Persist-before-mutate: the engine calls Create* before any
//     MoveToTrash, and a store error suppresses the mailbox call
//   - ClearProcessingRecords exists for tests only
