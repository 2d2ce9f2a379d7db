package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/nhle/email-manager/internal/model"
)

// CreateProcessingRecord appends one audit row for a terminal per-email
// outcome. Generates a UUID if ID is empty and stamps ProcessedAt in
// UTC. Rows are append-only; nothing updates them afterwards.
func (s *SQLStore) CreateProcessingRecord(
	ctx context.Context,
	rec model.ProcessingRecord,
) error {
	if strings.TrimSpace(rec.EmailID) == "" {
		return fmt.Errorf("processing record email id must not be empty")
	}
	if rec.Action != model.ActionProcessed && rec.Action != model.ActionFailed {
		return fmt.Errorf("invalid action %q", rec.Action)
	}
	if !rec.Category.Valid() {
		return fmt.Errorf("invalid category %q", rec.Category)
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.ProcessedAt = time.Now().UTC()

	query := s.db.Rebind(`
		INSERT INTO processing_history (
			id, email_id, action, category, success,
			error_message, reasoning, processed_at, confidence
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.EmailID, string(rec.Action), string(rec.Category),
		boolToInt(rec.Success), rec.ErrorMessage, rec.Reasoning,
		rec.ProcessedAt, rec.Confidence,
	)
	if err != nil {
		return fmt.Errorf("recording processing of %s: %w", rec.EmailID, err)
	}
	return nil
}

// ListProcessingRecords retrieves audit rows matching the filter,
// newest first.
func (s *SQLStore) ListProcessingRecords(
	ctx context.Context,
	filter HistoryFilter,
) ([]model.ProcessingRecord, error) {
	var conditions []string
	var args []interface{}

	if filter.EmailID != nil {
		conditions = append(conditions, "email_id = ?")
		args = append(args, *filter.EmailID)
	}
	if filter.Action != nil {
		conditions = append(conditions, "action = ?")
		args = append(args, string(*filter.Action))
	}
	if filter.Success != nil {
		conditions = append(conditions, "success = ?")
		args = append(args, boolToInt(*filter.Success))
	}

	query := "SELECT id, email_id, action, category, success, " +
		"error_message, reasoning, processed_at, confidence FROM processing_history"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY processed_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying processing history: %w", err)
	}
	defer rows.Close()

	var records []model.ProcessingRecord
	for rows.Next() {
		rec, err := scanProcessingRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// ClearProcessingRecords deletes every audit row. Test use only.
func (s *SQLStore) ClearProcessingRecords(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM processing_history"); err != nil {
		return fmt.Errorf("clearing processing history: %w", err)
	}
	return nil
}

// scanProcessingRecord scans an audit row from a sqlx.Rows result set.
func scanProcessingRecord(rows *sqlx.Rows) (model.ProcessingRecord, error) {
	var (
		rec      model.ProcessingRecord
		action   string
		category string
		success  int
	)

	err := rows.Scan(
		&rec.ID, &rec.EmailID, &action, &category, &success,
		&rec.ErrorMessage, &rec.Reasoning, &rec.ProcessedAt, &rec.Confidence,
	)
	if err != nil {
		return model.ProcessingRecord{}, fmt.Errorf("scanning processing record row: %w", err)
	}

	rec.Action = model.Action(action)
	rec.Category = model.Category(category)
	rec.Success = success != 0

	return rec, nil
}
