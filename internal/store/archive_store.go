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

// CreateArchivedContent stores the copy and summary of an email worth
// keeping. Generates a UUID if ID is empty and stamps ArchivedAt in
// UTC; ReceivedAt is the caller's (it belongs to the message, not the
// write). The unique index on email_id rejects duplicate archival.
func (s *SQLStore) CreateArchivedContent(
	ctx context.Context,
	rec model.ArchivedContent,
) error {
	if strings.TrimSpace(rec.EmailID) == "" {
		return fmt.Errorf("archived email id must not be empty")
	}
	if strings.TrimSpace(rec.Summary) == "" {
		return fmt.Errorf("archived content summary must not be empty")
	}
	if !rec.Category.Valid() {
		return fmt.Errorf("invalid category %q", rec.Category)
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.ArchivedAt = time.Now().UTC()

	query := s.db.Rebind(`
		INSERT INTO archived_content (
			id, email_id, subject, sender, content,
			summary, category, received_at, archived_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.EmailID, rec.Subject, rec.Sender, rec.Content,
		rec.Summary, string(rec.Category), rec.ReceivedAt, rec.ArchivedAt,
	)
	if err != nil {
		return fmt.Errorf("archiving content for %s: %w", rec.EmailID, err)
	}
	return nil
}

// ListArchivedContent retrieves archived entries matching the filter,
// newest received first.
func (s *SQLStore) ListArchivedContent(
	ctx context.Context,
	filter ArchiveFilter,
) ([]model.ArchivedContent, error) {
	var conditions []string
	var args []interface{}

	if filter.Category != nil {
		conditions = append(conditions, "category = ?")
		args = append(args, string(*filter.Category))
	}
	if filter.Query != nil && *filter.Query != "" {
		conditions = append(conditions, "(subject LIKE ? OR sender LIKE ?)")
		q := "%" + *filter.Query + "%"
		args = append(args, q, q)
	}

	query := "SELECT id, email_id, subject, sender, content, " +
		"summary, category, received_at, archived_at FROM archived_content"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY received_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET %d", filter.Offset)
	}

	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("querying archived content: %w", err)
	}
	defer rows.Close()

	var entries []model.ArchivedContent
	for rows.Next() {
		rec, err := scanArchivedContent(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, rec)
	}

	return entries, rows.Err()
}

// scanArchivedContent scans an archived content row from a sqlx.Rows
// result set.
func scanArchivedContent(rows *sqlx.Rows) (model.ArchivedContent, error) {
	var (
		rec      model.ArchivedContent
		category string
	)

	err := rows.Scan(
		&rec.ID, &rec.EmailID, &rec.Subject, &rec.Sender, &rec.Content,
		&rec.Summary, &category, &rec.ReceivedAt, &rec.ArchivedAt,
	)
	if err != nil {
		return model.ArchivedContent{}, fmt.Errorf("scanning archived content row: %w", err)
	}

	rec.Category = model.Category(category)
	return rec, nil
}
