package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/email-manager/internal/model"
)

// CreateDiscardedEmail stores the durable copy of a non-essential email.
// Generates a UUID if ID is empty and stamps DeletedAt in UTC. The
// unique index on email_id rejects a second record for the same message.
func (s *SQLStore) CreateDiscardedEmail(
	ctx context.Context,
	rec model.DiscardedEmail,
) error {
	if strings.TrimSpace(rec.EmailID) == "" {
		return fmt.Errorf("discarded email id must not be empty")
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	rec.DeletedAt = time.Now().UTC()

	query := s.db.Rebind(`
		INSERT INTO discarded_emails (
			id, email_id, subject, sender, content, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?)`)

	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.EmailID, rec.Subject, rec.Sender,
		rec.Content, rec.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("storing discarded email %s: %w", rec.EmailID, err)
	}
	return nil
}

// GetDiscardedEmail retrieves the discard record for a provider email
// id, or nil when the message was never discarded.
func (s *SQLStore) GetDiscardedEmail(
	ctx context.Context,
	emailID string,
) (*model.DiscardedEmail, error) {
	query := s.db.Rebind(
		"SELECT id, email_id, subject, sender, content, deleted_at " +
			"FROM discarded_emails WHERE email_id = ?")

	rows, err := s.db.QueryxContext(ctx, query, emailID)
	if err != nil {
		return nil, fmt.Errorf("querying discarded email %s: %w", emailID, err)
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}

	var rec model.DiscardedEmail
	err = rows.Scan(
		&rec.ID, &rec.EmailID, &rec.Subject, &rec.Sender,
		&rec.Content, &rec.DeletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("scanning discarded email row: %w", err)
	}

	return &rec, rows.Err()
}
