package imap

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"

	"github.com/nhle/email-manager/internal/mailbox"
	"github.com/nhle/email-manager/internal/model"
)

// Mailbox adapts an IMAP account to the mailbox.Mailbox interface.
// Message UIDs are exposed as decimal strings in model.Email.ID.
type Mailbox struct {
	client *Client
}

var _ mailbox.Mailbox = (*Mailbox)(nil)

// New creates an IMAP-backed mailbox. The password comes from the
// keyring or environment, never from the config file.
func New(cfg model.IMAPConfig, password string) *Mailbox {
	return &Mailbox{
		client: NewClient(
			cfg.Host, cfg.Port, cfg.Username, password, cfg.UseStartTLS,
		),
	}
}

// Name identifies the provider in logs.
func (m *Mailbox) Name() string { return "imap" }

// FetchUnread returns up to maxResults unread INBOX messages without
// marking them read.
func (m *Mailbox) FetchUnread(
	ctx context.Context, maxResults int,
) ([]*model.Email, error) {
	parsed, err := m.client.FetchUnread(ctx, maxResults)
	if err != nil {
		return nil, err
	}

	emails := make([]*model.Email, 0, len(parsed))
	for i := range parsed {
		emails = append(emails, toEmail(&parsed[i]))
	}

	return emails, nil
}

// MoveToTrash moves the message with the given UID to a trash folder.
func (m *Mailbox) MoveToTrash(ctx context.Context, id string) error {
	uid, err := parseUID(id)
	if err != nil {
		return err
	}
	return m.client.MoveToTrash(ctx, uid)
}

// MarkAsRead sets the \Seen flag on the message.
func (m *Mailbox) MarkAsRead(ctx context.Context, id string) error {
	uid, err := parseUID(id)
	if err != nil {
		return err
	}
	return m.client.SetFlags(ctx, uid, []imap.Flag{imap.FlagSeen}, true)
}

// MarkAsUnread clears the \Seen flag on the message.
func (m *Mailbox) MarkAsUnread(ctx context.Context, id string) error {
	uid, err := parseUID(id)
	if err != nil {
		return err
	}
	return m.client.SetFlags(ctx, uid, []imap.Flag{imap.FlagSeen}, false)
}

// toEmail converts a parsed IMAP message to the provider-neutral
// form, preferring the plain text body and falling back to rendered
// HTML.
func toEmail(msg *ParsedMessage) *model.Email {
	body := strings.TrimSpace(msg.TextBody)
	if body == "" && msg.HTMLBody != "" {
		body = mailbox.HTMLToText(msg.HTMLBody)
	}

	receivedAt := msg.Envelope.Date
	if receivedAt.IsZero() {
		receivedAt = time.Now().UTC()
	}

	return &model.Email{
		ID:         strconv.FormatUint(uint64(msg.Envelope.UID), 10),
		Subject:    msg.Envelope.Subject,
		Sender:     msg.Envelope.From,
		Body:       body,
		ReceivedAt: receivedAt,
	}
}

// parseUID converts a string email ID back to an IMAP UID.
func parseUID(id string) (uint32, error) {
	uid, err := strconv.ParseUint(id, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid IMAP UID %q: %w", id, err)
	}
	return uint32(uid), nil
}
