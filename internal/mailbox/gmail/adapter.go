// Package gmail adapts a Gmail account to the mailbox.Mailbox
// interface via the Gmail REST API. Message IDs in model.Email.ID are
// Gmail message IDs.
package gmail

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/googleapi"

	"github.com/nhle/email-manager/internal/mailbox"
	"github.com/nhle/email-manager/internal/model"
)

const (
	defaultSubject = "(No Subject)"
	defaultSender  = "Unknown Sender"

	unreadLabel = "UNREAD"
)

// Mailbox adapts a Gmail account to the mailbox.Mailbox interface.
type Mailbox struct {
	svc  *gmail.Service
	user string
}

var _ mailbox.Mailbox = (*Mailbox)(nil)

// New authenticates against the Gmail API using the configured OAuth
// credentials and token files and returns a Gmail-backed mailbox.
func New(ctx context.Context, cfg model.GmailConfig) (*Mailbox, error) {
	svc, err := newService(ctx, cfg.CredentialsFile, cfg.TokenFile)
	if err != nil {
		return nil, err
	}
	return &Mailbox{svc: svc, user: "me"}, nil
}

// Name identifies the provider in logs.
func (m *Mailbox) Name() string { return "gmail" }

// FetchUnread lists up to maxResults unread messages and fetches each
// in full. Listing does not change read state.
func (m *Mailbox) FetchUnread(
	ctx context.Context, maxResults int,
) ([]*model.Email, error) {
	resp, err := m.svc.Users.Messages.List(m.user).
		Q("is:unread").
		MaxResults(int64(maxResults)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, wrapAPIError("listing unread messages", err)
	}

	emails := make([]*model.Email, 0, len(resp.Messages))
	for _, ref := range resp.Messages {
		msg, err := m.svc.Users.Messages.Get(m.user, ref.Id).
			Format("full").
			Context(ctx).
			Do()
		if err != nil {
			return nil, wrapAPIError(
				fmt.Sprintf("fetching message %s", ref.Id), err,
			)
		}
		emails = append(emails, toEmail(msg))
	}

	return emails, nil
}

// MoveToTrash moves the message to the Gmail trash.
func (m *Mailbox) MoveToTrash(ctx context.Context, id string) error {
	_, err := m.svc.Users.Messages.Trash(m.user, id).Context(ctx).Do()
	if err != nil {
		return wrapAPIError(fmt.Sprintf("trashing message %s", id), err)
	}
	return nil
}

// MarkAsRead removes the UNREAD label from the message.
func (m *Mailbox) MarkAsRead(ctx context.Context, id string) error {
	return m.modifyLabels(ctx, id, nil, []string{unreadLabel})
}

// MarkAsUnread adds the UNREAD label back to the message.
func (m *Mailbox) MarkAsUnread(ctx context.Context, id string) error {
	return m.modifyLabels(ctx, id, []string{unreadLabel}, nil)
}

func (m *Mailbox) modifyLabels(
	ctx context.Context, id string, add, remove []string,
) error {
	req := &gmail.ModifyMessageRequest{
		AddLabelIds:    add,
		RemoveLabelIds: remove,
	}
	_, err := m.svc.Users.Messages.Modify(m.user, id, req).
		Context(ctx).
		Do()
	if err != nil {
		return wrapAPIError(fmt.Sprintf("modifying message %s", id), err)
	}
	return nil
}

// toEmail converts a Gmail API message to the provider-neutral form.
func toEmail(msg *gmail.Message) *model.Email {
	subject := defaultSubject
	sender := defaultSender

	if msg.Payload != nil {
		for _, h := range msg.Payload.Headers {
			switch h.Name {
			case "Subject":
				if h.Value != "" {
					subject = h.Value
				}
			case "From":
				if h.Value != "" {
					sender = h.Value
				}
			}
		}
	}

	receivedAt := time.Now().UTC()
	if msg.InternalDate > 0 {
		receivedAt = time.UnixMilli(msg.InternalDate).UTC()
	}

	return &model.Email{
		ID:         msg.Id,
		Subject:    subject,
		Sender:     sender,
		Body:       extractBody(msg.Payload),
		ReceivedAt: receivedAt,
	}
}

// extractBody pulls readable text out of a message part tree,
// preferring text/plain parts and falling back to rendered text/html.
func extractBody(payload *gmail.MessagePart) string {
	if payload == nil {
		return ""
	}

	if text := collectParts(payload, "text/plain"); text != "" {
		return text
	}
	if html := collectParts(payload, "text/html"); html != "" {
		return mailbox.HTMLToText(html)
	}
	return ""
}

// collectParts walks the part tree depth-first and concatenates the
// decoded bodies of every part with the given MIME type.
func collectParts(part *gmail.MessagePart, mimeType string) string {
	var sb strings.Builder
	walkParts(part, mimeType, &sb)
	return sb.String()
}

func walkParts(part *gmail.MessagePart, mimeType string, sb *strings.Builder) {
	if part == nil {
		return
	}

	if strings.HasPrefix(part.MimeType, mimeType) &&
		part.Body != nil && part.Body.Data != "" {
		if data, err := decodeBase64URL(part.Body.Data); err == nil {
			sb.Write(data)
		}
	}

	for _, child := range part.Parts {
		walkParts(child, mimeType, sb)
	}
}

// decodeBase64URL decodes Gmail body data, which is base64url without
// padding. Some messages arrive standard-encoded, so try that too.
func decodeBase64URL(data string) ([]byte, error) {
	decoded, err := base64.RawURLEncoding.DecodeString(data)
	if err == nil {
		return decoded, nil
	}

	b, err2 := base64.StdEncoding.DecodeString(data)
	if err2 != nil {
		return nil, fmt.Errorf("decoding message body: %v / %v", err, err2)
	}
	return b, nil
}

// wrapAPIError converts Gmail API authorization failures into
// mailbox.AuthError so callers can tell credential problems apart
// from transient API errors.
func wrapAPIError(op string, err error) error {
	var gErr *googleapi.Error
	if errors.As(err, &gErr) &&
		(gErr.Code == http.StatusUnauthorized || gErr.Code == http.StatusForbidden) {
		return &mailbox.AuthError{
			Provider: "gmail",
			Message:  fmt.Sprintf("%s: %v", op, err),
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
