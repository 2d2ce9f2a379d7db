// Package mailbox defines the contract for mail provider adapters and the
// shared error taxonomy they report through.
package mailbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/nhle/email-manager/internal/model"
)

// AuthError indicates that authentication has failed or expired for a
// mail provider. It is returned by adapters when the provider rejects
// the configured credentials.
type AuthError struct {
	Provider string
	Message  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Provider, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Mailbox is the contract every mail provider adapter implements. Message
// ids are opaque to callers and only meaningful to the adapter that
// produced them.
type Mailbox interface {
	// Name returns the provider identifier, used in logs and errors.
	Name() string

	// FetchUnread returns up to maxResults unread messages with their
	// bodies decoded to plain text. A transport or quota failure here
	// fails the whole batch upstream.
	FetchUnread(ctx context.Context, maxResults int) ([]*model.Email, error)

	// MoveToTrash moves a message to the provider's trash.
	MoveToTrash(ctx context.Context, id string) error

	// MarkAsRead flags a message as read, leaving it in place.
	MarkAsRead(ctx context.Context, id string) error

	// MarkAsUnread returns a message to the unread state so a later run
	// picks it up again.
	MarkAsUnread(ctx context.Context, id string) error
}
