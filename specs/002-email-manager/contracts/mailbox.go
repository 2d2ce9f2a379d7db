// Package contracts/mailbox defines the mail provider interface.
// A mailbox adapter hides one provider's transport (Gmail REST or raw
// IMAP) behind the four operations the processing engine needs. The
// engine never issues provider calls directly.
package contracts

// Mailbox defines the interface for reading and mutating a mail account.

// Key operations:
//
// FetchUnread:
//   Return up to limit unread messages from the inbox, each reduced to
//   the engine's email shape: provider message id, subject, sender,
//   plain-text body, received timestamp. HTML-only messages are
//   converted to plain text (tags stripped, scripts/styles dropped).
//   Fetching does NOT mark messages as read.
//
// MoveToTrash:
//   Move one message to the provider's trash folder by id. Used for
//   both discarded and archived emails, always after the durable copy
//   has been written. Trash, not permanent delete: the provider's
//   retention window is the final safety net.
//
// MarkAsRead:
//   Set the read flag on one message. The disposition for important
//   emails: they stay in the inbox, just no longer unread.
//
// MarkAsUnread:
//   Clear the read flag. Used only on processing failure so a human
//   will see the email the engine could not handle. Best effort: a
//   failure here is logged, never propagated.
//
// Provider mapping:
//   Gmail: unread = labelIds contains UNREAD; trash = users.messages.trash;
//     read flag = removeLabelIds/addLabelIds UNREAD.
//   IMAP: unread = UNSEEN search; trash = copy to trash mailbox + \Deleted
//     + expunge; read flag = \Seen store.
//
// Error handling:
//   - Fetch failure: aborts the batch before any email is touched
//   - Mutation failure (trash, mark read): retryable per email
//   - Auth failure: typed (IsAuthError) so the CLI can suggest re-running
//     setup instead of printing a bare protocol error
