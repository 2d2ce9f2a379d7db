// Package imap adapts an IMAP account to the mailbox.Mailbox
// interface, using go-imap v2 for protocol access and go-message for
// MIME parsing.
package imap

import "time"

// Envelope holds the header data fetched for a message.
type Envelope struct {
	// UID is the server-assigned unique identifier within INBOX.
	UID uint32

	// Subject is the decoded Subject header.
	Subject string

	// From is the display name of the first sender, or the bare
	// address when no display name is set.
	From string

	// Date is the message date from the envelope.
	Date time.Time
}

// ParsedMessage is a fetched message with its MIME body decoded.
type ParsedMessage struct {
	// Envelope holds the message headers.
	Envelope Envelope

	// TextBody is the text/plain part, if present.
	TextBody string

	// HTMLBody is the text/html part, if present.
	HTMLBody string
}
