package model

import "time"

// Email is one message under consideration, as fetched from a mailbox
// provider. It is read-only after construction: the processing engine never
// mutates it, only the provider-side copy changes state (trashed, marked
// read, marked unread).
type Email struct {
	// ID is the provider-assigned message identifier (Gmail message id or
	// decimal IMAP UID). Opaque to everything except the owning mailbox.
	ID string `json:"id"`

	// Subject is the decoded Subject header, possibly empty.
	Subject string `json:"subject"`

	// Sender is the From header as displayed (name and/or address).
	Sender string `json:"sender"`

	// Body is the plain-text body. HTML-only messages are converted to
	// text by the mailbox adapter before they reach this struct.
	Body string `json:"body"`

	// ReceivedAt is when the message arrived, with its original zone
	// information preserved.
	ReceivedAt time.Time `json:"received_at"`
}
