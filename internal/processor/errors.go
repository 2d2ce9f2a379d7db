package processor

import "fmt"

// EmailError reports that one email's retries were exhausted. By the
// time the caller sees it, the failure audit record has been written
// and the message returned to the unread state.
type EmailError struct {
	// EmailID is the provider message id.
	EmailID string

	// Attempts is how many classify-and-act cycles were tried.
	Attempts int

	// Err is the last attempt's failure.
	Err error
}

func (e *EmailError) Error() string {
	return fmt.Sprintf(
		"failed to process email %s after %d attempts: %v",
		e.EmailID, e.Attempts, e.Err,
	)
}

func (e *EmailError) Unwrap() error { return e.Err }

// BatchError reports that a batch run did not complete cleanly: the
// unread fetch failed, an email failure aborted the run, or, under the
// continue policy, at least one email failed along the way.
type BatchError struct {
	Err error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("batch processing failed: %v", e.Err)
}

func (e *BatchError) Unwrap() error { return e.Err }
