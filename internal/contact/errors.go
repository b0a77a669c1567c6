package contact

import (
	"context"
	"errors"
	"fmt"
)

// ValidationError is one field's failure. It stays inside the form; callers
// render it inline and never send it anywhere.
type ValidationError struct {
	Field   Field
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// SubmissionError wraps a failure from the message-send collaborator. The
// cause is for logs; users only ever see NoticeFailure.
type SubmissionError struct {
	Cause error
}

func (e *SubmissionError) Error() string {
	if e.Cause == nil {
		return "contact: submission failed"
	}
	return "contact: submission failed: " + e.Cause.Error()
}

func (e *SubmissionError) Unwrap() error { return e.Cause }

// Timeout reports whether the send was abandoned because it took too long.
func (e *SubmissionError) Timeout() bool {
	return errors.Is(e.Cause, context.DeadlineExceeded)
}

var errNoSender = errors.New("contact: no sender configured")
