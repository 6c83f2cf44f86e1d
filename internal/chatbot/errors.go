package chatbot

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks a request the resolver refuses to process.
	ErrValidation = errors.New("invalid request")

	// ErrNotFound marks an unknown conversation or one owned by someone else.
	ErrNotFound = errors.New("conversation not found")

	// ErrMissingOwner is the validation failure for a turn with no caller.
	ErrMissingOwner = fmt.Errorf("%w: missing caller identity", ErrValidation)
)

// PersistenceError reports a failed conversation write. The turn was not
// stored; callers may resend the whole message.
type PersistenceError struct {
	ConversationID string
	Err            error
}

func (e *PersistenceError) Error() string {
	if e.ConversationID == "" {
		return fmt.Sprintf("saving conversation: %v", e.Err)
	}
	return fmt.Sprintf("saving conversation %s: %v", e.ConversationID, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
