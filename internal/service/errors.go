package service

import "errors"

// Domain errors shared across services. Handlers map these onto the
// response error codes; NotFound doubles as the answer for resources the
// actor may not learn the existence of.
var (
	ErrNotFound        = errors.New("resource not found")
	ErrForbidden       = errors.New("actor lacks the role for this action")
	ErrConflict        = errors.New("uniqueness conflict")
	ErrAlreadyMember   = errors.New("user already member")
	ErrUserNotFound    = errors.New("user not found")
	ErrAttemptFinished = errors.New("attempt already finished")
)

// ValidationError is a structural-invariant violation whose message is
// surfaced to the caller verbatim.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// NewValidationError builds a ValidationError with the given message.
func NewValidationError(msg string) *ValidationError {
	return &ValidationError{msg: msg}
}

// Choice-set and reorder validation failures. The two choice-set
// messages are contract text; clients match on them.
var (
	ErrTooFewChoices       = NewValidationError("at least 2 choices")
	ErrNotExactlyOneChoice = NewValidationError("exactly one choice must be marked correct")
	ErrForeignQuestionIDs  = NewValidationError("invalid question ids")
)
