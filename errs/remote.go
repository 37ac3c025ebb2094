package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Remote platform API errors
var (
	ErrRemoteUnavailable = errors.New("platform API unavailable")
	ErrRemoteRejected    = errors.New("platform API rejected the request")
	ErrSaveInFlight      = errors.New("a save is already in progress")
	ErrDraftInvalidated  = errors.New("draft no longer exists")
)

// RemoteValidationError carries per-field messages reported by the platform
// API when it rejects a submission. Fields map remote field names to a
// human-readable message.
type RemoteValidationError struct {
	StatusCode int
	Fields     map[string]string
}

func (e *RemoteValidationError) Error() string {
	return fmt.Sprintf("platform API rejected submission (status %d, %d field errors)",
		e.StatusCode, len(e.Fields))
}

func (e *RemoteValidationError) Unwrap() error {
	return ErrRemoteRejected
}

// NewRemoteUnavailableError wraps a transport-level failure reaching the
// platform API. No field information is available for these.
func NewRemoteUnavailableError(cause error) *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusBadGateway,
		err:        ErrRemoteUnavailable,
		Cause:      cause,
	}
}

func NewDraftInvalidatedError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusGone,
		err:        ErrDraftInvalidated,
		Details:    "The project behind this draft was deleted",
	}
}

func NewSaveInFlightError() *ApiErr {
	return &ApiErr{
		StatusCode: http.StatusConflict,
		err:        ErrSaveInFlight,
		Details:    "Wait for the current save to finish before saving again",
	}
}

func IsRemoteRejected(err error) bool {
	return errors.Is(err, ErrRemoteRejected)
}

func IsRemoteUnavailable(err error) bool {
	return errors.Is(err, ErrRemoteUnavailable)
}
