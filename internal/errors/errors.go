package errors

import "fmt"

// ErrorCode represents an unposted error code.
type ErrorCode string

const (
	ErrInvalidRequest  ErrorCode = "INVALID_REQUEST"  // 400
	ErrNotFound        ErrorCode = "NOT_FOUND"        // 404
	ErrEmptyTranscript ErrorCode = "EMPTY_TRANSCRIPT" // 422
	ErrInternal        ErrorCode = "INTERNAL"         // 500
	ErrStorage         ErrorCode = "STORAGE"          // 500
	ErrRemoteCall      ErrorCode = "REMOTE_CALL"      // 502
	ErrConfigMissing   ErrorCode = "CONFIG_MISSING"   // 503
)

// JournalError represents a structured error with code, status, and details.
type JournalError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *JournalError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *JournalError {
	return &JournalError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for when an entry cannot be found.
func NewNotFound(id string) *JournalError {
	return &JournalError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("entry not found: %s", id),
		Details: map[string]any{"id": id},
	}
}

// NewEmptyTranscript creates a 422 error for when transcription produced no text.
// Nothing is persisted when this is returned.
func NewEmptyTranscript() *JournalError {
	return &JournalError{
		Code:    ErrEmptyTranscript,
		Status:  422,
		Message: "no speech detected",
	}
}

// NewStorage creates a 500 error for a failed read or write on the local store.
func NewStorage(err error) *JournalError {
	msg := "storage unavailable"
	if err != nil {
		msg = err.Error()
	}
	return &JournalError{
		Code:    ErrStorage,
		Status:  500,
		Message: msg,
	}
}

// NewRemoteCall creates a 502 error for a failed outbound API call.
// Adapters convert every transport, auth, and decode failure to this code;
// raw client errors never cross the adapter boundary.
func NewRemoteCall(service string, err error) *JournalError {
	msg := fmt.Sprintf("%s call failed", service)
	if err != nil {
		msg = fmt.Sprintf("%s call failed: %v", service, err)
	}
	return &JournalError{
		Code:    ErrRemoteCall,
		Status:  502,
		Message: msg,
		Details: map[string]any{"service": service},
	}
}

// NewConfigMissing creates a 503 error for an absent required credential.
func NewConfigMissing(name string) *JournalError {
	return &JournalError{
		Code:    ErrConfigMissing,
		Status:  503,
		Message: fmt.Sprintf("missing credential: %s", name),
		Details: map[string]any{"name": name},
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *JournalError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &JournalError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a JournalError with the given code.
func Is(err error, code ErrorCode) bool {
	if jErr, ok := err.(*JournalError); ok {
		return jErr.Code == code
	}
	return false
}
