package errors

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific error condition
type ErrorCode string

const (
	// Configuration errors
	ErrCodeConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  ErrorCode = "CONFIG_INVALID"

	// Session and workflow errors
	ErrCodeSessionNotFound   ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeStateCorrupt      ErrorCode = "STATE_CORRUPT"
	ErrCodeInvalidTransition ErrorCode = "INVALID_TRANSITION"
	ErrCodeTicketRequired    ErrorCode = "TICKET_REQUIRED"

	// Telemetry errors
	ErrCodeQueueWrite ErrorCode = "QUEUE_WRITE"
	ErrCodeQueueRead  ErrorCode = "QUEUE_READ"

	// General errors
	ErrCodeInternal         ErrorCode = "INTERNAL_ERROR"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
)

// AgentgateError represents a structured error with context
type AgentgateError struct {
	Code    ErrorCode              `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

// Error implements the error interface
func (e *AgentgateError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *AgentgateError) Unwrap() error {
	return e.Cause
}

// WithDetail adds a detail to the error
func (e *AgentgateError) WithDetail(key string, value interface{}) *AgentgateError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// ToJSON converts the error to JSON
func (e *AgentgateError) ToJSON() string {
	data, _ := json.MarshalIndent(e, "", "  ")
	return string(data)
}

// New creates a new AgentgateError
func New(code ErrorCode, message string) *AgentgateError {
	return &AgentgateError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AgentgateError
func Wrap(err error, code ErrorCode, message string) *AgentgateError {
	return &AgentgateError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Is checks if an error carries a specific error code anywhere in its chain
func Is(err error, code ErrorCode) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	if err == nil {
		return ""
	}

	agErr, ok := err.(*AgentgateError)
	if !ok {
		if unwrapper, ok := err.(interface{ Unwrap() error }); ok {
			return GetCode(unwrapper.Unwrap())
		}
		return ""
	}

	return agErr.Code
}

// Find returns the first AgentgateError in err's chain, or nil.
func Find(err error) *AgentgateError {
	for err != nil {
		if agErr, ok := err.(*AgentgateError); ok {
			return agErr
		}
		unwrapper, ok := err.(interface{ Unwrap() error })
		if !ok {
			return nil
		}
		err = unwrapper.Unwrap()
	}
	return nil
}
