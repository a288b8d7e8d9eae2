package mcpkg

import (
	"errors"
	"fmt"
)

// Protocol error codes carried to the JSON-RPC boundary.
const (
	CodeUnknownTool   = 404
	CodeInternalError = 500
)

// DomainError is an operational failure specific to one registry's
// domain (for example, a package manager missing from PATH). The
// dispatcher offers these to the owning registry for local recovery
// instead of failing the call.
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a domain error with a formatted message.
func NewDomainError(format string, args ...any) *DomainError {
	return &DomainError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError reports a missing or malformed caller-supplied
// argument. It is never offered to the registry for recovery and
// surfaces as a protocol-level failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with a formatted message.
func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ProtocolError is a failure that surfaces to the caller as a JSON-RPC
// error with a fixed code. The dispatcher produces exactly two kinds:
// 404 for an unknown tool and 500 for anything unhandled.
type ProtocolError struct {
	Message string
	Code    int
}

func (e *ProtocolError) Error() string {
	return e.Message
}

// NewProtocolError creates a protocol error with the given code.
func NewProtocolError(message string, code int) *ProtocolError {
	return &ProtocolError{Message: message, Code: code}
}

// IsDomainError reports whether err is classified as registry-recoverable.
func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

// Sentinel errors for configuration validation
var (
	ErrEmptyServerName    = errors.New("server name cannot be empty")
	ErrEmptyServerVersion = errors.New("server version cannot be empty")
	ErrNilRegistry        = errors.New("registry cannot be nil")
	ErrNilLogger          = errors.New("logger cannot be nil")
	ErrNilConfig          = errors.New("config cannot be nil")
)
