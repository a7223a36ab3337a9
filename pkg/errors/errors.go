// Package errors provides the coded error taxonomy shared by the event target
// and the property component.
package errors

import (
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Argument errors
	CodeArgumentUndefined  Code = "ARGUMENT_UNDEFINED"
	CodeArgumentNull       Code = "ARGUMENT_NULL"
	CodeArgumentNotDefined Code = "ARGUMENT_NOT_DEFINED"
	CodeInvalidArgument    Code = "INVALID_ARGUMENT"

	// Dispatch errors
	CodeRecursionLimit Code = "RECURSION_LIMIT"
	CodeListenerFailed Code = "LISTENER_FAILED"
)

// GRPCCode maps codes to gRPC status codes for hosts that surface them over RPC.
func (c Code) GRPCCode() codes.Code {
	switch c {
	case CodeArgumentUndefined,
		CodeArgumentNull,
		CodeArgumentNotDefined,
		CodeInvalidArgument:
		return codes.InvalidArgument
	case CodeRecursionLimit:
		return codes.ResourceExhausted
	case CodeListenerFailed:
		return codes.Internal
	default:
		return codes.Unknown
	}
}

// Sentinels for errors.Is. Matching is by code only.
var (
	ErrArgumentUndefined  = &Error{Code: CodeArgumentUndefined}
	ErrArgumentNull       = &Error{Code: CodeArgumentNull}
	ErrArgumentNotDefined = &Error{Code: CodeArgumentNotDefined}
	ErrInvalidArgument    = &Error{Code: CodeInvalidArgument}
	ErrRecursionLimit     = &Error{Code: CodeRecursionLimit}
	ErrListenerFailed     = &Error{Code: CodeListenerFailed}
)

// Error is the coded error type with structured metadata.
type Error struct {
	Code     Code              // Machine-readable error code
	Message  string            // Human-readable message
	Metadata map[string]string // Additional context (argument name, event type, ...)
	Cause    error             // Wrapped underlying error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

// Unwrap returns the underlying cause for error chain traversal.
func (e *Error) Unwrap() error {
	return e.Cause
}

// GRPCStatus lets status.FromError and status.Code read the mapped code, so
// hosts can return these errors from RPC handlers unchanged.
func (e *Error) GRPCStatus() *status.Status {
	return status.New(e.Code.GRPCCode(), e.Error())
}

// Is reports whether target matches this error by code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// New creates a simple error with a code and message.
func New(code Code, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// WithMetadata creates an error with metadata.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{
		Code:     code,
		Message:  message,
		Metadata: metadata,
	}
}

// Wrap creates an error that wraps an underlying cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// ArgumentUndefined reports a required argument that was never supplied.
func ArgumentUndefined(arg string) *Error {
	return WithMetadata(CodeArgumentUndefined,
		fmt.Sprintf("argument %q can't be undefined", arg),
		map[string]string{"argument": arg})
}

// ArgumentNull reports a required argument supplied as nil.
func ArgumentNull(arg string) *Error {
	return WithMetadata(CodeArgumentNull,
		fmt.Sprintf("argument %q can't be nil", arg),
		map[string]string{"argument": arg})
}

// ArgumentNotDefined reports a value whose presence is required but missing.
func ArgumentNotDefined(arg string) *Error {
	return WithMetadata(CodeArgumentNotDefined,
		fmt.Sprintf("argument %q is not defined", arg),
		map[string]string{"argument": arg})
}

// InvalidArgument reports a value that is present but malformed.
func InvalidArgument(arg, message string) *Error {
	msg := fmt.Sprintf("argument %q has invalid value", arg)
	if message != "" {
		msg += ": " + message
	}
	return WithMetadata(CodeInvalidArgument, msg, map[string]string{"argument": arg})
}
