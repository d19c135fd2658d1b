// Package tools defines the tool descriptors, the registry that dispatches
// tool calls, and the Kaggle toolsets exposed over MCP.
package tools

import (
	"errors"
	"fmt"
	"io/fs"
	"net/http"

	"github.com/Seif-Sameh/Kaggle-mcp/internal/kaggle"
)

// Status mirrors the status field of every tool result.
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Result is the uniform payload every tool returns.
type Result struct {
	Status  Status         `json:"status"`
	Message string         `json:"message,omitempty"`
	Data    map[string]any `json:"data,omitempty"`
	Error   *Error         `json:"error,omitempty"`
}

// Error carries a stable machine-readable code alongside the message.
type Error struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// Error codes exposed in tool results.
const (
	ErrCodeUnknownTool     = "unknown_tool"
	ErrCodeInvalidArgument = "invalid_argument"
	ErrCodeNotFound        = "not_found"
	ErrCodePermission      = "permission_denied"
	ErrCodeValidation      = "validation_failed"
	ErrCodeRemote          = "remote_error"
	ErrCodeIO = "io_error"

	// ErrCodeConfiguration rounds out the code set. Configuration
	// problems normally stop the server before it serves, so no
	// handler emits it today.
	ErrCodeConfiguration = "configuration_error"
)

// UnknownToolError reports a dispatch for a name no toolset registered.
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// InvalidArgumentError reports a missing or mistyped tool argument.
type InvalidArgumentError struct {
	Tool   string
	Field  string
	Reason string
}

func (e *InvalidArgumentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("tool %s: invalid argument %q: %s", e.Tool, e.Field, e.Reason)
	}
	return fmt.Sprintf("tool %s: invalid arguments: %s", e.Tool, e.Reason)
}

// ValidationError reports input that is well typed but semantically wrong,
// such as a folder without its metadata file or a malformed identifier.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// IOError reports a local filesystem failure.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// ConfigurationError reports missing or unusable server configuration.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return e.Reason
}

// Success builds a success result. Extra data keys ride in Data.
func Success(message string, data map[string]any) *Result {
	return &Result{Status: StatusSuccess, Message: message, Data: data}
}

// Failure classifies err into a stable error code and wraps it as a result.
func Failure(err error) *Result {
	return &Result{
		Status:  StatusError,
		Message: err.Error(),
		Error:   classify(err),
	}
}

// classify maps an error to its wire code. API status codes decide the
// remote kinds; everything local is typed explicitly by the handlers.
func classify(err error) *Error {
	var unknownTool *UnknownToolError
	if errors.As(err, &unknownTool) {
		return &Error{
			Code:    ErrCodeUnknownTool,
			Message: unknownTool.Error(),
			Details: map[string]any{"tool": unknownTool.Name},
		}
	}

	var invalidArg *InvalidArgumentError
	if errors.As(err, &invalidArg) {
		details := map[string]any{"tool": invalidArg.Tool}
		if invalidArg.Field != "" {
			details["field"] = invalidArg.Field
		}
		return &Error{Code: ErrCodeInvalidArgument, Message: invalidArg.Error(), Details: details}
	}

	var confErr *ConfigurationError
	if errors.As(err, &confErr) {
		return &Error{Code: ErrCodeConfiguration, Message: confErr.Error()}
	}

	var ioErr *IOError
	if errors.As(err, &ioErr) {
		return &Error{Code: ErrCodeIO, Message: ioErr.Error()}
	}

	var apiErr *kaggle.APIError
	if errors.As(err, &apiErr) {
		code := ErrCodeRemote
		switch apiErr.StatusCode {
		case http.StatusNotFound:
			code = ErrCodeNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			code = ErrCodePermission
		case http.StatusBadRequest, http.StatusConflict:
			code = ErrCodeValidation
		}
		return &Error{
			Code:    code,
			Message: err.Error(),
			Details: map[string]any{"status_code": apiErr.StatusCode},
		}
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return &Error{Code: ErrCodeValidation, Message: valErr.Error()}
	}

	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return &Error{Code: ErrCodeIO, Message: err.Error()}
	}

	return &Error{Code: ErrCodeRemote, Message: err.Error()}
}
