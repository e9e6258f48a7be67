// Package exception provides the custom error type used across the bot.
// It standardizes errors from the Slack, model and datastore layers and
// classifies them for the retry logic.
package exception

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// BotError is a custom error type for failures inside the bot pipeline.
// It holds the module where the error occurred, a message, the wrapped
// original error, and a flag indicating whether the operation is retryable.
type BotError struct {
	// Module indicates the module where the error occurred (e.g., "slack", "assistant", "datastore").
	Module string
	// Message is a concise description of the error.
	Message string
	// OriginalErr is the wrapped original error.
	OriginalErr error
	// isRetryable indicates whether this error is retryable.
	isRetryable bool
	// StackTrace is the stack trace at the time of the error (for debugging).
	StackTrace string
}

// NewBotError creates a new BotError instance.
//
// module: The module where the error occurred.
// message: The error message.
// originalErr: The original error to wrap.
// isRetryable: Whether this error is retryable.
func NewBotError(module, message string, originalErr error, isRetryable bool) *BotError {
	buf := make([]byte, 2048)
	n := runtime.Stack(buf, false)

	return &BotError{
		Module:      module,
		Message:     message,
		OriginalErr: originalErr,
		isRetryable: isRetryable,
		StackTrace:  string(buf[:n]),
	}
}

// NewBotErrorf creates a new non-retryable BotError using a format string.
// If the last variadic argument is an error it is extracted and wrapped.
func NewBotErrorf(module, format string, a ...interface{}) *BotError {
	var originalErr error
	args := a
	if len(args) > 0 {
		if err, ok := args[len(args)-1].(error); ok {
			originalErr = err
			args = args[:len(args)-1]
		}
	}
	return NewBotError(module, fmt.Sprintf(format, args...), originalErr, false)
}

// Error implements the error interface.
// It returns the error's module, message, and the string representation of the original error.
func (e *BotError) Error() string {
	if e.OriginalErr != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Module, e.Message, e.OriginalErr)
	}
	return fmt.Sprintf("[%s] %s", e.Module, e.Message)
}

// Unwrap returns the original error for errors.Unwrap.
func (e *BotError) Unwrap() error {
	return e.OriginalErr
}

// IsRetryable returns whether this error is retryable.
func (e *BotError) IsRetryable() bool {
	return e.isRetryable
}

// IsBotError determines if the given error is of type BotError.
func IsBotError(err error) bool {
	if err == nil {
		return false
	}
	var be *BotError
	return errors.As(err, &be)
}

// IsTemporary determines if an error is temporary (e.g., network error,
// rate limiting, temporary API unavailability). The retry logic of the
// assistant and Slack call sites uses this function.
// If it's a BotError, its IsRetryable flag takes precedence.
func IsTemporary(err error) bool {
	if err == nil {
		return false
	}
	var be *BotError
	if errors.As(err, &be) {
		return be.IsRetryable()
	}
	errStr := err.Error()
	return strings.Contains(errStr, "timeout") ||
		strings.Contains(errStr, "connection refused") ||
		strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "503") ||
		strings.Contains(errStr, "EOF")
}

// ExtractErrorMessage extracts the error message string from an error.
// For BotError, it returns the cleaner Message field.
func ExtractErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var be *BotError
	if errors.As(err, &be) {
		return be.Message
	}
	return err.Error()
}
