// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrUnknownTool       = errors.New("unknown tool")
	ErrDuplicateTool     = errors.New("tool already registered")
	ErrMissingAPIKey     = errors.New("model API key not configured")
	ErrNoData            = errors.New("no data returned by provider")
	ErrMalformedToolCall = errors.New("malformed tool call")
	ErrDatabaseError     = errors.New("database error")
	ErrSessionNotFound   = errors.New("session not found")
)

// ProviderError represents a failure reaching the market-data provider.
type ProviderError struct {
	Ticker string
	Op     string
	Err    error
}

func (e *ProviderError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider error [%s] %s: %v", e.Ticker, e.Op, e.Err)
	}
	return fmt.Sprintf("provider error [%s] %s", e.Ticker, e.Op)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// NewProviderError creates a new ProviderError.
func NewProviderError(ticker, op string, err error) *ProviderError {
	return &ProviderError{Ticker: ticker, Op: op, Err: err}
}

// ToolError represents a failure inside a tool handler. It is always
// converted to a result string at the dispatch boundary, never
// propagated to the caller of the turn loop.
type ToolError struct {
	Tool  string
	Input string
	Err   error
}

func (e *ToolError) Error() string {
	if e.Input != "" {
		return fmt.Sprintf("tool error [%s] input %q: %v", e.Tool, e.Input, e.Err)
	}
	return fmt.Sprintf("tool error [%s]: %v", e.Tool, e.Err)
}

func (e *ToolError) Unwrap() error {
	return e.Err
}

// NewToolError creates a new ToolError.
func NewToolError(tool, input string, err error) *ToolError {
	return &ToolError{Tool: tool, Input: input, Err: err}
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
