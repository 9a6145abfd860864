// Package errors defines stable error codes for all discovery failure modes.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes surfaced to callers
type ErrorCode string

const (
	// InvalidRoot indicates the project root path does not exist or is not a directory
	InvalidRoot ErrorCode = "INVALID_ROOT"
	// ParseFailure indicates a single file could not be parsed (non-fatal)
	ParseFailure ErrorCode = "PARSE_FAILURE"
	// Timeout indicates the discovery run was cancelled by the caller's deadline
	Timeout ErrorCode = "TIMEOUT"
	// StorageFailure indicates the run history database could not be read or written
	StorageFailure ErrorCode = "STORAGE_FAILURE"
	// IndexInvalid indicates a SCIP index exists but could not be decoded
	IndexInvalid ErrorCode = "INDEX_INVALID"
	// InternalError indicates an unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// OpenDocs suggests opening documentation
	OpenDocs FixActionType = "open-docs"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
	URL         string        `json:"url,omitempty"`
}

// DiscoveryError represents a discovery failure with code, message, and suggestions
type DiscoveryError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// New creates a new DiscoveryError
func New(code ErrorCode, message string, cause error) *DiscoveryError {
	return &DiscoveryError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: SuggestedFixes(code),
	}
}

// Error implements the error interface
func (e *DiscoveryError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DiscoveryError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *DiscoveryError) WithDetails(details interface{}) *DiscoveryError {
	e.Details = details
	return e
}

// errorActions maps error codes to suggested fix actions
var errorActions = map[ErrorCode][]FixAction{
	InvalidRoot: {
		{
			Type:        RunCommand,
			Command:     "vibeflow discover <path-to-project>",
			Safe:        true,
			Description: "Point discovery at an existing project directory",
		},
	},
	Timeout: {
		{
			Type:        RunCommand,
			Command:     "vibeflow discover --max-files=500",
			Safe:        true,
			Description: "Re-run with sampling to bound the analysis time",
		},
	},
	IndexInvalid: {
		{
			Type:        RunCommand,
			Command:     "scip print --index=.scip/index.scip",
			Safe:        true,
			Description: "Verify the SCIP index is valid, or delete it to fall back to heuristic extraction",
		},
	},
}

// SuggestedFixes returns suggested fixes for an error code
func SuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := errorActions[code]; ok {
		return fixes
	}
	return nil
}
