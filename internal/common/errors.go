package common

import (
	"errors"
	"fmt"
)

// AppError represents application-specific errors
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Failure kinds of the pipeline. Detection-stage errors surface before any
// extraction work; extraction-stage errors are contained by the document
// processor; generation-stage errors propagate to the caller.
var (
	ErrUnsupportedFileType    = errors.New("unsupported file type")
	ErrFileTooLarge           = errors.New("file too large")
	ErrUnrecognizedFormat     = errors.New("unrecognized file format")
	ErrExtractionFailed       = errors.New("extraction failed")
	ErrProviderNotConfigured  = errors.New("llm provider not configured")
	ErrBudgetGenerationFailed = errors.New("budget generation failed")
)

// NewAppError builds an AppError wrapping one of the sentinel causes above.
func NewAppError(code, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
