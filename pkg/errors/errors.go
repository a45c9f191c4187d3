package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorType represents the type of error
type ErrorType string

const (
	// ErrorTypeNetwork represents transport and HTTP-status failures
	ErrorTypeNetwork ErrorType = "network"
	// ErrorTypeParsing represents a fetched page where no title could be recovered
	ErrorTypeParsing ErrorType = "parsing"
	// ErrorTypeUnknown represents anything that was not anticipated
	ErrorTypeUnknown ErrorType = "unknown"
	// ErrorTypeCache represents cache-related errors
	ErrorTypeCache ErrorType = "cache"
	// ErrorTypePublisher represents publisher-related errors
	ErrorTypePublisher ErrorType = "publisher"
	// ErrorTypeReport represents escalation reporting errors
	ErrorTypeReport ErrorType = "report"
	// ErrorTypeConfiguration represents configuration errors
	ErrorTypeConfiguration ErrorType = "configuration"
)

// ExtractionError represents a classified failure
type ExtractionError struct {
	Type    ErrorType
	Site    string
	Message string
	Err     error
	Time    time.Time
}

// Error implements the error interface
func (e *ExtractionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %s - %v", e.Type, e.Site, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Type, e.Site, e.Message)
}

// Unwrap returns the underlying error
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// Detail returns the underlying cause message, or the error's own message when
// there is no cause.
func (e *ExtractionError) Detail() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// IsRetryable returns true if the error is retryable
func (e *ExtractionError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeNetwork:
		return true
	default:
		return false
	}
}

// New creates a new ExtractionError
func New(errType ErrorType, site, message string, err error) *ExtractionError {
	return &ExtractionError{
		Type:    errType,
		Site:    site,
		Message: message,
		Err:     err,
		Time:    time.Now(),
	}
}

// NewNetwork creates a new network error
func NewNetwork(site, message string, err error) *ExtractionError {
	return New(ErrorTypeNetwork, site, message, err)
}

// NewParsing creates a new parsing error
func NewParsing(site, message string) *ExtractionError {
	return New(ErrorTypeParsing, site, message, nil)
}

// NewUnknown creates a new unknown error
func NewUnknown(site, message string, err error) *ExtractionError {
	return New(ErrorTypeUnknown, site, message, err)
}

// NewCache creates a new cache error
func NewCache(message string, err error) *ExtractionError {
	return New(ErrorTypeCache, "", message, err)
}

// NewPublisher creates a new publisher error
func NewPublisher(message string, err error) *ExtractionError {
	return New(ErrorTypePublisher, "", message, err)
}

// NewReport creates a new escalation reporting error
func NewReport(message string, err error) *ExtractionError {
	return New(ErrorTypeReport, "", message, err)
}

// NewConfiguration creates a new configuration error
func NewConfiguration(message string, err error) *ExtractionError {
	return New(ErrorTypeConfiguration, "", message, err)
}

// TypeOf returns the ErrorType carried by err. Untyped errors are unknown.
func TypeOf(err error) ErrorType {
	var extractionErr *ExtractionError
	if stderrors.As(err, &extractionErr) {
		return extractionErr.Type
	}
	return ErrorTypeUnknown
}
