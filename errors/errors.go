package errors

import "fmt"

// Application error types organized by category for better error handling

type ErrorType int

// Caller errors - the request itself is wrong and must not be retried
const (
	ErrorTypeUnknown ErrorType = iota
	ErrorTypeInvalidInput
	ErrorTypeValidation

	// Upstream errors - a remote collaborator failed or is unreachable
	ErrorTypeResolutionUnavailable
	ErrorTypeProviderUnavailable
	ErrorTypeAllProvidersUnavailable
	ErrorTypeHistoryUnavailable

	// System errors - local infrastructure and setup
	ErrorTypeDatabase
	ErrorTypeConfiguration
)

// String returns the string representation of error type
func (e ErrorType) String() string {
	switch e {
	case ErrorTypeInvalidInput:
		return "INVALID_INPUT"
	case ErrorTypeValidation:
		return "VALIDATION_ERROR"
	case ErrorTypeResolutionUnavailable:
		return "RESOLUTION_UNAVAILABLE"
	case ErrorTypeProviderUnavailable:
		return "PROVIDER_UNAVAILABLE"
	case ErrorTypeAllProvidersUnavailable:
		return "ALL_PROVIDERS_UNAVAILABLE"
	case ErrorTypeHistoryUnavailable:
		return "HISTORY_UNAVAILABLE"
	case ErrorTypeDatabase:
		return "DATABASE_ERROR"
	case ErrorTypeConfiguration:
		return "CONFIGURATION_ERROR"
	default:
		return "UNKNOWN_ERROR"
	}
}

// HistoryReason explains why historical data could not be served.
type HistoryReason string

const (
	HistoryReasonNoCredential  HistoryReason = "NO_CREDENTIAL"
	HistoryReasonNoEntitlement HistoryReason = "NO_ENTITLEMENT"
	HistoryReasonProviderError HistoryReason = "PROVIDER_ERROR"
)

type AppError struct {
	Type    ErrorType
	Message string
	Cause   error

	// Reason is set only for ErrorTypeHistoryUnavailable.
	Reason HistoryReason

	// PrimaryCause and SecondaryCause are set only for
	// ErrorTypeAllProvidersUnavailable so callers can report both upstream
	// failures instead of a collapsed single message.
	PrimaryCause   error
	SecondaryCause error
}

func (e *AppError) Error() string {
	switch {
	case e.Type == ErrorTypeAllProvidersUnavailable:
		return fmt.Sprintf("%s: %s (primary: %v; secondary: %v)",
			e.Type.String(), e.Message, e.PrimaryCause, e.SecondaryCause)
	case e.Type == ErrorTypeHistoryUnavailable && e.Cause != nil:
		return fmt.Sprintf("%s[%s]: %s (caused by: %v)", e.Type.String(), e.Reason, e.Message, e.Cause)
	case e.Type == ErrorTypeHistoryUnavailable:
		return fmt.Sprintf("%s[%s]: %s", e.Type.String(), e.Reason, e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type.String(), e.Message, e.Cause)
	default:
		return fmt.Sprintf("%s: %s", e.Type.String(), e.Message)
	}
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(errorType ErrorType, message string) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
	}
}

func Wrap(errorType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Cause:   cause,
	}
}

// Caller Error Constructors
func NewInvalidInputError(message string) *AppError {
	return New(ErrorTypeInvalidInput, message)
}

func NewValidationError(message string) *AppError {
	return New(ErrorTypeValidation, message)
}

// Upstream Error Constructors
func NewResolutionUnavailableError(message string, cause error) *AppError {
	return Wrap(ErrorTypeResolutionUnavailable, message, cause)
}

func NewProviderUnavailableError(provider string, cause error) *AppError {
	return Wrap(ErrorTypeProviderUnavailable, fmt.Sprintf("%s provider failed", provider), cause)
}

// NewAllProvidersUnavailableError composes both provider failures into one
// terminal error. Both causes are kept so the caller can render them.
func NewAllProvidersUnavailableError(primaryCause, secondaryCause error) *AppError {
	return &AppError{
		Type:           ErrorTypeAllProvidersUnavailable,
		Message:        "all weather providers failed",
		PrimaryCause:   primaryCause,
		SecondaryCause: secondaryCause,
	}
}

func NewHistoryUnavailableError(reason HistoryReason, message string, cause error) *AppError {
	return &AppError{
		Type:    ErrorTypeHistoryUnavailable,
		Message: message,
		Reason:  reason,
		Cause:   cause,
	}
}

// System Error Constructors
func NewDatabaseError(message string, cause error) *AppError {
	return Wrap(ErrorTypeDatabase, message, cause)
}

func NewConfigurationError(message string, cause error) *AppError {
	return Wrap(ErrorTypeConfiguration, message, cause)
}

// Helper functions for error type checking
func IsInvalidInputError(err error) bool {
	return hasType(err, ErrorTypeInvalidInput)
}

func IsValidationError(err error) bool {
	return hasType(err, ErrorTypeValidation)
}

func IsResolutionUnavailableError(err error) bool {
	return hasType(err, ErrorTypeResolutionUnavailable)
}

func IsProviderUnavailableError(err error) bool {
	return hasType(err, ErrorTypeProviderUnavailable)
}

func IsAllProvidersUnavailableError(err error) bool {
	return hasType(err, ErrorTypeAllProvidersUnavailable)
}

func IsHistoryUnavailableError(err error) bool {
	return hasType(err, ErrorTypeHistoryUnavailable)
}

func IsDatabaseError(err error) bool {
	return hasType(err, ErrorTypeDatabase)
}

func IsConfigurationError(err error) bool {
	return hasType(err, ErrorTypeConfiguration)
}

// HistoryReasonOf extracts the history sub-reason, or "" when err is not a
// history error.
func HistoryReasonOf(err error) HistoryReason {
	if appErr, ok := err.(*AppError); ok && appErr.Type == ErrorTypeHistoryUnavailable {
		return appErr.Reason
	}
	return ""
}

func hasType(err error, errorType ErrorType) bool {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Type == errorType
	}
	return false
}
