package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		setup    func() *AppError
		expected string
	}{
		{
			name: "ErrorWithoutCause",
			setup: func() *AppError {
				return New(ErrorTypeInvalidInput, "query cannot be empty")
			},
			expected: "INVALID_INPUT: query cannot be empty",
		},
		{
			name: "ErrorWithCause",
			setup: func() *AppError {
				cause := fmt.Errorf("connection refused")
				return NewResolutionUnavailableError("geocoding request failed", cause)
			},
			expected: "RESOLUTION_UNAVAILABLE: geocoding request failed (caused by: connection refused)",
		},
		{
			name: "AllProvidersCarriesBothCauses",
			setup: func() *AppError {
				return NewAllProvidersUnavailableError(
					fmt.Errorf("wttr timeout"),
					fmt.Errorf("openweathermap 503"),
				)
			},
			expected: "ALL_PROVIDERS_UNAVAILABLE: all weather providers failed (primary: wttr timeout; secondary: openweathermap 503)",
		},
		{
			name: "HistoryCarriesReason",
			setup: func() *AppError {
				return NewHistoryUnavailableError(HistoryReasonNoCredential, "no API key configured", nil)
			},
			expected: "HISTORY_UNAVAILABLE[NO_CREDENTIAL]: no API key configured",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.setup()
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("dial tcp: timeout")
	err := NewProviderUnavailableError("wttr.in", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))

	noCause := NewInvalidInputError("empty query")
	assert.Nil(t, noCause.Unwrap())
}

func TestErrorTypeCheckers(t *testing.T) {
	assert.True(t, IsInvalidInputError(NewInvalidInputError("bad")))
	assert.True(t, IsResolutionUnavailableError(NewResolutionUnavailableError("down", nil)))
	assert.True(t, IsProviderUnavailableError(NewProviderUnavailableError("wttr.in", nil)))
	assert.True(t, IsAllProvidersUnavailableError(NewAllProvidersUnavailableError(nil, nil)))
	assert.True(t, IsHistoryUnavailableError(NewHistoryUnavailableError(HistoryReasonProviderError, "boom", nil)))
	assert.True(t, IsConfigurationError(NewConfigurationError("missing", nil)))
	assert.True(t, IsDatabaseError(NewDatabaseError("migrate", nil)))

	assert.False(t, IsInvalidInputError(fmt.Errorf("plain error")))
	assert.False(t, IsHistoryUnavailableError(NewInvalidInputError("bad")))
}

func TestHistoryReasonOf(t *testing.T) {
	err := NewHistoryUnavailableError(HistoryReasonNoEntitlement, "paid tier required", nil)
	assert.Equal(t, HistoryReasonNoEntitlement, HistoryReasonOf(err))

	assert.Equal(t, HistoryReason(""), HistoryReasonOf(NewInvalidInputError("bad")))
	assert.Equal(t, HistoryReason(""), HistoryReasonOf(fmt.Errorf("plain")))
}
