package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// statusError carries the upstream HTTP status so providers can map specific
// codes (401/403 for entitlement) before collapsing the rest into
// ProviderUnavailable.
type statusError struct {
	Code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status code %d", e.Code)
}

// newBreaker builds the circuit breaker guarding one upstream host. An open
// breaker fails calls immediately, which the aggregator treats like any other
// provider failure; no retries happen at this level.
func newBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// getJSON performs one GET through the circuit breaker and decodes the body
// into target. Any failure - transport, non-200 status, undecodable body,
// open breaker - comes back as a plain error for the provider boundary to
// classify.
func getJSON(ctx context.Context, client *http.Client, cb *gobreaker.CircuitBreaker, url string, headers map[string]string, target interface{}) error {
	_, err := cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		for key, value := range headers {
			req.Header.Set(key, value)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer func() {
			if closeErr := resp.Body.Close(); closeErr != nil {
				_ = closeErr
			}
		}()

		if resp.StatusCode != http.StatusOK {
			return nil, &statusError{Code: resp.StatusCode}
		}

		if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
		return nil, nil
	})
	return err
}
