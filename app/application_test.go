package app

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Boot the whole application against an in-memory database and defaults.
func newTestApplication(t *testing.T) *Application {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DB_PATH", ":memory:")
	t.Setenv("CACHE_TYPE", "memory")
	t.Setenv("OPENWEATHERMAP_API_KEY", "")
	t.Setenv("OPENWEATHERMAP_HISTORY_ENTITLED", "false")

	application, err := NewApplication()
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Shutdown() })
	return application
}

func TestNewApplication_WiresEverything(t *testing.T) {
	application := newTestApplication(t)

	assert.NotNil(t, application.Config())
	assert.NotNil(t, application.server)
	assert.NotNil(t, application.scheduler)
	assert.Equal(t, "sqlite", application.Config().Database.Driver)
}

func TestApplication_HealthEndpoint(t *testing.T) {
	application := newTestApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	application.server.GetRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestApplication_SearchesEndpointEmpty(t *testing.T) {
	application := newTestApplication(t)

	req := httptest.NewRequest(http.MethodGet, "/api/searches", nil)
	w := httptest.NewRecorder()
	application.server.GetRouter().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "searches")
}

func TestNewApplication_RejectsBadConfiguration(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")

	application, err := NewApplication()
	assert.Error(t, err)
	assert.Nil(t, application)
}
