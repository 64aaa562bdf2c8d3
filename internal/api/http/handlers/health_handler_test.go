package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthLive(t *testing.T) {
	ta := newTestApp(t)

	resp, body := ta.do(t, http.MethodGet, "/health/live", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])
	assert.Equal(t, "dispatch-service", body["service"])
}
