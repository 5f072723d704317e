package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestHandlerExposesSignals(t *testing.T) {
	SignalsTotal.WithLabelValues("XAUUSD", "Buy").Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(SignalsTotal.WithLabelValues("XAUUSD", "Buy")))

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fxsignal_signals_total")
}
