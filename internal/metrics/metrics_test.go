package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	m := New()

	m.ObserveValidation("candidate", true, time.Millisecond)
	m.ObserveValidation("candidate", false, time.Millisecond)
	m.ObserveValidation("candidate", false, time.Millisecond)
	m.IncEmailJob("password_setup", "sent")
	m.IncHTTPRequest("POST", "/api/v1/auth/register", 201)
	m.SetQueueDepth("pending", 4)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.ValidationTotal.WithLabelValues("candidate", "valid")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ValidationTotal.WithLabelValues("candidate", "invalid")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmailJobs.WithLabelValues("password_setup", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("POST", "/api/v1/auth/register", "201")))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.QueueDepth.WithLabelValues("pending")))
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveValidation("admin", true, time.Second)
		m.IncEmailJob("x", "sent")
		m.IncHTTPRequest("GET", "/", 200)
		m.SetQueueDepth("pending", 1)
	})
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.IncEmailJob("password_reset", "failed")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.EmailJobs.WithLabelValues("password_reset", "failed")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.EmailJobs.WithLabelValues("password_reset", "failed")))
}

func TestHandler(t *testing.T) {
	m := New()
	m.IncHTTPRequest("GET", "/healthz", 200)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "workwhiz_http_requests_total")
}
