package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveDecision(t *testing.T) {
	m := New()
	m.ObserveDecision("delete", false)
	m.ObserveDecision("delete", false)
	m.ObserveDecision("delete", true)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.AuthorizationDecisions.WithLabelValues("delete", "deny")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AuthorizationDecisions.WithLabelValues("delete", "allow")))

	series, err := testutil.GatherAndCount(m.Registry(), "dangerzone_authorization_decisions_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series)
}

func TestGinAndHTTPMiddlewareCountRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Gin("rest"))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/x", nil))

	h := m.HTTP("graphql", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/", nil))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("rest", "GET", "418")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("graphql", "POST", "202")))

	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "dangerzone_http_requests_total"))
}
