package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/promonitor/storefront/pkg/config"
	"github.com/promonitor/storefront/pkg/logger"
	"github.com/promonitor/storefront/pkg/metrics"
)

var testCart = config.CartConfig{TTL: time.Hour, CookieName: "sf_session"}

func TestCartSessionIssuesCookie(t *testing.T) {
	var seen string
	handler := CartSession(testCart, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartSessionFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))

	_, err := uuid.Parse(seen)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "sf_session", cookies[0].Name)
	assert.Equal(t, seen, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, cookies[0].SameSite)
	assert.Equal(t, 3600, cookies[0].MaxAge)
}

func TestCartSessionKeepsExistingCookie(t *testing.T) {
	existing := uuid.NewString()
	var seen string
	handler := CartSession(testCart, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartSessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sf_session", Value: existing})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, existing, seen)
}

func TestCartSessionReplacesForgedCookie(t *testing.T) {
	var seen string
	handler := CartSession(testCart, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = CartSessionFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "sf_session", Value: "../../etc"})
	handler.ServeHTTP(httptest.NewRecorder(), req)

	assert.NotEqual(t, "../../etc", seen)
	_, err := uuid.Parse(seen)
	assert.NoError(t, err)
}

func TestRequestIDPropagatesOrMints(t *testing.T) {
	handler := RequestID(nil)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get(requestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "bad id\nwith newline")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	_, err := uuid.Parse(rec.Header().Get(requestIDHeader))
	assert.NoError(t, err)
}

func TestRecovererReturnsInternalError(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test", Output: &buf})
	handler := Recoverer(logg)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), `"code":"INTERNAL`)
	assert.Contains(t, buf.String(), "http.panic_recovered")
}

func TestLoggingRecordsRoutePattern(t *testing.T) {
	reg := metrics.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(reg)

	r := chi.NewRouter()
	r.Use(Logging(nil, httpMetrics))
	r.Get("/api/v1/products/{slug}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/dobbel", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	families, err := reg.Gather()
	require.NoError(t, err)
	found := false
	for _, family := range families {
		if !strings.HasSuffix(family.GetName(), "http_requests_total") {
			continue
		}
		for _, metric := range family.GetMetric() {
			labels := map[string]string{}
			for _, pair := range metric.GetLabel() {
				labels[pair.GetName()] = pair.GetValue()
			}
			if labels["route"] == "/api/v1/products/{slug}" && labels["status"] == "404" {
				found = true
			}
		}
	}
	assert.True(t, found, "expected a 404 sample for the slug route")
}
