package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"customerSegmentation/business/segmentation"
	"customerSegmentation/pkg/metrics"
	"customerSegmentation/pkg/utils"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func newAdminServer() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	admin := e.Group("/admin", AuthMiddleware(testSecret), AdminOnly())
	admin.GET("/bundle", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("user_id").(string))
	})
	return e
}

func mustToken(t *testing.T, role, secret string, ttl time.Duration) string {
	t.Helper()
	token, err := utils.GenerateJWT("ops", role, secret, ttl)
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	e := newAdminServer()

	tests := []struct {
		name         string
		header       string
		expectedCode int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + mustToken(t, "ADMIN", "other-secret", time.Hour), http.StatusUnauthorized},
		{"expired token", "Bearer " + mustToken(t, "ADMIN", testSecret, -time.Minute), http.StatusUnauthorized},
		{"non admin role", "Bearer " + mustToken(t, "ANALYST", testSecret, time.Hour), http.StatusForbidden},
		{"admin", "Bearer " + mustToken(t, "ADMIN", testSecret, time.Hour), http.StatusOK},
		{"lowercase admin role", "Bearer " + mustToken(t, "admin", testSecret, time.Hour), http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/bundle", nil)
			if tc.header != "" {
				req.Header.Set(echo.HeaderAuthorization, tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedCode, rec.Code)
			if tc.expectedCode == http.StatusOK {
				assert.Equal(t, "ops", rec.Body.String())
			} else {
				assert.Contains(t, rec.Body.String(), `"success":false`)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	e.Use(RequestID())
	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, segmentation.TraceIDFromContext(c.Request().Context()))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "incoming-id")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "incoming-id", rec.Body.String())
	assert.Equal(t, "incoming-id", rec.Header().Get(echo.HeaderXRequestID))

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	generated := rec.Header().Get(echo.HeaderXRequestID)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, rec.Body.String())
}

func TestErrorHandler(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.GET("/boom", func(c echo.Context) error {
		return errors.New("database exploded")
	})
	e.GET("/teapot", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "bad spending score")
	})

	tests := []struct {
		name         string
		method       string
		target       string
		expectedCode int
		contains     []string
	}{
		{"unknown route", http.MethodGet, "/nowhere", http.StatusNotFound, []string{`"code":"NOT_FOUND"`}},
		{"wrong method", http.MethodPost, "/boom", http.StatusMethodNotAllowed, []string{`"code":"METHOD_NOT_ALLOWED"`}},
		{"plain error", http.MethodGet, "/boom", http.StatusInternalServerError, []string{`"code":"INTERNAL_ERROR"`, "Internal Server Error"}},
		{"http error", http.MethodGet, "/teapot", http.StatusBadRequest, []string{`"code":"BAD_REQUEST"`, "bad spending score"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.target, nil))

			assert.Equal(t, tc.expectedCode, rec.Code)
			for _, s := range tc.contains {
				assert.Contains(t, rec.Body.String(), s)
			}
			assert.NotContains(t, rec.Body.String(), "database exploded")
		})
	}
}

func TestMetricsMiddleware(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	e.Use(Metrics())
	e.GET("/ok/:name", func(c echo.Context) error {
		return c.NoContent(http.StatusNoContent)
	})
	e.GET("/fail", func(c echo.Context) error {
		return errors.New("engine unavailable")
	})
	e.GET("/missing", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusNotFound, "no such segment")
	})

	tests := []struct {
		name   string
		target string
		route  string
		status string
	}{
		{"written response", "/ok/anything", "/ok/:name", "204"},
		{"plain error", "/fail", "/fail", "500"},
		{"http error", "/missing", "/missing", "404"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			counter := metrics.RequestsTotal.WithLabelValues(http.MethodGet, tc.route, tc.status)
			before := testutil.ToFloat64(counter)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, tc.target, nil))

			assert.Equal(t, tc.status, strconv.Itoa(rec.Code))
			assert.Equal(t, before+1, testutil.ToFloat64(counter))
		})
	}
}
