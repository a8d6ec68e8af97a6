package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/natours/natours-backend/internal/apperror"
	"github.com/natours/natours-backend/internal/models"
)

type stubAuth struct {
	users map[string]*models.User
	seen  []string
}

func (s *stubAuth) Authenticate(ctx context.Context, token string) (*models.User, error) {
	s.seen = append(s.seen, token)
	if token == "" {
		return nil, apperror.New(apperror.ErrUnauthenticated, "You are not logged in! Please log in to get access.")
	}
	user, ok := s.users[token]
	if !ok {
		return nil, apperror.New(apperror.ErrInvalidToken, "Invalid token. Please log in again!")
	}
	return user, nil
}

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(statusOf(err)).SendString(err.Error())
		},
	})
}

func newStubAuth() *stubAuth {
	return &stubAuth{users: map[string]*models.User{
		"user-token":  {ID: 1, Role: models.RoleUser},
		"admin-token": {ID: 2, Role: models.RoleAdmin},
	}}
}

func TestProtect(t *testing.T) {
	auth := newStubAuth()
	app := newTestApp()
	app.Get("/me", Protect(auth), func(c *fiber.Ctx) error {
		fromCtx, ok := UserFromContext(c.UserContext())
		if !ok || fromCtx.ID != CurrentUser(c).ID {
			return errors.New("user missing from context")
		}
		return c.JSON(CurrentUser(c))
	})

	tests := []struct {
		name   string
		header string
		cookie string
		status int
	}{
		{name: "bearer header", header: "Bearer user-token", status: http.StatusOK},
		{name: "session cookie", cookie: "user-token", status: http.StatusOK},
		{name: "no credentials", status: http.StatusUnauthorized},
		{name: "unknown token", header: "Bearer forged", status: http.StatusUnauthorized},
		{name: "logged out cookie", cookie: "loggedout", status: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: SessionCookie, Value: tt.cookie})
			}

			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
		})
	}
}

func TestProtectPrefersHeaderOverCookie(t *testing.T) {
	auth := newStubAuth()
	app := newTestApp()
	app.Get("/me", Protect(auth), func(c *fiber.Ctx) error { return c.SendStatus(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "user-token"})

	_, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, []string{"admin-token"}, auth.seen)
}

func TestRestrictTo(t *testing.T) {
	app := newTestApp()
	app.Delete("/tours/1", Protect(newStubAuth()), RestrictTo(models.RoleAdmin, models.RoleLeadGuide), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodDelete, "/tours/1", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	req = httptest.NewRequest(http.MethodDelete, "/tours/1", nil)
	req.Header.Set("Authorization", "Bearer admin-token")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRequestID(t *testing.T) {
	app := newTestApp()
	app.Use(RequestID())
	app.Get("/", func(c *fiber.Ctx) error { return c.SendString(GetRequestID(c)) })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	generated := resp.Header.Get(HeaderRequestID)
	assert.Len(t, generated, 36)
	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, generated, string(body))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, "req-123", resp.Header.Get(HeaderRequestID))
}

func TestLoggerPassesErrorsThrough(t *testing.T) {
	app := newTestApp()
	app.Use(RequestID(), Logger(zaptest.NewLogger(t)))
	app.Get("/boom", func(c *fiber.Ctx) error { return errors.New("boom") })
	app.Get("/gone", func(c *fiber.Ctx) error { return apperror.New(apperror.ErrNotFound, "gone") })

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/boom", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/gone", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMetricsCountsByRoute(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)

	app := newTestApp()
	app.Use(metrics.Handler())
	app.Get("/tours/:id", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"id": c.Params("id")}) })

	for _, path := range []string{"/tours/1", "/tours/2"} {
		_, err := app.Test(httptest.NewRequest(http.MethodGet, path, nil))
		require.NoError(t, err)
	}

	count := testutil.ToFloat64(metrics.requests.WithLabelValues("GET", "/tours/:id", "200"))
	assert.Equal(t, 2.0, count)

	expected := `
# HELP natours_http_requests_total HTTP requests by method, route and status.
# TYPE natours_http_requests_total counter
natours_http_requests_total{method="GET",route="/tours/:id",status="200"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "natours_http_requests_total"))
}

func TestCurrentUserWithoutProtect(t *testing.T) {
	app := newTestApp()
	app.Get("/", func(c *fiber.Ctx) error {
		_, err := RequireUser(c)
		return err
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
