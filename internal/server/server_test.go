package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newRoutedApp wires the full middleware and route table the way Start does.
func newRoutedApp(t *testing.T) (*Server, *fiber.App) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	s := newTestServer(t)
	app := fiber.New()
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	return s, app
}

func TestHealthEndpoints(t *testing.T) {
	_, app := newRoutedApp(t)

	t.Run("Liveness", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/live", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("Readiness Without Redis", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		require.NoError(t, err)
		// Redis is optional; only a dead database makes readiness fail.
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Status string `json:"status"`
			Checks struct {
				Database string `json:"database"`
				Redis    string `json:"redis"`
			} `json:"checks"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "healthy", body.Checks.Database)
		assert.Equal(t, "unavailable", body.Checks.Redis)
	})

	t.Run("Legacy Health Alias", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	_, app := newRoutedApp(t)

	tests := []struct {
		method string
		url    string
	}{
		{http.MethodPost, "/api/posts"},
		{http.MethodPost, "/api/posts/1/comments"},
		{http.MethodPut, "/api/comments/1"},
		{http.MethodPost, "/api/comments/1/vote"},
		{http.MethodGet, "/api/admin/reports"},
		{http.MethodGet, "/api/users/me"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.url, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(tt.method, tt.url, nil))
			require.NoError(t, err)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestSignupLoginCreatePostFlow(t *testing.T) {
	_, app := newRoutedApp(t)

	resp := postJSON(t, app, "/api/auth/signup", map[string]string{
		"username": "flowuser",
		"email":    "flow@example.com",
		"password": "Password123!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var signup struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&signup))
	require.NotEmpty(t, signup.Token)

	req := httptest.NewRequest(http.MethodPost, "/api/posts", jsonBody(t, map[string]string{
		"title":   "First post",
		"content": "written through the full route table",
	}))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+signup.Token)
	postResp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, postResp.StatusCode)

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.NewDecoder(postResp.Body).Decode(&created))

	// The discussion view is public; viewer state just stays empty.
	discResp, err := app.Test(httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/api/posts/%d/discussion", created.ID), nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, discResp.StatusCode)
}

func TestWebSocketRouteRejectsPlainHTTP(t *testing.T) {
	_, app := newRoutedApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws/posts/1", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}

func TestMetricsEndpointRegistered(t *testing.T) {
	_, app := newRoutedApp(t)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
