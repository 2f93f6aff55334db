package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sparkup/sparkup-api/api"
	"github.com/sparkup/sparkup-api/config"
	"github.com/sparkup/sparkup-api/databases/mocks"
)

const testSecret = "test-secret"

func newTestApp() *App {
	a := &App{Config: config.Config{JWTSecret: testSecret, JWTTTL: time.Hour}}
	a.Router = a.New()
	return a
}

func executeRequest(a *App, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	a.Router.ServeHTTP(rr, req)
	return rr
}

func TestUnknownRoute(t *testing.T) {
	a := newTestApp()
	req, _ := http.NewRequest("GET", "/asdf", nil)
	response := executeRequest(a, req)

	assert.Equal(t, http.StatusNotFound, response.Code)
}

func TestHealthCheckRoute(t *testing.T) {
	a := newTestApp()
	req, _ := http.NewRequest("GET", "/health", nil)
	response := executeRequest(a, req)

	assert.Equal(t, http.StatusOK, response.Code)
	assert.JSONEq(t, `{"alive":true}`, response.Body.String())
}

func TestApp_StartupsUnauthorized(t *testing.T) {
	a := newTestApp()
	for _, auth := range []string{"", "Bearer asdfasdf", "Basic YWxpY2U6cHc="} {
		req, _ := http.NewRequest("GET", "/api/startups", nil)
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		response := executeRequest(a, req)

		assert.Equal(t, http.StatusUnauthorized, response.Code, auth)
		assert.JSONEq(t, `{"response": "unauthorized"}`, response.Body.String())
	}
}

func TestApp_MembershipRoutesRequireAuth(t *testing.T) {
	a := newTestApp()
	routes := []struct{ method, path string }{
		{"POST", "/api/startups/join/request"},
		{"POST", "/api/startups/join/invite"},
		{"POST", "/api/startups/team/request"},
		{"POST", "/api/startups/team/invite"},
		{"PUT", "/api/startups/team/role"},
		{"PUT", "/api/startups/team/position"},
		{"DELETE", "/api/startups/team/member"},
		{"GET", "/api/users/me"},
		{"GET", "/ws/notifications"},
	}
	for _, rt := range routes {
		req, _ := http.NewRequest(rt.method, rt.path, strings.NewReader(`{}`))
		response := executeRequest(a, req)
		assert.Equal(t, http.StatusUnauthorized, response.Code, "%s %s", rt.method, rt.path)
	}
}

func TestApp_AuthenticatedRequestReachesHandler(t *testing.T) {
	db := &mocks.DatabaseHelper{}
	conn := &mocks.CollectionHelper{}
	result := &mocks.SingleResultHelper{}
	result.On("Decode", mock.Anything).Return(mongo.ErrNoDocuments)
	conn.On("FindOne", mock.Anything, mock.Anything).Return(result)
	db.On("Collection", "startups").Return(conn)

	a := &App{Config: config.Config{JWTSecret: testSecret, JWTTTL: time.Hour}, dbHelper: db}
	a.Router = a.New()

	token, _, err := api.NewTokenIssuer(testSecret, time.Hour).Issue("65f1a0000000000000000001", "alice@example.com")
	require.NoError(t, err)

	req, _ := http.NewRequest("GET", "/api/startups/65f1a00000000000000000aa/team", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	response := executeRequest(a, req)

	assert.Equal(t, http.StatusNotFound, response.Code, response.Body.String())
	assert.NotEmpty(t, response.Header().Get("X-Request-Id"))
}

func TestApp_MetricsSummary(t *testing.T) {
	a := newTestApp()
	req, _ := http.NewRequest("GET", "/api/metrics/summary", nil)
	response := executeRequest(a, req)

	require.Equal(t, http.StatusOK, response.Code)
	var summary api.Summary
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &summary))

	req, _ = http.NewRequest("GET", "/api/metrics?limit=5&since=10m", nil)
	response = executeRequest(a, req)
	require.Equal(t, http.StatusOK, response.Code)
	assert.Contains(t, response.Body.String(), "recentTraces")
}
