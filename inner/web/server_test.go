package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"employeeapi/inner/common"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func SetupTestConfig() common.Config {
	return common.Config{
		DbDriverName:        "postgres",
		Dsn:                 "host=localhost dbname=postgres sslmode=disable",
		AppName:             "test_app",
		AppVersion:          "1.0.0",
		AppPort:             "8080",
		LogLevel:            "DEBUG",
		LogDevelopMode:      true,
		ExposeStorageErrors: true,
	}
}

func newTestServer(t *testing.T, cfg common.Config) *Server {
	t.Helper()
	return NewServer(cfg, common.NewLogger(cfg), prometheus.NewRegistry())
}

func decodeError(t *testing.T, resp *http.Response) common.ErrorResponse {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var body common.ErrorResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return body
}

func TestRecoverMiddleware(t *testing.T) {
	server := newTestServer(t, SetupTestConfig())
	server.App.Get("/panic", func(c *fiber.Ctx) error {
		panic("test panic")
	})

	resp, err := server.App.Test(httptest.NewRequest("GET", "/panic", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	body := decodeError(t, resp)
	assert.Equal(t, "Internal Server Error", body.Message)
}

func TestRequestIDMiddleware(t *testing.T) {
	server := newTestServer(t, SetupTestConfig())
	server.App.Get("/id", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	resp, err := server.App.Test(httptest.NewRequest("GET", "/id", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))
}

func TestInternalGroupMiddleware(t *testing.T) {
	server := newTestServer(t, SetupTestConfig())
	server.GroupInternal.Get("/test", func(c *fiber.Ctx) error {
		return c.SendString("internal ok")
	})

	resp, err := server.App.Test(httptest.NewRequest("GET", "/internal/test", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "true", resp.Header.Get("X-Internal-API"))
}

func TestErrorHandler(t *testing.T) {
	storageErr := common.NewStorageFailure("find", "Error selecting the employee", errors.New("connection refused"))

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
	}{
		{"business rule", common.BusinessRuleViolation{Message: "The name can't be null"}, 400, "The name can't be null"},
		{"wrapped business rule", fmt.Errorf("svc: %w", common.BusinessRuleViolation{Message: "The 'size' must be greater than 0"}), 400, "The 'size' must be greater than 0"},
		{"invalid param", common.InvalidParamError{Message: "The 'id' parameter must be a numeric value."}, 400, "The 'id' parameter must be a numeric value."},
		{"not found", common.NotFoundError{Message: "The employee does not exist"}, 404, "The employee does not exist"},
		{"wrapped not found", fmt.Errorf("error deleting employee with id 9: %w", common.NotFoundError{Message: "The Id 9 was not found to delete"}), 404, "The Id 9 was not found to delete"},
		{"wrapped invalid param", fmt.Errorf("parse: %w", common.InvalidParamError{Message: "The 'page' field must be a numeric value"}), 400, "The 'page' field must be a numeric value"},
		{"storage failure", fmt.Errorf("error finding employee with id 1: %w", storageErr), 500, "Error selecting the employee: connection refused"},
		{"fiber error", fiber.NewError(fiber.StatusMethodNotAllowed, "Method Not Allowed"), 405, "Method Not Allowed"},
		{"unclassified", errors.New("boom"), 500, "Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newTestServer(t, SetupTestConfig())
			server.App.Get("/fail", func(c *fiber.Ctx) error {
				return tt.err
			})

			resp, err := server.App.Test(httptest.NewRequest("GET", "/fail", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, resp.Header.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON)

			body := decodeError(t, resp)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.False(t, body.Timestamp.IsZero())
		})
	}
}

func TestErrorHandler_HidesStorageErrors(t *testing.T) {
	cfg := SetupTestConfig()
	cfg.ExposeStorageErrors = false
	server := newTestServer(t, cfg)
	server.App.Delete("/fail", func(c *fiber.Ctx) error {
		return common.NewStorageFailure("delete", "Error deleting the employee", errors.New("password authentication failed"))
	})

	resp, err := server.App.Test(httptest.NewRequest("DELETE", "/fail", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)

	body := decodeError(t, resp)
	assert.Regexp(t, `^Internal Server Error \(ref [0-9a-f-]{36}\)$`, body.Message)
	assert.NotContains(t, body.Message, "password")
	assert.Equal(t, 1.0, testutil.ToFloat64(server.Metrics.storageFailures.WithLabelValues("delete")))
}

func TestMetricsEndpoint(t *testing.T) {
	server := newTestServer(t, SetupTestConfig())
	server.App.Get("/employee/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})

	for _, path := range []string{"/employee/1", "/employee/2"} {
		resp, err := server.App.Test(httptest.NewRequest("GET", path, nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	}

	resp, err := server.App.Test(httptest.NewRequest("GET", "/internal/metrics", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `http_requests_total{method="GET",path="/employee/:id",status="200"} 2`)
}

func TestSwaggerDoc(t *testing.T) {
	server := newTestServer(t, SetupTestConfig())

	resp, err := server.App.Test(httptest.NewRequest("GET", "/swagger/doc.json", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "/employee/{id}")
}
