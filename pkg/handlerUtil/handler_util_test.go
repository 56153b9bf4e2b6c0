package handlerUtil

import (
	"DrowsyGuard/internal/api/detection"
	"DrowsyGuard/internal/api/monitor"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func respond(t *testing.T, err error) (int, map[string]interface{}) {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	h := New(logger)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return h.Handle(c, "req-123", err, c.Path(), "test")
	})

	resp, testErr := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, testErr)

	var body map[string]interface{}
	require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestHandleUnexpectedErrorReturnsTraceID(t *testing.T) {
	code, body := respond(t, errors.New("disk on fire"))

	assert.Equal(t, fiber.StatusInternalServerError, code)
	assert.Equal(t, "An unexpected error occurred", body["error"])
	assert.Equal(t, "req-123", body["trace_id"])
}

func TestHandleDomainErrors(t *testing.T) {
	code, body := respond(t, monitor.ErrAlreadyRunning)
	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "MONITOR_RUNNING", body["code"])

	code, body = respond(t, detection.ErrUnreadableImage)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, map[string]interface{}{"error": "Failed to read image"}, body)
}
