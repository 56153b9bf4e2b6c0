package detectionHandler

import (
	"DrowsyGuard/internal/api/detection"
	detectionService "DrowsyGuard/internal/api/detection/service"
	"DrowsyGuard/internal/middleware"
	"DrowsyGuard/pkg/utils"
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newApp(t *testing.T, script string) *fiber.App {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	scorer, err := detectionService.NewScriptedScorer(script)
	require.NoError(t, err)

	u := utils.New()
	mw := middleware.New(logger, 0, 0)
	h := New(logger, mw, detectionService.NewDetectionService(logger, u, scorer), u)

	app := fiber.New()
	app.Use(mw.NewRequestIDMiddleware())
	h.Start(app)
	return app
}

func multipartRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	return multipartRequestTyped(t, field, "application/octet-stream", content)
}

func multipartRequestTyped(t *testing.T, field, partType string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="frame.jpg"`, field))
	header.Set("Content-Type", partType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(fiber.MethodPost, "/detect-video", &body)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	return req
}

func decode(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, jsoniter.NewDecoder(resp.Body).Decode(&out))
	return out
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 8, 8)), nil))
	return buf.Bytes()
}

func TestDetectVideoReturnsVerdict(t *testing.T) {
	app := newApp(t, "0.2")

	resp, err := app.Test(multipartRequest(t, "frame", jpegBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := decode(t, resp)
	assert.Equal(t, "Awake", body["status"])
	assert.Contains(t, body, "processing_time")
}

func TestDetectVideoMissingFrame(t *testing.T) {
	app := newApp(t, "0.2")

	resp, err := app.Test(multipartRequest(t, "image", jpegBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"error": "No video frame provided"}, decode(t, resp))
}

func TestDetectVideoUnreadableImage(t *testing.T) {
	app := newApp(t, "0.2")

	resp, err := app.Test(multipartRequest(t, "frame", []byte("definitely not a jpeg")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"error": "Failed to read image"}, decode(t, resp))
}

func TestDetectVideoIgnoresDeclaredPartType(t *testing.T) {
	app := newApp(t, "0.2")

	resp, err := app.Test(multipartRequestTyped(t, "frame", "text/plain", jpegBytes(t)))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Awake", decode(t, resp)["status"])

	resp, err = app.Test(multipartRequestTyped(t, "frame", "image/jpeg", []byte("plain text")))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, map[string]interface{}{"error": "Failed to read image"}, decode(t, resp))
}

func TestHealth(t *testing.T) {
	app := newApp(t, "")

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.True(t, strings.HasPrefix(resp.Header.Get(fiber.HeaderContentType), fiber.MIMETextPlain))

	body, _ := io.ReadAll(resp.Body)
	assert.Equal(t, detection.HealthMessage, string(body))
}
