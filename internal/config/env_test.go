package config

import (
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"APP_PORT", "DETECTION_URL", "DETECTOR_BACKEND", "CAMERA_COMMAND", "REDIS_ADDRESS", "AWS_BUCKET_NAME", "WHATSAPP_ENABLED"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig(quietLogger())

	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, "http://localhost:5002/detect-video", cfg.DetectionURL)
	assert.Equal(t, DetectorHTTP, cfg.DetectorBackend)
	assert.Equal(t, "termux-camera-photo -c 1 {output}", cfg.CameraCommand)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.S3Enabled())
	assert.False(t, cfg.WhatsappEnabled)
}

func TestLoadConfigOverrides(t *testing.T) {
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DETECTOR_BACKEND", "Gemini")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")
	t.Setenv("RATE_LIMIT_PER_SEC", "2.5")
	t.Setenv("AWS_BUCKET_NAME", "frames")

	cfg := LoadConfig(quietLogger())

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, DetectorGemini, cfg.DetectorBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.RedisEnabled())
	assert.Equal(t, 2.5, cfg.RateLimitPerSec)
	assert.True(t, cfg.S3Enabled())
}

func TestWhatsappNeedsStore(t *testing.T) {
	t.Setenv("WHATSAPP_ENABLED", "true")
	t.Setenv("WHATSAPP_STORE_DSN", "")

	assert.False(t, LoadConfig(quietLogger()).WhatsappEnabled)
}

func TestGetEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("SOME_INT", "many")
	t.Setenv("SOME_BOOL", "perhaps")

	assert.Equal(t, 7, getEnvInt("SOME_INT", 7))
	assert.True(t, getEnvBool("SOME_BOOL", true))
}
