package config

import (
	"DrowsyGuard/pkg/s3"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

const (
	DetectorHTTP   = "http"
	DetectorGemini = "gemini"
)

type Config struct {
	AppPort     string
	Environment string

	DetectionURL    string
	DetectorBackend string
	GeminiAPIKey    string
	GeminiModelName string

	CameraCommand   string
	CameraReplayDir string
	FrameDir        string
	AlertOpener     string

	WhatsappEnabled  bool
	WhatsappStoreDSN string

	RedisAddress  string
	RedisPassword string
	RedisDB       int
	StatusChannel string

	S3 s3.Config

	RateLimitPerSec float64
	RateLimitBurst  int

	StubPort   string
	StubScores string
}

func (c *Config) RedisEnabled() bool {
	return c.RedisAddress != ""
}

func (c *Config) S3Enabled() bool {
	return c.S3.BucketName != ""
}

// LoadConfig reads .env when present and then the process environment.
func LoadConfig(log *logrus.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		log.Warn("No .env file found, using system environment variables")
	}

	cfg := &Config{
		AppPort:          getEnv("APP_PORT", "3000"),
		Environment:      getEnv("APP_ENV", "development"),
		DetectionURL:     getEnv("DETECTION_URL", "http://localhost:5002/detect-video"),
		DetectorBackend:  strings.ToLower(getEnv("DETECTOR_BACKEND", DetectorHTTP)),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModelName:  getEnv("GEMINI_MODEL_NAME", ""),
		CameraCommand:    getEnv("CAMERA_COMMAND", "termux-camera-photo -c 1 {output}"),
		CameraReplayDir:  getEnv("CAMERA_REPLAY_DIR", ""),
		FrameDir:         getEnv("FRAME_DIR", "./storage/frames"),
		AlertOpener:      getEnv("ALERT_OPENER", "termux-open"),
		WhatsappEnabled:  getEnvBool("WHATSAPP_ENABLED", false),
		WhatsappStoreDSN: getEnv("WHATSAPP_STORE_DSN", ""),
		RedisAddress:     getEnv("REDIS_ADDRESS", ""),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		StatusChannel:    getEnv("STATUS_CHANNEL", ""),
		S3: s3.Config{
			Region:          getEnv("AWS_REGION", "ap-south-1"),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
			BucketName:      getEnv("AWS_BUCKET_NAME", ""),
		},
		RateLimitPerSec: getEnvFloat("RATE_LIMIT_PER_SEC", 5),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 10),
		StubPort:        getEnv("STUB_PORT", "5002"),
		StubScores:      getEnv("STUB_SCORES", ""),
	}

	if cfg.WhatsappEnabled && cfg.WhatsappStoreDSN == "" {
		log.Warn("WHATSAPP_ENABLED is set without WHATSAPP_STORE_DSN, WhatsApp alerts are disabled")
		cfg.WhatsappEnabled = false
	}

	return cfg
}

func getEnv(key string, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if intVal, err := strconv.Atoi(v); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}
