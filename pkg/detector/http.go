package detector

import (
	"DrowsyGuard/internal/entity"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type httpDetector struct {
	log      *logrus.Logger
	endpoint string
}

// NewHTTPDetector posts frames as multipart/form-data to endpoint, the way
// the detection backend's /detect-video route expects them.
func NewHTTPDetector(log *logrus.Logger, endpoint string) IDetector {
	return &httpDetector{
		log:      log,
		endpoint: endpoint,
	}
}

func (d *httpDetector) Upload(ctx context.Context, frame entity.Frame) (*entity.DetectionResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	content, err := os.ReadFile(frame.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read frame: %v", ErrRequestFailed, err)
	}

	agent := fiber.Post(d.endpoint)
	agent.FileData(&fiber.FormFile{
		Fieldname: FrameField,
		Name:      filepath.Base(frame.Path),
		Content:   content,
	})
	agent.MultipartForm(nil)

	code, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, errs[0])
	}

	if code < 200 || code > 299 {
		d.log.WithFields(logrus.Fields{
			"frame_id": frame.ID,
			"status":   code,
			"body":     truncate(string(body), 256),
		}).Warn("Detection service rejected frame")
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, code)
	}

	var result entity.DetectionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if strings.TrimSpace(string(result.Status)) == "" {
		return nil, fmt.Errorf("%w: missing status", ErrMalformedResponse)
	}

	d.log.WithFields(logrus.Fields{
		"frame_id":        frame.ID,
		"status":          result.Status,
		"processing_time": result.ProcessingTime,
	}).Debug("Detection verdict received")

	return &result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
