package detector

import (
	"DrowsyGuard/internal/entity"
	"DrowsyGuard/pkg/gemini"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const geminiPrompt = `
You are checking a driver-facing camera frame for drowsiness.
Look at the eyes of the person in the image.
Answer with exactly one word: "Drowsy" if the eyes are closed, half closed or no eyes are visible,
otherwise "Awake".
`

type geminiDetector struct {
	log    *logrus.Logger
	gemini gemini.IGemini
}

// NewGeminiDetector asks a Gemini vision model for the verdict instead of
// the dedicated detection service.
func NewGeminiDetector(log *logrus.Logger, g gemini.IGemini) IDetector {
	return &geminiDetector{
		log:    log,
		gemini: g,
	}
}

func (d *geminiDetector) Upload(ctx context.Context, frame entity.Frame) (*entity.DetectionResult, error) {
	content, err := os.ReadFile(frame.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: read frame: %v", ErrRequestFailed, err)
	}

	mimeType := frame.MimeType
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	start := time.Now()
	answer, err := d.gemini.AnalyzeImage(ctx, content, mimeType, geminiPrompt)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	verdict, err := parseGeminiVerdict(answer)
	if err != nil {
		d.log.WithFields(logrus.Fields{
			"frame_id": frame.ID,
			"answer":   truncate(answer, 256),
		}).Warn("Unusable Gemini answer")
		return nil, err
	}

	return &entity.DetectionResult{
		Status:         verdict,
		ProcessingTime: time.Since(start).Seconds(),
	}, nil
}

func parseGeminiVerdict(answer string) (entity.Verdict, error) {
	normalized := strings.ToLower(answer)
	hasDrowsy := strings.Contains(normalized, "drowsy")
	hasAwake := strings.Contains(normalized, "awake")

	switch {
	case hasDrowsy && !hasAwake:
		return entity.VerdictDrowsy, nil
	case hasAwake && !hasDrowsy:
		return entity.VerdictAwake, nil
	default:
		return "", fmt.Errorf("%w: ambiguous answer", ErrMalformedResponse)
	}
}
