package detectionService

import (
	"DrowsyGuard/internal/api/detection"
	"DrowsyGuard/internal/entity"
	"context"
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *detectionService) Classify(ctx context.Context, image []byte) (*entity.DetectionResult, error) {
	start := time.Now()

	cfg, format, err := s.utils.DecodeImageConfig(image)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", detection.ErrUnreadableImage, err)
	}

	verdict := entity.VerdictDrowsy

	probability, found, err := s.scorer.Score(ctx, image)
	switch {
	case err != nil:
		s.log.WithError(err).Warn("Scoring failed, assuming drowsy")
	case !found:
		s.log.Debug("No eyes found, assuming drowsy")
	default:
		smoothed := s.smooth(probability)
		if smoothed <= DrowsyCutoff {
			verdict = entity.VerdictAwake
		}
		s.log.WithFields(logrus.Fields{
			"probability": probability,
			"smoothed":    smoothed,
		}).Debug("Frame scored")
	}

	elapsed := math.Round(time.Since(start).Seconds()*10000) / 10000

	s.log.WithFields(logrus.Fields{
		"format":          format,
		"width":           cfg.Width,
		"height":          cfg.Height,
		"verdict":         verdict,
		"processing_time": elapsed,
	}).Info("Frame classified")

	return &entity.DetectionResult{
		Status:         verdict,
		ProcessingTime: elapsed,
	}, nil
}

// smooth adds p to the rolling window and returns the window mean.
func (s *detectionService) smooth(p float64) float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.window) == SmoothingWindow {
		s.window = s.window[1:]
	}
	s.window = append(s.window, p)

	var sum float64
	for _, v := range s.window {
		sum += v
	}
	return sum / float64(len(s.window))
}
