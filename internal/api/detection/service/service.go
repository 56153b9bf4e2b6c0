package detectionService

import (
	"DrowsyGuard/internal/entity"
	"DrowsyGuard/pkg/utils"
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

const (
	SmoothingWindow = 5
	DrowsyCutoff    = 0.5
)

type IDetectionService interface {
	Classify(ctx context.Context, image []byte) (*entity.DetectionResult, error)
}

// Scorer returns the probability that the eyes in image are closed. found is
// false when no eyes could be located.
type Scorer interface {
	Score(ctx context.Context, image []byte) (probability float64, found bool, err error)
}

type detectionService struct {
	log    *logrus.Logger
	utils  utils.IUtils
	scorer Scorer

	mu     sync.Mutex
	window []float64
}

func NewDetectionService(log *logrus.Logger, utils utils.IUtils, scorer Scorer) IDetectionService {
	return &detectionService{
		log:    log,
		utils:  utils,
		scorer: scorer,
		window: make([]float64, 0, SmoothingWindow),
	}
}
