package detector

import (
	"DrowsyGuard/internal/entity"
	"context"
	"errors"
)

const FrameField = "frame"

var (
	ErrRequestFailed     = errors.New("detection request failed")
	ErrUnexpectedStatus  = errors.New("detection service returned non-2xx status")
	ErrMalformedResponse = errors.New("malformed detection response")
)

// IDetector classifies one frame per call. There is no retry: a failed call
// is reported to the caller and the frame is dropped.
type IDetector interface {
	Upload(ctx context.Context, frame entity.Frame) (*entity.DetectionResult, error)
}
