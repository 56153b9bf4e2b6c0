package camera

import (
	"DrowsyGuard/internal/entity"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrNotReady   = errors.New("camera is not ready")
	ErrNoImage    = errors.New("capture produced no image")
	ErrNotAnImage = errors.New("capture produced a non-image file")
)

// ICamera produces still frames on demand. Callers treat every error from
// TakePhoto as a failed capture.
type ICamera interface {
	TakePhoto(ctx context.Context) (entity.Frame, error)
	IsReady() bool
}

func sniffImage(path string) (string, error) {
	mime, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNoImage, err)
	}

	if !strings.HasPrefix(mime.String(), "image/") {
		return "", fmt.Errorf("%w: %s", ErrNotAnImage, mime.String())
	}

	return mime.String(), nil
}
