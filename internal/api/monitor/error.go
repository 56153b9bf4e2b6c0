package monitor

import (
	"DrowsyGuard/internal/entity"
	"DrowsyGuard/pkg/response"
	"errors"
	"net/http"
)

var (
	ErrInvalidContact        = response.NewError(http.StatusBadRequest, "invalid contact number")
	ErrCameraNotReady        = response.NewError(http.StatusServiceUnavailable, "camera is not ready")
	ErrAlreadyRunning        = response.NewError(http.StatusConflict, "monitor is already running")
	ErrCapture               = response.NewError(http.StatusBadGateway, "failed to capture frame")
	ErrNetwork               = response.NewError(http.StatusBadGateway, "failed to reach detection service")
	ErrCapabilityUnavailable = response.NewError(http.StatusServiceUnavailable, "no messaging app available")
	ErrAlertFailed           = response.NewError(http.StatusBadGateway, "failed to launch alert")
)

// StatusText converts a tick-path error into the text shown in place of a
// verdict.
func StatusText(err error) string {
	switch {
	case errors.Is(err, ErrCapture):
		return entity.StatusCaptureError
	case errors.Is(err, ErrNetwork):
		return entity.StatusNetworkError
	case errors.Is(err, ErrCapabilityUnavailable):
		return entity.StatusSMSUnavailable
	case errors.Is(err, ErrAlertFailed):
		return entity.StatusAlertFailed
	default:
		return err.Error()
	}
}
