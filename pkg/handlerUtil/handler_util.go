package handlerUtil

import (
	"DrowsyGuard/internal/api/detection"
	"DrowsyGuard/internal/api/monitor"
	"DrowsyGuard/pkg/log"
	"DrowsyGuard/pkg/response"
	"DrowsyGuard/pkg/utils"
	"errors"

	"github.com/gofiber/fiber/v2"
	fiberUtils "github.com/gofiber/fiber/v2/utils"
	"github.com/sirupsen/logrus"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ErrorHandler struct {
	logger *logrus.Logger
}

func New(logger *logrus.Logger) *ErrorHandler {
	return &ErrorHandler{
		logger: logger,
	}
}

var errorCodes = []struct {
	err  error
	code string
}{
	{monitor.ErrInvalidContact, "INVALID_CONTACT"},
	{monitor.ErrCameraNotReady, "CAMERA_NOT_READY"},
	{monitor.ErrAlreadyRunning, "MONITOR_RUNNING"},
	{monitor.ErrCapture, "CAPTURE_FAILED"},
	{monitor.ErrNetwork, "DETECTION_UNREACHABLE"},
	{monitor.ErrCapabilityUnavailable, "SMS_UNAVAILABLE"},
	{monitor.ErrAlertFailed, "ALERT_FAILED"},
}

func (h *ErrorHandler) Handle(c *fiber.Ctx, requestID string, err error, path string, operation string) error {
	fields := log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
		"operation":  operation,
	}

	// The detection stub answers in the shape its clients already parse.
	if errors.Is(err, detection.ErrNoFrame) || errors.Is(err, detection.ErrUnreadableImage) {
		h.logger.WithFields(fields).Warn("Rejected detection frame")
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": detectionMessage(err)})
	}

	if errors.Is(err, utils.ErrFileTooLarge) {
		h.logger.WithFields(fields).Warn("Rejected uploaded file")
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: err.Error(),
			Code:  "INVALID_FILE",
		})
	}

	var respErr *response.Error
	if errors.As(err, &respErr) {
		fields["code"] = respErr.Code
		if respErr.Code >= fiber.StatusInternalServerError {
			h.logger.WithFields(fields).Error("Operation failed with error response")
		} else {
			h.logger.WithFields(fields).Warn("Operation failed with error response")
		}

		resp := ErrorResponse{Error: err.Error()}
		for _, ec := range errorCodes {
			if errors.Is(err, ec.err) {
				resp.Code = ec.code
				break
			}
		}
		return c.Status(respErr.Code).JSON(resp)
	}

	fields[log.RequestIDKey] = requestID
	traceID := log.ErrorWithTraceID(fields, "Unexpected error")

	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error":    "An unexpected error occurred",
		"trace_id": traceID,
	})
}

func detectionMessage(err error) string {
	if errors.Is(err, detection.ErrNoFrame) {
		return detection.ErrNoFrame.Error()
	}
	return detection.ErrUnreadableImage.Error()
}

func (h *ErrorHandler) HandleValidationError(c *fiber.Ctx, requestID string, err error, path string) error {
	h.logger.WithFields(log.Fields{
		"request_id": requestID,
		"error":      err.Error(),
		"path":       path,
	}).Warn("Validation failed")

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": "Validation failed: " + err.Error(),
		"code":  "VALIDATION_ERROR",
	})
}

func (h *ErrorHandler) HandleRequestTimeout(c *fiber.Ctx) error {
	return c.Status(fiber.StatusRequestTimeout).JSON(fiberUtils.StatusMessage(fiber.StatusRequestTimeout))
}

func (h *ErrorHandler) HandleSuccess(c *fiber.Ctx, statusCode int, data interface{}) error {
	if data == nil {
		return c.SendStatus(statusCode)
	}
	return c.Status(statusCode).JSON(data)
}
