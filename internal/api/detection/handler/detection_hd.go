package detectionHandler

import (
	"DrowsyGuard/internal/api/detection"
	contextPkg "DrowsyGuard/pkg/context"
	detectorPkg "DrowsyGuard/pkg/detector"
	"DrowsyGuard/pkg/handlerUtil"
	"DrowsyGuard/pkg/log"
	"context"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
)

func (h *DetectionHandler) Health(ctx *fiber.Ctx) error {
	return ctx.SendString(detection.HealthMessage)
}

func (h *DetectionHandler) DetectVideo(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	file, err := ctx.FormFile(detectorPkg.FrameField)
	if err != nil {
		return errHandler.Handle(ctx, requestID, detection.ErrNoFrame, ctx.Path(), "read_form_file")
	}

	h.log.WithFields(log.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"file_name":  file.Filename,
		"file_size":  file.Size,
	}).Debug("Received frame")

	if err := h.utils.ValidateImageFile(file); err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "validate_image_file")
	}

	fileContent, err := file.Open()
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "open_file")
	}
	defer fileContent.Close()

	data, err := io.ReadAll(fileContent)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "read_file")
	}

	result, err := h.detectionService.Classify(c, data)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "classify_frame")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, detection.DetectResponse{
			Status:         string(result.Status),
			ProcessingTime: result.ProcessingTime,
		})
	}
}
