package detectionHandler

import (
	detectionService "DrowsyGuard/internal/api/detection/service"
	"DrowsyGuard/internal/middleware"
	"DrowsyGuard/pkg/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type DetectionHandler struct {
	log              *logrus.Logger
	middleware       middleware.Middleware
	detectionService detectionService.IDetectionService
	utils            utils.IUtils
}

func New(
	log *logrus.Logger,
	middleware middleware.Middleware,
	ds detectionService.IDetectionService,
	utils utils.IUtils,
) *DetectionHandler {
	return &DetectionHandler{
		detectionService: ds,
		log:              log,
		middleware:       middleware,
		utils:            utils,
	}
}

func (h *DetectionHandler) Start(srv fiber.Router) {
	srv.Get("/", h.Health)
	srv.Post("/detect-video", h.DetectVideo)
}
