package monitorHandler

import (
	monitorService "DrowsyGuard/internal/api/monitor/service"
	"DrowsyGuard/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type MonitorHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	monitorService monitorService.IMonitorService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ms monitorService.IMonitorService,
) *MonitorHandler {
	return &MonitorHandler{
		log:            log,
		validator:      validator,
		middleware:     middleware,
		monitorService: ms,
	}
}

func (h *MonitorHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	monitor := srv.Group("/monitor")
	monitor.Post("/start", h.middleware.NewRateLimiter, h.StartMonitor)
	monitor.Post("/stop", h.StopMonitor)
	monitor.Get("/status", h.GetStatus)
	monitor.Use("/ws", wsMiddleware)
	monitor.Get("/ws", websocket.New(h.streamStatus))
}
