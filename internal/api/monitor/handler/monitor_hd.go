package monitorHandler

import (
	"DrowsyGuard/internal/api/monitor"
	contextPkg "DrowsyGuard/pkg/context"
	"DrowsyGuard/pkg/handlerUtil"
	"DrowsyGuard/pkg/log"
	"DrowsyGuard/pkg/phone"
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

const (
	requestTimeout = 5 * time.Second
	writeTimeout   = 10 * time.Second
)

func (h *MonitorHandler) StartMonitor(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req monitor.StartMonitorRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.Handle(ctx, requestID, monitor.ErrInvalidContact, ctx.Path(), "parse_request_body")
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	status, err := h.monitorService.Start(c, req.PhoneNumber)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "start_monitor")
	}

	log.WithRequestID(c).WithFields(log.Fields{
		"contact": phone.Mask(status.Contact.String()),
	}).Info("Monitoring started")

	return errHandler.HandleSuccess(ctx, fiber.StatusOK, monitor.StatusResponse{Data: status})
}

func (h *MonitorHandler) StopMonitor(ctx *fiber.Ctx) error {
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), requestTimeout)
	defer cancel()

	status := h.monitorService.Stop(c)

	return handlerUtil.New(h.log).HandleSuccess(ctx, fiber.StatusOK, monitor.StatusResponse{Data: status})
}

func (h *MonitorHandler) GetStatus(ctx *fiber.Ctx) error {
	status := h.monitorService.Status(contextPkg.FromFiberCtx(ctx))
	return handlerUtil.New(h.log).HandleSuccess(ctx, fiber.StatusOK, monitor.StatusResponse{Data: status})
}

func (h *MonitorHandler) streamStatus(c *websocket.Conn) {
	h.log.Info("Status stream client connected")
	defer h.log.Info("Status stream client disconnected")

	updates, unsubscribe := h.monitorService.Subscribe()
	defer unsubscribe()

	// Client messages are ignored; reading only notices the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.log.Errorf("Status stream read error: %v", err)
				}
				return
			}
		}
	}()

	if err := h.writeStatus(c, monitor.StatusResponse{Data: h.monitorService.Status(context.Background())}); err != nil {
		return
	}

	for {
		select {
		case <-closed:
			return
		case status, ok := <-updates:
			if !ok {
				return
			}
			if err := h.writeStatus(c, monitor.StatusResponse{Data: status}); err != nil {
				return
			}
		}
	}
}

func (h *MonitorHandler) writeStatus(c *websocket.Conn, payload monitor.StatusResponse) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
		h.log.Errorf("Error setting write deadline: %v", err)
		return err
	}

	if err := c.WriteJSON(payload); err != nil {
		h.log.Errorf("Error writing status: %v", err)
		return err
	}

	return nil
}
