package context

import (
	"context"

	"github.com/gofiber/fiber/v2"
)

const (
	RequestIDKey    = "request_id"
	requestIDHeader = "X-Request-ID"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func GetRequestID(ctx context.Context) string {
	requestID, ok := ctx.Value(RequestIDKey).(string)
	if !ok || requestID == "" {
		return "unknown"
	}
	return requestID
}

// FromFiberCtx derives a context from the request's user context carrying the
// request id set by the request id middleware.
func FromFiberCtx(c *fiber.Ctx) context.Context {
	requestID, ok := c.Locals(requestIDHeader).(string)
	if !ok || requestID == "" {
		requestID = c.Get(requestIDHeader)

		if requestID == "" {
			requestID = "unknown"
		}
	}

	return WithRequestID(c.UserContext(), requestID)
}
