package alert

import (
	"DrowsyGuard/pkg/whatsapp"
	"context"
	"net/url"
)

type whatsappHandler struct {
	sender whatsapp.IWhatsappSender
}

// NewWhatsappHandler delivers sms: URIs as WhatsApp messages to the same
// number. It only claims the URI while the session is connected.
func NewWhatsappHandler(sender whatsapp.IWhatsappSender) Handler {
	return &whatsappHandler{sender: sender}
}

func (h *whatsappHandler) Name() string {
	return "whatsapp"
}

func (h *whatsappHandler) CanOpen(uri *url.URL) bool {
	return uri.Scheme == Scheme && h.sender != nil && h.sender.IsConnected()
}

func (h *whatsappHandler) Open(ctx context.Context, uri *url.URL) error {
	return h.sender.SendMessage(ctx, recipient(uri), uri.Query().Get("body"))
}
