package alert

import (
	"DrowsyGuard/internal/entity"
	"DrowsyGuard/pkg/phone"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/sirupsen/logrus"
)

const Scheme = "sms"

var ErrNoHandler = errors.New("no handler can open the messaging URI")

// Result reports how far a dispatch got. Launched only means a handler took
// the URI; delivery is never confirmed.
type Result struct {
	Outcome entity.AlertOutcome
	URI     string
	Handler string
	Err     error
}

type Handler interface {
	Name() string
	CanOpen(uri *url.URL) bool
	Open(ctx context.Context, uri *url.URL) error
}

type IDispatcher interface {
	Dispatch(ctx context.Context, contact entity.Contact, message string) Result
}

type dispatcher struct {
	log      *logrus.Logger
	handlers []Handler
}

// NewDispatcher tries handlers in order and hands the URI to the first one
// that reports it can open it.
func NewDispatcher(log *logrus.Logger, handlers ...Handler) IDispatcher {
	return &dispatcher{
		log:      log,
		handlers: handlers,
	}
}

// BuildURI renders sms:<contact>?body=<message> with the message
// percent-encoded (spaces as %20, not +).
func BuildURI(contact entity.Contact, message string) string {
	body := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return fmt.Sprintf("%s:%s?body=%s", Scheme, contact, body)
}

func (d *dispatcher) Dispatch(ctx context.Context, contact entity.Contact, message string) Result {
	raw := BuildURI(contact, message)
	uri, err := url.Parse(raw)
	if err != nil {
		return Result{Outcome: entity.AlertFailed, URI: raw, Err: err}
	}

	for _, h := range d.handlers {
		if !h.CanOpen(uri) {
			continue
		}

		if err := h.Open(ctx, uri); err != nil {
			d.log.WithFields(logrus.Fields{
				"handler": h.Name(),
				"contact": phone.Mask(contact.String()),
				"error":   err.Error(),
			}).Error("Alert handler failed")
			return Result{Outcome: entity.AlertFailed, URI: raw, Handler: h.Name(), Err: err}
		}

		d.log.WithFields(logrus.Fields{
			"handler": h.Name(),
			"contact": phone.Mask(contact.String()),
		}).Info("Alert handed off")
		return Result{Outcome: entity.AlertLaunched, URI: raw, Handler: h.Name()}
	}

	d.log.WithFields(logrus.Fields{
		"contact":  phone.Mask(contact.String()),
		"handlers": len(d.handlers),
	}).Warn("No messaging handler available")

	return Result{Outcome: entity.AlertUnavailable, URI: raw, Err: ErrNoHandler}
}

func recipient(uri *url.URL) string {
	if uri.Opaque != "" {
		return uri.Opaque
	}
	return uri.Path
}
