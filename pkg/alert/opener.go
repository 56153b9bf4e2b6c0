package alert

import (
	"context"
	"net/url"
	"os/exec"

	"github.com/sirupsen/logrus"
)

type openerHandler struct {
	log    *logrus.Logger
	opener string
}

// NewOpenerHandler launches the platform URI opener ("termux-open" on
// Android, "xdg-open" on Linux desktops) which brings up the messaging
// composer with the alert pre-filled.
func NewOpenerHandler(log *logrus.Logger, opener string) Handler {
	return &openerHandler{
		log:    log,
		opener: opener,
	}
}

func (h *openerHandler) Name() string {
	return h.opener
}

func (h *openerHandler) CanOpen(uri *url.URL) bool {
	if uri.Scheme != Scheme || h.opener == "" {
		return false
	}
	_, err := exec.LookPath(h.opener)
	return err == nil
}

func (h *openerHandler) Open(ctx context.Context, uri *url.URL) error {
	cmd := exec.Command(h.opener, uri.String())
	if err := cmd.Start(); err != nil {
		return err
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			h.log.WithFields(logrus.Fields{
				"opener": h.opener,
				"error":  err.Error(),
			}).Warn("URI opener exited with error")
		}
	}()

	return nil
}
