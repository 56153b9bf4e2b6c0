package websocketPkg

import (
	"DrowsyGuard/internal/entity"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// IStatusClient follows the monitor's status stream.
type IStatusClient interface {
	Watch(ctx context.Context, handle func(entity.Status)) error
}

type statusClient struct {
	log            *logrus.Logger
	url            string
	retryDelay     time.Duration
	writeTimeout   time.Duration
	handshakeLimit time.Duration
}

type statusEnvelope struct {
	Data entity.Status `json:"data"`
}

func NewStatusClient(log *logrus.Logger, url string) IStatusClient {
	return &statusClient{
		log:            log,
		url:            url,
		retryDelay:     2 * time.Second,
		writeTimeout:   5 * time.Second,
		handshakeLimit: 10 * time.Second,
	}
}

// Watch calls handle for every status received and reconnects when the
// stream drops. It returns once ctx is done.
func (c *statusClient) Watch(ctx context.Context, handle func(entity.Status)) error {
	for {
		err := c.stream(ctx, handle)
		if ctx.Err() != nil {
			return nil
		}

		c.log.WithError(err).Warnf("Status stream lost, reconnecting in %s", c.retryDelay)

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(c.retryDelay):
		}
	}
}

func (c *statusClient) stream(ctx context.Context, handle func(entity.Status)) error {
	dialer := *websocket.DefaultDialer
	dialer.HandshakeTimeout = c.handshakeLimit

	conn, _, err := dialer.DialContext(ctx, c.url, nil)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", c.url, err)
	}
	defer conn.Close()

	c.log.WithField("url", c.url).Info("Connected to status stream")

	conn.SetPingHandler(func(appData string) error {
		err := conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(c.writeTimeout))
		if err != nil {
			c.log.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	stop := context.AfterFunc(ctx, func() {
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(c.writeTimeout),
		)
		conn.Close()
	})
	defer stop()

	for {
		var msg statusEnvelope
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				return errors.New("server closed the stream")
			}
			return err
		}
		handle(msg.Data)
	}
}
