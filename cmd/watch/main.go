package main

import (
	"DrowsyGuard/internal/entity"
	"DrowsyGuard/pkg/log"
	websocketPkg "DrowsyGuard/pkg/websocket"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	logger := log.NewLogger()

	app := &cli.App{
		Name:  "watch",
		Usage: "print every status the drowsiness monitor publishes",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "url",
				Value:   "ws://localhost:3000/api/v1/monitor/ws",
				Usage:   "monitor status stream",
				EnvVars: []string{"WATCH_URL"},
			},
		},
		Action: func(c *cli.Context) error {
			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			client := websocketPkg.NewStatusClient(logger, c.String("url"))
			return client.Watch(ctx, func(s entity.Status) {
				entry := logger.WithFields(logrus.Fields{
					"state":        s.State,
					"drowsy_count": s.DrowsyCount,
					"tick":         s.Tick,
				})
				if s.Alert != "" {
					entry = entry.WithField("alert", s.Alert)
				}
				entry.Info(s.Text)
			})
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Fatal(err)
	}
}
