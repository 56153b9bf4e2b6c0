package monitorService

import (
	"DrowsyGuard/internal/api/monitor"
	"DrowsyGuard/internal/entity"
	"DrowsyGuard/pkg/phone"
	"DrowsyGuard/pkg/redis"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type IMonitorService interface {
	Start(ctx context.Context, rawPhone string) (entity.Status, error)
	Stop(ctx context.Context) entity.Status
	Status(ctx context.Context) entity.Status
	Subscribe() (<-chan entity.Status, func())
	Shutdown(ctx context.Context) error
}

type monitorService struct {
	log   *logrus.Logger
	loop  *DetectionLoop
	redis redis.IRedis

	relayDone chan struct{}
	cancel    func()
}

const publishTimeout = 2 * time.Second

// NewMonitorService wraps loop. When rdb is set every status change is also
// published to its channel.
func NewMonitorService(log *logrus.Logger, loop *DetectionLoop, rdb redis.IRedis) IMonitorService {
	s := &monitorService{
		log:   log,
		loop:  loop,
		redis: rdb,
	}

	if rdb != nil {
		updates, cancel := loop.Subscribe()
		s.cancel = cancel
		s.relayDone = make(chan struct{})
		go s.relay(updates)
	}

	return s
}

func (s *monitorService) Start(ctx context.Context, rawPhone string) (entity.Status, error) {
	contact, ok := phone.Format(rawPhone)
	if !ok {
		s.log.WithFields(logrus.Fields{
			"digits_expected": phone.SubscriberDigits,
		}).Warn("Rejected emergency contact")
		return s.loop.Status(), monitor.ErrInvalidContact
	}

	if err := s.loop.Start(contact); err != nil {
		return s.loop.Status(), err
	}

	return s.loop.Status(), nil
}

func (s *monitorService) Stop(ctx context.Context) entity.Status {
	s.loop.Stop()
	return s.loop.Status()
}

func (s *monitorService) Status(ctx context.Context) entity.Status {
	return s.loop.Status()
}

func (s *monitorService) Subscribe() (<-chan entity.Status, func()) {
	return s.loop.Subscribe()
}

// Shutdown stops the loop and waits for in-flight ticks, bounded by ctx.
func (s *monitorService) Shutdown(ctx context.Context) error {
	s.loop.Stop()
	err := s.loop.Wait(ctx)

	if s.cancel != nil {
		s.cancel()
		<-s.relayDone
	}

	return err
}

func (s *monitorService) relay(updates <-chan entity.Status) {
	defer close(s.relayDone)

	for status := range updates {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		if err := s.redis.PublishStatus(ctx, status); err != nil {
			s.log.WithError(err).Warn("Failed to relay monitor status")
		}
		cancel()
	}
}
