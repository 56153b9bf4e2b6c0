package redis

import (
	"DrowsyGuard/internal/entity"
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const DefaultStatusChannel = "drowsyguard:status"

// IRedis fans monitor status out to other consumers over pub/sub. Nothing is
// stored: subscribers that are not listening miss the update.
type IRedis interface {
	PublishStatus(ctx context.Context, status entity.Status) error
	Close() error
}

type redisClient struct {
	client  *redis.Client
	log     *logrus.Logger
	channel string
}

func New(log *logrus.Logger, addr, password string, db int, channel string) IRedis {
	if channel == "" {
		channel = DefaultStatusChannel
	}

	log.Info(fmt.Sprintf("Connecting to Redis at %s...", addr))

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		log.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		log.Info("Successfully connected to Redis")
	}

	return &redisClient{
		client:  client,
		log:     log,
		channel: channel,
	}
}

func (r *redisClient) PublishStatus(ctx context.Context, status entity.Status) error {
	payload, err := jsoniter.Marshal(status)
	if err != nil {
		return fmt.Errorf("failed to encode status: %w", err)
	}

	receivers, err := r.client.Publish(ctx, r.channel, payload).Result()
	if err != nil {
		r.log.Error(fmt.Sprintf("Error publishing status to %s: %v", r.channel, err))
		return err
	}

	r.log.Debug(fmt.Sprintf("Published status %q to %s (%d receivers)", status.Text, r.channel, receivers))
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
