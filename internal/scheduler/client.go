package scheduler

import (
	"context"
	"fmt"

	"polleria_backend/internal/intake"
	"polleria_backend/platform/config"
	"polleria_backend/platform/logger"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
)

// Client enqueues intake tasks onto Redis.
type Client struct {
	client *asynq.Client
	queue  string
	log    *logger.Logger
}

// NewClient connects the enqueue side. Returns an error when REDIS_URL is
// not set; callers fall back to in-process dispatch.
func NewClient(cfg config.SchedulerConfig, log *logger.Logger) (*Client, error) {
	opts, err := redisConnOpts(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		client: asynq.NewClient(opts),
		queue:  cfg.GetAsynqQueueName(),
		log:    log,
	}, nil
}

// Dispatch enqueues one inbound message for background processing.
func (c *Client) Dispatch(ctx context.Context, phone, text, messageID string) error {
	task, err := NewIntakeProcessTask(phone, text, messageID)
	if err != nil {
		return fmt.Errorf("build intake task: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx, task, asynq.Queue(c.queue))
	if err != nil {
		return fmt.Errorf("enqueue intake task: %w", err)
	}
	c.log.Debug("intake task enqueued", "task_id", info.ID, "message_id", messageID)
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

var _ intake.Dispatcher = (*Client)(nil)

func redisConnOpts(cfg config.SchedulerConfig) (asynq.RedisClientOpt, error) {
	url := cfg.GetRedisURL()
	if url == "" {
		return asynq.RedisClientOpt{}, fmt.Errorf("redis is not configured")
	}
	parsed, err := redis.ParseURL(url)
	if err != nil {
		return asynq.RedisClientOpt{}, fmt.Errorf("parse redis url: %w", err)
	}
	return asynq.RedisClientOpt{
		Addr:     parsed.Addr,
		Username: parsed.Username,
		Password: parsed.Password,
		DB:       parsed.DB,
	}, nil
}
