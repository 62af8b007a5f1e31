package scheduler

import (
	"context"
	"encoding/json"
	"fmt"

	"polleria_backend/internal/intake"
	"polleria_backend/platform/config"
	"polleria_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// Processor runs the intake pipeline for one message.
type Processor interface {
	Process(ctx context.Context, phone, text, messageID string) intake.Result
}

// Worker consumes intake tasks from Redis.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

func NewWorker(cfg config.SchedulerConfig, processor Processor, log *logger.Logger) (*Worker, error) {
	opts, err := redisConnOpts(cfg)
	if err != nil {
		return nil, err
	}

	server := asynq.NewServer(opts, asynq.Config{
		Concurrency: cfg.GetAsynqConcurrency(),
		Queues:      map[string]int{cfg.GetAsynqQueueName(): 1},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskIntakeProcess, func(ctx context.Context, task *asynq.Task) error {
		var payload IntakeProcessPayload
		if err := json.Unmarshal(task.Payload(), &payload); err != nil {
			return fmt.Errorf("unmarshal intake payload: %w", err)
		}
		// Outcome is logged by the pipeline itself; task errors would only
		// trigger retries, and intake is at-most-once.
		processor.Process(ctx, payload.Phone, payload.Text, payload.MessageID)
		return nil
	})

	log.Info("intake worker configured", "queue", cfg.GetAsynqQueueName(), "concurrency", cfg.GetAsynqConcurrency())
	return &Worker{server: server, mux: mux}, nil
}

// Run blocks until the server stops.
func (w *Worker) Run() error {
	return w.server.Run(w.mux)
}

// Shutdown drains in-flight tasks and stops the server.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
}
