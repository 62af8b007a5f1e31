package scheduler

import (
	"context"

	"polleria_backend/internal/intake"
	"polleria_backend/platform/logger"
)

// InlineDispatcher processes messages in a detached goroutine inside the API
// process. Used when Redis is not configured; the webhook's acknowledgment
// has already been written, so processing survives the request context.
type InlineDispatcher struct {
	processor Processor
	log       *logger.Logger
}

func NewInlineDispatcher(processor Processor, log *logger.Logger) *InlineDispatcher {
	return &InlineDispatcher{processor: processor, log: log}
}

func (d *InlineDispatcher) Dispatch(_ context.Context, phone, text, messageID string) error {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.log.Error("intake processing panicked", "message_id", messageID, "panic", r)
			}
		}()
		d.processor.Process(context.Background(), phone, text, messageID)
	}()
	return nil
}

var _ intake.Dispatcher = (*InlineDispatcher)(nil)
