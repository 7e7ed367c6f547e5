package kafka_middleware

import (
	"context"
	"time"

	"zoo/pkg/kafka"
	"zoo/pkg/logger"
)

func LoggingProducerMiddleware(log *logger.Logger) kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()
		l := log.FromContext(ctx)

		err := next(ctx, msg)

		attrs := []any{
			"topic", msg.Topic,
			"key", msg.Key,
			"event_id", msg.GetEventID(),
			"event_type", msg.GetEventType(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if err != nil {
			l.Error("Failed to publish message", append(attrs, "error", err, "error_type", kafka.ClassifyError(err).String())...)
		} else {
			l.Debug("Published message", attrs...)
		}

		return err
	}
}
