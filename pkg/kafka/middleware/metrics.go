package kafka_middleware

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"zoo/pkg/kafka"
)

type Metrics struct {
	published *prometheus.CounterVec
	duration  prometheus.Histogram
}

// NewMetrics registers the producer collectors with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		published: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "kafka_messages_published_total",
			Help:      "Kafka messages published by event type and result.",
		}, []string{"event_type", "result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "kafka_publish_duration_seconds",
			Help:      "Kafka publish latency.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.published, m.duration)
	return m
}

func (m *Metrics) ProducerMiddleware() kafka.ProducerMiddleware {
	return func(ctx context.Context, msg kafka.Message, next func(ctx context.Context, msg kafka.Message) error) error {
		start := time.Now()

		err := next(ctx, msg)

		m.duration.Observe(time.Since(start).Seconds())
		result := "success"
		if err != nil {
			result = "failure"
		}
		m.published.WithLabelValues(msg.GetEventType(), result).Inc()

		return err
	}
}
