package events

import (
	"context"
	"log/slog"

	"atlas/contexts/identity-access/permission-service/ports"
)

// Publisher is a logging event publisher used where no broker is wired.
// Runtime wiring swaps in the platform messaging bus.
type Publisher struct {
	logger *slog.Logger
}

func NewPublisher(logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{logger: logger}
}

func (p Publisher) Publish(_ context.Context, topic string, event ports.EventEnvelope) error {
	p.logger.Info("permission event published",
		"event", "permission_event_published",
		"module", "identity-access/permission-service",
		"layer", "adapter",
		"topic", topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
	)
	return nil
}
