package commands

import (
	"context"
	"encoding/json"
	"time"

	"atlas/contexts/identity-access/permission-service/domain/events"
	"atlas/contexts/identity-access/permission-service/ports"
)

const sourceService = "permission-service"

func newPermissionEnvelope(event events.DomainEvent) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          event.EventID(),
		EventType:        event.EventType(),
		OccurredAt:       event.OccurredOn().UTC(),
		SourceService:    sourceService,
		TraceID:          event.EventID(),
		SchemaVersion:    event.EventVersion(),
		PartitionKeyPath: "permission_id",
		PartitionKey:     event.AggregateID(),
		Data:             payload,
	}, nil
}

// outboxMessages converts aggregate events into outbox rows sharing the
// command timestamp, assigning each row its own identifier.
func outboxMessages(
	ctx context.Context,
	idGen ports.IDGenerator,
	recorded []events.DomainEvent,
	now time.Time,
) ([]ports.OutboxMessage, error) {
	rows := make([]ports.OutboxMessage, 0, len(recorded))
	for _, event := range recorded {
		envelope, err := newPermissionEnvelope(event)
		if err != nil {
			return nil, err
		}
		payload, err := json.Marshal(envelope)
		if err != nil {
			return nil, err
		}
		outboxID, err := idGen.NewID(ctx)
		if err != nil {
			return nil, err
		}
		rows = append(rows, ports.OutboxMessage{
			OutboxID:  outboxID,
			EventType: event.EventType(),
			Payload:   payload,
			CreatedAt: now.UTC(),
		})
	}
	return rows, nil
}
