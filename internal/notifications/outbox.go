package notifications

import (
	"context"
	"fmt"
	"time"

	"toolmove/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

const weldEventsTable = "weld_events"

// NewWeldCreatedEvent builds the outbox entry for a freshly created weld touchup.
func NewWeldCreatedEvent(weld *models.WeldTouchup) models.WeldEvent {
	return models.WeldEvent{
		ID:         uuid.NewString(),
		Type:       models.WeldCreatedEvent,
		WeldID:     weld.ID,
		PartNumber: weld.PartNumber,
		Reason:     weld.Reason,
		CreatedAt:  weld.CreatedAt,
	}
}

// EnqueueWeldEvent writes event inside tx, so it commits or rolls back with the weld row.
func EnqueueWeldEvent(ctx context.Context, tx *goqu.TxDatabase, event models.WeldEvent) error {
	createdAt := event.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err := tx.Insert(weldEventsTable).
		Rows(goqu.Record{
			"id":          event.ID,
			"type":        event.Type,
			"weld_id":     event.WeldID,
			"part_number": event.PartNumber,
			"reason":      event.Reason,
			"attempts":    0,
			"created_at":  createdAt,
		}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s event: %w", event.Type, err)
	}

	return nil
}
