package notifications

import (
	"context"
	"time"

	"toolmove/internal/core/config"
	"toolmove/pkg/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventStore interface {
	PendingEvents(ctx context.Context, limit int) ([]models.WeldEvent, error)
	MarkProcessed(ctx context.Context, eventID string, at time.Time) error
	RecordFailure(ctx context.Context, eventID string, cause string) error
	InsertNotification(ctx context.Context, notification *models.Notification) error
}

type Recipients interface {
	ListUserIDs(ctx context.Context) ([]string, error)
}

// Dispatcher expands pending weld events into one notification per user.
// Run it once per process; two dispatchers on one database may both deliver an event.
type Dispatcher struct {
	store      EventStore
	recipients Recipients
	log        *zap.Logger
	interval   time.Duration
	batchSize  int
	wake       chan struct{}
	now        func() time.Time
}

func NewDispatcher(store EventStore, recipients Recipients, log *zap.Logger, cfg config.DispatcherConfig) *Dispatcher {
	interval := cfg.Interval
	if interval <= 0 {
		interval = 10 * time.Second
	}
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = 20
	}

	return &Dispatcher{
		store:      store,
		recipients: recipients,
		log:        log,
		interval:   interval,
		batchSize:  batchSize,
		wake:       make(chan struct{}, 1),
		now:        time.Now,
	}
}

// Notify asks the running dispatcher to drain soon. It never blocks and
// wake-ups that arrive while one is queued are merged.
func (d *Dispatcher) Notify() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run drains on start, on every Notify and on each interval tick until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) {
	d.log.Info("notification dispatcher started", zap.Duration("interval", d.interval))

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.drainAndLog(ctx)
	for {
		select {
		case <-ctx.Done():
			d.log.Info("notification dispatcher stopped")
			return
		case <-ticker.C:
			d.drainAndLog(ctx)
		case <-d.wake:
			d.drainAndLog(ctx)
		}
	}
}

func (d *Dispatcher) drainAndLog(ctx context.Context) {
	processed, err := d.Drain(ctx)
	if err != nil && ctx.Err() == nil {
		d.log.Error("failed to drain weld events", zap.Error(err))
		return
	}
	if processed > 0 {
		d.log.Debug("weld events dispatched", zap.Int("events", processed))
	}
}

// Drain processes pending events in batches and returns how many were marked processed.
// Events whose recipients cannot be listed stay pending for the next pass.
func (d *Dispatcher) Drain(ctx context.Context) (int, error) {
	total := 0

	for {
		events, err := d.store.PendingEvents(ctx, d.batchSize)
		if err != nil {
			return total, err
		}

		processed := 0
		for _, event := range events {
			if ctx.Err() != nil {
				return total, ctx.Err()
			}
			if d.dispatch(ctx, event) {
				processed++
			}
		}
		total += processed

		if len(events) < d.batchSize || processed < len(events) {
			return total, nil
		}
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, event models.WeldEvent) bool {
	log := d.log.With(zap.String("event_id", event.ID), zap.String("weld_id", event.WeldID))

	userIDs, err := d.recipients.ListUserIDs(ctx)
	if err != nil {
		log.Warn("unable to list notification recipients", zap.Error(err), zap.Int("attempts", event.Attempts+1))
		if recordErr := d.store.RecordFailure(ctx, event.ID, err.Error()); recordErr != nil {
			log.Error("unable to record dispatch failure", zap.Error(recordErr))
		}
		return false
	}

	message := event.NotificationMessage()
	failed := 0
	for _, userID := range userIDs {
		notification := &models.Notification{
			ID:        uuid.NewString(),
			UserID:    userID,
			Message:   message,
			CreatedAt: d.now().UTC(),
		}
		if err := d.store.InsertNotification(ctx, notification); err != nil {
			failed++
			log.Error("failed to create notification", zap.String("user_id", userID), zap.Error(err))
		}
	}

	if ctx.Err() != nil {
		return false
	}

	if err := d.store.MarkProcessed(ctx, event.ID, d.now().UTC()); err != nil {
		log.Error("unable to mark weld event processed", zap.Error(err))
		return false
	}

	log.Debug("weld event fanned out", zap.Int("recipients", len(userIDs)), zap.Int("failed", failed))
	return true
}
