package notifications

import (
	"context"
	"fmt"
	"time"

	"toolmove/internal/repository"
	"toolmove/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type NotificationRepository interface {
	ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
}

type Repository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *Repository {
	return &Repository{repository: r}
}

func (r *Repository) ListForUser(ctx context.Context, userID string, limit int) ([]models.Notification, error) {
	notifications := []models.Notification{}
	if !repository.IsUUID(userID) {
		return notifications, nil
	}

	query := r.repository.GoquDBWrapper.
		Select("id", "user_id", "message", "read", "created_at").
		From("notifications").
		Where(goqu.Ex{"user_id": userID}).
		Order(goqu.I("created_at").Desc(), goqu.I("id").Desc()).
		Limit(uint(limit))

	if err := query.Executor().ScanStructsContext(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	return notifications, nil
}

func (r *Repository) CountUnread(ctx context.Context, userID string) (int64, error) {
	if !repository.IsUUID(userID) {
		return 0, nil
	}

	count, err := r.repository.GoquDBWrapper.
		From("notifications").
		Where(goqu.Ex{"user_id": userID, "read": false}).
		CountContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	return count, nil
}

// MarkRead only touches a notification owned by userID; anything else is ErrNotFound.
func (r *Repository) MarkRead(ctx context.Context, id, userID string) error {
	if !repository.IsUUID(id) || !repository.IsUUID(userID) {
		return repository.ErrNotFound
	}

	result, err := r.repository.GoquDBWrapper.
		Update("notifications").
		Set(goqu.Record{"read": true}).
		Where(goqu.Ex{"id": id, "user_id": userID}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark notification %s read: %w", id, err)
	}

	return repository.ExpectAffected(result)
}

func (r *Repository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	if !repository.IsUUID(userID) {
		return 0, nil
	}

	result, err := r.repository.GoquDBWrapper.
		Update("notifications").
		Set(goqu.Record{"read": true}).
		Where(goqu.Ex{"user_id": userID, "read": false}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", err)
	}

	return result.RowsAffected()
}

func (r *Repository) InsertNotification(ctx context.Context, notification *models.Notification) error {
	_, err := r.repository.GoquDBWrapper.
		Insert("notifications").
		Rows(goqu.Record{
			"id":         notification.ID,
			"user_id":    notification.UserID,
			"message":    notification.Message,
			"read":       notification.Read,
			"created_at": notification.CreatedAt,
		}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert notification for %s: %w", notification.UserID, err)
	}

	return nil
}

func (r *Repository) PendingEvents(ctx context.Context, limit int) ([]models.WeldEvent, error) {
	events := []models.WeldEvent{}

	query := r.repository.GoquDBWrapper.
		Select("id", "type", "weld_id", "part_number", "reason", "attempts", "last_error", "created_at", "processed_at").
		From(weldEventsTable).
		Where(goqu.C("processed_at").IsNull()).
		Order(goqu.I("created_at").Asc(), goqu.I("id").Asc()).
		Limit(uint(limit))

	if err := query.Executor().ScanStructsContext(ctx, &events); err != nil {
		return nil, fmt.Errorf("failed to list pending weld events: %w", err)
	}

	return events, nil
}

func (r *Repository) MarkProcessed(ctx context.Context, eventID string, at time.Time) error {
	_, err := r.repository.GoquDBWrapper.
		Update(weldEventsTable).
		Set(goqu.Record{"processed_at": at}).
		Where(goqu.Ex{"id": eventID}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark weld event %s processed: %w", eventID, err)
	}

	return nil
}

func (r *Repository) RecordFailure(ctx context.Context, eventID string, cause string) error {
	_, err := r.repository.GoquDBWrapper.
		Update(weldEventsTable).
		Set(goqu.Record{
			"attempts":   goqu.L("attempts + 1"),
			"last_error": cause,
		}).
		Where(goqu.Ex{"id": eventID}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to record weld event %s failure: %w", eventID, err)
	}

	return nil
}
