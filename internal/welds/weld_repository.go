package welds

import (
	"context"
	"fmt"
	"time"

	"toolmove/internal/notifications"
	"toolmove/internal/repository"
	"toolmove/pkg/models"

	"github.com/doug-martin/goqu/v9"
)

type WeldRepository interface {
	GetWeldTouchups(ctx context.Context) ([]models.WeldTouchup, error)
	GetWeldTouchup(ctx context.Context, id string) (*models.WeldTouchup, error)
	CreateWithEvent(ctx context.Context, weld *models.WeldTouchup, event models.WeldEvent) error
	UpdateWeldTouchup(ctx context.Context, id string, changes *models.WeldTouchupChanges, updatedAt time.Time) error
	DeleteWeldTouchup(ctx context.Context, id string) error
}

type Repository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *Repository {
	return &Repository{repository: r}
}

func (r *Repository) selectWelds() *goqu.SelectDataset {
	columns := []interface{}{
		goqu.I("w.id"),
		goqu.I("w.part_number"),
		goqu.I("w.weld_type"),
		goqu.I("w.reason"),
		goqu.I("w.department_id"),
		goqu.I("w.line_id"),
		goqu.I("w.station_id"),
		goqu.I("w.notes"),
		goqu.I("w.completed_by"),
		goqu.I("w.status"),
		goqu.I("w.created_at"),
		goqu.I("w.updated_at"),
	}
	columns = append(columns, repository.LocationNameColumns()...)

	ds := r.repository.GoquDBWrapper.
		From(goqu.T("weld_touchups").As("w")).
		Select(columns...)

	return repository.WithLocationNames(ds, "w")
}

func (r *Repository) GetWeldTouchups(ctx context.Context) ([]models.WeldTouchup, error) {
	welds := []models.WeldTouchup{}

	query := r.selectWelds().Order(goqu.I("w.created_at").Desc(), goqu.I("w.id").Desc())
	if err := query.Executor().ScanStructsContext(ctx, &welds); err != nil {
		return nil, fmt.Errorf("failed to list weld touchups: %w", err)
	}

	return welds, nil
}

func (r *Repository) GetWeldTouchup(ctx context.Context, id string) (*models.WeldTouchup, error) {
	if !repository.IsUUID(id) {
		return nil, repository.ErrNotFound
	}

	var weld models.WeldTouchup
	found, err := r.selectWelds().
		Where(goqu.I("w.id").Eq(id)).
		Executor().
		ScanStructContext(ctx, &weld)
	if err != nil {
		return nil, fmt.Errorf("failed to get weld touchup %s: %w", id, err)
	}
	if !found {
		return nil, repository.ErrNotFound
	}

	return &weld, nil
}

// CreateWithEvent stores the weld and its outbox event in one transaction.
func (r *Repository) CreateWithEvent(ctx context.Context, weld *models.WeldTouchup, event models.WeldEvent) error {
	return repository.WithTransaction(ctx, r.repository.GoquDBWrapper, func(tx *goqu.TxDatabase) error {
		_, err := tx.Insert("weld_touchups").
			Rows(goqu.Record{
				"id":            weld.ID,
				"part_number":   weld.PartNumber,
				"weld_type":     weld.WeldType,
				"reason":        weld.Reason,
				"department_id": weld.DepartmentID,
				"line_id":       weld.LineID,
				"station_id":    weld.StationID,
				"notes":         weld.Notes,
				"completed_by":  weld.CompletedBy,
				"status":        string(weld.Status),
				"created_at":    weld.CreatedAt,
				"updated_at":    weld.UpdatedAt,
			}).
			Executor().
			ExecContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert weld touchup: %w", err)
		}

		return notifications.EnqueueWeldEvent(ctx, tx, event)
	})
}

func (r *Repository) UpdateWeldTouchup(ctx context.Context, id string, changes *models.WeldTouchupChanges, updatedAt time.Time) error {
	if !repository.IsUUID(id) {
		return repository.ErrNotFound
	}

	record := goqu.Record{"updated_at": updatedAt}
	if changes.Status != nil {
		record["status"] = string(*changes.Status)
	}
	if changes.Notes != nil {
		record["notes"] = *changes.Notes
	}
	if changes.CompletedBy != nil {
		record["completed_by"] = *changes.CompletedBy
	}

	result, err := r.repository.GoquDBWrapper.
		Update("weld_touchups").
		Set(record).
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update weld touchup %s: %w", id, err)
	}

	return repository.ExpectAffected(result)
}

func (r *Repository) DeleteWeldTouchup(ctx context.Context, id string) error {
	if !repository.IsUUID(id) {
		return repository.ErrNotFound
	}

	result, err := r.repository.GoquDBWrapper.
		Delete("weld_touchups").
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete weld touchup %s: %w", id, err)
	}

	return repository.ExpectAffected(result)
}
