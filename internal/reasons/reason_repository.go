package reasons

import (
	"context"
	"fmt"
	"time"

	"toolmove/internal/repository"
	custom_error "toolmove/pkg/errors"
	"toolmove/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
)

type ReasonRepository interface {
	GetReasons(ctx context.Context) ([]models.Reason, error)
	ReasonExists(ctx context.Context, id string) (bool, error)
	PersistReason(ctx context.Context, req models.LookupRequest) (*models.Reason, error)
	DeleteReason(ctx context.Context, id string) error
}

type Repository struct {
	repository *repository.Repository
	now        func() time.Time
}

func NewRepository(r *repository.Repository) *Repository {
	return &Repository{repository: r, now: time.Now}
}

func (r *Repository) GetReasons(ctx context.Context) ([]models.Reason, error) {
	reasons := []models.Reason{}

	query := r.repository.GoquDBWrapper.
		Select("id", "name", "description", "status", "created_at").
		From("reasons").
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructsContext(ctx, &reasons); err != nil {
		return nil, fmt.Errorf("failed to list reasons: %w", err)
	}

	return reasons, nil
}

func (r *Repository) ReasonExists(ctx context.Context, id string) (bool, error) {
	if !repository.IsUUID(id) {
		return false, nil
	}

	var found string
	ok, err := r.repository.GoquDBWrapper.
		Select("id").
		From("reasons").
		Where(goqu.Ex{"id": id}).
		Executor().
		ScanValContext(ctx, &found)
	if err != nil {
		return false, fmt.Errorf("failed to look up reason %s: %w", id, err)
	}

	return ok, nil
}

func (r *Repository) PersistReason(ctx context.Context, req models.LookupRequest) (*models.Reason, error) {
	reason := &models.Reason{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Status:      req.StatusOrDefault(),
		CreatedAt:   r.now().UTC(),
	}

	_, err := r.repository.GoquDBWrapper.
		Insert("reasons").
		Rows(goqu.Record{
			"id":          reason.ID,
			"name":        reason.Name,
			"description": reason.Description,
			"status":      reason.Status,
			"created_at":  reason.CreatedAt,
		}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to insert reason: %w", custom_error.FromPQ(err))
	}

	return reason, nil
}

func (r *Repository) DeleteReason(ctx context.Context, id string) error {
	if !repository.IsUUID(id) {
		return repository.ErrNotFound
	}

	result, err := r.repository.GoquDBWrapper.
		Delete("reasons").
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete reason: %w", err)
	}

	return repository.ExpectAffected(result)
}
