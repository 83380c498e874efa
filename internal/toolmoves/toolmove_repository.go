package toolmoves

import (
	"context"
	"fmt"
	"time"

	"toolmove/internal/repository"
	"toolmove/pkg/models"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
)

type ToolMoveRepository interface {
	GetToolMoves(ctx context.Context, qb repository.QueryBuilder) ([]models.ToolMove, error)
	GetToolMove(ctx context.Context, id string) (*models.ToolMove, error)
	PersistToolMove(ctx context.Context, move *models.ToolMove) error
	UpdateWeldFields(ctx context.Context, id string, patch models.WeldTouchupPatch, updatedAt time.Time) error
	DeleteToolMove(ctx context.Context, id string) error
}

// filterAliases maps the filters accepted by GetToolMoves onto joined columns.
var filterAliases = map[string]string{
	"id":                     "tm.id",
	"department_id":          "tm.department_id",
	"line_id":                "tm.line_id",
	"station_id":             "tm.station_id",
	"requires_weld_touchup":  "tm.requires_weld_touchup",
	"weld_touchup_completed": "tm.weld_touchup_completed",
}

type Repository struct {
	repository *repository.Repository
}

func NewRepository(r *repository.Repository) *Repository {
	return &Repository{repository: r}
}

func (r *Repository) selectToolMoves() *goqu.SelectDataset {
	columns := []interface{}{
		goqu.I("tm.id"),
		goqu.I("tm.reason_id"),
		goqu.I("r.name").As("reason_name"),
		goqu.I("tm.department_id"),
		goqu.I("tm.line_id"),
		goqu.I("tm.station_id"),
		goqu.I("tm.notes"),
		goqu.I("tm.moved_by"),
		goqu.I("tm.requires_weld_touchup"),
		goqu.I("tm.weld_touchup_completed"),
		goqu.I("tm.weld_touchup_notes"),
		goqu.I("tm.created_at"),
		goqu.I("tm.updated_at"),
	}
	columns = append(columns, repository.LocationNameColumns()...)

	ds := r.repository.GoquDBWrapper.
		From(goqu.T("tool_moves").As("tm")).
		Select(columns...).
		LeftJoin(goqu.T("reasons").As("r"), goqu.On(goqu.I("r.id").Eq(goqu.I("tm.reason_id"))))

	return repository.WithLocationNames(ds, "tm")
}

// GetToolMoves returns the matching moves newest first. A nil builder means no filter.
func (r *Repository) GetToolMoves(ctx context.Context, qb repository.QueryBuilder) ([]models.ToolMove, error) {
	moves := []models.ToolMove{}

	query := r.selectToolMoves()
	if qb != nil {
		query = query.Where(qb.BuildConditions(filterAliases))
	}
	query = query.Order(goqu.I("tm.created_at").Desc(), goqu.I("tm.id").Desc())

	if err := query.Executor().ScanStructsContext(ctx, &moves); err != nil {
		return nil, fmt.Errorf("failed to list tool moves: %w", err)
	}

	return moves, nil
}

func (r *Repository) GetToolMove(ctx context.Context, id string) (*models.ToolMove, error) {
	if !repository.IsUUID(id) {
		return nil, repository.ErrNotFound
	}

	var move models.ToolMove
	found, err := r.selectToolMoves().
		Where(goqu.I("tm.id").Eq(id)).
		Executor().
		ScanStructContext(ctx, &move)
	if err != nil {
		return nil, fmt.Errorf("failed to get tool move %s: %w", id, err)
	}
	if !found {
		return nil, repository.ErrNotFound
	}

	return &move, nil
}

func (r *Repository) PersistToolMove(ctx context.Context, move *models.ToolMove) error {
	_, err := r.repository.GoquDBWrapper.
		Insert("tool_moves").
		Rows(goqu.Record{
			"id":                     move.ID,
			"reason_id":              move.ReasonID,
			"department_id":          move.DepartmentID,
			"line_id":                move.LineID,
			"station_id":             move.StationID,
			"notes":                  move.Notes,
			"moved_by":               move.MovedBy,
			"requires_weld_touchup":  move.RequiresWeldTouchup,
			"weld_touchup_completed": move.WeldTouchupCompleted,
			"weld_touchup_notes":     move.WeldTouchupNotes,
			"created_at":             move.CreatedAt,
			"updated_at":             move.UpdatedAt,
		}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert tool move: %w", err)
	}

	return nil
}

// UpdateWeldFields writes the non-nil fields of patch. updated_at only moves
// when one of them differs from the stored value.
func (r *Repository) UpdateWeldFields(ctx context.Context, id string, patch models.WeldTouchupPatch, updatedAt time.Time) error {
	if !repository.IsUUID(id) {
		return repository.ErrNotFound
	}

	if patch.IsEmpty() {
		return nil
	}

	result, err := r.repository.GoquDBWrapper.
		Update("tool_moves").
		Set(weldFieldsRecord(patch, updatedAt)).
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to update tool move %s: %w", id, err)
	}

	return repository.ExpectAffected(result)
}

func weldFieldsRecord(patch models.WeldTouchupPatch, updatedAt time.Time) goqu.Record {
	record := goqu.Record{}
	var changed []exp.Expression
	set := func(column string, value interface{}) {
		record[column] = value
		changed = append(changed, goqu.L("? IS DISTINCT FROM ?", goqu.C(column), value))
	}
	if patch.RequiresWeldTouchup != nil {
		set("requires_weld_touchup", *patch.RequiresWeldTouchup)
	}
	if patch.WeldTouchupCompleted != nil {
		set("weld_touchup_completed", *patch.WeldTouchupCompleted)
	}
	if patch.WeldTouchupNotes != nil {
		set("weld_touchup_notes", *patch.WeldTouchupNotes)
	}
	record["updated_at"] = goqu.Case().
		When(goqu.Or(changed...), updatedAt).
		Else(goqu.C("updated_at"))

	return record
}

func (r *Repository) DeleteToolMove(ctx context.Context, id string) error {
	if !repository.IsUUID(id) {
		return repository.ErrNotFound
	}

	result, err := r.repository.GoquDBWrapper.
		Delete("tool_moves").
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete tool move %s: %w", id, err)
	}

	return repository.ExpectAffected(result)
}
