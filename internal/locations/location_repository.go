package locations

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

// Table names double as the level identifiers used by the handler.
const (
	departmentsTable = "departments"
	linesTable       = "lines"
	stationsTable    = "stations"
)

type Repository interface {
	GetDepartments(ctx context.Context) ([]models.Department, error)
	GetLines(ctx context.Context) ([]models.Line, error)
	GetStations(ctx context.Context) ([]models.Station, error)
	PersistDepartment(ctx context.Context, req models.LookupRequest) (*models.Department, error)
	PersistLine(ctx context.Context, req models.LookupRequest) (*models.Line, error)
	PersistStation(ctx context.Context, req models.LookupRequest) (*models.Station, error)
	Remove(ctx context.Context, table, id string) error
}

type LocationRepository struct {
	Repository *repository.Repository
	now        func() time.Time
}

func NewLocationRepository(r *repository.Repository) *LocationRepository {
	return &LocationRepository{Repository: r, now: time.Now}
}

func (r *LocationRepository) GetDepartments(ctx context.Context) ([]models.Department, error) {
	departments := []models.Department{}
	query := r.Repository.GoquDBWrapper.
		Select("id", "name", "description", "status", "created_at").
		From(departmentsTable).
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructsContext(ctx, &departments); err != nil {
		return nil, fmt.Errorf("unable to list departments: %w", err)
	}

	return departments, nil
}

func (r *LocationRepository) GetLines(ctx context.Context) ([]models.Line, error) {
	lines := []models.Line{}
	query := r.Repository.GoquDBWrapper.
		Select("id", "name", "description", "status", "department_id", "created_at").
		From(linesTable).
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructsContext(ctx, &lines); err != nil {
		return nil, fmt.Errorf("unable to list lines: %w", err)
	}

	return lines, nil
}

func (r *LocationRepository) GetStations(ctx context.Context) ([]models.Station, error) {
	stations := []models.Station{}
	query := r.Repository.GoquDBWrapper.
		Select("id", "name", "description", "status", "line_id", "created_at").
		From(stationsTable).
		Order(goqu.I("name").Asc())

	if err := query.Executor().ScanStructsContext(ctx, &stations); err != nil {
		return nil, fmt.Errorf("unable to list stations: %w", err)
	}

	return stations, nil
}

func (r *LocationRepository) PersistDepartment(ctx context.Context, req models.LookupRequest) (*models.Department, error) {
	department := &models.Department{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Status:      req.StatusOrDefault(),
		CreatedAt:   r.now().UTC(),
		Lines:       []models.Line{},
	}

	err := r.insert(ctx, departmentsTable, goqu.Record{
		"id":          department.ID,
		"name":        department.Name,
		"description": department.Description,
		"status":      department.Status,
		"created_at":  department.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	return department, nil
}

func (r *LocationRepository) PersistLine(ctx context.Context, req models.LookupRequest) (*models.Line, error) {
	line := &models.Line{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Description:  req.Description,
		Status:       req.StatusOrDefault(),
		DepartmentID: req.Department,
		CreatedAt:    r.now().UTC(),
		Stations:     []models.Station{},
	}

	err := r.insert(ctx, linesTable, goqu.Record{
		"id":            line.ID,
		"name":          line.Name,
		"description":   line.Description,
		"status":        line.Status,
		"department_id": line.DepartmentID,
		"created_at":    line.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	return line, nil
}

func (r *LocationRepository) PersistStation(ctx context.Context, req models.LookupRequest) (*models.Station, error) {
	station := &models.Station{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		Status:      req.StatusOrDefault(),
		LineID:      req.Line,
		CreatedAt:   r.now().UTC(),
	}

	err := r.insert(ctx, stationsTable, goqu.Record{
		"id":          station.ID,
		"name":        station.Name,
		"description": station.Description,
		"status":      station.Status,
		"line_id":     station.LineID,
		"created_at":  station.CreatedAt,
	})
	if err != nil {
		return nil, err
	}

	return station, nil
}

// Remove deletes one row; children go with it through ON DELETE CASCADE.
// Tool moves and welds keep their ids and read back a null name.
func (r *LocationRepository) Remove(ctx context.Context, table, id string) error {
	if !repository.IsUUID(id) {
		return repository.ErrNotFound
	}

	result, err := r.Repository.GoquDBWrapper.
		Delete(table).
		Where(goqu.Ex{"id": id}).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete from %s: %w", table, err)
	}

	return repository.ExpectAffected(result)
}

func (r *LocationRepository) insert(ctx context.Context, table string, record goqu.Record) error {
	_, err := r.Repository.GoquDBWrapper.
		Insert(table).
		Rows(record).
		Executor().
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to insert into %s: %w", table, custom_error.FromPQ(err))
	}

	return nil
}
