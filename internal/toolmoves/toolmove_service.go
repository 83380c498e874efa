package toolmoves

import (
	"context"
	"errors"
	"fmt"
	"time"

	"toolmove/internal/repository"
	"toolmove/pkg/models"

	"github.com/google/uuid"
)

// ErrValidation marks request problems detected before any write.
var ErrValidation = errors.New("validation failed")

type ReasonChecker interface {
	ReasonExists(ctx context.Context, id string) (bool, error)
}

type ToolMoveService struct {
	repo    ToolMoveRepository
	reasons ReasonChecker
	now     func() time.Time
}

func NewService(repo ToolMoveRepository, reasons ReasonChecker) *ToolMoveService {
	return &ToolMoveService{repo: repo, reasons: reasons, now: time.Now}
}

// ListFilter narrows GetToolMoves to moves at a location; empty fields are ignored.
type ListFilter struct {
	DepartmentID string
	LineID       string
	StationID    string
}

func (s *ToolMoveService) List(ctx context.Context, filter ListFilter) ([]models.ToolMove, error) {
	qb := repository.NewQueryBuilder()

	for key, value := range map[string]string{
		"department_id": filter.DepartmentID,
		"line_id":       filter.LineID,
		"station_id":    filter.StationID,
	} {
		if value == "" {
			continue
		}
		if !repository.IsUUID(value) {
			return nil, fmt.Errorf("%w: %s is not a valid id", ErrValidation, key)
		}
		qb.AddCondition(key, value)
	}

	return s.repo.GetToolMoves(ctx, qb)
}

// ListOutstanding returns moves that still need a weld touchup, newest first.
func (s *ToolMoveService) ListOutstanding(ctx context.Context) ([]models.ToolMove, error) {
	qb := repository.NewQueryBuilder()
	qb.AddCondition("requires_weld_touchup", true)
	qb.AddCondition("weld_touchup_completed", false)

	return s.repo.GetToolMoves(ctx, qb)
}

func (s *ToolMoveService) Create(ctx context.Context, req models.CreateToolMoveRequest, callerEmail string) (*models.ToolMove, error) {
	exists, err := s.reasons.ReasonExists(ctx, req.Reason)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("%w: reason not found", ErrValidation)
	}

	move := &models.ToolMove{
		ID:       uuid.NewString(),
		ReasonID: req.Reason,
		Notes:    req.Notes,
		MovedBy:  req.MovedBy,
	}
	if move.MovedBy == "" {
		move.MovedBy = callerEmail
	}

	if move.DepartmentID, err = optionalID("department", req.Department); err != nil {
		return nil, err
	}
	if move.LineID, err = optionalID("line", req.Line); err != nil {
		return nil, err
	}
	if move.StationID, err = optionalID("station", req.Station); err != nil {
		return nil, err
	}

	applyWeldPatch(move, models.WeldTouchupPatch{
		RequiresWeldTouchup:  &req.RequiresWeldTouchup,
		WeldTouchupCompleted: &req.WeldTouchupCompleted,
		WeldTouchupNotes:     &req.WeldTouchupNotes,
	})

	move.CreatedAt = s.now().UTC()
	move.UpdatedAt = move.CreatedAt

	if err := s.repo.PersistToolMove(ctx, move); err != nil {
		return nil, err
	}

	if created, err := s.repo.GetToolMove(ctx, move.ID); err == nil {
		return created, nil
	}
	return move, nil
}

// UpdateWeld applies a weld touchup patch and returns the stored move.
func (s *ToolMoveService) UpdateWeld(ctx context.Context, id string, patch models.WeldTouchupPatch) (*models.ToolMove, error) {
	move, err := s.repo.GetToolMove(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.IsEmpty() {
		return move, nil
	}

	// The read above is unlocked, so every provided field is written even when
	// it already matched. The row decides whether updated_at moves.
	now := s.now().UTC()
	if changed := applyWeldPatch(move, patch); !changed.IsEmpty() {
		move.UpdatedAt = now
	}
	if err := s.repo.UpdateWeldFields(ctx, id, patch, now); err != nil {
		return nil, err
	}

	return move, nil
}

func (s *ToolMoveService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteToolMove(ctx, id)
}

func optionalID(field string, value *string) (*string, error) {
	id, ok := repository.OptionalID(value)
	if !ok {
		return nil, fmt.Errorf("%w: %s is not a valid id", ErrValidation, field)
	}
	return id, nil
}
