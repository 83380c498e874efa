package welds

import (
	"context"
	"errors"
	"fmt"
	"time"

	"toolmove/internal/notifications"
	"toolmove/internal/repository"
	"toolmove/pkg/metadata"
	"toolmove/pkg/models"

	"github.com/google/uuid"
)

var ErrValidation = errors.New("validation failed")

// Notifier is woken after a weld event is committed. It must not block.
type Notifier interface {
	Notify()
}

type WeldService struct {
	repo     WeldRepository
	notifier Notifier
	now      func() time.Time
}

func NewService(repo WeldRepository, notifier Notifier) *WeldService {
	return &WeldService{repo: repo, notifier: notifier, now: time.Now}
}

func (s *WeldService) List(ctx context.Context) ([]models.WeldTouchup, error) {
	return s.repo.GetWeldTouchups(ctx)
}

// Create stores the weld together with its notification event and wakes the dispatcher.
// Notification delivery happens afterwards and never fails the request.
func (s *WeldService) Create(ctx context.Context, req models.CreateWeldTouchupRequest, callerEmail string) (*models.WeldTouchup, error) {
	status, err := metadata.NewWeldStatus(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
	}

	weld := &models.WeldTouchup{
		ID:          uuid.NewString(),
		PartNumber:  req.PartNumber,
		WeldType:    req.WeldType,
		Reason:      req.Reason,
		Notes:       req.Notes,
		CompletedBy: req.CompletedBy,
		Status:      status,
	}
	if weld.CompletedBy == "" {
		weld.CompletedBy = callerEmail
	}

	var ok bool
	if weld.DepartmentID, ok = repository.OptionalID(req.Department); !ok {
		return nil, fmt.Errorf("%w: department is not a valid id", ErrValidation)
	}
	if weld.LineID, ok = repository.OptionalID(req.Line); !ok {
		return nil, fmt.Errorf("%w: line is not a valid id", ErrValidation)
	}
	if weld.StationID, ok = repository.OptionalID(req.Station); !ok {
		return nil, fmt.Errorf("%w: station is not a valid id", ErrValidation)
	}

	weld.CreatedAt = s.now().UTC()
	weld.UpdatedAt = weld.CreatedAt

	if err := s.repo.CreateWithEvent(ctx, weld, notifications.NewWeldCreatedEvent(weld)); err != nil {
		return nil, err
	}
	s.notifier.Notify()

	if created, err := s.repo.GetWeldTouchup(ctx, weld.ID); err == nil {
		return created, nil
	}
	return weld, nil
}

func (s *WeldService) Update(ctx context.Context, id string, req models.UpdateWeldTouchupRequest) (*models.WeldTouchup, error) {
	weld, err := s.repo.GetWeldTouchup(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := &models.WeldTouchupChanges{
		Notes:       req.Notes,
		CompletedBy: req.CompletedBy,
	}

	if req.Status != nil {
		if *req.Status == "" {
			return nil, fmt.Errorf("%w: status must not be empty", ErrValidation)
		}
		status, err := metadata.NewWeldStatus(*req.Status)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
		}
		if err := metadata.AcceptWeldTransition(weld.Status, status); err != nil {
			return nil, fmt.Errorf("%w: %s", ErrValidation, err.Error())
		}
		changes.Status = &status
	}

	if !changes.HasChanges() {
		return weld, nil
	}

	weld.UpdatedAt = s.now().UTC()
	if err := s.repo.UpdateWeldTouchup(ctx, id, changes, weld.UpdatedAt); err != nil {
		return nil, err
	}

	if changes.Status != nil {
		weld.Status = *changes.Status
	}
	if changes.Notes != nil {
		weld.Notes = *changes.Notes
	}
	if changes.CompletedBy != nil {
		weld.CompletedBy = *changes.CompletedBy
	}

	return weld, nil
}

func (s *WeldService) Delete(ctx context.Context, id string) error {
	return s.repo.DeleteWeldTouchup(ctx, id)
}
