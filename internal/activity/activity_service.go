package activity

import (
	"context"
	"fmt"

	"toolmove/internal/repository"
	"toolmove/pkg/models"

	"golang.org/x/sync/errgroup"
)

type ToolMoveReader interface {
	GetToolMoves(ctx context.Context, qb repository.QueryBuilder) ([]models.ToolMove, error)
}

type WeldReader interface {
	GetWeldTouchups(ctx context.Context) ([]models.WeldTouchup, error)
}

type ActivityService struct {
	moves ToolMoveReader
	welds WeldReader
}

func NewService(moves ToolMoveReader, welds WeldReader) *ActivityService {
	return &ActivityService{moves: moves, welds: welds}
}

// List merges tool moves and weld touchups into one timeline and refines it.
func (s *ActivityService) List(ctx context.Context, q Query) ([]Item, error) {
	refinement, err := ParseQuery(q)
	if err != nil {
		return nil, err
	}

	var (
		moves []models.ToolMove
		welds []models.WeldTouchup
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if moves, err = s.moves.GetToolMoves(gctx, nil); err != nil {
			return fmt.Errorf("fetch tool moves: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if welds, err = s.welds.GetWeldTouchups(gctx); err != nil {
			return fmt.Errorf("fetch weld touchups: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	items := make([]Item, 0, len(moves)+len(welds))
	for _, move := range moves {
		items = append(items, fromToolMove(move))
	}
	for _, weld := range welds {
		items = append(items, fromWeldTouchup(weld))
	}

	return refinement.Apply(items), nil
}
