package toolmoves

import "toolmove/pkg/models"

// applyWeldPatch is the only place the weld touchup fields of a tool move change.
// It applies the provided fields to move and returns the subset that actually
// differed, so repeating a patch is a no-op.
//
// A move may end up completed without requiring a touchup; the pair is stored as
// sent. Enforce requires-before-completed here if that ever becomes a rule.
func applyWeldPatch(move *models.ToolMove, patch models.WeldTouchupPatch) models.WeldTouchupPatch {
	var effective models.WeldTouchupPatch

	if patch.RequiresWeldTouchup != nil && *patch.RequiresWeldTouchup != move.RequiresWeldTouchup {
		move.RequiresWeldTouchup = *patch.RequiresWeldTouchup
		effective.RequiresWeldTouchup = patch.RequiresWeldTouchup
	}
	if patch.WeldTouchupCompleted != nil && *patch.WeldTouchupCompleted != move.WeldTouchupCompleted {
		move.WeldTouchupCompleted = *patch.WeldTouchupCompleted
		effective.WeldTouchupCompleted = patch.WeldTouchupCompleted
	}
	if patch.WeldTouchupNotes != nil && *patch.WeldTouchupNotes != move.WeldTouchupNotes {
		move.WeldTouchupNotes = *patch.WeldTouchupNotes
		effective.WeldTouchupNotes = patch.WeldTouchupNotes
	}

	return effective
}
