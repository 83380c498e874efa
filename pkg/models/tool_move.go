package models

import "time"

type ToolMove struct {
	ID                   string    `json:"id" db:"id"`
	ReasonID             string    `json:"reasonId" db:"reason_id"`
	Reason               *string   `json:"reason" db:"reason_name"`
	DepartmentID         *string   `json:"departmentId" db:"department_id"`
	Department           *string   `json:"department" db:"department_name"`
	LineID               *string   `json:"lineId" db:"line_id"`
	Line                 *string   `json:"line" db:"line_name"`
	StationID            *string   `json:"stationId" db:"station_id"`
	Station              *string   `json:"station" db:"station_name"`
	Notes                string    `json:"notes" db:"notes"`
	MovedBy              string    `json:"movedBy" db:"moved_by"`
	RequiresWeldTouchup  bool      `json:"requiresWeldTouchup" db:"requires_weld_touchup"`
	WeldTouchupCompleted bool      `json:"weldTouchupCompleted" db:"weld_touchup_completed"`
	WeldTouchupNotes     string    `json:"weldTouchupNotes" db:"weld_touchup_notes"`
	CreatedAt            time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt            time.Time `json:"updatedAt" db:"updated_at"`
}

type CreateToolMoveRequest struct {
	Reason               string  `json:"reason" binding:"required"`
	Department           *string `json:"department"`
	Line                 *string `json:"line"`
	Station              *string `json:"station"`
	Notes                string  `json:"notes"`
	MovedBy              string  `json:"movedBy"`
	RequiresWeldTouchup  bool    `json:"requiresWeldTouchup"`
	WeldTouchupCompleted bool    `json:"weldTouchupCompleted"`
	WeldTouchupNotes     string  `json:"weldTouchupNotes"`
}

// WeldTouchupPatch carries the only fields a tool move accepts after creation.
// A nil field is left untouched.
type WeldTouchupPatch struct {
	RequiresWeldTouchup  *bool   `json:"requiresWeldTouchup"`
	WeldTouchupCompleted *bool   `json:"weldTouchupCompleted"`
	WeldTouchupNotes     *string `json:"weldTouchupNotes"`
}

func (p WeldTouchupPatch) IsEmpty() bool {
	return p.RequiresWeldTouchup == nil && p.WeldTouchupCompleted == nil && p.WeldTouchupNotes == nil
}
