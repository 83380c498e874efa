package activity

import (
	"fmt"
	"time"

	"toolmove/pkg/models"
)

type ItemType string

const (
	ToolMoveItem    ItemType = "tool_move"
	WeldTouchupItem ItemType = "weld_touchup"
)

// Details is the originating record of an activity item.
// Only *ToolMoveDetails and *WeldTouchupDetails implement it.
type Details interface {
	itemType() ItemType
}

type ToolMoveDetails models.ToolMove

type WeldTouchupDetails models.WeldTouchup

func (*ToolMoveDetails) itemType() ItemType    { return ToolMoveItem }
func (*WeldTouchupDetails) itemType() ItemType { return WeldTouchupItem }

type Item struct {
	ID             string    `json:"id"`
	Type           ItemType  `json:"type"`
	Date           time.Time `json:"date"`
	DepartmentName *string   `json:"departmentName"`
	LineName       *string   `json:"lineName"`
	StationName    *string   `json:"stationName"`
	Description    string    `json:"description"`
	PerformedBy    string    `json:"performedBy"`
	Notes          *string   `json:"notes"`
	Details        Details   `json:"details"`
}

func fromToolMove(move models.ToolMove) Item {
	details := ToolMoveDetails(move)
	return newItem(move.ID, move.CreatedAt, move.Department, move.Line, move.Station, move.Notes, &details)
}

func fromWeldTouchup(weld models.WeldTouchup) Item {
	details := WeldTouchupDetails(weld)
	return newItem(weld.ID, weld.CreatedAt, weld.Department, weld.Line, weld.Station, weld.Notes, &details)
}

func newItem(id string, date time.Time, department, line, station *string, notes string, details Details) Item {
	item := Item{
		ID:             id,
		Type:           details.itemType(),
		Date:           date,
		DepartmentName: department,
		LineName:       line,
		StationName:    station,
		Details:        details,
	}
	if notes != "" {
		item.Notes = &notes
	}
	item.Description, item.PerformedBy = describe(details)

	return item
}

func describe(details Details) (description, performedBy string) {
	switch d := details.(type) {
	case *ToolMoveDetails:
		reason := "Unknown"
		if d.Reason != nil && *d.Reason != "" {
			reason = *d.Reason
		}
		return "Reason: " + reason, d.MovedBy
	case *WeldTouchupDetails:
		return fmt.Sprintf("Part %s - %s (%s)", d.PartNumber, d.WeldType, d.Reason), d.CompletedBy
	default:
		panic(fmt.Sprintf("activity: unhandled details %T", details))
	}
}
