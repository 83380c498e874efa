package models

import (
	"time"
	"toolmove/pkg/metadata"
)

type WeldTouchup struct {
	ID           string              `json:"id" db:"id"`
	PartNumber   string              `json:"partNumber" db:"part_number"`
	WeldType     string              `json:"weldType" db:"weld_type"`
	Reason       string              `json:"reason" db:"reason"`
	DepartmentID *string             `json:"departmentId" db:"department_id"`
	Department   *string             `json:"department" db:"department_name"`
	LineID       *string             `json:"lineId" db:"line_id"`
	Line         *string             `json:"line" db:"line_name"`
	StationID    *string             `json:"stationId" db:"station_id"`
	Station      *string             `json:"station" db:"station_name"`
	Notes        string              `json:"notes" db:"notes"`
	CompletedBy  string              `json:"completedBy" db:"completed_by"`
	Status       metadata.WeldStatus `json:"status" db:"status"`
	CreatedAt    time.Time           `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time           `json:"updatedAt" db:"updated_at"`
}

type CreateWeldTouchupRequest struct {
	PartNumber  string  `json:"partNumber" binding:"required"`
	WeldType    string  `json:"weldType" binding:"required"`
	Reason      string  `json:"reason" binding:"required"`
	Department  *string `json:"department"`
	Line        *string `json:"line"`
	Station     *string `json:"station"`
	Notes       string  `json:"notes"`
	CompletedBy string  `json:"completedBy"`
	Status      string  `json:"status"`
}

type UpdateWeldTouchupRequest struct {
	Status      *string `json:"status"`
	Notes       *string `json:"notes"`
	CompletedBy *string `json:"completedBy"`
}

// WeldTouchupChanges is the validated form of UpdateWeldTouchupRequest.
type WeldTouchupChanges struct {
	Status      *metadata.WeldStatus
	Notes       *string
	CompletedBy *string
}

func (c *WeldTouchupChanges) HasChanges() bool {
	return c.Status != nil || c.Notes != nil || c.CompletedBy != nil
}
