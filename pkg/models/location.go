package models

import "time"

const StatusActive = "active"

type Department struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	Lines       []Line    `json:"lines" db:"-"`
}

type Line struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Description  *string   `json:"description" db:"description"`
	Status       string    `json:"status" db:"status"`
	DepartmentID string    `json:"department" db:"department_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	Stations     []Station `json:"stations" db:"-"`
}

type Station struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Status      string    `json:"status" db:"status"`
	LineID      string    `json:"line" db:"line_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type Reason struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description" db:"description"`
	Status      string    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// LookupRequest is the create payload shared by departments, lines, stations and reasons.
// Department is set for a line and Line for a station.
type LookupRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description *string `json:"description"`
	Status      string  `json:"status"`
	Department  string  `json:"department"`
	Line        string  `json:"line"`
}

func (r *LookupRequest) StatusOrDefault() string {
	if r.Status == "" {
		return StatusActive
	}
	return r.Status
}
