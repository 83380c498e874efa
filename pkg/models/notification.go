package models

import (
	"fmt"
	"time"
)

type Notification struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	Read      bool      `json:"read" db:"read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

const WeldCreatedEvent = "weld.created"

// WeldEvent is the outbox row written together with a weld touchup.
type WeldEvent struct {
	ID          string     `json:"id" db:"id"`
	Type        string     `json:"type" db:"type"`
	WeldID      string     `json:"weldId" db:"weld_id"`
	PartNumber  string     `json:"partNumber" db:"part_number"`
	Reason      string     `json:"reason" db:"reason"`
	Attempts    int        `json:"attempts" db:"attempts"`
	LastError   *string    `json:"lastError" db:"last_error"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	ProcessedAt *time.Time `json:"processedAt" db:"processed_at"`
}

func (e WeldEvent) NotificationMessage() string {
	reason := e.Reason
	if reason == "" {
		reason = "No reason"
	}

	return fmt.Sprintf("Weld touch up requested: %s (%s)", e.PartNumber, reason)
}
