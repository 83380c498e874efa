package metadata

import "fmt"

// WeldStatus is the lifecycle state of a weld touchup record.
type WeldStatus string

const (
	WeldStatusPending    WeldStatus = "pending"
	WeldStatusInProgress WeldStatus = "in_progress"
	WeldStatusCompleted  WeldStatus = "completed"
)

// NewWeldStatus validates value. An empty value means pending.
func NewWeldStatus(value string) (WeldStatus, error) {
	if value == "" {
		return WeldStatusPending, nil
	}

	status := WeldStatus(value)
	if !status.isValid() {
		return "", fmt.Errorf("invalid status: %s, only valid values are: %s, %s, %s",
			value, WeldStatusPending, WeldStatusInProgress, WeldStatusCompleted)
	}

	return status, nil
}

func (s WeldStatus) isValid() bool {
	switch s {
	case WeldStatusPending, WeldStatusInProgress, WeldStatusCompleted:
		return true
	default:
		return false
	}
}

func (s WeldStatus) String() string {
	return string(s)
}

// AcceptWeldTransition decides whether a weld touchup may move from one status to another.
// Every pair of valid statuses is accepted, including pending -> completed and moving back.
// Call sites must route status changes through here so a stricter policy stays a one-place change.
func AcceptWeldTransition(from, to WeldStatus) error {
	if !to.isValid() {
		return fmt.Errorf("invalid target status: %s", to)
	}
	return nil
}
