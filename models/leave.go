package models

import "time"

// LeaveGranularity says how much of each covered date the leave removes.
type LeaveGranularity string

const (
	LeaveFullDay       LeaveGranularity = "full-day"
	LeaveHalfDay       LeaveGranularity = "half-day" // quick toggle; behaves as morning-off
	LeaveMorningOnly   LeaveGranularity = "morning-only"
	LeaveAfternoonOnly LeaveGranularity = "afternoon-only"
)

// Valid reports whether g is one of the closed set of granularities.
func (g LeaveGranularity) Valid() bool {
	switch g {
	case LeaveFullDay, LeaveHalfDay, LeaveMorningOnly, LeaveAfternoonOnly:
		return true
	}
	return false
}

// LeaveRange is an explicit unavailable date range, inclusive on both ends.
// Ranges are immutable once created; edits are delete-and-recreate. Past
// ranges are never auto-expired so reporting keeps full history.
type LeaveRange struct {
	ID          string           `bson:"id" json:"id"`
	DoctorID    string           `bson:"doctorId" json:"doctorId"`
	StartDate   CalendarDate     `bson:"startDate" json:"startDate"`
	EndDate     CalendarDate     `bson:"endDate" json:"endDate"`
	Reason      string           `bson:"reason" json:"reason"`
	Granularity LeaveGranularity `bson:"granularity" json:"granularity"`
	Notes       string           `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt   time.Time        `bson:"createdAt" json:"createdAt"`
}

// Covers reports whether the range includes the given date.
func (l LeaveRange) Covers(date CalendarDate) bool {
	return !date.Before(l.StartDate) && !date.After(l.EndDate)
}

// LeaveSummary is the one-pass classification of a doctor's leave history
// against a reference date.
type LeaveSummary struct {
	Total     int `json:"total"`
	Upcoming  int `json:"upcoming"`
	Past      int `json:"past"`
	ThisMonth int `json:"thisMonth"`
}

// AddLeaveRequest is the payload for creating a leave range.
type AddLeaveRequest struct {
	StartDate   string           `json:"startDate" binding:"required"`
	EndDate     string           `json:"endDate" binding:"required"`
	Reason      string           `json:"reason" binding:"required"`
	Granularity LeaveGranularity `json:"granularity" binding:"required"`
	Notes       string           `json:"notes,omitempty"`
}

// BulkRemoveResult reports per-id outcomes of a bulk delete; one bad id
// never aborts the rest.
type BulkRemoveResult struct {
	Removed []string           `json:"removed"`
	Failed  []BulkRemoveFailed `json:"failed,omitempty"`
}

type BulkRemoveFailed struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}
