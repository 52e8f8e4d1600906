package models

// NoAvailabilityReason explains an empty slot list. These are informational
// results, not errors; the presentation layer maps them to copy.
type NoAvailabilityReason string

const (
	ReasonNotAWorkingDay       NoAvailabilityReason = "not-a-working-day"
	ReasonOnLeave              NoAvailabilityReason = "on-leave"
	ReasonDailyCapacityReached NoAvailabilityReason = "daily-capacity-reached"
)

// AvailableSlot is a computed, never stored, bookable window. Every slot is
// exactly one slot-duration long; partial trailing windows are dropped.
type AvailableSlot struct {
	DoctorID          string       `json:"doctorId"`
	Date              CalendarDate `json:"date"`
	Start             MinuteOfDay  `json:"start"`
	End               MinuteOfDay  `json:"end"`
	CapacityRemaining int          `json:"capacityRemaining"` // day-level headroom at generation time
}

// DayAvailability is the full generate() result for one doctor-date:
// either an ordered slot list, or an empty list with the reason.
type DayAvailability struct {
	DoctorID string               `json:"doctorId"`
	Date     CalendarDate         `json:"date"`
	Slots    []AvailableSlot      `json:"slots"`
	Reason   NoAvailabilityReason `json:"reason,omitempty"`
}

// Available reports whether at least one slot can be booked.
func (d DayAvailability) Available() bool {
	return d.Reason == "" && len(d.Slots) > 0
}
