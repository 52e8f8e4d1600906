package models

import "time"

// AppointmentStatus is the closed set of appointment states. Transitions are
// enforced by the schedule service's transition table, never by string
// comparison at call sites.
type AppointmentStatus string

const (
	StatusScheduled  AppointmentStatus = "scheduled"
	StatusConfirmed  AppointmentStatus = "confirmed"
	StatusInProgress AppointmentStatus = "in-progress"
	StatusCompleted  AppointmentStatus = "completed"
	StatusCancelled  AppointmentStatus = "cancelled"
	StatusNoShow     AppointmentStatus = "no-show"
)

// Terminal reports whether no further transition is allowed from s.
func (s AppointmentStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// PaymentStatus mirrors the billing collaborator's view of the appointment.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Appointment is a committed ledger entry. The engine reads these to exclude
// booked time; only the booking coordinator writes them. Date plus Start/End
// minutes are the stored form; StartAt converts to an instant at the single
// boundary documented on CalendarDate.
type Appointment struct {
	ID            string            `bson:"id" json:"id"`
	DoctorID      string            `bson:"doctorId" json:"doctorId"`
	PatientID     string            `bson:"patientId" json:"patientId"`
	Date          CalendarDate      `bson:"date" json:"date"`
	Start         MinuteOfDay       `bson:"start" json:"start"`
	End           MinuteOfDay       `bson:"end" json:"end"`
	Status        AppointmentStatus `bson:"status" json:"status"`
	PaymentStatus PaymentStatus     `bson:"paymentStatus" json:"paymentStatus"`
	RequestToken  string            `bson:"requestToken,omitempty" json:"-"` // idempotency key supplied by the caller
	CreatedAt     time.Time         `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time         `bson:"updatedAt" json:"updatedAt"`
}

// Active reports whether the appointment still occupies its slot.
// Cancelled and no-show entries free the time for regeneration.
func (a Appointment) Active() bool {
	return a.Status != StatusCancelled && a.Status != StatusNoShow
}

// Overlaps is the half-open interval test shared with slot generation:
// touching boundaries do not overlap.
func (a Appointment) Overlaps(start, end MinuteOfDay) bool {
	return start < a.End && a.Start < end
}

// StartAt returns the appointment start as an instant in loc.
func (a Appointment) StartAt(loc *time.Location) time.Time {
	return a.Date.At(a.Start, loc)
}

// BookSlotRequest is the booking payload. RequestToken makes retries after
// an unknown outcome (e.g. a timeout) read-idempotent.
type BookSlotRequest struct {
	DoctorID     string `json:"doctorId" binding:"required"`
	PatientID    string `json:"patientId" binding:"required"`
	Date         string `json:"date" binding:"required"`
	Start        string `json:"start" binding:"required"`
	RequestToken string `json:"requestToken,omitempty"`
}
