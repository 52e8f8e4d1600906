package models

import (
	"time"
)

// WorkingDayRule is one weekday entry of a doctor's recurring template.
// Start and End are meaningful only when IsWorking is true.
type WorkingDayRule struct {
	Weekday   time.Weekday `bson:"weekday" json:"weekday"`
	IsWorking bool         `bson:"isWorking" json:"isWorking"`
	Start     MinuteOfDay  `bson:"start" json:"start"`
	End       MinuteOfDay  `bson:"end" json:"end"`
}

// Midpoint is the half-day boundary of the working span, computed once here
// so leave shrinking never re-derives it. Integer division truncates, so on
// an odd-length span the morning half is one minute shorter.
func (r WorkingDayRule) Midpoint() MinuteOfDay {
	return r.Start + (r.End-r.Start)/2
}

// WeeklyTemplate holds at most one rule per weekday. It is replaced as a
// whole on update; there is no per-field patching.
type WeeklyTemplate []WorkingDayRule

// RuleFor returns the rule for the weekday, or a non-working zero rule when
// the template has no entry for it.
func (t WeeklyTemplate) RuleFor(wd time.Weekday) WorkingDayRule {
	for _, r := range t {
		if r.Weekday == wd {
			return r
		}
	}
	return WorkingDayRule{Weekday: wd}
}

// BreakInterval is a named non-bookable window inside a working day.
// It is scoped to a weekday, or to one exact date for the quick-add case.
type BreakInterval struct {
	ID      string       `bson:"id" json:"id"`
	Weekday time.Weekday `bson:"weekday" json:"weekday"`
	Date    CalendarDate `bson:"date,omitempty" json:"date,omitzero"` // zero when weekday-scoped
	Start   MinuteOfDay  `bson:"start" json:"start"`
	End     MinuteOfDay  `bson:"end" json:"end"`
	Label   string       `bson:"label" json:"label"`
}

// AppliesTo reports whether the break carves time out of the given date.
func (b BreakInterval) AppliesTo(date CalendarDate) bool {
	if !b.Date.IsZero() {
		return b.Date.Equal(date)
	}
	return b.Weekday == date.Weekday()
}

// Doctor is the scheduling aggregate: the recurring template, the break
// registry and the slot settings all live on the doctor record. Leaves and
// appointments are stored separately and only referenced by DoctorID.
type Doctor struct {
	ID                    string          `bson:"id" json:"id"`
	Name                  string          `bson:"name" json:"name"`
	Specialty             string          `bson:"specialty,omitempty" json:"specialty,omitempty"`
	Timezone              string          `bson:"timezone" json:"timezone"` // IANA name, e.g. "Asia/Kolkata"
	WeeklyTemplate        WeeklyTemplate  `bson:"weeklyTemplate" json:"weeklyTemplate"`
	Breaks                []BreakInterval `bson:"breaks,omitempty" json:"breaks,omitempty"`
	SlotDurationMinutes   int             `bson:"slotDurationMinutes" json:"slotDurationMinutes"`
	MaxAppointmentsPerDay int             `bson:"maxAppointmentsPerDay" json:"maxAppointmentsPerDay"` // 0 means uncapped
	CreatedAt             time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// Location resolves the doctor's timezone, falling back to UTC.
func (d Doctor) Location() *time.Location {
	if d.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ReplaceTemplateRequest is the bulk-replace payload for the weekly template.
type ReplaceTemplateRequest struct {
	Rules []WorkingDayRule `json:"rules" binding:"required"`
}

// AddBreakRequest is the payload for registering a break interval.
type AddBreakRequest struct {
	Weekday time.Weekday `json:"weekday"`
	Date    string       `json:"date,omitempty"` // optional "YYYY-MM-DD" for date-scoped breaks
	Start   string       `json:"start" binding:"required"`
	End     string       `json:"end" binding:"required"`
	Label   string       `json:"label"`
}
