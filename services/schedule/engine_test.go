package schedule

import (
	"context"
	"reflect"
	"testing"
	"time"

	"medibook/models"
)

// A Monday. The test doctor works 09:00-17:00 on weekdays.
var monday = models.NewCalendarDate(2024, time.July, 1)

func weekdayDoctor() *models.Doctor {
	var tmpl models.WeeklyTemplate
	for wd := time.Monday; wd <= time.Friday; wd++ {
		tmpl = append(tmpl, models.WorkingDayRule{
			Weekday:   wd,
			IsWorking: true,
			Start:     9 * 60,
			End:       17 * 60,
		})
	}
	return &models.Doctor{
		ID:                  "doc-1",
		Name:                "Dr. Mehta",
		Timezone:            "Asia/Kolkata",
		WeeklyTemplate:      tmpl,
		SlotDurationMinutes: 30,
	}
}

func TestGenerateSlotsFullWorkingDay(t *testing.T) {
	day := GenerateSlots(weekdayDoctor(), monday, nil, nil)

	if len(day.Slots) != 16 {
		t.Fatalf("expected 16 slots for 09:00-17:00 at 30min, got %d", len(day.Slots))
	}
	if got := day.Slots[0].Start.Clock(); got != "09:00" {
		t.Errorf("first slot starts at %s, want 09:00", got)
	}
	if got := day.Slots[15].End.Clock(); got != "17:00" {
		t.Errorf("last slot ends at %s, want 17:00", got)
	}
	if day.Reason != "" {
		t.Errorf("unexpected reason %q", day.Reason)
	}
	for _, s := range day.Slots {
		if s.CapacityRemaining != -1 {
			t.Fatalf("uncapped doctor should report -1 capacity, got %d", s.CapacityRemaining)
		}
	}
}

func TestGenerateSlotsInvertedStoredRule(t *testing.T) {
	doc := weekdayDoctor()
	doc.WeeklyTemplate = models.WeeklyTemplate{
		{Weekday: time.Monday, IsWorking: true, Start: 17 * 60, End: 9 * 60},
	}

	day := GenerateSlots(doc, monday, nil, nil)
	if len(day.Slots) != 0 {
		t.Fatalf("inverted rule produced %d slots", len(day.Slots))
	}
	if day.Reason != models.ReasonNotAWorkingDay {
		t.Errorf("inverted rule reason = %q, want %q (no leave exists)",
			day.Reason, models.ReasonNotAWorkingDay)
	}
}

func TestGenerateSlotsNonWorkingDay(t *testing.T) {
	sunday := monday.AddDays(6)
	day := GenerateSlots(weekdayDoctor(), sunday, nil, nil)

	if len(day.Slots) != 0 {
		t.Fatalf("expected no slots on Sunday, got %d", len(day.Slots))
	}
	if day.Reason != models.ReasonNotAWorkingDay {
		t.Errorf("reason = %q, want %q", day.Reason, models.ReasonNotAWorkingDay)
	}
}

func TestGenerateSlotsWithLunchBreak(t *testing.T) {
	doc := weekdayDoctor()
	doc.Breaks = []models.BreakInterval{
		{ID: "b1", Weekday: time.Monday, Start: 13 * 60, End: 14 * 60, Label: "lunch"},
	}

	day := GenerateSlots(doc, monday, nil, nil)
	if len(day.Slots) != 14 {
		t.Fatalf("expected 14 slots around a one-hour lunch, got %d", len(day.Slots))
	}
	for _, s := range day.Slots {
		if s.Start >= 13*60 && s.Start < 14*60 {
			t.Errorf("slot at %s falls inside the lunch break", s.Start.Clock())
		}
	}
	// Slot boundaries touch the break on both sides.
	var ends, starts []string
	for _, s := range day.Slots {
		ends = append(ends, s.End.Clock())
		starts = append(starts, s.Start.Clock())
	}
	if !contains(ends, "13:00") {
		t.Errorf("expected a slot ending 13:00, got ends %v", ends)
	}
	if !contains(starts, "14:00") {
		t.Errorf("expected a slot starting 14:00, got starts %v", starts)
	}
}

func TestGenerateSlotsDateScopedBreak(t *testing.T) {
	doc := weekdayDoctor()
	doc.Breaks = []models.BreakInterval{
		{ID: "b1", Weekday: time.Monday, Date: monday, Start: 9 * 60, End: 10 * 60, Label: "rounds"},
	}

	if got := len(GenerateSlots(doc, monday, nil, nil).Slots); got != 14 {
		t.Errorf("break date should apply on that date: got %d slots, want 14", got)
	}
	nextMonday := monday.AddDays(7)
	if got := len(GenerateSlots(doc, nextMonday, nil, nil).Slots); got != 16 {
		t.Errorf("date-scoped break leaked onto %s: got %d slots, want 16", nextMonday, got)
	}
}

func TestGenerateSlotsFullDayLeave(t *testing.T) {
	leaves := []models.LeaveRange{{
		ID:          "l1",
		DoctorID:    "doc-1",
		StartDate:   models.NewCalendarDate(2024, time.July, 4),
		EndDate:     models.NewCalendarDate(2024, time.July, 4),
		Granularity: models.LeaveFullDay,
	}}
	thursday := models.NewCalendarDate(2024, time.July, 4)

	day := GenerateSlots(weekdayDoctor(), thursday, leaves, nil)
	if len(day.Slots) != 0 {
		t.Fatalf("expected no slots on a full-day leave, got %d", len(day.Slots))
	}
	if day.Reason != models.ReasonOnLeave {
		t.Errorf("reason = %q, want %q", day.Reason, models.ReasonOnLeave)
	}
}

func TestGenerateSlotsHalfDayLeaves(t *testing.T) {
	tests := []struct {
		name        string
		granularity models.LeaveGranularity
		wantFirst   string
		wantLast    string
	}{
		{"morning only", models.LeaveMorningOnly, "13:00", "17:00"},
		{"half day behaves as morning off", models.LeaveHalfDay, "13:00", "17:00"},
		{"afternoon only", models.LeaveAfternoonOnly, "09:00", "13:00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			leaves := []models.LeaveRange{{
				ID: "l1", DoctorID: "doc-1",
				StartDate: monday, EndDate: monday,
				Granularity: tt.granularity,
			}}
			day := GenerateSlots(weekdayDoctor(), monday, leaves, nil)
			if len(day.Slots) != 8 {
				t.Fatalf("expected 8 slots in the remaining half, got %d", len(day.Slots))
			}
			if got := day.Slots[0].Start.Clock(); got != tt.wantFirst {
				t.Errorf("first slot %s, want %s", got, tt.wantFirst)
			}
			if got := day.Slots[len(day.Slots)-1].End.Clock(); got != tt.wantLast {
				t.Errorf("last slot ends %s, want %s", got, tt.wantLast)
			}
		})
	}
}

func TestGenerateSlotsOpposingHalfLeaves(t *testing.T) {
	leaves := []models.LeaveRange{
		{ID: "l1", DoctorID: "doc-1", StartDate: monday, EndDate: monday, Granularity: models.LeaveMorningOnly},
		{ID: "l2", DoctorID: "doc-1", StartDate: monday, EndDate: monday, Granularity: models.LeaveAfternoonOnly},
	}
	day := GenerateSlots(weekdayDoctor(), monday, leaves, nil)
	if len(day.Slots) != 0 || day.Reason != models.ReasonOnLeave {
		t.Errorf("opposing half-day leaves should yield on-leave, got %d slots, reason %q", len(day.Slots), day.Reason)
	}
}

func TestGenerateSlotsDailyCapReached(t *testing.T) {
	doc := weekdayDoctor()
	doc.MaxAppointmentsPerDay = 1
	appts := []models.Appointment{{
		ID: "a1", DoctorID: doc.ID, Date: monday,
		Start: 9 * 60, End: 9*60 + 30, Status: models.StatusScheduled,
	}}

	day := GenerateSlots(doc, monday, nil, appts)
	if len(day.Slots) != 0 {
		t.Fatalf("expected no slots once the cap is met, got %d", len(day.Slots))
	}
	if day.Reason != models.ReasonDailyCapacityReached {
		t.Errorf("reason = %q, want %q", day.Reason, models.ReasonDailyCapacityReached)
	}
}

func TestGenerateSlotsCapacityRemaining(t *testing.T) {
	doc := weekdayDoctor()
	doc.MaxAppointmentsPerDay = 3
	appts := []models.Appointment{{
		ID: "a1", DoctorID: doc.ID, Date: monday,
		Start: 9 * 60, End: 9*60 + 30, Status: models.StatusScheduled,
	}}

	day := GenerateSlots(doc, monday, nil, appts)
	if len(day.Slots) == 0 {
		t.Fatal("expected slots with headroom left")
	}
	for _, s := range day.Slots {
		if s.CapacityRemaining != 2 {
			t.Fatalf("capacity remaining = %d, want 2", s.CapacityRemaining)
		}
	}
}

func TestGenerateSlotsExcludesBookedWindows(t *testing.T) {
	appts := []models.Appointment{
		{ID: "a1", DoctorID: "doc-1", Date: monday, Start: 10 * 60, End: 10*60 + 30, Status: models.StatusConfirmed},
		{ID: "a2", DoctorID: "doc-1", Date: monday, Start: 11 * 60, End: 11*60 + 30, Status: models.StatusCancelled},
	}

	day := GenerateSlots(weekdayDoctor(), monday, nil, appts)
	if len(day.Slots) != 15 {
		t.Fatalf("expected 15 slots with one active booking, got %d", len(day.Slots))
	}
	for _, s := range day.Slots {
		if s.Start == 10*60 {
			t.Error("booked 10:00 slot was offered")
		}
	}
	// The cancelled 11:00 appointment frees its window.
	found := false
	for _, s := range day.Slots {
		if s.Start == 11*60 {
			found = true
		}
	}
	if !found {
		t.Error("cancelled 11:00 slot was not regenerated")
	}
}

func TestGenerateSlotsDropsTrailingPartial(t *testing.T) {
	doc := weekdayDoctor()
	doc.SlotDurationMinutes = 45

	day := GenerateSlots(doc, monday, nil, nil)
	// 480 working minutes at 45 each is 10 whole slots with 30 minutes left.
	if len(day.Slots) != 10 {
		t.Fatalf("expected 10 whole slots, got %d", len(day.Slots))
	}
	last := day.Slots[len(day.Slots)-1]
	if last.End > 17*60 {
		t.Errorf("last slot ends %s, past end of day", last.End.Clock())
	}
}

func TestGenerateSlotsRepeatable(t *testing.T) {
	doc := weekdayDoctor()
	doc.Breaks = []models.BreakInterval{
		{ID: "b1", Weekday: time.Monday, Start: 13 * 60, End: 14 * 60, Label: "lunch"},
	}
	leaves := []models.LeaveRange{{
		ID: "l1", DoctorID: doc.ID,
		StartDate: monday, EndDate: monday,
		Granularity: models.LeaveAfternoonOnly,
	}}
	appts := []models.Appointment{{
		ID: "a1", DoctorID: doc.ID, Date: monday,
		Start: 10 * 60, End: 10*60 + 30, Status: models.StatusConfirmed,
	}}

	first := GenerateSlots(doc, monday, leaves, appts)
	second := GenerateSlots(doc, monday, leaves, appts)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two generations over identical inputs differ:\n%+v\n%+v", first, second)
	}
}

func TestDayAvailabilityRepeatableThroughCache(t *testing.T) {
	doctors := newMemDoctorRepo(weekdayDoctor())
	ledger := newMemLedgerRepo()
	cache := newMemSlotCache()
	svc := NewAvailabilityService(doctors, newMemLeaveRepo(), ledger, cache)
	ctx := context.Background()

	first, err := svc.DayAvailability(ctx, "doc-1", monday)
	if err != nil {
		t.Fatalf("first read: %v", err)
	}
	second, err := svc.DayAvailability(ctx, "doc-1", monday)
	if err != nil {
		t.Fatalf("second read: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("cached read differs from the generated one:\n%+v\n%+v", first, second)
	}

	// A ledger write without invalidation keeps serving the cached view;
	// only the version bump refreshes it.
	if err := ledger.InsertIfFree(ctx, &models.Appointment{
		ID: "a1", DoctorID: "doc-1", Date: monday,
		Start: 9 * 60, End: 9*60 + 30, Status: models.StatusScheduled,
	}, 0); err != nil {
		t.Fatalf("seed booking: %v", err)
	}
	stale, _ := svc.DayAvailability(ctx, "doc-1", monday)
	if !reflect.DeepEqual(first, stale) {
		t.Errorf("cache served a refreshed view without invalidation")
	}

	cache.Invalidate(ctx, "doc-1")
	fresh, err := svc.DayAvailability(ctx, "doc-1", monday)
	if err != nil {
		t.Fatalf("post-invalidation read: %v", err)
	}
	if len(fresh.Slots) != len(first.Slots)-1 {
		t.Errorf("slots after invalidation = %d, want %d", len(fresh.Slots), len(first.Slots)-1)
	}
}

func TestSubtractBreaksOverlapping(t *testing.T) {
	breaks := []models.BreakInterval{
		{Start: 12 * 60, End: 13 * 60},
		{Start: 12*60 + 30, End: 13*60 + 30},
	}
	spans := subtractBreaks(9*60, 17*60, breaks)
	if len(spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(spans))
	}
	if spans[0].end != 12*60 || spans[1].start != 13*60+30 {
		t.Errorf("spans = %v, want gap 12:00-13:30", spans)
	}
}

func contains(xs []string, want string) bool {
	for _, x := range xs {
		if x == want {
			return true
		}
	}
	return false
}
