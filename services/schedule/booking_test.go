package schedule

import (
	"context"
	"sync"
	"testing"
	"time"

	"medibook/models"
)

func newBookingFixture(doc *models.Doctor, extra ...*models.Appointment) (*DefaultBookingService, *memLedgerRepo) {
	ledger := newMemLedgerRepo(extra...)
	svc := NewBookingService(newMemDoctorRepo(doc), newMemLeaveRepo(), ledger, nil, nil)
	return svc, ledger
}

func TestBookSlotSuccess(t *testing.T) {
	svc, _ := newBookingFixture(weekdayDoctor())

	appt, err := svc.Book(context.Background(), models.BookSlotRequest{
		DoctorID:  "doc-1",
		PatientID: "pat-1",
		Date:      monday.String(),
		Start:     "09:00",
	})
	if err != nil {
		t.Fatalf("Book: %v", err)
	}
	if appt.Status != models.StatusScheduled {
		t.Errorf("status = %q, want scheduled", appt.Status)
	}
	if appt.End-appt.Start != 30 {
		t.Errorf("slot length = %d, want 30", appt.End-appt.Start)
	}
}

func TestBookSlotAlreadyTaken(t *testing.T) {
	svc, _ := newBookingFixture(weekdayDoctor())
	ctx := context.Background()

	req := models.BookSlotRequest{DoctorID: "doc-1", PatientID: "pat-1", Date: monday.String(), Start: "09:00"}
	if _, err := svc.Book(ctx, req); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	req.PatientID = "pat-2"
	_, err := svc.Book(ctx, req)
	if CodeOf(err) != CodeSlotNoLongerAvailable {
		t.Fatalf("second booking error = %v, want %s", err, CodeSlotNoLongerAvailable)
	}
}

func TestBookSlotNotOffered(t *testing.T) {
	svc, _ := newBookingFixture(weekdayDoctor())

	// 09:10 is not a generated boundary.
	_, err := svc.Book(context.Background(), models.BookSlotRequest{
		DoctorID: "doc-1", PatientID: "pat-1", Date: monday.String(), Start: "09:10",
	})
	if CodeOf(err) != CodeSlotNoLongerAvailable {
		t.Fatalf("error = %v, want %s", err, CodeSlotNoLongerAvailable)
	}
}

func TestBookSlotOnNonWorkingDay(t *testing.T) {
	svc, _ := newBookingFixture(weekdayDoctor())
	sunday := monday.AddDays(6)

	_, err := svc.Book(context.Background(), models.BookSlotRequest{
		DoctorID: "doc-1", PatientID: "pat-1", Date: sunday.String(), Start: "09:00",
	})
	if CodeOf(err) != CodeSlotNoLongerAvailable {
		t.Fatalf("error = %v, want %s", err, CodeSlotNoLongerAvailable)
	}
}

func TestBookSlotOnLeave(t *testing.T) {
	doc := weekdayDoctor()
	leaves := newMemLeaveRepo(&models.LeaveRange{
		ID: "l1", DoctorID: doc.ID,
		StartDate: monday, EndDate: monday,
		Granularity: models.LeaveFullDay,
	})
	svc := NewBookingService(newMemDoctorRepo(doc), leaves, newMemLedgerRepo(), nil, nil)

	_, err := svc.Book(context.Background(), models.BookSlotRequest{
		DoctorID: "doc-1", PatientID: "pat-1", Date: monday.String(), Start: "09:00",
	})
	if CodeOf(err) != CodeDoctorOnLeave {
		t.Fatalf("error = %v, want %s", err, CodeDoctorOnLeave)
	}
}

func TestBookSlotDailyCap(t *testing.T) {
	doc := weekdayDoctor()
	doc.MaxAppointmentsPerDay = 1
	svc, _ := newBookingFixture(doc)
	ctx := context.Background()

	if _, err := svc.Book(ctx, models.BookSlotRequest{
		DoctorID: "doc-1", PatientID: "pat-1", Date: monday.String(), Start: "09:00",
	}); err != nil {
		t.Fatalf("first booking: %v", err)
	}

	_, err := svc.Book(ctx, models.BookSlotRequest{
		DoctorID: "doc-1", PatientID: "pat-2", Date: monday.String(), Start: "10:00",
	})
	if CodeOf(err) != CodeDailyCapacityReached {
		t.Fatalf("error = %v, want %s", err, CodeDailyCapacityReached)
	}
}

func TestBookSlotIdempotentRetry(t *testing.T) {
	svc, _ := newBookingFixture(weekdayDoctor())
	ctx := context.Background()

	req := models.BookSlotRequest{
		DoctorID: "doc-1", PatientID: "pat-1",
		Date: monday.String(), Start: "09:00",
		RequestToken: "tok-abc",
	}
	first, err := svc.Book(ctx, req)
	if err != nil {
		t.Fatalf("first booking: %v", err)
	}

	// The retry must return the committed appointment, not fail on overlap.
	second, err := svc.Book(ctx, req)
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("retry created a new appointment %s, want %s", second.ID, first.ID)
	}
}

func TestBookSlotConcurrentRacers(t *testing.T) {
	svc, ledger := newBookingFixture(weekdayDoctor())

	const racers = 16
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Book(context.Background(), models.BookSlotRequest{
				DoctorID:  "doc-1",
				PatientID: "pat-" + string(rune('a'+i)),
				Date:      monday.String(),
				Start:     "11:00",
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case CodeOf(err) == CodeSlotNoLongerAvailable:
		default:
			t.Fatalf("unexpected racer error: %v", err)
		}
	}
	if wins != 1 {
		t.Fatalf("%d racers won, want exactly 1", wins)
	}

	appts, _ := ledger.ListForDay(context.Background(), "doc-1", monday)
	if len(appts) != 1 {
		t.Fatalf("ledger holds %d appointments, want 1", len(appts))
	}
}

func TestBookSlotInvalidInput(t *testing.T) {
	svc, _ := newBookingFixture(weekdayDoctor())
	ctx := context.Background()

	if _, err := svc.Book(ctx, models.BookSlotRequest{
		DoctorID: "doc-1", PatientID: "p", Date: "07/01/2024", Start: "09:00",
	}); CodeOf(err) != CodeInvalidRange {
		t.Errorf("bad date error = %v, want %s", err, CodeInvalidRange)
	}
	if _, err := svc.Book(ctx, models.BookSlotRequest{
		DoctorID: "doc-1", PatientID: "p", Date: monday.String(), Start: "9am",
	}); CodeOf(err) != CodeInvalidRange {
		t.Errorf("bad clock error = %v, want %s", err, CodeInvalidRange)
	}
	if _, err := svc.Book(ctx, models.BookSlotRequest{
		DoctorID: "nobody", PatientID: "p", Date: monday.String(), Start: "09:00",
	}); CodeOf(err) != CodeNotFound {
		t.Errorf("unknown doctor error = %v, want %s", err, CodeNotFound)
	}
}

func TestUpdateStatusLifecycle(t *testing.T) {
	appt := &models.Appointment{
		ID: "a1", DoctorID: "doc-1", PatientID: "pat-1",
		Date: monday, Start: 9 * 60, End: 9*60 + 30,
		Status: models.StatusScheduled,
	}
	svc, _ := newBookingFixture(weekdayDoctor(), appt)
	ctx := context.Background()

	for _, next := range []models.AppointmentStatus{
		models.StatusConfirmed, models.StatusInProgress, models.StatusCompleted,
	} {
		got, err := svc.UpdateStatus(ctx, "a1", next)
		if err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
		if got.Status != next {
			t.Fatalf("status = %s, want %s", got.Status, next)
		}
	}

	// Completed is terminal.
	_, err := svc.UpdateStatus(ctx, "a1", models.StatusCancelled)
	if CodeOf(err) != CodeInvalidTransition {
		t.Fatalf("terminal transition error = %v, want %s", err, CodeInvalidTransition)
	}
}

func TestUpdateStatusRejectsSkips(t *testing.T) {
	appt := &models.Appointment{
		ID: "a1", DoctorID: "doc-1", PatientID: "pat-1",
		Date: monday, Start: 9 * 60, End: 9*60 + 30,
		Status: models.StatusScheduled,
	}
	svc, _ := newBookingFixture(weekdayDoctor(), appt)

	// scheduled -> no-show skips confirmation.
	_, err := svc.UpdateStatus(context.Background(), "a1", models.StatusNoShow)
	if CodeOf(err) != CodeInvalidTransition {
		t.Fatalf("error = %v, want %s", err, CodeInvalidTransition)
	}
}

func TestCancelledSlotRebookable(t *testing.T) {
	svc, _ := newBookingFixture(weekdayDoctor())
	ctx := context.Background()

	first, err := svc.Book(ctx, models.BookSlotRequest{
		DoctorID: "doc-1", PatientID: "pat-1", Date: monday.String(), Start: "09:00",
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if _, err := svc.UpdateStatus(ctx, first.ID, models.StatusCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	second, err := svc.Book(ctx, models.BookSlotRequest{
		DoctorID: "doc-1", PatientID: "pat-2", Date: monday.String(), Start: "09:00",
	})
	if err != nil {
		t.Fatalf("rebook after cancel: %v", err)
	}
	if second.ID == first.ID {
		t.Error("rebooking reused the cancelled appointment")
	}
}

func TestHistoryRange(t *testing.T) {
	mk := func(id string, date models.CalendarDate) *models.Appointment {
		return &models.Appointment{
			ID: id, DoctorID: "doc-1", PatientID: "pat-1",
			Date: date, Start: 9 * 60, End: 9*60 + 30,
			Status: models.StatusCompleted, CreatedAt: time.Now(),
		}
	}
	svc, _ := newBookingFixture(weekdayDoctor(),
		mk("a1", monday),
		mk("a2", monday.AddDays(1)),
		mk("a3", monday.AddDays(10)),
	)

	appts, err := svc.History(context.Background(), "doc-1", monday, monday.AddDays(7))
	if err != nil {
		t.Fatalf("History: %v", err)
	}
	if len(appts) != 2 {
		t.Fatalf("history returned %d appointments, want 2", len(appts))
	}

	if _, err := svc.History(context.Background(), "doc-1", monday, monday.AddDays(-1)); CodeOf(err) != CodeInvalidRange {
		t.Errorf("inverted range error = %v, want %s", err, CodeInvalidRange)
	}
}
