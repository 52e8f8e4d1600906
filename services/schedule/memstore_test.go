package schedule

import (
	"context"
	"sync"

	doctorRepo "medibook/database/repository/doctor"
	leaveRepo "medibook/database/repository/leave"
	ledgerRepo "medibook/database/repository/ledger"
	"medibook/models"
)

// In-memory repository fakes. The ledger fake replicates the atomicity
// contract of InsertIfFree under a mutex so booking races behave the same
// as against the real store.

type memDoctorRepo struct {
	mu      sync.Mutex
	doctors map[string]*models.Doctor
}

func newMemDoctorRepo(docs ...*models.Doctor) *memDoctorRepo {
	r := &memDoctorRepo{doctors: map[string]*models.Doctor{}}
	for _, d := range docs {
		r.doctors[d.ID] = d
	}
	return r
}

func (r *memDoctorRepo) GetByID(_ context.Context, id string) (*models.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return nil, doctorRepo.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (r *memDoctorRepo) Create(_ context.Context, doc *models.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.doctors[doc.ID] = doc
	return nil
}

func (r *memDoctorRepo) ReplaceWeeklyTemplate(_ context.Context, doctorID string, template models.WeeklyTemplate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[doctorID]
	if !ok {
		return doctorRepo.ErrNotFound
	}
	d.WeeklyTemplate = template
	return nil
}

func (r *memDoctorRepo) AddBreak(_ context.Context, doctorID string, br models.BreakInterval) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[doctorID]
	if !ok {
		return doctorRepo.ErrNotFound
	}
	d.Breaks = append(d.Breaks, br)
	return nil
}

func (r *memDoctorRepo) RemoveBreak(_ context.Context, doctorID, breakID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[doctorID]
	if !ok {
		return doctorRepo.ErrNotFound
	}
	for i, b := range d.Breaks {
		if b.ID == breakID {
			d.Breaks = append(d.Breaks[:i], d.Breaks[i+1:]...)
			return nil
		}
	}
	return doctorRepo.ErrNotFound
}

func (r *memDoctorRepo) UpdateSlotSettings(_ context.Context, doctorID string, slotMinutes, dailyCap int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[doctorID]
	if !ok {
		return doctorRepo.ErrNotFound
	}
	d.SlotDurationMinutes = slotMinutes
	d.MaxAppointmentsPerDay = dailyCap
	return nil
}

type memLeaveRepo struct {
	mu     sync.Mutex
	ranges map[string]*models.LeaveRange
}

func newMemLeaveRepo(ranges ...*models.LeaveRange) *memLeaveRepo {
	r := &memLeaveRepo{ranges: map[string]*models.LeaveRange{}}
	for _, lr := range ranges {
		r.ranges[lr.ID] = lr
	}
	return r
}

func (r *memLeaveRepo) Insert(_ context.Context, lr *models.LeaveRange) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ranges[lr.ID] = lr
	return nil
}

func (r *memLeaveRepo) GetByID(_ context.Context, id string) (*models.LeaveRange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	lr, ok := r.ranges[id]
	if !ok {
		return nil, leaveRepo.ErrNotFound
	}
	cp := *lr
	return &cp, nil
}

func (r *memLeaveRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ranges[id]; !ok {
		return leaveRepo.ErrNotFound
	}
	delete(r.ranges, id)
	return nil
}

func (r *memLeaveRepo) ListForDoctor(_ context.Context, doctorID string) ([]models.LeaveRange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.LeaveRange
	for _, lr := range r.ranges {
		if lr.DoctorID == doctorID {
			out = append(out, *lr)
		}
	}
	return out, nil
}

func (r *memLeaveRepo) ListCovering(_ context.Context, doctorID string, date models.CalendarDate) ([]models.LeaveRange, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.LeaveRange
	for _, lr := range r.ranges {
		if lr.DoctorID == doctorID && lr.Covers(date) {
			out = append(out, *lr)
		}
	}
	return out, nil
}

type memLedgerRepo struct {
	mu    sync.Mutex
	appts map[string]*models.Appointment
}

func newMemLedgerRepo(appts ...*models.Appointment) *memLedgerRepo {
	r := &memLedgerRepo{appts: map[string]*models.Appointment{}}
	for _, a := range appts {
		r.appts[a.ID] = a
	}
	return r
}

func (r *memLedgerRepo) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return nil, ledgerRepo.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *memLedgerRepo) GetByRequestToken(_ context.Context, doctorID, token string) (*models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appts {
		if a.DoctorID == doctorID && a.RequestToken == token {
			cp := *a
			return &cp, nil
		}
	}
	return nil, ledgerRepo.ErrNotFound
}

func (r *memLedgerRepo) ListForDay(_ context.Context, doctorID string, date models.CalendarDate) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appts {
		if a.DoctorID == doctorID && a.Date.Equal(date) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) ListRange(_ context.Context, doctorID string, from, to models.CalendarDate) ([]models.Appointment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Appointment
	for _, a := range r.appts {
		if a.DoctorID == doctorID && !a.Date.Before(from) && !a.Date.After(to) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *memLedgerRepo) countActiveLocked(doctorID string, date models.CalendarDate) int {
	n := 0
	for _, a := range r.appts {
		if a.DoctorID == doctorID && a.Date.Equal(date) && a.Active() {
			n++
		}
	}
	return n
}

func (r *memLedgerRepo) InsertIfFree(_ context.Context, appt *models.Appointment, dailyCap int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, a := range r.appts {
		if a.DoctorID == appt.DoctorID && a.Date.Equal(appt.Date) && a.Active() && a.Overlaps(appt.Start, appt.End) {
			return ledgerRepo.ErrSlotTaken
		}
	}
	if dailyCap > 0 && r.countActiveLocked(appt.DoctorID, appt.Date) >= dailyCap {
		return ledgerRepo.ErrCapacityReached
	}
	cp := *appt
	r.appts[appt.ID] = &cp
	return nil
}

func (r *memLedgerRepo) UpdateStatus(_ context.Context, id string, status models.AppointmentStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.appts[id]
	if !ok {
		return ledgerRepo.ErrNotFound
	}
	a.Status = status
	return nil
}

// memSlotCache mirrors the versioned-key behavior of the redis cache:
// Invalidate bumps the doctor's version, orphaning prior entries.
type memSlotCache struct {
	mu      sync.Mutex
	entries map[string]*models.DayAvailability
	version map[string]int
}

func newMemSlotCache() *memSlotCache {
	return &memSlotCache{
		entries: map[string]*models.DayAvailability{},
		version: map[string]int{},
	}
}

func (c *memSlotCache) keyLocked(doctorID string, date models.CalendarDate) string {
	return doctorID + ":" + date.String() + ":" + string(rune('0'+c.version[doctorID]))
}

func (c *memSlotCache) GetDay(_ context.Context, doctorID string, date models.CalendarDate) (*models.DayAvailability, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	day, ok := c.entries[c.keyLocked(doctorID, date)]
	if !ok {
		return nil, false
	}
	cp := *day
	return &cp, true
}

func (c *memSlotCache) SetDay(_ context.Context, day *models.DayAvailability) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cp := *day
	c.entries[c.keyLocked(day.DoctorID, day.Date)] = &cp
}

func (c *memSlotCache) Invalidate(_ context.Context, doctorID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.version[doctorID]++
}
