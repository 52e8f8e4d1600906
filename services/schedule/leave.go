package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	leaveRepo "medibook/database/repository/leave"
	"medibook/models"
	"medibook/utils"
)

// DefaultLeaveService manages explicit unavailable date ranges. Ranges are
// immutable; edits are delete-and-recreate, so there is no update path.
type DefaultLeaveService struct {
	Leaves leaveRepo.LeaveRepository
	Cache  SlotCache
}

func NewLeaveService(leaves leaveRepo.LeaveRepository, cache SlotCache) *DefaultLeaveService {
	return &DefaultLeaveService{Leaves: leaves, Cache: cache}
}

func (s *DefaultLeaveService) AddRange(ctx context.Context, doctorID string, req models.AddLeaveRequest) (*models.LeaveRange, error) {
	start, err := models.ParseCalendarDate(req.StartDate)
	if err != nil {
		return nil, NewError(CodeInvalidRange, "%v", err)
	}
	end, err := models.ParseCalendarDate(req.EndDate)
	if err != nil {
		return nil, NewError(CodeInvalidRange, "%v", err)
	}
	if end.Before(start) {
		return nil, NewError(CodeInvalidRange, "leave end %s precedes start %s", end, start)
	}
	if !req.Granularity.Valid() {
		return nil, NewError(CodeInvalidRange, "unknown leave granularity %q", req.Granularity)
	}

	lr := &models.LeaveRange{
		ID:          uuid.New().String(),
		DoctorID:    doctorID,
		StartDate:   start,
		EndDate:     end,
		Reason:      req.Reason,
		Granularity: req.Granularity,
		Notes:       req.Notes,
	}
	if err := s.Leaves.Insert(ctx, lr); err != nil {
		return nil, fmt.Errorf("store leave range: %w", err)
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, doctorID)
	}
	utils.GetLogger().Info("leave range added",
		zap.String("doctorId", doctorID),
		zap.String("leaveId", lr.ID),
		zap.String("from", start.String()),
		zap.String("to", end.String()),
		zap.String("granularity", string(req.Granularity)))
	return lr, nil
}

func (s *DefaultLeaveService) Remove(ctx context.Context, doctorID, leaveID string) error {
	lr, err := s.Leaves.GetByID(ctx, leaveID)
	if err != nil {
		if errors.Is(err, leaveRepo.ErrNotFound) {
			return NewError(CodeNotFound, "leave range %s not found", leaveID)
		}
		return fmt.Errorf("fetch leave range: %w", err)
	}
	if lr.DoctorID != doctorID {
		// Do not leak another doctor's leave ids.
		return NewError(CodeNotFound, "leave range %s not found", leaveID)
	}

	if err := s.Leaves.Delete(ctx, leaveID); err != nil {
		if errors.Is(err, leaveRepo.ErrNotFound) {
			return NewError(CodeNotFound, "leave range %s not found", leaveID)
		}
		return fmt.Errorf("delete leave range: %w", err)
	}

	if s.Cache != nil {
		s.Cache.Invalidate(ctx, doctorID)
	}
	utils.GetLogger().Info("leave range removed",
		zap.String("doctorId", doctorID),
		zap.String("leaveId", leaveID))
	return nil
}

// BulkRemove deletes each id independently; one bad id never aborts the
// rest. The per-id outcome goes back to the caller.
func (s *DefaultLeaveService) BulkRemove(ctx context.Context, doctorID string, leaveIDs []string) (*models.BulkRemoveResult, error) {
	res := &models.BulkRemoveResult{Removed: []string{}}
	for _, id := range leaveIDs {
		if err := s.Remove(ctx, doctorID, id); err != nil {
			if CodeOf(err) == "" {
				// Infrastructure failure, not a bad id; abort the batch.
				return nil, err
			}
			res.Failed = append(res.Failed, models.BulkRemoveFailed{ID: id, Reason: err.Error()})
			continue
		}
		res.Removed = append(res.Removed, id)
	}
	return res, nil
}

func (s *DefaultLeaveService) List(ctx context.Context, doctorID string) ([]models.LeaveRange, error) {
	ranges, err := s.Leaves.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list leave ranges: %w", err)
	}
	return ranges, nil
}

// Summarize classifies the full leave history against asOf in one pass.
// A range that covers asOf counts as upcoming; only fully elapsed ranges
// are past. ThisMonth counts ranges intersecting asOf's calendar month.
func (s *DefaultLeaveService) Summarize(ctx context.Context, doctorID string, asOf models.CalendarDate) (*models.LeaveSummary, error) {
	ranges, err := s.Leaves.ListForDoctor(ctx, doctorID)
	if err != nil {
		return nil, fmt.Errorf("list leave ranges for summary: %w", err)
	}

	monthStart := models.NewCalendarDate(asOf.Year, asOf.Month, 1)
	monthEnd := monthStart.AddDays(daysIn(asOf.Year, asOf.Month) - 1)

	sum := &models.LeaveSummary{Total: len(ranges)}
	for _, lr := range ranges {
		if lr.EndDate.Before(asOf) {
			sum.Past++
		} else {
			sum.Upcoming++
		}
		if !lr.StartDate.After(monthEnd) && !lr.EndDate.Before(monthStart) {
			sum.ThisMonth++
		}
	}
	return sum, nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
