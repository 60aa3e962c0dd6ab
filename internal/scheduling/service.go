// Package scheduling implements the shift store operations, the caregiver
// request and swap workflows, and the time-range conflict checker that gates
// every shift creation.
package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"careshift-backend/config"
	"careshift-backend/internal/audit"
	"careshift-backend/internal/model"
	"careshift-backend/internal/notification"
	"careshift-backend/internal/store"
)

// DateLayout is the calendar-day format used throughout the scheduling core.
const DateLayout = "2006-01-02"

// Actor identifies who performed an operation, for stamping and audit.
type Actor struct {
	UserID string
	Role   string
}

// Service orchestrates all scheduling operations. Public methods never return
// Go errors; every mutation reports through a result envelope and every read
// degrades to an empty result on failure.
type Service struct {
	store    store.Store
	checker  *Checker
	notifier notification.Notifier
	audit    audit.Recorder
	cfg      config.ScheduleConfig

	// Now is the clock used for stamps and the recurring approval window.
	// Overridable in tests.
	Now func() time.Time
}

// NewService wires the scheduling service.
func NewService(st store.Store, checker *Checker, notifier notification.Notifier, rec audit.Recorder, cfg config.ScheduleConfig) *Service {
	if notifier == nil {
		notifier = notification.Noop()
	}
	if rec == nil {
		rec = audit.Noop{}
	}
	return &Service{
		store:    st,
		checker:  checker,
		notifier: notifier,
		audit:    rec,
		cfg:      cfg,
		Now:      time.Now,
	}
}

// Checker exposes the conflict checker for collaborators such as the cascade
// ranking engine.
func (s *Service) Checker() *Checker { return s.checker }

// CreateShiftParams are the inputs for a manual, approval-driven, or cascade
// shift creation. Optional fields are nil when absent and stay absent in the
// stored record.
type CreateShiftParams struct {
	AgencyID            string
	GroupID             string
	ElderID             string
	ElderName           string
	CaregiverID         string
	CaregiverName       string
	Date                string
	StartTime           string
	EndTime             string
	IsRecurring         bool
	RecurringScheduleID *string
	Notes               *string
	CreatedBy           Actor
}

// CreateShift validates the window against the caregiver's existing
// commitments and persists a new shift in the scheduled state.
func (s *Service) CreateShift(ctx context.Context, p CreateShiftParams) ShiftResult {
	startMin := MinutesOfDay(p.StartTime)
	endMin := MinutesOfDay(p.EndTime)
	if endMin <= startMin {
		return ShiftResult{Error: "end time must be after start time"}
	}

	if conflict := s.checker.Check(ctx, p.CaregiverID, p.AgencyID, p.Date, p.StartTime, p.EndTime, ""); conflict != nil {
		return ShiftResult{
			Error:    "caregiver is already booked during this time",
			Conflict: conflict,
		}
	}

	now := s.Now().UTC()
	shift := model.ScheduledShift{
		ID:                  uuid.NewString(),
		AgencyID:            p.AgencyID,
		GroupID:             p.GroupID,
		ElderID:             p.ElderID,
		ElderName:           p.ElderName,
		CaregiverID:         p.CaregiverID,
		CaregiverName:       p.CaregiverName,
		Date:                p.Date,
		StartTime:           p.StartTime,
		EndTime:             p.EndTime,
		DurationMinutes:     endMin - startMin,
		Status:              model.ShiftScheduled,
		IsRecurring:         p.IsRecurring,
		RecurringScheduleID: p.RecurringScheduleID,
		Notes:               p.Notes,
		CreatedBy:           p.CreatedBy.UserID,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.store.CreateShift(ctx, &shift); err != nil {
		log.Printf("scheduling: create shift failed: %v", err)
		return ShiftResult{Error: "failed to create shift"}
	}

	s.notifier.ShiftAssigned(shift.CaregiverID, shift.ElderName, shift.Date, shift.StartTime, shift.EndTime)
	s.audit.Record(ctx, audit.Entry{
		UserID:        p.CreatedBy.UserID,
		UserRole:      p.CreatedBy.Role,
		GroupID:       p.GroupID,
		Action:        "create_shift",
		ActionDetails: fmt.Sprintf("shift %s for elder %s on %s %s-%s", shift.ID, shift.ElderID, shift.Date, shift.StartTime, shift.EndTime),
		Purpose:       "shift_scheduling",
		Method:        "write",
	})

	return ShiftResult{Success: true, ShiftID: shift.ID}
}

// GetShifts returns an agency's shifts within the date window, sorted by
// (date, startTime). caregiverID narrows the result to one caregiver when
// non-empty. Returns an empty slice on store failure rather than an error.
func (s *Service) GetShifts(ctx context.Context, agencyID, startDate, endDate, caregiverID string, viewer Actor) []model.ScheduledShift {
	shifts, err := s.store.GetShifts(ctx, agencyID, startDate, endDate, caregiverID)
	if err != nil {
		log.Printf("scheduling: get shifts failed: %v", err)
		return []model.ScheduledShift{}
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:        viewer.UserID,
		UserRole:      viewer.Role,
		Action:        "list_shifts",
		ActionDetails: fmt.Sprintf("agency %s window %s..%s", agencyID, startDate, endDate),
		Purpose:       "shift_scheduling",
		Method:        "read",
	})
	return shifts
}

// ConfirmShift marks a shift confirmed by its caregiver.
func (s *Service) ConfirmShift(ctx context.Context, shiftID string, actor Actor) ShiftResult {
	now := s.Now().UTC()
	return s.transition(ctx, shiftID, actor, "confirm_shift", map[string]any{
		"status":       model.ShiftConfirmed,
		"confirmed_at": now,
		"updated_at":   now,
	})
}

// CancelShift cancels a shift with an attributed actor and optional reason.
func (s *Service) CancelShift(ctx context.Context, shiftID string, actor Actor, reason *string) ShiftResult {
	now := s.Now().UTC()
	fields := map[string]any{
		"status":       model.ShiftCancelled,
		"cancelled_at": now,
		"cancelled_by": actor.UserID,
		"updated_at":   now,
	}
	if reason != nil {
		fields["cancellation_reason"] = *reason
	}
	return s.transition(ctx, shiftID, actor, "cancel_shift", fields)
}

// CompleteShift marks a shift completed.
func (s *Service) CompleteShift(ctx context.Context, shiftID string, actor Actor) ShiftResult {
	return s.transition(ctx, shiftID, actor, "complete_shift", map[string]any{
		"status":     model.ShiftCompleted,
		"updated_at": s.Now().UTC(),
	})
}

// LinkToSession attaches a clock-in session and moves the shift to
// in_progress.
func (s *Service) LinkToSession(ctx context.Context, shiftID, sessionID string, actor Actor) ShiftResult {
	return s.transition(ctx, shiftID, actor, "link_shift_session", map[string]any{
		"status":           model.ShiftInProgress,
		"shift_session_id": sessionID,
		"updated_at":       s.Now().UTC(),
	})
}

// transition applies a single status-transition write. The caller is trusted
// not to request an illegal transition; there is no state-machine guard here.
func (s *Service) transition(ctx context.Context, shiftID string, actor Actor, action string, fields map[string]any) ShiftResult {
	if err := s.store.UpdateShift(ctx, shiftID, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShiftResult{Error: "shift not found"}
		}
		log.Printf("scheduling: %s failed for shift %s: %v", action, shiftID, err)
		return ShiftResult{Error: fmt.Sprintf("failed to %s", action)}
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:        actor.UserID,
		UserRole:      actor.Role,
		Action:        action,
		ActionDetails: fmt.Sprintf("shift %s", shiftID),
		Purpose:       "shift_scheduling",
		Method:        "write",
	})
	return ShiftResult{Success: true, ShiftID: shiftID}
}
