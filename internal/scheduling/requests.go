package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"gorm.io/gorm"

	"careshift-backend/internal/audit"
	"careshift-backend/internal/model"
	"careshift-backend/internal/notification"
)

// CreateRequestParams are the inputs for a caregiver's shift request.
type CreateRequestParams struct {
	AgencyID        string
	CaregiverID     string
	CaregiverName   string
	RequestType     model.RequestType
	SpecificDate    *string
	RecurringDays   []int
	StartTime       string
	EndTime         string
	PreferredElders []string
	Notes           *string
}

// CreateRequest persists a pending shift request. No conflict check happens
// here; conflicts are only evaluated when the request is approved.
func (s *Service) CreateRequest(ctx context.Context, p CreateRequestParams) RequestResult {
	switch p.RequestType {
	case model.RequestSpecific:
		if p.SpecificDate == nil || *p.SpecificDate == "" {
			return RequestResult{Error: "a specific request requires a date"}
		}
	case model.RequestRecurring:
		if len(p.RecurringDays) == 0 {
			return RequestResult{Error: "a recurring request requires at least one weekday"}
		}
	default:
		return RequestResult{Error: fmt.Sprintf("unknown request type %q", p.RequestType)}
	}

	req := model.ShiftRequest{
		ID:              uuid.NewString(),
		AgencyID:        p.AgencyID,
		CaregiverID:     p.CaregiverID,
		CaregiverName:   p.CaregiverName,
		RequestType:     p.RequestType,
		SpecificDate:    p.SpecificDate,
		RecurringDays:   model.WeekdayList(p.RecurringDays),
		StartTime:       p.StartTime,
		EndTime:         p.EndTime,
		PreferredElders: model.StringList(p.PreferredElders),
		Notes:           p.Notes,
		Status:          model.RequestPending,
		RequestedAt:     s.Now().UTC(),
	}

	if err := s.store.CreateRequest(ctx, &req); err != nil {
		log.Printf("scheduling: create request failed: %v", err)
		return RequestResult{Error: "failed to create shift request"}
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:        p.CaregiverID,
		UserRole:      "caregiver",
		Action:        "create_shift_request",
		ActionDetails: fmt.Sprintf("request %s (%s)", req.ID, req.RequestType),
		Purpose:       "shift_scheduling",
		Method:        "write",
	})
	return RequestResult{Success: true, RequestID: req.ID}
}

// ApproveRequest materializes a pending request into one or more scheduled
// shifts and marks the request approved.
//
// For a recurring request, shifts are projected over a fixed forward window
// counted from the day of approval, not from the day the request was made, so
// late approvals always cover the next full window. Creation runs in
// ascending date order and is not transactional: a day that fails to create
// (for example an unreported conflict) is skipped and the succeeded subset is
// recorded. There is no rollback.
func (s *Service) ApproveRequest(ctx context.Context, requestID string, reviewer Actor, elderID, elderName, groupID string, notes *string) ApprovalResult {
	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApprovalResult{Error: "shift request not found"}
		}
		log.Printf("scheduling: load request %s failed: %v", requestID, err)
		return ApprovalResult{Error: "failed to load shift request"}
	}
	if req.Status != model.RequestPending {
		return ApprovalResult{Error: "shift request has already been reviewed"}
	}

	var createdIDs []string
	create := func(date string, recurring bool) {
		var recurringID *string
		if recurring {
			recurringID = &req.ID
		}
		res := s.CreateShift(ctx, CreateShiftParams{
			AgencyID:            req.AgencyID,
			GroupID:             groupID,
			ElderID:             elderID,
			ElderName:           elderName,
			CaregiverID:         req.CaregiverID,
			CaregiverName:       req.CaregiverName,
			Date:                date,
			StartTime:           req.StartTime,
			EndTime:             req.EndTime,
			IsRecurring:         recurring,
			RecurringScheduleID: recurringID,
			Notes:               req.Notes,
			CreatedBy:           reviewer,
		})
		if res.Success {
			createdIDs = append(createdIDs, res.ShiftID)
		} else {
			log.Printf("scheduling: approval of request %s skipped %s: %s", req.ID, date, res.Error)
		}
	}

	switch req.RequestType {
	case model.RequestSpecific:
		create(*req.SpecificDate, false)
	case model.RequestRecurring:
		for _, day := range s.approvalDates(req.RecurringDays) {
			create(day, true)
		}
	}

	now := s.Now().UTC()
	req.Status = model.RequestApproved
	req.ReviewedBy = &reviewer.UserID
	req.ReviewedAt = &now
	req.ReviewNotes = notes
	req.CreatedShiftIDs = model.StringList(createdIDs)
	if err := s.store.SaveRequest(ctx, req); err != nil {
		log.Printf("scheduling: save approved request %s failed: %v", req.ID, err)
		return ApprovalResult{CreatedShiftIDs: createdIDs, Error: "failed to record approval"}
	}

	var specificDate string
	if req.SpecificDate != nil {
		specificDate = *req.SpecificDate
	}
	s.notifier.RequestApproved(req.CaregiverID, notification.ApprovalSummary(specificDate, req.RecurringDays))
	s.audit.Record(ctx, audit.Entry{
		UserID:        reviewer.UserID,
		UserRole:      reviewer.Role,
		GroupID:       groupID,
		Action:        "approve_shift_request",
		ActionDetails: fmt.Sprintf("request %s created %d shifts", req.ID, len(createdIDs)),
		Purpose:       "shift_scheduling",
		Method:        "write",
	})

	return ApprovalResult{Success: true, CreatedShiftIDs: createdIDs}
}

// approvalDates expands a recurring weekday set into concrete calendar days
// over the approval window starting today, in ascending order.
func (s *Service) approvalDates(days model.WeekdayList) []string {
	today := s.Now().UTC().Truncate(24 * time.Hour)
	until := today.AddDate(0, 0, s.cfg.ApprovalWindowDays-1)

	byweekday := make([]rrule.Weekday, 0, len(days))
	for _, d := range days {
		if wd, ok := rruleWeekday(d); ok {
			byweekday = append(byweekday, wd)
		}
	}
	if len(byweekday) == 0 {
		return nil
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   today,
		Until:     until,
		Byweekday: byweekday,
	})
	if err != nil {
		log.Printf("scheduling: recurrence expansion failed: %v", err)
		return nil
	}

	occurrences := rule.All()
	dates := make([]string, 0, len(occurrences))
	for _, occ := range occurrences {
		dates = append(dates, occ.Format(DateLayout))
	}
	return dates
}

// rruleWeekday maps a 0=Sunday..6=Saturday weekday number to its rrule
// constant.
func rruleWeekday(day int) (rrule.Weekday, bool) {
	switch day {
	case 0:
		return rrule.SU, true
	case 1:
		return rrule.MO, true
	case 2:
		return rrule.TU, true
	case 3:
		return rrule.WE, true
	case 4:
		return rrule.TH, true
	case 5:
		return rrule.FR, true
	case 6:
		return rrule.SA, true
	}
	return rrule.MO, false
}

// RejectRequest marks a pending request rejected. Terminal.
func (s *Service) RejectRequest(ctx context.Context, requestID string, reviewer Actor, reason string) ApprovalResult {
	req, err := s.store.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ApprovalResult{Error: "shift request not found"}
		}
		log.Printf("scheduling: load request %s failed: %v", requestID, err)
		return ApprovalResult{Error: "failed to load shift request"}
	}
	if req.Status != model.RequestPending {
		return ApprovalResult{Error: "shift request has already been reviewed"}
	}

	now := s.Now().UTC()
	req.Status = model.RequestRejected
	req.ReviewedBy = &reviewer.UserID
	req.ReviewedAt = &now
	if reason != "" {
		req.ReviewNotes = &reason
	}
	if err := s.store.SaveRequest(ctx, req); err != nil {
		log.Printf("scheduling: save rejected request %s failed: %v", req.ID, err)
		return ApprovalResult{Error: "failed to record rejection"}
	}

	s.notifier.RequestRejected(req.CaregiverID, reason)
	s.audit.Record(ctx, audit.Entry{
		UserID:        reviewer.UserID,
		UserRole:      reviewer.Role,
		Action:        "reject_shift_request",
		ActionDetails: fmt.Sprintf("request %s", req.ID),
		Purpose:       "shift_scheduling",
		Method:        "write",
	})
	return ApprovalResult{Success: true}
}

// ListRequests returns an agency's shift requests, optionally filtered by
// status. Returns an empty slice on failure.
func (s *Service) ListRequests(ctx context.Context, agencyID string, status model.RequestStatus, viewer Actor) []model.ShiftRequest {
	reqs, err := s.store.ListRequests(ctx, agencyID, status)
	if err != nil {
		log.Printf("scheduling: list requests failed: %v", err)
		return []model.ShiftRequest{}
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:        viewer.UserID,
		UserRole:      viewer.Role,
		Action:        "list_shift_requests",
		ActionDetails: fmt.Sprintf("agency %s status %q", agencyID, status),
		Purpose:       "shift_scheduling",
		Method:        "read",
	})
	return reqs
}
