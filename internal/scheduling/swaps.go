package scheduling

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"careshift-backend/internal/audit"
	"careshift-backend/internal/model"
)

// CreateSwapParams are the inputs for a caregiver's swap proposal. A nil
// TargetCaregiverID makes the swap open to any caregiver in the agency.
type CreateSwapParams struct {
	AgencyID                string
	RequestingCaregiverID   string
	RequestingCaregiverName string
	TargetCaregiverID       *string
	TargetCaregiverName     *string
	ShiftToSwapID           string
	OfferShiftID            *string
	Reason                  *string
}

// CreateSwapRequest persists a pending swap carrying a denormalized snapshot
// of the shift as it looked at request time. The snapshot is for display;
// acceptance re-reads the live shift.
func (s *Service) CreateSwapRequest(ctx context.Context, p CreateSwapParams) SwapResult {
	shift, err := s.store.GetShift(ctx, p.ShiftToSwapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SwapResult{Error: "shift not found"}
		}
		log.Printf("scheduling: load shift %s for swap failed: %v", p.ShiftToSwapID, err)
		return SwapResult{Error: "failed to load shift"}
	}

	swap := model.ShiftSwapRequest{
		ID:                      uuid.NewString(),
		AgencyID:                p.AgencyID,
		RequestingCaregiverID:   p.RequestingCaregiverID,
		RequestingCaregiverName: p.RequestingCaregiverName,
		TargetCaregiverID:       p.TargetCaregiverID,
		TargetCaregiverName:     p.TargetCaregiverName,
		ShiftToSwapID:           shift.ID,
		ShiftToSwap:             snapshotOf(shift),
		OfferShiftID:            p.OfferShiftID,
		Reason:                  p.Reason,
		Status:                  model.SwapPending,
		RequestedAt:             s.Now().UTC(),
	}

	if p.OfferShiftID != nil {
		offer, err := s.store.GetShift(ctx, *p.OfferShiftID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return SwapResult{Error: "offered shift not found"}
			}
			log.Printf("scheduling: load offered shift %s failed: %v", *p.OfferShiftID, err)
			return SwapResult{Error: "failed to load offered shift"}
		}
		offerSnap := snapshotOf(offer)
		swap.OfferShift = &offerSnap
	}

	if err := s.store.CreateSwap(ctx, &swap); err != nil {
		log.Printf("scheduling: create swap failed: %v", err)
		return SwapResult{Error: "failed to create swap request"}
	}

	if p.TargetCaregiverID != nil {
		s.notifier.SwapRequested(*p.TargetCaregiverID, p.RequestingCaregiverName, shift.Date, shift.StartTime, shift.EndTime)
	}
	s.audit.Record(ctx, audit.Entry{
		UserID:        p.RequestingCaregiverID,
		UserRole:      "caregiver",
		GroupID:       shift.GroupID,
		Action:        "create_swap_request",
		ActionDetails: fmt.Sprintf("swap %s for shift %s", swap.ID, shift.ID),
		Purpose:       "shift_scheduling",
		Method:        "write",
	})
	return SwapResult{Success: true, SwapID: swap.ID}
}

func snapshotOf(shift *model.ScheduledShift) model.ShiftSnapshot {
	return model.ShiftSnapshot{
		ElderID:   shift.ElderID,
		ElderName: shift.ElderName,
		Date:      shift.Date,
		StartTime: shift.StartTime,
		EndTime:   shift.EndTime,
	}
}

// AcceptSwap reassigns the referenced shift to the accepting caregiver and
// marks the swap accepted.
//
// The accepting caregiver's own schedule is not re-checked for conflicts
// here; that matches the workflow the agencies run today and is tracked as an
// open question rather than silently changed.
func (s *Service) AcceptSwap(ctx context.Context, swapID, acceptingCaregiverID, acceptingCaregiverName string) SwapResult {
	swap, err := s.store.GetSwap(ctx, swapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SwapResult{Error: "swap request not found"}
		}
		log.Printf("scheduling: load swap %s failed: %v", swapID, err)
		return SwapResult{Error: "failed to load swap request"}
	}
	if swap.Status != model.SwapPending {
		return SwapResult{Error: "swap request is no longer pending"}
	}

	shift, err := s.store.GetShift(ctx, swap.ShiftToSwapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SwapResult{Error: "shift not found"}
		}
		log.Printf("scheduling: load shift %s for swap accept failed: %v", swap.ShiftToSwapID, err)
		return SwapResult{Error: "failed to load shift"}
	}

	now := s.Now().UTC()
	err = s.store.UpdateShift(ctx, shift.ID, map[string]any{
		"caregiver_id":   acceptingCaregiverID,
		"caregiver_name": acceptingCaregiverName,
		"updated_at":     now,
	})
	if err != nil {
		log.Printf("scheduling: reassign shift %s failed: %v", shift.ID, err)
		return SwapResult{Error: "failed to reassign shift"}
	}

	swap.Status = model.SwapAccepted
	swap.AcceptedBy = &acceptingCaregiverID
	swap.AcceptedAt = &now
	if err := s.store.SaveSwap(ctx, swap); err != nil {
		log.Printf("scheduling: save accepted swap %s failed: %v", swap.ID, err)
		return SwapResult{Error: "failed to record swap acceptance"}
	}

	s.notifier.SwapAccepted(swap.RequestingCaregiverID, acceptingCaregiverName)
	s.notifier.ShiftAssigned(acceptingCaregiverID, shift.ElderName, shift.Date, shift.StartTime, shift.EndTime)
	s.audit.Record(ctx, audit.Entry{
		UserID:        acceptingCaregiverID,
		UserRole:      "caregiver",
		GroupID:       shift.GroupID,
		Action:        "accept_swap_request",
		ActionDetails: fmt.Sprintf("swap %s reassigned shift %s", swap.ID, shift.ID),
		Purpose:       "shift_scheduling",
		Method:        "write",
	})
	return SwapResult{Success: true, SwapID: swap.ID}
}

// RejectSwap marks a swap rejected. Terminal.
func (s *Service) RejectSwap(ctx context.Context, swapID, caregiverID string) SwapResult {
	return s.closeSwap(ctx, swapID, caregiverID, model.SwapRejected, "reject_swap_request")
}

// CancelSwap marks a swap cancelled by its requester. Terminal.
func (s *Service) CancelSwap(ctx context.Context, swapID, caregiverID string) SwapResult {
	return s.closeSwap(ctx, swapID, caregiverID, model.SwapCancelled, "cancel_swap_request")
}

func (s *Service) closeSwap(ctx context.Context, swapID, caregiverID string, status model.SwapStatus, action string) SwapResult {
	swap, err := s.store.GetSwap(ctx, swapID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SwapResult{Error: "swap request not found"}
		}
		log.Printf("scheduling: load swap %s failed: %v", swapID, err)
		return SwapResult{Error: "failed to load swap request"}
	}

	now := s.Now().UTC()
	swap.Status = status
	swap.ReviewedBy = &caregiverID
	swap.ReviewedAt = &now
	if err := s.store.SaveSwap(ctx, swap); err != nil {
		log.Printf("scheduling: save swap %s failed: %v", swap.ID, err)
		return SwapResult{Error: "failed to update swap request"}
	}

	s.audit.Record(ctx, audit.Entry{
		UserID:        caregiverID,
		UserRole:      "caregiver",
		Action:        action,
		ActionDetails: fmt.Sprintf("swap %s", swap.ID),
		Purpose:       "shift_scheduling",
		Method:        "write",
	})
	return SwapResult{Success: true, SwapID: swap.ID}
}

// SwapQueryKind selects which side of the swap ledger to read.
type SwapQueryKind string

const (
	SwapsReceived SwapQueryKind = "received"
	SwapsSent     SwapQueryKind = "sent"
)

// GetSwapRequests returns the swaps visible to a caregiver.
//
// For SwapsReceived the result is the union of swaps explicitly targeted at
// the caregiver and all open swaps in the agency, deduplicated by ID. The
// store cannot express "target == X OR target IS NULL" in one query, so two
// queries are issued and merged; keep the union semantics even if the query
// layer ever learns to do this natively. For SwapsSent the result is the
// swaps the caregiver originated. Failures degrade to whatever subset was
// readable.
func (s *Service) GetSwapRequests(ctx context.Context, caregiverID, agencyID string, kind SwapQueryKind) []model.ShiftSwapRequest {
	s.audit.Record(ctx, audit.Entry{
		UserID:        caregiverID,
		UserRole:      "caregiver",
		Action:        "list_swap_requests",
		ActionDetails: fmt.Sprintf("agency %s kind %s", agencyID, kind),
		Purpose:       "shift_scheduling",
		Method:        "read",
	})

	if kind == SwapsSent {
		swaps, err := s.store.SwapsRequestedBy(ctx, caregiverID, agencyID)
		if err != nil {
			log.Printf("scheduling: sent swap query failed: %v", err)
			return []model.ShiftSwapRequest{}
		}
		return swaps
	}

	targeted, err := s.store.SwapsTargetedAt(ctx, caregiverID, agencyID)
	if err != nil {
		log.Printf("scheduling: targeted swap query failed: %v", err)
	}
	open, err := s.store.OpenSwaps(ctx, agencyID)
	if err != nil {
		log.Printf("scheduling: open swap query failed: %v", err)
	}

	seen := make(map[string]bool, len(targeted)+len(open))
	merged := make([]model.ShiftSwapRequest, 0, len(targeted)+len(open))
	for _, swap := range targeted {
		if !seen[swap.ID] {
			seen[swap.ID] = true
			merged = append(merged, swap)
		}
	}
	for _, swap := range open {
		if !seen[swap.ID] {
			seen[swap.ID] = true
			merged = append(merged, swap)
		}
	}
	return merged
}
