package scheduling

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"

	"careshift-backend/internal/model"
	"careshift-backend/internal/store"
)

// Conflict describes why a caregiver cannot take a time window.
type Conflict struct {
	// ShiftID is the conflicting shift, empty when the conflict comes from
	// declared unavailability rather than an existing booking.
	ShiftID   string `json:"shiftId,omitempty"`
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Message   string `json:"message"`
}

// AvailabilityChecker is the external collaborator holding caregivers'
// declared time off. A returned Conflict means the caregiver is unavailable.
type AvailabilityChecker interface {
	CheckCaregiverAvailability(ctx context.Context, caregiverID, agencyID, date, startTime, endTime string) (*Conflict, error)
}

// MinutesOfDay converts an "HH:MM" string to minutes since midnight.
// Malformed input yields 0.
func MinutesOfDay(t string) int {
	h, m, ok := splitClock(t)
	if !ok {
		return 0
	}
	return h*60 + m
}

func splitClock(t string) (int, int, bool) {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return h, m, true
}

// Overlaps reports whether two half-open clock ranges [s1,e1) and [s2,e2)
// intersect. A shift ending exactly when another starts does not overlap.
func Overlaps(s1, e1, s2, e2 string) bool {
	a1, b1 := MinutesOfDay(s1), MinutesOfDay(e1)
	a2, b2 := MinutesOfDay(s2), MinutesOfDay(e2)
	return a1 < b2 && a2 < b1
}

// Checker determines whether a caregiver can take a given date and time
// window without colliding with declared unavailability or an existing
// active shift.
type Checker struct {
	store        store.Store
	availability AvailabilityChecker // may be nil
}

// NewChecker creates a conflict checker. availability may be nil when no
// time-off collaborator is wired.
func NewChecker(st store.Store, availability AvailabilityChecker) *Checker {
	return &Checker{store: st, availability: availability}
}

// Check returns the first conflict found for the caregiver on the given date
// and window, or nil when the caregiver is free. excludeShiftID skips a shift
// when re-validating its own edited window.
//
// Read failures are logged and treated as "no conflict" so a transient store
// error never blocks scheduling. That fail-open policy is a documented risk
// accepted by the product, not an oversight.
func (c *Checker) Check(ctx context.Context, caregiverID, agencyID, date, startTime, endTime, excludeShiftID string) *Conflict {
	if c.availability != nil {
		conflict, err := c.availability.CheckCaregiverAvailability(ctx, caregiverID, agencyID, date, startTime, endTime)
		if err != nil {
			log.Printf("conflict check: availability lookup failed for caregiver %s: %v", caregiverID, err)
		} else if conflict != nil {
			return conflict
		}
	}

	shifts, err := c.store.ShiftsForCaregiverOnDate(ctx, caregiverID, agencyID, date, model.ActiveShiftStatuses(), excludeShiftID)
	if err != nil {
		log.Printf("conflict check: shift lookup failed for caregiver %s on %s: %v", caregiverID, date, err)
		return nil
	}

	for _, sh := range shifts {
		if Overlaps(startTime, endTime, sh.StartTime, sh.EndTime) {
			return &Conflict{
				ShiftID:   sh.ID,
				Date:      sh.Date,
				StartTime: sh.StartTime,
				EndTime:   sh.EndTime,
				Message:   fmt.Sprintf("Caregiver is already booked %s-%s with %s on %s", sh.StartTime, sh.EndTime, sh.ElderName, sh.Date),
			}
		}
	}
	return nil
}
