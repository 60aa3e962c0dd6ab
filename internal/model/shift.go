package model

import "time"

// ShiftStatus is the lifecycle state of a scheduled shift.
type ShiftStatus string

const (
	ShiftScheduled  ShiftStatus = "scheduled"
	ShiftConfirmed  ShiftStatus = "confirmed"
	ShiftInProgress ShiftStatus = "in_progress"
	ShiftCompleted  ShiftStatus = "completed"
	ShiftCancelled  ShiftStatus = "cancelled"
	// ShiftOffered is a transient pre-scheduled state used while a cascade
	// offer is out to a caregiver and not yet accepted.
	ShiftOffered ShiftStatus = "offered"
)

// ActiveShiftStatuses are the statuses that occupy a caregiver's time and
// therefore participate in conflict detection.
func ActiveShiftStatuses() []ShiftStatus {
	return []ShiftStatus{ShiftScheduled, ShiftConfirmed, ShiftInProgress, ShiftOffered}
}

// IsTerminal reports whether no further transition is allowed from s.
func (s ShiftStatus) IsTerminal() bool {
	return s == ShiftCompleted || s == ShiftCancelled
}

// ScheduledShift is a single caregiver-to-elder time commitment.
//
// Date holds a calendar day as "2006-01-02" with the time of day stripped;
// StartTime and EndTime are "15:04" strings. Optional fields are pointers and
// are left NULL when absent, never written as empty values.
type ScheduledShift struct {
	ID                  string      `gorm:"primaryKey;size:36" json:"id"`
	AgencyID            string      `gorm:"index;size:36;not null" json:"agencyId"`
	GroupID             string      `gorm:"size:36" json:"groupId"`
	ElderID             string      `gorm:"index;size:36;not null" json:"elderId"`
	ElderName           string      `gorm:"size:256" json:"elderName"`
	CaregiverID         string      `gorm:"index;size:36;not null" json:"caregiverId"`
	CaregiverName       string      `gorm:"size:256" json:"caregiverName"`
	Date                string      `gorm:"index;size:10;not null" json:"date"`
	StartTime           string      `gorm:"size:5;not null" json:"startTime"`
	EndTime             string      `gorm:"size:5;not null" json:"endTime"`
	DurationMinutes     int         `gorm:"not null" json:"duration"`
	Status              ShiftStatus `gorm:"size:16;not null" json:"status"`
	IsRecurring         bool        `json:"isRecurring"`
	RecurringScheduleID *string     `gorm:"size:36" json:"recurringScheduleId,omitempty"`
	Notes               *string     `gorm:"size:1024" json:"notes,omitempty"`
	ShiftSessionID      *string     `gorm:"size:36" json:"shiftSessionId,omitempty"`
	CreatedBy           string      `gorm:"size:36" json:"createdBy"`
	CreatedAt           time.Time   `gorm:"not null" json:"createdAt"`
	UpdatedAt           time.Time   `gorm:"not null" json:"updatedAt"`
	ConfirmedAt         *time.Time  `json:"confirmedAt,omitempty"`
	CancelledAt         *time.Time  `json:"cancelledAt,omitempty"`
	CancelledBy         *string     `gorm:"size:36" json:"cancelledBy,omitempty"`
	CancellationReason  *string     `gorm:"size:1024" json:"cancellationReason,omitempty"`
}
