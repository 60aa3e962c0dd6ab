package model

import "time"

// SwapStatus is the lifecycle state of a swap proposal.
type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapAccepted  SwapStatus = "accepted"
	SwapRejected  SwapStatus = "rejected"
	SwapCancelled SwapStatus = "cancelled"
)

// ShiftSnapshot is a value copy of a shift's display fields taken at swap
// request time. It exists for presentation only; acceptance always re-reads
// the live ScheduledShift by ID, never this snapshot.
type ShiftSnapshot struct {
	ElderID   string `gorm:"size:36" json:"elderId"`
	ElderName string `gorm:"size:256" json:"elderName"`
	Date      string `gorm:"size:10" json:"date"`
	StartTime string `gorm:"size:5" json:"startTime"`
	EndTime   string `gorm:"size:5" json:"endTime"`
}

// ShiftSwapRequest is a caregiver's proposal to hand an existing shift to
// another caregiver. A nil TargetCaregiverID means the swap is open to any
// caregiver in the agency.
type ShiftSwapRequest struct {
	ID                      string         `gorm:"primaryKey;size:36" json:"id"`
	AgencyID                string         `gorm:"index;size:36;not null" json:"agencyId"`
	RequestingCaregiverID   string         `gorm:"index;size:36;not null" json:"requestingCaregiverId"`
	RequestingCaregiverName string         `gorm:"size:256" json:"requestingCaregiverName"`
	TargetCaregiverID       *string        `gorm:"index;size:36" json:"targetCaregiverId,omitempty"`
	TargetCaregiverName     *string        `gorm:"size:256" json:"targetCaregiverName,omitempty"`
	ShiftToSwapID           string         `gorm:"size:36;not null" json:"shiftToSwapId"`
	ShiftToSwap             ShiftSnapshot  `gorm:"embedded;embeddedPrefix:snapshot_" json:"shiftToSwap"`
	OfferShiftID            *string        `gorm:"size:36" json:"offerShiftId,omitempty"`
	OfferShift              *ShiftSnapshot `gorm:"embedded;embeddedPrefix:offer_" json:"offerShift,omitempty"`
	Reason                  *string        `gorm:"size:1024" json:"reason,omitempty"`
	Status                  SwapStatus     `gorm:"size:16;not null" json:"status"`
	RequestedAt             time.Time      `gorm:"not null" json:"requestedAt"`
	AcceptedBy              *string        `gorm:"size:36" json:"acceptedBy,omitempty"`
	AcceptedAt              *time.Time     `json:"acceptedAt,omitempty"`
	ReviewedBy              *string        `gorm:"size:36" json:"reviewedBy,omitempty"`
	ReviewedAt              *time.Time     `json:"reviewedAt,omitempty"`
}
