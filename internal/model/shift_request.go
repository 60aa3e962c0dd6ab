package model

import (
	"database/sql/driver"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// RequestType distinguishes a one-off ask from a weekly recurring pattern.
type RequestType string

const (
	RequestSpecific  RequestType = "specific"
	RequestRecurring RequestType = "recurring"
)

// RequestStatus is the lifecycle state of a shift request.
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved"
	RequestRejected RequestStatus = "rejected"
)

// WeekdayList is a set of weekdays (0=Sunday..6=Saturday) stored as a
// comma-joined string column.
type WeekdayList []int

// Value implements driver.Valuer.
func (w WeekdayList) Value() (driver.Value, error) {
	if len(w) == 0 {
		return "", nil
	}
	parts := make([]string, len(w))
	for i, d := range w {
		parts[i] = strconv.Itoa(d)
	}
	return strings.Join(parts, ","), nil
}

// Scan implements sql.Scanner.
func (w *WeekdayList) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*w = nil
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("unsupported weekday list type %T", src)
	}
	if s == "" {
		*w = nil
		return nil
	}
	parts := strings.Split(s, ",")
	out := make(WeekdayList, 0, len(parts))
	for _, p := range parts {
		d, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return fmt.Errorf("invalid weekday %q: %w", p, err)
		}
		out = append(out, d)
	}
	*w = out
	return nil
}

// Contains reports whether the list includes the given weekday.
func (w WeekdayList) Contains(day int) bool {
	for _, d := range w {
		if d == day {
			return true
		}
	}
	return false
}

// StringList is a list of IDs stored as a comma-joined string column.
type StringList []string

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	return strings.Join(l, ","), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("unsupported string list type %T", src)
	}
	if s == "" {
		*l = nil
		return nil
	}
	*l = strings.Split(s, ",")
	return nil
}

// ShiftRequest is a caregiver's ask for work, reviewed by an agency admin.
//
// Exactly one of SpecificDate and RecurringDays is meaningful, matching
// RequestType.
type ShiftRequest struct {
	ID              string        `gorm:"primaryKey;size:36" json:"id"`
	AgencyID        string        `gorm:"index;size:36;not null" json:"agencyId"`
	CaregiverID     string        `gorm:"index;size:36;not null" json:"caregiverId"`
	CaregiverName   string        `gorm:"size:256" json:"caregiverName"`
	RequestType     RequestType   `gorm:"size:16;not null" json:"requestType"`
	SpecificDate    *string       `gorm:"size:10" json:"specificDate,omitempty"`
	RecurringDays   WeekdayList   `gorm:"size:32" json:"recurringDays,omitempty"`
	StartTime       string        `gorm:"size:5;not null" json:"startTime"`
	EndTime         string        `gorm:"size:5;not null" json:"endTime"`
	PreferredElders StringList    `gorm:"size:1024" json:"preferredElders,omitempty"`
	Notes           *string       `gorm:"size:1024" json:"notes,omitempty"`
	Status          RequestStatus `gorm:"size:16;not null" json:"status"`
	RequestedAt     time.Time     `gorm:"not null" json:"requestedAt"`
	ReviewedBy      *string       `gorm:"size:36" json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time    `json:"reviewedAt,omitempty"`
	ReviewNotes     *string       `gorm:"size:1024" json:"reviewNotes,omitempty"`
	CreatedShiftIDs StringList    `gorm:"size:4096" json:"createdShiftIds,omitempty"`
}
