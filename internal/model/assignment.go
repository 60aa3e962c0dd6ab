package model

import "time"

// CaregiverAssignment maps a caregiver to the elders they are authorized to
// serve within an agency. Maintained by the roster system; this service only
// reads it.
type CaregiverAssignment struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	AgencyID       string     `gorm:"index;size:36;not null" json:"agencyId"`
	CaregiverID    string     `gorm:"index;size:36;not null" json:"caregiverId"`
	CaregiverName  string     `gorm:"size:256" json:"caregiverName"`
	ElderIDs       StringList `gorm:"size:4096" json:"elderIds"`
	PrimaryElderID *string    `gorm:"size:36" json:"primaryElderId,omitempty"`
	Active         bool       `gorm:"index" json:"active"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// ServesElder reports whether the assignment covers the given elder.
func (a CaregiverAssignment) ServesElder(elderID string) bool {
	for _, id := range a.ElderIDs {
		if id == elderID {
			return true
		}
	}
	return false
}
