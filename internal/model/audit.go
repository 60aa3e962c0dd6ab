package model

import "time"

// AuditEntry is one PHI/operation audit record. Every create/read/update/
// delete of scheduling data that touches elder-linked records emits one.
type AuditEntry struct {
	ID            int64     `gorm:"autoIncrement;primaryKey"`
	UserID        string    `gorm:"index;size:36;not null"`
	UserRole      string    `gorm:"size:32"`
	GroupID       string    `gorm:"index;size:36"`
	Action        string    `gorm:"size:64;not null"`
	ActionDetails string    `gorm:"size:2048"`
	Purpose       string    `gorm:"size:64"`
	Method        string    `gorm:"size:16"`
	CreatedAt     time.Time `gorm:"index;not null"`
}
