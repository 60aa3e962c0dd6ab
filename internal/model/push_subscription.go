package model

import "time"

// PushSubscription holds a caregiver's browser push subscription. A caregiver
// may be subscribed from several devices.
type PushSubscription struct {
	Endpoint    string    `gorm:"primaryKey"`
	CaregiverID string    `gorm:"index;size:36;not null"`
	P256DH      string    `gorm:"column:p256dh;not null"`
	Auth        string    `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`
}
