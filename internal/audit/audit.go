// Package audit records PHI/operation audit entries for scheduling data that
// touches elder-linked records. Audit writes are fail-open: a failed write is
// logged and never breaks the operation that triggered it.
package audit

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"careshift-backend/internal/model"
)

// Entry describes a single auditable operation.
type Entry struct {
	UserID        string
	UserRole      string
	GroupID       string
	Action        string
	ActionDetails string
	Purpose       string
	Method        string
}

// Recorder persists audit entries.
type Recorder interface {
	Record(ctx context.Context, e Entry)
}

// Logger is a GORM-backed Recorder.
type Logger struct {
	db *gorm.DB
}

// NewLogger creates an audit logger writing to the given database.
func NewLogger(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

// Record writes one audit row. Errors are logged and swallowed.
func (l *Logger) Record(ctx context.Context, e Entry) {
	row := model.AuditEntry{
		UserID:        e.UserID,
		UserRole:      e.UserRole,
		GroupID:       e.GroupID,
		Action:        e.Action,
		ActionDetails: e.ActionDetails,
		Purpose:       e.Purpose,
		Method:        e.Method,
		CreatedAt:     time.Now().UTC(),
	}
	if err := l.db.WithContext(ctx).Create(&row).Error; err != nil {
		log.Printf("audit: failed to record %s for user %s: %v", e.Action, e.UserID, err)
	}
}

// Noop is a Recorder that discards entries. Useful in tests.
type Noop struct{}

// Record implements Recorder.
func (Noop) Record(context.Context, Entry) {}
