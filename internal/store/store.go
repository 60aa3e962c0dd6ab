package store

import (
	"context"
	"time"

	"gorm.io/gorm"

	"careshift-backend/internal/model"
)

// DefaultFetchLimit caps how many shift rows a windowed query pulls before
// the date filter is applied in application code. The backing store only
// supports single-field ordering with equality filters, so windowed reads
// over-fetch and refine in memory.
const DefaultFetchLimit = 500

// Store defines the interface for all database operations used by the
// scheduling core.
type Store interface {
	// Shifts
	CreateShift(ctx context.Context, shift *model.ScheduledShift) error
	GetShift(ctx context.Context, id string) (*model.ScheduledShift, error)
	ShiftsForCaregiverOnDate(ctx context.Context, caregiverID, agencyID, date string, statuses []model.ShiftStatus, excludeShiftID string) ([]model.ScheduledShift, error)
	GetShifts(ctx context.Context, agencyID, startDate, endDate, caregiverID string) ([]model.ScheduledShift, error)
	UpdateShift(ctx context.Context, id string, fields map[string]any) error
	CountCompletedShifts(ctx context.Context, caregiverID, elderID string) (int64, error)
	CountShiftsBetween(ctx context.Context, caregiverID, agencyID, startDate, endDate string) (int64, error)
	LatestCaregiverName(ctx context.Context, caregiverID string) (string, error)

	// Shift requests
	CreateRequest(ctx context.Context, req *model.ShiftRequest) error
	GetRequest(ctx context.Context, id string) (*model.ShiftRequest, error)
	SaveRequest(ctx context.Context, req *model.ShiftRequest) error
	ListRequests(ctx context.Context, agencyID string, status model.RequestStatus) ([]model.ShiftRequest, error)

	// Swap requests
	CreateSwap(ctx context.Context, swap *model.ShiftSwapRequest) error
	GetSwap(ctx context.Context, id string) (*model.ShiftSwapRequest, error)
	SaveSwap(ctx context.Context, swap *model.ShiftSwapRequest) error
	SwapsTargetedAt(ctx context.Context, caregiverID, agencyID string) ([]model.ShiftSwapRequest, error)
	OpenSwaps(ctx context.Context, agencyID string) ([]model.ShiftSwapRequest, error)
	SwapsRequestedBy(ctx context.Context, caregiverID, agencyID string) ([]model.ShiftSwapRequest, error)

	// Roster (consumed, maintained externally)
	ActiveAssignments(ctx context.Context, agencyID string) ([]model.CaregiverAssignment, error)

	// Push subscriptions
	SaveSubscription(ctx context.Context, sub *model.PushSubscription) error
	DeleteSubscription(ctx context.Context, endpoint string) error
	SubscriptionsForCaregiver(ctx context.Context, caregiverID string) ([]model.PushSubscription, error)

	// DB exposes the underlying handle for migrations and tests.
	DB() *gorm.DB
}

// gormStore implements the Store interface using GORM.
type gormStore struct {
	db         *gorm.DB
	fetchLimit int
}

// NewGormStore creates a new GORM-backed store. A fetchLimit <= 0 falls back
// to DefaultFetchLimit.
func NewGormStore(db *gorm.DB, fetchLimit int) Store {
	if fetchLimit <= 0 {
		fetchLimit = DefaultFetchLimit
	}
	return &gormStore{db: db, fetchLimit: fetchLimit}
}

func (s *gormStore) DB() *gorm.DB { return s.db }

func nowUTC() time.Time { return time.Now().UTC() }
