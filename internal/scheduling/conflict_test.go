package scheduling

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"careshift-backend/internal/db"
	"careshift-backend/internal/model"
	"careshift-backend/internal/store"
)

// newTestStore opens an isolated in-memory SQLite database with the schema
// migrated.
func newTestStore(t *testing.T) store.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gormDB))
	t.Cleanup(func() {
		sqlDB, _ := gormDB.DB()
		sqlDB.Close()
	})
	return store.NewGormStore(gormDB, 0)
}

func TestMinutesOfDay(t *testing.T) {
	assert.Equal(t, 0, MinutesOfDay("00:00"))
	assert.Equal(t, 540, MinutesOfDay("09:00"))
	assert.Equal(t, 1439, MinutesOfDay("23:59"))
	assert.Equal(t, 0, MinutesOfDay("not-a-time"))
}

func TestOverlaps(t *testing.T) {
	testCases := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{"adjacent ranges do not overlap", "09:00", "10:00", "10:00", "11:00", false},
		{"partial overlap", "09:00", "10:00", "09:30", "10:30", true},
		{"containment", "09:00", "17:00", "10:00", "11:00", true},
		{"identical ranges", "09:00", "10:00", "09:00", "10:00", true},
		{"disjoint ranges", "08:00", "09:00", "13:00", "14:00", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.s1, tc.e1, tc.s2, tc.e2))
			// Overlap is symmetric in its two ranges.
			assert.Equal(t, tc.want, Overlaps(tc.s2, tc.e2, tc.s1, tc.e1))
		})
	}
}

func seedShift(t *testing.T, st store.Store, shift model.ScheduledShift) model.ScheduledShift {
	t.Helper()
	if shift.ID == "" {
		shift.ID = fmt.Sprintf("shift-%s-%s-%s", shift.CaregiverID, shift.Date, shift.StartTime)
	}
	if shift.Status == "" {
		shift.Status = model.ShiftScheduled
	}
	require.NoError(t, st.CreateShift(context.Background(), &shift))
	return shift
}

func TestChecker_Check(t *testing.T) {
	st := newTestStore(t)
	checker := NewChecker(st, nil)
	ctx := context.Background()

	booked := seedShift(t, st, model.ScheduledShift{
		AgencyID:    "agency-1",
		CaregiverID: "cg-1",
		ElderID:     "elder-1",
		ElderName:   "Rosa Martinez",
		Date:        "2026-09-07",
		StartTime:   "09:00",
		EndTime:     "17:00",
	})

	t.Run("overlapping window conflicts", func(t *testing.T) {
		conflict := checker.Check(ctx, "cg-1", "agency-1", "2026-09-07", "10:00", "11:00", "")
		require.NotNil(t, conflict)
		assert.Equal(t, booked.ID, conflict.ShiftID)
		assert.Contains(t, conflict.Message, "already booked")
	})

	t.Run("adjacent window does not conflict", func(t *testing.T) {
		assert.Nil(t, checker.Check(ctx, "cg-1", "agency-1", "2026-09-07", "17:00", "19:00", ""))
	})

	t.Run("other date does not conflict", func(t *testing.T) {
		assert.Nil(t, checker.Check(ctx, "cg-1", "agency-1", "2026-09-08", "10:00", "11:00", ""))
	})

	t.Run("other caregiver does not conflict", func(t *testing.T) {
		assert.Nil(t, checker.Check(ctx, "cg-2", "agency-1", "2026-09-07", "10:00", "11:00", ""))
	})

	t.Run("excluding the shift itself does not self-conflict", func(t *testing.T) {
		assert.Nil(t, checker.Check(ctx, "cg-1", "agency-1", "2026-09-07", "09:00", "17:00", booked.ID))
	})

	t.Run("cancelled shifts do not conflict", func(t *testing.T) {
		cancelled := seedShift(t, st, model.ScheduledShift{
			ID:          "shift-cancelled",
			AgencyID:    "agency-1",
			CaregiverID: "cg-3",
			Date:        "2026-09-07",
			StartTime:   "09:00",
			EndTime:     "17:00",
			Status:      model.ShiftCancelled,
		})
		assert.Nil(t, checker.Check(ctx, cancelled.CaregiverID, "agency-1", "2026-09-07", "10:00", "11:00", ""))
	})
}

// stubAvailability is a canned external time-off collaborator.
type stubAvailability struct {
	conflict *Conflict
	err      error
}

func (s stubAvailability) CheckCaregiverAvailability(context.Context, string, string, string, string, string) (*Conflict, error) {
	return s.conflict, s.err
}

func TestChecker_DeclaredUnavailabilityWins(t *testing.T) {
	st := newTestStore(t)
	unavailable := &Conflict{
		Date:      "2026-09-07",
		StartTime: "08:00",
		EndTime:   "12:00",
		Message:   "Caregiver has declared time off",
	}
	checker := NewChecker(st, stubAvailability{conflict: unavailable})

	conflict := checker.Check(context.Background(), "cg-1", "agency-1", "2026-09-07", "09:00", "10:00", "")
	require.NotNil(t, conflict)
	assert.Equal(t, unavailable, conflict)
	assert.Empty(t, conflict.ShiftID)
}

func TestChecker_FailsOpen(t *testing.T) {
	t.Run("availability error is ignored", func(t *testing.T) {
		st := newTestStore(t)
		checker := NewChecker(st, stubAvailability{err: errors.New("timeout")})
		assert.Nil(t, checker.Check(context.Background(), "cg-1", "agency-1", "2026-09-07", "09:00", "10:00", ""))
	})

	t.Run("store error yields no conflict", func(t *testing.T) {
		dsn := "file:failopen?mode=memory&cache=shared"
		gormDB, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
		require.NoError(t, err)
		require.NoError(t, db.Migrate(gormDB))
		sqlDB, _ := gormDB.DB()
		sqlDB.Close() // every query from here on errors

		checker := NewChecker(store.NewGormStore(gormDB, 0), nil)
		assert.Nil(t, checker.Check(context.Background(), "cg-1", "agency-1", "2026-09-07", "09:00", "10:00", ""))
	})
}
