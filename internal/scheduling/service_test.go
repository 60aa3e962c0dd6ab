package scheduling

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"careshift-backend/config"
	"careshift-backend/internal/audit"
	"careshift-backend/internal/model"
	"careshift-backend/internal/store"
)

// recordingRecorder captures audit entries for assertions.
type recordingRecorder struct {
	entries []audit.Entry
}

func (r *recordingRecorder) Record(_ context.Context, e audit.Entry) {
	r.entries = append(r.entries, e)
}

func (r *recordingRecorder) reads() []audit.Entry {
	var reads []audit.Entry
	for _, e := range r.entries {
		if e.Method == "read" {
			reads = append(reads, e)
		}
	}
	return reads
}

func testScheduleConfig() config.ScheduleConfig {
	return config.ScheduleConfig{
		FetchLimit:         500,
		ApprovalWindowDays: 28,
		WeekStart:          "monday",
	}
}

// newTestService wires a service over an in-memory store with a fixed clock
// and no external collaborators.
func newTestService(t *testing.T) (*Service, store.Store) {
	t.Helper()
	st := newTestStore(t)
	svc := NewService(st, NewChecker(st, nil), nil, nil, testScheduleConfig())
	svc.Now = func() time.Time {
		return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC) // a Tuesday
	}
	return svc, st
}

func TestService_CreateShift(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	notes := "bring the updated medication list"
	res := svc.CreateShift(ctx, CreateShiftParams{
		AgencyID:      "agency-1",
		GroupID:       "group-1",
		ElderID:       "elder-1",
		ElderName:     "Rosa Martinez",
		CaregiverID:   "cg-1",
		CaregiverName: "Dana Okafor",
		Date:          "2026-09-07",
		StartTime:     "09:00",
		EndTime:       "17:00",
		Notes:         &notes,
		CreatedBy:     Actor{UserID: "admin-1", Role: "agency_admin"},
	})
	require.True(t, res.Success, res.Error)
	require.NotEmpty(t, res.ShiftID)

	shift, err := st.GetShift(ctx, res.ShiftID)
	require.NoError(t, err)
	assert.Equal(t, model.ShiftScheduled, shift.Status)
	assert.Equal(t, 480, shift.DurationMinutes)
	require.NotNil(t, shift.Notes)
	assert.Equal(t, notes, *shift.Notes)
	assert.Nil(t, shift.RecurringScheduleID)
	assert.Equal(t, "admin-1", shift.CreatedBy)
}

func TestService_CreateShift_ConflictBlocksCreation(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()

	first := svc.CreateShift(ctx, CreateShiftParams{
		AgencyID:    "agency-1",
		ElderID:     "elder-1",
		CaregiverID: "cg-1",
		Date:        "2026-09-07",
		StartTime:   "09:00",
		EndTime:     "17:00",
	})
	require.True(t, first.Success)

	res := svc.CreateShift(ctx, CreateShiftParams{
		AgencyID:    "agency-1",
		ElderID:     "elder-2",
		CaregiverID: "cg-1",
		Date:        "2026-09-07",
		StartTime:   "10:00",
		EndTime:     "11:00",
	})
	assert.False(t, res.Success)
	require.NotNil(t, res.Conflict)
	assert.Equal(t, first.ShiftID, res.Conflict.ShiftID)

	// The rejected shift must not have been written.
	shifts, err := st.GetShifts(ctx, "agency-1", "2026-09-01", "2026-09-30", "cg-1")
	require.NoError(t, err)
	assert.Len(t, shifts, 1)
}

func TestService_CreateShift_RejectsInvertedWindow(t *testing.T) {
	svc, _ := newTestService(t)
	res := svc.CreateShift(context.Background(), CreateShiftParams{
		AgencyID:    "agency-1",
		ElderID:     "elder-1",
		CaregiverID: "cg-1",
		Date:        "2026-09-07",
		StartTime:   "17:00",
		EndTime:     "09:00",
	})
	assert.False(t, res.Success)
	assert.Nil(t, res.Conflict)
}

func TestService_Transitions(t *testing.T) {
	svc, st := newTestService(t)
	ctx := context.Background()
	actor := Actor{UserID: "cg-1", Role: "caregiver"}

	created := svc.CreateShift(ctx, CreateShiftParams{
		AgencyID:    "agency-1",
		ElderID:     "elder-1",
		CaregiverID: "cg-1",
		Date:        "2026-09-07",
		StartTime:   "09:00",
		EndTime:     "17:00",
	})
	require.True(t, created.Success)
	id := created.ShiftID

	t.Run("confirm", func(t *testing.T) {
		res := svc.ConfirmShift(ctx, id, actor)
		require.True(t, res.Success)
		shift, err := st.GetShift(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.ShiftConfirmed, shift.Status)
		assert.NotNil(t, shift.ConfirmedAt)
	})

	t.Run("link to session", func(t *testing.T) {
		res := svc.LinkToSession(ctx, id, "session-9", actor)
		require.True(t, res.Success)
		shift, err := st.GetShift(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.ShiftInProgress, shift.Status)
		require.NotNil(t, shift.ShiftSessionID)
		assert.Equal(t, "session-9", *shift.ShiftSessionID)
	})

	t.Run("complete", func(t *testing.T) {
		res := svc.CompleteShift(ctx, id, actor)
		require.True(t, res.Success)
		shift, err := st.GetShift(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, model.ShiftCompleted, shift.Status)
	})

	t.Run("cancel with reason", func(t *testing.T) {
		other := svc.CreateShift(ctx, CreateShiftParams{
			AgencyID:    "agency-1",
			ElderID:     "elder-1",
			CaregiverID: "cg-2",
			Date:        "2026-09-07",
			StartTime:   "09:00",
			EndTime:     "12:00",
		})
		require.True(t, other.Success)

		reason := "family emergency"
		res := svc.CancelShift(ctx, other.ShiftID, actor, &reason)
		require.True(t, res.Success)
		shift, err := st.GetShift(ctx, other.ShiftID)
		require.NoError(t, err)
		assert.Equal(t, model.ShiftCancelled, shift.Status)
		require.NotNil(t, shift.CancelledBy)
		assert.Equal(t, "cg-1", *shift.CancelledBy)
		require.NotNil(t, shift.CancellationReason)
		assert.Equal(t, reason, *shift.CancellationReason)
	})

	t.Run("unknown shift reports not found", func(t *testing.T) {
		res := svc.ConfirmShift(ctx, "missing", actor)
		assert.False(t, res.Success)
		assert.Equal(t, "shift not found", res.Error)
	})
}

func TestService_GetShifts_WindowAndOrder(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	// Created deliberately out of calendar order.
	for _, w := range []struct{ date, start, end, caregiver string }{
		{"2026-09-09", "14:00", "16:00", "cg-1"},
		{"2026-09-08", "09:00", "11:00", "cg-2"},
		{"2026-09-09", "08:00", "10:00", "cg-2"},
		{"2026-09-20", "09:00", "11:00", "cg-1"}, // outside window
	} {
		res := svc.CreateShift(ctx, CreateShiftParams{
			AgencyID:    "agency-1",
			ElderID:     "elder-1",
			CaregiverID: w.caregiver,
			Date:        w.date,
			StartTime:   w.start,
			EndTime:     w.end,
		})
		require.True(t, res.Success, res.Error)
	}

	shifts := svc.GetShifts(ctx, "agency-1", "2026-09-08", "2026-09-10", "", Actor{UserID: "admin-1"})
	require.Len(t, shifts, 3)
	assert.Equal(t, "2026-09-08", shifts[0].Date)
	assert.Equal(t, "2026-09-09", shifts[1].Date)
	assert.Equal(t, "08:00", shifts[1].StartTime)
	assert.Equal(t, "2026-09-09", shifts[2].Date)
	assert.Equal(t, "14:00", shifts[2].StartTime)

	caregiverOnly := svc.GetShifts(ctx, "agency-1", "2026-09-08", "2026-09-10", "cg-2", Actor{UserID: "admin-1"})
	require.Len(t, caregiverOnly, 2)
	for _, sh := range caregiverOnly {
		assert.Equal(t, "cg-2", sh.CaregiverID)
	}
}

func TestService_ElderLinkedReadsAreAudited(t *testing.T) {
	st := newTestStore(t)
	rec := &recordingRecorder{}
	svc := NewService(st, NewChecker(st, nil), nil, rec, testScheduleConfig())
	svc.Now = func() time.Time {
		return time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	}
	ctx := context.Background()
	viewer := Actor{UserID: "admin-1", Role: "agency_admin"}

	shift := svc.CreateShift(ctx, CreateShiftParams{
		AgencyID:    "agency-1",
		ElderID:     "elder-1",
		CaregiverID: "cg-1",
		Date:        "2026-09-07",
		StartTime:   "09:00",
		EndTime:     "17:00",
	})
	require.True(t, shift.Success)
	swap := svc.CreateSwapRequest(ctx, CreateSwapParams{
		AgencyID:              "agency-1",
		RequestingCaregiverID: "cg-1",
		ShiftToSwapID:         shift.ShiftID,
	})
	require.True(t, swap.Success)

	before := len(rec.reads())

	svc.GetShifts(ctx, "agency-1", "2026-09-01", "2026-09-30", "", viewer)
	received := svc.GetSwapRequests(ctx, "cg-2", "agency-1", SwapsReceived)
	require.Len(t, received, 1)
	svc.ListRequests(ctx, "agency-1", model.RequestPending, viewer)

	reads := rec.reads()[before:]
	require.Len(t, reads, 3)
	assert.Equal(t, "list_shifts", reads[0].Action)
	assert.Equal(t, "admin-1", reads[0].UserID)
	assert.Equal(t, "list_swap_requests", reads[1].Action)
	assert.Equal(t, "cg-2", reads[1].UserID)
	assert.Equal(t, "caregiver", reads[1].UserRole)
	assert.Equal(t, "list_shift_requests", reads[2].Action)
	assert.Equal(t, "admin-1", reads[2].UserID)
	for _, e := range reads {
		assert.Equal(t, "read", e.Method)
	}
}
