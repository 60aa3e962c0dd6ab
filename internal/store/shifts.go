package store

import (
	"context"
	"fmt"
	"sort"

	"gorm.io/gorm"

	"careshift-backend/internal/model"
)

// CreateShift persists a new shift row.
func (s *gormStore) CreateShift(ctx context.Context, shift *model.ScheduledShift) error {
	if err := s.db.WithContext(ctx).Create(shift).Error; err != nil {
		return fmt.Errorf("failed to create shift %s: %w", shift.ID, err)
	}
	return nil
}

// GetShift loads a single shift by ID. Returns gorm.ErrRecordNotFound when
// the shift does not exist.
func (s *gormStore) GetShift(ctx context.Context, id string) (*model.ScheduledShift, error) {
	var shift model.ScheduledShift
	if err := s.db.WithContext(ctx).First(&shift, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &shift, nil
}

// ShiftsForCaregiverOnDate returns the caregiver's shifts on the exact date
// whose status is in the given set, excluding excludeShiftID when non-empty.
func (s *gormStore) ShiftsForCaregiverOnDate(ctx context.Context, caregiverID, agencyID, date string, statuses []model.ShiftStatus, excludeShiftID string) ([]model.ScheduledShift, error) {
	q := s.db.WithContext(ctx).
		Where("caregiver_id = ? AND agency_id = ? AND date = ?", caregiverID, agencyID, date).
		Where("status IN ?", statuses)
	if excludeShiftID != "" {
		q = q.Where("id <> ?", excludeShiftID)
	}

	var shifts []model.ScheduledShift
	if err := q.Find(&shifts).Error; err != nil {
		return nil, fmt.Errorf("failed to query shifts for caregiver %s on %s: %w", caregiverID, date, err)
	}
	return shifts, nil
}

// GetShifts returns all shifts for an agency (optionally restricted to one
// caregiver) within [startDate, endDate], sorted by (date, startTime).
//
// The store cannot express a multi-field range+sort query, so a bounded fetch
// ordered by date is pulled and the window filter plus the secondary sort key
// are applied here. The fetch cap is a hard limit on the result set.
func (s *gormStore) GetShifts(ctx context.Context, agencyID, startDate, endDate, caregiverID string) ([]model.ScheduledShift, error) {
	q := s.db.WithContext(ctx).Where("agency_id = ?", agencyID)
	if caregiverID != "" {
		q = q.Where("caregiver_id = ?", caregiverID)
	}

	var fetched []model.ScheduledShift
	if err := q.Order("date").Limit(s.fetchLimit).Find(&fetched).Error; err != nil {
		return nil, fmt.Errorf("failed to query shifts for agency %s: %w", agencyID, err)
	}

	shifts := make([]model.ScheduledShift, 0, len(fetched))
	for _, sh := range fetched {
		if sh.Date >= startDate && sh.Date <= endDate {
			shifts = append(shifts, sh)
		}
	}

	sort.SliceStable(shifts, func(i, j int) bool {
		if shifts[i].Date != shifts[j].Date {
			return shifts[i].Date < shifts[j].Date
		}
		return shifts[i].StartTime < shifts[j].StartTime
	})
	return shifts, nil
}

// UpdateShift applies a partial update to a shift row.
func (s *gormStore) UpdateShift(ctx context.Context, id string, fields map[string]any) error {
	res := s.db.WithContext(ctx).Model(&model.ScheduledShift{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return fmt.Errorf("failed to update shift %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountCompletedShifts counts a caregiver's completed shifts with a specific
// elder, across all time.
func (s *gormStore) CountCompletedShifts(ctx context.Context, caregiverID, elderID string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ScheduledShift{}).
		Where("caregiver_id = ? AND elder_id = ? AND status = ?", caregiverID, elderID, model.ShiftCompleted).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completed shifts for caregiver %s: %w", caregiverID, err)
	}
	return count, nil
}

// CountShiftsBetween counts a caregiver's shifts in any non-cancelled status
// within [startDate, endDate].
func (s *gormStore) CountShiftsBetween(ctx context.Context, caregiverID, agencyID, startDate, endDate string) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.ScheduledShift{}).
		Where("caregiver_id = ? AND agency_id = ?", caregiverID, agencyID).
		Where("date >= ? AND date <= ?", startDate, endDate).
		Where("status <> ?", model.ShiftCancelled).
		Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count weekly shifts for caregiver %s: %w", caregiverID, err)
	}
	return count, nil
}

// LatestCaregiverName resolves a caregiver's display name from their most
// recent shift record. Returns gorm.ErrRecordNotFound when the caregiver has
// no shift history with a recorded name.
func (s *gormStore) LatestCaregiverName(ctx context.Context, caregiverID string) (string, error) {
	var shift model.ScheduledShift
	err := s.db.WithContext(ctx).
		Select("caregiver_name").
		Where("caregiver_id = ? AND caregiver_name <> ''", caregiverID).
		Order("date DESC").
		First(&shift).Error
	if err != nil {
		return "", err
	}
	return shift.CaregiverName, nil
}
