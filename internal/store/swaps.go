package store

import (
	"context"
	"fmt"

	"careshift-backend/internal/model"
)

// CreateSwap persists a new swap request.
func (s *gormStore) CreateSwap(ctx context.Context, swap *model.ShiftSwapRequest) error {
	if err := s.db.WithContext(ctx).Create(swap).Error; err != nil {
		return fmt.Errorf("failed to create swap request %s: %w", swap.ID, err)
	}
	return nil
}

// GetSwap loads a swap request by ID.
func (s *gormStore) GetSwap(ctx context.Context, id string) (*model.ShiftSwapRequest, error) {
	var swap model.ShiftSwapRequest
	if err := s.db.WithContext(ctx).First(&swap, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &swap, nil
}

// SaveSwap writes back a full swap request row.
func (s *gormStore) SaveSwap(ctx context.Context, swap *model.ShiftSwapRequest) error {
	if err := s.db.WithContext(ctx).Save(swap).Error; err != nil {
		return fmt.Errorf("failed to save swap request %s: %w", swap.ID, err)
	}
	return nil
}

// SwapsTargetedAt returns swaps explicitly addressed to the caregiver.
func (s *gormStore) SwapsTargetedAt(ctx context.Context, caregiverID, agencyID string) ([]model.ShiftSwapRequest, error) {
	var swaps []model.ShiftSwapRequest
	err := s.db.WithContext(ctx).
		Where("agency_id = ? AND target_caregiver_id = ?", agencyID, caregiverID).
		Order("requested_at DESC").
		Find(&swaps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query targeted swaps for caregiver %s: %w", caregiverID, err)
	}
	return swaps, nil
}

// OpenSwaps returns the agency's swaps with no target caregiver, which are
// discoverable by any caregiver in the agency.
func (s *gormStore) OpenSwaps(ctx context.Context, agencyID string) ([]model.ShiftSwapRequest, error) {
	var swaps []model.ShiftSwapRequest
	err := s.db.WithContext(ctx).
		Where("agency_id = ? AND target_caregiver_id IS NULL", agencyID).
		Order("requested_at DESC").
		Find(&swaps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query open swaps for agency %s: %w", agencyID, err)
	}
	return swaps, nil
}

// SwapsRequestedBy returns swaps the caregiver originated.
func (s *gormStore) SwapsRequestedBy(ctx context.Context, caregiverID, agencyID string) ([]model.ShiftSwapRequest, error) {
	var swaps []model.ShiftSwapRequest
	err := s.db.WithContext(ctx).
		Where("agency_id = ? AND requesting_caregiver_id = ?", agencyID, caregiverID).
		Order("requested_at DESC").
		Find(&swaps).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query sent swaps for caregiver %s: %w", caregiverID, err)
	}
	return swaps, nil
}
