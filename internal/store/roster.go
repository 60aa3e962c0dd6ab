package store

import (
	"context"
	"fmt"

	"careshift-backend/internal/model"
)

// ActiveAssignments returns the agency's active caregiver-to-elder roster
// records. The roster is maintained by an external system; this service only
// reads it.
func (s *gormStore) ActiveAssignments(ctx context.Context, agencyID string) ([]model.CaregiverAssignment, error) {
	var assignments []model.CaregiverAssignment
	err := s.db.WithContext(ctx).
		Where("agency_id = ? AND active = ?", agencyID, true).
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query assignments for agency %s: %w", agencyID, err)
	}
	return assignments, nil
}

// SaveSubscription creates or replaces a push subscription by endpoint.
func (s *gormStore) SaveSubscription(ctx context.Context, sub *model.PushSubscription) error {
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = nowUTC()
	}
	if err := s.db.WithContext(ctx).Save(sub).Error; err != nil {
		return fmt.Errorf("failed to save push subscription: %w", err)
	}
	return nil
}

// DeleteSubscription removes a push subscription by endpoint.
func (s *gormStore) DeleteSubscription(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Delete(&model.PushSubscription{Endpoint: endpoint}).Error; err != nil {
		return fmt.Errorf("failed to delete push subscription: %w", err)
	}
	return nil
}

// SubscriptionsForCaregiver returns all push subscriptions registered for a
// caregiver's devices.
func (s *gormStore) SubscriptionsForCaregiver(ctx context.Context, caregiverID string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := s.db.WithContext(ctx).
		Where("caregiver_id = ?", caregiverID).
		Find(&subs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query subscriptions for caregiver %s: %w", caregiverID, err)
	}
	return subs, nil
}
