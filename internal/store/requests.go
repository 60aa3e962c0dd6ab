package store

import (
	"context"
	"fmt"

	"careshift-backend/internal/model"
)

// CreateRequest persists a new shift request.
func (s *gormStore) CreateRequest(ctx context.Context, req *model.ShiftRequest) error {
	if err := s.db.WithContext(ctx).Create(req).Error; err != nil {
		return fmt.Errorf("failed to create shift request %s: %w", req.ID, err)
	}
	return nil
}

// GetRequest loads a shift request by ID.
func (s *gormStore) GetRequest(ctx context.Context, id string) (*model.ShiftRequest, error) {
	var req model.ShiftRequest
	if err := s.db.WithContext(ctx).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// SaveRequest writes back a full shift request row.
func (s *gormStore) SaveRequest(ctx context.Context, req *model.ShiftRequest) error {
	if err := s.db.WithContext(ctx).Save(req).Error; err != nil {
		return fmt.Errorf("failed to save shift request %s: %w", req.ID, err)
	}
	return nil
}

// ListRequests returns an agency's shift requests, optionally filtered by
// status (empty status means all).
func (s *gormStore) ListRequests(ctx context.Context, agencyID string, status model.RequestStatus) ([]model.ShiftRequest, error) {
	q := s.db.WithContext(ctx).Where("agency_id = ?", agencyID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var reqs []model.ShiftRequest
	if err := q.Order("requested_at DESC").Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("failed to list shift requests for agency %s: %w", agencyID, err)
	}
	return reqs, nil
}
