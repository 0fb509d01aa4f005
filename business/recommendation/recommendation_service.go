package recommendation

import (
	"context"
	"errors"
	"fmt"
	"recommendationService/domain"
	"recommendationService/pkg/logger"
	"recommendationService/pkg/metrics"
)

// RecommendationRepository contract interface
type RecommendationRepository interface {
	FindAll(ctx context.Context, filter domain.RecommendationFilter) ([]domain.Recommendation, error)
	FindByID(ctx context.Context, id uint64) (domain.Recommendation, bool, error)
	Create(ctx context.Context, rec *domain.Recommendation) error
	ReplaceFields(ctx context.Context, rec *domain.Recommendation) error
	// DecrementPriority lowers priority by one, never below 1, in a single
	// store operation. It reports whether a row changed.
	DecrementPriority(ctx context.Context, id uint64) (bool, error)
	Delete(ctx context.Context, id uint64) error
}

// IDAllocator hands out unique, strictly increasing ids.
type IDAllocator interface {
	Next(ctx context.Context) (uint64, error)
}

type RecommendationService struct {
	repo      RecommendationRepository
	allocator IDAllocator
	validator *PayloadValidator
}

func NewRecommendationService(repo RecommendationRepository, allocator IDAllocator, validator *PayloadValidator) *RecommendationService {
	if validator == nil {
		validator = NewPayloadValidator(nil)
	}

	return &RecommendationService{
		repo:      repo,
		allocator: allocator,
		validator: validator,
	}
}

// ListRecommendations never fails: a store fault degrades to an empty listing.
func (s *RecommendationService) ListRecommendations(ctx context.Context, filter domain.RecommendationFilter) []domain.Recommendation {
	recs, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		logger.Warn("listing recommendations degraded to empty result", err)
		metrics.RecommendationListDegraded.Inc()
		return []domain.Recommendation{}
	}

	if recs == nil {
		recs = []domain.Recommendation{}
	}

	return recs
}

func (s *RecommendationService) GetRecommendation(ctx context.Context, id uint64) (domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when get recommendation by id")
		return domain.Recommendation{}, fmt.Errorf("context error: %w", err)
	}

	rec, found, err := s.repo.FindByID(ctx, id)
	if err != nil {
		logger.Error("failed to find recommendation", err, "id", id)
		return domain.Recommendation{}, err
	}
	if !found {
		return domain.Recommendation{}, &NotFoundError{ID: id}
	}

	return rec, nil
}

func (s *RecommendationService) CreateRecommendation(ctx context.Context, payload []byte) (domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when create recommendation")
		return domain.Recommendation{}, fmt.Errorf("context error: %w", err)
	}

	fields, err := s.validator.ParsePayload(payload)
	if err != nil {
		logger.Debug("rejected recommendation payload", err)
		return domain.Recommendation{}, err
	}

	id, err := s.allocator.Next(ctx)
	if err != nil {
		logger.Error("failed to allocate recommendation id", err)
		return domain.Recommendation{}, fmt.Errorf("failed to allocate id: %w", err)
	}

	rec := domain.Recommendation{
		ID:               id,
		ParentProductID:  fields.ParentProductID,
		RelatedProductID: fields.RelatedProductID,
		Type:             fields.Type,
		Priority:         fields.Priority,
	}

	if err := s.repo.Create(ctx, &rec); err != nil {
		logger.Error("failed to create recommendation", err, "id", id)
		return domain.Recommendation{}, fmt.Errorf("failed to create recommendation: %w", err)
	}

	metrics.RecommendationsCreated.Inc()
	logger.Info("recommendation created", "id", id)

	return rec, nil
}

// UpdateRecommendation checks existence before validating, so a bad payload
// against a missing id reports not found.
func (s *RecommendationService) UpdateRecommendation(ctx context.Context, id uint64, payload []byte) (domain.Recommendation, error) {
	if _, err := s.GetRecommendation(ctx, id); err != nil {
		return domain.Recommendation{}, err
	}

	fields, err := s.validator.ParsePayload(payload)
	if err != nil {
		logger.Debug("rejected recommendation payload", err, "id", id)
		return domain.Recommendation{}, err
	}

	rec := domain.Recommendation{
		ID:               id,
		ParentProductID:  fields.ParentProductID,
		RelatedProductID: fields.RelatedProductID,
		Type:             fields.Type,
		Priority:         fields.Priority,
	}

	if err := s.repo.ReplaceFields(ctx, &rec); err != nil {
		logger.Error("failed to update recommendation", err, "id", id)
		return domain.Recommendation{}, fmt.Errorf("failed to update recommendation: %w", err)
	}

	updated, err := s.GetRecommendation(ctx, id)
	if err != nil {
		logger.Error("failed to fetch updated recommendation", err, "id", id)
		return domain.Recommendation{}, fmt.Errorf("failed to fetch updated recommendation: %w", err)
	}

	logger.Info("recommendation updated", "id", id)

	return updated, nil
}

// DeleteRecommendation is idempotent; a missing id is not an error.
func (s *RecommendationService) DeleteRecommendation(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		logger.Error("context error when deleting recommendation")
		return fmt.Errorf("context error: %w", err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		logger.Error("failed to delete recommendation", err, "id", id)
		return fmt.Errorf("failed to delete recommendation: %w", err)
	}

	return nil
}

// ClickRecommendation applies p -> max(1, p-1) and returns the refreshed record.
func (s *RecommendationService) ClickRecommendation(ctx context.Context, id uint64) (domain.Recommendation, error) {
	if _, err := s.GetRecommendation(ctx, id); err != nil {
		return domain.Recommendation{}, err
	}

	changed, err := s.repo.DecrementPriority(ctx, id)
	if err != nil {
		logger.Error("failed to decrement recommendation priority", err, "id", id)
		return domain.Recommendation{}, fmt.Errorf("failed to click recommendation: %w", err)
	}

	outcome := "decremented"
	if !changed {
		outcome = "at_floor"
	}
	metrics.RecommendationClicks.WithLabelValues(outcome).Inc()

	rec, err := s.GetRecommendation(ctx, id)
	if err != nil {
		// deleted between the decrement and the read
		var nf *NotFoundError
		if errors.As(err, &nf) {
			return domain.Recommendation{}, err
		}
		return domain.Recommendation{}, fmt.Errorf("failed to fetch clicked recommendation: %w", err)
	}

	return rec, nil
}
