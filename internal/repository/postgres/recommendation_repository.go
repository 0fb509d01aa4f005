package postgres

import (
	"context"
	"errors"
	"fmt"
	"recommendationService/domain"

	"gorm.io/gorm"
)

type RecommendationRepository struct {
	DB *gorm.DB

	legacyUpdateMatch bool
}

type RecommendationRepositoryOption func(*RecommendationRepository)

// WithLegacyUpdateMatch makes ReplaceFields also match the stored parent and
// related product ids. A mismatch then updates nothing and still succeeds.
func WithLegacyUpdateMatch() RecommendationRepositoryOption {
	return func(r *RecommendationRepository) {
		r.legacyUpdateMatch = true
	}
}

func NewRecommendationRepository(db *gorm.DB, opts ...RecommendationRepositoryOption) *RecommendationRepository {
	r := &RecommendationRepository{
		DB: db,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *RecommendationRepository) FindAll(ctx context.Context, filter domain.RecommendationFilter) ([]domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).Model(&domain.Recommendation{})
	if filter.Type != nil {
		query = query.Where("type = ?", *filter.Type)
	}
	if filter.ParentProductID != nil {
		query = query.Where("parent_product_id = ?", *filter.ParentProductID)
	}

	var recs []domain.Recommendation
	if err := query.Order("id ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("failed to find recommendations: %w", err)
	}

	return recs, nil
}

func (r *RecommendationRepository) FindByID(ctx context.Context, id uint64) (domain.Recommendation, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Recommendation{}, false, fmt.Errorf("context error: %w", err)
	}

	var rec domain.Recommendation

	err := r.DB.WithContext(ctx).Where("id = ?", id).First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Recommendation{}, false, nil
		}
		return domain.Recommendation{}, false, fmt.Errorf("failed to find recommendation: %w", err)
	}

	return rec, true, nil
}

func (r *RecommendationRepository) Create(ctx context.Context, rec *domain.Recommendation) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(rec).Error; err != nil {
		return fmt.Errorf("failed to create recommendation: %w", err)
	}

	return nil
}

func (r *RecommendationRepository) ReplaceFields(ctx context.Context, rec *domain.Recommendation) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	updateData := map[string]interface{}{
		"parent_product_id":  rec.ParentProductID,
		"related_product_id": rec.RelatedProductID,
		"type":               rec.Type,
		"priority":           rec.Priority,
	}

	query := r.DB.WithContext(ctx).Model(&domain.Recommendation{}).Where("id = ?", rec.ID)
	if r.legacyUpdateMatch {
		query = query.Where("parent_product_id = ? AND related_product_id = ?", rec.ParentProductID, rec.RelatedProductID)
	}

	if err := query.Updates(updateData).Error; err != nil {
		return fmt.Errorf("failed to update recommendation: %w", err)
	}

	return nil
}

func (r *RecommendationRepository) DecrementPriority(ctx context.Context, id uint64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	// one conditional statement: concurrent clicks cannot lose updates or cross the floor
	result := r.DB.WithContext(ctx).
		Model(&domain.Recommendation{}).
		Where("id = ? AND priority > ?", id, domain.MinPriority).
		UpdateColumn("priority", gorm.Expr("priority - ?", 1))
	if result.Error != nil {
		return false, fmt.Errorf("failed to decrement priority: %w", result.Error)
	}

	return result.RowsAffected > 0, nil
}

func (r *RecommendationRepository) Delete(ctx context.Context, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.Recommendation{}).Error; err != nil {
		return fmt.Errorf("failed to delete recommendation: %w", err)
	}

	return nil
}

func (r *RecommendationRepository) MaxID(ctx context.Context) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var maxID uint64
	if err := r.DB.WithContext(ctx).
		Model(&domain.Recommendation{}).
		Select("COALESCE(MAX(id), 0)").
		Scan(&maxID).Error; err != nil {
		return 0, fmt.Errorf("failed to read max recommendation id: %w", err)
	}

	return maxID, nil
}

func (r *RecommendationRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql db: %w", err)
	}

	return sqlDB.PingContext(ctx)
}
