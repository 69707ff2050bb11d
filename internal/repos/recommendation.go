package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/types"
)

type RecommendationRepo interface {
	// ReplaceForUser deletes the user's whole stored set and inserts the new
	// one as a single transaction. Readers see the old set or the new set,
	// never a mixture.
	ReplaceForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, recs []*types.Recommendation) error
	ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Recommendation, error)
}

type recommendationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRecommendationRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationRepo {
	repoLog := baseLog.With("repo", "RecommendationRepo")
	return &recommendationRepo{db: db, log: repoLog}
}

func (rr *recommendationRepo) ReplaceForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, recs []*types.Recommendation) error {
	replace := func(transaction *gorm.DB) error {
		if err := transaction.WithContext(ctx).
			Where("user_id = ?", userID).
			Delete(&types.Recommendation{}).Error; err != nil {
			return err
		}
		if len(recs) == 0 {
			return nil
		}
		return transaction.WithContext(ctx).Create(&recs).Error
	}
	if tx != nil {
		// Caller already owns a transaction; delete+insert joins it.
		return replace(tx)
	}
	return rr.db.WithContext(ctx).Transaction(replace)
}

func (rr *recommendationRepo) ListForUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Recommendation, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}
	var results []*types.Recommendation
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("score DESC, recommended_user_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
