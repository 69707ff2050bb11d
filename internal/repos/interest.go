package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/types"
)

type InterestRepo interface {
	ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Interest, error)
	GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Interest, error)
	Ensure(ctx context.Context, tx *gorm.DB, interests []*types.Interest) ([]*types.Interest, error)
	GetIDsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
	Assign(ctx context.Context, tx *gorm.DB, userID uuid.UUID, interestIDs []uuid.UUID) error
	Unassign(ctx context.Context, tx *gorm.DB, userID uuid.UUID, interestIDs []uuid.UUID) error
}

type interestRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInterestRepo(db *gorm.DB, baseLog *logger.Logger) InterestRepo {
	repoLog := baseLog.With("repo", "InterestRepo")
	return &interestRepo{db: db, log: repoLog}
}

func (ir *interestRepo) ListAll(ctx context.Context, tx *gorm.DB) ([]*types.Interest, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.Interest
	if err := transaction.WithContext(ctx).
		Order("name ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ir *interestRepo) GetByNames(ctx context.Context, tx *gorm.DB, names []string) ([]*types.Interest, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var results []*types.Interest
	if len(names) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("name IN ?", names).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Ensure inserts any interests that do not exist yet and returns the full
// rows for every requested name.
func (ir *interestRepo) Ensure(ctx context.Context, tx *gorm.DB, interests []*types.Interest) ([]*types.Interest, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if len(interests) == 0 {
		return []*types.Interest{}, nil
	}
	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&interests).Error; err != nil {
		return nil, err
	}
	names := make([]string, 0, len(interests))
	for _, i := range interests {
		names = append(names, i.Name)
	}
	return ir.GetByNames(ctx, transaction, names)
}

func (ir *interestRepo) GetIDsByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	var ids []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.UserInterest{}).
		Where("user_id = ?", userID).
		Pluck("interest_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (ir *interestRepo) Assign(ctx context.Context, tx *gorm.DB, userID uuid.UUID, interestIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if len(interestIDs) == 0 {
		return nil
	}
	rows := make([]*types.UserInterest, 0, len(interestIDs))
	for _, interestID := range interestIDs {
		rows = append(rows, &types.UserInterest{
			ID:         uuid.New(),
			UserID:     userID,
			InterestID: interestID,
		})
	}
	return transaction.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&rows).Error
}

func (ir *interestRepo) Unassign(ctx context.Context, tx *gorm.DB, userID uuid.UUID, interestIDs []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = ir.db
	}
	if len(interestIDs) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("user_id = ? AND interest_id IN ?", userID, interestIDs).
		Delete(&types.UserInterest{}).Error
}
