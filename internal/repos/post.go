package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/types"
)

type PostRepo interface {
	Create(ctx context.Context, tx *gorm.DB, posts []*types.Post) ([]*types.Post, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, postIDs []uuid.UUID) ([]*types.Post, error)
	List(ctx context.Context, tx *gorm.DB, category string, limit, offset int) ([]*types.Post, error)
	ListByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) ([]*types.Post, error)
	AuthoredCategories(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) ([]string, error)
	Save(ctx context.Context, tx *gorm.DB, post *types.Post) error
	Delete(ctx context.Context, tx *gorm.DB, postID uuid.UUID) error
}

type postRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostRepo(db *gorm.DB, baseLog *logger.Logger) PostRepo {
	repoLog := baseLog.With("repo", "PostRepo")
	return &postRepo{db: db, log: repoLog}
}

func (pr *postRepo) Create(ctx context.Context, tx *gorm.DB, posts []*types.Post) ([]*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	if len(posts) == 0 {
		return []*types.Post{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (pr *postRepo) GetByIDs(ctx context.Context, tx *gorm.DB, postIDs []uuid.UUID) ([]*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Post
	if len(postIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", postIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *postRepo) List(ctx context.Context, tx *gorm.DB, category string, limit, offset int) ([]*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	query := transaction.WithContext(ctx).Model(&types.Post{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	var results []*types.Post
	if err := query.
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (pr *postRepo) ListByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) ([]*types.Post, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var results []*types.Post
	if err := transaction.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// AuthoredCategories returns the distinct set of categories the user has
// posted into. Applied-to posts deliberately do not count, only authored
// ones.
func (pr *postRepo) AuthoredCategories(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) ([]string, error) {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	var categories []string
	if err := transaction.WithContext(ctx).
		Model(&types.Post{}).
		Distinct("category").
		Where("author_id = ?", authorID).
		Pluck("category", &categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (pr *postRepo) Save(ctx context.Context, tx *gorm.DB, post *types.Post) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).Save(post).Error
}

func (pr *postRepo) Delete(ctx context.Context, tx *gorm.DB, postID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = pr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", postID).
		Delete(&types.Post{}).Error
}
