package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/types"
)

type TeamRepo interface {
	Create(ctx context.Context, tx *gorm.DB, teams []*types.Team) ([]*types.Team, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, teamIDs []uuid.UUID) ([]*types.Team, error)
	List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Team, error)
	AddMember(ctx context.Context, tx *gorm.DB, member *types.TeamMember) error
	RemoveMember(ctx context.Context, tx *gorm.DB, teamID, userID uuid.UUID) error
	ListMembers(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.TeamMember, error)
	CountMembers(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) error
}

type teamRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTeamRepo(db *gorm.DB, baseLog *logger.Logger) TeamRepo {
	repoLog := baseLog.With("repo", "TeamRepo")
	return &teamRepo{db: db, log: repoLog}
}

func (tr *teamRepo) Create(ctx context.Context, tx *gorm.DB, teams []*types.Team) ([]*types.Team, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if len(teams) == 0 {
		return []*types.Team{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&teams).Error; err != nil {
		return nil, err
	}
	return teams, nil
}

func (tr *teamRepo) GetByIDs(ctx context.Context, tx *gorm.DB, teamIDs []uuid.UUID) ([]*types.Team, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []*types.Team
	if len(teamIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", teamIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *teamRepo) List(ctx context.Context, tx *gorm.DB, limit, offset int) ([]*types.Team, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []*types.Team
	if err := transaction.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *teamRepo) AddMember(ctx context.Context, tx *gorm.DB, member *types.TeamMember) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).Create(member).Error
}

func (tr *teamRepo) RemoveMember(ctx context.Context, tx *gorm.DB, teamID, userID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&types.TeamMember{}).Error
}

func (tr *teamRepo) ListMembers(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) ([]*types.TeamMember, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var results []*types.TeamMember
	if err := transaction.WithContext(ctx).
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *teamRepo) CountMembers(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.TeamMember{}).
		Where("team_id = ?", teamID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (tr *teamRepo) Delete(ctx context.Context, tx *gorm.DB, teamID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", teamID).
		Delete(&types.Team{}).Error
}
