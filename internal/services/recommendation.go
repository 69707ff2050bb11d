package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuslink/campuslink-backend/internal/cache"
	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/recommend"
	"github.com/campuslink/campuslink-backend/internal/repos"
	"github.com/campuslink/campuslink-backend/internal/types"
)

// RecommendationService is the public surface of the recommendation engine:
// regenerate one user, sweep everyone, read the stored set.
type RecommendationService interface {
	RegenerateForUser(ctx context.Context, userID uuid.UUID) ([]recommend.ScoredUser, error)
	RegenerateAll(ctx context.Context) (recommend.SweepSummary, error)
	GetRecommendations(ctx context.Context, userID uuid.UUID) ([]*types.Recommendation, error)
}

type recommendationService struct {
	db       *gorm.DB
	log      *logger.Logger
	engine   *recommend.Engine
	recRepo  repos.RecommendationRepo
	recCache cache.RecommendationCache
}

func NewRecommendationService(
	db *gorm.DB,
	log *logger.Logger,
	userRepo repos.UserRepo,
	interestRepo repos.InterestRepo,
	postRepo repos.PostRepo,
	recRepo repos.RecommendationRepo,
	recCache cache.RecommendationCache,
	cfg recommend.Config,
) RecommendationService {
	serviceLog := log.With("service", "RecommendationService")
	engine := recommend.NewEngine(
		log,
		&gormUserSource{userRepo: userRepo},
		&gormInterestSource{interestRepo: interestRepo},
		&gormPostSource{postRepo: postRepo},
		&gormRecommendationSink{recRepo: recRepo},
		cfg,
	)
	return &recommendationService{
		db:       db,
		log:      serviceLog,
		engine:   engine,
		recRepo:  recRepo,
		recCache: recCache,
	}
}

func (rs *recommendationService) RegenerateForUser(ctx context.Context, userID uuid.UUID) ([]recommend.ScoredUser, error) {
	result, err := rs.engine.RegenerateForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if rs.recCache != nil {
		rs.recCache.Invalidate(ctx, userID)
	}
	return result, nil
}

func (rs *recommendationService) RegenerateAll(ctx context.Context) (recommend.SweepSummary, error) {
	summary, err := rs.engine.RegenerateAll(ctx)
	if err != nil {
		return summary, err
	}
	// Cached sets may now be stale for every swept user; cheapest correct
	// move is dropping them lazily on the next read via TTL, plus explicit
	// invalidation on the per-user path above.
	return summary, nil
}

func (rs *recommendationService) GetRecommendations(ctx context.Context, userID uuid.UUID) ([]*types.Recommendation, error) {
	if rs.recCache != nil {
		if recs, ok := rs.recCache.Get(ctx, userID); ok {
			return recs, nil
		}
	}
	recs, err := rs.recRepo.ListForUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load recommendations: %w", err)
	}
	if rs.recCache != nil {
		rs.recCache.Set(ctx, userID, recs)
	}
	return recs, nil
}

// gorm adapters satisfying the engine's data contracts.

type gormUserSource struct {
	userRepo repos.UserRepo
}

func (s *gormUserSource) ListApprovedUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	return s.userRepo.ListApprovedIDs(ctx, nil)
}

func (s *gormUserSource) GetUser(ctx context.Context, userID uuid.UUID) (*recommend.UserProfile, error) {
	found, err := s.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, err
	}
	if len(found) == 0 || found[0] == nil {
		return nil, recommend.ErrUserNotFound
	}
	user := found[0]
	return &recommend.UserProfile{
		ID:         user.ID,
		Department: user.Department,
		Bio:        user.Bio,
		Approved:   user.IsApproved(),
	}, nil
}

type gormInterestSource struct {
	interestRepo repos.InterestRepo
}

func (s *gormInterestSource) GetInterestIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	ids, err := s.interestRepo.GetIDsByUserID(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

type gormPostSource struct {
	postRepo repos.PostRepo
}

func (s *gormPostSource) GetAuthoredCategories(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	categories, err := s.postRepo.AuthoredCategories(ctx, nil, userID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(categories))
	for _, category := range categories {
		set[category] = struct{}{}
	}
	return set, nil
}

type gormRecommendationSink struct {
	recRepo repos.RecommendationRepo
}

func (s *gormRecommendationSink) Replace(ctx context.Context, userID uuid.UUID, recs []recommend.ScoredUser) error {
	rows := make([]*types.Recommendation, 0, len(recs))
	for _, rec := range recs {
		rows = append(rows, &types.Recommendation{
			ID:                uuid.New(),
			UserID:            userID,
			RecommendedUserID: rec.UserID,
			Score:             rec.Score,
		})
	}
	return s.recRepo.ReplaceForUser(ctx, nil, userID, rows)
}
