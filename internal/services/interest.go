package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/repos"
	"github.com/campuslink/campuslink-backend/internal/requestdata"
	"github.com/campuslink/campuslink-backend/internal/types"
)

type InterestService interface {
	ListCatalog(ctx context.Context) ([]*types.Interest, error)
	ListMine(ctx context.Context) ([]*types.Interest, error)
	SetMine(ctx context.Context, names []string) ([]*types.Interest, error)
}

type interestService struct {
	db           *gorm.DB
	log          *logger.Logger
	interestRepo repos.InterestRepo
}

func NewInterestService(db *gorm.DB, log *logger.Logger, interestRepo repos.InterestRepo) InterestService {
	serviceLog := log.With("service", "InterestService")
	return &interestService{
		db:           db,
		log:          serviceLog,
		interestRepo: interestRepo,
	}
}

func (is *interestService) ListCatalog(ctx context.Context) ([]*types.Interest, error) {
	return is.interestRepo.ListAll(ctx, nil)
}

func (is *interestService) ListMine(ctx context.Context) ([]*types.Interest, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	ids, err := is.interestRepo.GetIDsByUserID(ctx, nil, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load interest assignments: %w", err)
	}
	if len(ids) == 0 {
		return []*types.Interest{}, nil
	}
	all, err := is.interestRepo.ListAll(ctx, nil)
	if err != nil {
		return nil, err
	}
	assigned := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		assigned[id] = struct{}{}
	}
	var out []*types.Interest
	for _, interest := range all {
		if _, ok := assigned[interest.ID]; ok {
			out = append(out, interest)
		}
	}
	return out, nil
}

// SetMine replaces the caller's interest assignments with the given names.
// Unknown names become custom interests.
func (is *interestService) SetMine(ctx context.Context, names []string) ([]*types.Interest, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}

	seen := make(map[string]struct{}, len(names))
	var toEnsure []*types.Interest
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		toEnsure = append(toEnsure, &types.Interest{
			ID:   uuid.New(),
			Name: name,
			Kind: types.InterestKindCustom,
		})
	}

	var result []*types.Interest
	if err := is.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ensured, err := is.interestRepo.Ensure(ctx, tx, toEnsure)
		if err != nil {
			return fmt.Errorf("failed to ensure interests: %w", err)
		}
		current, err := is.interestRepo.GetIDsByUserID(ctx, tx, rd.UserID)
		if err != nil {
			return fmt.Errorf("failed to load current assignments: %w", err)
		}
		if err := is.interestRepo.Unassign(ctx, tx, rd.UserID, current); err != nil {
			return fmt.Errorf("failed to clear assignments: %w", err)
		}
		ids := make([]uuid.UUID, 0, len(ensured))
		for _, interest := range ensured {
			ids = append(ids, interest.ID)
		}
		if err := is.interestRepo.Assign(ctx, tx, rd.UserID, ids); err != nil {
			return fmt.Errorf("failed to assign interests: %w", err)
		}
		result = ensured
		return nil
	}); err != nil {
		return nil, err
	}
	return result, nil
}
