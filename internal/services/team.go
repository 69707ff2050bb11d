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

type CreateTeamInput struct {
	Name     string     `json:"name"`
	PostID   *uuid.UUID `json:"post_id"`
	Capacity int        `json:"capacity"`
}

type TeamService interface {
	Create(ctx context.Context, input CreateTeamInput) (*types.Team, error)
	Get(ctx context.Context, teamID uuid.UUID) (*types.Team, error)
	List(ctx context.Context, limit, offset int) ([]*types.Team, error)
	Join(ctx context.Context, teamID uuid.UUID) error
	Leave(ctx context.Context, teamID uuid.UUID) error
	Members(ctx context.Context, teamID uuid.UUID) ([]*types.TeamMember, error)
}

type teamService struct {
	db       *gorm.DB
	log      *logger.Logger
	teamRepo repos.TeamRepo
	postRepo repos.PostRepo
}

func NewTeamService(db *gorm.DB, log *logger.Logger, teamRepo repos.TeamRepo, postRepo repos.PostRepo) TeamService {
	serviceLog := log.With("service", "TeamService")
	return &teamService{
		db:       db,
		log:      serviceLog,
		teamRepo: teamRepo,
		postRepo: postRepo,
	}
}

func (ts *teamService) Create(ctx context.Context, input CreateTeamInput) (*types.Team, error) {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, fmt.Errorf("no authenticated user in context")
	}
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("a team name is required")
	}
	capacity := input.Capacity
	if capacity <= 0 {
		capacity = 4
	}
	if input.PostID != nil {
		if _, err := ts.postRepo.GetByIDs(ctx, nil, []uuid.UUID{*input.PostID}); err != nil {
			return nil, fmt.Errorf("error checking post: %w", err)
		}
	}

	team := &types.Team{
		ID:       uuid.New(),
		Name:     name,
		OwnerID:  rd.UserID,
		PostID:   input.PostID,
		Capacity: capacity,
	}
	if err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ts.teamRepo.Create(ctx, tx, []*types.Team{team}); err != nil {
			return fmt.Errorf("failed to create team: %w", err)
		}
		owner := &types.TeamMember{
			ID:     uuid.New(),
			TeamID: team.ID,
			UserID: rd.UserID,
			Role:   types.TeamRoleOwner,
		}
		if err := ts.teamRepo.AddMember(ctx, tx, owner); err != nil {
			return fmt.Errorf("failed to add owner membership: %w", err)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	return team, nil
}

func (ts *teamService) Get(ctx context.Context, teamID uuid.UUID) (*types.Team, error) {
	found, err := ts.teamRepo.GetByIDs(ctx, nil, []uuid.UUID{teamID})
	if err != nil {
		return nil, fmt.Errorf("error fetching team: %w", err)
	}
	if len(found) == 0 || found[0] == nil {
		return nil, fmt.Errorf("team does not exist")
	}
	return found[0], nil
}

func (ts *teamService) List(ctx context.Context, limit, offset int) ([]*types.Team, error) {
	if limit <= 0 {
		limit = defaultPostPageSize
	}
	if limit > maxPostPageSize {
		limit = maxPostPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return ts.teamRepo.List(ctx, nil, limit, offset)
}

func (ts *teamService) Join(ctx context.Context, teamID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return fmt.Errorf("no authenticated user in context")
	}
	team, err := ts.Get(ctx, teamID)
	if err != nil {
		return err
	}
	return ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		count, err := ts.teamRepo.CountMembers(ctx, tx, teamID)
		if err != nil {
			return fmt.Errorf("failed to count members: %w", err)
		}
		if count >= int64(team.Capacity) {
			return fmt.Errorf("team is full")
		}
		member := &types.TeamMember{
			ID:     uuid.New(),
			TeamID: teamID,
			UserID: rd.UserID,
			Role:   types.TeamRoleMember,
		}
		if err := ts.teamRepo.AddMember(ctx, tx, member); err != nil {
			return fmt.Errorf("failed to join team: %w", err)
		}
		return nil
	})
}

func (ts *teamService) Leave(ctx context.Context, teamID uuid.UUID) error {
	rd := requestdata.GetRequestData(ctx)
	if rd == nil || rd.UserID == uuid.Nil {
		return fmt.Errorf("no authenticated user in context")
	}
	team, err := ts.Get(ctx, teamID)
	if err != nil {
		return err
	}
	if team.OwnerID == rd.UserID {
		return fmt.Errorf("the owner cannot leave their own team")
	}
	return ts.teamRepo.RemoveMember(ctx, nil, teamID, rd.UserID)
}

func (ts *teamService) Members(ctx context.Context, teamID uuid.UUID) ([]*types.TeamMember, error) {
	if _, err := ts.Get(ctx, teamID); err != nil {
		return nil, err
	}
	return ts.teamRepo.ListMembers(ctx, nil, teamID)
}
