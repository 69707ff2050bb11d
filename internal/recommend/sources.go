package recommend

import (
	"context"
	"errors"

	"github.com/google/uuid"
)

// ErrUserNotFound is returned by UserSource implementations when the
// requested user does not exist. The engine treats it as a benign no-op.
var ErrUserNotFound = errors.New("user not found")

type UserProfile struct {
	ID         uuid.UUID
	Department string
	Bio        string
	Approved   bool
}

type UserSource interface {
	ListApprovedUserIDs(ctx context.Context) ([]uuid.UUID, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*UserProfile, error)
}

type InterestSource interface {
	GetInterestIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error)
}

type PostActivitySource interface {
	GetAuthoredCategories(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error)
}

type ScoredUser struct {
	UserID uuid.UUID
	Score  float64
}

// RecommendationSink persists a full recommendation set for one user.
// Replace must be atomic: after it returns, readers see either the previous
// set or the new set in full, never a mixture.
type RecommendationSink interface {
	Replace(ctx context.Context, userID uuid.UUID, recs []ScoredUser) error
}
