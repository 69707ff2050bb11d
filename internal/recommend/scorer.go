package recommend

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/campuslink/campuslink-backend/internal/logger"
)

// Scorer evaluates every eligible candidate against one target user and
// returns the full ranked list of candidates above the inclusion threshold.
type Scorer struct {
	log       *logger.Logger
	users     UserSource
	interests InterestSource
	posts     PostActivitySource
	weights   Weights
	threshold float64
}

func NewScorer(baseLog *logger.Logger, users UserSource, interests InterestSource, posts PostActivitySource, weights Weights, threshold float64) *Scorer {
	return &Scorer{
		log:       baseLog.With("component", "Scorer"),
		users:     users,
		interests: interests,
		posts:     posts,
		weights:   weights,
		threshold: threshold,
	}
}

type userFeatures struct {
	profile    *UserProfile
	interests  map[uuid.UUID]struct{}
	categories map[string]struct{}
	bioTokens  map[string]struct{}
}

func (s *Scorer) loadFeatures(ctx context.Context, profile *UserProfile) (*userFeatures, error) {
	interestIDs, err := s.interests.GetInterestIDs(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("interest lookup: %w", err)
	}
	categories, err := s.posts.GetAuthoredCategories(ctx, profile.ID)
	if err != nil {
		return nil, fmt.Errorf("authored category lookup: %w", err)
	}
	return &userFeatures{
		profile:    profile,
		interests:  interestIDs,
		categories: categories,
		bioTokens:  TokenizeBio(profile.Bio),
	}, nil
}

func score(w Weights, target, candidate *userFeatures) float64 {
	return Combine(w, Signals{
		Interest:   jaccard(target.interests, candidate.interests),
		Department: DepartmentMatch(target.profile.Department, candidate.profile.Department),
		Category:   jaccard(target.categories, candidate.categories),
		Bio:        jaccard(target.bioTokens, candidate.bioTokens),
	})
}

// ScoreCandidates ranks every approved user other than the target. A
// candidate whose data lookups fail is skipped for this run rather than
// failing the whole computation.
func (s *Scorer) ScoreCandidates(ctx context.Context, target *UserProfile) ([]ScoredUser, error) {
	targetFeatures, err := s.loadFeatures(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("target features: %w", err)
	}

	candidateIDs, err := s.users.ListApprovedUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("candidate pool: %w", err)
	}

	scored := make([]ScoredUser, 0, len(candidateIDs))
	for _, candidateID := range candidateIDs {
		if candidateID == target.ID {
			continue
		}
		candidate, err := s.users.GetUser(ctx, candidateID)
		if err != nil {
			s.log.Warn("Skipping candidate, profile lookup failed", "user_id", target.ID, "candidate_id", candidateID, "error", err)
			continue
		}
		if candidate == nil || !candidate.Approved {
			continue
		}
		candidateFeatures, err := s.loadFeatures(ctx, candidate)
		if err != nil {
			s.log.Warn("Skipping candidate, feature lookup failed", "user_id", target.ID, "candidate_id", candidateID, "error", err)
			continue
		}
		composite := score(s.weights, targetFeatures, candidateFeatures)
		if composite <= s.threshold {
			continue
		}
		scored = append(scored, ScoredUser{UserID: candidateID, Score: composite})
	}

	sort.Slice(scored, func(i, j int) bool {
		if scored[i].Score != scored[j].Score {
			return scored[i].Score > scored[j].Score
		}
		return bytes.Compare(scored[i].UserID[:], scored[j].UserID[:]) < 0
	})
	return scored, nil
}
