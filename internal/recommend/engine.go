package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/campuslink/campuslink-backend/internal/logger"
)

type Config struct {
	Weights          Weights `yaml:"weights"`
	Threshold        float64 `yaml:"threshold"`
	TopN             int     `yaml:"top_n"`
	SweepConcurrency int     `yaml:"sweep_concurrency"`
}

func DefaultConfig() Config {
	return Config{
		Weights:          DefaultWeights(),
		Threshold:        0.1,
		TopN:             20,
		SweepConcurrency: 4,
	}
}

// Engine owns the regeneration protocol: score, truncate to top-N, replace
// the stored set atomically. It is stateless between invocations; the only
// state is the persisted recommendation rows, fully overwritten per run.
type Engine struct {
	log    *logger.Logger
	users  UserSource
	sink   RecommendationSink
	scorer *Scorer
	cfg    Config

	userLocks keyedMutex
}

func NewEngine(baseLog *logger.Logger, users UserSource, interests InterestSource, posts PostActivitySource, sink RecommendationSink, cfg Config) *Engine {
	if cfg.TopN <= 0 {
		cfg.TopN = DefaultConfig().TopN
	}
	if cfg.SweepConcurrency <= 0 {
		cfg.SweepConcurrency = DefaultConfig().SweepConcurrency
	}
	return &Engine{
		log:    baseLog.With("component", "RecommendEngine"),
		users:  users,
		sink:   sink,
		scorer: NewScorer(baseLog, users, interests, posts, cfg.Weights, cfg.Threshold),
		cfg:    cfg,
	}
}

// RegenerateForUser recomputes and stores the recommendation set for one
// user. A nonexistent or non-approved target yields an empty result without
// touching the stored set; batch sweeps must tolerate users becoming
// ineligible mid-run. Any scoring or persistence failure leaves the prior
// stored set intact.
func (e *Engine) RegenerateForUser(ctx context.Context, userID uuid.UUID) ([]ScoredUser, error) {
	unlock := e.userLocks.lock(userID)
	defer unlock()

	target, err := e.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.log.Debug("Regeneration skipped, user does not exist", "user_id", userID)
			return []ScoredUser{}, nil
		}
		return nil, fmt.Errorf("load target user: %w", err)
	}
	if target == nil || !target.Approved {
		e.log.Debug("Regeneration skipped, user not approved", "user_id", userID)
		return []ScoredUser{}, nil
	}

	scored, err := e.scorer.ScoreCandidates(ctx, target)
	if err != nil {
		return nil, fmt.Errorf("score candidates: %w", err)
	}
	if len(scored) > e.cfg.TopN {
		scored = scored[:e.cfg.TopN]
	}

	if err := e.sink.Replace(ctx, userID, scored); err != nil {
		return nil, fmt.Errorf("replace recommendations: %w", err)
	}
	e.log.Info("Recommendations regenerated", "user_id", userID, "count", len(scored))
	return scored, nil
}

type SweepSummary struct {
	Processed int `json:"processed"`
	Failed    int `json:"failed"`
}

// RegenerateAll sweeps every approved user. Per-user failures are logged and
// counted, never propagated; one bad user cannot abort the sweep.
func (e *Engine) RegenerateAll(ctx context.Context) (SweepSummary, error) {
	userIDs, err := e.users.ListApprovedUserIDs(ctx)
	if err != nil {
		return SweepSummary{}, fmt.Errorf("list approved users: %w", err)
	}

	var mu sync.Mutex
	summary := SweepSummary{}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.SweepConcurrency)
	for _, userID := range userIDs {
		g.Go(func() error {
			if _, err := e.RegenerateForUser(gctx, userID); err != nil {
				e.log.Warn("Sweep regeneration failed for user, continuing", "user_id", userID, "error", err)
				mu.Lock()
				summary.Failed++
				mu.Unlock()
				return nil
			}
			mu.Lock()
			summary.Processed++
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	e.log.Info("Recommendation sweep finished", "processed", summary.Processed, "failed", summary.Failed)
	return summary, nil
}

// keyedMutex serializes concurrent regenerations for the same user so the
// delete-then-insert replace never interleaves with another writer.
// Regenerations for different users never contend.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*userLock
}

type userLock struct {
	mu   sync.Mutex
	refs int
}

func (km *keyedMutex) lock(key uuid.UUID) func() {
	km.mu.Lock()
	if km.locks == nil {
		km.locks = make(map[uuid.UUID]*userLock)
	}
	l, ok := km.locks[key]
	if !ok {
		l = &userLock{}
		km.locks[key] = l
	}
	l.refs++
	km.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		km.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(km.locks, key)
		}
		km.mu.Unlock()
	}
}
