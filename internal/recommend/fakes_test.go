package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campuslink/campuslink-backend/internal/logger"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// fakeStore backs all four engine contracts with in-memory maps.
type fakeStore struct {
	mu         sync.Mutex
	users      map[uuid.UUID]*UserProfile
	interests  map[uuid.UUID]map[uuid.UUID]struct{}
	categories map[uuid.UUID]map[string]struct{}
	recs       map[uuid.UUID][]ScoredUser

	failInterestsFor map[uuid.UUID]bool
	failReplaceFor   map[uuid.UUID]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:            make(map[uuid.UUID]*UserProfile),
		interests:        make(map[uuid.UUID]map[uuid.UUID]struct{}),
		categories:       make(map[uuid.UUID]map[string]struct{}),
		recs:             make(map[uuid.UUID][]ScoredUser),
		failInterestsFor: make(map[uuid.UUID]bool),
		failReplaceFor:   make(map[uuid.UUID]bool),
	}
}

func (f *fakeStore) addUser(department, bio string, approved bool, interests []uuid.UUID, categories []string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.users[id] = &UserProfile{ID: id, Department: department, Bio: bio, Approved: approved}
	iset := make(map[uuid.UUID]struct{}, len(interests))
	for _, i := range interests {
		iset[i] = struct{}{}
	}
	f.interests[id] = iset
	cset := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		cset[c] = struct{}{}
	}
	f.categories[id] = cset
	return id
}

func (f *fakeStore) ListApprovedUserIDs(ctx context.Context) ([]uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []uuid.UUID
	for id, u := range f.users {
		if u.Approved {
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out, nil
}

func (f *fakeStore) GetUser(ctx context.Context, userID uuid.UUID) (*UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) GetInterestIDs(ctx context.Context, userID uuid.UUID) (map[uuid.UUID]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failInterestsFor[userID] {
		return nil, fmt.Errorf("interest lookup blew up for %s", userID)
	}
	out := make(map[uuid.UUID]struct{}, len(f.interests[userID]))
	for k := range f.interests[userID] {
		out[k] = struct{}{}
	}
	return out, nil
}

func (f *fakeStore) GetAuthoredCategories(ctx context.Context, userID uuid.UUID) (map[string]struct{}, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]struct{}, len(f.categories[userID]))
	for k := range f.categories[userID] {
		out[k] = struct{}{}
	}
	return out, nil
}

func (f *fakeStore) Replace(ctx context.Context, userID uuid.UUID, recs []ScoredUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failReplaceFor[userID] {
		return fmt.Errorf("replace failed for %s", userID)
	}
	cp := make([]ScoredUser, len(recs))
	copy(cp, recs)
	f.recs[userID] = cp
	return nil
}

func (f *fakeStore) storedFor(userID uuid.UUID) []ScoredUser {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := make([]ScoredUser, len(f.recs[userID]))
	copy(cp, f.recs[userID])
	return cp
}

func newTestEngine(store *fakeStore, cfg Config) *Engine {
	return NewEngine(testLogger(), store, store, store, store, cfg)
}
