package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/recommend"
	"github.com/campuslink/campuslink-backend/internal/repos"
	"github.com/campuslink/campuslink-backend/internal/types"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

type recFixture struct {
	db           *gorm.DB
	userRepo     repos.UserRepo
	interestRepo repos.InterestRepo
	postRepo     repos.PostRepo
	recRepo      repos.RecommendationRepo
	service      RecommendationService
}

func newRecFixture(t *testing.T) *recFixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&types.User{},
		&types.Interest{},
		&types.UserInterest{},
		&types.Post{},
		&types.Recommendation{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	log := testLogger()
	userRepo := repos.NewUserRepo(db, log)
	interestRepo := repos.NewInterestRepo(db, log)
	postRepo := repos.NewPostRepo(db, log)
	recRepo := repos.NewRecommendationRepo(db, log)
	service := NewRecommendationService(db, log, userRepo, interestRepo, postRepo, recRepo, nil, recommend.DefaultConfig())
	return &recFixture{
		db:           db,
		userRepo:     userRepo,
		interestRepo: interestRepo,
		postRepo:     postRepo,
		recRepo:      recRepo,
		service:      service,
	}
}

func (f *recFixture) addUser(t *testing.T, department, bio, status string, interestIDs []uuid.UUID, categories []string) uuid.UUID {
	t.Helper()
	ctx := context.Background()
	user := &types.User{
		ID:         uuid.New(),
		Email:      uuid.New().String() + "@campus.test",
		Password:   "x",
		FirstName:  "Test",
		LastName:   "User",
		Department: department,
		Bio:        bio,
		Status:     status,
	}
	if _, err := f.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if err := f.interestRepo.Assign(ctx, nil, user.ID, interestIDs); err != nil {
		t.Fatalf("assign interests: %v", err)
	}
	for _, category := range categories {
		post := &types.Post{
			ID:       uuid.New(),
			AuthorID: user.ID,
			Title:    "t",
			Category: category,
			Status:   types.PostStatusOpen,
		}
		if _, err := f.postRepo.Create(ctx, nil, []*types.Post{post}); err != nil {
			t.Fatalf("create post: %v", err)
		}
	}
	return user.ID
}

func (f *recFixture) seedInterests(t *testing.T, n int) []uuid.UUID {
	t.Helper()
	ctx := context.Background()
	out := make([]uuid.UUID, 0, n)
	for i := 0; i < n; i++ {
		interest := &types.Interest{
			ID:   uuid.New(),
			Name: uuid.New().String(),
			Kind: types.InterestKindPredefined,
		}
		ensured, err := f.interestRepo.Ensure(ctx, nil, []*types.Interest{interest})
		if err != nil {
			t.Fatalf("ensure interest: %v", err)
		}
		out = append(out, ensured[0].ID)
	}
	return out
}

func TestRecommendationServiceEndToEnd(t *testing.T) {
	f := newRecFixture(t)
	ctx := context.Background()

	shared := f.seedInterests(t, 2)
	target := f.addUser(t, "CS", "backend developer", types.UserStatusApproved, shared, []string{types.PostCategoryProject})
	twin := f.addUser(t, "CS", "backend engineer", types.UserStatusApproved, shared, []string{types.PostCategoryProject})
	deptMate := f.addUser(t, "CS", "", types.UserStatusApproved, nil, nil)
	f.addUser(t, "EE", "", types.UserStatusPending, nil, nil)

	result, err := f.service.RegenerateForUser(ctx, target)
	if err != nil {
		t.Fatalf("RegenerateForUser: %v", err)
	}
	if len(result) != 2 {
		t.Fatalf("got %d scored users, want 2 (pending user excluded)", len(result))
	}
	if result[0].UserID != twin {
		t.Fatalf("highest scored should be the twin, got %v", result)
	}

	stored, err := f.service.GetRecommendations(ctx, target)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored %d rows, want 2", len(stored))
	}
	if stored[0].RecommendedUserID != twin || stored[1].RecommendedUserID != deptMate {
		t.Fatalf("stored order wrong: %+v", stored)
	}
	if stored[0].Score < stored[1].Score {
		t.Fatalf("stored scores not descending")
	}
	for _, rec := range stored {
		if rec.Score < 0 || rec.Score > 1 {
			t.Fatalf("score out of range: %v", rec.Score)
		}
		if rec.RecommendedUserID == target {
			t.Fatalf("user recommended to themself")
		}
	}
}

func TestRecommendationServiceSweep(t *testing.T) {
	f := newRecFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		f.addUser(t, "CS", "", types.UserStatusApproved, nil, nil)
	}
	f.addUser(t, "CS", "", types.UserStatusRejected, nil, nil)

	summary, err := f.service.RegenerateAll(ctx)
	if err != nil {
		t.Fatalf("RegenerateAll: %v", err)
	}
	if summary.Processed != 5 || summary.Failed != 0 {
		t.Fatalf("summary=%+v, want 5 processed", summary)
	}

	ids, err := f.userRepo.ListApprovedIDs(ctx, nil)
	if err != nil {
		t.Fatalf("ListApprovedIDs: %v", err)
	}
	for _, id := range ids {
		stored, err := f.service.GetRecommendations(ctx, id)
		if err != nil {
			t.Fatalf("GetRecommendations: %v", err)
		}
		if len(stored) != 4 {
			t.Fatalf("user %s has %d recommendations, want 4", id, len(stored))
		}
	}
}

func TestRecommendationServiceRegenerateTwiceIsStable(t *testing.T) {
	f := newRecFixture(t)
	ctx := context.Background()

	shared := f.seedInterests(t, 3)
	target := f.addUser(t, "CS", "distributed systems", types.UserStatusApproved, shared, []string{types.PostCategoryStudy})
	f.addUser(t, "CS", "systems programming", types.UserStatusApproved, shared[:2], []string{types.PostCategoryStudy})
	f.addUser(t, "EE", "회로 설계", types.UserStatusApproved, shared[:1], nil)

	first, err := f.service.RegenerateForUser(ctx, target)
	if err != nil {
		t.Fatalf("first regeneration: %v", err)
	}
	second, err := f.service.RegenerateForUser(ctx, target)
	if err != nil {
		t.Fatalf("second regeneration: %v", err)
	}
	if len(first) != len(second) {
		t.Fatalf("result length changed between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("result changed between runs at %d: %v vs %v", i, first[i], second[i])
		}
	}

	stored, err := f.recRepo.ListForUser(ctx, nil, target)
	if err != nil {
		t.Fatalf("ListForUser: %v", err)
	}
	if len(stored) != len(second) {
		t.Fatalf("stored %d rows, want %d", len(stored), len(second))
	}
}
