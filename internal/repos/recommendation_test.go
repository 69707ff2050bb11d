package repos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/campuslink/campuslink-backend/internal/logger"
	"github.com/campuslink/campuslink-backend/internal/types"
)

func testLogger() *logger.Logger {
	return &logger.Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func openTestDB(t *testing.T) *gorm.DB {
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
	return db
}

func seedUser(t *testing.T, db *gorm.DB, status string) *types.User {
	t.Helper()
	user := &types.User{
		ID:        uuid.New(),
		Email:     uuid.New().String() + "@campus.test",
		Password:  "x",
		FirstName: "Test",
		LastName:  "User",
		Status:    status,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func TestReplaceForUserSwapsWholeSet(t *testing.T) {
	db := openTestDB(t)
	repo := NewRecommendationRepo(db, testLogger())
	ctx := context.Background()

	source := seedUser(t, db, types.UserStatusApproved)
	oldRec := seedUser(t, db, types.UserStatusApproved)
	newRecA := seedUser(t, db, types.UserStatusApproved)
	newRecB := seedUser(t, db, types.UserStatusApproved)

	initial := []*types.Recommendation{
		{ID: uuid.New(), UserID: source.ID, RecommendedUserID: oldRec.ID, Score: 0.9},
	}
	if err := repo.ReplaceForUser(ctx, nil, source.ID, initial); err != nil {
		t.Fatalf("initial replace: %v", err)
	}

	next := []*types.Recommendation{
		{ID: uuid.New(), UserID: source.ID, RecommendedUserID: newRecA.ID, Score: 0.4},
		{ID: uuid.New(), UserID: source.ID, RecommendedUserID: newRecB.ID, Score: 0.8},
	}
	if err := repo.ReplaceForUser(ctx, nil, source.ID, next); err != nil {
		t.Fatalf("second replace: %v", err)
	}

	stored, err := repo.ListForUser(ctx, nil, source.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("got %d rows, want 2 (old set must be gone)", len(stored))
	}
	if stored[0].RecommendedUserID != newRecB.ID || stored[1].RecommendedUserID != newRecA.ID {
		t.Fatalf("rows not ordered by descending score: %+v", stored)
	}
	for _, rec := range stored {
		if rec.RecommendedUserID == oldRec.ID {
			t.Fatalf("old recommendation survived the replace")
		}
	}
}

func TestReplaceForUserWithEmptySetClears(t *testing.T) {
	db := openTestDB(t)
	repo := NewRecommendationRepo(db, testLogger())
	ctx := context.Background()

	source := seedUser(t, db, types.UserStatusApproved)
	rec := seedUser(t, db, types.UserStatusApproved)

	initial := []*types.Recommendation{
		{ID: uuid.New(), UserID: source.ID, RecommendedUserID: rec.ID, Score: 0.5},
	}
	if err := repo.ReplaceForUser(ctx, nil, source.ID, initial); err != nil {
		t.Fatalf("initial replace: %v", err)
	}
	if err := repo.ReplaceForUser(ctx, nil, source.ID, nil); err != nil {
		t.Fatalf("empty replace: %v", err)
	}
	stored, err := repo.ListForUser(ctx, nil, source.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 0 {
		t.Fatalf("got %d rows, want 0", len(stored))
	}
}

func TestReplaceForUserDoesNotTouchOtherUsers(t *testing.T) {
	db := openTestDB(t)
	repo := NewRecommendationRepo(db, testLogger())
	ctx := context.Background()

	userA := seedUser(t, db, types.UserStatusApproved)
	userB := seedUser(t, db, types.UserStatusApproved)
	rec := seedUser(t, db, types.UserStatusApproved)

	forB := []*types.Recommendation{
		{ID: uuid.New(), UserID: userB.ID, RecommendedUserID: rec.ID, Score: 0.6},
	}
	if err := repo.ReplaceForUser(ctx, nil, userB.ID, forB); err != nil {
		t.Fatalf("replace for B: %v", err)
	}
	if err := repo.ReplaceForUser(ctx, nil, userA.ID, nil); err != nil {
		t.Fatalf("replace for A: %v", err)
	}
	stored, err := repo.ListForUser(ctx, nil, userB.ID)
	if err != nil {
		t.Fatalf("list B: %v", err)
	}
	if len(stored) != 1 {
		t.Fatalf("user B's set was disturbed by user A's replace: %+v", stored)
	}
}

func TestUserRepoListApprovedIDs(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepo(db, testLogger())
	ctx := context.Background()

	approvedA := seedUser(t, db, types.UserStatusApproved)
	approvedB := seedUser(t, db, types.UserStatusApproved)
	seedUser(t, db, types.UserStatusPending)
	seedUser(t, db, types.UserStatusRejected)

	ids, err := repo.ListApprovedIDs(ctx, nil)
	if err != nil {
		t.Fatalf("ListApprovedIDs: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2", len(ids))
	}
	found := map[uuid.UUID]bool{}
	for _, id := range ids {
		found[id] = true
	}
	if !found[approvedA.ID] || !found[approvedB.ID] {
		t.Fatalf("approved ids missing: %v", ids)
	}
}

func TestPostRepoAuthoredCategories(t *testing.T) {
	db := openTestDB(t)
	repo := NewPostRepo(db, testLogger())
	ctx := context.Background()

	author := seedUser(t, db, types.UserStatusApproved)
	other := seedUser(t, db, types.UserStatusApproved)

	posts := []*types.Post{
		{ID: uuid.New(), AuthorID: author.ID, Title: "a", Category: types.PostCategoryProject, Status: types.PostStatusOpen},
		{ID: uuid.New(), AuthorID: author.ID, Title: "b", Category: types.PostCategoryProject, Status: types.PostStatusOpen},
		{ID: uuid.New(), AuthorID: author.ID, Title: "c", Category: types.PostCategoryStudy, Status: types.PostStatusOpen},
		{ID: uuid.New(), AuthorID: other.ID, Title: "d", Category: types.PostCategoryClub, Status: types.PostStatusOpen},
	}
	if _, err := repo.Create(ctx, nil, posts); err != nil {
		t.Fatalf("create posts: %v", err)
	}

	categories, err := repo.AuthoredCategories(ctx, nil, author.ID)
	if err != nil {
		t.Fatalf("AuthoredCategories: %v", err)
	}
	if len(categories) != 2 {
		t.Fatalf("got %v, want PROJECT and STUDY exactly once each", categories)
	}

	empty, err := repo.AuthoredCategories(ctx, nil, uuid.New())
	if err != nil {
		t.Fatalf("AuthoredCategories for stranger: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("got %v, want empty set for a user with no posts", empty)
	}
}
