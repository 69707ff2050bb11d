package recommend

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestRegenerateForUserTopNCap(t *testing.T) {
	store := newFakeStore()
	target := store.addUser("CS", "", true, nil, nil)
	for i := 0; i < 25; i++ {
		// Same department keeps every candidate above the threshold.
		store.addUser("CS", "", true, nil, nil)
	}

	engine := newTestEngine(store, DefaultConfig())
	result, err := engine.RegenerateForUser(context.Background(), target)
	if err != nil {
		t.Fatalf("RegenerateForUser: %v", err)
	}
	if len(result) != 20 {
		t.Fatalf("got %d recommendations, want the top-20 cap", len(result))
	}
	stored := store.storedFor(target)
	if !reflect.DeepEqual(stored, result) {
		t.Fatalf("stored set differs from returned set")
	}
	for i := 0; i < len(stored)-1; i++ {
		if stored[i].Score < stored[i+1].Score {
			t.Fatalf("stored set not ordered by descending score: %v", stored)
		}
	}
}

func TestRegenerateForUserIdempotent(t *testing.T) {
	store := newFakeStore()
	shared := ids(3)
	target := store.addUser("CS", "backend developer", true, shared, []string{"PROJECT"})
	store.addUser("CS", "backend engineer", true, shared[:2], []string{"PROJECT", "STUDY"})
	store.addUser("EE", "임베디드 개발자", true, shared[:1], []string{"STUDY"})
	store.addUser("CS", "", true, nil, nil)

	engine := newTestEngine(store, DefaultConfig())
	first, err := engine.RegenerateForUser(context.Background(), target)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := engine.RegenerateForUser(context.Background(), target)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("regeneration not idempotent:\nfirst:  %v\nsecond: %v", first, second)
	}
	if !reflect.DeepEqual(store.storedFor(target), second) {
		t.Fatalf("stored set differs from second result")
	}
}

func TestRegenerateForUserReplacesPriorSet(t *testing.T) {
	store := newFakeStore()
	target := store.addUser("CS", "", true, nil, nil)
	other := store.addUser("CS", "", true, nil, nil)

	stale := []ScoredUser{{UserID: uuid.New(), Score: 0.9}, {UserID: uuid.New(), Score: 0.8}}
	store.recs[target] = stale

	engine := newTestEngine(store, DefaultConfig())
	if _, err := engine.RegenerateForUser(context.Background(), target); err != nil {
		t.Fatalf("RegenerateForUser: %v", err)
	}
	stored := store.storedFor(target)
	if len(stored) != 1 || stored[0].UserID != other {
		t.Fatalf("prior set not fully replaced: %v", stored)
	}
}

func TestRegenerateForUserIneligibleTargetIsNoop(t *testing.T) {
	store := newFakeStore()
	pending := store.addUser("CS", "", false, nil, nil)
	store.addUser("CS", "", true, nil, nil)

	prior := []ScoredUser{{UserID: uuid.New(), Score: 0.5}}
	store.recs[pending] = prior

	engine := newTestEngine(store, DefaultConfig())

	result, err := engine.RegenerateForUser(context.Background(), pending)
	if err != nil {
		t.Fatalf("ineligible target must not be an error: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("ineligible target must yield an empty result, got %v", result)
	}
	if !reflect.DeepEqual(store.storedFor(pending), prior) {
		t.Fatalf("no-op must leave the stored set untouched")
	}

	result, err = engine.RegenerateForUser(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("nonexistent target must not be an error: %v", err)
	}
	if len(result) != 0 {
		t.Fatalf("nonexistent target must yield an empty result, got %v", result)
	}
}

func TestRegenerateForUserPersistenceFailureKeepsPriorSet(t *testing.T) {
	store := newFakeStore()
	target := store.addUser("CS", "", true, nil, nil)
	store.addUser("CS", "", true, nil, nil)

	prior := []ScoredUser{{UserID: uuid.New(), Score: 0.7}}
	store.recs[target] = prior
	store.failReplaceFor[target] = true

	engine := newTestEngine(store, DefaultConfig())
	if _, err := engine.RegenerateForUser(context.Background(), target); err == nil {
		t.Fatalf("persistence failure must surface to the caller")
	}
	if !reflect.DeepEqual(store.storedFor(target), prior) {
		t.Fatalf("failed replace must leave the prior set authoritative")
	}
}

func TestRegenerateAllIsolatesFailures(t *testing.T) {
	store := newFakeStore()
	broken := store.addUser("CS", "", true, nil, nil)
	store.addUser("CS", "", true, nil, nil)
	store.addUser("CS", "", true, nil, nil)
	store.failReplaceFor[broken] = true

	engine := newTestEngine(store, DefaultConfig())
	summary, err := engine.RegenerateAll(context.Background())
	if err != nil {
		t.Fatalf("RegenerateAll: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("summary.Failed=%d, want 1", summary.Failed)
	}
	if summary.Processed != 2 {
		t.Fatalf("summary.Processed=%d, want 2", summary.Processed)
	}
	for id := range store.users {
		if id == broken {
			continue
		}
		if len(store.storedFor(id)) == 0 {
			t.Fatalf("user %s not processed despite another user's failure", id)
		}
	}
}

func TestRegenerateAllConcurrentSweep(t *testing.T) {
	store := newFakeStore()
	for i := 0; i < 12; i++ {
		store.addUser("CS", "", true, nil, nil)
	}

	cfg := DefaultConfig()
	cfg.SweepConcurrency = 8
	engine := newTestEngine(store, cfg)
	summary, err := engine.RegenerateAll(context.Background())
	if err != nil {
		t.Fatalf("RegenerateAll: %v", err)
	}
	if summary.Processed != 12 || summary.Failed != 0 {
		t.Fatalf("summary=%+v, want 12 processed", summary)
	}
	for id := range store.users {
		if len(store.storedFor(id)) != 11 {
			t.Fatalf("user %s stored %d recommendations, want 11", id, len(store.storedFor(id)))
		}
	}
}

func TestKeyedMutexSerializesSameKey(t *testing.T) {
	var km keyedMutex
	key := uuid.New()

	unlock := km.lock(key)
	acquired := make(chan struct{})
	go func() {
		u := km.lock(key)
		close(acquired)
		u()
	}()

	time.Sleep(20 * time.Millisecond)
	select {
	case <-acquired:
		t.Fatalf("second lock acquired while first still held")
	default:
	}
	unlock()
	<-acquired

	// Different keys never contend.
	u1 := km.lock(uuid.New())
	u2 := km.lock(uuid.New())
	u1()
	u2()
}
