package recommend

import (
	"bytes"
	"context"
	"testing"
)

func TestScoreCandidatesSelfExclusion(t *testing.T) {
	store := newFakeStore()
	target := store.addUser("CS", "", true, nil, nil)
	store.addUser("CS", "", true, nil, nil)
	store.addUser("CS", "", true, nil, nil)

	scorer := NewScorer(testLogger(), store, store, store, DefaultWeights(), 0.1)
	profile, err := store.GetUser(context.Background(), target)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	scored, err := scorer.ScoreCandidates(context.Background(), profile)
	if err != nil {
		t.Fatalf("ScoreCandidates: %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("got %d candidates, want 2", len(scored))
	}
	for _, s := range scored {
		if s.UserID == target {
			t.Fatalf("target appeared in its own candidate list")
		}
	}
}

func TestScoreCandidatesSkipsUnapproved(t *testing.T) {
	store := newFakeStore()
	target := store.addUser("CS", "", true, nil, nil)
	store.addUser("CS", "", false, nil, nil)
	store.addUser("CS", "", true, nil, nil)

	scorer := NewScorer(testLogger(), store, store, store, DefaultWeights(), 0.1)
	profile, _ := store.GetUser(context.Background(), target)
	scored, err := scorer.ScoreCandidates(context.Background(), profile)
	if err != nil {
		t.Fatalf("ScoreCandidates: %v", err)
	}
	if len(scored) != 1 {
		t.Fatalf("got %d candidates, want 1 (pending user must be excluded)", len(scored))
	}
}

func TestScoreCandidatesThresholdIsStrict(t *testing.T) {
	// With bio as the only weighted signal the composite equals the bio
	// Jaccard index, so the threshold boundary can be pinned exactly.
	bioOnly := Weights{Bio: 1.0}

	nineTokens := "alpha bravo charlie delta echo foxtrot golf hotel india"
	eightTokens := "alpha bravo charlie delta echo foxtrot golf hotel"

	cases := []struct {
		name        string
		targetBio   string
		exactBio    string // shares exactly token "alpha" with the target
		wantListed  bool
		description string
	}{
		{
			name:       "jaccard_exactly_point_one_excluded",
			targetBio:  nineTokens,
			exactBio:   "alpha zulu", // |1| / |9+2-1| = 0.1
			wantListed: false,
		},
		{
			name:       "jaccard_just_above_point_one_included",
			targetBio:  eightTokens,
			exactBio:   "alpha zulu", // |1| / |8+2-1| = 0.111...
			wantListed: true,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := newFakeStore()
			// Target and candidate get interests so the interest signal
			// stays 0 instead of going neutral; weights zero it anyway.
			target := store.addUser("CS", tc.targetBio, true, ids(1), nil)
			candidate := store.addUser("EE", tc.exactBio, true, ids(1), nil)

			scorer := NewScorer(testLogger(), store, store, store, bioOnly, 0.1)
			profile, _ := store.GetUser(context.Background(), target)
			scored, err := scorer.ScoreCandidates(context.Background(), profile)
			if err != nil {
				t.Fatalf("ScoreCandidates: %v", err)
			}
			listed := false
			for _, s := range scored {
				if s.UserID == candidate {
					listed = true
				}
			}
			if listed != tc.wantListed {
				t.Fatalf("candidate listed=%v, want %v", listed, tc.wantListed)
			}
		})
	}
}

func TestScoreCandidatesOrdering(t *testing.T) {
	store := newFakeStore()
	sharedInterests := ids(2)
	target := store.addUser("CS", "backend developer", true, sharedInterests, []string{"PROJECT"})

	// Twin scores highest, department-mate next, stranger below threshold.
	twin := store.addUser("CS", "backend engineer", true, sharedInterests, []string{"PROJECT"})
	deptMate := store.addUser("CS", "", true, ids(2), nil)
	store.addUser("EE", "", true, ids(2), nil)

	scorer := NewScorer(testLogger(), store, store, store, DefaultWeights(), 0.1)
	profile, _ := store.GetUser(context.Background(), target)
	scored, err := scorer.ScoreCandidates(context.Background(), profile)
	if err != nil {
		t.Fatalf("ScoreCandidates: %v", err)
	}
	if len(scored) != 2 {
		t.Fatalf("got %d candidates, want 2", len(scored))
	}
	if scored[0].UserID != twin || scored[1].UserID != deptMate {
		t.Fatalf("unexpected order: %v", scored)
	}
	if scored[0].Score <= scored[1].Score {
		t.Fatalf("scores not descending: %v", scored)
	}
}

func TestScoreCandidatesTieBreakByID(t *testing.T) {
	store := newFakeStore()
	target := store.addUser("CS", "", true, ids(1), nil)
	store.addUser("CS", "", true, ids(1), nil)
	store.addUser("CS", "", true, ids(1), nil)
	store.addUser("CS", "", true, ids(1), nil)

	scorer := NewScorer(testLogger(), store, store, store, DefaultWeights(), 0.1)
	profile, _ := store.GetUser(context.Background(), target)
	scored, err := scorer.ScoreCandidates(context.Background(), profile)
	if err != nil {
		t.Fatalf("ScoreCandidates: %v", err)
	}
	if len(scored) != 3 {
		t.Fatalf("got %d candidates, want 3", len(scored))
	}
	for i := 0; i < len(scored)-1; i++ {
		if scored[i].Score != scored[i+1].Score {
			t.Fatalf("expected tied scores, got %v", scored)
		}
		if bytes.Compare(scored[i].UserID[:], scored[i+1].UserID[:]) >= 0 {
			t.Fatalf("tie not broken by ascending id: %v", scored)
		}
	}
}

func TestScoreCandidatesSkipsFailingCandidate(t *testing.T) {
	store := newFakeStore()
	target := store.addUser("CS", "", true, ids(1), nil)
	healthy := store.addUser("CS", "", true, ids(1), nil)
	broken := store.addUser("CS", "", true, ids(1), nil)
	store.failInterestsFor[broken] = true

	scorer := NewScorer(testLogger(), store, store, store, DefaultWeights(), 0.1)
	profile, _ := store.GetUser(context.Background(), target)
	scored, err := scorer.ScoreCandidates(context.Background(), profile)
	if err != nil {
		t.Fatalf("one bad candidate must not abort the run: %v", err)
	}
	if len(scored) != 1 || scored[0].UserID != healthy {
		t.Fatalf("got %v, want only the healthy candidate", scored)
	}
}

func TestScoreCandidatesScenario(t *testing.T) {
	// CS + shared interests + shared category + "backend developer" vs
	// "backend engineer" should land near 0.933.
	store := newFakeStore()
	shared := ids(2)
	u1 := store.addUser("CS", "backend developer", true, shared, []string{"PROJECT"})
	u2 := store.addUser("CS", "backend engineer", true, shared, []string{"PROJECT"})

	scorer := NewScorer(testLogger(), store, store, store, DefaultWeights(), 0.1)

	p1, _ := store.GetUser(context.Background(), u1)
	scored, err := scorer.ScoreCandidates(context.Background(), p1)
	if err != nil {
		t.Fatalf("ScoreCandidates: %v", err)
	}
	if len(scored) != 1 {
		t.Fatalf("got %d candidates, want 1", len(scored))
	}
	want := 0.4 + 0.3 + 0.2 + 0.1/3.0
	if diff := scored[0].Score - want; diff > 1e-12 || diff < -1e-12 {
		t.Fatalf("composite=%v, want %v", scored[0].Score, want)
	}

	// Symmetry: scoring the pair from the other side gives the same value.
	p2, _ := store.GetUser(context.Background(), u2)
	back, err := scorer.ScoreCandidates(context.Background(), p2)
	if err != nil {
		t.Fatalf("ScoreCandidates reverse: %v", err)
	}
	if len(back) != 1 || back[0].Score != scored[0].Score {
		t.Fatalf("composite not symmetric: %v vs %v", back, scored)
	}
}
