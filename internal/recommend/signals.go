package recommend

import "github.com/google/uuid"

// Each signal scores a pair of users in [0,1]. All four are symmetric in
// their arguments and free of side effects.
//
// Overlap-based signals share one empty-set policy: both sides empty is
// neutral (0.5) because there is no data to compare, a one-sided absence is
// 0.0 because there is no shared ground, and otherwise the Jaccard index of
// the two sets decides.

const neutralScore = 0.5

func jaccard[K comparable](a, b map[K]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return neutralScore
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	return float64(intersection) / float64(union)
}

func InterestOverlap(a, b map[uuid.UUID]struct{}) float64 {
	return jaccard(a, b)
}

func DepartmentMatch(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return 0.0
}

func CategoryOverlap(a, b map[string]struct{}) float64 {
	return jaccard(a, b)
}

func BioOverlap(bioA, bioB string) float64 {
	return jaccard(TokenizeBio(bioA), TokenizeBio(bioB))
}

type Weights struct {
	Interest   float64 `yaml:"interest"`
	Department float64 `yaml:"department"`
	Category   float64 `yaml:"category"`
	Bio        float64 `yaml:"bio"`
}

func DefaultWeights() Weights {
	return Weights{
		Interest:   0.4,
		Department: 0.3,
		Category:   0.2,
		Bio:        0.1,
	}
}

type Signals struct {
	Interest   float64
	Department float64
	Category   float64
	Bio        float64
}

// Combine produces the composite score. The clamp only matters if the
// configured weights sum above 1.0.
func Combine(w Weights, s Signals) float64 {
	score := w.Interest*s.Interest +
		w.Department*s.Department +
		w.Category*s.Category +
		w.Bio*s.Bio
	if score > 1.0 {
		return 1.0
	}
	return score
}
