package question

import "math/rand/v2"

// Picker draws a uniformly distributed index in [0, n). *rand.Rand satisfies it.
type Picker interface {
	IntN(n int) int
}

type globalPicker struct{}

func (globalPicker) IntN(n int) int { return rand.IntN(n) }

// Pick selects one question uniformly at random from candidates, skipping any
// outside category (when set) and any id listed in exclude. It reports false when
// nothing is eligible.
func Pick(candidates []Question, category *int32, exclude []int32, rng Picker) (Question, bool) {
	skip := make(map[int32]struct{}, len(exclude))
	for _, id := range exclude {
		skip[id] = struct{}{}
	}

	eligible := make([]Question, 0, len(candidates))
	for _, q := range candidates {
		if category != nil && q.Category != *category {
			continue
		}
		if _, seen := skip[q.ID]; seen {
			continue
		}
		eligible = append(eligible, q)
	}

	if len(eligible) == 0 {
		return Question{}, false
	}
	return eligible[rng.IntN(len(eligible))], true
}
