package ledger

import (
	"math/rand/v2"

	"github.com/thecleanest/thecleanest/pkg/db"
)

// Candidate is an eligible defer target with its deferral weight
type Candidate struct {
	Worker db.Worker
	Weight float64
}

// Picker chooses the proposed replacement from a non-empty candidate list and
// returns its index
type Picker interface {
	Pick(candidates []Candidate) int
}

// WeightedPicker picks with probability proportional to Candidate.Weight
type WeightedPicker struct {
	rng *rand.Rand
}

// NewWeightedPicker creates a WeightedPicker. The same seed gives the same picks.
func NewWeightedPicker(seed uint64) *WeightedPicker {
	return &WeightedPicker{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (p *WeightedPicker) Pick(candidates []Candidate) int {
	total := 0.0
	for _, c := range candidates {
		total += max(c.Weight, 0)
	}
	if total <= 0 {
		return p.rng.IntN(len(candidates))
	}

	r := p.rng.Float64() * total
	for i, c := range candidates {
		r -= max(c.Weight, 0)
		if r < 0 {
			return i
		}
	}
	return len(candidates) - 1
}
