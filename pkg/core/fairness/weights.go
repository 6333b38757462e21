package fairness

import "fmt"

// Strategy names accepted in config
const (
	StrategyInverse = "inverse"
	StrategyUniform = "uniform"
)

// WeightStrategy turns a worker's recent deferral count into an eligibility
// weight. Weights must be positive and must not increase with the count.
type WeightStrategy interface {
	Name() string
	Weight(recentDeferrals int) float64
}

// InverseWeight is the default strategy: 1 / (1 + recentDeferrals)
type InverseWeight struct{}

func (InverseWeight) Name() string { return StrategyInverse }

func (InverseWeight) Weight(recentDeferrals int) float64 {
	return 1 / (1 + float64(max(recentDeferrals, 0)))
}

// UniformWeight gives every worker the same chance
type UniformWeight struct{}

func (UniformWeight) Name() string { return StrategyUniform }

func (UniformWeight) Weight(int) float64 { return 1 }

// StrategyByName resolves a config value to a strategy. Empty means the default.
func StrategyByName(name string) (WeightStrategy, error) {
	switch name {
	case "", StrategyInverse:
		return InverseWeight{}, nil
	case StrategyUniform:
		return UniformWeight{}, nil
	default:
		return nil, fmt.Errorf("unknown deferral weight strategy %q", name)
	}
}
