package domain

import "fmt"

// Candidate is an idle piece of equipment offered to a SelectionStrategy.
type Candidate struct {
	ID       string
	Position Position
}

// SelectionStrategy picks one candidate for a role.
// anchor is where the equipment is needed.
type SelectionStrategy interface {
	Choose(candidates []Candidate, anchor Position) (Candidate, bool)
}

// Strategy names accepted in configuration.
const (
	StrategyFirstFit = "first_fit"
	StrategyNearest  = "nearest"
)

// AllStrategies returns the accepted strategy names.
func AllStrategies() []string {
	return []string{StrategyFirstFit, StrategyNearest}
}

// FirstFit picks the first candidate in registry order.
type FirstFit struct{}

// Choose returns the first candidate.
func (FirstFit) Choose(candidates []Candidate, _ Position) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	return candidates[0], true
}

// Nearest picks the candidate closest to the anchor, earliest on ties.
type Nearest struct{}

// Choose returns the candidate nearest to anchor.
func (Nearest) Choose(candidates []Candidate, anchor Position) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	best := candidates[0]
	bestDist := squaredDistance(best.Position, anchor)
	for _, c := range candidates[1:] {
		if d := squaredDistance(c.Position, anchor); d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, true
}

// NewStrategy returns the strategy registered under name.
// An empty name selects first fit.
func NewStrategy(name string) (SelectionStrategy, error) {
	switch name {
	case "", StrategyFirstFit:
		return FirstFit{}, nil
	case StrategyNearest:
		return Nearest{}, nil
	default:
		return nil, fmt.Errorf("%q: %w", name, ErrUnknownStrategy)
	}
}
