// Package scoring turns extracted recommendation data into ranked
// suggestions, purchase recommendations and commander standings.
package scoring

// Origin says which signal produced a candidate.
type Origin int

const (
	// OriginEDHREC candidates come from the commander's average or budget
	// deck.
	OriginEDHREC Origin = iota
	// OriginSynergy candidates are known only through card-to-card synergy.
	OriginSynergy
)

func (o Origin) String() string {
	if o == OriginSynergy {
		return "Synergy"
	}
	return "EDHREC"
}

const (
	synergyWeight = 10
	synergyCap    = 50
	budgetBonus   = 10
)

// Candidate holds the signals a score is computed from.
type Candidate struct {
	InclusionFraction float64
	SynergyTotal      float64
	Budget            bool
	Origin            Origin
}

// Score combines a candidate's signals. EDHREC candidates score
// inclusion*100 + min(synergy*10, 50) + 10 when budget; synergy-only
// candidates score min(synergy*10, 50).
func Score(c Candidate) float64 {
	synergy := CappedSynergy(c.SynergyTotal)
	if c.Origin == OriginSynergy {
		return synergy
	}

	score := c.InclusionFraction*100 + synergy
	if c.Budget {
		score += budgetBonus
	}
	return score
}

// CappedSynergy scales a synergy total into score points.
func CappedSynergy(total float64) float64 {
	return min(total*synergyWeight, synergyCap)
}
