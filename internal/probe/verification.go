package probe

import (
	"fmt"

	"github.com/okian/surfcast/internal/domain/types"
)

// verifyRanking checks one ranking against the registry size. It returns
// every problem found rather than stopping at the first.
func verifyRanking(r types.Ranking, wantSpots int) []string {
	var problems []string
	if r.RequestID == "" {
		problems = append(problems, "missing request_id")
	}
	if r.Month < 1 || r.Month > 12 {
		problems = append(problems, fmt.Sprintf("month %d out of range", r.Month))
	}
	if len(r.Spots) != wantSpots {
		problems = append(problems, fmt.Sprintf("ranked %d spots, registry has %d", len(r.Spots), wantSpots))
	}

	seen := make(map[string]bool, len(r.Spots))
	for i, sp := range r.Spots {
		if sp.Suitability < 0 || sp.Suitability > 100 {
			problems = append(problems, fmt.Sprintf("spot %s suitability %d outside 0..100", sp.ID, sp.Suitability))
		}
		if i > 0 && sp.Suitability > r.Spots[i-1].Suitability {
			problems = append(problems, fmt.Sprintf("spot %s at position %d outranks spot %s", sp.ID, i, r.Spots[i-1].ID))
		}
		if seen[sp.ID] {
			problems = append(problems, fmt.Sprintf("spot %s ranked twice", sp.ID))
		}
		seen[sp.ID] = true
	}
	return problems
}
