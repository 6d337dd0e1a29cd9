package rank

import (
	"strings"

	"github.com/gilby125/go-home-router/enumerate"
)

// Dedup collapses plans that share the same ordered sequence of
// underlying legs, keeping the first occurrence (plans arrive already
// sorted by price/duration, so the first is the best-ranked copy).
// enumerate.CalculateAllRoutes itself never dedups — both the
// minTransferHours=2 and =3 variants of the same itinerary are kept
// side by side when both are feasible — so this is opt-in for callers
// who'd rather not show the duplication.
func Dedup(plans []enumerate.Plan) []enumerate.Plan {
	seen := make(map[string]bool, len(plans))
	out := make([]enumerate.Plan, 0, len(plans))

	for _, p := range plans {
		key := planKey(p)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, p)
	}
	return out
}

// planKey identifies a plan by its legs' (mode, number, departureTime)
// tuples — a parsed segment carries no persistent id of its own.
func planKey(p enumerate.Plan) string {
	var b strings.Builder
	for i, seg := range p.Segments {
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(string(seg.Mode))
		b.WriteByte(':')
		b.WriteString(seg.Number)
		b.WriteByte(':')
		b.WriteString(seg.DepartureTime)
	}
	return b.String()
}
