package enumerate

import (
	"fmt"
	"sort"
	"time"

	"github.com/gilby125/go-home-router/parse"
	"github.com/gilby125/go-home-router/segment"
)

var bothModes = []segment.Mode{segment.Flight, segment.Train}

var twoLegCombos = [][2]segment.Mode{
	{segment.Flight, segment.Flight},
	{segment.Flight, segment.Train},
	{segment.Train, segment.Flight},
	{segment.Train, segment.Train},
}

// threeLegCombos is the full 2³ cross product of the two modes.
var threeLegCombos = func() [][3]segment.Mode {
	var combos [][3]segment.Mode
	for _, m1 := range bothModes {
		for _, m2 := range bothModes {
			for _, m3 := range bothModes {
				combos = append(combos, [3]segment.Mode{m1, m2, m3})
			}
		}
	}
	return combos
}()

// threeLegCandidateCap bounds the per-pool candidates considered in
// three-leg enumeration to avoid combinatorial explosion (spec.md §4.8).
const threeLegCandidateCap = 3

// CalculateAllRoutes enumerates direct, two-leg, and three-leg plans,
// checks feasibility, prices accommodation, and returns every feasible
// plan sorted by (price, duration).
func CalculateAllRoutes(parsed map[string][]parse.Segment, origin, destination string, hubs []string, baseDate time.Time, cfg Config) []Plan {
	var all []Plan

	all = append(all, calculateDirectRoutes(parsed, origin, destination)...)

	for _, minTransferHours := range []int{2, 3} {
		all = append(all, calculateTwoLegRoutes(parsed, origin, destination, hubs, baseDate, minTransferHours, cfg)...)
		all = append(all, calculateThreeLegRoutes(parsed, origin, destination, hubs, baseDate, minTransferHours, cfg)...)
	}

	var feasible []Plan
	for _, p := range all {
		if p.Feasible {
			feasible = append(feasible, p)
		}
	}
	sort.SliceStable(feasible, func(i, j int) bool {
		if feasible[i].TotalPrice != feasible[j].TotalPrice {
			return feasible[i].TotalPrice < feasible[j].TotalPrice
		}
		return feasible[i].TotalDurationMinutes < feasible[j].TotalDurationMinutes
	})
	return feasible
}

func calculateDirectRoutes(parsed map[string][]parse.Segment, origin, destination string) []Plan {
	var routes []Plan
	for _, mode := range bothModes {
		for _, seg := range parsed[segKey(origin, destination, mode)] {
			if seg.Price <= 0 {
				continue
			}
			routes = append(routes, Plan{
				Segments:             []parse.Segment{seg},
				MinTransferHours:     0,
				TotalPrice:           seg.Price,
				TotalDurationMinutes: seg.DurationMinutes,
				RouteType:            fmt.Sprintf("%s_direct", mode),
				Feasible:             true,
			})
		}
	}
	return routes
}

func calculateTwoLegRoutes(parsed map[string][]parse.Segment, origin, destination string, hubs []string, baseDate time.Time, minTransferHours int, cfg Config) []Plan {
	var routes []Plan
	for _, hub := range hubs {
		for _, combo := range twoLegCombos {
			segments1 := parsed[segKey(origin, hub, combo[0])]
			segments2 := parsed[segKey(hub, destination, combo[1])]

			for _, seg1 := range segments1 {
				if seg1.Price <= 0 {
					continue
				}
				for _, seg2 := range segments2 {
					if seg2.Price <= 0 {
						continue
					}

					ok, wait, reason := checkTransferFeasibility(seg1, seg2, baseDate, minTransferHours)

					accommodation := 0
					if ok && cfg.AccommodationEnabled {
						accommodation = calculateAccommodationFee(seg1, baseDate, wait, cfg)
					}

					routes = append(routes, Plan{
						Segments:             []parse.Segment{seg1, seg2},
						TransferCities:       []string{hub},
						MinTransferHours:     minTransferHours,
						TotalPrice:           seg1.Price + seg2.Price + accommodation,
						TotalDurationMinutes: seg1.DurationMinutes + wait + seg2.DurationMinutes,
						AccommodationFee:     accommodation,
						TransferWaitMinutes:  []int{wait},
						RouteType:            fmt.Sprintf("%s_%s", combo[0], combo[1]),
						Feasible:             ok,
						InfeasibleReason:     reason,
					})
				}
			}
		}
	}
	return routes
}

func calculateThreeLegRoutes(parsed map[string][]parse.Segment, origin, destination string, hubs []string, baseDate time.Time, minTransferHours int, cfg Config) []Plan {
	var routes []Plan
	if len(hubs) < 2 {
		return routes
	}

	for _, hub1 := range hubs {
		for _, hub2 := range hubs {
			if hub1 == hub2 {
				continue
			}

			for _, combo := range threeLegCombos {
				segments1 := capSegments(parsed[segKey(origin, hub1, combo[0])])
				segments2 := capSegments(parsed[segKey(hub1, hub2, combo[1])])
				segments3 := capSegments(parsed[segKey(hub2, destination, combo[2])])

				for _, seg1 := range segments1 {
					if seg1.Price <= 0 {
						continue
					}
					for _, seg2 := range segments2 {
						if seg2.Price <= 0 {
							continue
						}

						ok1, wait1, reason1 := checkTransferFeasibility(seg1, seg2, baseDate, minTransferHours)
						if !ok1 {
							continue // short-circuit: the first transfer already fails
						}

						seg2Date := nextBaseDate(seg1, baseDate, wait1)

						for _, seg3 := range segments3 {
							if seg3.Price <= 0 {
								continue
							}

							ok2, wait2, reason2 := checkTransferFeasibility(seg2, seg3, seg2Date, minTransferHours)
							feasible := ok1 && ok2
							reason := reason1
							if reason == "" {
								reason = reason2
							}

							accommodation := 0
							if feasible && cfg.AccommodationEnabled {
								accommodation = calculateAccommodationFee(seg1, baseDate, wait1, cfg) +
									calculateAccommodationFee(seg2, seg2Date, wait2, cfg)
							}

							routes = append(routes, Plan{
								Segments:             []parse.Segment{seg1, seg2, seg3},
								TransferCities:       []string{hub1, hub2},
								MinTransferHours:     minTransferHours,
								TotalPrice:           seg1.Price + seg2.Price + seg3.Price + accommodation,
								TotalDurationMinutes: seg1.DurationMinutes + wait1 + seg2.DurationMinutes + wait2 + seg3.DurationMinutes,
								AccommodationFee:     accommodation,
								TransferWaitMinutes:  []int{wait1, wait2},
								RouteType:            fmt.Sprintf("%s_%s_%s", combo[0], combo[1], combo[2]),
								Feasible:             feasible,
								InfeasibleReason:     reason,
							})
						}
					}
				}
			}
		}
	}
	return routes
}

func capSegments(segs []parse.Segment) []parse.Segment {
	if len(segs) > threeLegCandidateCap {
		return segs[:threeLegCandidateCap]
	}
	return segs
}
