// Package enumerate is the C8 route enumerator and feasibility checker:
// it combines parsed flight/train segments into direct, two-leg, and
// three-leg route plans, checks transfer feasibility between
// consecutive legs, and prices in an accommodation fee where a transfer
// wait crosses an overnight window.
package enumerate

import (
	"fmt"

	"github.com/gilby125/go-home-router/parse"
	"github.com/gilby125/go-home-router/segment"
)

// Plan is one complete, priced itinerary.
type Plan struct {
	Segments         []parse.Segment
	TransferCities   []string
	MinTransferHours int

	TotalPrice           int
	TotalDurationMinutes int
	AccommodationFee     int
	TransferWaitMinutes  []int
	RouteType            string // e.g. "flight_direct", "flight_train", "train_flight_train"
	Feasible             bool
	InfeasibleReason     string
}

// Config tunes accommodation pricing (spec.md §4.8).
type Config struct {
	AccommodationEnabled        bool
	AccommodationThresholdHours int
}

// segKey mirrors parse.Flights/Trains' natural grouping:
// "{fromCity}_{toCity}_{mode}".
func segKey(from, to string, mode segment.Mode) string {
	return fmt.Sprintf("%s_%s_%s", from, to, mode)
}

// ParseSegments parses every completed, successful segment.Result into
// its structured parse.Segments and groups them by (fromCity, toCity,
// mode). Unlike the original segment_id-string reconstruction this
// engine's segment.Result already carries FromCity/ToCity explicitly,
// so no city-name recovery from the id is needed.
func ParseSegments(results map[string]segment.Result) map[string][]parse.Segment {
	grouped := make(map[string][]parse.Segment)
	for _, res := range results {
		if !res.Success || res.RawPayload == "" {
			continue
		}
		var segs []parse.Segment
		if res.Mode == segment.Train {
			segs = parse.Trains(res.RawPayload, res.FromCity, res.ToCity)
		} else {
			segs = parse.Flights(res.RawPayload, res.FromCity, res.ToCity)
		}
		if len(segs) == 0 {
			continue
		}
		key := segKey(res.FromCity, res.ToCity, res.Mode)
		grouped[key] = append(grouped[key], segs...)
	}
	return grouped
}
