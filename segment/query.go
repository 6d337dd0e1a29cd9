// Package segment holds the SegmentQuery/SegmentResult wire types shared
// across the scheduler, parser, and engine, and the C5 planner that
// expands an origin/destination/hub list into the queries a run needs.
package segment

import (
	"fmt"
	"time"

	"github.com/anyascii/go"

	"github.com/gilby125/go-home-router/hub"
)

// Mode is one of the two transport modes a segment query can target.
type Mode string

const (
	Flight Mode = "flight"
	Train  Mode = "train"
)

// Filter mirrors route.Filter so this package doesn't need to import
// route for the one enum value it needs.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterFlight Filter = "flight"
	FilterTrain  Filter = "train"
)

// Query is one (fromCity, toCity, mode) leg to ask a provider about.
// SegmentID encodes provenance: direct_<mode>, leg1_<hub>_<mode>,
// leg2_<hub>_<mode>.
type Query struct {
	SegmentID string
	FromCity  string
	ToCity    string
	Date      time.Time
	Mode      Mode
}

// Result is the outcome of executing one Query against a provider.
type Result struct {
	SegmentID      string
	FromCity       string
	ToCity         string
	Mode           Mode
	Success        bool
	RawPayload     string
	ErrorMsg       string
	ElapsedSeconds float64
}

// SlugID transliterates a (possibly Chinese) city name into an
// ASCII-safe slug for log correlation and HTTP query params. The
// segmentId used for plan correlation is never touched by this — only
// derived log fields are.
func SlugID(city string) string {
	return anyascii.Transliterate(city)
}

// modeAllowed implements spec.md §4.5 step 1: flight is allowed unless
// filter is train-only; train is allowed only if filter isn't
// flight-only AND neither city is international.
func modeAllowed(mode Mode, from, to string, filter Filter) bool {
	switch mode {
	case Flight:
		return filter != FilterTrain
	case Train:
		if filter == FilterFlight {
			return false
		}
		return !hub.IsInternationalCity(from) && !hub.IsInternationalCity(to)
	default:
		return false
	}
}

func allowedModes(from, to string, filter Filter) []Mode {
	var modes []Mode
	for _, m := range []Mode{Flight, Train} {
		if modeAllowed(m, from, to, filter) {
			modes = append(modes, m)
		}
	}
	return modes
}

// BuildQueries implements spec.md §4.5: direct queries (if
// includeDirect) plus leg1/leg2 queries for every hub in hubs (excluding
// origin/destination, already guaranteed by route.Classify).
func BuildQueries(origin, destination string, date time.Time, hubs []string, includeDirect bool, filter Filter) []Query {
	var queries []Query

	if includeDirect {
		for _, mode := range allowedModes(origin, destination, filter) {
			queries = append(queries, Query{
				SegmentID: fmt.Sprintf("direct_%s", mode),
				FromCity:  origin,
				ToCity:    destination,
				Date:      date,
				Mode:      mode,
			})
		}
	}

	for _, h := range hubs {
		if h == origin || h == destination {
			continue
		}
		for _, mode := range allowedModes(origin, h, filter) {
			queries = append(queries, Query{
				SegmentID: fmt.Sprintf("leg1_%s_%s", h, mode),
				FromCity:  origin,
				ToCity:    h,
				Date:      date,
				Mode:      mode,
			})
		}
		for _, mode := range allowedModes(h, destination, filter) {
			queries = append(queries, Query{
				SegmentID: fmt.Sprintf("leg2_%s_%s", h, mode),
				FromCity:  h,
				ToCity:    destination,
				Date:      date,
				Mode:      mode,
			})
		}
	}

	return queries
}
