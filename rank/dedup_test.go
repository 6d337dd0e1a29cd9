package rank

import (
	"testing"

	"github.com/gilby125/go-home-router/enumerate"
	"github.com/gilby125/go-home-router/parse"
)

func TestDedupKeepsFirstOccurrenceOfDuplicateItinerary(t *testing.T) {
	leg := func() []parse.Segment {
		return []parse.Segment{
			{Mode: parse.Flight, Number: "CA1", DepartureTime: "08:00"},
			{Mode: parse.Flight, Number: "CA2", DepartureTime: "14:00"},
		}
	}

	cheaper := enumerate.Plan{Segments: leg(), TotalPrice: 900, MinTransferHours: 2}
	pricier := enumerate.Plan{Segments: leg(), TotalPrice: 900, MinTransferHours: 3}

	out := Dedup([]enumerate.Plan{cheaper, pricier})
	if len(out) != 1 {
		t.Fatalf("expected duplicates collapsed to 1, got %d", len(out))
	}
	if out[0].MinTransferHours != 2 {
		t.Fatalf("expected the first occurrence kept, got MinTransferHours=%d", out[0].MinTransferHours)
	}
}

func TestDedupKeepsDistinctItineraries(t *testing.T) {
	plans := []enumerate.Plan{
		{Segments: []parse.Segment{{Mode: parse.Flight, Number: "CA1", DepartureTime: "08:00"}}},
		{Segments: []parse.Segment{{Mode: parse.Train, Number: "G1", DepartureTime: "08:00"}}},
	}
	out := Dedup(plans)
	if len(out) != 2 {
		t.Fatalf("expected 2 distinct plans preserved, got %d", len(out))
	}
}
