package segment

import (
	"testing"
	"time"
)

var testDate = time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

func TestBuildQueriesDirectAndLegs(t *testing.T) {
	queries := BuildQueries("北京", "上海", testDate, []string{"南京"}, true, FilterAll)

	var ids []string
	for _, q := range queries {
		ids = append(ids, q.SegmentID)
	}

	want := map[string]bool{
		"direct_flight":     false,
		"direct_train":      false,
		"leg1_南京_flight": false,
		"leg1_南京_train":  false,
		"leg2_南京_flight": false,
		"leg2_南京_train":  false,
	}
	for _, id := range ids {
		if _, ok := want[id]; !ok {
			t.Fatalf("unexpected segmentId %s", id)
		}
		want[id] = true
	}
	for id, seen := range want {
		if !seen {
			t.Errorf("expected segmentId %s not produced", id)
		}
	}
}

func TestBuildQueriesExcludesOriginDestinationFromHubs(t *testing.T) {
	queries := BuildQueries("北京", "上海", testDate, []string{"北京", "上海"}, true, FilterAll)
	for _, q := range queries {
		if q.SegmentID == "leg1_北京_flight" || q.SegmentID == "leg2_上海_flight" {
			t.Fatalf("hub list must exclude origin/destination, got %s", q.SegmentID)
		}
	}
}

func TestBuildQueriesFlightOnlyFilterDropsTrain(t *testing.T) {
	queries := BuildQueries("北京", "上海", testDate, nil, true, FilterFlight)
	for _, q := range queries {
		if q.Mode == Train {
			t.Fatalf("expected no train queries under FilterFlight, got %v", q)
		}
	}
}

func TestBuildQueriesTrainBlockedForInternationalCity(t *testing.T) {
	queries := BuildQueries("北京", "曼谷", testDate, nil, true, FilterAll)
	for _, q := range queries {
		if q.Mode == Train {
			t.Fatalf("train must be unavailable to an international city, got %v", q)
		}
	}
	if len(queries) == 0 {
		t.Fatal("expected at least the direct flight query")
	}
}

func TestBuildQueriesNoDirectWhenNotIncluded(t *testing.T) {
	queries := BuildQueries("北京", "上海", testDate, []string{"南京"}, false, FilterAll)
	for _, q := range queries {
		if q.SegmentID == "direct_flight" || q.SegmentID == "direct_train" {
			t.Fatal("includeDirect=false must not produce direct_* queries")
		}
	}
}

func TestSlugIDTransliteratesChineseCity(t *testing.T) {
	slug := SlugID("北京")
	if slug == "" || slug == "北京" {
		t.Fatalf("expected a transliterated ASCII slug, got %q", slug)
	}
}
