package route

import "testing"

func TestClassifyDomestic(t *testing.T) {
	r := Classify("北京", "上海", 0, FilterAll, true)
	if r.RouteType != Domestic {
		t.Fatalf("RouteType = %v, want Domestic", r.RouteType)
	}
	for _, h := range r.Hubs {
		if h == "北京" || h == "上海" {
			t.Errorf("candidate pool must exclude origin/destination, got %s", h)
		}
	}
}

func TestClassifyDomesticToSEAsia(t *testing.T) {
	r := Classify("北京", "曼谷", 0, FilterAll, true)
	if r.RouteType != DomesticToSEAsia {
		t.Fatalf("RouteType = %v, want DomesticToSEAsia", r.RouteType)
	}
	if len(r.Hubs) == 0 {
		t.Fatal("expected a non-empty candidate pool")
	}
}

func TestClassifyWithoutIntlHubsStaysDomesticOnly(t *testing.T) {
	withIntl := Classify("北京", "曼谷", 0, FilterAll, true)
	withoutIntl := Classify("北京", "曼谷", 0, FilterAll, false)
	if len(withoutIntl.Hubs) >= len(withIntl.Hubs) {
		t.Fatalf("useIntlHubs=false should shrink the pool: with=%d without=%d",
			len(withIntl.Hubs), len(withoutIntl.Hubs))
	}
}

func TestClassifyIntlToIntl(t *testing.T) {
	r := Classify("曼谷", "东京", 0, FilterAll, true)
	if r.RouteType != IntlToIntl {
		t.Fatalf("RouteType = %v, want IntlToIntl", r.RouteType)
	}
}

func TestClassifyTruncatesToMaxCount(t *testing.T) {
	r := Classify("北京", "上海", 3, FilterAll, true)
	if len(r.Hubs) > 3 {
		t.Fatalf("got %d hubs, want at most 3", len(r.Hubs))
	}
}

func TestClassifyFilterRestrictsDomesticPool(t *testing.T) {
	r := Classify("北京", "上海", 0, FilterTrain, true)
	if r.RouteType != Domestic {
		t.Fatalf("RouteType = %v, want Domestic", r.RouteType)
	}
}

func TestClassifyDedupesPool(t *testing.T) {
	r := Classify("北京", "上海", 0, FilterAll, true)
	seen := make(map[string]bool)
	for _, h := range r.Hubs {
		if seen[h] {
			t.Fatalf("duplicate hub %s in candidate pool", h)
		}
		seen[h] = true
	}
}

// TestClassifyIntlHubsIsDeterministic guards spec.md §8 property 7: the
// long-haul international pool is built by ranging a region map
// (hub.CitiesByRegion), so it must be sorted before finalize truncates
// it, or repeated calls with identical inputs could settle on different
// hubs.
func TestClassifyIntlHubsIsDeterministic(t *testing.T) {
	first := Classify("北京", "纽约", 3, FilterAll, true)
	for i := 0; i < 20; i++ {
		again := Classify("北京", "纽约", 3, FilterAll, true)
		if len(again.Hubs) != len(first.Hubs) {
			t.Fatalf("run %d: hub count changed, got %v want %v", i, again.Hubs, first.Hubs)
		}
		for j, h := range first.Hubs {
			if again.Hubs[j] != h {
				t.Fatalf("run %d: hub order changed, got %v want %v", i, again.Hubs, first.Hubs)
			}
		}
	}
}
