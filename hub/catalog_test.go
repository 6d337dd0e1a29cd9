package hub

import "testing"

func TestByCityKnownHub(t *testing.T) {
	h, ok := ByCity("上海")
	if !ok {
		t.Fatal("expected 上海 in catalog")
	}
	if h.Level != Level1 {
		t.Errorf("上海 level = %v, want Level1", h.Level)
	}
	if !h.HasType(AirRail) {
		t.Error("上海 should support air-rail")
	}
	if h.DualAirport == nil || h.DualAirport.CrossAirportMinutes != 90 {
		t.Error("上海 should carry PVG/SHA dual-airport info with 90min cross-airport time")
	}
}

func TestByCityUnknown(t *testing.T) {
	if _, ok := ByCity("不存在的城市"); ok {
		t.Fatal("unknown city must not resolve to a hub")
	}
}

func TestByModeFiltersAndOrders(t *testing.T) {
	hubs := ByMode(Railway, 0)
	if len(hubs) == 0 {
		t.Fatal("expected at least one railway hub")
	}
	for i := 1; i < len(hubs); i++ {
		if hubs[i-1].Level > hubs[i].Level {
			t.Fatalf("hubs not ordered by level: %v before %v", hubs[i-1].Level, hubs[i].Level)
		}
	}
	for _, h := range hubs {
		if !h.HasType(Railway) {
			t.Errorf("%s returned by ByMode(Railway) but lacks Railway type", h.City)
		}
	}
}

func TestByModeLevelFilter(t *testing.T) {
	hubs := ByMode(Aviation, Level2)
	for _, h := range hubs {
		if h.Level > Level2 {
			t.Errorf("%s has level %v, exceeds requested filter Level2", h.City, h.Level)
		}
	}
}

func TestAirRailHubsTierFilter(t *testing.T) {
	all := AirRailHubs(0)
	if len(all) == 0 {
		t.Fatal("expected air-rail hubs in catalog")
	}
	tier1 := AirRailHubs(Tier1)
	for _, h := range tier1 {
		if h.AirRailTier != Tier1 {
			t.Errorf("%s returned by AirRailHubs(Tier1) with tier %v", h.City, h.AirRailTier)
		}
	}
}

func TestDomesticGatewaysExcludesInternational(t *testing.T) {
	for _, city := range DomesticGateways() {
		h, ok := ByCity(city)
		if !ok {
			t.Fatalf("gateway %s missing from catalog", city)
		}
		if !IsDomesticRegion(h.Region) {
			t.Errorf("gateway %s has non-domestic region %v", city, h.Region)
		}
	}
}

func TestSortOrdersByLevelThenTypeCountThenTier(t *testing.T) {
	hubs := []TransferHub{
		{City: "a", Level: Level2, HubTypes: types(Aviation)},
		{City: "b", Level: Level1, HubTypes: types(Aviation)},
		{City: "c", Level: Level1, HubTypes: types(Aviation, Railway)},
	}
	Sort(hubs)
	if hubs[0].City != "c" || hubs[1].City != "b" || hubs[2].City != "a" {
		t.Fatalf("unexpected order: %v, %v, %v", hubs[0].City, hubs[1].City, hubs[2].City)
	}
}

func TestMCTConstants(t *testing.T) {
	if MCT.Tier1Min != 60 || MCT.Tier1Max != 90 {
		t.Error("tier-1 MCT should be 60-90 minutes")
	}
	if MCT.Tier2 != 120 {
		t.Error("tier-2 MCT should be 120 minutes")
	}
	if MCT.Tier3 != 150 {
		t.Error("tier-3 MCT should be 150 minutes")
	}
	if MCT.CrossAirport != 240 {
		t.Error("cross-airport MCT should be 240 minutes")
	}
}
