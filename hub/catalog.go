package hub

import (
	"sort"

	"github.com/gilby125/go-home-router/pkg/geo"
)

// MCT holds the minimum-connect-time table used by the feasibility
// checker (spec.md §4.1): per-tier air-rail connect minutes, plus the
// cross-airport and same-station-train constants.
var MCT = struct {
	Tier1Min, Tier1Max int
	Tier2              int
	Tier3              int
	CrossAirport       int
	SameStationMin     int
	SameStationMax     int
}{
	Tier1Min: 60, Tier1Max: 90,
	Tier2:          120,
	Tier3:          150,
	CrossAirport:   240,
	SameStationMin: 30, SameStationMax: 60,
}

// catalog is the immutable, process-global hub table. Built once at
// package init from literal data; never mutated afterward.
var catalog = buildCatalog()

func buildCatalog() map[string]TransferHub {
	entries := []TransferHub{
		// Level 1 — the three highest-tier national hubs.
		{City: "北京", AirportCodes: []string{"PEK", "PKX"}, RailwayStations: []string{"北京南", "北京西", "北京北"},
			HubTypes: types(Aviation, Railway, AirRail), Level: Level1, AirRailTier: Tier2, Region: NorthChina,
			DualAirport: &DualAirportInfo{Airports: []string{"PEK", "PKX"}, CrossAirportMinutes: 120, Penalty: 50},
			lat: 39.9, lon: 116.4},
		{City: "上海", AirportCodes: []string{"PVG", "SHA"}, RailwayStations: []string{"上海虹桥", "上海"},
			HubTypes: types(Aviation, Railway, AirRail), Level: Level1, AirRailTier: Tier1, Region: EastChina,
			DualAirport: &DualAirportInfo{Airports: []string{"PVG", "SHA"}, CrossAirportMinutes: 90, Penalty: 30},
			lat: 31.2, lon: 121.5},
		{City: "广州", AirportCodes: []string{"CAN"}, RailwayStations: []string{"广州南", "广州东"},
			HubTypes: types(Aviation, Railway, AirRail), Level: Level1, AirRailTier: Tier2, Region: SouthChina,
			lat: 23.1, lon: 113.3},

		// Level 2.
		{City: "深圳", AirportCodes: []string{"SZX"}, RailwayStations: []string{"深圳北", "深圳"},
			HubTypes: types(Aviation, Railway, AirRail), Level: Level2, AirRailTier: Tier3, Region: SouthChina, lat: 22.5, lon: 114.0},
		{City: "成都", AirportCodes: []string{"CTU", "TFU"}, RailwayStations: []string{"成都东", "成都南"},
			HubTypes: types(Aviation, Railway, AirRail), Level: Level2, AirRailTier: Tier2, Region: Southwest, lat: 30.6, lon: 104.0},
		{City: "重庆", AirportCodes: []string{"CKG"}, RailwayStations: []string{"重庆北", "重庆西"},
			HubTypes: types(Aviation, Railway, AirRail), Level: Level2, AirRailTier: Tier2, Region: Southwest, lat: 29.4, lon: 106.5},
		{City: "西安", AirportCodes: []string{"XIY"}, RailwayStations: []string{"西安北", "西安"},
			HubTypes: types(Aviation, Railway, AirRail), Level: Level2, AirRailTier: Tier2, Region: Northwest, lat: 34.3, lon: 108.9},
		{City: "武汉", AirportCodes: []string{"WUH"}, RailwayStations: []string{"武汉", "汉口"},
			HubTypes: types(Aviation, Railway, AirRail), Level: Level2, AirRailTier: Tier3, Region: CentralChina, lat: 30.6, lon: 114.3},
		{City: "郑州", AirportCodes: []string{"CGO"}, RailwayStations: []string{"郑州东", "郑州"},
			HubTypes: types(Aviation, Railway, AirRail), Level: Level2, AirRailTier: Tier2, Region: CentralChina, lat: 34.7, lon: 113.6},

		// Level 3.
		{City: "南京", AirportCodes: []string{"NKG"}, RailwayStations: []string{"南京南", "南京"},
			HubTypes: types(Aviation, Railway, AirRail), Level: Level3, AirRailTier: Tier2, Region: EastChina, lat: 32.0, lon: 118.8},
		{City: "杭州", AirportCodes: []string{"HGH"}, RailwayStations: []string{"杭州东", "杭州南"},
			HubTypes: types(Aviation, Railway, AirRail), Level: Level3, AirRailTier: Tier2, Region: EastChina, lat: 30.3, lon: 120.2},
		{City: "长沙", AirportCodes: []string{"CSX"}, RailwayStations: []string{"长沙南", "长沙"},
			HubTypes: types(Aviation, Railway, AirRail), Level: Level3, AirRailTier: Tier3, Region: CentralChina, lat: 28.2, lon: 112.9},
		{City: "昆明", AirportCodes: []string{"KMG"}, RailwayStations: []string{"昆明南", "昆明"},
			HubTypes: types(Aviation, Railway, AirRail), Level: Level3, AirRailTier: Tier3, Region: Southwest, lat: 25.0, lon: 102.7},
		{City: "沈阳", AirportCodes: []string{"SHE"}, RailwayStations: []string{"沈阳北", "沈阳南"},
			HubTypes: types(Aviation, Railway), Level: Level3, Region: Northeast, lat: 41.8, lon: 123.4},
		{City: "哈尔滨", AirportCodes: []string{"HRB"}, RailwayStations: []string{"哈尔滨西", "哈尔滨"},
			HubTypes: types(Aviation, Railway), Level: Level3, Region: Northeast, lat: 45.8, lon: 126.5},

		// Level 4 — remaining provincial-capital-class hubs.
		{City: "天津", AirportCodes: []string{"TSN"}, RailwayStations: []string{"天津", "天津西"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: NorthChina, lat: 39.1, lon: 117.2},
		{City: "石家庄", AirportCodes: []string{"SJW"}, RailwayStations: []string{"石家庄"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: NorthChina, lat: 38.0, lon: 114.5},
		{City: "太原", AirportCodes: []string{"TYN"}, RailwayStations: []string{"太原南"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: NorthChina, lat: 37.9, lon: 112.5},
		{City: "呼和浩特", AirportCodes: []string{"HET"}, RailwayStations: []string{"呼和浩特东"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: NorthChina, lat: 40.8, lon: 111.7},
		{City: "大连", AirportCodes: []string{"DLC"}, RailwayStations: []string{"大连北"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: Northeast, lat: 38.9, lon: 121.6},
		{City: "长春", AirportCodes: []string{"CGQ"}, RailwayStations: []string{"长春西"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: Northeast, lat: 43.9, lon: 125.3},
		{City: "苏州", AirportCodes: []string{}, RailwayStations: []string{"苏州", "苏州北"}, HubTypes: types(Railway), Level: Level4, Region: EastChina, lat: 31.3, lon: 120.6},
		{City: "无锡", AirportCodes: []string{"WUX"}, RailwayStations: []string{"无锡东"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: EastChina, lat: 31.5, lon: 120.3},
		{City: "宁波", AirportCodes: []string{"NGB"}, RailwayStations: []string{"宁波"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: EastChina, lat: 29.9, lon: 121.6},
		{City: "济南", AirportCodes: []string{"TNA"}, RailwayStations: []string{"济南西"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: EastChina, lat: 36.7, lon: 117.0},
		{City: "青岛", AirportCodes: []string{"TAO"}, RailwayStations: []string{"青岛"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: EastChina, lat: 36.1, lon: 120.4},
		{City: "合肥", AirportCodes: []string{"HFE"}, RailwayStations: []string{"合肥南"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: EastChina, lat: 31.8, lon: 117.3},
		{City: "福州", AirportCodes: []string{"FOC"}, RailwayStations: []string{"福州", "福州南"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: EastChina, lat: 26.1, lon: 119.3},
		{City: "厦门", AirportCodes: []string{"XMN"}, RailwayStations: []string{"厦门北"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: EastChina, lat: 24.5, lon: 118.1},
		{City: "南昌", AirportCodes: []string{"KHN"}, RailwayStations: []string{"南昌西"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: EastChina, lat: 28.7, lon: 115.9},
		{City: "珠海", AirportCodes: []string{"ZUH"}, RailwayStations: []string{"珠海"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: SouthChina, lat: 22.3, lon: 113.6},
		{City: "南宁", AirportCodes: []string{"NNG"}, RailwayStations: []string{"南宁东"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: SouthChina, lat: 22.8, lon: 108.3},
		{City: "海口", AirportCodes: []string{"HAK"}, RailwayStations: []string{"海口东"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: SouthChina, lat: 20.0, lon: 110.3},
		{City: "三亚", AirportCodes: []string{"SYX"}, RailwayStations: []string{"三亚"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: SouthChina, lat: 18.3, lon: 109.5},
		{City: "贵阳", AirportCodes: []string{"KWE"}, RailwayStations: []string{"贵阳北"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: Southwest, lat: 26.6, lon: 106.6},
		{City: "拉萨", AirportCodes: []string{"LXA"}, RailwayStations: []string{"拉萨"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: Southwest, lat: 29.7, lon: 91.1},
		{City: "兰州", AirportCodes: []string{"LHW"}, RailwayStations: []string{"兰州西"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: Northwest, lat: 36.1, lon: 103.8},
		{City: "西宁", AirportCodes: []string{"XNN"}, RailwayStations: []string{"西宁"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: Northwest, lat: 36.6, lon: 101.8},
		{City: "银川", AirportCodes: []string{"INC"}, RailwayStations: []string{"银川"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: Northwest, lat: 38.5, lon: 106.2},
		{City: "乌鲁木齐", AirportCodes: []string{"URC"}, RailwayStations: []string{"乌鲁木齐"}, HubTypes: types(Aviation, Railway), Level: Level4, Region: Northwest, lat: 43.8, lon: 87.6},
	}

	m := make(map[string]TransferHub, len(entries))
	for _, e := range entries {
		m[e.City] = e
	}
	return m
}

func types(ts ...Type) map[Type]bool {
	m := make(map[Type]bool, len(ts))
	for _, t := range ts {
		m[t] = true
	}
	return m
}

// ByCity returns the catalog entry for name, or false if name isn't a
// cataloged hub (it may still be a perfectly good origin/destination).
func ByCity(name string) (TransferHub, bool) {
	h, ok := catalog[name]
	return h, ok
}

// DomesticGateways returns the hub cities used as the connecting point
// between a domestic leg and an international leg, per spec.md §4.2
// step 2. Ordered by catalog level. The list is every domestic hub in
// the catalog; it is not narrowed to a shorter gateway subset.
func DomesticGateways() []string {
	return orderedDomesticCities(func(TransferHub) bool { return true })
}

// ByMode returns every cataloged hub that supports mode (optionally
// filtered to at-or-above a minimum level, 0 meaning no filter), ordered
// by Sort.
func ByMode(mode Type, levelFilter Level) []TransferHub {
	var out []TransferHub
	for _, h := range catalog {
		if !h.HasType(mode) {
			continue
		}
		if levelFilter != 0 && h.Level > levelFilter {
			continue
		}
		out = append(out, h)
	}
	Sort(out)
	return out
}

// AirRailHubs returns hubs with an air-rail tier. tier == 0 returns all
// air-rail hubs regardless of tier.
func AirRailHubs(tier AirRailTier) []TransferHub {
	var out []TransferHub
	for _, h := range catalog {
		if h.AirRailTier == NoAirRailTier {
			continue
		}
		if tier != 0 && h.AirRailTier != tier {
			continue
		}
		out = append(out, h)
	}
	Sort(out)
	return out
}

func orderedDomesticCities(pred func(TransferHub) bool) []string {
	var hubs []TransferHub
	for _, h := range catalog {
		if IsDomesticRegion(h.Region) && pred(h) {
			hubs = append(hubs, h)
		}
	}
	Sort(hubs)
	out := make([]string, len(hubs))
	for i, h := range hubs {
		out[i] = h.City
	}
	return out
}

// Sort orders hubs primarily by Level ascending, then by TypeCount
// descending, then by AirRailTier ascending (NoAirRailTier sorts last),
// then, as a final geography-only tie-break, by proximity to Beijing
// (spec.md §4.1's ordering utility plus the lat/lon enrichment described
// in SPEC_FULL.md §4).
func Sort(hubs []TransferHub) {
	const refLat, refLon = 39.9, 116.4 // Beijing, an arbitrary stable reference point
	sort.SliceStable(hubs, func(i, j int) bool {
		a, b := hubs[i], hubs[j]
		if a.Level != b.Level {
			return a.Level < b.Level
		}
		if a.TypeCount() != b.TypeCount() {
			return a.TypeCount() > b.TypeCount()
		}
		at, bt := tierRank(a.AirRailTier), tierRank(b.AirRailTier)
		if at != bt {
			return at < bt
		}
		da := geo.Haversine(a.lat, a.lon, refLat, refLon)
		db := geo.Haversine(b.lat, b.lon, refLat, refLon)
		return da < db
	})
}

func tierRank(t AirRailTier) int {
	if t == NoAirRailTier {
		return int(^uint(0) >> 1) // sorts last
	}
	return int(t)
}
