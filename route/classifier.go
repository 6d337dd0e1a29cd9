// Package route classifies an (origin, destination) city pair into a
// RouteType and produces the candidate transfer-hub pool used to build
// multi-leg segment queries.
package route

import (
	"fmt"
	"sort"

	"github.com/gilby125/go-home-router/hub"
)

// Type names the class of an (origin, destination) pair.
type Type string

const (
	Domestic          Type = "domestic"
	DomesticToSEAsia  Type = "domestic_se_asia"
	DomesticToEAsia   Type = "domestic_e_asia"
	DomesticToLongHaul Type = "domestic_long_haul"
	SEAsiaToDomestic  Type = "se_asia_domestic"
	EAsiaToDomestic   Type = "e_asia_domestic"
	LongHaulToDomestic Type = "long_haul_domestic"
	IntlToIntl        Type = "intl_intl"
)

const defaultMaxCount = 15

// Filter restricts which transport modes the candidate pool must serve.
type Filter string

const (
	FilterAll    Filter = "all"
	FilterFlight Filter = "flight"
	FilterTrain  Filter = "train"
)

// Result is the output of Classify: the candidate hub pool, the route's
// classification, and a human-readable tip describing both.
type Result struct {
	Hubs     []string
	RouteType Type
	Tip      string
}

// Classify implements spec.md §4.2: region lookup to determine RouteType,
// a static strategy table to pick the candidate hub pool, then
// dedup/exclude/truncate.
func Classify(origin, destination string, maxCount int, filter Filter, useIntlHubs bool) Result {
	if maxCount <= 0 {
		maxCount = defaultMaxCount
	}

	rt := classifyType(origin, destination)
	pool := candidatePool(rt, destination, useIntlHubs, filter)
	hubs := finalize(pool, origin, destination, maxCount)

	return Result{
		Hubs:      hubs,
		RouteType: rt,
		Tip:       tipMessage(rt, len(hubs)),
	}
}

func classifyType(origin, destination string) Type {
	originDomestic := hub.IsDomesticRegion(hub.RegionOf(origin)) && !hub.IsInternationalCity(origin)
	destDomestic := hub.IsDomesticRegion(hub.RegionOf(destination)) && !hub.IsInternationalCity(destination)

	if originDomestic && destDomestic {
		return Domestic
	}
	if originDomestic && !destDomestic {
		return forwardMixedType(hub.RegionOf(destination))
	}
	if !originDomestic && destDomestic {
		return reverseMixedType(hub.RegionOf(origin))
	}
	return IntlToIntl
}

func forwardMixedType(destRegion hub.Region) Type {
	switch destRegion {
	case hub.SoutheastAsia:
		return DomesticToSEAsia
	case hub.EastAsia, hub.HongKongMacaoTaiwan:
		return DomesticToEAsia
	default:
		return DomesticToLongHaul
	}
}

func reverseMixedType(originRegion hub.Region) Type {
	switch originRegion {
	case hub.SoutheastAsia:
		return SEAsiaToDomestic
	case hub.EastAsia, hub.HongKongMacaoTaiwan:
		return EAsiaToDomestic
	default:
		return LongHaulToDomestic
	}
}

// candidatePool implements the static strategy table of spec.md §4.2
// step 2.
func candidatePool(rt Type, destination string, useIntlHubs bool, filter Filter) []string {
	switch rt {
	case Domestic:
		return domesticHubsByFilter(filter)
	case DomesticToSEAsia, SEAsiaToDomestic:
		return mixedPool(useIntlHubs, hub.SoutheastAsia)
	case DomesticToEAsia, EAsiaToDomestic:
		return mixedPool(useIntlHubs, hub.EastAsia, hub.HongKongMacaoTaiwan)
	case DomesticToLongHaul, LongHaulToDomestic:
		return mixedPool(useIntlHubs,
			hub.MiddleEast, hub.Europe, hub.NorthAmerica, hub.Oceania,
			hub.SouthAsia, hub.Africa, hub.LatinAmerica)
	case IntlToIntl:
		return intlHubGroups(
			hub.SoutheastAsia, hub.EastAsia, hub.HongKongMacaoTaiwan, hub.SouthAsia,
			hub.MiddleEast, hub.Europe, hub.NorthAmerica, hub.Oceania,
			hub.LatinAmerica, hub.Africa,
		)
	default:
		return hub.DomesticGateways()
	}
}

func domesticHubsByFilter(filter Filter) []string {
	var hubType hub.Type
	switch filter {
	case FilterFlight:
		hubType = hub.Aviation
	case FilterTrain:
		hubType = hub.Railway
	default:
		return hub.DomesticGateways()
	}
	hubs := hub.ByMode(hubType, 0)
	out := make([]string, 0, len(hubs))
	for _, h := range hubs {
		out = append(out, h.City)
	}
	return out
}

func mixedPool(useIntlHubs bool, regions ...hub.Region) []string {
	out := hub.DomesticGateways()
	if !useIntlHubs {
		return out
	}
	return append(out, intlHubGroups(regions...)...)
}

// intlHubGroups returns every cataloged international city within the
// given regions. Our catalog (hub.ByCity et al.) only carries domestic
// and HK/Macao/Taiwan entries with structured transport data, so the
// international groups are derived directly from the region map rather
// than the hub catalog.
func intlHubGroups(regions ...hub.Region) []string {
	wanted := make(map[hub.Region]bool, len(regions))
	for _, r := range regions {
		wanted[r] = true
	}
	var out []string
	for city := range hub.CitiesByRegion(wanted) {
		out = append(out, city)
	}
	// hub.CitiesByRegion ranges a map; sort before finalize truncates to
	// maxCount so repeated Classify calls on identical inputs pick the
	// same candidate hubs in the same order.
	sort.Strings(out)
	return out
}

func finalize(pool []string, origin, destination string, maxCount int) []string {
	seen := make(map[string]bool, len(pool))
	out := make([]string, 0, len(pool))
	for _, city := range pool {
		if city == origin || city == destination || seen[city] {
			continue
		}
		seen[city] = true
		out = append(out, city)
		if len(out) >= maxCount {
			break
		}
	}
	return out
}

func tipMessage(rt Type, count int) string {
	return fmt.Sprintf("route type %s, %d candidate transfer hub(s) considered", rt, count)
}
