package rank

import (
	"strings"
	"testing"

	"github.com/gilby125/go-home-router/enumerate"
	"github.com/gilby125/go-home-router/parse"
)

func directPlan(price, duration int) enumerate.Plan {
	return enumerate.Plan{
		Segments: []parse.Segment{{
			Mode:             parse.Flight,
			Number:           "CA1234",
			DepartureTime:    "08:00",
			ArrivalTime:      "10:00",
			DepartureCity:    "北京",
			ArrivalCity:      "上海",
			Price:            price,
		}},
		TotalPrice:           price,
		TotalDurationMinutes: duration,
		RouteType:            "flight_direct",
		Feasible:             true,
	}
}

func TestFormatIncludesHeaderAndDirectSection(t *testing.T) {
	out := Format([]enumerate.Plan{directPlan(980, 120)}, "北京", "上海", "2026-08-01")

	if !strings.Contains(out, "2026-08-01 北京 → 上海") {
		t.Fatalf("expected header line, got:\n%s", out)
	}
	if !strings.Contains(out, "## 一、直达方案") {
		t.Fatalf("expected direct section, got:\n%s", out)
	}
	if !strings.Contains(out, "¥980") {
		t.Fatalf("expected formatted price, got:\n%s", out)
	}
	if !strings.Contains(out, "CA1234") {
		t.Fatalf("expected flight number in itinerary detail, got:\n%s", out)
	}
}

func TestFormatShowsAccommodationFeeWhenPresent(t *testing.T) {
	plan := enumerate.Plan{
		Segments: []parse.Segment{
			{Mode: parse.Flight, Number: "CA1", DepartureCity: "北京", ArrivalCity: "武汉", Price: 500},
			{Mode: parse.Flight, Number: "CA2", DepartureCity: "武汉", ArrivalCity: "上海", Price: 400},
		},
		TransferCities:       []string{"武汉"},
		TransferWaitMinutes:  []int{500},
		TotalPrice:           1100,
		AccommodationFee:     200,
		MinTransferHours:     2,
		Feasible:             true,
	}

	out := Format([]enumerate.Plan{plan}, "北京", "上海", "2026-08-01")
	if !strings.Contains(out, "含住宿费¥200") {
		t.Fatalf("expected accommodation fee note, got:\n%s", out)
	}
	if !strings.Contains(out, "中转城市: 武汉") {
		t.Fatalf("expected transfer city line, got:\n%s", out)
	}
}

func TestFormatGroupsTwoLegByTransferHours(t *testing.T) {
	mkPlan := func(hours int) enumerate.Plan {
		return enumerate.Plan{
			Segments: []parse.Segment{
				{Mode: parse.Train, Number: "G1", DepartureCity: "北京", ArrivalCity: "武汉", Price: 300},
				{Mode: parse.Train, Number: "G2", DepartureCity: "武汉", ArrivalCity: "上海", Price: 200},
			},
			TransferCities:      []string{"武汉"},
			TransferWaitMinutes: []int{150},
			TotalPrice:          500,
			MinTransferHours:    hours,
			Feasible:            true,
		}
	}

	out := Format([]enumerate.Plan{mkPlan(2), mkPlan(3)}, "北京", "上海", "2026-08-01")
	if !strings.Contains(out, "### 最小换乘时间2小时版本") {
		t.Fatalf("expected 2h subsection, got:\n%s", out)
	}
	if !strings.Contains(out, "### 最小换乘时间3小时版本") {
		t.Fatalf("expected 3h subsection, got:\n%s", out)
	}
}

func TestRouteTypeDescriptionDirect(t *testing.T) {
	if got := routeTypeDescription(directPlan(100, 60)); got != "直达航班" {
		t.Fatalf("expected 直达航班, got %q", got)
	}
}
