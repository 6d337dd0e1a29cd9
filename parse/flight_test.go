package parse

import (
	"strings"
	"testing"

	"github.com/go-test/deep"
)

func TestFlightsParsesFlightsKeyShape(t *testing.T) {
	raw := `{"flights":[{"航班号":"CA1234","价格":"¥1,200","出发时间":"08:00","到达时间":"11:30","总时长":"3小时30分钟","航空公司":"国航"}]}`
	segs := Flights(raw, "北京", "上海")
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	s := segs[0]
	if s.Number != "CA1234" || s.Price != 1200 || s.DepartureTime != "08:00" || s.ArrivalTime != "11:30" {
		t.Fatalf("unexpected segment: %+v", s)
	}
	if s.DurationMinutes != 210 {
		t.Fatalf("expected 210 minutes, got %d", s.DurationMinutes)
	}
	if s.Carrier != "国航" {
		t.Fatalf("expected carrier 国航, got %q", s.Carrier)
	}
}

func TestFlightsParsesDataKeyShape(t *testing.T) {
	raw := `{"data":[{"flight_no":"MU5137","price":980,"departure_time":"09:15","arrival_time":"12:00+1"}]}`
	segs := Flights(raw, "北京", "上海")
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if segs[0].CrossDays != 1 {
		t.Fatalf("expected cross-day detection from +1 suffix, got %d", segs[0].CrossDays)
	}
}

func TestFlightsParsesBareList(t *testing.T) {
	raw := `[{"航班号":"HU7137","价格":"700"}]`
	segs := Flights(raw, "北京", "深圳")
	if len(segs) != 1 || segs[0].Number != "HU7137" {
		t.Fatalf("unexpected result: %+v", segs)
	}
}

func TestFlightsSkipsRecordWithoutNumber(t *testing.T) {
	raw := `{"flights":[{"价格":"700"}]}`
	segs := Flights(raw, "北京", "深圳")
	if len(segs) != 0 {
		t.Fatalf("expected record without a flight number to be skipped, got %+v", segs)
	}
}

func TestFlightsFallsBackToRegexOnInvalidJSON(t *testing.T) {
	raw := "航班 CA1234 08:00 到 11:00 ¥1000 可预订"
	segs := Flights(raw, "北京", "上海")
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment from regex fallback, got %d: %+v", len(segs), segs)
	}
	if segs[0].Number != "CA1234" || segs[0].Price != 1000 {
		t.Fatalf("unexpected fallback segment: %+v", segs[0])
	}
}

func TestFlightsEmptyInputReturnsNil(t *testing.T) {
	if segs := Flights("", "北京", "上海"); segs != nil {
		t.Fatalf("expected nil for empty input, got %+v", segs)
	}
}

func TestFlightsParsesFullSegmentShape(t *testing.T) {
	raw := `{"flights":[{"航班号":"CX337/CX872","价格":"¥2,350","出发时间":"07:40","到达时间":"23:10+1","总时长":"15小时30分钟","航空公司":"国泰航空","中转城市":"香港","中转等待":"2小时10分钟","出发机场":"PEK","到达机场":"LAX"}]}`
	segs := Flights(raw, "北京", "洛杉矶")
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}

	got := segs[0]
	// Raw carries the provider's own decoded record back for passthrough
	// debugging; it isn't part of the parsed shape under test here.
	got.Raw = nil

	want := Segment{
		Mode:             Flight,
		Carrier:          "国泰航空",
		Number:           "CX337/CX872",
		NumberList:       []string{"CX337", "CX872"},
		DepartureTime:    "07:40",
		ArrivalTime:      "23:10",
		DurationMinutes:  930,
		CrossDays:        1,
		DepartureCity:    "北京",
		DepartureStation: "PEK",
		ArrivalCity:      "洛杉矶",
		ArrivalStation:   "LAX",
		Price:            2350,
		FlightType:       "直达",
		TransferCity:     "香港",
		TransferWait:     "2小时10分钟",
	}

	if diff := deep.Equal(got, want); diff != nil {
		t.Fatalf("unexpected segment:\n%s", strings.Join(diff, "\n"))
	}
}

func TestFlightsNumberListSplitsOnSlash(t *testing.T) {
	raw := `{"flights":[{"航班号":"CX337/CX872","价格":"2000","航班类型":"中转"}]}`
	segs := Flights(raw, "北京", "洛杉矶")
	if len(segs) != 1 {
		t.Fatalf("expected 1 segment, got %d", len(segs))
	}
	if len(segs[0].NumberList) != 2 || segs[0].NumberList[0] != "CX337" {
		t.Fatalf("expected split number list, got %+v", segs[0].NumberList)
	}
}
