package parse

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

// flightTextPattern is the regex fallback when raw_data isn't valid
// JSON: "CA1234 08:00-11:00 ¥1000".
var flightTextPattern = regexp.MustCompile(`([A-Z]{2}\d{3,4})\s+(\d{1,2}:\d{2})[^\d]*(\d{1,2}:\d{2})[^\d¥￥]*[¥￥]?(\d+)`)

// Flights parses a flight provider's reply into Segments. Accepts a
// JSON object carrying "flights" or "data", a bare JSON list, or a
// single flight object; falls back to a regex pass over the raw text
// when JSON parsing fails outright.
func Flights(rawData, departureCity, arrivalCity string) []Segment {
	if rawData == "" {
		return nil
	}

	var decoded any
	if err := json.Unmarshal([]byte(rawData), &decoded); err != nil {
		return flightsFromText(rawData, departureCity, arrivalCity)
	}

	var records []map[string]any
	switch v := decoded.(type) {
	case map[string]any:
		if list, ok := v["flights"].([]any); ok {
			records = toMapSlice(list)
		} else if list, ok := v["data"].([]any); ok {
			records = toMapSlice(list)
		} else if _, hasNumber := v["航班号"]; hasNumber {
			records = []map[string]any{v}
		}
	case []any:
		records = toMapSlice(v)
	}

	segments := make([]Segment, 0, len(records))
	for _, record := range records {
		if seg, ok := parseSingleFlight(record, departureCity, arrivalCity); ok {
			segments = append(segments, seg)
		}
	}
	return segments
}

func toMapSlice(list []any) []map[string]any {
	out := make([]map[string]any, 0, len(list))
	for _, item := range list {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func parseSingleFlight(flight map[string]any, departureCity, arrivalCity string) (Segment, bool) {
	number := fieldString(flight, "航班号", "flight_no")
	if number == "" {
		return Segment{}, false
	}

	price, _ := fieldPrice(flight, "价格", "price")

	depTime := cleanTime(fieldString(flight, "出发时间", "departure_time"))
	arrTime := cleanTime(fieldString(flight, "到达时间", "arrival_time"))

	crossDays := fieldInt(flight, "跨天")
	if crossDays == 0 {
		rawArr := fieldString(flight, "到达时间", "arrival_time")
		if strings.Contains(rawArr, "+1") {
			crossDays = 1
		} else if strings.Contains(rawArr, "+2") {
			crossDays = 2
		}
	}

	durationMinutes := fieldInt(flight, "总时长分钟")
	if durationMinutes == 0 {
		durationMinutes = parseDuration(fieldString(flight, "总时长"))
	}

	flightType := fieldString(flight, "航班类型")
	if flightType == "" {
		flightType = "直达"
	}

	numberList := fieldStringList(flight, "航班号列表")
	if len(numberList) == 0 && strings.Contains(number, "/") {
		numberList = strings.Split(number, "/")
	}

	return Segment{
		Mode:             Flight,
		Carrier:          fieldString(flight, "航空公司", "airline"),
		Number:           number,
		NumberList:       numberList,
		DepartureTime:    depTime,
		ArrivalTime:      arrTime,
		DurationMinutes:  durationMinutes,
		CrossDays:        crossDays,
		DepartureCity:    departureCity,
		DepartureStation: fieldString(flight, "出发机场", "departure_airport"),
		ArrivalCity:      arrivalCity,
		ArrivalStation:   fieldString(flight, "到达机场", "arrival_airport"),
		Price:            price,
		FlightType:       flightType,
		TransferCity:     fieldString(flight, "中转城市"),
		TransferWait:     fieldString(flight, "中转等待"),
		Raw:              flight,
	}, true
}

func flightsFromText(text, departureCity, arrivalCity string) []Segment {
	matches := flightTextPattern.FindAllStringSubmatch(text, -1)
	segments := make([]Segment, 0, len(matches))
	for _, m := range matches {
		price, err := strconv.Atoi(m[4])
		if err != nil {
			continue
		}
		segments = append(segments, Segment{
			Mode:          Flight,
			Number:        m[1],
			DepartureTime: m[2],
			ArrivalTime:   m[3],
			DepartureCity: departureCity,
			ArrivalCity:   arrivalCity,
			Price:         price,
			FlightType:    "直达",
		})
	}
	return segments
}
