package parse

import (
	"encoding/json"
	"regexp"
	"strconv"
)

// trainTextPattern is the regex fallback: "G1234 08:00-11:00 ¥500".
var trainTextPattern = regexp.MustCompile(`([GDCKTZ]\d{1,4})\s+(\d{1,2}:\d{2})[^\d]*(\d{1,2}:\d{2})[^\d¥￥]*[¥￥]?(\d+)`)

// seatClassFields pairs each seat class's Chinese and English field
// names; the minimum parsed price across all recognised classes becomes
// the segment's headline Price.
var seatClassFields = [][2]string{
	{"二等座", "secondSeat"},
	{"一等座", "firstSeat"},
	{"硬座", "hardSeat"},
	{"软座", "softSeat"},
	{"硬卧", "hardSleeper"},
	{"软卧", "softSleeper"},
	{"商务座", "businessSeat"},
	{"无座", "noSeat"},
}

// Trains parses a train provider's reply into Segments, mirroring
// Flights' JSON-shape tolerance ("trains"/"data"/bare list/single
// object) with a regex fallback on parse failure.
func Trains(rawData, departureCity, arrivalCity string) []Segment {
	if rawData == "" {
		return nil
	}

	var decoded any
	if err := json.Unmarshal([]byte(rawData), &decoded); err != nil {
		return trainsFromText(rawData, departureCity, arrivalCity)
	}

	var records []map[string]any
	switch v := decoded.(type) {
	case map[string]any:
		if list, ok := v["trains"].([]any); ok {
			records = toMapSlice(list)
		} else if list, ok := v["data"].([]any); ok {
			records = toMapSlice(list)
		} else if _, hasNumber := v["车次"]; hasNumber {
			records = []map[string]any{v}
		}
	case []any:
		records = toMapSlice(v)
	}

	segments := make([]Segment, 0, len(records))
	for _, record := range records {
		if seg, ok := parseSingleTrain(record, departureCity, arrivalCity); ok {
			segments = append(segments, seg)
		}
	}
	return segments
}

func parseSingleTrain(train map[string]any, departureCity, arrivalCity string) (Segment, bool) {
	number := fieldString(train, "车次", "train_no", "trainNo")
	if number == "" {
		return Segment{}, false
	}

	depTime := cleanTime(fieldString(train, "出发时间", "departure_time", "startTime"))
	arrTime := cleanTime(fieldString(train, "到达时间", "arrival_time", "arriveTime"))
	durationMinutes := parseDuration(fieldString(train, "历时", "duration", "runTime"))
	crossDays := fieldInt(train, "跨天", "dayDiff")

	price := 0
	seatClasses := make(map[string]int)
	for _, pair := range seatClassFields {
		if v, ok := fieldPrice(train, pair[0], pair[1]); ok {
			seatClasses[pair[0]] = v
			if price == 0 || v < price {
				price = v
			}
		}
	}
	if price == 0 {
		if v, ok := fieldPrice(train, "价格", "price"); ok {
			price = v
		}
	}

	trainType := trainTypeFromNumber(number)

	return Segment{
		Mode:             Train,
		Carrier:          trainType,
		Number:           number,
		DepartureTime:    depTime,
		ArrivalTime:      arrTime,
		DurationMinutes:  durationMinutes,
		CrossDays:        crossDays,
		DepartureCity:    departureCity,
		DepartureStation: fieldString(train, "出发站", "fromStation"),
		ArrivalCity:      arrivalCity,
		ArrivalStation:   fieldString(train, "到达站", "toStation"),
		Price:            price,
		TrainType:        trainType,
		SeatClasses:      seatClasses,
		Raw:              train,
	}, true
}

func trainsFromText(text, departureCity, arrivalCity string) []Segment {
	matches := trainTextPattern.FindAllStringSubmatch(text, -1)
	segments := make([]Segment, 0, len(matches))
	for _, m := range matches {
		price, err := strconv.Atoi(m[4])
		if err != nil {
			continue
		}
		segments = append(segments, Segment{
			Mode:          Train,
			Number:        m[1],
			DepartureTime: m[2],
			ArrivalTime:   m[3],
			DepartureCity: departureCity,
			ArrivalCity:   arrivalCity,
			Price:         price,
			TrainType:     trainTypeFromNumber(m[1]),
		})
	}
	return segments
}
