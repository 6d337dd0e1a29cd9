package enumerate

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gilby125/go-home-router/parse"
)

const (
	defaultAccommodationFee = 200
	nightStartHour          = 22
	nightEndHour            = 6
	longWaitThresholdHours  = 12
)

// parseHHMM splits a "HH:MM" string into its components. A malformed
// string (parse.Segment tolerates missing times) is reported as an
// error rather than guessed at.
func parseHHMM(s string) (hour, minute int, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("not an HH:MM time: %q", s)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, err
	}
	return hour, minute, nil
}

// arrivalDateTime combines baseDate with seg's arrival HH:MM and its
// cross-day count.
func arrivalDateTime(baseDate time.Time, seg parse.Segment) (time.Time, error) {
	hour, minute, err := parseHHMM(seg.ArrivalTime)
	if err != nil {
		return time.Time{}, err
	}
	dt := time.Date(baseDate.Year(), baseDate.Month(), baseDate.Day(), hour, minute, 0, 0, baseDate.Location())
	return dt.AddDate(0, 0, seg.CrossDays), nil
}

// checkTransferFeasibility implements spec.md §4.8's transfer check:
// seg2 must depart at least minTransferHours after seg1 arrives, with
// a same/next/next-next-day departure search and a 24h wait cap.
func checkTransferFeasibility(seg1, seg2 parse.Segment, baseDate time.Time, minTransferHours int) (ok bool, waitMinutes int, reason string) {
	arrDT, err := arrivalDateTime(baseDate, seg1)
	if err != nil {
		return false, 0, fmt.Sprintf("计算换乘出错: %v", err)
	}
	earliest := arrDT.Add(time.Duration(minTransferHours) * time.Hour)

	depHour, depMin, err := parseHHMM(seg2.DepartureTime)
	if err != nil {
		return false, 0, fmt.Sprintf("计算换乘出错: %v", err)
	}

	for dayOffset := 0; dayOffset < 3; dayOffset++ {
		depDT := time.Date(arrDT.Year(), arrDT.Month(), arrDT.Day(), depHour, depMin, 0, 0, arrDT.Location()).AddDate(0, 0, dayOffset)
		if !depDT.Before(earliest) {
			wait := int(depDT.Sub(arrDT).Minutes())
			if wait <= 24*60 {
				return true, wait, ""
			}
			return false, wait, fmt.Sprintf("等待时间过长(%d小时)", wait/60)
		}
	}
	return false, 0, "未找到可行的换乘班次"
}

// nextBaseDate absorbs seg1's cross-day contribution and the transfer
// wait into a new base date for the segment that follows seg1 (spec.md
// §4.8's "arrival-date propagation").
func nextBaseDate(seg1 parse.Segment, baseDate time.Time, waitMinutes int) time.Time {
	arrDT, err := arrivalDateTime(baseDate, seg1)
	if err != nil {
		return baseDate
	}
	depDT := arrDT.Add(time.Duration(waitMinutes) * time.Minute)
	return time.Date(depDT.Year(), depDT.Month(), depDT.Day(), 0, 0, 0, 0, depDT.Location())
}

// calculateAccommodationFee implements spec.md §4.8: a flat fee applies
// when the wait is at least cfg.AccommodationThresholdHours and crosses
// the night window [22:00, 06:00), or
// unconditionally once the wait reaches the long-wait threshold
// regardless of time of day.
func calculateAccommodationFee(seg1 parse.Segment, baseDate time.Time, waitMinutes int, cfg Config) int {
	if waitMinutes < cfg.AccommodationThresholdHours*60 && waitMinutes < longWaitThresholdHours*60 {
		return 0
	}

	arrDT, err := arrivalDateTime(baseDate, seg1)
	if err == nil {
		depDT := arrDT.Add(time.Duration(waitMinutes) * time.Minute)
		for current := arrDT; current.Before(depDT); current = current.Add(time.Hour) {
			hour := current.Hour()
			if hour >= nightStartHour || hour < nightEndHour {
				return defaultAccommodationFee
			}
		}
	}

	if waitMinutes >= longWaitThresholdHours*60 {
		return defaultAccommodationFee
	}
	return 0
}
