package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	crossDayMarkerRe = regexp.MustCompile(`\+\d+天?`)
	hhmmRe           = regexp.MustCompile(`(\d{1,2}):(\d{2})`)
	hourTokenRe      = regexp.MustCompile(`(\d+)\s*[小时hH]`)
	minuteTokenRe    = regexp.MustCompile(`(\d+)\s*[分钟mM]`)
	firstDigitsRe    = regexp.MustCompile(`\d+`)
)

// cleanTime strips a cross-day marker ("+1天") and normalizes whatever
// HH:MM it finds to a zero-padded two-digit hour. A string with no
// recognizable time is returned unchanged (rather than emptied), since
// an unparsed-but-present field is still diagnostic information.
func cleanTime(raw string) string {
	if raw == "" {
		return ""
	}
	cleaned := strings.TrimSpace(crossDayMarkerRe.ReplaceAllString(raw, ""))
	m := hhmmRe.FindStringSubmatch(cleaned)
	if m == nil {
		return cleaned
	}
	hour, _ := strconv.Atoi(m[1])
	return fmt.Sprintf("%02d:%s", hour, m[2])
}

// parseDuration extracts hour and minute tokens independently, so
// "5小时30分钟", "5h30m", and "30分钟" all parse. Either token may be
// absent; an unparseable string yields 0.
func parseDuration(raw string) int {
	if raw == "" {
		return 0
	}
	total := 0
	if m := hourTokenRe.FindStringSubmatch(raw); m != nil {
		if h, err := strconv.Atoi(m[1]); err == nil {
			total += h * 60
		}
	}
	if m := minuteTokenRe.FindStringSubmatch(raw); m != nil {
		if mins, err := strconv.Atoi(m[1]); err == nil {
			total += mins
		}
	}
	return total
}

// firstIntRun strips thousands-separator commas and returns the first
// run of digits as an int, e.g. "¥2,480" -> 2480.
func firstIntRun(raw string) (int, bool) {
	cleaned := strings.ReplaceAll(raw, ",", "")
	m := firstDigitsRe.FindString(cleaned)
	if m == "" {
		return 0, false
	}
	v, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return v, true
}

// fieldString reads the first present key from m, coercing numbers and
// bools to their string form (the provider JSON mixes string and
// numeric field types across records).
func fieldString(m map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case string:
			if t != "" {
				return t
			}
		case float64:
			return strconv.FormatFloat(t, 'f', -1, 64)
		default:
			return fmt.Sprint(t)
		}
	}
	return ""
}

// fieldPrice resolves a price-like field that may already be numeric or
// may be a string such as "¥1,000" or "--" (meaning unavailable).
func fieldPrice(m map[string]any, keys ...string) (int, bool) {
	for _, key := range keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return int(t), true
		case string:
			if t == "" || t == "--" || t == "无" {
				continue
			}
			if n, ok := firstIntRun(t); ok {
				return n, true
			}
		}
	}
	return 0, false
}

// fieldStringList reads a key expected to hold a JSON array of strings.
func fieldStringList(m map[string]any, key string) []string {
	v, ok := m[key]
	if !ok {
		return nil
	}
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// fieldInt reads an int-like field, tolerating string or float64 JSON
// encodings.
func fieldInt(m map[string]any, keys ...string) int {
	for _, key := range keys {
		v, ok := m[key]
		if !ok || v == nil {
			continue
		}
		switch t := v.(type) {
		case float64:
			return int(t)
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(t)); err == nil {
				return n
			}
		}
	}
	return 0
}

func trainTypeFromNumber(trainNo string) string {
	if trainNo == "" {
		return ""
	}
	switch strings.ToUpper(trainNo[:1]) {
	case "G":
		return "高铁"
	case "D":
		return "动车"
	case "C":
		return "城际"
	case "K":
		return "快速"
	case "T":
		return "特快"
	case "Z":
		return "直达"
	default:
		return ""
	}
}
