package rank

import (
	"strings"
	"testing"

	"github.com/gilby125/go-home-router/segment"
)

func TestFormatLegacyIncludesDirectAndTransferSections(t *testing.T) {
	results := map[string]segment.Result{
		"direct_flight": {
			SegmentID: "direct_flight", FromCity: "北京", ToCity: "上海",
			Mode: segment.Flight, Success: true, RawPayload: "CA1234 08:00 10:00 ¥980",
		},
		"leg1_武汉_flight": {
			SegmentID: "leg1_武汉_flight", FromCity: "北京", ToCity: "武汉",
			Mode: segment.Flight, Success: true, RawPayload: "CA1 08:00 09:30 ¥500",
		},
		"leg2_武汉_train": {
			SegmentID: "leg2_武汉_train", FromCity: "武汉", ToCity: "上海",
			Mode: segment.Train, Success: true, RawPayload: "G1 10:00 13:00 ¥300",
		},
	}

	out := FormatLegacy("北京", "上海", "2026-08-01", results)

	if !strings.Contains(out, "## 一、直达方案") {
		t.Fatalf("expected direct section, got:\n%s", out)
	}
	if !strings.Contains(out, "## 二、中转方案") {
		t.Fatalf("expected transfer section, got:\n%s", out)
	}
	if !strings.Contains(out, "经 武汉 中转") {
		t.Fatalf("expected hub grouping, got:\n%s", out)
	}
	if !strings.Contains(out, "第一程") || !strings.Contains(out, "第二程") {
		t.Fatalf("expected leg labels, got:\n%s", out)
	}
}

func TestFormatLegacyMarksMissingDataOnFailure(t *testing.T) {
	results := map[string]segment.Result{
		"direct_flight": {
			SegmentID: "direct_flight", FromCity: "北京", ToCity: "上海",
			Mode: segment.Flight, Success: false, ErrorMsg: "timeout",
		},
	}

	out := FormatLegacy("北京", "上海", "2026-08-01", results)
	if !strings.Contains(out, "无数据") {
		t.Fatalf("expected missing-data marker for a failed segment, got:\n%s", out)
	}
}

func TestFormatLegacyTruncatesLongPayloads(t *testing.T) {
	long := strings.Repeat("x", 5000)
	results := map[string]segment.Result{
		"direct_flight": {
			SegmentID: "direct_flight", FromCity: "北京", ToCity: "上海",
			Mode: segment.Flight, Success: true, RawPayload: long,
		},
	}

	out := FormatLegacy("北京", "上海", "2026-08-01", results)
	if strings.Contains(out, strings.Repeat("x", 3001)) {
		t.Fatalf("expected payload truncated to 3000 runes")
	}
}
