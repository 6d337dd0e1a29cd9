package rank

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gilby125/go-home-router/segment"
)

// legacyDirectRawCap and legacyTransferRawCap truncate each embedded raw
// payload (in runes) so the legacy report
// stays within a model's context budget, mirroring the Python
// original's seg.data[:3000]/[:1500] slices.
const (
	legacyDirectRawCap   = 3000
	legacyTransferRawCap = 1500
)

// FormatLegacy renders the raw, unparsed provider payloads directly
// into the report instead of the program's computed plans — kept for
// debugging comparison against Format, grounded on segment_query.py's
// build_summary_for_ai_legacy.
func FormatLegacy(origin, destination, date string, results map[string]segment.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# 从 %s 到 %s 的出行方案查询结果\n\n", origin, destination)
	fmt.Fprintf(&b, "共查询到 %d 条原始查询结果，请分析并推荐最优方案。\n\n", len(results))
	b.WriteString(strings.Repeat("=", 60) + "\n")

	ids := sortedIDs(results)

	var directIDs, transferIDs []string
	for _, id := range ids {
		if strings.HasPrefix(id, "direct_") {
			directIDs = append(directIDs, id)
		} else if strings.HasPrefix(id, "leg1_") || strings.HasPrefix(id, "leg2_") {
			transferIDs = append(transferIDs, id)
		}
	}

	if len(directIDs) > 0 {
		b.WriteString("\n## 一、直达方案\n\n")
		for _, id := range directIDs {
			res := results[id]
			modeName := "机票"
			if res.Mode == segment.Train {
				modeName = "火车票"
			}
			fmt.Fprintf(&b, "### %s → %s\n", res.FromCity, res.ToCity)
			fmt.Fprintf(&b, "**交通方式**: %s\n", modeName)
			b.WriteString("**查询结果**:\n```\n")
			b.WriteString(truncatedPayload(res, legacyDirectRawCap))
			b.WriteString("\n```\n\n")
		}
	}

	if len(transferIDs) > 0 {
		b.WriteString("\n## 二、中转方案\n\n")
		writeLegacyTransferGroups(&b, results, transferIDs)
	}

	b.WriteString("\n" + strings.Repeat("=", 60) + "\n\n")
	b.WriteString("## 分析要求\n\n")
	b.WriteString("请根据以上数据，推荐最优的 3 个出行方案：\n")
	b.WriteString("1. **性价比最高** - 综合考虑价格和时间\n")
	b.WriteString("2. **时间最短** - 总耗时最少的方案\n")
	b.WriteString("3. **价格最低** - 最便宜的方案\n\n")
	b.WriteString("对于每个推荐方案，请说明：\n")
	b.WriteString("- 具体行程安排（航班号/车次、出发到达时间）\n")
	b.WriteString("- 总价格估算\n")
	b.WriteString("- 总耗时（包括中转等待时间）\n")
	b.WriteString("- 推荐理由\n\n")
	b.WriteString("**注意**：\n")
	b.WriteString("- 中转方案需要考虑换乘衔接时间（建议预留 2-3 小时）\n")
	b.WriteString("- 如果某些查询结果为空或报错，请忽略该方案\n")
	b.WriteString("- 火车票数据可能受12306的15天查询限制，实际购票请以官方为准\n")

	return b.String()
}

func writeLegacyTransferGroups(b *strings.Builder, results map[string]segment.Result, transferIDs []string) {
	hubOf := func(id string) string {
		rest := strings.TrimPrefix(strings.TrimPrefix(id, "leg1_"), "leg2_")
		if idx := strings.LastIndex(rest, "_"); idx >= 0 {
			return rest[:idx]
		}
		return rest
	}

	var hubs []string
	seen := make(map[string]bool)
	for _, id := range transferIDs {
		hub := hubOf(id)
		if !seen[hub] {
			seen[hub] = true
			hubs = append(hubs, hub)
		}
	}
	sort.Strings(hubs)

	for _, hub := range hubs {
		fmt.Fprintf(b, "### 经 %s 中转\n\n", hub)
		fmt.Fprintf(b, "#### %s\n", hub)

		for _, id := range transferIDs {
			if hubOf(id) != hub {
				continue
			}
			res := results[id]
			modeName := "机票"
			if res.Mode == segment.Train {
				modeName = "火车票"
			}
			legNum := "第一程"
			if strings.HasPrefix(id, "leg2_") {
				legNum = "第二程"
			}
			fmt.Fprintf(b, "**%s** (%s→%s, %s):\n", legNum, res.FromCity, res.ToCity, modeName)
			b.WriteString("```\n")
			b.WriteString(truncatedPayload(res, legacyTransferRawCap))
			b.WriteString("\n```\n")
		}
		b.WriteString("\n")
	}
}

func truncatedPayload(res segment.Result, maxRunes int) string {
	if !res.Success || res.RawPayload == "" {
		return "无数据"
	}
	payload := []rune(res.RawPayload)
	if len(payload) > maxRunes {
		payload = payload[:maxRunes]
	}
	return string(payload)
}

func sortedIDs(results map[string]segment.Result) []string {
	ids := make([]string, 0, len(results))
	for id := range results {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
