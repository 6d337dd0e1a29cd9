// Package rank renders a computed set of enumerate.Plan values into the
// Markdown-like report handed to the recommending AI, grounded on
// route_calculator.py's format_routes_for_ai/_format_single_route.
package rank

import (
	"fmt"
	"strings"

	"github.com/gilby125/go-home-router/enumerate"
	"github.com/gilby125/go-home-router/parse"
	"github.com/gilby125/go-home-router/pkg/money"
)

const (
	directPreview  = 5
	twoLegPerGroup = 10
	twoLegPreview  = 5

	threeLegPerGroup = 5
	threeLegPreview  = 3
)

// Format renders routes (already sorted and filtered to feasible plans
// by enumerate.CalculateAllRoutes) as the report handed to the AI for
// recommendation, grouped by leg count and then by min-transfer-hours
// variant.
func Format(routes []enumerate.Plan, origin, destination, date string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s %s → %s 出行方案计算结果\n\n", date, origin, destination)
	fmt.Fprintf(&b, "以下是程序计算出的可行方案（共%d个，显示前%d个）：\n\n", len(routes), minInt(len(routes), 30))

	var direct, twoLeg, threeLeg []enumerate.Plan
	for _, r := range routes {
		switch len(r.Segments) {
		case 1:
			direct = append(direct, r)
		case 2:
			twoLeg = append(twoLeg, r)
		case 3:
			threeLeg = append(threeLeg, r)
		}
	}

	if len(direct) > 0 {
		b.WriteString("## 一、直达方案\n\n")
		for i, r := range capPlans(direct, directPreview) {
			writeRoute(&b, r, i+1)
		}
		b.WriteString("\n")
	}

	if len(twoLeg) > 0 {
		b.WriteString("## 二、两段中转方案（1次中转）\n\n")
		writeTransferGroup(&b, twoLeg, twoLegPerGroup, twoLegPreview)
	}

	if len(threeLeg) > 0 {
		b.WriteString("## 三、三段中转方案（2次中转）\n\n")
		writeTransferGroup(&b, threeLeg, threeLegPerGroup, threeLegPreview)
	}

	b.WriteString("---\n\n")
	b.WriteString("## 请根据以上计算结果，为用户推荐：\n")
	b.WriteString("1. **最便宜方案** - 总价最低\n")
	b.WriteString("2. **最快方案** - 总时长最短\n")
	b.WriteString("3. **性价比最高方案** - 综合价格和时间\n\n")
	b.WriteString("请用自然语言描述推荐的方案，包括具体的航班号/车次、时间、价格等信息。\n")

	return b.String()
}

func writeTransferGroup(b *strings.Builder, plans []enumerate.Plan, perGroupCap, preview int) {
	hours2 := capPlans(filterByMinTransferHours(plans, 2), perGroupCap)
	hours3 := capPlans(filterByMinTransferHours(plans, 3), perGroupCap)

	if len(hours2) > 0 {
		b.WriteString("### 最小换乘时间2小时版本\n")
		for i, r := range capPlans(hours2, preview) {
			writeRoute(b, r, i+1)
		}
		b.WriteString("\n")
	}
	if len(hours3) > 0 {
		b.WriteString("### 最小换乘时间3小时版本\n")
		for i, r := range capPlans(hours3, preview) {
			writeRoute(b, r, i+1)
		}
		b.WriteString("\n")
	}
}

func filterByMinTransferHours(plans []enumerate.Plan, hours int) []enumerate.Plan {
	var out []enumerate.Plan
	for _, p := range plans {
		if p.MinTransferHours == hours {
			out = append(out, p)
		}
	}
	return out
}

func capPlans(plans []enumerate.Plan, n int) []enumerate.Plan {
	if len(plans) > n {
		return plans[:n]
	}
	return plans
}

func writeRoute(b *strings.Builder, route enumerate.Plan, index int) {
	fmt.Fprintf(b, "**方案%d**: %s\n", index, routeDescription(route))
	fmt.Fprintf(b, "- 类型: %s\n", routeTypeDescription(route))

	priceLine := fmt.Sprintf("- 总价: %s", money.FormatCNY(route.TotalPrice))
	if route.AccommodationFee > 0 {
		priceLine += fmt.Sprintf("（含住宿费%s）", money.FormatCNY(route.AccommodationFee))
	}
	b.WriteString(priceLine + "\n")

	fmt.Fprintf(b, "- 总时长: %d小时%d分钟\n", route.TotalDurationMinutes/60, route.TotalDurationMinutes%60)

	if len(route.TransferCities) > 0 {
		fmt.Fprintf(b, "- 中转城市: %s\n", strings.Join(route.TransferCities, " → "))
		waits := make([]string, len(route.TransferWaitMinutes))
		for i, w := range route.TransferWaitMinutes {
			waits[i] = fmt.Sprintf("%d小时%d分", w/60, w%60)
		}
		fmt.Fprintf(b, "- 中转等待: %s\n", strings.Join(waits, ", "))
	}

	b.WriteString("- 行程详情:\n")
	for i, seg := range route.Segments {
		icon := "✈️"
		if seg.Mode == parse.Train {
			icon = "🚄"
		}
		crossDay := ""
		if seg.CrossDays > 0 {
			crossDay = fmt.Sprintf("(+%d天)", seg.CrossDays)
		}
		flightInfo := ""
		if seg.FlightType == "中转" && seg.TransferCity != "" {
			flightInfo = fmt.Sprintf(" [经%s停留%s]", seg.TransferCity, seg.TransferWait)
		}

		depStation := seg.DepartureStation
		if depStation == "" {
			depStation = seg.DepartureCity
		}
		arrStation := seg.ArrivalStation
		if arrStation == "" {
			arrStation = seg.ArrivalCity
		}

		fmt.Fprintf(b, "  %d. %s %s: %s(%s) → %s%s(%s) | %s%s\n",
			i+1, icon, seg.Number,
			seg.DepartureTime, depStation,
			seg.ArrivalTime, crossDay, arrStation,
			money.FormatCNY(seg.Price), flightInfo)
	}
	b.WriteString("\n")
}

func routeDescription(route enumerate.Plan) string {
	var b strings.Builder
	for i, seg := range route.Segments {
		if i == 0 {
			b.WriteString(seg.DepartureCity)
		}
		icon := "✈️"
		if seg.Mode == parse.Train {
			icon = "🚄"
		}
		fmt.Fprintf(&b, "→%s→", icon)
		b.WriteString(seg.ArrivalCity)
	}
	return b.String()
}

func routeTypeDescription(route enumerate.Plan) string {
	if len(route.Segments) == 1 {
		if route.Segments[0].Mode == parse.Flight {
			return "直达航班"
		}
		return "直达火车"
	}
	names := make([]string, len(route.Segments))
	for i, seg := range route.Segments {
		if seg.Mode == parse.Flight {
			names[i] = "飞机"
		} else {
			names[i] = "火车"
		}
	}
	return strings.Join(names, " → ")
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
