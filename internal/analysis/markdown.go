package analysis

import (
	"fmt"
	"strconv"
	"strings"
)

// topRows caps the ranking table in Markdown output.
const topRows = 20

// Markdown renders a compact report of the run.
func (o *Output) Markdown() string {
	loc := o.Locale()
	s := o.Summary
	var b strings.Builder

	b.WriteString("[ANALYSIS SUMMARY]\n")
	b.WriteString(fmt.Sprintf("%s: %s\n", loc.Label(SumTotalLeads), FormatNumber(s.TotalLeads)))
	b.WriteString(fmt.Sprintf("%s: %d\n", loc.Label(SumAdOrders), s.AdOrders))
	b.WriteString(fmt.Sprintf("%s: %d\n", loc.Label(SumOtherOrders), s.OtherOrders))
	b.WriteString(fmt.Sprintf("%s: %s\n", loc.Label(SumTotalSpent), FormatNumber(s.TotalSpent)))
	b.WriteString(fmt.Sprintf("%s: %s\n", loc.Label(SumConversion), FormatNumber(s.ConversionPct)))
	if o.HasRevenue {
		b.WriteString(fmt.Sprintf("%s: %s\n", loc.Label(SumTotalRevenue), FormatNumber(*s.TotalRevenue)))
		b.WriteString(fmt.Sprintf("%s: %s\n", loc.Label(SumTotalProfit), FormatNumber(*s.TotalProfit)))
		b.WriteString(fmt.Sprintf("%s: %s\n", loc.Label(SumROI), FormatNumber(*s.ROIPct)))
	}
	if s.UnmatchedOrders > 0 {
		b.WriteString(fmt.Sprintf("%s: %d\n", loc.Label(SumUnmatchedOrders), s.UnmatchedOrders))
	}
	b.WriteString("\n")

	d := s.Distribution
	b.WriteString("[RECOMMENDATIONS]\n")
	b.WriteString(fmt.Sprintf("- %s: %d (%s%%)\n", loc.Actions[ActionRemove], d.Remove, FormatNumber(d.RemovePct)))
	b.WriteString(fmt.Sprintf("- %s: %d (%s%%)\n", loc.Actions[ActionScale], d.Scale, FormatNumber(d.ScalePct)))
	b.WriteString(fmt.Sprintf("- %s: %d (%s%%)\n", loc.Actions[ActionOptimize], d.Optimize, FormatNumber(d.OptimizePct)))
	b.WriteString(fmt.Sprintf("- %s: %d (%s%%)\n", loc.Actions[ActionMonitor], d.Monitor, FormatNumber(d.MonitorPct)))
	if d.Remove > 0 {
		b.WriteString(fmt.Sprintf("%s: %s\n", loc.Label(SumSavings), FormatNumber(s.PotentialSavings)))
	}
	if s.ScaleProfit != nil && d.Scale > 0 {
		b.WriteString(fmt.Sprintf("%s: %s\n", loc.Label(SumScaleProfit), FormatNumber(*s.ScaleProfit)))
		b.WriteString(fmt.Sprintf("%s: %s\n", loc.Label(SumScalePotential), FormatNumber(*s.ScaleProfitPotential)))
	}
	b.WriteString("\n")

	if len(o.Rows) > 0 {
		b.WriteString("[ADS]\n")
		cols := o.ColumnKeys()
		hdr := make([]string, len(cols))
		for i, k := range cols {
			hdr[i] = loc.Column(k)
		}
		b.WriteString("| " + strings.Join(hdr, " | ") + " |\n")
		b.WriteString("|" + strings.Repeat("---|", len(cols)) + "\n")
		for i, m := range o.Rows {
			if i >= topRows {
				b.WriteString(fmt.Sprintf("(+%d more)\n", len(o.Rows)-topRows))
				break
			}
			cells := make([]string, len(cols))
			for j, k := range cols {
				cells[j] = strings.ReplaceAll(m.Text(k), "|", "/")
			}
			b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
		}
		b.WriteString("\n")
	}

	if len(o.Warnings) > 0 {
		b.WriteString("[NOTES]\n")
		for _, w := range o.Warnings {
			b.WriteString("- ")
			b.WriteString(w.String())
			b.WriteString("\n")
		}
	}
	return b.String()
}

// ColumnKeys lists the row columns present in this output, in display order.
func (o *Output) ColumnKeys() []string {
	keys := []string{ColID, ColLeads, ColSpent}
	if o.HasCostPerLead {
		keys = append(keys, ColCostPerLead)
	}
	keys = append(keys, ColOrderCount)
	if o.HasRevenue {
		keys = append(keys, ColTotalRevenue, ColAvgOrderValue)
	}
	keys = append(keys, ColConversion, ColCPO, ColCPL)
	if o.HasRevenue {
		keys = append(keys, ColROI, ColProfit, ColROMI)
	}
	return append(keys, ColRecommend)
}

// Value returns the cell for a column key as a string, float64 or int.
// Absent optional values come back as "".
func (m AdMetrics) Value(key string) any {
	opt := func(p *float64) any {
		if p == nil {
			return ""
		}
		return *p
	}
	switch key {
	case ColID:
		return m.ID
	case ColLeads:
		return m.Leads
	case ColSpent:
		return m.Spent
	case ColCostPerLead:
		return opt(m.CostPerLead)
	case ColOrderCount:
		return m.OrderCount
	case ColTotalRevenue:
		return opt(m.TotalRevenue)
	case ColAvgOrderValue:
		return opt(m.AvgOrderValue)
	case ColConversion:
		return m.ConversionPct
	case ColCPO:
		return m.CPO
	case ColCPL:
		return m.CPL
	case ColROI:
		return opt(m.ROIPct)
	case ColProfit:
		return opt(m.Profit)
	case ColROMI:
		return opt(m.ROMI)
	case ColRecommend:
		return m.Recommendation
	default:
		return ""
	}
}

// Text is Value rendered for text outputs.
func (m AdMetrics) Text(key string) string {
	switch v := m.Value(key).(type) {
	case float64:
		return FormatNumber(v)
	case int:
		return strconv.Itoa(v)
	case string:
		return v
	default:
		return ""
	}
}

// FormatNumber prints a rounded value without trailing zeros.
func FormatNumber(x float64) string {
	return strconv.FormatFloat(round2(x), 'f', -1, 64)
}
