package analysis

// Distribution counts rows per bucket. Buckets overlap, so the counts can sum
// to more than Total. Monitor counts rows whose only reason is "stable".
type Distribution struct {
	Total       int     `json:"total"`
	Remove      int     `json:"remove"`
	Scale       int     `json:"scale"`
	Optimize    int     `json:"optimize"`
	Monitor     int     `json:"monitor"`
	RemovePct   float64 `json:"remove_pct"`
	ScalePct    float64 `json:"scale_pct"`
	OptimizePct float64 `json:"optimize_pct"`
	MonitorPct  float64 `json:"monitor_pct"`
}

// DataInfo describes the inputs that went into a run.
type DataInfo struct {
	AdRows         int `json:"ad_rows"`
	Ads            int `json:"ads"`
	AdColumns      int `json:"ad_columns"`
	CRMRows        int `json:"crm_rows"`
	CRMColumns     int `json:"crm_columns"`
	CRMAdvertising int `json:"crm_advertising"`
	CRMOther       int `json:"crm_other"`
}

// Summary holds dataset-wide totals. Revenue fields are nil without a
// revenue column.
type Summary struct {
	TotalLeads      float64 `json:"total_leads"`
	AdOrders        int     `json:"ad_orders"`
	OtherOrders     int     `json:"other_orders"`
	MatchedOrders   int     `json:"matched_orders"`
	UnmatchedOrders int     `json:"unmatched_orders"`
	TotalSpent      float64 `json:"total_spent"`
	ConversionPct   float64 `json:"conversion_pct"`

	TotalRevenue *float64 `json:"total_revenue,omitempty"`
	TotalProfit  *float64 `json:"total_profit,omitempty"`
	ROIPct       *float64 `json:"roi_pct,omitempty"`

	PotentialSavings     float64  `json:"potential_savings"`
	ScaleProfit          *float64 `json:"scale_profit,omitempty"`
	ScaleProfitPotential *float64 `json:"scale_profit_potential,omitempty"`

	Distribution Distribution `json:"distribution"`
	Data         DataInfo     `json:"data"`
}

// scaleUplift is the profit multiplier quoted for the scale bucket.
const scaleUplift = 1.5

func pct(n, total int) float64 {
	return round2(safeDiv(float64(n), float64(total)) * 100)
}

func summarize(o *Output, ads []*adAgg, crm crmSplit) Summary {
	var s Summary
	var leads, spent float64
	for _, a := range ads {
		leads += a.leads
		spent += a.spent
	}
	s.TotalLeads = round2(leads)
	s.TotalSpent = round2(spent)
	s.AdOrders = crm.advertising
	s.OtherOrders = crm.other
	for _, m := range o.Rows {
		s.MatchedOrders += m.OrderCount
	}
	s.UnmatchedOrders = s.AdOrders - s.MatchedOrders
	s.ConversionPct = round2(safeDiv(float64(s.AdOrders), leads) * 100)

	if o.HasRevenue {
		var revenue float64
		for _, id := range crm.ids {
			revenue += round2(crm.groups[id].revenue)
		}
		profit := revenue - spent
		s.TotalRevenue = ptr(round2(revenue))
		s.TotalProfit = ptr(round2(profit))
		s.ROIPct = ptr(round2(safeDiv(profit, spent) * 100))

		var scaleProfit float64
		for _, m := range o.Scale {
			scaleProfit += *m.Profit
		}
		s.ScaleProfit = ptr(round2(scaleProfit))
		s.ScaleProfitPotential = ptr(round2(scaleProfit * scaleUplift))
	}

	var savings float64
	for _, m := range o.Remove {
		savings += m.Spent
	}
	s.PotentialSavings = round2(savings)

	d := Distribution{Total: len(o.Rows), Remove: len(o.Remove), Scale: len(o.Scale), Optimize: len(o.Optimize)}
	for _, m := range o.Rows {
		if len(m.Reasons) == 1 && m.Reasons[0] == ReasonStable {
			d.Monitor++
		}
	}
	d.RemovePct = pct(d.Remove, d.Total)
	d.ScalePct = pct(d.Scale, d.Total)
	d.OptimizePct = pct(d.Optimize, d.Total)
	d.MonitorPct = pct(d.Monitor, d.Total)
	s.Distribution = d
	return s
}
