package analysis

// AdMetrics is one advertisement after the join, with derived ratios and its
// recommendation. Revenue-derived fields are nil unless the CRM table has a
// revenue column.
type AdMetrics struct {
	ID            string   `json:"id"`
	Leads         float64  `json:"leads"`
	Spent         float64  `json:"spent"`
	CostPerLead   *float64 `json:"cost_per_lead,omitempty"`
	OrderCount    int      `json:"order_count"`
	TotalRevenue  *float64 `json:"total_revenue,omitempty"`
	AvgOrderValue *float64 `json:"avg_order_value,omitempty"`
	ConversionPct float64  `json:"conversion_pct"`
	CPO           float64  `json:"cpo"`
	CPL           float64  `json:"cpl"`
	ROIPct        *float64 `json:"roi_pct,omitempty"`
	Profit        *float64 `json:"profit,omitempty"`
	ROMI          *float64 `json:"romi,omitempty"`

	Reasons        []Reason `json:"reasons"`
	Recommendation string   `json:"recommendation"`
}

// Has reports whether any of the row's reasons carries action a.
func (m AdMetrics) Has(a Action) bool {
	for _, r := range m.Reasons {
		if r.Action() == a {
			return true
		}
	}
	return false
}

func ptr(v float64) *float64 { return &v }

// computeMetrics joins one ad group with its orders (o may be nil) and
// derives the ratios. Division by zero yields 0, never NaN or Inf.
func (c *collector) computeMetrics(ad *adAgg, o *orderAgg, withRevenue, withCPL bool) AdMetrics {
	m := AdMetrics{
		ID:    ad.id,
		Leads: round2(ad.leads),
		Spent: round2(ad.spent),
	}
	if withCPL && ad.cplN > 0 {
		m.CostPerLead = ptr(round2(ad.cplSum / float64(ad.cplN)))
	}
	if o != nil {
		m.OrderCount = o.orders
	}

	if ad.leads == 0 {
		c.warn(Warning{Kind: WarnZeroLeads, Table: tableAds, ID: ad.id, Field: FieldLeads,
			Message: "ad " + ad.id + " has no leads, conversion and CPL reported as 0"})
	}
	m.ConversionPct = round2(safeDiv(float64(m.OrderCount), ad.leads) * 100)
	if m.OrderCount > 0 {
		m.CPO = round2(ad.spent / float64(m.OrderCount))
	}
	m.CPL = round2(safeDiv(ad.spent, ad.leads))

	if withRevenue {
		var revenue, aov float64
		if o != nil {
			revenue = round2(o.revenue)
			if o.revN > 0 {
				aov = round2(o.revenue / float64(o.revN))
			}
		}
		m.TotalRevenue = ptr(revenue)
		m.AvgOrderValue = ptr(aov)
		profit := revenue - ad.spent
		m.Profit = ptr(round2(profit))
		if ad.spent == 0 {
			c.warn(Warning{Kind: WarnZeroSpend, Table: tableAds, ID: ad.id, Field: FieldSpent,
				Message: "ad " + ad.id + " has no spend, ROI and ROMI reported as 0"})
		}
		m.ROIPct = ptr(round2(safeDiv(profit, ad.spent) * 100))
		m.ROMI = ptr(round2(safeDiv(revenue, ad.spent)))
	}
	return m
}
