package analysis

import (
	"encoding/json"
	"sort"
	"strings"
)

// Action is the kind of decision a reason asks for.
type Action string

const (
	ActionRemove   Action = "remove"
	ActionScale    Action = "scale"
	ActionOptimize Action = "optimize"
	ActionTest     Action = "test"
	ActionMonitor  Action = "monitor"
)

// Reason is one fired recommendation rule.
type Reason string

const (
	ReasonNoOrders         Reason = "no_orders"
	ReasonNegativeROI      Reason = "negative_roi"
	ReasonLowROI           Reason = "low_roi"
	ReasonHighROI          Reason = "high_roi"
	ReasonHighProfitROI    Reason = "high_profit_and_roi"
	ReasonZeroConversion   Reason = "zero_conversion"
	ReasonLowConversion    Reason = "below_average_conversion"
	ReasonHighConversion   Reason = "high_conversion"
	ReasonVolumeConversion Reason = "high_volume_good_conversion"
	ReasonHighCPO          Reason = "high_cost_per_order"
	ReasonInsufficientData Reason = "insufficient_data"
	ReasonStable           Reason = "stable"
)

var reasonActions = map[Reason]Action{
	ReasonNoOrders:         ActionRemove,
	ReasonNegativeROI:      ActionRemove,
	ReasonZeroConversion:   ActionRemove,
	ReasonLowROI:           ActionOptimize,
	ReasonLowConversion:    ActionOptimize,
	ReasonHighCPO:          ActionOptimize,
	ReasonHighROI:          ActionScale,
	ReasonHighProfitROI:    ActionScale,
	ReasonHighConversion:   ActionScale,
	ReasonVolumeConversion: ActionScale,
	ReasonInsufficientData: ActionTest,
	ReasonStable:           ActionMonitor,
}

// Action returns the action the reason belongs to.
func (r Reason) Action() Action { return reasonActions[r] }

// Thresholds are the numeric cut-offs of the rule set.
type Thresholds struct {
	LowROI              float64 `mapstructure:"low_roi" yaml:"low_roi" json:"low_roi"`
	HighROI             float64 `mapstructure:"high_roi" yaml:"high_roi" json:"high_roi"`
	HighProfit          float64 `mapstructure:"high_profit" yaml:"high_profit" json:"high_profit"`
	HighProfitROI       float64 `mapstructure:"high_profit_roi" yaml:"high_profit_roi" json:"high_profit_roi"`
	LowConversionFactor float64 `mapstructure:"low_conversion_factor" yaml:"low_conversion_factor" json:"low_conversion_factor"`
	HighConversion      float64 `mapstructure:"high_conversion" yaml:"high_conversion" json:"high_conversion"`
	HighLeadsFactor     float64 `mapstructure:"high_leads_factor" yaml:"high_leads_factor" json:"high_leads_factor"`
	HighCPOFactor       float64 `mapstructure:"high_cpo_factor" yaml:"high_cpo_factor" json:"high_cpo_factor"`
	CPOCeiling          float64 `mapstructure:"cpo_ceiling" yaml:"cpo_ceiling" json:"cpo_ceiling"`
	MinLeads            float64 `mapstructure:"min_leads" yaml:"min_leads" json:"min_leads"`
}

// DefaultThresholds returns the stock rule cut-offs.
func DefaultThresholds() Thresholds {
	return Thresholds{
		LowROI:              50,
		HighROI:             150,
		HighProfit:          10000,
		HighProfitROI:       100,
		LowConversionFactor: 0.5,
		HighConversion:      30,
		HighLeadsFactor:     2,
		HighCPOFactor:       3,
		CPOCeiling:          100000,
		MinLeads:            10,
	}
}

// Average is a dataset mean that may be undefined when nothing qualified for
// the sample. Comparisons against an undefined average are always false.
type Average struct {
	Value   float64
	Defined bool
}

func (a Average) MarshalJSON() ([]byte, error) {
	if !a.Defined {
		return []byte("null"), nil
	}
	return json.Marshal(a.Value)
}

func (a *Average) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = Average{}
		return nil
	}
	a.Defined = true
	return json.Unmarshal(b, &a.Value)
}

// above reports x > a*factor, false when a is undefined.
func (a Average) above(x, factor float64) bool { return a.Defined && x > a.Value*factor }

// below reports x < a*factor, false when a is undefined.
func (a Average) below(x, factor float64) bool { return a.Defined && x < a.Value*factor }

// Averages are the dataset-wide baselines the relative rules compare against.
type Averages struct {
	Conversion Average `json:"conversion_pct"`
	ROI        Average `json:"roi_pct"`
	CPO        Average `json:"cpo"`
	Leads      Average `json:"leads"`
}

func mean(vals []float64) Average {
	if len(vals) == 0 {
		return Average{}
	}
	var s float64
	for _, v := range vals {
		s += v
	}
	return Average{Value: s / float64(len(vals)), Defined: true}
}

func computeAverages(rows []AdMetrics, withRevenue bool, th Thresholds) Averages {
	var conv, roi, cpo, leads []float64
	for _, m := range rows {
		if m.ConversionPct != 0 {
			conv = append(conv, m.ConversionPct)
		}
		if withRevenue && *m.ROIPct != 0 {
			roi = append(roi, *m.ROIPct)
		}
		if m.CPO != 0 && m.CPO < th.CPOCeiling {
			cpo = append(cpo, m.CPO)
		}
		leads = append(leads, m.Leads)
	}
	avg := Averages{Conversion: mean(conv), CPO: mean(cpo), Leads: mean(leads)}
	if withRevenue {
		avg.ROI = mean(roi)
	} else {
		avg.ROI = Average{Defined: true}
	}
	return avg
}

// recommend evaluates the rule set for one row. A row without orders gets
// the no-orders reason and nothing else.
func recommend(m AdMetrics, withRevenue bool, avg Averages, th Thresholds) []Reason {
	if m.OrderCount == 0 {
		return []Reason{ReasonNoOrders}
	}
	var rs []Reason
	if withRevenue {
		roi, profit := *m.ROIPct, *m.Profit
		if roi < 0 {
			rs = append(rs, ReasonNegativeROI)
		} else if roi < th.LowROI {
			rs = append(rs, ReasonLowROI)
		}
		if roi > th.HighROI {
			rs = append(rs, ReasonHighROI)
		}
		if profit > th.HighProfit && roi > th.HighProfitROI {
			rs = append(rs, ReasonHighProfitROI)
		}
	} else {
		conv := m.ConversionPct
		if conv == 0 {
			rs = append(rs, ReasonZeroConversion)
		} else if avg.Conversion.below(conv, th.LowConversionFactor) {
			rs = append(rs, ReasonLowConversion)
		}
		if conv > th.HighConversion {
			rs = append(rs, ReasonHighConversion)
		}
		if avg.Leads.above(m.Leads, th.HighLeadsFactor) && avg.Conversion.above(conv, 1) {
			rs = append(rs, ReasonVolumeConversion)
		}
	}
	if m.CPO > 0 && avg.CPO.above(m.CPO, th.HighCPOFactor) {
		rs = append(rs, ReasonHighCPO)
	}
	// Unreachable: zero orders already returned above.
	if m.Leads < th.MinLeads && m.OrderCount == 0 {
		rs = append(rs, ReasonInsufficientData)
	}
	if len(rs) == 0 {
		rs = append(rs, ReasonStable)
	}
	return rs
}

func (l *Locale) render(rs []Reason) string {
	parts := make([]string, len(rs))
	for i, r := range rs {
		parts[i] = l.Reason(r)
	}
	return strings.Join(parts, "; ")
}

// sortRows orders by ROI then conversion, both descending, or by conversion
// alone without revenue. Ties keep their incoming order.
func sortRows(rows []AdMetrics, withRevenue bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		if withRevenue && *rows[i].ROIPct != *rows[j].ROIPct {
			return *rows[i].ROIPct > *rows[j].ROIPct
		}
		return rows[i].ConversionPct > rows[j].ConversionPct
	})
}

func bucket(rows []AdMetrics, a Action) []AdMetrics {
	out := []AdMetrics{}
	for _, m := range rows {
		if m.Has(a) {
			out = append(out, m)
		}
	}
	return out
}
