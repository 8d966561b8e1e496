// Package analysis joins ad-spend records with CRM orders and turns them into
// per-advertisement metrics, recommendations and dataset totals.
//
// Analyze is pure: it never mutates its input tables and keeps no state
// between calls.
package analysis

import (
	"fmt"

	"github.com/KaramelBytes/adlens-cli/internal/table"
)

// Options controls one analysis run. The zero value is usable; empty parts
// fall back to the defaults.
type Options struct {
	Schema     Schema
	Classifier *Classifier
	Thresholds Thresholds
	Number     NumberFormat
	// Language picks the recommendation labels, e.g. "en" or "ru".
	Language string
}

// DefaultOptions returns the stock schema, keywords and thresholds.
func DefaultOptions() Options {
	return Options{
		Schema:     DefaultSchema(),
		Classifier: NewClassifier(),
		Thresholds: DefaultThresholds(),
	}
}

func (o Options) withDefaults() Options {
	if o.Schema.empty() {
		o.Schema = DefaultSchema()
	}
	if o.Classifier == nil {
		o.Classifier = NewClassifier()
	}
	if o.Thresholds == (Thresholds{}) {
		o.Thresholds = DefaultThresholds()
	}
	return o
}

// Output is the full result of a run. Rows is sorted for display; the three
// buckets keep that order and may overlap.
type Output struct {
	Rows     []AdMetrics `json:"rows"`
	Remove   []AdMetrics `json:"remove"`
	Scale    []AdMetrics `json:"scale"`
	Optimize []AdMetrics `json:"optimize"`

	Summary  Summary  `json:"summary"`
	Averages Averages `json:"averages"`

	HasRevenue     bool `json:"has_revenue"`
	HasCostPerLead bool `json:"has_cost_per_lead"`
	// Columns maps canonical fields to the header each one was read from.
	AdColumns  map[Field]string `json:"ad_columns"`
	CRMColumns map[Field]string `json:"crm_columns"`

	Language string    `json:"language"`
	Warnings []Warning `json:"warnings"`
}

// Locale returns the display locale the output was rendered with.
func (o *Output) Locale() *Locale { return LocaleFor(o.Language) }

// Analyze runs the pipeline over an ad-spend table and a CRM table. The only
// error is *MissingColumnsError; data problems are reported as warnings.
func Analyze(ads, crm *table.Table, opt Options) (*Output, error) {
	opt = opt.withDefaults()
	if ads == nil {
		ads = &table.Table{Name: tableAds}
	}
	if crm == nil {
		crm = &table.Table{Name: tableCRM}
	}

	adCols, missAds := resolveColumns(opt.Schema.Ads, ads.Columns)
	crmCols, missCRM := resolveColumns(opt.Schema.CRM, crm.Columns)
	if len(missAds) > 0 || len(missCRM) > 0 {
		return nil, &MissingColumnsError{Ads: missAds, CRM: missCRM}
	}

	c := &collector{nf: opt.Number}
	if ads.Len() == 0 {
		c.warn(Warning{Kind: WarnEmptyInput, Table: tableAds, Message: "ad table has no data rows"})
	}
	if crm.Len() == 0 {
		c.warn(Warning{Kind: WarnEmptyInput, Table: tableCRM, Message: "CRM table has no data rows"})
	}

	loc := LocaleFor(opt.Language)
	out := &Output{
		HasRevenue:     crmCols.has(FieldRevenue),
		HasCostPerLead: adCols.has(FieldCostPerLead),
		AdColumns:      adCols.header,
		CRMColumns:     crmCols.header,
		Language:       loc.Code,
	}

	adGroups := c.aggregateAds(ads, adCols)
	split := c.aggregateCRM(crm, crmCols, opt.Classifier)

	known := make(map[string]bool, len(adGroups))
	out.Rows = make([]AdMetrics, 0, len(adGroups))
	for _, g := range adGroups {
		known[g.id] = true
		out.Rows = append(out.Rows, c.computeMetrics(g, split.groups[g.id], out.HasRevenue, out.HasCostPerLead))
	}
	for _, id := range split.ids {
		if !known[id] {
			n := split.groups[id].orders
			c.warn(Warning{Kind: WarnUnmatchedOrders, Table: tableCRM, ID: id,
				Message: fmt.Sprintf("%d order(s) reference ad %s, which is not in the ad table", n, id)})
		}
	}

	out.Averages = computeAverages(out.Rows, out.HasRevenue, opt.Thresholds)
	for i := range out.Rows {
		rs := recommend(out.Rows[i], out.HasRevenue, out.Averages, opt.Thresholds)
		out.Rows[i].Reasons = rs
		out.Rows[i].Recommendation = loc.render(rs)
	}
	sortRows(out.Rows, out.HasRevenue)
	out.Remove = bucket(out.Rows, ActionRemove)
	out.Scale = bucket(out.Rows, ActionScale)
	out.Optimize = bucket(out.Rows, ActionOptimize)

	out.Summary = summarize(out, adGroups, split)
	out.Summary.Data = DataInfo{
		AdRows:         ads.Len(),
		Ads:            len(adGroups),
		AdColumns:      len(ads.Columns),
		CRMRows:        crm.Len(),
		CRMColumns:     len(crm.Columns),
		CRMAdvertising: split.advertising,
		CRMOther:       split.other,
	}
	out.Warnings = c.warnings
	if out.Warnings == nil {
		out.Warnings = []Warning{}
	}
	return out, nil
}
