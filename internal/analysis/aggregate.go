package analysis

import (
	"fmt"
	"sort"
	"strings"

	"github.com/KaramelBytes/adlens-cli/internal/table"
)

type adAgg struct {
	id     string
	leads  float64
	spent  float64
	cplSum float64
	cplN   int
}

type orderAgg struct {
	id      string
	orders  int
	revenue float64
	revN    int
}

type crmSplit struct {
	groups      map[string]*orderAgg
	ids         []string
	advertising int
	other       int
}

// collector accumulates warnings while the tables are walked.
type collector struct {
	nf       NumberFormat
	warnings []Warning
}

func (c *collector) warn(w Warning) { c.warnings = append(c.warnings, w) }

// number parses a cell. present is false for empty cells; malformed cells
// count as present with value 0 and produce a warning.
func (c *collector) number(tbl string, row int, f Field, cell string) (v float64, present bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}
	x, ok := parseNumber(s, c.nf)
	if !ok {
		c.warn(Warning{
			Kind: WarnMalformedNumber, Table: tbl, Row: row, Field: f, Value: cell,
			Message: fmt.Sprintf("%s value %q is not a number, using 0", f, cell),
		})
		return 0, true
	}
	return x, true
}

func (c *collector) aggregateAds(t *table.Table, cols columnMap) []*adAgg {
	idIdx, leadsIdx, spentIdx := cols.index[FieldID], cols.index[FieldLeads], cols.index[FieldSpent]
	cplIdx, withCPL := cols.index[FieldCostPerLead]

	groups := map[string]*adAgg{}
	for i := range t.Rows {
		row := i + 1
		id := canonicalID(t.Cell(i, idIdx))
		if id == "" {
			c.warn(Warning{Kind: WarnMissingID, Table: tableAds, Row: row, Field: FieldID, Message: "row has no advertisement id, skipped"})
			continue
		}
		g, ok := groups[id]
		if !ok {
			g = &adAgg{id: id}
			groups[id] = g
		}
		leads, _ := c.number(tableAds, row, FieldLeads, t.Cell(i, leadsIdx))
		spent, _ := c.number(tableAds, row, FieldSpent, t.Cell(i, spentIdx))
		g.leads += leads
		g.spent += spent
		if withCPL {
			if cpl, present := c.number(tableAds, row, FieldCostPerLead, t.Cell(i, cplIdx)); present {
				g.cplSum += cpl
				g.cplN++
			}
		}
	}

	out := make([]*adAgg, 0, len(groups))
	for _, g := range groups {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return lessID(out[i].id, out[j].id) })
	return out
}

func (c *collector) aggregateCRM(t *table.Table, cols columnMap, cl *Classifier) crmSplit {
	idIdx := cols.index[FieldID]
	revIdx, withRevenue := cols.index[FieldRevenue]

	split := crmSplit{groups: map[string]*orderAgg{}}
	for i := range t.Rows {
		raw := t.Cell(i, idIdx)
		if cl.Classify(raw) != SourceAdvertising {
			split.other++
			continue
		}
		split.advertising++
		id := canonicalID(raw)
		g, ok := split.groups[id]
		if !ok {
			g = &orderAgg{id: id}
			split.groups[id] = g
			split.ids = append(split.ids, id)
		}
		// Every attributed row is an order, with or without a client name.
		g.orders++
		if withRevenue {
			if rev, present := c.number(tableCRM, i+1, FieldRevenue, t.Cell(i, revIdx)); present {
				g.revenue += rev
				g.revN++
			}
		}
	}
	sort.Slice(split.ids, func(i, j int) bool { return lessID(split.ids[i], split.ids[j]) })
	return split
}

// lessID orders digit-only ids numerically ahead of everything else, and
// other ids lexically.
func lessID(a, b string) bool {
	da, db := isDigits(a), isDigits(b)
	switch {
	case da && db:
		ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
		if len(ta) != len(tb) {
			return len(ta) < len(tb)
		}
		if ta != tb {
			return ta < tb
		}
		return a < b
	case da != db:
		return da
	default:
		return a < b
	}
}
