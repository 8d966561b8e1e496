package analysis

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Field is a canonical column name the pipeline works with.
type Field string

const (
	FieldID          Field = "id"
	FieldLeads       Field = "leads"
	FieldCostPerLead Field = "cost_per_lead"
	FieldSpent       Field = "spent"
	FieldClients     Field = "clients"
	FieldRevenue     Field = "revenue"
)

// FieldSpec lists the header spellings accepted for a field, in priority order.
type FieldSpec struct {
	Field    Field
	Required bool
	Aliases  []string
}

// Schema holds the alias tables for both inputs.
type Schema struct {
	Ads []FieldSpec
	CRM []FieldSpec
}

// DefaultSchema returns the built-in alias tables.
func DefaultSchema() Schema {
	return Schema{
		Ads: []FieldSpec{
			{Field: FieldID, Required: true, Aliases: []string{"ID объявления", "ID", "Ad ID", "AdID", "ID рекламы", "ID кампании"}},
			{Field: FieldLeads, Required: true, Aliases: []string{"Результат", "Лиды", "Leads", "Клики", "Clicks", "Конверсии"}},
			{Field: FieldCostPerLead, Aliases: []string{"Цена за результат, ₽", "Цена за результат", "Cost per Result", "CPL", "Цена за лид"}},
			{Field: FieldSpent, Required: true, Aliases: []string{"Потрачено всего, ₽", "Потрачено", "Затраты", "Spent", "Cost", "Расходы"}},
		},
		CRM: []FieldSpec{
			{Field: FieldClients, Required: true, Aliases: []string{"Клиенты", "Клиент", "Client", "Customers", "Заказчики"}},
			{Field: FieldID, Required: true, Aliases: []string{"ID объявления", "ID", "Ad ID", "AdID", "ID рекламы", "Источник"}},
			{Field: FieldRevenue, Aliases: []string{"Сумма заказов", "Сумма заказа", "Сумма", "Заказ", "Revenue", "Выручка", "Amount"}},
		},
	}
}

// Extend returns a copy of s with extra aliases appended after the built-in
// ones. Keys of ads and crm are canonical field names; unknown keys are ignored.
func (s Schema) Extend(ads, crm map[string][]string) Schema {
	return Schema{Ads: extendSpecs(s.Ads, ads), CRM: extendSpecs(s.CRM, crm)}
}

func extendSpecs(specs []FieldSpec, extra map[string][]string) []FieldSpec {
	out := make([]FieldSpec, len(specs))
	for i, sp := range specs {
		aliases := append([]string(nil), sp.Aliases...)
		aliases = append(aliases, extra[string(sp.Field)]...)
		out[i] = FieldSpec{Field: sp.Field, Required: sp.Required, Aliases: aliases}
	}
	return out
}

func (s Schema) empty() bool { return len(s.Ads) == 0 && len(s.CRM) == 0 }

var (
	reSpaces = regexp.MustCompile(`\s+`)
	reComma  = regexp.MustCompile(`\s*,\s*`)
)

// NormalizeHeader cleans a header cell: NFC form, trimmed, whitespace runs
// collapsed to one space and commas followed by exactly one space.
func NormalizeHeader(h string) string {
	s := norm.NFC.String(h)
	s = strings.TrimSpace(s)
	s = reSpaces.ReplaceAllString(s, " ")
	s = reComma.ReplaceAllString(s, ", ")
	return s
}

// columnMap records where each resolved field lives in a table.
type columnMap struct {
	index  map[Field]int
	header map[Field]string
}

func (m columnMap) has(f Field) bool {
	_, ok := m.index[f]
	return ok
}

// resolveColumns maps fields to column positions. Exact matches against the
// cleaned headers win; a case-folded comparison is the fallback. The first
// alias that matches is used.
func resolveColumns(specs []FieldSpec, columns []string) (columnMap, []Field) {
	fold := cases.Fold()
	clean := make([]string, len(columns))
	folded := make([]string, len(columns))
	for i, c := range columns {
		clean[i] = NormalizeHeader(c)
		folded[i] = fold.String(clean[i])
	}

	m := columnMap{index: map[Field]int{}, header: map[Field]string{}}
	var missing []Field
	for _, sp := range specs {
		idx := findAlias(sp.Aliases, clean, func(a string) string { return NormalizeHeader(a) })
		if idx < 0 {
			idx = findAlias(sp.Aliases, folded, func(a string) string { return fold.String(NormalizeHeader(a)) })
		}
		if idx < 0 {
			if sp.Required {
				missing = append(missing, sp.Field)
			}
			continue
		}
		m.index[sp.Field] = idx
		m.header[sp.Field] = columns[idx]
	}
	return m, missing
}

func findAlias(aliases, headers []string, key func(string) string) int {
	for _, a := range aliases {
		k := key(a)
		for i, h := range headers {
			if h == k {
				return i
			}
		}
	}
	return -1
}
