package analysis

import (
	"fmt"
	"strings"
)

// MissingColumnsError reports every required field that could not be
// resolved, for both tables at once.
type MissingColumnsError struct {
	Ads []Field
	CRM []Field
}

func (e *MissingColumnsError) Error() string {
	var parts []string
	if len(e.Ads) > 0 {
		parts = append(parts, "ads: "+joinFields(e.Ads))
	}
	if len(e.CRM) > 0 {
		parts = append(parts, "crm: "+joinFields(e.CRM))
	}
	return fmt.Sprintf("missing required columns (%s)", strings.Join(parts, "; "))
}

func joinFields(fs []Field) string {
	s := make([]string, len(fs))
	for i, f := range fs {
		s[i] = string(f)
	}
	return strings.Join(s, ", ")
}

// WarningKind classifies a non-fatal data problem.
type WarningKind string

const (
	WarnEmptyInput      WarningKind = "empty_input"
	WarnMalformedNumber WarningKind = "malformed_number"
	WarnMissingID       WarningKind = "missing_id"
	WarnZeroLeads       WarningKind = "zero_leads"
	WarnZeroSpend       WarningKind = "zero_spend"
	WarnUnmatchedOrders WarningKind = "unmatched_orders"
)

// Warning is a non-fatal problem found while analyzing. Row is the 1-based
// data row (header excluded) when the warning concerns a single cell.
type Warning struct {
	Kind    WarningKind `json:"kind"`
	Table   string      `json:"table,omitempty"`
	Row     int         `json:"row,omitempty"`
	Field   Field       `json:"field,omitempty"`
	Value   string      `json:"value,omitempty"`
	ID      string      `json:"id,omitempty"`
	Message string      `json:"message"`
}

func (w Warning) String() string {
	if w.Row > 0 {
		return fmt.Sprintf("%s row %d: %s", w.Table, w.Row, w.Message)
	}
	if w.Table != "" {
		return fmt.Sprintf("%s: %s", w.Table, w.Message)
	}
	return w.Message
}

const (
	tableAds = "ads"
	tableCRM = "crm"
)
