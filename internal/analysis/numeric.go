package analysis

import (
	"math"
	"strconv"
	"strings"
)

// NumberFormat fixes the locale of numeric cells. Zero values auto-detect
// per cell.
type NumberFormat struct {
	DecimalSeparator   rune
	ThousandsSeparator rune
}

var currencyMarks = []string{"₽", "руб.", "руб", "$", "€", "%"}

// parseNumber reads a spreadsheet-style number such as "1 234,5", "1,234.50"
// or "150 ₽". The second result is false when the cell is not a number;
// callers check for empty cells before calling.
func parseNumber(s string, nf NumberFormat) (float64, bool) {
	raw := strings.TrimSpace(s)
	for _, m := range currencyMarks {
		raw = strings.ReplaceAll(raw, m, "")
	}
	raw = strings.NewReplacer("\u00A0", " ", "\u202F", " ").Replace(raw)
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}

	dec, thou := nf.DecimalSeparator, nf.ThousandsSeparator
	switch {
	case dec == 0 && thou != 0:
		dec = '.'
		if thou == '.' {
			dec = ','
		}
	case dec == 0:
		dec, thou = detectSeparators(raw)
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' ', '\''} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
		raw = strings.ReplaceAll(raw, " ", "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// detectSeparators guesses the decimal and thousands marks of raw. The
// later of ',' and '.' is the decimal mark; a mark that occurs more than
// once can only group thousands.
func detectSeparators(raw string) (dec, thou rune) {
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0:
		if cpos > dpos {
			return ',', '.'
		}
		return '.', ','
	case cpos >= 0:
		if strings.Count(raw, ",") > 1 {
			return '.', ','
		}
		return ',', 0
	case dpos >= 0 && strings.Count(raw, ".") > 1:
		return ',', '.'
	}
	return '.', 0
}

// canonicalID trims an identifier and drops a zero fractional part, so
// "12345.0" as written by spreadsheet tools joins with "12345".
func canonicalID(s string) string {
	v := strings.TrimSpace(s)
	if i := strings.IndexByte(v, '.'); i > 0 {
		if isDigits(v[:i]) && strings.Trim(v[i+1:], "0") == "" && len(v) > i+1 {
			return v[:i]
		}
	}
	return v
}

// round2 rounds half away from zero to two decimal places.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
