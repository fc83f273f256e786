// Package normalize coerces the raw string values coming out of the
// spreadsheet store into typed amounts and dates. The store guarantees
// nothing about its cells, so both normalizers are deliberately forgiving:
// garbage in means a zero amount or an absent date, never an error.
package normalize

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// amountReplacer strips the tokens the books actually contain. The source
// data only ever uses "," as a thousands separator and ASCII digits, so no
// locale-aware parsing happens here.
var amountReplacer = strings.NewReplacer("₹", "", "Rs.", "", "Rs", "", ",", "")

// Amount parses a raw amount cell. Currency markers, thousands separators
// and surrounding whitespace are removed; whatever remains must parse as a
// plain decimal. Unparseable input yields zero.
func Amount(raw string) decimal.Decimal {
	s := strings.TrimSpace(amountReplacer.Replace(raw))
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// The business records dates day-first; the ISO form shows up in bulk
// imports and scanner output.
var dateFormats = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006-01-02",
	"02/01/06",
}

// Date parses a raw date cell, day-first. The second return is false when
// no format matched; callers must treat such rows as outside any date range
// rather than failing.
func Date(raw string) (time.Time, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateFormats {
		if d, err := time.Parse(layout, s); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}
