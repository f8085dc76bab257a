package gateway

import (
	"fmt"
	"time"
)

const filterDateLayout = "2006-01-02"

// FormatDateRange builds a created-date filter expression in the GitHub
// query dialect from the optional start/end dates (YYYY-MM-DD) and a
// days-back count (negative means unset).
//
// Precedence: days derives start from now and defaults end to today; with
// both bounds the result is "start..end", with one bound ">=start" or
// "<=end", and with neither the result is empty (no filter). Date strings
// are not validated here; a malformed date is passed through and rejected
// by the query layer.
func FormatDateRange(start, end string, days int, now time.Time) string {
	if days >= 0 {
		start = now.AddDate(0, 0, -days).Format(filterDateLayout)
		if end == "" {
			end = now.Format(filterDateLayout)
		}
	}
	switch {
	case start != "" && end != "":
		return fmt.Sprintf("%s..%s", start, end)
	case start != "":
		return fmt.Sprintf(">=%s", start)
	case end != "":
		return fmt.Sprintf("<=%s", end)
	default:
		return ""
	}
}
