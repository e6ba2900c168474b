// Package rocdate converts ISO-8601 dates to the Republic-of-China (Minguo)
// calendar representation used on government benefit forms, where the year is
// the Gregorian year minus 1911.
package rocdate

import (
	"fmt"
	"time"
)

// Date is a ROC calendar triple. Year carries no padding; Month and Day are
// always two digits. An unparseable input yields the zero Date.
type Date struct {
	Year  string
	Month string
	Day   string
}

// IsZero reports whether the date is empty.
func (d Date) IsZero() bool {
	return d.Year == "" && d.Month == "" && d.Day == ""
}

// Slash renders the date as "114/01/10". Empty dates render as "".
func (d Date) Slash() string {
	if d.IsZero() {
		return ""
	}
	return d.Year + "/" + d.Month + "/" + d.Day
}

// Format converts an ISO-8601 date string to a ROC Date. Invalid, empty or
// pre-1912 inputs return the zero Date; Format never fails.
func Format(iso string) Date {
	t, ok := parse(iso)
	if !ok {
		return Date{}
	}
	year := t.Year() - 1911
	if year < 1 {
		return Date{}
	}
	return Date{
		Year:  fmt.Sprintf("%d", year),
		Month: fmt.Sprintf("%02d", int(t.Month())),
		Day:   fmt.Sprintf("%02d", t.Day()),
	}
}

// FormatRange renders "start ~ end" with both endpoints in slash form.
// A missing endpoint leaves its side empty; two missing endpoints yield "".
func FormatRange(startISO, endISO string) string {
	start := Format(startISO).Slash()
	end := Format(endISO).Slash()
	if start == "" && end == "" {
		return ""
	}
	return start + " ~ " + end
}

// Today returns the current date in the supplied location as a ROC Date.
func Today(now time.Time) Date {
	return Format(now.Format("2006-01-02"))
}

func parse(iso string) (time.Time, bool) {
	if iso == "" {
		return time.Time{}, false
	}
	// The persistence layer emits either a bare date or a full RFC 3339
	// timestamp depending on the column type.
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
