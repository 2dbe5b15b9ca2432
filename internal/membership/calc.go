// Package membership maps plan identifiers to durations and computes
// membership expiry dates.
package membership

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// StatusActive is the only status this system ever assigns to a member.
const StatusActive = "active"

// DateLayout is the calendar-date wire format used throughout.
const DateLayout = "2006-01-02"

// CanonicalMonths are the plans offered to visitors.
var CanonicalMonths = []int{1, 3, 6, 12}

var spelledMonths = map[string]int{
	"one":    1,
	"two":    2,
	"three":  3,
	"four":   4,
	"five":   5,
	"six":    6,
	"seven":  7,
	"eight":  8,
	"nine":   9,
	"ten":    10,
	"eleven": 11,
	"twelve": 12,
}

// ParsePlanMonths resolves a plan identifier to a month count. It accepts
// the canonical strings ("3 months"), compact forms ("3m", "3mo"),
// spelled-out numbers ("three months") and bare integers ("3"),
// case-insensitively. Returns false for anything it cannot map to a
// positive month count.
func ParsePlanMonths(plan string) (int, bool) {
	s := strings.ToLower(strings.TrimSpace(plan))
	if s == "" {
		return 0, false
	}
	for _, suffix := range []string{"months", "month", "mos", "mo", "m"} {
		if strings.HasSuffix(s, suffix) {
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
			break
		}
	}
	if s == "" {
		return 0, false
	}
	if n, ok := spelledMonths[s]; ok {
		return n, true
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// PlanLabel renders a month count in canonical plan form ("1 month",
// "3 months").
func PlanLabel(months int) string {
	if months == 1 {
		return "1 month"
	}
	return fmt.Sprintf("%d months", months)
}

// DurationDays maps a month count to a membership duration in days. The
// canonical plans carry fixed durations; any other positive count falls
// back to a flat 30 days per month.
func DurationDays(months int) (int, bool) {
	switch months {
	case 1:
		return 30, true
	case 3:
		return 90, true
	case 6:
		return 180, true
	case 12:
		return 365, true
	}
	if months > 0 {
		return months * 30, true
	}
	return 0, false
}

// Expiry computes the membership expiry date for a start date and month
// count. Arithmetic is date-only in UTC so the result is identical across
// machine-local offsets.
func Expiry(startDate string, months int) (string, error) {
	days, ok := DurationDays(months)
	if !ok {
		return "", fmt.Errorf("no duration for %d months", months)
	}
	start, err := time.ParseInLocation(DateLayout, startDate, time.UTC)
	if err != nil {
		return "", fmt.Errorf("parse start date %q: %w", startDate, err)
	}
	return start.AddDate(0, 0, days).Format(DateLayout), nil
}
