package extractor

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/karthik449213/fitgym/internal/membership"
)

// ---------- package-level compiled regexes ----------

var (
	nameRE  = regexp.MustCompile(`(?i:\bmy name is|\bi'?m|\bi am)\s+((?:[A-Z][a-zA-Z'-]*)(?:\s+[A-Z][a-zA-Z'-]*)*)`)
	emailRE = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	phoneRE = regexp.MustCompile(`\(?\+?\d[\d\s().-]{5,}\d`)

	isoDateRE   = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	slashDateRE = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})/(\d{2,4})\b`)
	todayRE     = regexp.MustCompile(`(?i)\btoday\b`)
	tomorrowRE  = regexp.MustCompile(`(?i)\btomorrow\b`)

	digitsRE = regexp.MustCompile(`\d`)
)

// planPatterns match the canonical plan set, both numeric and spelled-out.
// Ordered so that "12" is tried before "1".
var planPatterns = []struct {
	re     *regexp.Regexp
	months int
}{
	{planRE("12", "twelve"), 12},
	{planRE("6", "six"), 6},
	{planRE("3", "three"), 3},
	{planRE("1", "one"), 1},
}

func planRE(num, word string) *regexp.Regexp {
	return regexp.MustCompile(`(?i)\b(?:` + num + `|` + word + `)\s*(?:months?\b|mo\b|m\b)`)
}

// twoDigitYearHorizon bounds how far into the future a normalized two-digit
// year may land before the match is discarded.
const twoDigitYearHorizon = 50

// ScanUtterance runs the heuristic cues over a single user utterance and
// returns whatever partial lead it can find. Unmatched fields are left
// empty; emptiness is only interpreted at merge time. now anchors the
// relative date keywords and the two-digit-year sanity bound.
func ScanUtterance(text string, now time.Time) Lead {
	return Lead{
		Name:      scanName(text),
		Contact:   scanContact(text),
		Plan:      scanPlan(text),
		StartDate: scanStartDate(text, now),
	}
}

func scanName(text string) string {
	m := nameRE.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// scanContact prefers an email-shaped token; a phone-shaped token (7+
// digits, separators allowed) is the fallback.
func scanContact(text string) string {
	if email := emailRE.FindString(text); email != "" {
		return email
	}
	for _, candidate := range phoneRE.FindAllString(text, -1) {
		if isoDateRE.MatchString(candidate) {
			continue // a dashed calendar date is phone-shaped too
		}
		if len(digitsRE.FindAllString(candidate, -1)) >= 7 {
			return strings.TrimSpace(candidate)
		}
	}
	return ""
}

func scanPlan(text string) string {
	for _, p := range planPatterns {
		if p.re.MatchString(text) {
			return membership.PlanLabel(p.months)
		}
	}
	return ""
}

// scanStartDate tries, in priority order: explicit YYYY-MM-DD, then
// M/D/YYYY (two-digit years normalized to 2000+YY), then the relative
// keywords. First valid match wins.
func scanStartDate(text string, now time.Time) string {
	if m := isoDateRE.FindString(text); m != "" {
		if _, err := time.ParseInLocation(membership.DateLayout, m, time.UTC); err == nil {
			return m
		}
	}
	if m := slashDateRE.FindStringSubmatch(text); m != nil {
		if iso := normalizeSlashDate(m[1], m[2], m[3], now); iso != "" {
			return iso
		}
	}
	if todayRE.MatchString(text) {
		return now.Format(membership.DateLayout)
	}
	if tomorrowRE.MatchString(text) {
		return now.AddDate(0, 0, 1).Format(membership.DateLayout)
	}
	return ""
}

func normalizeSlashDate(monthStr, dayStr, yearStr string, now time.Time) string {
	month, _ := strconv.Atoi(monthStr)
	day, _ := strconv.Atoi(dayStr)
	year, _ := strconv.Atoi(yearStr)
	if len(yearStr) == 2 {
		year += 2000
	}
	if year < 2000 || year > now.Year()+twoDigitYearHorizon {
		return ""
	}
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return ""
	}
	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return "" // day overflowed the month, e.g. 2/30
	}
	return d.Format(membership.DateLayout)
}
